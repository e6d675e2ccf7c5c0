// Package finnhubApi is the quote and historical-candle source for US
// market symbols (https://finnhub.io/docs/api).
package finnhubApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dokyun-kim/gorich/config"
	"github.com/dokyun-kim/gorich/internal/externalApi"
	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type FinnhubApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *FinnhubApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Finnhub.Url).
		SetQueryParam("token", cfg.API.Finnhub.Token)
	return &FinnhubApi{client: client}
}

type rawQuote struct {
	Current      float64 `json:"c"`
	DayChange    float64 `json:"d"`
	DayChangePct float64 `json:"dp"`
	PrevClose    float64 `json:"pc"`
}

func (a *FinnhubApi) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FinnhubApi.Quote"

	slog.Debug("Quote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbol", symbol).
		Get("/quote")

	if err != nil {
		slog.Error("error while dialing finnhub", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	if resp.StatusCode() != http.StatusOK {
		slog.Error("finnhub returned non-200", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()))
		return model.Quote{}, fmt.Errorf("finnhub quote status %d", resp.StatusCode())
	}

	raw := rawQuote{}
	err = json.Unmarshal(resp.Body(), &raw)
	if err != nil {
		slog.Error("can't unmarshal finnhub quote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	// Finnhub answers unknown symbols with an all-zero quote body.
	if raw.Current == 0 && raw.PrevClose == 0 {
		slog.Warn("symbol not found in finnhub", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
		return model.Quote{}, externalApi.ErrNotFound
	}

	slog.Debug("Quote completed", slog.String("rqID", rqID), slog.String("op", op))

	return model.Quote{
		Price:        decimal.NewFromFloat(raw.Current),
		DayChange:    decimal.NewFromFloat(raw.DayChange),
		DayChangePct: decimal.NewFromFloat(raw.DayChangePct),
	}, nil
}

type rawCandles struct {
	Close  []float64 `json:"c"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Volume []float64 `json:"v"`
	Time   []int64   `json:"t"`
	Status string    `json:"s"`
}

func (a *FinnhubApi) Candles(ctx context.Context, symbol string, from, to time.Time) ([]model.Candle, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FinnhubApi.Candles"

	slog.Debug("Candles start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"symbol":     symbol,
			"resolution": "D",
			"from":       fmt.Sprintf("%d", from.Unix()),
			"to":         fmt.Sprintf("%d", to.Unix()),
		}).
		Get("/stock/candle")

	if err != nil {
		slog.Error("error while dialing finnhub", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("finnhub candle status %d", resp.StatusCode())
	}

	raw := rawCandles{}
	err = json.Unmarshal(resp.Body(), &raw)
	if err != nil {
		slog.Error("can't unmarshal finnhub candles", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	if raw.Status == "no_data" {
		return nil, externalApi.ErrNotFound
	}

	n := len(raw.Time)
	if len(raw.Close) != n || len(raw.Open) != n || len(raw.High) != n || len(raw.Low) != n || len(raw.Volume) != n {
		return nil, fmt.Errorf("finnhub candle arrays length mismatch")
	}

	candles := make([]model.Candle, 0, n)
	for i := 0; i < n; i++ {
		candles = append(candles, model.Candle{
			Date:   time.Unix(raw.Time[i], 0).UTC(),
			Open:   decimal.NewFromFloat(raw.Open[i]),
			High:   decimal.NewFromFloat(raw.High[i]),
			Low:    decimal.NewFromFloat(raw.Low[i]),
			Close:  decimal.NewFromFloat(raw.Close[i]),
			Volume: decimal.NewFromFloat(raw.Volume[i]),
		})
	}

	slog.Debug("Candles completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(candles)))

	return candles, nil
}
