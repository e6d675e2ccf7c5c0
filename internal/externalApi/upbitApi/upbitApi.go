// Package upbitApi fetches crypto tickers from Upbit. Crypto trades on
// Upbit are quoted in KRW, so these quotes need no FX conversion.
package upbitApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dokyun-kim/gorich/config"
	"github.com/dokyun-kim/gorich/internal/externalApi"
	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type UpbitApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *UpbitApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Upbit.Url)
	return &UpbitApi{client: client}
}

type rawTicker struct {
	TradePrice        float64 `json:"trade_price"`
	SignedChangePrice float64 `json:"signed_change_price"`
	SignedChangeRate  float64 `json:"signed_change_rate"`
}

// Quote returns the KRW ticker for a crypto symbol, e.g. BTC -> KRW-BTC.
func (a *UpbitApi) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "UpbitApi.Quote"

	slog.Debug("Quote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("markets", "KRW-"+symbol).
		Get("/v1/ticker")

	if err != nil {
		slog.Error("error while dialing upbit", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	// Upbit answers unknown markets with 404 and an error body.
	if resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusBadRequest {
		slog.Warn("market not found in upbit", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
		return model.Quote{}, externalApi.ErrNotFound
	}

	if resp.StatusCode() != http.StatusOK {
		slog.Error("upbit returned non-200", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()))
		return model.Quote{}, fmt.Errorf("upbit ticker status %d", resp.StatusCode())
	}

	tickers := []rawTicker{}
	err = json.Unmarshal(resp.Body(), &tickers)
	if err != nil {
		slog.Error("can't unmarshal upbit ticker", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	if len(tickers) == 0 {
		return model.Quote{}, externalApi.ErrNotFound
	}

	slog.Debug("Quote completed", slog.String("rqID", rqID), slog.String("op", op))

	t := tickers[0]
	return model.Quote{
		Price:        decimal.NewFromFloat(t.TradePrice),
		DayChange:    decimal.NewFromFloat(t.SignedChangePrice),
		DayChangePct: decimal.NewFromFloat(t.SignedChangeRate * 100),
	}, nil
}
