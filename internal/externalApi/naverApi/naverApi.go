// Package naverApi fetches Korean stock quotes and the USD/KRW rate from
// the Naver Finance front API. Naver serialises numbers as comma-grouped
// strings ("71,200"), so everything goes through parseAmount.
package naverApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dokyun-kim/gorich/config"
	"github.com/dokyun-kim/gorich/internal/externalApi"
	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type NaverApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *NaverApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Naver.Url)
	return &NaverApi{client: client}
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}

type rawStock struct {
	ClosePrice      string `json:"closePrice"`
	CompareToPrev   string `json:"compareToPreviousClosePrice"`
	FluctuationsPct string `json:"fluctuationsRatio"`
}

type stockResponse struct {
	Datas []rawStock `json:"datas"`
}

// Quote returns the quote for a KRX symbol (6-digit code, e.g. 005930).
func (a *NaverApi) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "NaverApi.Quote"

	slog.Debug("Quote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get("/api/realtime/domestic/stock/" + symbol)

	if err != nil {
		slog.Error("error while dialing naver", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		slog.Warn("symbol not found in naver", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
		return model.Quote{}, externalApi.ErrNotFound
	}

	if resp.StatusCode() != http.StatusOK {
		slog.Error("naver returned non-200", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()))
		return model.Quote{}, fmt.Errorf("naver stock status %d", resp.StatusCode())
	}

	body := stockResponse{}
	err = json.Unmarshal(resp.Body(), &body)
	if err != nil {
		slog.Error("can't unmarshal naver stock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	if len(body.Datas) == 0 {
		return model.Quote{}, externalApi.ErrNotFound
	}

	raw := body.Datas[0]
	price, err := parseAmount(raw.ClosePrice)
	if err != nil {
		slog.Error("can't parse naver closePrice", slog.String("rqID", rqID), slog.String("op", op), slog.String("value", raw.ClosePrice))
		return model.Quote{}, fmt.Errorf("parse naver closePrice: %w", err)
	}
	change, err := parseAmount(raw.CompareToPrev)
	if err != nil {
		return model.Quote{}, fmt.Errorf("parse naver change: %w", err)
	}
	changePct, err := parseAmount(raw.FluctuationsPct)
	if err != nil {
		return model.Quote{}, fmt.Errorf("parse naver fluctuationsRatio: %w", err)
	}

	slog.Debug("Quote completed", slog.String("rqID", rqID), slog.String("op", op))

	return model.Quote{
		Price:        price,
		DayChange:    change,
		DayChangePct: changePct,
	}, nil
}

type fxResponse struct {
	IsSuccess bool `json:"isSuccess"`
	Result    struct {
		ClosePrice string `json:"closePrice"`
	} `json:"result"`
}

// UsdToKrwRate returns the current USD/KRW exchange rate.
func (a *NaverApi) UsdToKrwRate(ctx context.Context) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "NaverApi.UsdToKrwRate"

	slog.Debug("UsdToKrwRate start", slog.String("rqID", rqID), slog.String("op", op))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"category":    "exchange",
			"reutersCode": "FX_USDKRW",
		}).
		Get("/front-api/marketIndex/productDetail")

	if err != nil {
		slog.Error("error while dialing naver", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return decimal.Zero, err
	}

	if resp.StatusCode() != http.StatusOK {
		slog.Error("naver returned non-200", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()))
		return decimal.Zero, fmt.Errorf("naver fx status %d", resp.StatusCode())
	}

	body := fxResponse{}
	err = json.Unmarshal(resp.Body(), &body)
	if err != nil {
		slog.Error("can't unmarshal naver fx", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return decimal.Zero, err
	}

	if !body.IsSuccess {
		return decimal.Zero, externalApi.ErrNotFound
	}

	rate, err := parseAmount(body.Result.ClosePrice)
	if err != nil {
		slog.Error("can't parse naver fx rate", slog.String("rqID", rqID), slog.String("op", op), slog.String("value", body.Result.ClosePrice))
		return decimal.Zero, fmt.Errorf("parse naver fx rate: %w", err)
	}

	slog.Debug("UsdToKrwRate completed", slog.String("rqID", rqID), slog.String("op", op))

	return rate, nil
}
