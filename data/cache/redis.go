// Package cache holds the adapter-boundary TTL cache for quotes and the
// USD/KRW rate. The valuation core never caches anything itself.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dokyun-kim/gorich/config"
	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const fxRateKey = "fx:USDKRW"

func quoteKey(country, symbol string) string {
	return "quote:" + country + ":" + symbol
}

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func (r *RedisCache) SetQuote(ctx context.Context, country, symbol string, quote model.Quote) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SetQuote"

	quoteJson, err := json.Marshal(quote)
	if err != nil {
		slog.Error(
			"can't marshal quote in SetQuote",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("err", err.Error()),
			slog.Any("quote", quote),
		)
		return errors.New("can't marshal quote")
	}

	_, err = r.redis.Set(ctx, quoteKey(country, symbol), quoteJson, r.cfg.Cache.QuotesExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (r *RedisCache) GetQuote(ctx context.Context, country, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.GetQuote"

	res, err := r.redis.Get(ctx, quoteKey(country, symbol)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return model.Quote{}, err
	}

	quote := model.Quote{}
	err = json.Unmarshal([]byte(res), &quote)
	if err != nil {
		slog.Error(
			"can't unmarshal quote in GetQuote",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return model.Quote{}, errors.New("can't unmarshal quote")
	}

	return quote, nil
}

func (r *RedisCache) SetUsdToKrwRate(ctx context.Context, rate decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SetUsdToKrwRate"

	_, err := r.redis.Set(ctx, fxRateKey, rate.String(), r.cfg.Cache.FxExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (r *RedisCache) GetUsdToKrwRate(ctx context.Context) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.GetUsdToKrwRate"

	res, err := r.redis.Get(ctx, fxRateKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return decimal.Zero, err
	}

	rate, err := decimal.NewFromString(res)
	if err != nil {
		slog.Error("can't parse cached fx rate", slog.String("rqID", rqID), slog.String("op", op), slog.String("value", res))
		return decimal.Zero, errors.New("can't parse cached fx rate")
	}

	return rate, nil
}
