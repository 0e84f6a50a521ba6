package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/ricmaia/carteira/config"
	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/internal/timeseries"
	"github.com/ricmaia/carteira/utils"
)

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func historyKey(ticker string, params model.FetchParams) string {
	return fmt.Sprintf("history:%s;%s", ticker, params.Key())
}

func (r *RedisCache) GetHistory(ctx context.Context, ticker string, params model.FetchParams) (timeseries.Table, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetHistory start", slog.String("rqID", rqID))

	key := historyKey(ticker, params)
	res, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		slog.Debug("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return timeseries.Table{}, err
	}

	table := timeseries.Table{}
	err = json.Unmarshal([]byte(res), &table)
	if err != nil {
		slog.Error(
			"can't unmarshall table in GetHistory",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("key", key),
		)
		return timeseries.Table{}, errors.New("can't unmarshall table")
	}

	slog.Debug("GetHistory finished", slog.String("rqID", rqID))

	return table, nil
}

func (r *RedisCache) SetHistory(ctx context.Context, ticker string, params model.FetchParams, table timeseries.Table) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetHistory start", slog.String("rqID", rqID))

	tableJson, err := json.Marshal(table)
	if err != nil {
		slog.Error("can't marshall table in SetHistory", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshall table")
	}

	key := historyKey(ticker, params)
	_, err = r.redis.Set(ctx, key, tableJson, r.cfg.Cache.HistoryExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return err
	}

	slog.Debug("SetHistory finished", slog.String("rqID", rqID))

	return nil
}
