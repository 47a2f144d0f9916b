package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mpopescu/skybooker/config"
	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
	searchTTL  time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
		searchTTL:  searchTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	return c.getFlightList(ctx, flightsKey())
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	return c.setFlightList(ctx, flightsKey(), flights, c.flightsTTL)
}

// InvalidateFlights drops the catalog listing after any catalog write.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

func (c *RedisCache) GetSearchResults(ctx context.Context, query string) ([]domain.Flight, error) {
	return c.getFlightList(ctx, searchKey(query))
}

func (c *RedisCache) SetSearchResults(ctx context.Context, query string, flights []domain.Flight) error {
	return c.setFlightList(ctx, searchKey(query), flights, c.searchTTL)
}

func (c *RedisCache) getFlightList(ctx context.Context, key string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) setFlightList(ctx context.Context, key string, flights []domain.Flight, ttl time.Duration) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func searchKey(query string) string {
	return fmt.Sprintf("cache:search:%s", query)
}
