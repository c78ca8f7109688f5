package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightops/config"
	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ReferenceCache keeps hot reference data (airports, the active route list)
// in redis so the resolution engine does not hit the store on every lookup.
type ReferenceCache struct {
	client     *redis.Client
	airportTTL time.Duration
	routesTTL  time.Duration
}

func NewReferenceCache(cfg config.RedisConfig, airportTTL, routesTTL time.Duration) *ReferenceCache {
	return &ReferenceCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		airportTTL: airportTTL,
		routesTTL:  routesTTL,
	}
}

func (c *ReferenceCache) GetAirport(ctx context.Context, id int64) (*domain.Airport, error) {
	data, err := c.client.Get(ctx, airportKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var airport domain.Airport
	if err := json.Unmarshal(data, &airport); err != nil {
		return nil, err
	}
	return &airport, nil
}

func (c *ReferenceCache) SetAirport(ctx context.Context, airport *domain.Airport) error {
	payload, err := json.Marshal(airport)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, airportKey(airport.ID), payload, c.airportTTL).Err()
}

func (c *ReferenceCache) GetActiveRoutes(ctx context.Context) ([]domain.Route, error) {
	data, err := c.client.Get(ctx, activeRoutesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var routes []domain.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *ReferenceCache) SetActiveRoutes(ctx context.Context, routes []domain.Route) error {
	payload, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeRoutesKey(), payload, c.routesTTL).Err()
}

// InvalidateActiveRoutes drops the cached route list; called after a new
// route is synthesized so the matcher sees it on the next lookup.
func (c *ReferenceCache) InvalidateActiveRoutes(ctx context.Context) error {
	return c.client.Del(ctx, activeRoutesKey()).Err()
}

func airportKey(id int64) string {
	return fmt.Sprintf("cache:airport:%d", id)
}

func activeRoutesKey() string {
	return "cache:routes:active"
}
