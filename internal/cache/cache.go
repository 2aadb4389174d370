package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/flightchat/internal/models"
)

type Cache interface {
	Get(ctx context.Context, criteria models.SearchCriteria) ([]models.FlightOffer, bool)
	Set(ctx context.Context, criteria models.SearchCriteria, offers []models.FlightOffer) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, criteria models.SearchCriteria) ([]models.FlightOffer, bool) {
	data, err := c.client.Get(ctx, generateKey(criteria)).Bytes()
	if err != nil {
		return nil, false
	}

	var offers []models.FlightOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, false
	}

	return offers, true
}

func (c *RedisCache) Set(ctx context.Context, criteria models.SearchCriteria, offers []models.FlightOffer) error {
	data, err := json.Marshal(offers)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, generateKey(criteria), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, criteria models.SearchCriteria) ([]models.FlightOffer, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, criteria models.SearchCriteria, offers []models.FlightOffer) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

func generateKey(criteria models.SearchCriteria) string {
	keyData := struct {
		Origin       string
		Destinations string
		Date         string
		ReturnDate   string
	}{
		Origin:       criteria.Origin,
		Destinations: strings.Join(criteria.Destination, ","),
		Date:         criteria.Date,
		ReturnDate:   criteria.ReturnDate,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "flight:" + hex.EncodeToString(hash[:])
}
