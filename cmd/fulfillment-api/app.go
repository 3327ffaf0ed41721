package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rjewls/white-site-sub000/config"
	"github.com/rjewls/white-site-sub000/internal/broker/kafka"
	"github.com/rjewls/white-site-sub000/internal/broker/messages"
	"github.com/rjewls/white-site-sub000/internal/cache"
	"github.com/rjewls/white-site-sub000/internal/cache/rediscache"
	"github.com/rjewls/white-site-sub000/internal/geo"
	"github.com/rjewls/white-site-sub000/internal/integrations/carrier"
	"github.com/rjewls/white-site-sub000/internal/integrations/carrier/fake"
	"github.com/rjewls/white-site-sub000/internal/integrations/carrier/noesthttp"
	"github.com/rjewls/white-site-sub000/internal/notify"
	"github.com/rjewls/white-site-sub000/internal/services/fulfillment"
	"github.com/rjewls/white-site-sub000/internal/shipment"
	"github.com/rjewls/white-site-sub000/internal/storage/pgorders"
)

type appFactories struct {
	newStorage       func(cfg *config.Config) (repo fulfillment.Repository, closeFn func(), err error)
	newProducer      func(cfg *config.Config) fulfillment.Producer
	newRateLimiter   func(cfg *config.Config) fulfillment.RateLimiter
	newCache         func(cfg *config.Config) cache.BytesCache
	newCarrierClient func(cfg *config.Config) carrier.Client
	newConsumer      func(cfg *config.Config, topic string) *kafka.Consumer
}

func defaultAppFactories() appFactories {
	return appFactories{
		newStorage: func(cfg *config.Config) (fulfillment.Repository, func(), error) {
			sslMode := cfg.Database.SSLMode
			if sslMode == "" {
				sslMode = "disable"
			}
			connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
				cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
			st, err := pgorders.New(connString)
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		newProducer: func(cfg *config.Config) fulfillment.Producer {
			brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
			return kafka.NewProducer(brokers)
		},
		newRateLimiter: func(cfg *config.Config) fulfillment.RateLimiter {
			redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
			return rediscache.NewRateLimiter(redisAddr)
		},
		newCache: func(cfg *config.Config) cache.BytesCache {
			redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
			return rediscache.New(redisAddr)
		},
		newCarrierClient: func(cfg *config.Config) carrier.Client {
			// Real deliveries need credentials; anything else runs against the
			// in-memory fake so the back office works in dev without a carrier
			// account.
			if cfg.Fulfillment.CarrierMode == "noest" && cfg.Fulfillment.CarrierAPIToken != "" {
				return noesthttp.New(cfg.Fulfillment.CarrierBaseURL, cfg.Fulfillment.CarrierAPIToken, cfg.Fulfillment.CarrierUserGUID)
			}
			return fake.New()
		},
		newConsumer: func(cfg *config.Config, topic string) *kafka.Consumer {
			brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
			group := cfg.Kafka.ConsumerGroup
			if group == "" {
				group = "fulfillment-api"
			}
			return kafka.NewConsumer(brokers, topic, group)
		},
	}
}

func RunFulfillmentAPI(ctx context.Context, cfg *config.Config, f appFactories) error {
	statusTopic := cfg.Kafka.OrderStatusChangedTopicName
	if statusTopic == "" {
		statusTopic = "order.status_changed"
	}
	placedTopic := cfg.Kafka.OrderPlacedTopicName
	if placedTopic == "" {
		placedTopic = "order.placed"
	}
	trackTTL := time.Duration(cfg.Fulfillment.TrackStatusTTLSeconds) * time.Second
	if trackTTL <= 0 {
		trackTTL = 5 * time.Minute
	}
	createPerMin := int64(cfg.Fulfillment.CreateRateLimitPerMinute)
	if createPerMin <= 0 {
		createPerMin = 30
	}

	repo, closeFn, err := f.newStorage(cfg)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	svc := fulfillment.New(repo, shipment.NewBuilder(geo.DefaultDataset()), f.newCarrierClient(cfg))
	if f.newCache != nil {
		if c := f.newCache(cfg); c != nil {
			svc.WithCache(c, trackTTL)
		}
	}
	if f.newProducer != nil {
		if p := f.newProducer(cfg); p != nil {
			svc.WithEvents(p, statusTopic)
		}
	}
	if f.newRateLimiter != nil {
		if rl := f.newRateLimiter(cfg); rl != nil {
			svc.WithRateLimit(rl, createPerMin)
		}
	}
	if cfg.Fulfillment.WebhookURL != "" {
		svc.WithNotifier(notify.NewWebhook(cfg.Fulfillment.WebhookURL))
	}

	if f.newConsumer != nil {
		if consumer := f.newConsumer(cfg, placedTopic); consumer != nil {
			go consumeOrderPlaced(ctx, consumer, svc)
		}
	}

	return runHTTPServer(ctx, httpOpts{
		httpAddr:    cfg.Fulfillment.HTTPAddr,
		swaggerPath: cfg.Fulfillment.SwaggerPath,
		svc:         svc,
	})
}

func consumeOrderPlaced(ctx context.Context, consumer *kafka.Consumer, svc *fulfillment.Service) {
	defer consumer.Close()

	err := consumer.Consume(ctx, orderPlacedHandler(ctx, svc))
	if err != nil && ctx.Err() == nil {
		slog.Error("order.placed consumer stopped", "err", err)
	}
}

// orderPlacedHandler turns storefront purchase messages into PENDING orders.
// Malformed JSON and data the service will never accept are logged and
// committed, so one bad message cannot wedge the topic. Storage failures
// propagate uncommitted and the message is redelivered after a restart.
func orderPlacedHandler(ctx context.Context, svc *fulfillment.Service) func(key, value []byte) error {
	return func(key, value []byte) error {
		var msg messages.OrderPlaced
		if err := json.Unmarshal(value, &msg); err != nil {
			slog.Warn("skipping malformed order.placed message", "key", string(key), "err", err)
			return nil
		}
		if err := svc.HandleOrderPlaced(ctx, msg); err != nil {
			var ve *fulfillment.ValidationError
			if errors.As(err, &ve) {
				slog.Warn("dropping invalid order.placed message", "key", string(key), "err", err)
				return nil
			}
			return err
		}
		return nil
	}
}
