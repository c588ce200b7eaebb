package app

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/ldtri/mealgo-api/configs"
	"github.com/ldtri/mealgo-api/internal/adapter/cache"
	"github.com/ldtri/mealgo-api/internal/adapter/gateway"
	httpadapter "github.com/ldtri/mealgo-api/internal/adapter/http"
	"github.com/ldtri/mealgo-api/internal/adapter/http/middleware"
	"github.com/ldtri/mealgo-api/internal/adapter/kafka"
	"github.com/ldtri/mealgo-api/internal/adapter/queue"
	"github.com/ldtri/mealgo-api/internal/adapter/repo"
	"github.com/ldtri/mealgo-api/internal/janitor"
	"github.com/ldtri/mealgo-api/internal/logging"
	"github.com/ldtri/mealgo-api/internal/poller"
	"github.com/ldtri/mealgo-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)
	log.Info("starting up")

	// background tasks share this context; cleanup cancels it
	appCtx, stop := context.WithCancel(context.Background())

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		stop()
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	if err := db.PingContext(appCtx); err != nil {
		stop()
		return nil, nil, err
	}

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(appCtx).Err(); err != nil {
		stop()
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		stop()
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		stop()
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		stop()
		return nil, nil, err
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	redisCache := cache.NewRedisCache(rdb, cfg.Cache.TTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	paymentGW := gateway.NewPaymentClient(cfg.Payment.BaseURL, cfg.Payment.Timeout)
	catalogGW := gateway.NewCatalogClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)

	// usecases
	transitionUC := usecase.NewTransitionOrder(orderRepo, producer, redisCache)
	createUC := usecase.NewCreateOrder(orderRepo, idem, usecase.Pricing{
		DeliveryFeeCents: cfg.Pricing.DeliveryFeeCents,
		TaxRateBps:       cfg.Pricing.TaxRateBps,
	})
	queries := usecase.NewOrderQueries(orderRepo)
	confirmUC := usecase.NewConfirmPayment(orderRepo, paymentGW, transitionUC)

	// rider ready-order cache follows our own status events
	setupQueue(ch, orderRepo, redisCache)

	// payment results arrive asynchronously on Kafka as well
	setupKafkaListener(appCtx, cfg, transitionUC)

	// stale-order sweep
	jan := janitor.New(transitionUC, cfg.Janitor.Interval, cfg.Janitor.StaleAfter)
	go jan.Run(appCtx)

	// catalog price snapshot for the cart price-sync view
	catalogPoll := poller.New("catalog", cfg.Poll.CatalogInterval,
		catalogGW.Prices, redisCache.SetCatalogPrices)
	catalogPoll.Start(appCtx)

	// handlers + router + middleware
	h := httpadapter.NewOrderHandler(createUC, transitionUC, queries, confirmUC)
	catalogH := httpadapter.NewCatalogHandler(redisCache, catalogGW)
	loginH := httpadapter.NewLoginHandler(cfg, userRepo)
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(h, catalogH, loginH, authz)

	cleanup := func() {
		catalogPoll.Stop()
		stop()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp.Channel, orderRepo usecase.OrderRepo, redisCache usecase.OrderCache) {
	h := queue.NewOrderPreparedHandler(orderRepo, redisCache)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register(queue.PreparedQueue, queue.JSONHandler[usecase.StatusChangedMsg]{HandleFunc: h.HandleStatusChanged})

	if err := router.Start(); err != nil {
		panic(err)
	}
}

func setupKafkaListener(ctx context.Context, cfg configs.Config, transitionUC *usecase.TransitionOrder) {
	if len(cfg.Kafka.Brokers) == 0 {
		return
	}
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		panic(err)
	}

	h := kafka.NewPaymentResultHandler(transitionUC)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.PaymentsTopic}, h.Handle)

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logging.New("kafka").Error("consumer stopped", "err", err)
		}
	}()
}
