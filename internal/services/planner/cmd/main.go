package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"google.golang.org/grpc"

	"github.com/LeonardoBeccarini/drip_planner/internal/catalog"
	"github.com/LeonardoBeccarini/drip_planner/internal/services/planner"
	"github.com/LeonardoBeccarini/drip_planner/pkg/dedup"
	"github.com/LeonardoBeccarini/drip_planner/pkg/rabbitmq"
)

// openCatalog loads the initial snapshot and returns the source used for
// periodic refresh (nil when the catalog is static).
func openCatalog(ctx context.Context, cfg Config) (*catalog.Catalog, catalog.Source, func(), error) {
	noop := func() {}
	switch cfg.CatalogSource {
	case "", "builtin":
		return catalog.Default(), nil, noop, nil

	case "yaml":
		c, err := catalog.LoadFile(cfg.CatalogFile)
		return c, nil, noop, err

	case "postgres":
		db, err := catalog.OpenPostgres(ctx, catalog.PostgresConfig{
			URL:         cfg.DatabaseURL,
			PingTimeout: 2 * time.Second,
		})
		if err != nil {
			return nil, nil, noop, err
		}
		closeDB := func() { _ = db.Close() }
		if err := catalog.Migrate(ctx, db); err != nil {
			closeDB()
			return nil, nil, noop, err
		}
		c, err := catalog.LoadPostgres(ctx, db)
		if err != nil {
			closeDB()
			return nil, nil, noop, err
		}
		return c, catalog.PostgresSource{DB: db}, closeDB, nil

	case "http":
		up := catalog.NewUpstream(catalog.UpstreamConfig{
			BaseURL:     cfg.CatalogURL,
			HTTPTimeout: cfg.HTTPTimeout,
			Fails:       cfg.CBFails,
			OpenFor:     cfg.CBOpen,
		})
		// start from the builtin rows; the upstream replaces them when reachable
		c := catalog.Default()
		if err := catalog.Refresh(ctx, c, up); err != nil {
			log.Printf("planner: catalog upstream unavailable, using builtin catalog: %v", err)
		}
		return c, up, noop, nil
	}
	return nil, nil, noop, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
}

func main() {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// === Catalog ===
	cat, src, closeCatalog, err := openCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("planner: catalog: %v", err)
	}
	defer closeCatalog()
	log.Printf("planner: catalog source=%s pipes=%d", cfg.CatalogSource, cat.Len())
	if src != nil {
		go catalog.Keep(ctx, cat, src, cfg.CatalogRefresh)
	}

	// === InfluxDB ===
	var recorder *planner.Recorder
	if cfg.InfluxEnabled {
		influx := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
			influxdb2.DefaultOptions().SetBatchSize(10).SetFlushInterval(200))
		defer influx.Close()
		recorder = planner.NewRecorder(influx, cfg.InfluxOrg, cfg.InfluxBucket)
		defer recorder.Flush()
	}

	// === MQTT ===
	var mqttClient mqtt.Client
	var publishers rabbitmq.PublisherFactory
	if cfg.MQTTEnabled {
		mqttClient, err = rabbitmq.NewRabbitMQConn(ctx, &cfg.Rabbit)
		if err != nil {
			log.Fatalf("planner: mqtt connection error: %v", err)
		}
		defer rabbitmq.CloseRabbitMQConn(mqttClient)
		publishers = rabbitmq.NewFactory(mqttClient)
	}

	svc := planner.NewService(planner.Config{
		Catalog:     cat,
		Recorder:    recorder,
		Publishers:  publishers,
		ResultTopic: cfg.ResultTopicTpl,
		CacheSize:   cfg.CacheSize,
	})

	if mqttClient != nil {
		consumer := rabbitmq.NewConsumer(mqttClient, svc.RequestHandler(dedup.New(10*time.Minute, 20000)), cfg.RequestTopic)
		go consumer.ConsumeMessage(ctx)
	}

	// === gRPC ===
	lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		log.Fatalf("planner: grpc listen: %v", err)
	}
	gs := grpc.NewServer(grpc.UnaryInterceptor(planner.RecoverUnary))
	planner.RegisterPlannerServer(gs, planner.NewGrpcHandler(svc))
	go func() {
		log.Printf("planner: gRPC listening on :%s", cfg.GrpcPort)
		if err := gs.Serve(lis); err != nil {
			log.Printf("planner: grpc server stopped: %v", err)
		}
	}()

	// === HTTP ===
	hs := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: planner.NewHTTPMux(svc, planner.Probes{
			MQTT:          mqttClient,
			MQTTRequired:  cfg.MQTTEnabled,
			InfluxEnabled: cfg.InfluxEnabled,
			MinErrorAge:   30 * time.Second,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("planner: HTTP listening on :%s", cfg.Port)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("planner: http server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("planner: shutting down...")

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = hs.Shutdown(shCtx)
	gs.GracefulStop()
}
