package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"event-svr/internal/attribute"
	"event-svr/internal/cache"
	"event-svr/internal/config"
	"event-svr/internal/dispatcher"
	"event-svr/internal/handler"
	"event-svr/internal/ingest"
	"event-svr/internal/link"
	"event-svr/internal/model"
	"event-svr/internal/observability"
	"event-svr/internal/server"
	"event-svr/internal/sink"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	logger.Info("Starting event-svr...", "tcp_port", cfg.TCPPort)

	deviceCache, err := cache.NewRedis(cfg.RedisAddr, 0, logger)
	if err != nil {
		logger.Error("Redis init failed", "error", err)
		return
	}
	defer deviceCache.Close()

	if cfg.DevicesFile != "" {
		if err := loadDevices(cfg.DevicesFile, deviceCache, logger); err != nil {
			logger.Error("Loading devices failed", "file", cfg.DevicesFile, "error", err)
			return
		}
	}

	resolver := attribute.NewResolver(deviceCache, cfg.ServerAttributes())

	link.Init(cfg.LinkAddr, logger)

	sinks := []sink.Sink{sink.NewLog(logger)}
	if link.Enabled() {
		sinks = append(sinks, sink.NewLink())
	}
	if cfg.PostgresURL != "" {
		pg, err := sink.NewPostgres(context.Background(), cfg.PostgresURL)
		if err != nil {
			logger.Error("Postgres init failed", "error", err)
			return
		}
		defer pg.Close()
		sinks = append(sinks, pg)
	}

	var mqttClient mqtt.Client
	if cfg.MQTTBroker != "" {
		opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(cfg.MQTTClientID)
		mqttClient = mqtt.NewClient(opts)
		if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
			logger.Error("MQTT connection failed", "error", token.Error())
			return
		}
		defer mqttClient.Disconnect(250)
		sinks = append(sinks, sink.NewMQTT(mqttClient, cfg.EventsTopic))
	}

	d := dispatcher.New(
		deviceCache,
		sink.NewMulti(logger, sinks...),
		logger,
		handler.NewIgnition(deviceCache, resolver),
		handler.NewParkingMode(deviceCache, resolver),
		handler.NewMotion(deviceCache, resolver),
	)
	dispatch := func(ctx context.Context, p *model.Position) {
		d.Dispatch(ctx, p)
	}

	if mqttClient != nil {
		if err := ingest.Subscribe(mqttClient, cfg.PositionsTopic, dispatch, logger); err != nil {
			logger.Error("MQTT subscribe failed", "error", err)
			return
		}
	}

	go observability.StartMetricsServer(cfg.MetricsPort)

	go func() {
		if err := server.Start(":"+cfg.TCPPort, dispatch, logger); err != nil {
			logger.Error("TCP server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down...")
}

type deviceSeed struct {
	Devices []*model.Device `json:"devices"`
	Groups  []*model.Group  `json:"groups"`
}

// loadDevices seeds the cache from a JSON file until the device CRUD
// service feeds it directly.
func loadDevices(path string, c *cache.Redis, logger *slog.Logger) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var seed deviceSeed
	if err := json.Unmarshal(b, &seed); err != nil {
		return err
	}
	for _, d := range seed.Devices {
		c.PutDevice(d)
	}
	for _, g := range seed.Groups {
		c.PutGroup(g)
	}
	logger.Info("devices loaded", "devices", len(seed.Devices), "groups", len(seed.Groups))
	return nil
}
