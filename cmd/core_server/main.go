package main

import (
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/ristretto"
	protoLogs "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	_ "google.golang.org/grpc/encoding/gzip"

	"jarvis-core/internal/config"
	"jarvis-core/internal/logging"
	otelServer "jarvis-core/internal/otel_server/log/server"
	"jarvis-core/internal/query_server/router"
	ratelimit "jarvis-core/internal/ratelimit/service"
	redaction "jarvis-core/internal/redaction/service"
	"jarvis-core/internal/stream"
	"jarvis-core/internal/telemetry/model"
	telemetry "jarvis-core/internal/telemetry/service"
)

// @title Jarvis Core API
// @version 0.1.0
// @description Local AI assistant backend with edge-first processing.

func main() {
	settings, err := config.Load(os.Getenv("JARVIS_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	logger, err := logging.NewLogger(settings)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Jarvis Core",
		zap.String("environment", settings.Env),
		zap.Bool("debug", settings.Debug),
	)

	buffer := telemetry.NewRingBuffer(
		settings.LogBufferMax,
		model.ParsePolicy(settings.LogBufferPolicy),
		logger,
	)
	statsService := telemetry.NewStatsService(buffer)

	var redactor *redaction.PIIRedactor
	if settings.RedactionEnabled {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1 << 20,
			MaxCost:     1 << 24,
			BufferItems: 64,
		})
		if err != nil {
			logger.Fatal("Failed to create redaction cache", zap.Error(err))
		}
		redactor = redaction.NewPIIRedactor(cache)
	}

	limiter := ratelimit.NewTokenBucketLimiter(
		settings.RateLimitPerMinute,
		settings.RateLimitMaxKeys,
		logger,
	)
	dispatcher := stream.NewDispatcher(buffer, logger)

	if settings.Debug {
		seedSampleLogs(buffer)
	}

	listener, err := net.Listen("tcp", settings.OTLPAddr)
	if err != nil {
		logger.Fatal("Failed to listen for OTLP ingest", zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	protoLogs.RegisterLogsServiceServer(
		grpcServer,
		otelServer.NewLogServiceServerImpl(logger, buffer, redactor),
	)
	go func() {
		logger.Info("gRPC service started, listening for OpenTelemetry logs...",
			zap.String("addr", settings.OTLPAddr))
		if err := grpcServer.Serve(listener); err != nil {
			logger.Fatal("Failed to serve OTLP ingest", zap.Error(err))
		}
	}()

	r := router.CreateRouter(settings, buffer, statsService, redactor, limiter, dispatcher, logger)
	logger.Info("Starting core server", zap.String("addr", settings.ListenAddr()))
	if err := http.ListenAndServe(settings.ListenAddr(), r); err != nil {
		logger.Fatal("Failed to serve", zap.Error(err))
	}
}

// seedSampleLogs puts a few entries in the buffer so the log endpoints and
// the stream have something to show on a fresh dev instance.
func seedSampleLogs(buffer *telemetry.RingBuffer) {
	now := float64(time.Now().UnixNano()) / float64(time.Second)
	samples := []model.LogEntry{
		{Timestamp: now - 300, Level: model.InfoLevel, Message: "Application started",
			Module: "main", Function: "create_app", Line: 25},
		{Timestamp: now - 240, Level: model.InfoLevel, Message: "Database connection established",
			Module: "database", Function: "connect", Line: 42},
		{Timestamp: now - 180, Level: model.WarningLevel, Message: "High memory usage detected",
			Module: "monitoring", Function: "check_resources", Line: 67},
		{Timestamp: now - 120, Level: model.ErrorLevel, Message: "Failed to connect to external service",
			Module: "api_client", Function: "make_request", Line: 89},
		{Timestamp: now - 60, Level: model.InfoLevel, Message: "Health check completed",
			Module: "health", Function: "check_all", Line: 15},
	}
	for _, sample := range samples {
		buffer.Add(sample)
	}
}
