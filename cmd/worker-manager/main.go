// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"field-verification/internal/audit"
	commonaws "field-verification/internal/common/aws"
	"field-verification/internal/common/camunda"
	"field-verification/internal/common/config"
	"field-verification/internal/common/database"
	"field-verification/internal/common/logger"
	"field-verification/internal/common/observability"
	"field-verification/internal/common/validation"
	"field-verification/internal/vehicleregistry"
	"field-verification/internal/verification/compare"
	"field-verification/internal/verification/plate"
	"field-verification/pkg/registry"

	avs "field-verification/internal/workers/verification/aggregate-verification-score"
	cdf "field-verification/internal/workers/verification/compare-document-fields"
	lv "field-verification/internal/workers/verification/lookup-vehicle"
	nva "field-verification/internal/workers/verification/notify-verification-alert"
	rp "field-verification/internal/workers/verification/recover-plate"
	vop "field-verification/internal/workers/verification/verify-officer-plate"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.Build(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...")

	ctx := context.Background()

	// --- Observability ---
	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	var tracer trace.Tracer
	if cfg.Tracing.Enabled {
		tracing, err := observability.NewTracing(observability.TracingOptions{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Endpoint:       cfg.Tracing.JaegerEndpoint,
			SampleRatio:    cfg.Tracing.SampleRatio,
		})
		if err != nil {
			zapLog.Fatal("tracing init failed", zap.Error(err))
		}
		obs.AttachTracing(tracing)
		tracer = tracing.Tracer("worker-manager")
	}

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.Plaintext,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	checks := map[string]readinessCheck{"zeebe": zeebe.HealthCheck}

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	// The score roll-up needs Postgres even when the registry is in memory.
	needPostgres := cfg.Registry.Source == config.RegistrySourcePostgres ||
		(config.IsWorkerEnabled(cfg, avs.TaskType) && cfg.Database.Postgres.Host != "")
	if needPostgres {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		if err := database.Migrate(ctx, pg.DB); err != nil {
			zapLog.Fatal("postgres migration failed", zap.Error(err))
		}
		checks["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Redis ---
	var rdb *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		checks["redis"] = rdb.Ping
		zapLog.Info("Redis connected successfully")
	}

	// --- Vehicle registry ---
	store, err := buildRegistry(ctx, cfg, pg, rdb, log)
	if err != nil {
		zapLog.Fatal("vehicle registry init failed", zap.Error(err))
	}

	// --- Elasticsearch audit index ---
	var indexer *audit.Indexer
	if cfg.Audit.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		indexer = audit.NewIndexer(esClient.Client, cfg.Audit.Index, log)
		if err := indexer.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("audit index init failed", zap.Error(err))
		}
		checks["elasticsearch"] = esClient.Ping
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Activity registry and input validation ---
	activities, err := registry.Load(cfg.Registry.ActivityRegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.NewSchemaValidator(activities)
	if err != nil {
		zapLog.Fatal("activity schema compile failed", zap.Error(err))
	}

	// --- Shared engines ---
	plateOpts := plate.Options{
		PreferMaxCost: cfg.Verification.PreferMaxCost,
		OpenMaxCost:   cfg.Verification.OpenMaxCost,
	}
	engine := plate.NewEngine(nil, plateOpts)

	// --- Workers ---
	reg := &workerRegistry{client: zeebe, cfg: cfg, tracer: tracer, obs: obs, zapLog: zapLog, log: log}

	if w := reg.config(cdf.TaskType); w.Enabled {
		var auditor cdf.Auditor
		if indexer != nil {
			auditor = indexer
		}
		handler := cdf.NewHandler(&cdf.Config{
			Timeout: config.GetDuration(w.Timeout),
			Compare: compare.Options{
				Policy:              compare.VerdictPolicy(cfg.Verification.VerdictPolicy),
				TrustedThreshold:    cfg.Verification.TrustedThreshold,
				SuspiciousThreshold: cfg.Verification.SuspiciousThreshold,
			},
		}, auditor, validator, log)
		reg.start(cdf.TaskType, handler)
	}

	if w := reg.config(rp.TaskType); w.Enabled {
		handler := rp.NewHandler(&rp.Config{
			Timeout: config.GetDuration(w.Timeout),
			Plate:   plateOpts,
		}, engine, store, validator, log)
		reg.start(rp.TaskType, handler)
	}

	if w := reg.config(lv.TaskType); w.Enabled {
		handler := lv.NewHandler(&lv.Config{
			Timeout: config.GetDuration(w.Timeout),
			Source:  cfg.Registry.Source,
			Plate:   plateOpts,
		}, engine, store, validator, log)
		reg.start(lv.TaskType, handler)
	}

	if w := reg.config(vop.TaskType); w.Enabled {
		var auditor vop.Auditor
		if indexer != nil {
			auditor = indexer
		}
		handler := vop.NewHandler(&vop.Config{
			Timeout: config.GetDuration(w.Timeout),
			Plate:   plateOpts,
		}, engine, store, auditor, validator, log)
		reg.start(vop.TaskType, handler)
	}

	if w := reg.config(avs.TaskType); w.Enabled && pg == nil {
		zapLog.Warn("no postgres configured, score aggregation disabled", zap.String("taskType", avs.TaskType))
	} else if w.Enabled {
		handler := avs.NewHandler(&avs.Config{
			Timeout: config.GetDuration(w.Timeout),
		}, pg.DB, validator, log)
		reg.start(avs.TaskType, handler)
	}

	if w := reg.config(nva.TaskType); w.Enabled {
		ncfg := cfg.Notifications
		var sesClient commonaws.SESService
		var snsClient commonaws.SNSService
		if ncfg.SES.Enabled {
			c, err := commonaws.NewSESClient(ctx, ncfg.AWS.Region)
			if err != nil {
				zapLog.Fatal("SES client init failed", zap.Error(err))
			}
			sesClient = c
		}
		if ncfg.SNS.Enabled {
			c, err := commonaws.NewSNSClient(ctx, ncfg.AWS.Region)
			if err != nil {
				zapLog.Fatal("SNS client init failed", zap.Error(err))
			}
			snsClient = c
		}
		handler := nva.NewHandler(&nva.Config{
			Timeout:       config.GetDuration(w.Timeout),
			SMSEnabled:    ncfg.SNS.Enabled,
			EmailEnabled:  ncfg.SES.Enabled,
			SenderID:      ncfg.SNS.SenderID,
			FromEmail:     ncfg.SES.FromEmail,
			ReviewerEmail: ncfg.ReviewerEmail,
			RatePerMinute: ncfg.RatePerMinute,
			Burst:         ncfg.Burst,
		}, sesClient, snsClient, validator, log)
		reg.start(nva.TaskType, handler)
	}

	zapLog.Info("workers registered", zap.Int("count", len(reg.workers)))

	// --- Ops server ---
	var searcher auditSearcher
	if indexer != nil {
		searcher = indexer
	}
	server := newOpsServer(cfg.Server.Address, checks, searcher, log)
	server.Start()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reg.stopAll()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("ops server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped gracefully")
}

// buildRegistry picks the vehicle registry backend and puts the Redis cache
// in front of it when Redis is configured.
func buildRegistry(ctx context.Context, cfg *config.Config, pg *database.PostgresClient, rdb *database.RedisClient, log logger.Logger) (vehicleregistry.Store, error) {
	var store vehicleregistry.Store
	switch cfg.Registry.Source {
	case config.RegistrySourceMemory:
		store = vehicleregistry.NewReferenceStore()
	case config.RegistrySourcePostgres:
		pgStore := vehicleregistry.NewPostgresStore(pg.DB)
		if cfg.Registry.SeedOnStart {
			if err := pgStore.Seed(ctx, vehicleregistry.ReferenceVehicles); err != nil {
				return nil, fmt.Errorf("seed vehicle registry: %w", err)
			}
		}
		store = pgStore
	default:
		return nil, fmt.Errorf("unknown registry source %q", cfg.Registry.Source)
	}

	if rdb != nil {
		store = vehicleregistry.NewCachedStore(store, rdb.Client, log,
			config.GetDuration(cfg.Registry.CacheTTL),
			config.GetDuration(cfg.Registry.PlatesCacheTTL))
	}
	return store, nil
}

type workerRegistry struct {
	client  *camunda.Client
	cfg     *config.Config
	tracer  trace.Tracer
	obs     *observability.Observability
	zapLog  *zap.Logger
	log     logger.Logger
	workers []*camunda.CamundaWorker
}

func (r *workerRegistry) config(taskType string) config.WorkerConfig {
	w := config.GetWorkerConfig(r.cfg, taskType)
	if !w.Enabled {
		r.zapLog.Info("worker disabled", zap.String("taskType", taskType))
	}
	return w
}

func (r *workerRegistry) start(taskType string, handler camunda.JobHandler) {
	w := config.GetWorkerConfig(r.cfg, taskType)
	cw := camunda.StartWorker(r.client.GetClient(), camunda.WorkerOptions{
		TaskType:      taskType,
		MaxJobsActive: w.MaxJobsActive,
		Timeout:       config.GetDuration(w.Timeout),
	}, camunda.Instrument(taskType, handler, r.tracer, r.obs), r.log)
	r.workers = append(r.workers, cw)
}

func (r *workerRegistry) stopAll() {
	for _, w := range r.workers {
		w.Stop()
	}
}
