package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/eltonsantos/vacationmanager/internal/vacation/audit"
	"github.com/eltonsantos/vacationmanager/internal/vacation/controller"
	"github.com/eltonsantos/vacationmanager/internal/vacation/db"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	DBHost       string   `yaml:"DB_HOST"`
	DBPort       int      `yaml:"DB_PORT"`
	DBUser       string   `yaml:"DB_USER"`
	DBPassword   string   `yaml:"DB_PASSWORD"`
	DBName       string   `yaml:"DB_NAME"`
	DBSSLMode    string   `yaml:"DB_SSLMODE"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	JWTSecret    string   `yaml:"JWT_SECRET"`
	AuditTopic   string   `yaml:"AUDIT_TOPIC"`
	TailAudit    bool     `yaml:"TAIL_AUDIT"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(initDatabase(cfg))
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close repository", zap.Error(err))
		}
	}()

	// Brokers may still be coming up when the service starts.
	var producer *audit.Producer
	err = backoff.Retry(func() error {
		var err error
		producer, err = audit.NewProducer(cfg.KafkaBrokers, logger, cfg.AuditTopic)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		log.Fatal("failed to initialize audit producer", err)
	}
	defer producer.Close()

	vacationSvc := controller.NewVacationService(repo, producer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sanity probe: the repository is migrated and queryable.
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	if approved, err := vacationSvc.Calendar(ctx, monthStart, monthEnd); err != nil {
		logger.Warn("startup calendar probe failed", zap.Error(err))
	} else {
		logger.Info("vacation manager started", zap.Int("approved_this_month", len(approved)))
	}

	if cfg.TailAudit {
		consumer := audit.NewConsumer(cfg.KafkaBrokers, "vacation-audit-tail", cfg.AuditTopic, logger)
		consumer.RegisterHandler(func(_ context.Context, record audit.Record) error {
			logger.Info("audit",
				zap.String("action", string(record.Action)),
				zap.String("actor_id", record.ActorID.String()),
				zap.String("entity_type", record.EntityType),
				zap.String("entity_id", record.EntityID.String()),
			)
			return nil
		})
		consumer.Start(ctx)
		defer consumer.Close()
	}

	waitForShutdown(logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration. Use real config tooling (e.g. Viper) in production.
func loadConfig() (*Config, error) {
	configPath := filepath.Join("internal", "vacation", "config", "config.yaml")
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// initDatabase initializes the database connection config.
func initDatabase(cfg *Config) *db.Config {
	return &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// waitForShutdown blocks until an interrupt or SIGTERM is received.
func waitForShutdown(logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
}
