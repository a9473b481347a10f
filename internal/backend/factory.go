package backend

import (
	"context"
	"fmt"

	"expensetracker/internal/amqp"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(config)
	if err != nil {
		return nil, err
	}

	// A nil *amqp.Client must not end up inside the Publisher interface.
	var publisher services.Publisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			publisher = client
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svc := services.NewExpenseService(store, publisher)

	f.logger.InfoContext(ctx, "Initialized backend",
		applog.FieldBackend, config.Type.String(),
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Service: svc,
		Store:   store,
		Cleanup: svc.Close,
	}, nil
}

func (f *DefaultFactory) createStore(config Config) (storage.TableStore, error) {
	store, _, err := OpenStore(config)
	if err != nil {
		return nil, err
	}
	switch config.Type {
	case CSVBackend:
		f.logger.Info("Using CSV store", "path", config.CSVPath)
	case SQLiteBackend:
		f.logger.Info("Using SQLite store", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		f.logger.Info("Using memory store", "seed", config.SeedCSVPath)
	}
	return store, nil
}

// OpenStore opens the table store selected by config without building a
// service around it. The cleanup closes the store when it holds resources.
func OpenStore(config Config) (storage.TableStore, CleanupFunc, error) {
	noop := func() error { return nil }
	switch config.Type {
	case CSVBackend:
		return storage.NewCSVStore(config.CSVPath), noop, nil
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return store, store.Close, nil
	case MemoryBackend:
		if config.SeedCSVPath != "" {
			return memory.NewFromFile(config.SeedCSVPath), noop, nil
		}
		return memory.New(nil), noop, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
