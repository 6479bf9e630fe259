package app

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-catalog-go/internal/config"
	"github.com/kapu/pokedex-catalog-go/internal/pokeapi"
	"github.com/kapu/pokedex-catalog-go/internal/server"
	"github.com/kapu/pokedex-catalog-go/internal/service/catalog"
	"github.com/kapu/pokedex-catalog-go/internal/store"
	"go.uber.org/zap"
)

// Container bundles the assembled catalog components.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Client  *pokeapi.Client
	Catalog *catalog.Service
	Store   *store.Store
	Server  *server.Server

	closers []func()
}

// Build wires client, service, store and HTTP server. The first catalog page
// is loaded here when the upstream answers; a failure only logs, since the
// first list request retries it.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	client, catalogSvc := NewCatalogService(cfg, logger)

	listStore := store.New(catalogSvc, cfg.Catalog.PageSize, logger)
	closers = append(closers, func() {
		_ = listStore.Close()
	})

	if loadErr := listStore.LoadInitial(ctx); loadErr != nil {
		logger.Warn("Initial catalog load failed, deferring to first request", zap.Error(loadErr))
	}

	httpServer := server.New(cfg.Server.Addr, listStore, catalogSvc, client, logger)

	logger.Info("Catalog components assembled",
		zap.String("pokeapi", cfg.PokeAPI.BaseURL),
		zap.String("locale", cfg.Catalog.Locale),
		zap.Int("page_size", cfg.Catalog.PageSize),
	)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Catalog: catalogSvc,
		Store:   listStore,
		Server:  httpServer,
		closers: closers,
	}, nil
}

// NewCatalogService builds the PokeAPI client and the aggregation service on
// top of it. The CLI query commands use it without a store or server.
func NewCatalogService(cfg *config.Config, logger *zap.Logger) (*pokeapi.Client, *catalog.Service) {
	client := pokeapi.NewClient(cfg.PokeAPI.BaseURL, cfg.PokeAPI.Timeout, logger)
	return client, catalog.NewService(client, cfg.Catalog.Locale, logger)
}

// Close releases everything Build acquired, in reverse order.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
