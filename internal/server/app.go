// Package server initializes and runs the engine server. It opens the
// ledger store, funds genesis balances and serves the engine over gRPC
// until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/solcraft/internal/auth"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/logging"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/server/config"
	"github.com/dmitrijs2005/solcraft/internal/server/services"
	"github.com/dmitrijs2005/solcraft/internal/server/storage"

	gs "github.com/dmitrijs2005/solcraft/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  ledger.Store
	engine *services.Engine
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	programID, err := pubkey.Parse(c.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("program id: %w", err)
	}

	var publisher metadata.Publisher = metadata.NopPublisher{}
	if c.S3Bucket != "" {
		publisher, err = metadata.NewS3Publisher(ctx, metadata.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
	}

	store, err := storage.NewStore(ctx, storage.Options{Type: c.StoreType, DSN: c.DatabaseDSN, PebbleDir: c.PebbleDir})
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	engine := services.NewEngine(store, programID, services.EngineOptions{
		Publisher: publisher,
		Logger:    logger.With("module", "engine"),
	})

	if err := engine.Fund(ctx, c.Genesis); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("genesis funding: %w", err)
	}

	logger.Info(ctx, "Ledger ready", "store", c.StoreType, "program_id", programID.String(), "genesis_accounts", len(c.Genesis))

	return &App{config: c, logger: logger, store: store, engine: engine}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	verifier := auth.NewVerifier(app.config.SignatureMaxAge)
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.engine, verifier)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
}
