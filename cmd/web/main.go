// Package main provides the entry point for the Scalingo dashboard server.
package main

import (
	"context"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/narvanalabs/scalingo-dashboard/internal/api"
	"github.com/narvanalabs/scalingo-dashboard/internal/audit"
	"github.com/narvanalabs/scalingo-dashboard/internal/logs"
	"github.com/narvanalabs/scalingo-dashboard/internal/scalingo"
	"github.com/narvanalabs/scalingo-dashboard/internal/secrets"
	"github.com/narvanalabs/scalingo-dashboard/internal/session"
	"github.com/narvanalabs/scalingo-dashboard/internal/shutdown"
	"github.com/narvanalabs/scalingo-dashboard/internal/store"
	"github.com/narvanalabs/scalingo-dashboard/internal/store/memory"
	"github.com/narvanalabs/scalingo-dashboard/internal/store/postgres"
	"github.com/narvanalabs/scalingo-dashboard/pkg/config"
	"github.com/narvanalabs/scalingo-dashboard/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Error("failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.LogJSON)

	apiToken, err := secrets.ResolveAPIToken(
		cfg.Scalingo.APIToken,
		cfg.Scalingo.EncryptedAPIToken,
		cfg.Scalingo.AgeIdentity,
		log.Logger,
	)
	if err != nil {
		log.Error("failed to resolve Scalingo API token", "error", err)
		return 1
	}

	tokens := scalingo.NewTokenSource(cfg.Scalingo.AuthURL, apiToken, cfg.Scalingo.Timeout)
	client := scalingo.NewClient(cfg.Scalingo.APIURL, tokens, cfg.Scalingo.Timeout, log)

	st, err := openStore(cfg, log)
	if err != nil {
		log.Error("failed to open audit store", "error", err)
		return 1
	}

	broker := logs.NewBroker(client, logs.Config{
		PollInterval: cfg.Logs.PollInterval,
		Lines:        cfg.Logs.DefaultLines,
	}, log.WithComponent("logs").Logger)

	sessions := session.NewManager(session.Config{
		Secret:            []byte(cfg.Session.Secret),
		Expiry:            cfg.Session.Expiry,
		AdminEmail:        cfg.Session.AdminEmail,
		AdminPasswordHash: cfg.Session.AdminPasswordHash,
	}, log.Logger)

	server := api.NewServer(cfg, api.Deps{
		Scalingo:       client,
		Sessions:       sessions,
		Audit:          audit.NewRecorder(st.Actions(), log),
		Broker:         broker,
		ScalingoPinger: client,
		StorePinger:    st,
	}, log.Logger)

	// Stopped newest first: server, then the broker, then the store.
	coord := shutdown.NewCoordinator(
		shutdown.WithTimeout(cfg.Server.ShutdownTimeout),
		shutdown.WithLogger(log.Logger),
	)
	coord.Register(shutdown.NewCloserComponent("audit_store", st))
	coord.Register(shutdown.NewFuncComponent("log_broker", func(context.Context) error {
		broker.Close()
		return nil
	}))
	coord.Register(shutdown.NewServerComponent("http_server", server))

	go coord.WaitForSignal()

	if err := server.Start(context.Background()); err != nil {
		log.Error("server error", "error", err)
		coord.Shutdown()
		coord.Wait()
		return 1
	}

	coord.Wait()
	log.Info("server stopped", "exit_code", coord.ExitCode())
	return coord.ExitCode()
}

// openStore returns the PostgreSQL audit store when DATABASE_URL is set and an
// in-memory one otherwise.
func openStore(cfg *config.Config, log *logger.Logger) (store.Store, error) {
	if cfg.DatabaseDSN == "" {
		log.Info("DATABASE_URL not set, keeping the action audit trail in memory")
		return memory.New(memory.DefaultCapacity), nil
	}

	pg, err := postgres.NewPostgresStore(postgres.DefaultConfig(cfg.DatabaseDSN), log.Logger)
	if err != nil {
		return nil, err
	}
	return pg, nil
}
