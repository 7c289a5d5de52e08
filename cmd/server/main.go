package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/parlorlabs/parlor/internal/agents"
	"github.com/parlorlabs/parlor/internal/chat"
	"github.com/parlorlabs/parlor/internal/config"
	"github.com/parlorlabs/parlor/internal/database"
	"github.com/parlorlabs/parlor/internal/llm"
	"github.com/parlorlabs/parlor/internal/middleware"
	"github.com/parlorlabs/parlor/internal/routes"
	"github.com/parlorlabs/parlor/internal/sessions"
	"github.com/parlorlabs/parlor/internal/threads"
	"github.com/parlorlabs/parlor/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Finalize(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	client := llm.NewClient(&cfg.LLM)

	agentSys := agents.New(db, logger, cfg.Pagination)
	sessionSys := sessions.New(db, logger)
	threadSys := threads.New(db, logger, cfg.Pagination)

	assembler := sessions.NewAssembler(sessionSys, agentSys, client, logger)
	titler := threads.NewTitler(client, threadSys, cfg.Chat.TitleBudgetBytes(), cfg.Chat.TitleTimeoutDuration(), logger)
	dispatcher := chat.NewDispatcher(
		threadSys,
		assembler.Assemble,
		chat.DefaultRunnerFactory(client, cfg.Chat.MaxTurns, logger),
		logger,
	)

	router := routes.New(logger)
	router.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		},
	})
	router.RegisterGroup(agents.NewHandler(agentSys, logger, cfg.Pagination).Routes())
	router.RegisterGroup(sessions.NewHandler(sessionSys, logger).Routes())
	router.RegisterGroup(threads.NewHandler(threadSys, titler, &cfg.Chat, logger, cfg.Pagination).Routes())
	router.RegisterGroup(chat.NewHandler(dispatcher, &cfg.Chat, logger).Routes())

	handler := router.Build()
	handler = middleware.Identity(logger)(handler)
	handler = middleware.CORS(&cfg.CORS)(handler)
	handler = middleware.Logger(logger)(handler)
	handler = middleware.TrimSlash()(handler)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", srv.Addr)

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	if err := <-shutdownError; err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
