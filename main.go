package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sebas-ib/polling-app/config"
	"github.com/sebas-ib/polling-app/middleware"
	"github.com/sebas-ib/polling-app/realtime"
	"github.com/sebas-ib/polling-app/router"
	"github.com/sebas-ib/polling-app/store"
	"github.com/sebas-ib/polling-app/vote"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	var (
		identity store.IdentityStore
		polls    store.PollStore
	)
	switch cfg.Store {
	case config.StoreMongo:
		db, err := store.InitMongo(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			slog.Error("mongo connection failed", "error", err)
			os.Exit(1)
		}
		mongoStore, err := store.NewMongo(db)
		if err != nil {
			slog.Error("mongo store init failed", "error", err)
			os.Exit(1)
		}
		identity, polls = mongoStore, mongoStore
		slog.Info("using mongo store", "db", cfg.MongoDB)
	default:
		mem := store.NewMemory()
		identity, polls = mem, mem
		slog.Info("using in-memory store")
	}

	coordinator := vote.New(identity, polls)

	hub := realtime.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	mux := router.NewRouter(cfg, identity, polls, coordinator, hub)

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin, mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		stopHub()
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
