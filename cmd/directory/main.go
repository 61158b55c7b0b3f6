package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/messagely/messagely/internal/auth/http"
	"github.com/messagely/messagely/internal/auth/middleware"
	authservice "github.com/messagely/messagely/internal/auth/service"
	"github.com/messagely/messagely/internal/common/clock"
	"github.com/messagely/messagely/internal/common/config"
	commoncrypto "github.com/messagely/messagely/internal/common/crypto"
	"github.com/messagely/messagely/internal/common/db"
	commonhttp "github.com/messagely/messagely/internal/common/http"
	"github.com/messagely/messagely/internal/common/logger"
	srv "github.com/messagely/messagely/internal/common/server"
	messagehttp "github.com/messagely/messagely/internal/message/http"
	messagerepo "github.com/messagely/messagely/internal/message/repository"
	messageservice "github.com/messagely/messagely/internal/message/service"
	userhttp "github.com/messagely/messagely/internal/user/http"
	userrepo "github.com/messagely/messagely/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "directory", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := db.NewPool(log, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	clk := clock.NewRealClock()
	users := userrepo.NewPgRepository(pool)
	messages := messagerepo.NewPgRepository(pool)
	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	idGenerator := commoncrypto.NewUUIDGenerator()

	tokens := authservice.NewTokenService(cfg.TokenSecret, clk)
	auth := authservice.NewAuthService(users, hasher, tokens, clk, log)
	guard := middleware.NewGuard(tokens, log)
	messageSvc := messageservice.NewMessageService(messages, users, idGenerator, clk, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())
	authhttp.NewHandler(auth, cfg.RequestTimeout, log).Register(mux)
	userhttp.NewHandler(users, messages, guard, cfg.RequestTimeout, log).Register(mux)
	messagehttp.NewHandler(messageSvc, guard, cfg.RequestTimeout, log).Register(mux)

	handler := commonhttp.BuildBaseHandler(log, mux)

	server := srv.New(srv.Config{Addr: ":" + cfg.HTTPPort}, handler)
	srv.StartWithGracefulShutdown(server, log, "directory")
}
