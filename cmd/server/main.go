package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	handler "github.com/votease/api/internal/adapters/handler/http"
	"github.com/votease/api/internal/adapters/oauth/google"
	fsrepo "github.com/votease/api/internal/adapters/repository/firestore"
	pgrepo "github.com/votease/api/internal/adapters/repository/postgres"
	"github.com/votease/api/internal/core/ports"
	"github.com/votease/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pollRepo, voteRepo, userRepo, authRepo, cleanup, err := buildRepositories(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	pollSvc := services.NewPollService(pollRepo, voteRepo, userRepo)
	voteSvc := services.NewVoteService(pollRepo, voteRepo)
	userSvc := services.NewUserService(userRepo)
	authSvc := services.NewAuthService(userRepo, authRepo, google.NewVerifier())

	pollHandler := handler.NewPollHandler(pollSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	userHandler := handler.NewUserHandler(userSvc)
	authHandler := handler.NewAuthHandler(authSvc, os.Getenv("LOGIN_REDIRECT_URL"))

	origins := strings.Split(envOr("CORS_ORIGINS", "*"), ",")
	router := handler.NewHandler(pollHandler, voteHandler, userHandler, authHandler, origins)

	addr := "0.0.0.0:" + envOr("PORT", "8080")
	server := &stdhttp.Server{Addr: addr, Handler: router}

	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

// buildRepositories wires the repository set for the backend selected by
// STORE_BACKEND: "postgres" (default) or "firestore".
func buildRepositories(ctx context.Context) (ports.PollRepository, ports.VoteRepository, ports.UserRepository, ports.AuthRepository, func(), error) {
	switch envOr("STORE_BACKEND", "postgres") {
	case "firestore":
		client, err := fsrepo.NewClient(ctx, os.Getenv("FIRESTORE_PROJECT_ID"), os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		cleanup := func() { client.Close() }
		return fsrepo.NewPollRepository(client),
			fsrepo.NewVoteRepository(client),
			fsrepo.NewUserRepository(client),
			fsrepo.NewAuthRepository(client),
			cleanup, nil

	case "postgres":
		db, err := sql.Open("postgres", dbConnString())
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, nil, nil, nil, err
		}
		cleanup := func() { db.Close() }
		return pgrepo.NewPollRepository(db),
			pgrepo.NewVoteRepository(db),
			pgrepo.NewUserRepository(db),
			pgrepo.NewAuthRepository(db),
			cleanup, nil

	default:
		return nil, nil, nil, nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", os.Getenv("STORE_BACKEND"))
	}
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
