package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/careconnect/server/internal/api"
	"github.com/careconnect/server/internal/config"
	"github.com/careconnect/server/internal/db"
	"github.com/careconnect/server/internal/model"
	"github.com/careconnect/server/internal/notify"
	"github.com/careconnect/server/internal/scheduler"
	"github.com/careconnect/server/internal/session"
	"github.com/careconnect/server/internal/store"
	"github.com/careconnect/server/internal/watch"
	"github.com/careconnect/server/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		baseLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		baseLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()

	// Use the configured signing secret, or a persisted auto-generated one.
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = store.GetJWTSecret(ctx, database)
		if err != nil {
			baseLogger.Fatal("failed to load jwt secret", zap.Error(err))
		}
	}

	if err := seedAdmin(ctx, database, cfg.Auth.AdminEmail); err != nil {
		baseLogger.Fatal("failed to seed admin account", zap.Error(err))
	}

	sender := notify.NewClient(cfg.Notify, baseLogger.Named("notify"))
	broker := session.NewBroker()
	profiles := session.NewAggregator(database, broker)
	defer profiles.Close()
	hub := watch.NewHub()

	handler := api.LoggingMiddleware(api.NewRouter(api.Deps{
		DB:        database,
		JWTSecret: secret,
		Sender:    sender,
		Broker:    broker,
		Profiles:  profiles,
		Hub:       hub,
	}))

	sched := scheduler.New(cfg.Reporting, database, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-runCtx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// seedAdmin creates the administrator account on first start, with a
// generated password printed once to stdout.
func seedAdmin(ctx context.Context, database *sql.DB, email string) error {
	count, err := store.CountUsers(ctx, database)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.CreateUser(ctx, database, uuid.NewString(),
		"Administrator", email, "", string(hash), model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	// The admin account skips contact verification.
	if err := store.SetEmailVerified(ctx, database, user.UID); err != nil {
		return err
	}
	if err := store.SetMobileVerified(ctx, database, user.UID); err != nil {
		return err
	}

	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")

	return nil
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
