package store

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/j-veylop/handwash-dashboard-tui/internal/logger"
)

// FirebaseConfig describes how to reach a Realtime Database instance.
type FirebaseConfig struct {
	DatabaseURL     string
	CredentialsFile string
	CredentialsJSON string
}

// Firebase is a Store backed by the Firebase Realtime Database REST API.
type Firebase struct {
	client *db.Client
	url    string
}

// NewFirebase initializes the Firebase app and database client.
// FIREBASE_DATABASE_EMULATOR_HOST is honoured by the SDK.
func NewFirebase(ctx context.Context, cfg FirebaseConfig) (*Firebase, error) {
	conf := &firebase.Config{
		DatabaseURL: cfg.DatabaseURL,
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %w", err)
	}

	return &Firebase{client: client, url: cfg.DatabaseURL}, nil
}

// Get reads the value at path into v.
func (f *Firebase) Get(ctx context.Context, path string, v any) error {
	if err := f.client.NewRef(path).Get(ctx, v); err != nil {
		return fmt.Errorf("firebase get %s: %w", path, err)
	}
	return nil
}

// Set replaces the value at path with v.
func (f *Firebase) Set(ctx context.Context, path string, v any) error {
	if err := f.client.NewRef(path).Set(ctx, v); err != nil {
		return fmt.Errorf("firebase set %s: %w", path, err)
	}
	return nil
}

// Ping reads a small path to verify connectivity, retrying with a linear
// backoff.
func (f *Firebase) Ping(ctx context.Context, path string, maxRetries int) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		logger.Info("Testing Firebase connection", "attempt", attempt, "max_retries", maxRetries, "url", f.url)

		var data any
		if err = f.Get(ctx, path, &data); err == nil {
			logger.Info("Firebase connection successful")
			return nil
		}

		logger.Warn("Firebase connection failed", "attempt", attempt, "error", err)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}

	return fmt.Errorf("failed to connect to Firebase after %d attempts: %w", maxRetries, err)
}
