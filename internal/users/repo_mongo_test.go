package users

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Runs against a live server only when MONGO_TEST_URI is set.
func TestMongoRepoRoundTrip(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Fatalf("ConnectMongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	dbName := "essay_test_" + uuid.NewString()[:8]
	t.Cleanup(func() { _ = client.Database(dbName).Drop(context.Background()) })

	repo, err := NewMongoRepo(ctx, client, dbName)
	if err != nil {
		t.Fatalf("NewMongoRepo: %v", err)
	}

	user := User{ID: uuid.NewString(), Username: "ada", Email: "a@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, User{ID: uuid.NewString(), Username: "ada"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	got, err := repo.GetByUsername(ctx, "ada")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != user.ID || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user %+v", got)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConnectMongoRequiresURI(t *testing.T) {
	if _, err := ConnectMongo(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty uri")
	}
}
