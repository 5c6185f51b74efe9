package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/probiller/purchase-gateway/internal/data/repos/testutil"
)

func TestSessionRepoCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewSessionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	id := uuid.New()
	payload := []byte(`{"sessionId":"` + id.String() + `","state":"valid"}`)
	created, err := repo.Create(ctx, tx, id, "valid", payload)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != id {
		t.Fatalf("id: want=%s got=%s", id, created.ID)
	}

	got, err := repo.GetByID(ctx, tx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != "valid" {
		t.Fatalf("state: want=valid got=%s", got.State)
	}
	if string(got.Payload) != string(payload) {
		t.Fatalf("payload: want=%s got=%s", payload, got.Payload)
	}
}

func TestSessionRepoGetUnknownIsNotFound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewSessionRepo(db, testutil.Logger(t))

	_, err := repo.GetByID(context.Background(), tx, uuid.New())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepoSaveSnapshot(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewSessionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	row := testutil.SeedPurchaseSession(t, ctx, tx, "valid")

	next := []byte(`{"state":"processed"}`)
	if err := repo.SaveSnapshot(ctx, tx, row.ID, "processed", next); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, row.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != "processed" {
		t.Fatalf("state: want=processed got=%s", got.State)
	}

	err = repo.SaveSnapshot(ctx, tx, uuid.New(), "valid", next)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound for unknown id, got %v", err)
	}
}
