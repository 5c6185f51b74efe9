package templateevent

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/probiller/purchase-gateway/internal/data/repos/testutil"
)

func TestTemplateEventRepoOutboxFlow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewTemplateEventRepo(db, testutil.Logger(t))
	ctx := context.Background()

	sessionID := uuid.New()
	memberID := uuid.New()
	payload := []byte(`{"billerName":"rocketgate","lastFour":"1111"}`)

	row, err := repo.Append(ctx, tx, sessionID, memberID, payload)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if row.ID == uuid.Nil {
		t.Fatal("append left ID unset")
	}
	if row.PublishedAt != nil {
		t.Fatal("new event should not be published")
	}

	pending, err := repo.ListUnpublished(ctx, tx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, p := range pending {
		if p.ID == row.ID {
			found = true
			if string(p.Payload) != string(payload) {
				t.Fatalf("payload: want=%s got=%s", payload, p.Payload)
			}
		}
	}
	if !found {
		t.Fatalf("appended event %s missing from unpublished list", row.ID)
	}

	if err := repo.MarkPublished(ctx, tx, row.ID); err != nil {
		t.Fatalf("mark published: %v", err)
	}

	pending, err = repo.ListUnpublished(ctx, tx, 0)
	if err != nil {
		t.Fatalf("list after publish: %v", err)
	}
	for _, p := range pending {
		if p.ID == row.ID {
			t.Fatalf("event %s still listed after publish", row.ID)
		}
	}
}

func TestTemplateEventRepoListRespectsLimit(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewTemplateEventRepo(db, testutil.Logger(t))
	ctx := context.Background()

	sessionID := uuid.New()
	for i := 0; i < 3; i++ {
		testutil.SeedTemplateEvent(t, ctx, tx, sessionID, uuid.New())
	}

	rows, err := repo.ListUnpublished(ctx, tx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) > 2 {
		t.Fatalf("limit ignored: got %d rows", len(rows))
	}
}
