package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/database"
	"github.com/blues/tlindexer/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "store.db"),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return NewGormStore(db)
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("gorm", func(t *testing.T) { fn(t, openGormStore(t)) })
}

func TestLoadReportsAbsence(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		found, err := s.Load(context.Background(), &model.Service{ID: "404"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found {
			t.Fatalf("expected absent service")
		}
	})
}

func TestSaveOverwritesWholeRecord(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		referrer := "4"
		proposal := model.NewProposal("7-9", "7", "")
		proposal.ReferrerID = &referrer
		proposal.RateAmount = decimal.RequireFromString("1500000000000000000")
		if err := s.Save(ctx, proposal); err != nil {
			t.Fatalf("first save failed: %v", err)
		}

		proposal.Cid = "Qm222"
		proposal.DescriptionID = "Qm222-2000"
		if err := s.Save(ctx, proposal); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		loaded := &model.Proposal{ID: "7-9"}
		found, err := s.Load(ctx, loaded)
		if err != nil || !found {
			t.Fatalf("expected proposal, found=%v err=%v", found, err)
		}
		if loaded.DescriptionID != "Qm222-2000" || loaded.Cid != "Qm222" {
			t.Fatalf("expected last write to win, got %+v", loaded)
		}
		if loaded.ReferrerID == nil || *loaded.ReferrerID != "4" {
			t.Fatalf("expected referrer to round-trip, got %v", loaded.ReferrerID)
		}
		if !loaded.RateAmount.Equal(proposal.RateAmount) {
			t.Fatalf("expected rate amount %s, got %s", proposal.RateAmount, loaded.RateAmount)
		}
	})
}

func TestSaveCanResetBooleanFlag(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		token := model.NewToken("0x00000000000000000000000000000000000000aa")
		token.Allowed = true
		if err := s.Save(ctx, token); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		token.Allowed = false
		if err := s.Save(ctx, token); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded := &model.Token{ID: token.ID}
		if _, err := s.Load(ctx, loaded); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.Allowed {
			t.Fatalf("expected allowed flag to be cleared")
		}
	})
}

func TestRemoveIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		record := &model.ServiceDescription{ID: "Qm111-1000", ServiceID: "7", Cid: "Qm111"}
		if err := s.Save(ctx, record); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		for i := 0; i < 2; i++ {
			if err := s.Remove(ctx, model.EntityServiceDescription, "Qm111-1000"); err != nil {
				t.Fatalf("remove #%d failed: %v", i+1, err)
			}
		}

		found, err := s.Load(ctx, &model.ServiceDescription{ID: "Qm111-1000"})
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if found {
			t.Fatalf("expected record to be removed")
		}
	})
}

func TestRemoveRejectsUnknownType(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		if _, ok := s.(*MemoryStore); ok {
			t.Skip("memory store accepts any type name")
		}
		if err := s.Remove(context.Background(), "Review", "1"); err == nil {
			t.Fatalf("expected error for unknown entity type")
		}
	})
}

func TestGormStoreTransactionRollsBack(t *testing.T) {
	s := openGormStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(_ *gorm.DB, tx *GormStore) error {
		if err := tx.Save(ctx, model.NewUser("3")); err != nil {
			return err
		}
		return context.Canceled
	})
	if err == nil {
		t.Fatalf("expected transaction error")
	}

	found, err := s.Load(ctx, &model.User{ID: "3"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if found {
		t.Fatalf("expected user write to be rolled back")
	}
}

func TestMemoryStoreListsIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, id := range []string{"9", "3", "4"} {
		if err := s.Save(ctx, model.NewUser(id)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	ids := s.IDs(model.EntityUser)
	if len(ids) != 3 || ids[0] != "3" || ids[2] != "9" {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if s.Count(model.EntityUser) != 3 {
		t.Fatalf("unexpected count %d", s.Count(model.EntityUser))
	}
}
