package database

import (
	"path/filepath"
	"testing"

	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/model"
)

func TestInitSQLiteMigratesSchema(t *testing.T) {
	db, err := Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "indexer.db"),
	})
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}

	for _, table := range []interface{}{
		&model.Service{}, &model.Proposal{}, &model.UserStat{}, &model.EventModel{}, &model.ContentTask{}, &model.SyncCursor{},
	} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table for %T", table)
		}
	}
}

func TestInitRejectsMissingSQLitePath(t *testing.T) {
	if _, err := Init(config.DatabaseConfig{Driver: "sqlite"}); err == nil {
		t.Fatalf("expected error when sqlite path is empty")
	}
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	if _, err := Init(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
