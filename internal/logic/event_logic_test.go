package logic

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/database"
	"github.com/blues/tlindexer/internal/model"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "logic.db")})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return db
}

func newEvent(block int64, tx string, index int64, name string) *model.EventModel {
	return &model.EventModel{
		ContractAddress: "0x0000000000000000000000000000000000001001",
		ContractName:    "talent_layer_service",
		EventName:       name,
		TxHash:          tx,
		BlockNum:        block,
		LogIndex:        index,
		Processed:       true,
	}
}

func TestRecordEventDeduplicates(t *testing.T) {
	logic := NewEventLogic(openDB(t))
	ctx := context.Background()

	inserted, err := logic.RecordEvent(ctx, newEvent(10, "0xaa", 1, "ServiceCreated"))
	if err != nil || !inserted {
		t.Fatalf("expected first insert, inserted=%v err=%v", inserted, err)
	}
	inserted, err = logic.RecordEvent(ctx, newEvent(10, "0xaa", 1, "ServiceCreated"))
	if err != nil || inserted {
		t.Fatalf("expected duplicate to be skipped, inserted=%v err=%v", inserted, err)
	}
	inserted, err = logic.RecordEvent(ctx, newEvent(10, "0xaa", 2, "ServiceCreated"))
	if err != nil || !inserted {
		t.Fatalf("expected different log index to insert, inserted=%v err=%v", inserted, err)
	}

	stats, err := logic.GetEventStatistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats["total_events"] != int64(2) {
		t.Fatalf("expected 2 recorded events, got %v", stats["total_events"])
	}
}

func TestRecordEventValidates(t *testing.T) {
	logic := NewEventLogic(openDB(t))
	if _, err := logic.RecordEvent(context.Background(), newEvent(0, "0xaa", 1, "ServiceCreated")); err == nil {
		t.Fatalf("expected validation error for block 0")
	}
}

func TestLastProcessedBlockAndCursor(t *testing.T) {
	logic := NewEventLogic(openDB(t))
	ctx := context.Background()

	if _, ok, err := logic.GetLastProcessedBlock(ctx); err != nil || ok {
		t.Fatalf("expected no processed block, ok=%v err=%v", ok, err)
	}
	for i, block := range []int64{12, 40, 25} {
		if _, err := logic.RecordEvent(ctx, newEvent(block, "0xbb", int64(i), "ProposalCreated")); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	last, ok, err := logic.GetLastProcessedBlock(ctx)
	if err != nil || !ok || last != 40 {
		t.Fatalf("expected 40, got %d ok=%v err=%v", last, ok, err)
	}

	if err := logic.SaveCursor(ctx, 137, 100); err != nil {
		t.Fatalf("save cursor: %v", err)
	}
	if err := logic.SaveCursor(ctx, 137, 150); err != nil {
		t.Fatalf("save cursor: %v", err)
	}
	cursor, ok, err := logic.GetCursor(ctx, 137)
	if err != nil || !ok || cursor != 150 {
		t.Fatalf("expected cursor 150, got %d ok=%v err=%v", cursor, ok, err)
	}
	if _, ok, _ := logic.GetCursor(ctx, 1); ok {
		t.Fatalf("expected no cursor for other chain")
	}
}

func TestEventStatistics(t *testing.T) {
	logic := NewEventLogic(openDB(t))
	ctx := context.Background()
	_, _ = logic.RecordEvent(ctx, newEvent(1, "0x01", 0, "ServiceCreated"))
	_, _ = logic.RecordEvent(ctx, newEvent(2, "0x02", 0, "ServiceCreated"))
	_, _ = logic.RecordEvent(ctx, newEvent(3, "0x03", 0, "Mint"))

	stats, err := logic.GetEventStatistics(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats["total_events"] != int64(3) || stats["processed_events"] != int64(3) {
		t.Fatalf("unexpected stats %v", stats)
	}
	byName := stats["by_event_name"].(map[string]int64)
	if byName["ServiceCreated"] != 2 || byName["Mint"] != 1 {
		t.Fatalf("unexpected breakdown %v", byName)
	}
}
