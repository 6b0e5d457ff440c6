package task

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/content"
	"github.com/blues/tlindexer/internal/database"
	"github.com/blues/tlindexer/internal/logger"
	"github.com/blues/tlindexer/internal/mapping"
	"github.com/blues/tlindexer/internal/model"
	"github.com/blues/tlindexer/internal/store"
	"github.com/go-co-op/gocron/v2"
)

func newGateway(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/QmA":
			_, _ = w.Write([]byte(`{"title":"A","about":"first","keywords":"go,gorm"}`))
		case "/QmB":
			_, _ = w.Write([]byte(`{"title":"B","about":"second"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestContentFetchJobRunOnce(t *testing.T) {
	db, err := database.Init(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "task.db")})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	s := store.NewGormStore(db)
	ctx := context.Background()
	queue := content.NewQueue(db)

	seed := func(serviceID, cid, recordID, currentID string) {
		service := model.NewService(serviceID)
		service.SetContentPointer(cid, currentID)
		if err := s.Save(ctx, service); err != nil {
			t.Fatalf("save service: %v", err)
		}
		err := queue.RegisterContentSource(ctx, mapping.ContentSource{
			Cid: cid, OwnerType: model.EntityService, OwnerID: serviceID, RecordID: recordID,
		})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	seed("1", "QmA", "QmA-10", "QmA-10")
	seed("2", "QmB", "QmB-20", "QmB-20")
	seed("3", "QmOld", "QmOld-30", "QmNew-40")

	gateway := newGateway(t)
	contentCfg := config.ContentConfig{Gateway: gateway.URL, Timeout: 5, BatchSize: 10, Workers: 2, MaxAttempts: 3}
	fetcher := content.NewGatewayFetcher(contentCfg.Gateway, contentCfg.TimeoutDuration(), 0)
	materializer := content.NewMaterializer(s, fetcher, contentCfg.MaxAttempts, logger.NewNop())

	job, err := NewContentFetchJob(ctx, materializer, contentCfg, config.TaskConfig{Interval: 1})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	defer job.Release()

	summary, err := job.RunOnce(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary[content.OutcomeDone] != 2 || summary[content.OutcomeStale] != 1 {
		t.Fatalf("unexpected summary %v", summary)
	}

	record := &model.ServiceDescription{ID: "QmA-10"}
	if found, err := s.Load(ctx, record); err != nil || !found {
		t.Fatalf("expected record QmA-10, found=%v err=%v", found, err)
	}
	if record.KeywordsRaw != "go,gorm" {
		t.Fatalf("unexpected keywords %q", record.KeywordsRaw)
	}

	stats, err := job.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats[model.ContentTaskDone] != 2 || stats[model.ContentTaskStale] != 1 || stats[model.ContentTaskPending] != 0 {
		t.Fatalf("unexpected stats %v", stats)
	}

	summary, err = job.RunOnce(ctx)
	if err != nil || len(summary) != 0 {
		t.Fatalf("expected empty second run, got %v err=%v", summary, err)
	}
}

type countingJob struct {
	runs atomic.Int32
}

func (j *countingJob) GetName() string { return "counting" }

func (j *countingJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(20 * time.Millisecond)
}

func (j *countingJob) Execute() { j.runs.Add(1) }

func TestManagerRunsRegisteredJobs(t *testing.T) {
	m, err := NewManager()
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	job := &countingJob{}
	if err := m.Register(job); err != nil {
		t.Fatalf("register: %v", err)
	}
	m.Start()

	deadline := time.Now().Add(2 * time.Second)
	for job.runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	m.Stop()

	if job.runs.Load() == 0 {
		t.Fatalf("expected job to run at least once")
	}
}
