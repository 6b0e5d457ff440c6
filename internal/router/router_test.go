package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/tlindexer/internal/chain"
	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/handler"
	"github.com/blues/tlindexer/internal/logger"
	"github.com/blues/tlindexer/internal/model"
	"github.com/gin-gonic/gin"
)

type stubSync struct{}

func (stubSync) GetStatus(context.Context) map[string]interface{} {
	return map[string]interface{}{
		"next_block": uint64(120),
		"chain_info": map[string]interface{}{"chain_id": 137},
	}
}

type stubChain struct {
	contracts []*chain.Contract
}

func (s stubChain) GetContracts() []*chain.Contract { return s.contracts }
func (s stubChain) GetMinBlockNum() uint64           { return 100 }
func (s stubChain) GetHealthStatus(context.Context) map[string]interface{} {
	return map[string]interface{}{"client_status": "connected"}
}

type stubContent struct {
	err error
}

func (s stubContent) Stats(context.Context) (map[model.ContentTaskStatus]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[model.ContentTaskStatus]int64{
		model.ContentTaskPending: 2,
		model.ContentTaskDone:    5,
		model.ContentTaskStale:   1,
		model.ContentTaskFailed:  0,
	}, nil
}

type stubEvents struct{}

func (stubEvents) GetEventStatistics(context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"total_events": int64(8)}, nil
}

func newTestRouter(t *testing.T, content handler.ContentStatsProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	contract, err := chain.NewContract(chain.ContractTalentLayerService, config.ContractConfig{
		Address:  "0x00000000000000000000000000000000000000a1",
		BlockNum: 100,
	}, 137)
	if err != nil {
		t.Fatalf("failed to build contract: %v", err)
	}

	h := handler.NewIndexerHandler(stubSync{}, stubChain{contracts: []*chain.Contract{contract}}, content, stubEvents{}, logger.NewNop())
	return Setup(h, logger.NewNop())
}

func doGet(t *testing.T, r http.Handler, path string) (*httptest.ResponseRecorder, handler.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode %s response %q: %v", path, w.Body.String(), err)
	}
	return w, resp
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, stubContent{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body handler.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode health: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("unexpected health body %+v", body)
	}
}

func TestIndexerStatus(t *testing.T) {
	r := newTestRouter(t, stubContent{})
	w, resp := doGet(t, r, "/api/v1/indexer/status")
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("unexpected response %d %+v", w.Code, resp)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data %T", resp.Data)
	}
	if data["startBlock"] != float64(100) {
		t.Fatalf("expected start block 100, got %v", data["startBlock"])
	}
	contracts, _ := data["contracts"].([]interface{})
	if len(contracts) != 1 {
		t.Fatalf("expected one contract, got %v", data["contracts"])
	}
	sync, _ := data["sync"].(map[string]interface{})
	if sync["next_block"] != float64(120) {
		t.Fatalf("unexpected sync status %v", sync)
	}
	if _, dup := sync["chain_info"]; dup {
		t.Fatalf("chain info should only appear under chain")
	}
}

func TestContentStats(t *testing.T) {
	r := newTestRouter(t, stubContent{})
	w, resp := doGet(t, r, "/api/v1/content/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["pending"] != float64(2) || data["done"] != float64(5) || data["total"] != float64(8) {
		t.Fatalf("unexpected content stats %v", data)
	}
}

func TestContentStatsError(t *testing.T) {
	r := newTestRouter(t, stubContent{err: errors.New("db closed")})
	w, resp := doGet(t, r, "/api/v1/content/stats")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if resp.Success || resp.Data != nil {
		t.Fatalf("unexpected error body %+v", resp)
	}
}

func TestEventStats(t *testing.T) {
	r := newTestRouter(t, stubContent{})
	w, resp := doGet(t, r, "/api/v1/events/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["total_events"] != float64(8) {
		t.Fatalf("unexpected event stats %v", data)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, stubContent{})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/events/stats", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected allow origin %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}
