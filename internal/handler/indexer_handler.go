package handler

import (
	"context"
	"net/http"

	"github.com/blues/tlindexer/internal/chain"
	"github.com/blues/tlindexer/internal/logger"
	"github.com/blues/tlindexer/internal/model"
	"github.com/gin-gonic/gin"
)

const serviceName = "talentlayer-indexer"

// SyncStatusProvider 同步进度来源，由事件监控器实现
type SyncStatusProvider interface {
	GetStatus(ctx context.Context) map[string]interface{}
}

// ChainInfoProvider 链与合约信息来源，由链管理器实现
type ChainInfoProvider interface {
	GetContracts() []*chain.Contract
	GetMinBlockNum() uint64
	GetHealthStatus(ctx context.Context) map[string]interface{}
}

// ContentStatsProvider 内容任务统计来源
type ContentStatsProvider interface {
	Stats(ctx context.Context) (map[model.ContentTaskStatus]int64, error)
}

// EventStatsProvider 原始事件统计来源
type EventStatsProvider interface {
	GetEventStatistics(ctx context.Context) (map[string]interface{}, error)
}

// IndexerHandler 索引器运维接口
type IndexerHandler struct {
	sync    SyncStatusProvider
	chain   ChainInfoProvider
	content ContentStatsProvider
	events  EventStatsProvider
	logger  *logger.Logger
}

// NewIndexerHandler 创建运维接口处理器
func NewIndexerHandler(sync SyncStatusProvider, chainInfo ChainInfoProvider, content ContentStatsProvider, events EventStatsProvider, log *logger.Logger) *IndexerHandler {
	return &IndexerHandler{
		sync:    sync,
		chain:   chainInfo,
		content: content,
		events:  events,
		logger:  logger.OrDefault(log).Named("handler"),
	}
}

// Health 健康检查
func (h *IndexerHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: serviceName,
	})
}

// GetIndexerStatus 获取同步状态、监听的合约和链连接状态
func (h *IndexerHandler) GetIndexerStatus(c *gin.Context) {
	ctx := c.Request.Context()

	contracts := h.chain.GetContracts()
	resp := IndexerStatusResponse{
		StartBlock: h.chain.GetMinBlockNum(),
		Contracts:  make([]ContractResponse, 0, len(contracts)),
		Chain:      h.chain.GetHealthStatus(ctx),
	}
	for _, contract := range contracts {
		resp.Contracts = append(resp.Contracts, ContractResponse{
			Name:     contract.GetName(),
			Address:  contract.GetAddress().Hex(),
			BlockNum: contract.GetBlockNum(),
		})
	}

	if h.sync != nil {
		resp.Sync = h.sync.GetStatus(ctx)
		delete(resp.Sync, "chain_info")
	}

	SuccessResponse(c, http.StatusOK, "获取索引器状态成功", resp)
}

// GetContentStats 获取内容抓取任务统计
func (h *IndexerHandler) GetContentStats(c *gin.Context) {
	stats, err := h.content.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("获取内容任务统计失败: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "获取内容任务统计失败")
		return
	}

	SuccessResponse(c, http.StatusOK, "获取内容任务统计成功", newContentStatsResponse(stats))
}

// GetEventStats 获取已记录事件统计
func (h *IndexerHandler) GetEventStats(c *gin.Context) {
	stats, err := h.events.GetEventStatistics(c.Request.Context())
	if err != nil {
		h.logger.Error("获取事件统计失败: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "获取事件统计失败")
		return
	}

	SuccessResponse(c, http.StatusOK, "获取事件统计成功", stats)
}
