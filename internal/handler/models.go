package handler

import "github.com/blues/tlindexer/internal/model"

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// IndexerStatusResponse 索引器状态
type IndexerStatusResponse struct {
	StartBlock uint64                 `json:"startBlock"`
	Contracts  []ContractResponse     `json:"contracts"`
	Sync       map[string]interface{} `json:"sync"`
	Chain      map[string]interface{} `json:"chain"`
}

// ContractResponse 被监听的合约
type ContractResponse struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	BlockNum int64  `json:"blockNum"`
}

// ContentStatsResponse 内容抓取任务按状态计数
type ContentStatsResponse struct {
	Pending int64 `json:"pending"`
	Done    int64 `json:"done"`
	Stale   int64 `json:"stale"`
	Failed  int64 `json:"failed"`
	Total   int64 `json:"total"`
}

func newContentStatsResponse(stats map[model.ContentTaskStatus]int64) ContentStatsResponse {
	resp := ContentStatsResponse{
		Pending: stats[model.ContentTaskPending],
		Done:    stats[model.ContentTaskDone],
		Stale:   stats[model.ContentTaskStale],
		Failed:  stats[model.ContentTaskFailed],
	}
	resp.Total = resp.Pending + resp.Done + resp.Stale + resp.Failed
	return resp
}
