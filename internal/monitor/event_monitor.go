package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blues/tlindexer/internal/chain"
	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/logger"
	"github.com/blues/tlindexer/internal/logic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"gorm.io/gorm"
)

// maxBackoff 连续失败时的最大退避时间
const maxBackoff = 5 * time.Minute

// EventMonitor 区块链事件监控器，按链上顺序逐个处理事件
type EventMonitor struct {
	chainManager   *chain.Manager
	eventLogic     *logic.EventLogic
	eventProcessor *EventProcessor
	logger         *logger.Logger

	chainID       int64
	confirmations uint64
	batchSize     uint64
	pollInterval  time.Duration

	mu              sync.RWMutex // 保护以下状态
	nextBlock       uint64
	headBlock       uint64
	lastSyncTime    time.Time
	lastError       string
	retryCount      int
	backoffDuration time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewEventMonitor 创建事件监控器
func NewEventMonitor(chainManager *chain.Manager, db *gorm.DB, cfg config.ChainConfig, log *logger.Logger) *EventMonitor {
	log = logger.OrDefault(log)
	batchSize := uint64(500)
	if cfg.BatchSize > 0 {
		batchSize = uint64(cfg.BatchSize)
	}
	var confirmations uint64
	if cfg.Confirmations > 0 {
		confirmations = uint64(cfg.Confirmations)
	}

	pollInterval := cfg.PollDuration()
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}

	return &EventMonitor{
		chainManager:   chainManager,
		eventLogic:     logic.NewEventLogic(db),
		eventProcessor: NewEventProcessor(db, log),
		logger:         log,
		chainID:        cfg.ChainId,
		confirmations:  confirmations,
		batchSize:      batchSize,
		pollInterval:   pollInterval,
	}
}

// Start 确定起始区块并启动监控循环
func (m *EventMonitor) Start(ctx context.Context) error {
	m.logger.Info("Starting blockchain event monitor")

	contracts := m.chainManager.GetContracts()
	if len(contracts) == 0 {
		return fmt.Errorf("no contracts available for monitoring")
	}
	m.logger.Info("Found %d contracts to monitor", len(contracts))

	currentBlock, err := m.chainManager.GetBlock().GetCurrentBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to blockchain: %w", err)
	}
	m.logger.Info("Connected to blockchain, current block: %d", currentBlock)

	startBlock, err := m.resolveStartBlock(ctx)
	if err != nil {
		return err
	}
	m.setNextBlock(startBlock)
	m.logger.Info("Starting monitor from block %d", startBlock)

	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.loop(loopCtx)
	return nil
}

// Stop 停止监控并等待当前批次结束
func (m *EventMonitor) Stop() {
	m.logger.Info("Stopping blockchain event monitor")
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
}

// loop 监控循环，失败时按退避时间延后下一轮
func (m *EventMonitor) loop(ctx context.Context) {
	defer close(m.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Monitor stopped")
			return
		case <-timer.C:
			wait := m.pollInterval
			if err := m.SyncOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				wait = m.handleError(err)
			} else {
				m.resetErrors()
			}
			timer.Reset(wait)
		}
	}
}

// SyncOnce 处理从 nextBlock 到 (最新区块 - 确认数) 的全部区块
func (m *EventMonitor) SyncOnce(ctx context.Context) error {
	head, err := m.chainManager.GetBlock().GetCurrentBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current block number: %w", err)
	}

	m.mu.Lock()
	m.headBlock = head
	from := m.nextBlock
	m.mu.Unlock()

	if head < m.confirmations {
		return nil
	}
	safeBlock := head - m.confirmations
	if from > safeBlock {
		m.logger.Debug("Waiting for confirmations: next %d, safe %d", from, safeBlock)
		return nil
	}

	for batchFrom := from; batchFrom <= safeBlock; batchFrom += m.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		batchTo := batchFrom + m.batchSize - 1
		if batchTo > safeBlock {
			batchTo = safeBlock
		}

		if err := m.processBatch(ctx, batchFrom, batchTo); err != nil {
			return fmt.Errorf("blocks %d-%d: %w", batchFrom, batchTo, err)
		}
		if err := m.eventLogic.SaveCursor(ctx, m.chainID, batchTo); err != nil {
			return err
		}
		m.setNextBlock(batchTo + 1)
	}

	m.mu.Lock()
	m.lastSyncTime = time.Now()
	m.mu.Unlock()
	return nil
}

// processBatch 获取一批区块的日志并按 (区块, 交易, 日志) 顺序处理
func (m *EventMonitor) processBatch(ctx context.Context, fromBlock, toBlock uint64) error {
	addresses, contractMap := m.deployedContracts(toBlock)
	if len(addresses) == 0 {
		m.logger.Debug("No deployed contracts for blocks %d-%d", fromBlock, toBlock)
		return nil
	}

	block := m.chainManager.GetBlock()
	logs, err := block.GetBatchBlockLogs(ctx, addresses, fromBlock, toBlock)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		m.logger.Debug("No logs found for blocks %d-%d", fromBlock, toBlock)
		return nil
	}
	m.logger.Debug("Found %d logs for blocks %d-%d", len(logs), fromBlock, toBlock)

	sortLogs(logs)

	processed := 0
	for _, log := range logs {
		if log.Removed {
			continue
		}
		contract := contractMap[log.Address]
		if contract == nil {
			m.logger.Warn("Unknown contract address: %s", log.Address.Hex())
			continue
		}
		if log.BlockNumber < uint64(contract.GetBlockNum()) {
			continue
		}

		decoded, err := contract.Decode(log)
		if errors.Is(err, chain.ErrUnknownSignature) {
			m.logger.Debug("Ignoring log %s#%d: %v", log.TxHash.Hex(), log.Index, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("decode log %s#%d: %w", log.TxHash.Hex(), log.Index, err)
		}

		blockTime, err := block.GetBlockTimestamp(ctx, log.BlockNumber)
		if err != nil {
			return err
		}

		applied, err := m.eventProcessor.ProcessEvent(ctx, decoded, blockTime)
		if err != nil {
			return fmt.Errorf("process %s in tx %s: %w", decoded.EventName, log.TxHash.Hex(), err)
		}
		if applied {
			processed++
		}
	}

	if processed > 0 {
		m.logger.Info("Processed %d events in blocks %d-%d", processed, fromBlock, toBlock)
	}
	return nil
}

// resolveStartBlock 起始区块 = max(最小部署区块, 已扫描区块+1, 最后事件所在区块)。
// 最后事件所在区块会被重新扫描，已记录的事件由去重跳过。
func (m *EventMonitor) resolveStartBlock(ctx context.Context) (uint64, error) {
	start := m.chainManager.GetMinBlockNum()

	cursor, ok, err := m.eventLogic.GetCursor(ctx, m.chainID)
	if err != nil {
		return 0, err
	}
	if ok && cursor+1 > start {
		start = cursor + 1
	}

	lastEventBlock, ok, err := m.eventLogic.GetLastProcessedBlock(ctx)
	if err != nil {
		return 0, err
	}
	if ok && lastEventBlock > start {
		start = lastEventBlock
	}

	m.logger.Info("Final start block: %d (deploy: %d, cursor: %d, last event: %d)",
		start, m.chainManager.GetMinBlockNum(), cursor, lastEventBlock)
	return start, nil
}

// deployedContracts 返回在 toBlock 之前已部署的合约
func (m *EventMonitor) deployedContracts(toBlock uint64) ([]common.Address, map[common.Address]*chain.Contract) {
	var addresses []common.Address
	contractMap := make(map[common.Address]*chain.Contract)

	for _, contract := range m.chainManager.GetContracts() {
		if toBlock < uint64(contract.GetBlockNum()) {
			continue
		}
		addresses = append(addresses, contract.GetAddress())
		contractMap[contract.GetAddress()] = contract
	}
	return addresses, contractMap
}

// sortLogs 按区块号、交易序号、日志序号排序
func sortLogs(logs []types.Log) {
	sort.SliceStable(logs, func(i, j int) bool {
		a, b := logs[i], logs[j]
		if a.BlockNumber != b.BlockNumber {
			return a.BlockNumber < b.BlockNumber
		}
		if a.TxIndex != b.TxIndex {
			return a.TxIndex < b.TxIndex
		}
		return a.Index < b.Index
	})
}

func (m *EventMonitor) setNextBlock(blockNum uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBlock = blockNum
}

// handleError 记录错误并返回下一轮前的等待时间
func (m *EventMonitor) handleError(err error) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.retryCount++
	m.lastError = err.Error()

	// 指数退避
	backoff := m.pollInterval << uint(m.retryCount-1)
	if isAPIRateLimitError(err) {
		backoff *= 2
	}
	if backoff <= 0 || backoff > maxBackoff {
		backoff = maxBackoff
	}
	m.backoffDuration = backoff

	m.logger.Error("Monitor encountered error (retry %d, next attempt in %s): %v", m.retryCount, backoff, err)
	return backoff
}

func (m *EventMonitor) resetErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retryCount = 0
	m.lastError = ""
	m.backoffDuration = 0
}

// isAPIRateLimitError 检查是否为API限制错误
func isAPIRateLimitError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Too Many Requests") || strings.Contains(msg, "429")
}

// GetStatus 获取监控状态
func (m *EventMonitor) GetStatus(ctx context.Context) map[string]interface{} {
	m.mu.RLock()
	status := map[string]interface{}{
		"next_block":     m.nextBlock,
		"head_block":     m.headBlock,
		"confirmations":  m.confirmations,
		"batch_size":     m.batchSize,
		"retry_count":    m.retryCount,
		"last_error":     m.lastError,
		"backoff":        m.backoffDuration.String(),
		"last_sync_time": m.lastSyncTime,
	}
	m.mu.RUnlock()

	status["contract_count"] = len(m.chainManager.GetContracts())
	status["chain_info"] = m.chainManager.GetHealthStatus(ctx)
	return status
}
