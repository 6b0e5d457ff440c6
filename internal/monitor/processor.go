package monitor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blues/tlindexer/internal/chain"
	"github.com/blues/tlindexer/internal/content"
	"github.com/blues/tlindexer/internal/logger"
	"github.com/blues/tlindexer/internal/logic"
	"github.com/blues/tlindexer/internal/mapping"
	"github.com/blues/tlindexer/internal/model"
	"github.com/blues/tlindexer/internal/store"
	"gorm.io/gorm"
)

// EventProcessor 在一个数据库事务内记录事件并执行映射
type EventProcessor struct {
	store  *store.GormStore
	logger *logger.Logger
}

// NewEventProcessor 创建事件处理器
func NewEventProcessor(db *gorm.DB, log *logger.Logger) *EventProcessor {
	return &EventProcessor{
		store:  store.NewGormStore(db),
		logger: logger.OrDefault(log),
	}
}

// ProcessEvent 处理一个已解码的日志，已记录过的事件返回 false
func (p *EventProcessor) ProcessEvent(ctx context.Context, decoded *chain.DecodedLog, blockTime int64) (bool, error) {
	data, err := json.Marshal(decoded.Args)
	if err != nil {
		return false, fmt.Errorf("failed to marshal event data: %w", err)
	}

	log := decoded.Log
	event := &model.EventModel{
		ContractAddress: log.Address.Hex(),
		ContractName:    decoded.Contract,
		EventName:       decoded.EventName,
		TxHash:          log.TxHash.Hex(),
		TxIndex:         int64(log.TxIndex),
		BlockNum:        int64(log.BlockNumber),
		BlockHash:       log.BlockHash.Hex(),
		BlockTime:       blockTime,
		LogIndex:        int64(log.Index),
		Data:            data,
		Processed:       true,
	}
	block := mapping.Block{
		Number:    log.BlockNumber,
		Hash:      log.BlockHash.Hex(),
		Timestamp: blockTime,
	}

	applied := false
	err = p.store.Transaction(ctx, func(tx *gorm.DB, st *store.GormStore) error {
		inserted, err := logic.NewEventLogic(tx).RecordEvent(ctx, event)
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		mapper := mapping.NewMapper(st, content.NewQueue(tx), p.logger)
		if err := mapper.Handle(ctx, block, decoded.Event); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if applied {
		p.logger.Debug("Processed %s at block %d (tx %s, log %d)", decoded.EventName, log.BlockNumber, event.TxHash, log.Index)
	} else {
		p.logger.Debug("Skipping already processed event %s (tx %s, log %d)", decoded.EventName, event.TxHash, log.Index)
	}
	return applied, nil
}
