package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/tlindexer/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventLogic 事件记录与同步进度
type EventLogic struct {
	db *gorm.DB
}

// NewEventLogic 创建事件业务逻辑，db 可以是事务句柄
func NewEventLogic(db *gorm.DB) *EventLogic {
	return &EventLogic{db: db}
}

// RecordEvent 写入事件记录，(tx_hash, log_index) 已存在时返回 false
func (e *EventLogic) RecordEvent(ctx context.Context, event *model.EventModel) (bool, error) {
	// 验证事件数据
	if err := e.validateEvent(event); err != nil {
		return false, err
	}

	result := e.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "log_index"}},
			DoNothing: true,
		}).
		Create(event)
	if result.Error != nil {
		return false, fmt.Errorf("创建事件记录失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetLastProcessedBlock 获取最后处理的区块号，没有事件时 ok 为 false
func (e *EventLogic) GetLastProcessedBlock(ctx context.Context) (uint64, bool, error) {
	var lastEvent model.EventModel
	err := e.db.WithContext(ctx).Order("block_num DESC").Take(&lastEvent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("获取最后处理区块号失败: %w", err)
	}
	return uint64(lastEvent.BlockNum), true, nil
}

// GetCursor 获取链的已扫描区块，未记录时 ok 为 false
func (e *EventLogic) GetCursor(ctx context.Context, chainID int64) (uint64, bool, error) {
	var cursor model.SyncCursor
	err := e.db.WithContext(ctx).Where("chain_id = ?", chainID).Take(&cursor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("获取同步进度失败: %w", err)
	}
	return uint64(cursor.BlockNum), true, nil
}

// SaveCursor 记录已完整扫描到的区块
func (e *EventLogic) SaveCursor(ctx context.Context, chainID int64, blockNum uint64) error {
	cursor := &model.SyncCursor{ChainID: chainID, BlockNum: int64(blockNum)}
	err := e.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chain_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"block_num", "updated_at"}),
		}).
		Create(cursor).Error
	if err != nil {
		return fmt.Errorf("更新同步进度失败: %w", err)
	}
	return nil
}

// GetEventStatistics 获取事件统计信息
func (e *EventLogic) GetEventStatistics(ctx context.Context) (map[string]interface{}, error) {
	var stats struct {
		TotalEvents     int64
		ProcessedEvents int64
	}

	db := e.db.WithContext(ctx)
	if err := db.Model(&model.EventModel{}).Count(&stats.TotalEvents).Error; err != nil {
		return nil, fmt.Errorf("获取总事件数失败: %w", err)
	}
	if err := db.Model(&model.EventModel{}).Where("processed = ?", true).Count(&stats.ProcessedEvents).Error; err != nil {
		return nil, fmt.Errorf("获取已处理事件数失败: %w", err)
	}

	var rows []struct {
		EventName string
		Count     int64
	}
	if err := db.Model(&model.EventModel{}).
		Select("event_name, count(*) as count").
		Group("event_name").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("按事件类型统计失败: %w", err)
	}
	byName := make(map[string]int64, len(rows))
	for _, row := range rows {
		byName[row.EventName] = row.Count
	}

	return map[string]interface{}{
		"total_events":     stats.TotalEvents,
		"processed_events": stats.ProcessedEvents,
		"pending_events":   stats.TotalEvents - stats.ProcessedEvents,
		"by_event_name":    byName,
	}, nil
}

// validateEvent 验证事件数据
func (e *EventLogic) validateEvent(event *model.EventModel) error {
	if event.ContractAddress == "" {
		return errors.New("合约地址不能为空")
	}
	if event.ContractName == "" {
		return errors.New("合约名称不能为空")
	}
	if event.EventName == "" {
		return errors.New("事件名称不能为空")
	}
	if event.TxHash == "" {
		return errors.New("交易哈希不能为空")
	}
	if event.BlockNum == 0 {
		return errors.New("区块号不能为空")
	}
	return nil
}
