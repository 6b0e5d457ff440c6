package model

import "time"

// SyncCursor 每条链已完整扫描到的区块
type SyncCursor struct {
	ChainID   int64     `json:"chain_id" gorm:"column:chain_id;primaryKey;autoIncrement:false"`
	BlockNum  int64     `json:"block_num" gorm:"column:block_num;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SyncCursor) TableName() string {
	return "sync_cursor"
}
