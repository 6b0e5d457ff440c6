package model

import (
	"time"

	"gorm.io/datatypes"
)

// EventModel 已处理的链上事件记录，(tx_hash, log_index) 唯一
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ContractAddress string         `json:"contract_address" gorm:"not null"`
	ContractName    string         `json:"contract_name" gorm:"not null"`
	EventName       string         `json:"event_name" gorm:"not null;index"`
	TxHash          string         `json:"tx_hash" gorm:"not null;uniqueIndex:idx_event_tx_log,priority:1"`
	TxIndex         int64          `json:"tx_index"`
	BlockNum        int64          `json:"block_num" gorm:"not null;index"`
	BlockHash       string         `json:"block_hash"`
	BlockTime       int64          `json:"block_time"`
	LogIndex        int64          `json:"log_index" gorm:"uniqueIndex:idx_event_tx_log,priority:2"`
	Data            datatypes.JSON `json:"data"`
	Processed       bool           `json:"processed" gorm:"default:false"`
}

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}
