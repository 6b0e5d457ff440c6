package model

import (
	"time"
)

// ContentTaskStatus 链下内容抓取任务状态
type ContentTaskStatus string

const (
	ContentTaskPending ContentTaskStatus = "pending" // 待抓取
	ContentTaskDone    ContentTaskStatus = "done"    // 已写入描述记录
	ContentTaskStale   ContentTaskStatus = "stale"   // 记录已被新的描述替换
	ContentTaskFailed  ContentTaskStatus = "failed"  // 超过最大重试次数
)

// ContentTask 内容抓取任务，主键 (owner_type, id)，id 即目标描述记录的ID。
// 服务和报价的描述记录分表存放，相同的 "<cid>-<timestamp>" 各自对应一个任务。
type ContentTask struct {
	OwnerType EntityType        `json:"owner_type" gorm:"column:owner_type;primaryKey"`
	ID        string            `json:"id" gorm:"column:id;primaryKey"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Cid       string            `json:"cid" gorm:"column:cid;not null"`
	OwnerID   string            `json:"owner_id" gorm:"column:owner_id;not null;index"`
	Status    ContentTaskStatus `json:"status" gorm:"column:status;not null;index"`
	Attempts  int               `json:"attempts" gorm:"column:attempts;not null"`
	LastError string            `json:"last_error" gorm:"column:last_error;type:text"`
}

// TableName 自定义表名
func (ContentTask) TableName() string {
	return "content_task"
}
