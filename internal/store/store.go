// Package store 提供按实体类型和ID存取实体的存储层。
//
// 存储只保证键值语义和后写覆盖：Load 在记录不存在时返回 false 而不是错误，
// Remove 对不存在的记录是空操作。
package store

import (
	"context"

	"github.com/blues/tlindexer/internal/model"
)

// Store 实体存储
type Store interface {
	// Load 按 entity 上已设置的ID加载记录并填充到 entity，记录不存在时返回 false
	Load(ctx context.Context, entity model.Entity) (bool, error)
	// Save 插入或整体覆盖记录
	Save(ctx context.Context, entity model.Entity) error
	// Remove 删除记录，记录不存在时不报错
	Remove(ctx context.Context, entityType model.EntityType, id string) error
}
