package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/tlindexer/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于 gorm 的实体存储
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 实体存储，db 可以是事务句柄
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load 加载实体
func (s *GormStore) Load(ctx context.Context, entity model.Entity) (bool, error) {
	err := s.db.WithContext(ctx).Where("id = ?", entity.EntityID()).Take(entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s %s: %w", entity.EntityType(), entity.EntityID(), err)
	}
	return true, nil
}

// Save 以主键冲突更新全部字段的方式写入实体
func (s *GormStore) Save(ctx context.Context, entity model.Entity) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(entity).Error
	if err != nil {
		return fmt.Errorf("save %s %s: %w", entity.EntityType(), entity.EntityID(), err)
	}
	return nil
}

// Remove 删除实体
func (s *GormStore) Remove(ctx context.Context, entityType model.EntityType, id string) error {
	entity, err := model.NewEntity(entityType, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(entity).Error; err != nil {
		return fmt.Errorf("remove %s %s: %w", entityType, id, err)
	}
	return nil
}

// Transaction 在同一个数据库事务中执行 fn，fn 返回错误时回滚
func (s *GormStore) Transaction(ctx context.Context, fn func(tx *gorm.DB, st *GormStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, NewGormStore(tx))
	})
}

// DB 获取底层数据库句柄
func (s *GormStore) DB() *gorm.DB {
	return s.db
}
