package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/blues/tlindexer/internal/model"
)

// MemoryStore 内存实体存储，记录以 JSON 形式保存，读写都是深拷贝
type MemoryStore struct {
	mu   sync.RWMutex
	data map[model.EntityType]map[string][]byte
}

// NewMemoryStore 创建内存实体存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[model.EntityType]map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, entity model.Entity) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[entity.EntityType()][entity.EntityID()]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, entity); err != nil {
		return false, fmt.Errorf("decode %s %s: %w", entity.EntityType(), entity.EntityID(), err)
	}
	return true, nil
}

func (m *MemoryStore) Save(_ context.Context, entity model.Entity) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", entity.EntityType(), entity.EntityID(), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := m.data[entity.EntityType()]
	if bucket == nil {
		bucket = make(map[string][]byte)
		m.data[entity.EntityType()] = bucket
	}
	bucket[entity.EntityID()] = raw
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, entityType model.EntityType, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data[entityType], id)
	return nil
}

// IDs 返回某类型下的全部ID，按字典序排列
func (m *MemoryStore) IDs(entityType model.EntityType) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.data[entityType]))
	for id := range m.data[entityType] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count 返回某类型的记录数
func (m *MemoryStore) Count(entityType model.EntityType) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[entityType])
}
