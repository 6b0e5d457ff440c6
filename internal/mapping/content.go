package mapping

import (
	"context"

	"github.com/blues/tlindexer/internal/model"
	"github.com/blues/tlindexer/internal/store"
)

// ContentOwner 持有链下内容指针的实体（服务、报价）
type ContentOwner interface {
	model.Entity
	ContentPointer() (cid, descriptionID string)
	SetContentPointer(cid, descriptionID string)
	DescriptionType() model.EntityType
}

// ContentSource 一次内容登记：异步抓取 Cid 后写入 RecordID 对应的描述记录
type ContentSource struct {
	Cid       string
	OwnerType model.EntityType
	OwnerID   string
	RecordID  string
}

// ContentRegistrar 接收内容登记的外部队列
type ContentRegistrar interface {
	RegisterContentSource(ctx context.Context, source ContentSource) error
}

// ContentLifecycle 维护"每个实体至多一条当前描述记录"
type ContentLifecycle struct {
	store     store.Store
	registrar ContentRegistrar
}

// NewContentLifecycle 创建内容生命周期管理器
func NewContentLifecycle(s store.Store, registrar ContentRegistrar) *ContentLifecycle {
	return &ContentLifecycle{store: s, registrar: registrar}
}

// Apply 为 owner 切换到 newCid，调用方负责随后保存 owner。
// newCid 为空时不做任何修改。
func (c *ContentLifecycle) Apply(ctx context.Context, owner ContentOwner, newCid string, timestamp int64) error {
	if newCid == "" {
		return nil
	}

	recordID := DescriptionID(newCid, timestamp)
	_, previousID := owner.ContentPointer()
	if previousID != "" && previousID != recordID {
		if err := c.store.Remove(ctx, owner.DescriptionType(), previousID); err != nil {
			return err
		}
	}

	err := c.registrar.RegisterContentSource(ctx, ContentSource{
		Cid:       newCid,
		OwnerType: owner.EntityType(),
		OwnerID:   owner.EntityID(),
		RecordID:  recordID,
	})
	if err != nil {
		return err
	}

	owner.SetContentPointer(newCid, recordID)
	return nil
}
