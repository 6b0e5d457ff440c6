package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/tlindexer/internal/logger"
	"github.com/blues/tlindexer/internal/mapping"
	"github.com/blues/tlindexer/internal/model"
	"github.com/blues/tlindexer/internal/store"
	"gorm.io/gorm"
)

// Outcome 一次物化尝试的结果
type Outcome string

const (
	OutcomeDone   Outcome = "done"
	OutcomeStale  Outcome = "stale"
	OutcomeRetry  Outcome = "retry"
	OutcomeFailed Outcome = "failed"
)

// Materializer 把抓取到的文档写成描述记录。
// 只写入仍是所属实体当前描述的记录，已被替换的任务标记为 stale。
type Materializer struct {
	store       *store.GormStore
	queue       *Queue
	fetcher     Fetcher
	maxAttempts int
	logger      *logger.Logger
}

// NewMaterializer 创建物化器
func NewMaterializer(s *store.GormStore, fetcher Fetcher, maxAttempts int, log *logger.Logger) *Materializer {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Materializer{
		store:       s,
		queue:       NewQueue(s.DB()),
		fetcher:     fetcher,
		maxAttempts: maxAttempts,
		logger:      logger.OrDefault(log),
	}
}

// Queue 物化器使用的任务队列
func (m *Materializer) Queue() *Queue {
	return m.queue
}

// Materialize 处理一个内容任务
func (m *Materializer) Materialize(ctx context.Context, task *model.ContentTask) (Outcome, error) {
	current, err := isCurrent(ctx, m.store, task)
	if err != nil {
		return OutcomeRetry, err
	}
	if !current {
		m.logger.Debug("Content task %s superseded before fetch", task.ID)
		return OutcomeStale, m.queue.MarkStale(ctx, task)
	}

	doc, err := m.fetcher.Fetch(ctx, task.Cid)
	if errors.Is(err, ErrInvalidDocument) {
		return m.fail(ctx, task, err)
	}
	if err != nil {
		if markErr := m.queue.MarkFailure(ctx, task, err, m.maxAttempts); markErr != nil {
			return OutcomeRetry, errors.Join(err, markErr)
		}
		if task.Status == model.ContentTaskFailed {
			m.logger.Warn("Content task %s failed after %d attempts: %v", task.ID, task.Attempts, err)
			return OutcomeFailed, err
		}
		return OutcomeRetry, err
	}

	record, err := buildRecord(task, doc)
	if err != nil {
		return m.fail(ctx, task, err)
	}

	outcome := OutcomeDone
	err = m.store.Transaction(ctx, func(tx *gorm.DB, st *store.GormStore) error {
		queue := NewQueue(tx)
		// 抓取期间可能已有新的内容更新
		current, err := isCurrent(ctx, st, task)
		if err != nil {
			return err
		}
		if !current {
			outcome = OutcomeStale
			return queue.MarkStale(ctx, task)
		}
		if err := st.Save(ctx, record); err != nil {
			return err
		}
		return queue.MarkDone(ctx, task)
	})
	if err != nil {
		return OutcomeRetry, err
	}

	m.logger.Debug("Content task %s materialized as %s (%s)", task.ID, record.EntityType(), outcome)
	return outcome, nil
}

// fail 不可重试的错误，任务直接标记为 failed
func (m *Materializer) fail(ctx context.Context, task *model.ContentTask, cause error) (Outcome, error) {
	if markErr := m.queue.MarkFailure(ctx, task, cause, 1); markErr != nil {
		return OutcomeFailed, errors.Join(cause, markErr)
	}
	m.logger.Warn("Content task %s failed: %v", task.ID, cause)
	return OutcomeFailed, cause
}

// isCurrent 任务对应的记录是否仍是所属实体的当前描述
func isCurrent(ctx context.Context, s store.Store, task *model.ContentTask) (bool, error) {
	entity, err := model.NewEntity(task.OwnerType, task.OwnerID)
	if err != nil {
		return false, err
	}
	owner, ok := entity.(mapping.ContentOwner)
	if !ok {
		return false, fmt.Errorf("%s does not own content", task.OwnerType)
	}

	found, err := s.Load(ctx, owner)
	if err != nil || !found {
		return false, err
	}
	_, descriptionID := owner.ContentPointer()
	return descriptionID == task.ID, nil
}

func buildRecord(task *model.ContentTask, doc *Document) (model.Entity, error) {
	switch task.OwnerType {
	case model.EntityService:
		return &model.ServiceDescription{
			ID:              task.ID,
			ServiceID:       task.OwnerID,
			Cid:             task.Cid,
			Title:           doc.Title,
			About:           doc.About,
			StartDate:       string(doc.StartDate),
			ExpectedEndDate: string(doc.ExpectedEndDate),
			KeywordsRaw:     doc.Keywords.Raw(),
			VideoURL:        doc.VideoURL,
		}, nil
	case model.EntityProposal:
		return &model.ProposalDescription{
			ID:            task.ID,
			ProposalID:    task.OwnerID,
			Cid:           task.Cid,
			About:         doc.About,
			StartDate:     string(doc.StartDate),
			ExpectedHours: string(doc.ExpectedHours),
			VideoURL:      doc.VideoURL,
		}, nil
	default:
		return nil, fmt.Errorf("no description record for %s", task.OwnerType)
	}
}
