package content

import (
	"context"
	"fmt"

	"github.com/blues/tlindexer/internal/mapping"
	"github.com/blues/tlindexer/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Queue 以 content_task 表作为内容抓取队列，db 传入事务句柄时登记与事件处理一起提交
type Queue struct {
	db *gorm.DB
}

// NewQueue 创建内容队列
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{db: db}
}

// RegisterContentSource 登记一次内容抓取，同一记录重复登记时重置为待抓取
func (q *Queue) RegisterContentSource(ctx context.Context, source mapping.ContentSource) error {
	task := &model.ContentTask{
		ID:        source.RecordID,
		Cid:       source.Cid,
		OwnerType: source.OwnerType,
		OwnerID:   source.OwnerID,
		Status:    model.ContentTaskPending,
	}
	err := q.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_type"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"cid", "owner_id", "status", "attempts", "last_error", "updated_at",
			}),
		}).
		Create(task).Error
	if err != nil {
		return fmt.Errorf("登记内容任务失败: %w", err)
	}
	return nil
}

// Pending 按登记顺序获取待抓取任务
func (q *Queue) Pending(ctx context.Context, limit int) ([]model.ContentTask, error) {
	var tasks []model.ContentTask
	err := q.db.WithContext(ctx).
		Where("status = ?", model.ContentTaskPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("获取待抓取任务失败: %w", err)
	}
	return tasks, nil
}

// Get 获取单个任务
func (q *Queue) Get(ctx context.Context, ownerType model.EntityType, id string) (*model.ContentTask, error) {
	var task model.ContentTask
	err := q.db.WithContext(ctx).
		Where("owner_type = ? AND id = ?", ownerType, id).
		Take(&task).Error
	if err != nil {
		return nil, fmt.Errorf("获取内容任务失败: %w", err)
	}
	return &task, nil
}

// MarkDone 标记任务完成
func (q *Queue) MarkDone(ctx context.Context, task *model.ContentTask) error {
	return q.setStatus(ctx, task, model.ContentTaskDone, "")
}

// MarkStale 标记任务已过期，描述记录已被替换
func (q *Queue) MarkStale(ctx context.Context, task *model.ContentTask) error {
	return q.setStatus(ctx, task, model.ContentTaskStale, "")
}

// MarkFailure 记录一次抓取失败，达到最大次数后标记为 failed
func (q *Queue) MarkFailure(ctx context.Context, task *model.ContentTask, cause error, maxAttempts int) error {
	attempts := task.Attempts + 1
	status := model.ContentTaskPending
	if attempts >= maxAttempts {
		status = model.ContentTaskFailed
	}

	err := q.db.WithContext(ctx).Model(&model.ContentTask{}).
		Where("owner_type = ? AND id = ? AND status = ?", task.OwnerType, task.ID, model.ContentTaskPending).
		Updates(map[string]interface{}{
			"attempts":   attempts,
			"status":     status,
			"last_error": cause.Error(),
		}).Error
	if err != nil {
		return fmt.Errorf("更新内容任务失败: %w", err)
	}
	task.Attempts = attempts
	task.Status = status
	task.LastError = cause.Error()
	return nil
}

// Stats 按状态统计任务数量
func (q *Queue) Stats(ctx context.Context) (map[model.ContentTaskStatus]int64, error) {
	var rows []struct {
		Status model.ContentTaskStatus
		Count  int64
	}
	err := q.db.WithContext(ctx).Model(&model.ContentTask{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("统计内容任务失败: %w", err)
	}

	stats := map[model.ContentTaskStatus]int64{
		model.ContentTaskPending: 0,
		model.ContentTaskDone:    0,
		model.ContentTaskStale:   0,
		model.ContentTaskFailed:  0,
	}
	for _, row := range rows {
		stats[row.Status] = row.Count
	}
	return stats, nil
}

func (q *Queue) setStatus(ctx context.Context, task *model.ContentTask, status model.ContentTaskStatus, lastError string) error {
	err := q.db.WithContext(ctx).Model(&model.ContentTask{}).
		Where("owner_type = ? AND id = ?", task.OwnerType, task.ID).
		Updates(map[string]interface{}{"status": status, "last_error": lastError}).Error
	if err != nil {
		return fmt.Errorf("更新内容任务状态失败: %w", err)
	}
	return nil
}
