package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/content"
	"github.com/blues/tlindexer/internal/logger"
	"github.com/blues/tlindexer/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
)

// ContentFetchJob 定期抓取待处理的链下内容
type ContentFetchJob struct {
	ctx          context.Context
	materializer *content.Materializer
	pool         *ants.Pool // 抓取协程池
	batchSize    int
	interval     time.Duration
}

// NewContentFetchJob 创建内容抓取任务，ctx 取消后正在进行的抓取会中止
func NewContentFetchJob(ctx context.Context, materializer *content.Materializer, contentCfg config.ContentConfig, taskCfg config.TaskConfig) (*ContentFetchJob, error) {
	pool, err := ants.NewPool(contentCfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch pool: %w", err)
	}

	interval := time.Duration(taskCfg.Interval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	batchSize := contentCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	return &ContentFetchJob{
		ctx:          ctx,
		materializer: materializer,
		pool:         pool,
		batchSize:    batchSize,
		interval:     interval,
	}, nil
}

// GetName 获取任务名称
func (j *ContentFetchJob) GetName() string {
	return "content_fetcher"
}

// GetSchedule 获取调度配置
func (j *ContentFetchJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *ContentFetchJob) Execute() {
	summary, err := j.RunOnce(j.ctx)
	if err != nil {
		logger.Error("Content fetch task failed: %v", err)
		return
	}
	if len(summary) > 0 {
		logger.Info("Content fetch task finished: done=%d stale=%d retry=%d failed=%d",
			summary[content.OutcomeDone], summary[content.OutcomeStale],
			summary[content.OutcomeRetry], summary[content.OutcomeFailed])
	}
}

// RunOnce 并发处理一批待抓取任务，返回各结果的数量
func (j *ContentFetchJob) RunOnce(ctx context.Context) (map[content.Outcome]int, error) {
	tasks, err := j.materializer.Queue().Pending(ctx, j.batchSize)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	logger.Debug("Fetching %d content tasks", len(tasks))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		summary = make(map[content.Outcome]int)
	)
	record := func(outcome content.Outcome) {
		mu.Lock()
		summary[outcome]++
		mu.Unlock()
	}

	for i := range tasks {
		task := &tasks[i]
		wg.Add(1)
		err := j.pool.Submit(func() {
			defer wg.Done()
			outcome, err := j.materializer.Materialize(ctx, task)
			if err != nil {
				logger.Warn("Content task %s (%s): %v", task.ID, outcome, err)
			}
			record(outcome)
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit content task %s: %v", task.ID, err)
			record(content.OutcomeRetry)
		}
	}
	wg.Wait()
	return summary, nil
}

// Stats 内容任务按状态统计
func (j *ContentFetchJob) Stats(ctx context.Context) (map[model.ContentTaskStatus]int64, error) {
	return j.materializer.Queue().Stats(ctx)
}

// Release 释放协程池
func (j *ContentFetchJob) Release() {
	j.pool.Release()
}
