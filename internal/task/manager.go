package task

import (
	"fmt"

	"github.com/blues/tlindexer/internal/logger"
	"github.com/go-co-op/gocron/v2"
)

// Job 可被调度的任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	jobs      []Job
}

// NewManager 创建新的任务管理器
func NewManager() (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Manager{scheduler: s}, nil
}

// Register 注册任务，同一任务的执行不会重叠
func (m *Manager) Register(job Job) error {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.GetName(), err)
	}
	m.jobs = append(m.jobs, job)
	logger.Info("Registered job %s", job.GetName())
	return nil
}

// Start 启动调度器
func (m *Manager) Start() {
	m.scheduler.Start()
	logger.Info("Task manager started with %d jobs", len(m.jobs))
}

// Stop 停止调度器并等待正在执行的任务
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
