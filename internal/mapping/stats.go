package mapping

import (
	"context"
	"fmt"
)

// Counter 用户统计中的计数项
type Counter int

const (
	CounterCreatedServices Counter = iota
	CounterCreatedProposals
)

func (c Counter) String() string {
	switch c {
	case CounterCreatedServices:
		return "numCreatedServices"
	case CounterCreatedProposals:
		return "numCreatedProposals"
	default:
		return fmt.Sprintf("counter(%d)", int(c))
	}
}

// Statistics 用户活动计数
type Statistics struct {
	resolver *Resolver
}

// NewStatistics 创建计数器
func NewStatistics(resolver *Resolver) *Statistics {
	return &Statistics{resolver: resolver}
}

// Increment 对用户的某项计数加一并保存
func (s *Statistics) Increment(ctx context.Context, userID string, counter Counter) error {
	stat, err := s.resolver.UserStat(ctx, userID)
	if err != nil {
		return err
	}

	switch counter {
	case CounterCreatedServices:
		stat.NumCreatedServices++
	case CounterCreatedProposals:
		stat.NumCreatedProposals++
	default:
		return fmt.Errorf("unsupported counter %s", counter)
	}
	return s.resolver.store.Save(ctx, stat)
}
