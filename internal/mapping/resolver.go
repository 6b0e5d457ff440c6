package mapping

import (
	"context"
	"fmt"

	"github.com/blues/tlindexer/internal/model"
	"github.com/blues/tlindexer/internal/store"
)

// Resolver 按ID获取实体，不存在时以默认值创建并立即保存
type Resolver struct {
	store store.Store
}

// NewResolver 创建实体解析器
func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

func getOrCreate[T model.Entity](ctx context.Context, s store.Store, probe T, create func() T) (T, error) {
	found, err := s.Load(ctx, probe)
	if err != nil {
		var zero T
		return zero, err
	}
	if found {
		return probe, nil
	}

	entity := create()
	if err := s.Save(ctx, entity); err != nil {
		var zero T
		return zero, err
	}
	return entity, nil
}

// User 获取用户
func (r *Resolver) User(ctx context.Context, id string) (*model.User, error) {
	return getOrCreate(ctx, r.store, &model.User{ID: id}, func() *model.User {
		return model.NewUser(id)
	})
}

// UserStat 获取用户统计
func (r *Resolver) UserStat(ctx context.Context, id string) (*model.UserStat, error) {
	return getOrCreate(ctx, r.store, &model.UserStat{ID: id}, func() *model.UserStat {
		return model.NewUserStat(id)
	})
}

// Token 获取代币，地址大小写不敏感
func (r *Resolver) Token(ctx context.Context, address string) (*model.Token, error) {
	id := model.NormalizeAddress(address)
	return getOrCreate(ctx, r.store, &model.Token{ID: id}, func() *model.Token {
		return model.NewToken(id)
	})
}

// Protocol 获取协议单例
func (r *Resolver) Protocol(ctx context.Context) (*model.Protocol, error) {
	return getOrCreate(ctx, r.store, &model.Protocol{ID: model.ProtocolID}, model.NewProtocol)
}

// Service 获取服务
func (r *Resolver) Service(ctx context.Context, id string) (*model.Service, error) {
	return getOrCreate(ctx, r.store, &model.Service{ID: id}, func() *model.Service {
		return model.NewService(id)
	})
}

// Proposal 获取报价，新建时沿用所属服务的代币（服务不存在则为零地址）
func (r *Resolver) Proposal(ctx context.Context, id, serviceID string) (*model.Proposal, error) {
	probe := &model.Proposal{ID: id}
	found, err := r.store.Load(ctx, probe)
	if err != nil {
		return nil, err
	}
	if found {
		return probe, nil
	}

	rateTokenID := model.ZeroAddress
	service := &model.Service{ID: serviceID}
	serviceFound, err := r.store.Load(ctx, service)
	if err != nil {
		return nil, err
	}
	if serviceFound {
		rateTokenID = service.RateTokenID
	}

	proposal := model.NewProposal(id, serviceID, rateTokenID)
	if err := r.store.Save(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// MustLoadPlatform 加载平台，不存在时返回 ErrMissingPlatform
func (r *Resolver) MustLoadPlatform(ctx context.Context, id string) (*model.Platform, error) {
	platform := &model.Platform{ID: id}
	found, err := r.store.Load(ctx, platform)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("platform %s: %w", id, ErrMissingPlatform)
	}
	return platform, nil
}
