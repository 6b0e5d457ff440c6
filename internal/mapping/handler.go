package mapping

import (
	"context"
	"fmt"
	"math/big"

	"github.com/blues/tlindexer/internal/logger"
	"github.com/blues/tlindexer/internal/model"
	"github.com/blues/tlindexer/internal/store"
	"github.com/ethereum/go-ethereum/common"
)

// Mapper 把已解码的合约事件物化为实体
type Mapper struct {
	store    store.Store
	resolver *Resolver
	content  *ContentLifecycle
	stats    *Statistics
	logger   *logger.Logger
}

// NewMapper 创建事件映射器，store 通常是当前事务内的存储
func NewMapper(s store.Store, registrar ContentRegistrar, log *logger.Logger) *Mapper {
	resolver := NewResolver(s)
	return &Mapper{
		store:    s,
		resolver: resolver,
		content:  NewContentLifecycle(s, registrar),
		stats:    NewStatistics(resolver),
		logger:   logger.OrDefault(log),
	}
}

// Handle 处理一个事件。返回错误时调用方应丢弃本次事件的全部写入
func (m *Mapper) Handle(ctx context.Context, block Block, evt Event) error {
	var err error
	switch e := evt.(type) {
	case serviceCreationEvent:
		err = m.createService(ctx, block, e.serviceCreation())
	case serviceUpdateEvent:
		err = m.updateService(ctx, block, e.serviceUpdate())
	case proposalCreationEvent:
		err = m.createProposal(ctx, block, e.proposalCreation())
	case proposalUpdateEvent:
		err = m.updateProposal(ctx, block, e.proposalUpdate())
	case AllowedTokenListUpdated:
		err = m.updateAllowedToken(ctx, e)
	case MinCompletionPercentageUpdated:
		err = m.updateMinCompletionPercentage(ctx, e)
	case PlatformMinted:
		err = m.mintPlatform(ctx, block, e)
	case nil:
		return fmt.Errorf("nil event: %w", ErrUnknownEvent)
	default:
		return fmt.Errorf("%s: %w", evt.EventName(), ErrUnknownEvent)
	}
	if err != nil {
		return fmt.Errorf("handle %s at block %d: %w", evt.EventName(), block.Number, err)
	}
	return nil
}

func (m *Mapper) createService(ctx context.Context, block Block, c serviceCreation) error {
	serviceID := RawID(c.id)
	ownerID := RawID(c.ownerID)

	platform, err := m.resolver.MustLoadPlatform(ctx, RawID(c.platformID))
	if err != nil {
		return err
	}
	if err := m.stats.Increment(ctx, ownerID, CounterCreatedServices); err != nil {
		return err
	}

	service, err := m.resolver.Service(ctx, serviceID)
	if err != nil {
		return err
	}
	if c.rateToken != nil {
		token, err := m.resolver.Token(ctx, c.rateToken.Hex())
		if err != nil {
			return err
		}
		service.RateTokenID = token.ID
		service.ReferralAmount = amount(c.referralAmount)
	}

	buyer, err := m.resolver.User(ctx, ownerID)
	if err != nil {
		return err
	}
	service.BuyerID = buyer.ID
	service.PlatformID = platform.ID
	service.Status = model.ServiceStatusOpened
	service.CreatedAt = block.Timestamp
	service.UpdatedAt = block.Timestamp

	if err := m.content.Apply(ctx, service, c.dataURI, block.Timestamp); err != nil {
		return err
	}
	if err := m.store.Save(ctx, service); err != nil {
		return err
	}

	m.logger.Debug("Service %s created by user %s on platform %s", service.ID, buyer.ID, platform.ID)
	return nil
}

func (m *Mapper) updateService(ctx context.Context, block Block, u serviceUpdate) error {
	service, err := m.resolver.Service(ctx, RawID(u.id))
	if err != nil {
		return err
	}
	service.UpdatedAt = block.Timestamp
	if u.referralAmount != nil {
		service.ReferralAmount = amount(u.referralAmount)
	}

	if err := m.content.Apply(ctx, service, u.dataURI, block.Timestamp); err != nil {
		return err
	}
	if err := m.store.Save(ctx, service); err != nil {
		return err
	}

	m.logger.Debug("Service %s updated, cid=%s", service.ID, service.Cid)
	return nil
}

func (m *Mapper) createProposal(ctx context.Context, block Block, c proposalCreation) error {
	serviceID := RawID(c.serviceID)
	ownerID := RawID(c.ownerID)

	platform, err := m.resolver.MustLoadPlatform(ctx, RawID(c.platformID))
	if err != nil {
		return err
	}
	if err := m.stats.Increment(ctx, ownerID, CounterCreatedProposals); err != nil {
		return err
	}

	proposal, err := m.resolver.Proposal(ctx, CompositeID(serviceID, ownerID), serviceID)
	if err != nil {
		return err
	}
	proposal.Status = model.ProposalStatusPending

	service, err := m.resolver.Service(ctx, serviceID)
	if err != nil {
		return err
	}
	seller, err := m.resolver.User(ctx, ownerID)
	if err != nil {
		return err
	}
	proposal.ServiceID = service.ID
	proposal.SellerID = seller.ID

	if c.rateToken != nil {
		if err := m.setProposalRateToken(ctx, proposal, *c.rateToken); err != nil {
			return err
		}
	}
	proposal.RateAmount = amount(c.rateAmount)
	proposal.PlatformID = platform.ID
	proposal.ExpirationDate = amount(c.expirationDate)
	if err := m.setReferrer(ctx, proposal, c.referrerID); err != nil {
		return err
	}
	proposal.CreatedAt = block.Timestamp
	proposal.UpdatedAt = block.Timestamp

	if err := m.content.Apply(ctx, proposal, c.dataURI, block.Timestamp); err != nil {
		return err
	}
	if err := m.store.Save(ctx, proposal); err != nil {
		return err
	}

	m.logger.Debug("Proposal %s created by user %s", proposal.ID, seller.ID)
	return nil
}

func (m *Mapper) updateProposal(ctx context.Context, block Block, u proposalUpdate) error {
	serviceID := RawID(u.serviceID)
	proposal, err := m.resolver.Proposal(ctx, CompositeID(serviceID, RawID(u.ownerID)), serviceID)
	if err != nil {
		return err
	}

	if u.rateToken != nil {
		if err := m.setProposalRateToken(ctx, proposal, *u.rateToken); err != nil {
			return err
		}
	}
	if u.rateAmount != nil {
		proposal.RateAmount = amount(u.rateAmount)
	}
	if u.expirationDate != nil {
		proposal.ExpirationDate = amount(u.expirationDate)
	}
	if err := m.setReferrer(ctx, proposal, u.referrerID); err != nil {
		return err
	}
	proposal.UpdatedAt = block.Timestamp

	if err := m.content.Apply(ctx, proposal, u.dataURI, block.Timestamp); err != nil {
		return err
	}
	if err := m.store.Save(ctx, proposal); err != nil {
		return err
	}

	m.logger.Debug("Proposal %s updated, cid=%s", proposal.ID, proposal.Cid)
	return nil
}

func (m *Mapper) setProposalRateToken(ctx context.Context, proposal *model.Proposal, address common.Address) error {
	token, err := m.resolver.Token(ctx, address.Hex())
	if err != nil {
		return err
	}
	proposal.RateTokenID = token.ID
	return nil
}

// setReferrer 推荐人为 0 时保持原值
func (m *Mapper) setReferrer(ctx context.Context, proposal *model.Proposal, referrerID *big.Int) error {
	if isZero(referrerID) {
		return nil
	}
	referrer, err := m.resolver.User(ctx, RawID(referrerID))
	if err != nil {
		return err
	}
	id := referrer.ID
	proposal.ReferrerID = &id
	return nil
}

func (m *Mapper) updateAllowedToken(ctx context.Context, e AllowedTokenListUpdated) error {
	token, err := m.resolver.Token(ctx, e.TokenAddress.Hex())
	if err != nil {
		return err
	}
	token.Allowed = e.IsWhitelisted
	token.MinimumTransactionAmount = amount(e.MinimumTransactionAmount)
	if err := m.store.Save(ctx, token); err != nil {
		return err
	}

	m.logger.Debug("Token %s allowed=%t", token.ID, token.Allowed)
	return nil
}

func (m *Mapper) updateMinCompletionPercentage(ctx context.Context, e MinCompletionPercentageUpdated) error {
	protocol, err := m.resolver.Protocol(ctx)
	if err != nil {
		return err
	}
	protocol.MinServiceCompletionPercentage = amount(e.MinCompletionPercentage)
	return m.store.Save(ctx, protocol)
}

// mintPlatform 登记新平台，重复事件只刷新名称、地址和费率
func (m *Mapper) mintPlatform(ctx context.Context, block Block, e PlatformMinted) error {
	id := RawID(e.PlatformID)
	platform := &model.Platform{ID: id}
	found, err := m.store.Load(ctx, platform)
	if err != nil {
		return err
	}
	if !found {
		platform = model.NewPlatform(id)
		platform.CreatedAt = block.Timestamp
	}

	platform.Name = e.PlatformName
	platform.Address = model.NormalizeAddress(e.PlatformOwnerAddress.Hex())
	platform.Fee = amount(e.Fee)
	if err := m.store.Save(ctx, platform); err != nil {
		return err
	}

	m.logger.Info("Platform %s (%s) registered", platform.ID, platform.Name)
	return nil
}
