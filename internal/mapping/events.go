package mapping

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// 合约 ABI 中的事件名，重载事件由 go-ethereum 追加数字后缀
const (
	EventServiceCreated                 = "ServiceCreated"
	EventServiceCreatedWithRate         = "ServiceCreated0"
	EventServiceCreatedWithReferral     = "ServiceCreatedWithReferral"
	EventServiceDetailedUpdated         = "ServiceDetailedUpdated"
	EventServiceUpdated                 = "ServiceUpdated"
	EventProposalCreated                = "ProposalCreated"
	EventProposalUpdated                = "ProposalUpdated"
	EventProposalCreatedWithReferrer    = "ProposalCreatedWithReferrer"
	EventProposalUpdatedWithReferrer    = "ProposalUpdatedWithReferrer"
	EventAllowedTokenListUpdated        = "AllowedTokenListUpdated"
	EventMinCompletionPercentageUpdated = "MinCompletionPercentageUpdated"
	EventPlatformMinted                 = "Mint"
)

// Block 事件所在区块的上下文
type Block struct {
	Number    uint64
	Hash      string
	Timestamp int64
}

// Event 已解码的合约事件
type Event interface {
	EventName() string
}

// V1 事件

type ServiceCreated struct {
	ID         *big.Int
	OwnerID    *big.Int
	PlatformID *big.Int
	DataURI    string
}

type ServiceDetailedUpdated struct {
	ID      *big.Int
	DataURI string
}

type ProposalCreated struct {
	ServiceID      *big.Int
	OwnerID        *big.Int
	DataURI        string
	Status         uint8
	RateToken      common.Address
	RateAmount     *big.Int
	PlatformID     *big.Int
	ExpirationDate *big.Int
}

type ProposalUpdated struct {
	ServiceID      *big.Int
	OwnerID        *big.Int
	DataURI        string
	RateToken      common.Address
	RateAmount     *big.Int
	ExpirationDate *big.Int
}

// V2 事件

// ServiceCreatedWithRate 升级测试期间发出的 ServiceCreated 重载版本
type ServiceCreatedWithRate struct {
	ID             *big.Int
	OwnerID        *big.Int
	PlatformID     *big.Int
	DataURI        string
	RateToken      common.Address
	ReferralAmount *big.Int
}

type ServiceCreatedWithReferral struct {
	ID             *big.Int
	OwnerID        *big.Int
	PlatformID     *big.Int
	DataURI        string
	RateToken      common.Address
	ReferralAmount *big.Int
}

type ServiceUpdated struct {
	ID             *big.Int
	ReferralAmount *big.Int
	DataURI        string
}

type ProposalCreatedWithReferrer struct {
	ServiceID      *big.Int
	OwnerID        *big.Int
	DataURI        string
	Status         uint8
	Amount         *big.Int
	PlatformID     *big.Int
	ExpirationDate *big.Int
	ReferrerID     *big.Int
}

type ProposalUpdatedWithReferrer struct {
	ServiceID      *big.Int
	OwnerID        *big.Int
	DataURI        string
	Amount         *big.Int
	ExpirationDate *big.Int
	ReferrerID     *big.Int
}

// 协议参数事件

type AllowedTokenListUpdated struct {
	TokenAddress             common.Address
	IsWhitelisted            bool
	MinimumTransactionAmount *big.Int
}

type MinCompletionPercentageUpdated struct {
	MinCompletionPercentage *big.Int
}

// PlatformMinted 平台ID合约铸造新平台
type PlatformMinted struct {
	PlatformOwnerAddress common.Address
	PlatformID           *big.Int
	PlatformName         string
	Fee                  *big.Int
}

func (ServiceCreated) EventName() string                 { return EventServiceCreated }
func (ServiceCreatedWithRate) EventName() string         { return EventServiceCreatedWithRate }
func (ServiceCreatedWithReferral) EventName() string     { return EventServiceCreatedWithReferral }
func (ServiceDetailedUpdated) EventName() string         { return EventServiceDetailedUpdated }
func (ServiceUpdated) EventName() string                 { return EventServiceUpdated }
func (ProposalCreated) EventName() string                { return EventProposalCreated }
func (ProposalUpdated) EventName() string                { return EventProposalUpdated }
func (ProposalCreatedWithReferrer) EventName() string    { return EventProposalCreatedWithReferrer }
func (ProposalUpdatedWithReferrer) EventName() string    { return EventProposalUpdatedWithReferrer }
func (AllowedTokenListUpdated) EventName() string        { return EventAllowedTokenListUpdated }
func (MinCompletionPercentageUpdated) EventName() string { return EventMinCompletionPercentageUpdated }
func (PlatformMinted) EventName() string                 { return EventPlatformMinted }

// serviceCreation 各版本"服务创建"事件的统一形态，rateToken 为 nil 表示旧版事件
type serviceCreation struct {
	id             *big.Int
	ownerID        *big.Int
	platformID     *big.Int
	dataURI        string
	rateToken      *common.Address
	referralAmount *big.Int
}

type serviceUpdate struct {
	id             *big.Int
	dataURI        string
	referralAmount *big.Int
}

// proposalCreation 各版本"报价创建"事件的统一形态，nil 字段保持原值
type proposalCreation struct {
	serviceID      *big.Int
	ownerID        *big.Int
	platformID     *big.Int
	dataURI        string
	rateToken      *common.Address
	rateAmount     *big.Int
	expirationDate *big.Int
	referrerID     *big.Int
}

type proposalUpdate struct {
	serviceID      *big.Int
	ownerID        *big.Int
	dataURI        string
	rateToken      *common.Address
	rateAmount     *big.Int
	expirationDate *big.Int
	referrerID     *big.Int
}

type serviceCreationEvent interface {
	Event
	serviceCreation() serviceCreation
}

type serviceUpdateEvent interface {
	Event
	serviceUpdate() serviceUpdate
}

type proposalCreationEvent interface {
	Event
	proposalCreation() proposalCreation
}

type proposalUpdateEvent interface {
	Event
	proposalUpdate() proposalUpdate
}

func (e ServiceCreated) serviceCreation() serviceCreation {
	return serviceCreation{id: e.ID, ownerID: e.OwnerID, platformID: e.PlatformID, dataURI: e.DataURI}
}

func (e ServiceCreatedWithRate) serviceCreation() serviceCreation {
	token := e.RateToken
	return serviceCreation{
		id: e.ID, ownerID: e.OwnerID, platformID: e.PlatformID, dataURI: e.DataURI,
		rateToken: &token, referralAmount: e.ReferralAmount,
	}
}

func (e ServiceCreatedWithReferral) serviceCreation() serviceCreation {
	token := e.RateToken
	return serviceCreation{
		id: e.ID, ownerID: e.OwnerID, platformID: e.PlatformID, dataURI: e.DataURI,
		rateToken: &token, referralAmount: e.ReferralAmount,
	}
}

func (e ServiceDetailedUpdated) serviceUpdate() serviceUpdate {
	return serviceUpdate{id: e.ID, dataURI: e.DataURI}
}

func (e ServiceUpdated) serviceUpdate() serviceUpdate {
	return serviceUpdate{id: e.ID, dataURI: e.DataURI, referralAmount: e.ReferralAmount}
}

func (e ProposalCreated) proposalCreation() proposalCreation {
	token := e.RateToken
	return proposalCreation{
		serviceID: e.ServiceID, ownerID: e.OwnerID, platformID: e.PlatformID, dataURI: e.DataURI,
		rateToken: &token, rateAmount: e.RateAmount, expirationDate: e.ExpirationDate,
	}
}

func (e ProposalCreatedWithReferrer) proposalCreation() proposalCreation {
	return proposalCreation{
		serviceID: e.ServiceID, ownerID: e.OwnerID, platformID: e.PlatformID, dataURI: e.DataURI,
		rateAmount: e.Amount, expirationDate: e.ExpirationDate, referrerID: e.ReferrerID,
	}
}

func (e ProposalUpdated) proposalUpdate() proposalUpdate {
	token := e.RateToken
	return proposalUpdate{
		serviceID: e.ServiceID, ownerID: e.OwnerID, dataURI: e.DataURI,
		rateToken: &token, rateAmount: e.RateAmount, expirationDate: e.ExpirationDate,
	}
}

func (e ProposalUpdatedWithReferrer) proposalUpdate() proposalUpdate {
	return proposalUpdate{
		serviceID: e.ServiceID, ownerID: e.OwnerID, dataURI: e.DataURI,
		rateAmount: e.Amount, expirationDate: e.ExpirationDate, referrerID: e.ReferrerID,
	}
}

func amount(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, 0)
}
