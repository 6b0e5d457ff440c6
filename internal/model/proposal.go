package model

import "github.com/shopspring/decimal"

// ProposalStatus 报价状态
type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "Pending"
	ProposalStatusValidated ProposalStatus = "Validated"
	ProposalStatusRejected  ProposalStatus = "Rejected"
)

// Proposal 卖方对服务的报价，ID 由 (serviceId, ownerId) 组合而成
type Proposal struct {
	ID             string          `json:"id" gorm:"column:id;primaryKey"`
	Status         ProposalStatus  `json:"status" gorm:"column:status;not null"`
	ServiceID      string          `json:"service_id" gorm:"column:service_id;index;not null"`
	SellerID       string          `json:"seller_id" gorm:"column:seller_id;index;not null"`
	ReferrerID     *string         `json:"referrer_id,omitempty" gorm:"column:referrer_id"`
	RateTokenID    string          `json:"rate_token_id" gorm:"column:rate_token_id;not null"`
	RateAmount     decimal.Decimal `json:"rate_amount" gorm:"column:rate_amount;type:numeric;not null"`
	PlatformID     string          `json:"platform_id" gorm:"column:platform_id;not null"`
	ExpirationDate decimal.Decimal `json:"expiration_date" gorm:"column:expiration_date;type:numeric;not null"`
	Cid            string          `json:"cid" gorm:"column:cid"`
	DescriptionID  string          `json:"description_id" gorm:"column:description_id"`
	CreatedAt      int64           `json:"created_at" gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt      int64           `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:false"`
}

// NewProposal 报价默认值，rateToken 沿用所属服务的代币
func NewProposal(id, serviceID, rateTokenID string) *Proposal {
	if rateTokenID == "" {
		rateTokenID = ZeroAddress
	}
	return &Proposal{
		ID:             id,
		Status:         ProposalStatusPending,
		ServiceID:      serviceID,
		SellerID:       UnsetID,
		RateTokenID:    rateTokenID,
		RateAmount:     decimal.Zero,
		PlatformID:     UnsetID,
		ExpirationDate: decimal.Zero,
	}
}

func (Proposal) TableName() string {
	return "proposal"
}

func (p *Proposal) EntityType() EntityType { return EntityProposal }
func (p *Proposal) EntityID() string       { return p.ID }

func (p *Proposal) ContentPointer() (string, string) {
	return p.Cid, p.DescriptionID
}

func (p *Proposal) SetContentPointer(cid, descriptionID string) {
	p.Cid = cid
	p.DescriptionID = descriptionID
}

func (p *Proposal) DescriptionType() EntityType { return EntityProposalDescription }

// ProposalDescription 报价的链下描述
type ProposalDescription struct {
	ID            string `json:"id" gorm:"column:id;primaryKey"`
	ProposalID    string `json:"proposal_id" gorm:"column:proposal_id;index;not null"`
	Cid           string `json:"cid" gorm:"column:cid;not null"`
	About         string `json:"about" gorm:"column:about;type:text"`
	StartDate     string `json:"start_date" gorm:"column:start_date"`
	ExpectedHours string `json:"expected_hours" gorm:"column:expected_hours"`
	VideoURL      string `json:"video_url" gorm:"column:video_url"`
}

func (ProposalDescription) TableName() string {
	return "proposal_description"
}

func (d *ProposalDescription) EntityType() EntityType { return EntityProposalDescription }
func (d *ProposalDescription) EntityID() string       { return d.ID }
