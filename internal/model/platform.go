package model

import "github.com/shopspring/decimal"

// Platform 平台信息，由平台ID合约的 Mint 事件创建
type Platform struct {
	ID        string          `json:"id" gorm:"column:id;primaryKey"`
	Name      string          `json:"name" gorm:"column:name;index"`
	Address   string          `json:"address" gorm:"column:address;not null"`
	Fee       decimal.Decimal `json:"fee" gorm:"column:fee;type:numeric;not null"`
	CreatedAt int64           `json:"created_at" gorm:"column:created_at;autoCreateTime:false"`
}

// NewPlatform 平台默认值
func NewPlatform(id string) *Platform {
	return &Platform{
		ID:      id,
		Address: ZeroAddress,
		Fee:     decimal.Zero,
	}
}

func (Platform) TableName() string {
	return "platform"
}

func (p *Platform) EntityType() EntityType { return EntityPlatform }
func (p *Platform) EntityID() string       { return p.ID }

// Token 支付代币，白名单事件整体更新
type Token struct {
	ID                       string          `json:"id" gorm:"column:id;primaryKey"`
	Address                  string          `json:"address" gorm:"column:address;not null"`
	Allowed                  bool            `json:"allowed" gorm:"column:allowed"`
	MinimumTransactionAmount decimal.Decimal `json:"minimum_transaction_amount" gorm:"column:minimum_transaction_amount;type:numeric;not null"`
}

// NewToken 代币默认值，ID 为小写地址
func NewToken(address string) *Token {
	normalized := NormalizeAddress(address)
	return &Token{
		ID:                       normalized,
		Address:                  normalized,
		Allowed:                  false,
		MinimumTransactionAmount: decimal.Zero,
	}
}

func (Token) TableName() string {
	return "token"
}

func (t *Token) EntityType() EntityType { return EntityToken }
func (t *Token) EntityID() string       { return t.ID }

// Protocol 协议级参数，单例
type Protocol struct {
	ID                             string          `json:"id" gorm:"column:id;primaryKey"`
	MinServiceCompletionPercentage decimal.Decimal `json:"min_service_completion_percentage" gorm:"column:min_service_completion_percentage;type:numeric;not null"`
}

// NewProtocol 协议默认值
func NewProtocol() *Protocol {
	return &Protocol{ID: ProtocolID, MinServiceCompletionPercentage: decimal.Zero}
}

func (Protocol) TableName() string {
	return "protocol"
}

func (p *Protocol) EntityType() EntityType { return EntityProtocol }
func (p *Protocol) EntityID() string       { return p.ID }
