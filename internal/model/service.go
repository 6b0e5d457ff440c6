package model

import "github.com/shopspring/decimal"

// ServiceStatus 服务状态
type ServiceStatus string

const (
	ServiceStatusInitialized ServiceStatus = "Initialized"
	ServiceStatusOpened      ServiceStatus = "Opened"
	ServiceStatusConfirmed   ServiceStatus = "Confirmed"
	ServiceStatusFinished    ServiceStatus = "Finished"
	ServiceStatusCancelled   ServiceStatus = "Cancelled"
	ServiceStatusUncompleted ServiceStatus = "Uncompleted"
)

// Service 一条服务需求，RateTokenID 和 ReferralAmount 只由 V2 事件填写
type Service struct {
	ID             string          `json:"id" gorm:"column:id;primaryKey"`
	Status         ServiceStatus   `json:"status" gorm:"column:status;not null"`
	BuyerID        string          `json:"buyer_id" gorm:"column:buyer_id;index;not null"`
	PlatformID     string          `json:"platform_id" gorm:"column:platform_id;index;not null"`
	RateTokenID    string          `json:"rate_token_id" gorm:"column:rate_token_id;not null"`
	ReferralAmount decimal.Decimal `json:"referral_amount" gorm:"column:referral_amount;type:numeric;not null"`
	Cid            string          `json:"cid" gorm:"column:cid"`
	DescriptionID  string          `json:"description_id" gorm:"column:description_id"`
	CreatedAt      int64           `json:"created_at" gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt      int64           `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:false"`
}

// NewService 服务默认值
func NewService(id string) *Service {
	return &Service{
		ID:             id,
		Status:         ServiceStatusInitialized,
		BuyerID:        UnsetID,
		PlatformID:     UnsetID,
		RateTokenID:    ZeroAddress,
		ReferralAmount: decimal.Zero,
	}
}

func (Service) TableName() string {
	return "service"
}

func (s *Service) EntityType() EntityType { return EntityService }
func (s *Service) EntityID() string       { return s.ID }

func (s *Service) ContentPointer() (string, string) {
	return s.Cid, s.DescriptionID
}

func (s *Service) SetContentPointer(cid, descriptionID string) {
	s.Cid = cid
	s.DescriptionID = descriptionID
}

func (s *Service) DescriptionType() EntityType { return EntityServiceDescription }

// ServiceDescription 服务的链下描述，ID 为 "<cid>-<timestamp>"
type ServiceDescription struct {
	ID              string `json:"id" gorm:"column:id;primaryKey"`
	ServiceID       string `json:"service_id" gorm:"column:service_id;index;not null"`
	Cid             string `json:"cid" gorm:"column:cid;not null"`
	Title           string `json:"title" gorm:"column:title"`
	About           string `json:"about" gorm:"column:about;type:text"`
	StartDate       string `json:"start_date" gorm:"column:start_date"`
	ExpectedEndDate string `json:"expected_end_date" gorm:"column:expected_end_date"`
	KeywordsRaw     string `json:"keywords_raw" gorm:"column:keywords_raw"`
	VideoURL        string `json:"video_url" gorm:"column:video_url"`
}

func (ServiceDescription) TableName() string {
	return "service_description"
}

func (d *ServiceDescription) EntityType() EntityType { return EntityServiceDescription }
func (d *ServiceDescription) EntityID() string       { return d.ID }
