package model

// User 链上身份，首次被事件引用时创建，永不删除
type User struct {
	ID      string `json:"id" gorm:"column:id;primaryKey"`
	Address string `json:"address" gorm:"column:address;index;not null"`
	Handle  string `json:"handle" gorm:"column:handle"`
	URI     string `json:"uri" gorm:"column:uri"`
	WithPoh bool   `json:"with_poh" gorm:"column:with_poh"`
}

// NewUser 用户默认值
func NewUser(id string) *User {
	return &User{
		ID:      id,
		Address: ZeroAddress,
		Handle:  "",
		URI:     "",
		WithPoh: false,
	}
}

func (User) TableName() string {
	return "user"
}

func (u *User) EntityType() EntityType { return EntityUser }
func (u *User) EntityID() string       { return u.ID }

// UserStat 用户活动计数，ID 与用户ID相同，计数只增不减
type UserStat struct {
	ID                  string `json:"id" gorm:"column:id;primaryKey"`
	NumCreatedServices  int64  `json:"num_created_services" gorm:"column:num_created_services;not null"`
	NumCreatedProposals int64  `json:"num_created_proposals" gorm:"column:num_created_proposals;not null"`
}

// NewUserStat 用户统计默认值
func NewUserStat(id string) *UserStat {
	return &UserStat{ID: id}
}

func (UserStat) TableName() string {
	return "user_stat"
}

func (s *UserStat) EntityType() EntityType { return EntityUserStat }
func (s *UserStat) EntityID() string       { return s.ID }
