package model

import (
	"fmt"
	"strings"
)

// EntityType 实体类型名称，同时用于存储层的类型路由
type EntityType string

const (
	EntityUser                EntityType = "User"
	EntityUserStat            EntityType = "UserStat"
	EntityPlatform            EntityType = "Platform"
	EntityToken               EntityType = "Token"
	EntityProtocol            EntityType = "Protocol"
	EntityService             EntityType = "Service"
	EntityProposal            EntityType = "Proposal"
	EntityServiceDescription  EntityType = "ServiceDescription"
	EntityProposalDescription EntityType = "ProposalDescription"
)

const (
	// UnsetID 引用字段未设置时的占位值
	UnsetID = "0"
	// ZeroAddress 零地址，代币引用和用户地址的默认值
	ZeroAddress = "0x0000000000000000000000000000000000000000"
	// ProtocolID 协议单例的固定ID
	ProtocolID = "1"
)

// Entity 可由实体存储加载、保存、删除的记录
type Entity interface {
	EntityType() EntityType
	EntityID() string
}

// NewEntity 创建只带ID的空实体，用于按类型加载或删除
func NewEntity(entityType EntityType, id string) (Entity, error) {
	switch entityType {
	case EntityUser:
		return &User{ID: id}, nil
	case EntityUserStat:
		return &UserStat{ID: id}, nil
	case EntityPlatform:
		return &Platform{ID: id}, nil
	case EntityToken:
		return &Token{ID: id}, nil
	case EntityProtocol:
		return &Protocol{ID: id}, nil
	case EntityService:
		return &Service{ID: id}, nil
	case EntityProposal:
		return &Proposal{ID: id}, nil
	case EntityServiceDescription:
		return &ServiceDescription{ID: id}, nil
	case EntityProposalDescription:
		return &ProposalDescription{ID: id}, nil
	default:
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}
}

// EntityModels 返回需要自动迁移的实体模型
func EntityModels() []interface{} {
	return []interface{}{
		&User{},
		&UserStat{},
		&Platform{},
		&Token{},
		&Protocol{},
		&Service{},
		&Proposal{},
		&ServiceDescription{},
		&ProposalDescription{},
	}
}

// NormalizeAddress 地址统一为小写十六进制
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}
