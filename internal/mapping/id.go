package mapping

import (
	"math/big"
	"strconv"
)

// CompositeID 由两个原始ID按顺序组合成实体ID，顺序有意义：(service, owner) 与 (owner, service) 不同
func CompositeID(first, second string) string {
	return first + "-" + second
}

// RawID uint256 原始ID的十进制表示，nil 视为 0
func RawID(id *big.Int) string {
	if id == nil {
		return "0"
	}
	return id.String()
}

// ProposalID 报价ID，新旧两版事件对同一 (serviceId, ownerId) 得到相同结果
func ProposalID(serviceID, ownerID *big.Int) string {
	return CompositeID(RawID(serviceID), RawID(ownerID))
}

// DescriptionID 内容记录ID "<cid>-<timestamp>"，时间戳区分同一 cid 在不同时刻的更新
func DescriptionID(cid string, timestamp int64) string {
	return cid + "-" + strconv.FormatInt(timestamp, 10)
}

func isZero(id *big.Int) bool {
	return id == nil || id.Sign() == 0
}
