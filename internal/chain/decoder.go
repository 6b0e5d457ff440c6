package chain

import (
	"fmt"
	"math/big"

	"github.com/blues/tlindexer/internal/mapping"
	"github.com/ethereum/go-ethereum/common"
)

// eventArgs 解码后的事件参数
type eventArgs map[string]interface{}

func (a eventArgs) bigInt(name string) (*big.Int, error) {
	v, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("missing argument %s", name)
	}
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	default:
		return nil, fmt.Errorf("argument %s: unexpected type %T", name, v)
	}
}

func (a eventArgs) small(name string) (uint8, error) {
	v, ok := a[name].(uint8)
	if !ok {
		return 0, fmt.Errorf("argument %s: unexpected type %T", name, a[name])
	}
	return v, nil
}

func (a eventArgs) text(name string) (string, error) {
	v, ok := a[name].(string)
	if !ok {
		return "", fmt.Errorf("argument %s: unexpected type %T", name, a[name])
	}
	return v, nil
}

func (a eventArgs) address(name string) (common.Address, error) {
	v, ok := a[name].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("argument %s: unexpected type %T", name, a[name])
	}
	return v, nil
}

func (a eventArgs) flag(name string) (bool, error) {
	v, ok := a[name].(bool)
	if !ok {
		return false, fmt.Errorf("argument %s: unexpected type %T", name, a[name])
	}
	return v, nil
}

// argReader 依次读取参数，记录第一个错误
type argReader struct {
	args eventArgs
	err  error
}

func (r *argReader) bigInt(name string) *big.Int {
	if r.err != nil {
		return nil
	}
	v, err := r.args.bigInt(name)
	r.err = err
	return v
}

func (r *argReader) small(name string) uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.args.small(name)
	r.err = err
	return v
}

func (r *argReader) text(name string) string {
	if r.err != nil {
		return ""
	}
	v, err := r.args.text(name)
	r.err = err
	return v
}

func (r *argReader) address(name string) common.Address {
	if r.err != nil {
		return common.Address{}
	}
	v, err := r.args.address(name)
	r.err = err
	return v
}

func (r *argReader) flag(name string) bool {
	if r.err != nil {
		return false
	}
	v, err := r.args.flag(name)
	r.err = err
	return v
}

// toMappingEvent 把 ABI 事件名和参数转换为映射层事件
func toMappingEvent(eventName string, args eventArgs) (mapping.Event, error) {
	r := &argReader{args: args}
	var evt mapping.Event

	switch eventName {
	case mapping.EventServiceCreated:
		evt = mapping.ServiceCreated{
			ID:         r.bigInt("id"),
			OwnerID:    r.bigInt("ownerId"),
			PlatformID: r.bigInt("platformId"),
			DataURI:    r.text("dataUri"),
		}
	case mapping.EventServiceCreatedWithRate:
		evt = mapping.ServiceCreatedWithRate{
			ID:             r.bigInt("id"),
			OwnerID:        r.bigInt("ownerId"),
			PlatformID:     r.bigInt("platformId"),
			DataURI:        r.text("dataUri"),
			RateToken:      r.address("rateToken"),
			ReferralAmount: r.bigInt("referralAmount"),
		}
	case mapping.EventServiceCreatedWithReferral:
		evt = mapping.ServiceCreatedWithReferral{
			ID:             r.bigInt("id"),
			OwnerID:        r.bigInt("ownerId"),
			PlatformID:     r.bigInt("platformId"),
			DataURI:        r.text("dataUri"),
			RateToken:      r.address("rateToken"),
			ReferralAmount: r.bigInt("referralAmount"),
		}
	case mapping.EventServiceDetailedUpdated:
		evt = mapping.ServiceDetailedUpdated{
			ID:      r.bigInt("id"),
			DataURI: r.text("dataUri"),
		}
	case mapping.EventServiceUpdated:
		evt = mapping.ServiceUpdated{
			ID:             r.bigInt("id"),
			ReferralAmount: r.bigInt("referralAmount"),
			DataURI:        r.text("dataUri"),
		}
	case mapping.EventProposalCreated:
		evt = mapping.ProposalCreated{
			ServiceID:      r.bigInt("serviceId"),
			OwnerID:        r.bigInt("ownerId"),
			DataURI:        r.text("dataUri"),
			Status:         r.small("status"),
			RateToken:      r.address("rateToken"),
			RateAmount:     r.bigInt("rateAmount"),
			PlatformID:     r.bigInt("platformId"),
			ExpirationDate: r.bigInt("expirationDate"),
		}
	case mapping.EventProposalUpdated:
		evt = mapping.ProposalUpdated{
			ServiceID:      r.bigInt("serviceId"),
			OwnerID:        r.bigInt("ownerId"),
			DataURI:        r.text("dataUri"),
			RateToken:      r.address("rateToken"),
			RateAmount:     r.bigInt("rateAmount"),
			ExpirationDate: r.bigInt("expirationDate"),
		}
	case mapping.EventProposalCreatedWithReferrer:
		evt = mapping.ProposalCreatedWithReferrer{
			ServiceID:      r.bigInt("serviceId"),
			OwnerID:        r.bigInt("ownerId"),
			DataURI:        r.text("dataUri"),
			Status:         r.small("status"),
			Amount:         r.bigInt("amount"),
			PlatformID:     r.bigInt("platformId"),
			ExpirationDate: r.bigInt("expirationDate"),
			ReferrerID:     r.bigInt("referrerId"),
		}
	case mapping.EventProposalUpdatedWithReferrer:
		evt = mapping.ProposalUpdatedWithReferrer{
			ServiceID:      r.bigInt("serviceId"),
			OwnerID:        r.bigInt("ownerId"),
			DataURI:        r.text("dataUri"),
			Amount:         r.bigInt("amount"),
			ExpirationDate: r.bigInt("expirationDate"),
			ReferrerID:     r.bigInt("referrerId"),
		}
	case mapping.EventAllowedTokenListUpdated:
		evt = mapping.AllowedTokenListUpdated{
			TokenAddress:             r.address("tokenAddress"),
			IsWhitelisted:            r.flag("isWhitelisted"),
			MinimumTransactionAmount: r.bigInt("minimumTransactionAmount"),
		}
	case mapping.EventMinCompletionPercentageUpdated:
		evt = mapping.MinCompletionPercentageUpdated{
			MinCompletionPercentage: r.bigInt("minCompletionPercentage"),
		}
	case mapping.EventPlatformMinted:
		evt = mapping.PlatformMinted{
			PlatformOwnerAddress: r.address("platformOwnerAddress"),
			PlatformID:           r.bigInt("platformId"),
			PlatformName:         r.text("platformName"),
			Fee:                  r.bigInt("fee"),
		}
	default:
		return nil, fmt.Errorf("%s: %w", eventName, mapping.ErrUnknownEvent)
	}

	if r.err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventName, r.err)
	}
	return evt, nil
}
