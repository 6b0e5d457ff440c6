package chain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/mapping"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrUnknownSignature 日志的 topic0 不属于合约 ABI 中的任何事件
var ErrUnknownSignature = errors.New("unknown event signature")

// Contract 被索引的合约
type Contract struct {
	address  common.Address // 合约地址
	abi      abi.ABI        // 合约ABI
	name     string         // 合约名称
	blockNum int64          // 合约部署的区块号
	chainId  int64          // 链ID
}

// DecodedLog 解码后的日志
type DecodedLog struct {
	Contract  string
	EventName string
	Event     mapping.Event
	Args      map[string]interface{}
	Log       types.Log
}

// NewContract 创建合约实例，未配置 ABI 文件时使用内置 ABI
func NewContract(name string, contractCfg config.ContractConfig, chainId int64) (*Contract, error) {
	if !common.IsHexAddress(contractCfg.Address) {
		return nil, fmt.Errorf("invalid contract address %q", contractCfg.Address)
	}

	parsedABI, err := loadABI(name, contractCfg.ABIPath)
	if err != nil {
		return nil, err
	}

	return &Contract{
		address:  common.HexToAddress(contractCfg.Address),
		abi:      parsedABI,
		name:     name,
		blockNum: contractCfg.BlockNum,
		chainId:  chainId,
	}, nil
}

func loadABI(name, abiPath string) (abi.ABI, error) {
	if abiPath == "" {
		builtin, ok := builtinABIs[name]
		if !ok {
			return abi.ABI{}, fmt.Errorf("no ABI configured for contract %s", name)
		}
		return abi.JSON(strings.NewReader(builtin))
	}

	abiData, err := os.ReadFile(abiPath)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to load ABI from %s: %w", abiPath, err)
	}

	// 兼容 hardhat/foundry 编译输出
	var compiledOutput struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(abiData, &compiledOutput); err == nil && compiledOutput.ABI != nil {
		abiData = compiledOutput.ABI
	}

	parsedABI, err := abi.JSON(bytes.NewReader(abiData))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI %s: %w", abiPath, err)
	}
	return parsedABI, nil
}

// GetAddress 获取合约地址
func (c *Contract) GetAddress() common.Address {
	return c.address
}

// GetABI 获取合约ABI
func (c *Contract) GetABI() abi.ABI {
	return c.abi
}

// GetName 获取合约名称
func (c *Contract) GetName() string {
	return c.name
}

// GetBlockNum 获取合约部署区块号
func (c *Contract) GetBlockNum() int64 {
	return c.blockNum
}

// GetChainId 获取链ID
func (c *Contract) GetChainId() int64 {
	return c.chainId
}

// Decode 解析事件日志。ABI 中没有的事件返回 ErrUnknownSignature
func (c *Contract) Decode(log types.Log) (*DecodedLog, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("anonymous log in contract %s: %w", c.name, ErrUnknownSignature)
	}

	event, err := c.abi.EventByID(log.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("%s in contract %s: %w", log.Topics[0].Hex(), c.name, ErrUnknownSignature)
	}

	args := make(map[string]interface{})
	if len(log.Data) > 0 {
		if err := event.Inputs.UnpackIntoMap(args, log.Data); err != nil {
			return nil, fmt.Errorf("unpack %s data: %w", event.Name, err)
		}
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
			return nil, fmt.Errorf("parse %s topics: %w", event.Name, err)
		}
	}

	evt, err := toMappingEvent(event.Name, args)
	if err != nil {
		return nil, err
	}

	return &DecodedLog{
		Contract:  c.name,
		EventName: event.Name,
		Event:     evt,
		Args:      args,
		Log:       log,
	}, nil
}
