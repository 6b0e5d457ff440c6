package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Client 索引器用到的 RPC 方法，*ethclient.Client 满足该接口
type Client interface {
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	Close()
}

// maxCachedHeaders 区块时间缓存的最大条目数
const maxCachedHeaders = 4096

// Block 区块操作工具类
type Block struct {
	client Client

	mu         sync.Mutex
	timestamps map[uint64]int64
}

// NewBlock 创建区块工具类实例
func NewBlock(client Client) *Block {
	return &Block{
		client:     client,
		timestamps: make(map[uint64]int64),
	}
}

// GetBatchBlockLogs 获取 [fromBlock, toBlock] 区间内指定合约的日志
func (b *Block) GetBatchBlockLogs(ctx context.Context, contractAddresses []common.Address, fromBlock, toBlock uint64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: contractAddresses,
	}
	logs, err := b.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("filter logs %d-%d: %w", fromBlock, toBlock, err)
	}
	return logs, nil
}

// GetCurrentBlockNumber 获取当前最新区块号
func (b *Block) GetCurrentBlockNumber(ctx context.Context) (uint64, error) {
	return b.client.BlockNumber(ctx)
}

// GetBlockTimestamp 获取区块时间（秒），结果会被缓存
func (b *Block) GetBlockTimestamp(ctx context.Context, number uint64) (int64, error) {
	b.mu.Lock()
	ts, ok := b.timestamps[number]
	b.mu.Unlock()
	if ok {
		return ts, nil
	}

	header, err := b.client.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return 0, fmt.Errorf("get header %d: %w", number, err)
	}
	ts = int64(header.Time)

	b.mu.Lock()
	if len(b.timestamps) >= maxCachedHeaders {
		b.timestamps = make(map[uint64]int64)
	}
	b.timestamps[number] = ts
	b.mu.Unlock()
	return ts, nil
}
