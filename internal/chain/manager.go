package chain

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// supportedChainTypes TalentLayer 部署过的链
var supportedChainTypes = []string{"ethereum", "polygon", "arbitrum", "optimism", "iexec", "local"}

// Manager 单链管理器
type Manager struct {
	mu        sync.RWMutex
	contracts map[string]*Contract // 合约映射: "contractName" -> Contract
	client    Client               // 链客户端
	block     *Block
	config    config.ChainConfig // 存储链配置
}

// NewManager 连接 RPC 并初始化所有启用的合约
func NewManager(ctx context.Context, cfg config.ChainConfig) (*Manager, error) {
	client, err := dial(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}

	manager, err := NewManagerWithClient(cfg, client)
	if err != nil {
		client.Close()
		return nil, err
	}
	return manager, nil
}

// NewManagerWithClient 使用已有客户端创建管理器
func NewManagerWithClient(cfg config.ChainConfig, client Client) (*Manager, error) {
	manager := &Manager{
		contracts: make(map[string]*Contract),
		client:    client,
		block:     NewBlock(client),
		config:    cfg,
	}

	if err := manager.initContracts(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize contracts: %w", err)
	}
	return manager, nil
}

// dial 根据链类型创建客户端并测试连接
func dial(ctx context.Context, cfg config.ChainConfig) (*ethclient.Client, error) {
	if cfg.RpcUrl == "" {
		return nil, fmt.Errorf("no RPC URL configured")
	}

	supported := false
	for _, chainType := range supportedChainTypes {
		if cfg.ChainType == chainType {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported chain type %s, supported types: %v", cfg.ChainType, supportedChainTypes)
	}

	logger.Info("Creating %s client connection (chain id: %d)", cfg.ChainType, cfg.ChainId)
	client, err := ethclient.DialContext(ctx, cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.ChainType, err)
	}

	// 测试连接
	testCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	chainID, err := client.ChainID(testCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("client connection test failed (%s): %w", cfg.ChainType, err)
	}
	if cfg.ChainId != 0 && chainID.Int64() != cfg.ChainId {
		client.Close()
		return nil, fmt.Errorf("rpc chain id %s does not match configured chain id %d", chainID, cfg.ChainId)
	}

	logger.Info("Successfully created %s client", cfg.ChainType)
	return client, nil
}

// initContracts 初始化所有合约
func (m *Manager) initContracts(cfg config.ChainConfig) error {
	for contractName, contractCfg := range cfg.Contracts {
		if !contractCfg.Enabled {
			logger.Info("Skipping disabled contract: %s", contractName)
			continue
		}

		contract, err := NewContract(contractName, contractCfg, cfg.ChainId)
		if err != nil {
			return fmt.Errorf("failed to create contract %s: %w", contractName, err)
		}
		m.contracts[contractName] = contract
		logger.Info("Initialized contract: %s (address: %s, from block %d)", contractName, contract.GetAddress().Hex(), contract.GetBlockNum())
	}

	if len(m.contracts) == 0 {
		return fmt.Errorf("no enabled contracts configured")
	}
	return nil
}

// GetBlock 获取区块工具
func (m *Manager) GetBlock() *Block {
	return m.block
}

// GetContract 获取指定合约
func (m *Manager) GetContract(contractName string) (*Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	contract, exists := m.contracts[contractName]
	if !exists {
		return nil, fmt.Errorf("contract %s not found", contractName)
	}
	return contract, nil
}

// GetContractByAddress 按地址查找合约
func (m *Manager) GetContractByAddress(address common.Address) (*Contract, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, contract := range m.contracts {
		if contract.GetAddress() == address {
			return contract, true
		}
	}
	return nil, false
}

// GetContracts 获取所有合约，按名称排序
func (m *Manager) GetContracts() []*Contract {
	m.mu.RLock()
	defer m.mu.RUnlock()

	contracts := make([]*Contract, 0, len(m.contracts))
	for _, contract := range m.contracts {
		contracts = append(contracts, contract)
	}
	sort.Slice(contracts, func(i, j int) bool { return contracts[i].GetName() < contracts[j].GetName() })
	return contracts
}

// GetAddresses 获取所有合约地址
func (m *Manager) GetAddresses() []common.Address {
	contracts := m.GetContracts()
	addresses := make([]common.Address, 0, len(contracts))
	for _, contract := range contracts {
		addresses = append(addresses, contract.GetAddress())
	}
	return addresses
}

// GetMinBlockNum 所有合约中最小的部署区块号
func (m *Manager) GetMinBlockNum() uint64 {
	var lowest int64 = -1
	for _, contract := range m.GetContracts() {
		if lowest < 0 || contract.GetBlockNum() < lowest {
			lowest = contract.GetBlockNum()
		}
	}
	if lowest < 0 {
		return 0
	}
	return uint64(lowest)
}

// GetHealthStatus 获取健康状态
func (m *Manager) GetHealthStatus(ctx context.Context) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	health := map[string]interface{}{
		"chain_type":    m.config.ChainType,
		"chain_id":      m.config.ChainId,
		"client_status": "connected",
	}

	if m.client == nil {
		health["client_status"] = "not_initialized"
	} else if head, err := m.client.BlockNumber(ctx); err != nil {
		health["client_status"] = "disconnected"
	} else {
		health["head_block"] = head
	}

	contracts := make(map[string]interface{}, len(m.contracts))
	for contractName, contract := range m.contracts {
		contracts[contractName] = map[string]interface{}{
			"address":   contract.GetAddress().Hex(),
			"chain_id":  contract.GetChainId(),
			"block_num": contract.GetBlockNum(),
		}
	}
	health["contracts"] = contracts
	return health
}

// Close 关闭管理器
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		m.client.Close()
	}

	logger.Info("Chain manager closed")
	return nil
}
