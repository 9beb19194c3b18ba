package eth

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/deval2498/Spotmf/core"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const erc20ApproveABI = `[{"inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}]`

var erc20 = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ApproveABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// AssetConfig ties a tradable asset to the ERC-20 contract the budget is held
// in and the strategy executor that is granted the allowance.
type AssetConfig struct {
	Token   common.Address `json:"token"`
	Spender common.Address `json:"spender"`
}

// DefaultAssets is the built-in per-asset configuration for HyperEVM mainnet.
func DefaultAssets() map[core.AssetType]AssetConfig {
	return map[core.AssetType]AssetConfig{
		core.AssetBTC: {
			Token:   common.HexToAddress("0x9FDBdA0A5e284c32744D2f17Ee5c74B284993463"),
			Spender: common.HexToAddress("0x2Df1c51E09aECF9cacB7bc98cB1742757f163dF7"),
		},
		core.AssetETH: {
			Token:   common.HexToAddress("0xBe6727B535545C67d5cAa73dEa54865B92CF7907"),
			Spender: common.HexToAddress("0x2Df1c51E09aECF9cacB7bc98cB1742757f163dF7"),
		},
		core.AssetHYPE: {
			Token:   common.HexToAddress("0x5555555555555555555555555555555555555555"),
			Spender: common.HexToAddress("0x2Df1c51E09aECF9cacB7bc98cB1742757f163dF7"),
		},
	}
}

// Fixed gas defaults for an ERC-20 approve.
// TODO: estimate gas via eth_estimateGas instead of hard-coding.
const (
	defaultGasLimit = 60_000
	defaultGasPrice = 1_000_000_000 // 1 gwei
)

// TxPayload is the unsigned transaction returned to the client for signing
// and broadcast. Broadcasting and confirmation tracking happen elsewhere.
type TxPayload struct {
	To       common.Address `json:"to"`
	Data     hexutil.Bytes  `json:"data"`
	Value    *hexutil.Big   `json:"value"`
	Gas      hexutil.Uint64 `json:"gas"`
	GasPrice *hexutil.Big   `json:"gasPrice"`
}

// TxBuilder constructs approve transactions from the static asset table.
type TxBuilder struct {
	assets   map[core.AssetType]AssetConfig
	gasLimit uint64
	gasPrice *big.Int
}

// NewTxBuilder creates a builder over the given asset table; a nil table
// selects the built-in defaults.
func NewTxBuilder(assets map[core.AssetType]AssetConfig) *TxBuilder {
	if assets == nil {
		assets = DefaultAssets()
	}
	return &TxBuilder{
		assets:   assets,
		gasLimit: defaultGasLimit,
		gasPrice: big.NewInt(defaultGasPrice),
	}
}

// ApprovePayload builds an ERC-20 approve(spender, amount) call against the
// asset's token contract. An amount of zero revokes the allowance. An asset
// missing from the table is a configuration fault, not a user error.
func (b *TxBuilder) ApprovePayload(asset core.AssetType, amount *big.Int) (*TxPayload, error) {
	cfg, ok := b.assets[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAsset, asset)
	}

	data, err := erc20.Pack("approve", cfg.Spender, amount)
	if err != nil {
		return nil, fmt.Errorf("pack approve call: %w", err)
	}

	return &TxPayload{
		To:       cfg.Token,
		Data:     data,
		Value:    (*hexutil.Big)(big.NewInt(0)),
		Gas:      hexutil.Uint64(b.gasLimit),
		GasPrice: (*hexutil.Big)(new(big.Int).Set(b.gasPrice)),
	}, nil
}
