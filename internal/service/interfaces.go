package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/16navigabraham/Tipjar/internal/domain"
	"github.com/16navigabraham/Tipjar/internal/infrastructure/blockchain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// ChainGateway submits and tracks transactions on one chain.
type ChainGateway interface {
	ChainID() int64
	Spender() common.Address
	SendNative(ctx context.Context, w blockchain.Wallet, receiver common.Address, amount *big.Int, viaContract bool) (blockchain.TxHandle, error)
	Approve(ctx context.Context, w blockchain.Wallet, token, spender common.Address, amount *big.Int) (blockchain.TxHandle, error)
	SendToken(ctx context.Context, w blockchain.Wallet, token, receiver common.Address, amount *big.Int) (blockchain.TxHandle, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	AwaitConfirmation(ctx context.Context, h blockchain.TxHandle) (blockchain.Confirmation, error)
}

// Ledger is the append-only store of confirmed tips. Queries return newest first.
type Ledger interface {
	Append(ctx context.Context, rec *domain.TipRecord) error
	QueryBySender(ctx context.Context, address string) ([]*domain.TipRecord, error)
	QueryByReceiver(ctx context.Context, address string) ([]*domain.TipRecord, error)
	QueryAll(ctx context.Context) ([]*domain.TipRecord, error)
}

// PriceFeed fetches USD prices keyed by feed id.
type PriceFeed interface {
	FetchPrices(ctx context.Context, ids []string) (map[string]float64, error)
}

// Alerter raises a reconciliation alert for a confirmed tip the ledger did not take.
type Alerter interface {
	TipNotRecorded(ctx context.Context, rec *domain.TipRecord, cause error) error
}

// WalletProvider returns the connected wallet for an address.
type WalletProvider interface {
	Wallet(address string) (blockchain.Wallet, bool)
}

// NativeModeSource decides whether native tips on a chain use the tip contract.
type NativeModeSource interface {
	ViaContract(ctx context.Context, chainID int64, fallback bool) bool
}

// Invalidator drops cached views affected by a tip between sender and receiver.
type Invalidator interface {
	InvalidateTip(sender, receiver string)
}

// NameResolver resolves an ENS name.
type NameResolver interface {
	Resolve(ctx context.Context, name string) (common.Address, error)
}
