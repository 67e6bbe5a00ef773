package blockchain

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// ErrReverted marks a transaction that was rejected by the EVM, either at
// gas estimation or after inclusion.
var ErrReverted = errors.New("transaction reverted")

// RevertError carries the decoded revert reason, if the node returned one.
type RevertError struct {
	Hash   common.Hash
	Reason string
}

func (e *RevertError) Error() string {
	msg := ErrReverted.Error()
	if e.Hash != (common.Hash{}) {
		msg += " " + e.Hash.Hex()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *RevertError) Is(target error) bool {
	return target == ErrReverted
}

// Backend is the part of an Ethereum JSON-RPC client the gateway needs.
// Both *ethclient.Client and the simulated backend client satisfy it.
type Backend interface {
	ethereum.ChainIDReader
	ethereum.ContractCaller
	ethereum.GasEstimator
	ethereum.TransactionSender
	ethereum.TransactionReader
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// TxHandle identifies a broadcast transaction and keeps enough of the call
// to replay it when looking for a revert reason.
type TxHandle struct {
	Hash  common.Hash
	From  common.Address
	To    common.Address
	Value *big.Int
	Data  []byte
}

// Confirmation describes a successfully mined transaction.
type Confirmation struct {
	Hash        common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

type GatewayOptions struct {
	// TipContract receives tipWithNative / tipWithERC20 calls. A zero address
	// turns ERC-20 tips into direct transfers.
	TipContract         common.Address
	PollInterval        time.Duration
	ConfirmationTimeout time.Duration
	Logger              *slog.Logger
}

// EVMGateway submits tips to one EVM chain.
type EVMGateway struct {
	backend  Backend
	chainID  *big.Int
	contract common.Address
	poll     time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewEVMGateway asks the node for its chain id and returns a gateway bound to it.
func NewEVMGateway(ctx context.Context, backend Backend, opts GatewayOptions) (*EVMGateway, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching chain id")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.ConfirmationTimeout <= 0 {
		opts.ConfirmationTimeout = 3 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &EVMGateway{
		backend:  backend,
		chainID:  chainID,
		contract: opts.TipContract,
		poll:     opts.PollInterval,
		timeout:  opts.ConfirmationTimeout,
		logger:   opts.Logger.With("chain_id", chainID.Int64()),
	}, nil
}

func (g *EVMGateway) ChainID() int64 {
	return g.chainID.Int64()
}

// Spender is the address that must hold an ERC-20 allowance before
// SendToken, or the zero address when no allowance is needed.
func (g *EVMGateway) Spender() common.Address {
	return g.contract
}

// SendNative sends value to receiver, either as a plain transfer or through
// the tip contract's tipWithNative.
func (g *EVMGateway) SendNative(ctx context.Context, w Wallet, receiver common.Address, amount *big.Int, viaContract bool) (TxHandle, error) {
	if !viaContract {
		return g.send(ctx, w, receiver, amount, nil, "Send native tip")
	}
	if g.contract == (common.Address{}) {
		return TxHandle{}, errors.New("no tip contract configured for native contract tips")
	}
	data, err := tipJarABI.Pack("tipWithNative", receiver)
	if err != nil {
		return TxHandle{}, errors.Wrap(err, "packing tipWithNative")
	}
	return g.send(ctx, w, g.contract, amount, data, "Send native tip via tip contract")
}

// Approve grants spender an allowance of amount on token.
func (g *EVMGateway) Approve(ctx context.Context, w Wallet, token, spender common.Address, amount *big.Int) (TxHandle, error) {
	data, err := erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return TxHandle{}, errors.Wrap(err, "packing approve")
	}
	return g.send(ctx, w, token, big.NewInt(0), data, "Approve token spending")
}

// SendToken tips amount of token to receiver through the tip contract, or with
// a direct transfer when no contract is configured.
func (g *EVMGateway) SendToken(ctx context.Context, w Wallet, token, receiver common.Address, amount *big.Int) (TxHandle, error) {
	if g.contract == (common.Address{}) {
		data, err := erc20ABI.Pack("transfer", receiver, amount)
		if err != nil {
			return TxHandle{}, errors.Wrap(err, "packing transfer")
		}
		return g.send(ctx, w, token, big.NewInt(0), data, "Send token tip")
	}
	data, err := tipJarABI.Pack("tipWithERC20", token, receiver, amount)
	if err != nil {
		return TxHandle{}, errors.Wrap(err, "packing tipWithERC20")
	}
	return g.send(ctx, w, g.contract, big.NewInt(0), data, "Send token tip via tip contract")
}

// Allowance reads token.allowance(owner, spender).
func (g *EVMGateway) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, errors.Wrap(err, "packing allowance")
	}
	out, err := g.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "calling allowance")
	}
	if len(out) == 0 {
		return nil, errors.Errorf("token %s returned no data for allowance", token.Hex())
	}
	values, err := erc20ABI.Unpack("allowance", out)
	if err != nil {
		return nil, errors.Wrap(err, "unpacking allowance")
	}
	allowance, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("unexpected allowance type %T", values[0])
	}
	return allowance, nil
}

// AwaitConfirmation polls for the receipt until the transaction is mined or
// the confirmation timeout passes. A mined but failed transaction yields a
// *RevertError.
func (g *EVMGateway) AwaitConfirmation(ctx context.Context, h TxHandle) (Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	ticker := time.NewTicker(g.poll)
	defer ticker.Stop()

	for {
		receipt, err := g.backend.TransactionReceipt(ctx, h.Hash)
		switch {
		case err == nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				reason := g.replayForReason(ctx, h, receipt.BlockNumber)
				g.logger.Warn("transaction reverted", "tx", h.Hash.Hex(), "reason", reason)
				return Confirmation{}, &RevertError{Hash: h.Hash, Reason: reason}
			}
			return Confirmation{
				Hash:        h.Hash,
				BlockNumber: receipt.BlockNumber.Uint64(),
				GasUsed:     receipt.GasUsed,
			}, nil
		case errors.Is(err, ethereum.NotFound):
		default:
			g.logger.Debug("receipt lookup failed", "tx", h.Hash.Hex(), "err", err)
		}

		select {
		case <-ctx.Done():
			return Confirmation{}, errors.Wrapf(ctx.Err(), "waiting for %s", h.Hash.Hex())
		case <-ticker.C:
		}
	}
}

func (g *EVMGateway) send(ctx context.Context, w Wallet, to common.Address, value *big.Int, data []byte, purpose string) (TxHandle, error) {
	from := w.Address()
	msg := ethereum.CallMsg{From: from, To: &to, Value: value, Data: data}

	nonce, err := g.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return TxHandle{}, errors.Wrap(err, "fetching nonce")
	}
	tipCap, err := g.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return TxHandle{}, errors.Wrap(err, "suggesting gas tip cap")
	}
	head, err := g.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return TxHandle{}, errors.Wrap(err, "fetching latest header")
	}
	gas, err := g.backend.EstimateGas(ctx, msg)
	if err != nil {
		if reason, ok := RevertReason(err); ok {
			return TxHandle{}, &RevertError{Reason: reason}
		}
		return TxHandle{}, errors.Wrap(err, "estimating gas")
	}

	feeCap := new(big.Int).Set(tipCap)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   g.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})

	signed, err := w.SignTx(ctx, SignRequest{Tx: tx, ChainID: g.chainID, Purpose: purpose})
	if err != nil {
		return TxHandle{}, err
	}
	if err := g.backend.SendTransaction(ctx, signed); err != nil {
		return TxHandle{}, errors.Wrap(err, "broadcasting transaction")
	}

	g.logger.Info("transaction broadcast", "tx", signed.Hash().Hex(), "from", from.Hex(), "to", to.Hex(), "purpose", purpose)
	return TxHandle{Hash: signed.Hash(), From: from, To: to, Value: value, Data: data}, nil
}

func (g *EVMGateway) replayForReason(ctx context.Context, h TxHandle, block *big.Int) string {
	to := h.To
	_, err := g.backend.CallContract(ctx, ethereum.CallMsg{From: h.From, To: &to, Value: h.Value, Data: h.Data}, block)
	if err == nil {
		return ""
	}
	if reason, ok := RevertReason(err); ok {
		return reason
	}
	return err.Error()
}
