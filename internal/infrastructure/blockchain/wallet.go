package blockchain

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

// SignRequest is what a wallet is asked to sign.
type SignRequest struct {
	Tx      *types.Transaction
	ChainID *big.Int
	Purpose string
}

// Wallet signs transactions on behalf of one address. A wallet that refuses
// to sign returns an error matching domain.ErrUserRejected.
type Wallet interface {
	Address() common.Address
	SignTx(ctx context.Context, req SignRequest) (*types.Transaction, error)
}

// Prompter asks the key holder to confirm a signature.
type Prompter interface {
	Confirm(ctx context.Context, from common.Address, req SignRequest) error
}

// AutoApprove signs without asking. Used by the server for its own keys.
type AutoApprove struct{}

func (AutoApprove) Confirm(context.Context, common.Address, SignRequest) error { return nil }

// KeyWallet signs with an in-memory secp256k1 key.
type KeyWallet struct {
	key      *ecdsa.PrivateKey
	address  common.Address
	prompter Prompter
}

func NewKeyWallet(key *ecdsa.PrivateKey, prompter Prompter) *KeyWallet {
	if prompter == nil {
		prompter = AutoApprove{}
	}
	return &KeyWallet{
		key:      key,
		address:  crypto.PubkeyToAddress(key.PublicKey),
		prompter: prompter,
	}
}

// NewKeyWalletFromHex parses a hex private key, with or without 0x prefix.
func NewKeyWalletFromHex(hexKey string, prompter Prompter) (*KeyWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing private key")
	}
	return NewKeyWallet(key, prompter), nil
}

func (w *KeyWallet) Address() common.Address {
	return w.address
}

func (w *KeyWallet) SignTx(ctx context.Context, req SignRequest) (*types.Transaction, error) {
	if err := w.prompter.Confirm(ctx, w.address, req); err != nil {
		return nil, err
	}
	signed, err := types.SignTx(req.Tx, types.LatestSignerForChainID(req.ChainID), w.key)
	if err != nil {
		return nil, errors.Wrap(err, "signing transaction")
	}
	return signed, nil
}

// Keyring maps addresses to the wallets able to sign for them.
type Keyring struct {
	wallets map[common.Address]Wallet
}

func NewKeyring(wallets ...Wallet) *Keyring {
	k := &Keyring{wallets: make(map[common.Address]Wallet, len(wallets))}
	for _, w := range wallets {
		k.wallets[w.Address()] = w
	}
	return k
}

// NewKeyringFromHex builds a keyring from hex private keys.
func NewKeyringFromHex(keys []string, prompter Prompter) (*Keyring, error) {
	wallets := make([]Wallet, 0, len(keys))
	for i, hexKey := range keys {
		if strings.TrimSpace(hexKey) == "" {
			continue
		}
		w, err := NewKeyWalletFromHex(hexKey, prompter)
		if err != nil {
			return nil, errors.Wrapf(err, "wallet key #%d", i)
		}
		wallets = append(wallets, w)
	}
	return NewKeyring(wallets...), nil
}

// Wallet returns the wallet for address, if one is connected.
func (k *Keyring) Wallet(address string) (Wallet, bool) {
	if !common.IsHexAddress(address) {
		return nil, false
	}
	w, ok := k.wallets[common.HexToAddress(address)]
	return w, ok
}

// Addresses lists the connected addresses.
func (k *Keyring) Addresses() []common.Address {
	out := make([]common.Address, 0, len(k.wallets))
	for addr := range k.wallets {
		out = append(out, addr)
	}
	return out
}

// TerminalPrompter asks on a terminal before each signature.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *TerminalPrompter) Confirm(ctx context.Context, from common.Address, req SignRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := req.Tx
	to := "contract creation"
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	fmt.Fprintf(p.out, "\n%s\n  from:  %s\n  to:    %s\n  value: %s wei\n  gas:   %d\nSign? [y/N]: ",
		req.Purpose, from.Hex(), to, tx.Value().String(), tx.Gas())

	answer, err := p.in.ReadString('\n')
	if err != nil && answer == "" {
		return errors.Wrap(domain.ErrUserRejected, "no answer")
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errors.Wrap(domain.ErrUserRejected, "signature declined")
	}
}
