package blockchain

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ErrNameNotFound is returned when an ENS name has no resolver or no address.
var ErrNameNotFound = errors.New("ens name not found")

// ENSResolver resolves ENS names through the registry contract.
type ENSResolver struct {
	caller   ethereum.ContractCaller
	registry common.Address
}

func NewENSResolver(caller ethereum.ContractCaller, registry common.Address) *ENSResolver {
	return &ENSResolver{caller: caller, registry: registry}
}

// NameHash implements the ENS namehash algorithm.
func NameHash(name string) common.Hash {
	var node common.Hash
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = common.BytesToHash(crypto.Keccak256(node.Bytes(), labelHash))
	}
	return node
}

// Resolve returns the address an ENS name points to.
func (r *ENSResolver) Resolve(ctx context.Context, name string) (common.Address, error) {
	node := NameHash(name)

	resolver, err := r.callAddress(ctx, r.registry, "resolver", node)
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "looking up resolver for %s", name)
	}
	if resolver == (common.Address{}) {
		return common.Address{}, errors.Wrap(ErrNameNotFound, name)
	}

	addr, err := r.callAddress(ctx, resolver, "addr", node)
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "resolving %s", name)
	}
	if addr == (common.Address{}) {
		return common.Address{}, errors.Wrap(ErrNameNotFound, name)
	}
	return addr, nil
}

func (r *ENSResolver) callAddress(ctx context.Context, to common.Address, method string, node common.Hash) (common.Address, error) {
	data, err := ensABI.Pack(method, [32]byte(node))
	if err != nil {
		return common.Address{}, err
	}
	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, nil
	}
	values, err := ensABI.Unpack(method, out)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Errorf("unexpected %s result %T", method, values[0])
	}
	return addr, nil
}
