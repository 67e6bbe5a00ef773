package blockchain

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ensStub answers resolver() on the registry and addr() on the resolver.
type ensStub struct {
	registry common.Address
	resolver common.Address
	records  map[common.Hash]common.Address
	calls    int
}

func (s *ensStub) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	s.calls++
	var node common.Hash
	copy(node[:], msg.Data[4:36])

	resolverSel := ensABI.Methods["resolver"].ID
	addrSel := ensABI.Methods["addr"].ID
	switch {
	case *msg.To == s.registry && bytes.Equal(msg.Data[:4], resolverSel):
		if _, ok := s.records[node]; !ok {
			return common.LeftPadBytes(nil, 32), nil
		}
		return common.LeftPadBytes(s.resolver.Bytes(), 32), nil
	case *msg.To == s.resolver && bytes.Equal(msg.Data[:4], addrSel):
		return common.LeftPadBytes(s.records[node].Bytes(), 32), nil
	}
	return nil, errors.New("unexpected call")
}

func TestNameHash(t *testing.T) {
	assert.Equal(t, common.Hash{}, NameHash(""))
	assert.Equal(t, "0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae", NameHash("eth").Hex())
	assert.Equal(t, NameHash("creator.eth"), NameHash("Creator.ETH"))
}

func TestENSResolver(t *testing.T) {
	creator := common.HexToAddress("0x3525a342340576D4229415494848316239B27f12")
	stub := &ensStub{
		registry: common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"),
		resolver: common.HexToAddress("0x231b0Ee14048e9dCcD1d247744d114a4EB5E8E63"),
		records:  map[common.Hash]common.Address{NameHash("creator.eth"): creator},
	}
	r := NewENSResolver(stub, stub.registry)

	addr, err := r.Resolve(context.Background(), "creator.eth")
	require.NoError(t, err)
	assert.Equal(t, creator, addr)
	assert.Equal(t, 2, stub.calls)

	_, err = r.Resolve(context.Background(), "nobody.eth")
	assert.True(t, errors.Is(err, ErrNameNotFound))
}
