package domain

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token describes a tippable asset on one chain. An empty Address means the
// chain's native currency.
type Token struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Address     string  `json:"address,omitempty"`
	Decimals    int32   `json:"decimals"`
	ChainID     int64   `json:"chain_id"`
	CoinGeckoID string  `json:"-"`
	USDPeg      float64 `json:"-"`
}

// IsNative reports whether the token is the chain's base asset.
func (t Token) IsNative() bool {
	return t.Address == ""
}

// ContractAddress returns the token contract, or false when the descriptor
// carries no usable address.
func (t Token) ContractAddress() (common.Address, bool) {
	if !common.IsHexAddress(t.Address) {
		return common.Address{}, false
	}
	addr := common.HexToAddress(t.Address)
	if addr == (common.Address{}) {
		return common.Address{}, false
	}
	return addr, true
}

// TokenRegistry is the immutable set of tokens loaded at start.
type TokenRegistry struct {
	tokens []Token
}

func NewTokenRegistry(tokens []Token) *TokenRegistry {
	cp := make([]Token, len(tokens))
	copy(cp, tokens)
	sort.SliceStable(cp, func(i, j int) bool {
		if cp[i].ChainID != cp[j].ChainID {
			return cp[i].ChainID < cp[j].ChainID
		}
		return cp[i].Symbol < cp[j].Symbol
	})
	return &TokenRegistry{tokens: cp}
}

// Lookup finds a token by symbol. When chainID is zero the first token with
// that symbol wins.
func (r *TokenRegistry) Lookup(symbol string, chainID int64) (Token, bool) {
	for _, t := range r.tokens {
		if !strings.EqualFold(t.Symbol, symbol) {
			continue
		}
		if chainID == 0 || t.ChainID == chainID {
			return t, true
		}
	}
	return Token{}, false
}

// All returns a copy of every registered token.
func (r *TokenRegistry) All() []Token {
	out := make([]Token, len(r.tokens))
	copy(out, r.tokens)
	return out
}

// ByChain returns the tokens available on one chain.
func (r *TokenRegistry) ByChain(chainID int64) []Token {
	var out []Token
	for _, t := range r.tokens {
		if t.ChainID == chainID {
			out = append(out, t)
		}
	}
	return out
}
