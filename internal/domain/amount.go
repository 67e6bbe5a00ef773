package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a human-readable token amount. It must be strictly
// positive and carry no more fractional digits than the token allows.
func ParseAmount(s string, decimals int32) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parsing amount %q", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.Errorf("amount %s must be positive", s)
	}
	if -d.Exponent() > decimals && !d.Equal(d.Truncate(decimals)) {
		return decimal.Zero, errors.Errorf("amount %s exceeds %d decimals", s, decimals)
	}
	return d, nil
}

// ToBaseUnits converts a human amount into the token's smallest unit.
func ToBaseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

// FromBaseUnits converts a smallest-unit amount back to human units.
func FromBaseUnits(v *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(v, -decimals)
}

// LenientAmount parses a stored amount for aggregation. Anything unparsable
// or non-positive counts as zero.
func LenientAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero
	}
	return d
}

// NormalizeAddress validates a hex address and returns its EIP-55 form.
func NormalizeAddress(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return "", false
	}
	return common.HexToAddress(s).Hex(), true
}
