package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

// Resolver turns what a user typed for a creator into a checksummed address:
// a hex address, an ENS name, or a known username.
type Resolver struct {
	ens       NameResolver
	usernames map[string]string
}

func NewResolver(ens NameResolver, usernames map[string]string) *Resolver {
	r := &Resolver{ens: ens, usernames: make(map[string]string, len(usernames))}
	for name, addr := range usernames {
		if checksum, ok := domain.NormalizeAddress(addr); ok {
			r.usernames[strings.ToLower(name)] = checksum
		}
	}
	return r
}

// Resolve fails with domain.ErrReceiverNotFound when input names nobody.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.Wrap(domain.ErrReceiverNotFound, "empty receiver")
	}
	if addr, ok := domain.NormalizeAddress(input); ok {
		return addr, nil
	}

	if strings.HasSuffix(strings.ToLower(input), ".eth") {
		if r.ens == nil {
			return "", errors.Wrapf(domain.ErrReceiverNotFound, "ens lookup unavailable for %s", input)
		}
		addr, err := r.ens.Resolve(ctx, input)
		if err != nil {
			return "", errors.Wrapf(domain.ErrReceiverNotFound, "%s: %v", input, err)
		}
		return addr.Hex(), nil
	}

	if addr, ok := r.usernames[strings.ToLower(strings.TrimPrefix(input, "@"))]; ok {
		return addr, nil
	}
	return "", errors.Wrapf(domain.ErrReceiverNotFound, "unknown creator %s", input)
}
