package blockchain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// RevertReason extracts the reason from an execution-reverted RPC error.
// ok is false when err is not a revert.
func RevertReason(err error) (reason string, ok bool) {
	if err == nil {
		return "", false
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, isStr := dataErr.ErrorData().(string); isStr {
			if raw, decErr := hexutil.Decode(data); decErr == nil {
				if msg, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
					return msg, true
				}
			}
		}
	}
	msg := err.Error()
	if strings.Contains(msg, "execution reverted") {
		return strings.TrimPrefix(strings.TrimPrefix(msg, "execution reverted"), ": "), true
	}
	return "", false
}
