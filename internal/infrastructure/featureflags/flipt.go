package featureflags

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/pkg/errors"
	flipt "go.flipt.io/flipt-client"
)

// NativeViaContractFlag switches native tips between a plain value transfer
// and the tip contract's tipWithNative.
const NativeViaContractFlag = "native-tip-via-contract"

type evaluateFunc func(ctx context.Context, req *flipt.EvaluationRequest) (bool, error)

// NativeMode decides per chain whether native tips go through the tip contract.
type NativeMode struct {
	evaluate evaluateFunc
	close    func(ctx context.Context) error
	logger   *slog.Logger
}

// NewFliptNativeMode connects to Flipt and evaluates the native mode flag there.
func NewFliptNativeMode(ctx context.Context, url, namespace string, updateInterval time.Duration, logger *slog.Logger) (*NativeMode, error) {
	client, err := flipt.NewClient(ctx,
		flipt.WithURL(url),
		flipt.WithNamespace(namespace),
		flipt.WithUpdateInterval(updateInterval),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating flipt client")
	}
	eval := func(ctx context.Context, req *flipt.EvaluationRequest) (bool, error) {
		res, err := client.EvaluateBoolean(ctx, req)
		if err != nil {
			return false, err
		}
		return res.Enabled, nil
	}
	return newNativeMode(eval, client.Close, logger), nil
}

func newNativeMode(eval evaluateFunc, closeFn func(ctx context.Context) error, logger *slog.Logger) *NativeMode {
	if logger == nil {
		logger = slog.Default()
	}
	return &NativeMode{evaluate: eval, close: closeFn, logger: logger}
}

// ViaContract returns the flag value for chainID, or fallback when the flag
// cannot be evaluated.
func (m *NativeMode) ViaContract(ctx context.Context, chainID int64, fallback bool) bool {
	if m == nil || m.evaluate == nil {
		return fallback
	}
	id := strconv.FormatInt(chainID, 10)
	enabled, err := m.evaluate(ctx, &flipt.EvaluationRequest{
		FlagKey:  NativeViaContractFlag,
		EntityID: id,
		Context:  map[string]string{"chain_id": id},
	})
	if err != nil {
		m.logger.Warn("native mode flag unavailable, using config", "chain_id", chainID, "err", err)
		return fallback
	}
	return enabled
}

func (m *NativeMode) Close(ctx context.Context) error {
	if m == nil || m.close == nil {
		return nil
	}
	return m.close(ctx)
}
