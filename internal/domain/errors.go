package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Use errors.Is against these to classify a SendTip failure.
var (
	ErrNotConnected      = errors.New("wallet not connected")
	ErrReceiverNotFound  = errors.New("receiver not found")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidMessage    = errors.New("invalid message")
	ErrUserRejected      = errors.New("user rejected")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrLedgerWriteFailed = errors.New("ledger write failed")
)

// TipError carries the failure kind together with where in the flow it happened.
type TipError struct {
	Kind   error
	Phase  Phase
	Reason string
	TxID   string
	cause  error
}

func NewTipError(kind error, phase Phase, reason string) *TipError {
	return &TipError{Kind: kind, Phase: phase, Reason: reason}
}

// WithCause attaches the underlying error.
func (e *TipError) WithCause(err error) *TipError {
	e.cause = err
	return e
}

// WithTx records the transaction the error refers to.
func (e *TipError) WithTx(txID string) *TipError {
	e.TxID = txID
	return e
}

func (e *TipError) Error() string {
	msg := e.Kind.Error()
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.TxID != "" {
		msg = fmt.Sprintf("%s (tx %s)", msg, e.TxID)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *TipError) Is(target error) bool {
	return target == e.Kind
}

func (e *TipError) Unwrap() error {
	return e.cause
}

// KindName returns a short stable name for the error kind, used in metrics
// labels and API payloads.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConnected):
		return "not_connected"
	case errors.Is(err, ErrReceiverNotFound):
		return "receiver_not_found"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInvalidMessage):
		return "invalid_message"
	case errors.Is(err, ErrUserRejected):
		return "user_rejected"
	case errors.Is(err, ErrTransactionFailed):
		return "transaction_failed"
	case errors.Is(err, ErrLedgerWriteFailed):
		return "ledger_write_failed"
	default:
		return "internal"
	}
}
