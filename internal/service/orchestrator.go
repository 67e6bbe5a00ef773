package service

import (
	"context"
	"log/slog"
	"math/big"
	"time"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/16navigabraham/Tipjar/internal/domain"
	"github.com/16navigabraham/Tipjar/internal/infrastructure/blockchain"
	"github.com/16navigabraham/Tipjar/internal/metrics"
)

// DefaultMaxMessageLength bounds tip messages, in runes.
const DefaultMaxMessageLength = 280

// StatusFunc receives every phase transition of a tip.
type StatusFunc func(domain.Status)

type sendOptions struct {
	status StatusFunc
}

type SendOption func(*sendOptions)

// WithStatus subscribes fn to phase transitions of one SendTip call.
func WithStatus(fn StatusFunc) SendOption {
	return func(o *sendOptions) {
		o.status = fn
	}
}

// StatusHook returns the subscriber set by opts, or nil.
func StatusHook(opts ...SendOption) StatusFunc {
	var so sendOptions
	for _, opt := range opts {
		opt(&so)
	}
	return so.status
}

type OrchestratorDeps struct {
	Tokens      *domain.TokenRegistry
	Wallets     WalletProvider
	Gateways    []ChainGateway
	Ledger      Ledger
	Alerter     Alerter
	Invalidator Invalidator
	NativeMode  NativeModeSource
	// NativeViaContract is the per-chain default used when NativeMode has no answer.
	NativeViaContract map[int64]bool
	MaxMessageLength  int
	Metrics           *metrics.Tips
	Logger            *slog.Logger
}

// TipOrchestrator drives a tip from validation through the chain to the ledger.
// It keeps no per-call state, so concurrent SendTip calls are independent.
type TipOrchestrator struct {
	tokens      *domain.TokenRegistry
	wallets     WalletProvider
	gateways    map[int64]ChainGateway
	ledger      Ledger
	alerter     Alerter
	invalidator Invalidator
	nativeMode  NativeModeSource
	viaContract map[int64]bool
	maxMessage  int
	metrics     *metrics.Tips
	logger      *slog.Logger
	newID       func() string
	now         func() time.Time
}

func NewTipOrchestrator(d OrchestratorDeps) *TipOrchestrator {
	o := &TipOrchestrator{
		tokens:      d.Tokens,
		wallets:     d.Wallets,
		gateways:    make(map[int64]ChainGateway, len(d.Gateways)),
		ledger:      d.Ledger,
		alerter:     d.Alerter,
		invalidator: d.Invalidator,
		nativeMode:  d.NativeMode,
		viaContract: d.NativeViaContract,
		maxMessage:  d.MaxMessageLength,
		metrics:     d.Metrics,
		logger:      d.Logger,
		newID:       func() string { return uuid.NewString() },
		now:         time.Now,
	}
	for _, gw := range d.Gateways {
		o.gateways[gw.ChainID()] = gw
	}
	if o.maxMessage <= 0 {
		o.maxMessage = DefaultMaxMessageLength
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tokens == nil {
		o.tokens = domain.NewTokenRegistry(nil)
	}
	return o
}

// tipRun is the state of one SendTip invocation.
type tipRun struct {
	intent   *domain.TipIntent
	wallet   blockchain.Wallet
	gateway  ChainGateway
	receiver common.Address
	base     *big.Int
	result   *domain.TipResult
	status   StatusFunc
	logger   *slog.Logger
}

func (r *tipRun) enter(phase domain.Phase, txID string, err error) {
	r.intent.Phase = phase
	r.result.Phase = phase
	r.logger.Debug("tip phase", "phase", phase, "tx", txID)
	if r.status == nil {
		return
	}
	st := domain.Status{IntentID: r.intent.ID, Phase: phase, TxID: txID}
	if err != nil {
		st.Error = err.Error()
		st.Kind = domain.KindName(err)
	}
	r.status(st)
}

// SendTip validates req, submits the tip on chain and records it once the
// transfer is confirmed. Validation errors return a nil result and touch
// nothing. Any later error comes with a result describing how far the tip got.
func (o *TipOrchestrator) SendTip(ctx context.Context, req domain.TipRequest, opts ...SendOption) (*domain.TipResult, error) {
	run, err := o.prepare(req)
	if err != nil {
		o.metrics.TipFinished(o.tokenLabel(req), domain.KindName(err))
		o.logger.Info("tip rejected", "sender", req.Sender, "receiver", req.Receiver, "token", req.Token, "err", err)
		return nil, err
	}
	run.status = StatusHook(opts...)

	defer o.invalidate(run.intent)

	run.enter(domain.PhaseSubmitting, "", nil)
	err = o.execute(ctx, run)

	outcome := "completed"
	if err != nil {
		outcome = domain.KindName(err)
	}
	o.metrics.TipFinished(run.intent.Token.Symbol, outcome)
	if err != nil {
		run.logger.Warn("tip finished with error", "phase", run.result.Phase, "tx", run.result.TxID, "err", err)
	} else {
		run.logger.Info("tip completed", "tx", run.result.TxID)
	}
	return run.result, err
}

func (o *TipOrchestrator) prepare(req domain.TipRequest) (*tipRun, error) {
	sender, ok := domain.NormalizeAddress(req.Sender)
	if !ok {
		return nil, domain.NewTipError(domain.ErrNotConnected, domain.PhaseIdle, "no sender address")
	}
	wallet, ok := o.wallets.Wallet(sender)
	if !ok {
		return nil, domain.NewTipError(domain.ErrNotConnected, domain.PhaseIdle, "no wallet for "+sender)
	}

	receiver, ok := domain.NormalizeAddress(req.Receiver)
	if !ok || common.HexToAddress(receiver) == (common.Address{}) {
		return nil, domain.NewTipError(domain.ErrReceiverNotFound, domain.PhaseIdle, "invalid receiver address")
	}

	token, ok := o.tokens.Lookup(req.Token, req.ChainID)
	if !ok {
		return nil, domain.NewTipError(domain.ErrInvalidToken, domain.PhaseIdle, "unknown token "+req.Token)
	}
	if !token.IsNative() {
		if _, ok := token.ContractAddress(); !ok {
			return nil, domain.NewTipError(domain.ErrInvalidToken, domain.PhaseIdle, token.Symbol+" has no contract address")
		}
	}
	gw, ok := o.gateways[token.ChainID]
	if !ok {
		return nil, domain.NewTipError(domain.ErrInvalidToken, domain.PhaseIdle, "chain not available for "+token.Symbol)
	}

	amount, err := domain.ParseAmount(req.Amount, token.Decimals)
	if err != nil {
		return nil, domain.NewTipError(domain.ErrInvalidAmount, domain.PhaseIdle, err.Error())
	}

	if utf8.RuneCountInString(req.Message) > o.maxMessage {
		return nil, domain.NewTipError(domain.ErrInvalidMessage, domain.PhaseIdle, "message too long")
	}

	intent := &domain.TipIntent{
		ID:       o.newID(),
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
		Token:    token,
		Message:  req.Message,
		Phase:    domain.PhaseIdle,
	}
	return &tipRun{
		intent:   intent,
		wallet:   wallet,
		gateway:  gw,
		receiver: common.HexToAddress(receiver),
		base:     domain.ToBaseUnits(amount, token.Decimals),
		result:   &domain.TipResult{IntentID: intent.ID, Phase: domain.PhaseIdle},
		logger: o.logger.With(
			"intent", intent.ID,
			"token", token.Symbol,
			"chain_id", token.ChainID,
			"sender", sender,
			"receiver", receiver,
		),
	}, nil
}

func (o *TipOrchestrator) execute(ctx context.Context, run *tipRun) error {
	var transfer blockchain.TxHandle
	var err error
	if run.intent.Token.IsNative() {
		transfer, err = o.submitNative(ctx, run)
	} else {
		transfer, err = o.submitToken(ctx, run)
	}
	if err != nil {
		return err
	}

	// Broadcast happened: the outcome is decided on chain, not by the caller.
	detached := context.WithoutCancel(ctx)

	run.result.TxID = transfer.Hash.Hex()
	run.enter(domain.PhaseAwaitingConfirmation, run.result.TxID, nil)
	started := o.now()
	if _, err := run.gateway.AwaitConfirmation(detached, transfer); err != nil {
		return o.fail(run, failure(err, domain.PhaseAwaitingConfirmation, "transfer failed").WithTx(run.result.TxID))
	}
	o.metrics.Confirmed(metrics.StepTransfer, o.now().Sub(started))
	run.result.Transferred = true

	return o.record(detached, run)
}

func (o *TipOrchestrator) submitNative(ctx context.Context, run *tipRun) (blockchain.TxHandle, error) {
	chainID := run.intent.Token.ChainID
	viaContract := o.viaContract[chainID]
	if o.nativeMode != nil {
		viaContract = o.nativeMode.ViaContract(ctx, chainID, viaContract)
	}
	h, err := run.gateway.SendNative(ctx, run.wallet, run.receiver, run.base, viaContract)
	if err != nil {
		return blockchain.TxHandle{}, o.fail(run, failure(err, domain.PhaseSubmitting, "sending native tip"))
	}
	return h, nil
}

func (o *TipOrchestrator) submitToken(ctx context.Context, run *tipRun) (blockchain.TxHandle, error) {
	token, _ := run.intent.Token.ContractAddress()
	spender := run.gateway.Spender()

	if spender != (common.Address{}) {
		allowance, err := run.gateway.Allowance(ctx, token, run.wallet.Address(), spender)
		if err != nil {
			return blockchain.TxHandle{}, o.fail(run, failure(err, domain.PhaseSubmitting, "reading allowance"))
		}
		if allowance.Cmp(run.base) < 0 {
			if err := o.approve(ctx, run, token, spender); err != nil {
				return blockchain.TxHandle{}, err
			}
		}
	}

	h, err := run.gateway.SendToken(ctx, run.wallet, token, run.receiver, run.base)
	if err != nil {
		return blockchain.TxHandle{}, o.fail(run, failure(err, run.intent.Phase, "sending token tip"))
	}
	return h, nil
}

func (o *TipOrchestrator) approve(ctx context.Context, run *tipRun, token, spender common.Address) error {
	h, err := run.gateway.Approve(ctx, run.wallet, token, spender, run.base)
	if err != nil {
		return o.fail(run, failure(err, domain.PhaseSubmitting, "approval"))
	}
	run.result.ApprovalTx = h.Hash.Hex()
	run.enter(domain.PhaseAwaitingApproval, run.result.ApprovalTx, nil)

	started := o.now()
	if _, err := run.gateway.AwaitConfirmation(context.WithoutCancel(ctx), h); err != nil {
		return o.fail(run, failure(err, domain.PhaseAwaitingApproval, "approval failed").WithTx(run.result.ApprovalTx))
	}
	o.metrics.Confirmed(metrics.StepApproval, o.now().Sub(started))
	return nil
}

func (o *TipOrchestrator) record(ctx context.Context, run *tipRun) error {
	run.enter(domain.PhaseRecording, run.result.TxID, nil)

	in := run.intent
	rec := &domain.TipRecord{
		Sender:   in.Sender,
		Receiver: in.Receiver,
		Token:    in.Token.Symbol,
		Amount:   in.Amount.String(),
		Message:  in.Message,
		TxID:     run.result.TxID,
		ChainID:  in.Token.ChainID,
	}
	if err := o.ledger.Append(ctx, rec); err != nil {
		tipErr := domain.NewTipError(domain.ErrLedgerWriteFailed, domain.PhaseRecording, "tip confirmed on chain but not recorded").
			WithTx(run.result.TxID).
			WithCause(err)
		if o.alerter != nil {
			if alertErr := o.alerter.TipNotRecorded(ctx, rec, err); alertErr != nil {
				run.logger.Error("reconciliation alert failed", "tx", rec.TxID, "err", alertErr)
			}
		}
		run.enter(domain.PhaseCompleted, run.result.TxID, tipErr)
		return tipErr
	}

	run.result.Recorded = true
	run.result.Record = rec
	run.enter(domain.PhaseCompleted, run.result.TxID, nil)
	return nil
}

func (o *TipOrchestrator) fail(run *tipRun, err *domain.TipError) error {
	run.enter(domain.PhaseFailed, err.TxID, err)
	return err
}

func (o *TipOrchestrator) tokenLabel(req domain.TipRequest) string {
	if t, ok := o.tokens.Lookup(req.Token, req.ChainID); ok {
		return t.Symbol
	}
	return "unknown"
}

func (o *TipOrchestrator) invalidate(in *domain.TipIntent) {
	if o.invalidator == nil {
		return
	}
	o.invalidator.InvalidateTip(in.Sender, in.Receiver)
}

// failure classifies a gateway error. Wallet refusals are UserRejected, every
// other chain-side problem is TransactionFailed.
func failure(err error, phase domain.Phase, what string) *domain.TipError {
	if errors.Is(err, domain.ErrUserRejected) {
		return domain.NewTipError(domain.ErrUserRejected, phase, what).WithCause(err)
	}
	reason := what
	var revert *blockchain.RevertError
	if errors.As(err, &revert) && revert.Reason != "" {
		reason = what + ": " + revert.Reason
	}
	return domain.NewTipError(domain.ErrTransactionFailed, phase, reason).WithCause(err)
}
