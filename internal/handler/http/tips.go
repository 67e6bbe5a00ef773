package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/16navigabraham/Tipjar/internal/domain"
	"github.com/16navigabraham/Tipjar/internal/service"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	maxBodyBytes = 16 << 10
)

type TipSender interface {
	SendTip(ctx context.Context, req domain.TipRequest, opts ...service.SendOption) (*domain.TipResult, error)
}

type TipReader interface {
	TipsBySender(ctx context.Context, address string) ([]*domain.TipRecord, error)
	TipsByReceiver(ctx context.Context, address string) ([]*domain.TipRecord, error)
	TopTippers(ctx context.Context, receiver string, n int) []domain.TipperEntry
	GlobalLeaderboard(ctx context.Context, n int) []domain.TipperEntry
	Profile(ctx context.Context, address string) domain.ProfileSummary
}

type ReceiverResolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

type TipsHTTPHandler struct {
	tips     TipSender
	reads    TipReader
	resolver ReceiverResolver
	tokens   *domain.TokenRegistry
	auth     *Authenticator
	limit    int
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewTipsHTTPHandler wires the JSON API. auth may be nil, in which case the
// sender is taken from the request body.
func NewTipsHTTPHandler(tips TipSender, reads TipReader, resolver ReceiverResolver, tokens *domain.TokenRegistry, auth *Authenticator, logger *slog.Logger) *TipsHTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TipsHTTPHandler{
		tips:     tips,
		reads:    reads,
		resolver: resolver,
		tokens:   tokens,
		auth:     auth,
		limit:    defaultLimit,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// WithDefaultLimit sets the ranking size used when a request has no limit.
func (h *TipsHTTPHandler) WithDefaultLimit(n int) *TipsHTTPHandler {
	if n > 0 {
		h.limit = min(n, maxLimit)
	}
	return h
}

func (h *TipsHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/v1/tips", h.authenticated(http.HandlerFunc(h.SendTip)))
	mux.HandleFunc("/api/v1/tips/ws", h.StreamTip)
	mux.HandleFunc("/api/v1/tips/sender", h.GetTipsBySender)
	mux.HandleFunc("/api/v1/tips/receiver", h.GetTipsByReceiver)
	mux.HandleFunc("/api/v1/creators/top-tippers", h.GetTopTippers)
	mux.HandleFunc("/api/v1/leaderboard", h.GetLeaderboard)
	mux.HandleFunc("/api/v1/profiles", h.GetProfile)
	mux.HandleFunc("/api/v1/tokens", h.GetTokens)
	mux.HandleFunc("/health", h.HealthCheck)
}

func (h *TipsHTTPHandler) authenticated(next http.Handler) http.Handler {
	if h.auth == nil {
		return next
	}
	return h.auth.Middleware(next)
}

type tipRequestBody struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Amount   string `json:"amount"`
	Token    string `json:"token"`
	ChainID  int64  `json:"chain_id"`
	Message  string `json:"message"`
}

type tipResponse struct {
	Result  *domain.TipResult `json:"result,omitempty"`
	Error   string            `json:"error,omitempty"`
	Kind    string            `json:"kind,omitempty"`
	Warning string            `json:"warning,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (h *TipsHTTPHandler) SendTip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body tipRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if sender, ok := SenderFromContext(r.Context()); ok {
		body.Sender = sender
	}

	status, resp := h.sendTip(r.Context(), body, nil)
	writeJSON(w, status, resp)
}

// sendTip resolves the receiver, runs the tip and maps the outcome to an HTTP status.
func (h *TipsHTTPHandler) sendTip(ctx context.Context, body tipRequestBody, onStatus service.StatusFunc) (int, tipResponse) {
	receiver, err := h.resolver.Resolve(ctx, body.Receiver)
	if err != nil {
		return errorStatus(err), tipResponse{Error: err.Error(), Kind: domain.KindName(err)}
	}

	var opts []service.SendOption
	if onStatus != nil {
		opts = append(opts, service.WithStatus(onStatus))
	}
	result, err := h.tips.SendTip(ctx, domain.TipRequest{
		Sender:   body.Sender,
		Receiver: receiver,
		Amount:   body.Amount,
		Token:    body.Token,
		ChainID:  body.ChainID,
		Message:  body.Message,
	}, opts...)

	resp := tipResponse{Result: result}
	if err == nil {
		return http.StatusOK, resp
	}
	resp.Error = err.Error()
	resp.Kind = domain.KindName(err)
	if errors.Is(err, domain.ErrLedgerWriteFailed) {
		resp.Warning = "tip was sent on chain but could not be recorded; it will be reconciled"
		h.logger.Error("tip not recorded", "tx", result.TxID, "err", err)
	}
	return errorStatus(err), resp
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotConnected):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrReceiverNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserRejected):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransactionFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrLedgerWriteFailed):
		return http.StatusAccepted
	default:
		return http.StatusInternalServerError
	}
}

func (h *TipsHTTPHandler) GetTipsBySender(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, h.reads.TipsBySender)
}

func (h *TipsHTTPHandler) GetTipsByReceiver(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, h.reads.TipsByReceiver)
}

func (h *TipsHTTPHandler) history(w http.ResponseWriter, r *http.Request, load func(context.Context, string) ([]*domain.TipRecord, error)) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		http.Error(w, "address parameter is required", http.StatusBadRequest)
		return
	}
	resolved, err := h.resolver.Resolve(r.Context(), address)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: domain.KindName(err)})
		return
	}

	tips, err := load(r.Context(), resolved)
	if err != nil {
		h.logger.Error("loading tips", "address", resolved, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "ledger unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": resolved,
		"tips":    tips,
		"total":   len(tips),
	})
}

func (h *TipsHTTPHandler) GetTopTippers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	receiver := r.URL.Query().Get("receiver")
	if receiver == "" {
		http.Error(w, "receiver parameter is required", http.StatusBadRequest)
		return
	}
	resolved, err := h.resolver.Resolve(r.Context(), receiver)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: domain.KindName(err)})
		return
	}

	limit := h.parseLimit(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"receiver": resolved,
		"tippers":  h.reads.TopTippers(r.Context(), resolved, limit),
		"limit":    limit,
	})
}

func (h *TipsHTTPHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := h.parseLimit(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard": h.reads.GlobalLeaderboard(r.Context(), limit),
		"limit":       limit,
	})
}

func (h *TipsHTTPHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		http.Error(w, "address parameter is required", http.StatusBadRequest)
		return
	}
	resolved, err := h.resolver.Resolve(r.Context(), address)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: domain.KindName(err)})
		return
	}

	writeJSON(w, http.StatusOK, h.reads.Profile(r.Context(), resolved))
}

func (h *TipsHTTPHandler) GetTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tokens := h.tokens.All()
	if chain := r.URL.Query().Get("chain_id"); chain != "" {
		id, err := strconv.ParseInt(chain, 10, 64)
		if err != nil {
			http.Error(w, "invalid chain_id", http.StatusBadRequest)
			return
		}
		tokens = h.tokens.ByChain(id)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tokens": tokens})
}

func (h *TipsHTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// parseLimit reads ?limit=, defaulting to the configured size and capping at
// 100. Zero and negative values are passed through and yield empty rankings.
func (h *TipsHTTPHandler) parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.limit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return h.limit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
