package grpc

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type TipReader interface {
	TipsBySender(ctx context.Context, address string) ([]*domain.TipRecord, error)
	TipsByReceiver(ctx context.Context, address string) ([]*domain.TipRecord, error)
	TopTippers(ctx context.Context, receiver string, n int) []domain.TipperEntry
	GlobalLeaderboard(ctx context.Context, n int) []domain.TipperEntry
}

type ReceiverResolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

type TipsHandler struct {
	reads    TipReader
	resolver ReceiverResolver
	limit    int
	logger   *slog.Logger
}

func NewTipsHandler(reads TipReader, resolver ReceiverResolver, logger *slog.Logger) *TipsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TipsHandler{reads: reads, resolver: resolver, limit: defaultLimit, logger: logger}
}

// WithDefaultLimit sets the ranking size used when a request has no limit.
func (h *TipsHandler) WithDefaultLimit(n int) *TipsHandler {
	if n > 0 {
		h.limit = min(n, maxLimit)
	}
	return h
}

// Register adds the tip service and a health service reporting it as serving.
func Register(s *grpc.Server, h *TipsHandler) *health.Server {
	RegisterTipJarServer(s, h)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return hs
}

func (h *TipsHandler) TopTippers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	receiver, err := h.address(ctx, req, "receiver")
	if err != nil {
		return nil, err
	}
	limit := h.limitOf(req)
	return toStruct(map[string]interface{}{
		"receiver": receiver,
		"tippers":  h.reads.TopTippers(ctx, receiver, limit),
		"limit":    limit,
	})
}

func (h *TipsHandler) GlobalLeaderboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := h.limitOf(req)
	return toStruct(map[string]interface{}{
		"leaderboard": h.reads.GlobalLeaderboard(ctx, limit),
		"limit":       limit,
	})
}

func (h *TipsHandler) TipsBySender(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.history(ctx, req, h.reads.TipsBySender)
}

func (h *TipsHandler) TipsByReceiver(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.history(ctx, req, h.reads.TipsByReceiver)
}

func (h *TipsHandler) history(ctx context.Context, req *structpb.Struct, load func(context.Context, string) ([]*domain.TipRecord, error)) (*structpb.Struct, error) {
	address, err := h.address(ctx, req, "address")
	if err != nil {
		return nil, err
	}
	tips, err := load(ctx, address)
	if err != nil {
		h.logger.Error("loading tips", "address", address, "err", err)
		return nil, status.Error(codes.Unavailable, "ledger unavailable")
	}
	return toStruct(map[string]interface{}{
		"address": address,
		"tips":    tips,
		"total":   len(tips),
	})
}

func (h *TipsHandler) address(ctx context.Context, req *structpb.Struct, field string) (string, error) {
	raw := req.GetFields()[field].GetStringValue()
	if raw == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	addr, err := h.resolver.Resolve(ctx, raw)
	if err != nil {
		if errors.Is(err, domain.ErrReceiverNotFound) {
			return "", status.Error(codes.NotFound, err.Error())
		}
		return "", status.Error(codes.Internal, err.Error())
	}
	return addr, nil
}

func (h *TipsHandler) limitOf(req *structpb.Struct) int {
	v, ok := req.GetFields()["limit"]
	if !ok {
		return h.limit
	}
	limit := int(v.GetNumberValue())
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// toStruct goes through JSON so responses match the HTTP API field for field.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(raw); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
