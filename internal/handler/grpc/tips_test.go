package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/16navigabraham/Tipjar/internal/domain"
	"github.com/16navigabraham/Tipjar/internal/service"
)

const (
	alice   = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	creator = "0x3525a342340576D4229415494848316239B27f12"
)

type fakeReader struct {
	tips    []*domain.TipRecord
	tipsErr error
	top     []domain.TipperEntry
	gotN    int
}

func (f *fakeReader) TipsBySender(context.Context, string) ([]*domain.TipRecord, error) {
	return f.tips, f.tipsErr
}

func (f *fakeReader) TipsByReceiver(context.Context, string) ([]*domain.TipRecord, error) {
	return f.tips, f.tipsErr
}

func (f *fakeReader) TopTippers(_ context.Context, _ string, n int) []domain.TipperEntry {
	f.gotN = n
	return f.top
}

func (f *fakeReader) GlobalLeaderboard(_ context.Context, n int) []domain.TipperEntry {
	f.gotN = n
	return f.top
}

func newHandler(reads TipReader) *TipsHandler {
	return NewTipsHandler(reads, service.NewResolver(nil, map[string]string{"creator": creator}), nil)
}

func startServer(t *testing.T, reads TipReader) *grpc.ClientConn {
	t.Helper()
	return serve(t, newHandler(reads))
}

func serve(t *testing.T, h *TipsHandler) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	Register(srv, h)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func request(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestTopTippers(t *testing.T) {
	reads := &fakeReader{top: []domain.TipperEntry{
		{Sender: alice, Total: decimal.RequireFromString("2.5"), TipCount: 3},
	}}
	client := NewTipJarClient(startServer(t, reads))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := client.TopTippers(ctx, request(t, map[string]interface{}{"receiver": "@creator", "limit": 3}))
	require.NoError(t, err)

	assert.Equal(t, 3, reads.gotN)
	assert.Equal(t, creator, resp.Fields["receiver"].GetStringValue())
	tippers := resp.Fields["tippers"].GetListValue().GetValues()
	require.Len(t, tippers, 1)
	row := tippers[0].GetStructValue().GetFields()
	assert.Equal(t, alice, row["sender"].GetStringValue())
	assert.Equal(t, "2.5", row["total"].GetStringValue())
	assert.Equal(t, float64(3), row["tip_count"].GetNumberValue())
}

func TestTopTippers_Errors(t *testing.T) {
	client := NewTipJarClient(startServer(t, &fakeReader{}))
	ctx := context.Background()

	_, err := client.TopTippers(ctx, request(t, map[string]interface{}{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.TopTippers(ctx, request(t, map[string]interface{}{"receiver": "nobody"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGlobalLeaderboard_Limits(t *testing.T) {
	reads := &fakeReader{}
	client := NewTipJarClient(startServer(t, reads))
	ctx := context.Background()

	resp, err := client.GlobalLeaderboard(ctx, request(t, map[string]interface{}{}))
	require.NoError(t, err)
	assert.Equal(t, defaultLimit, reads.gotN)
	assert.Equal(t, float64(defaultLimit), resp.Fields["limit"].GetNumberValue())

	_, err = client.GlobalLeaderboard(ctx, request(t, map[string]interface{}{"limit": 1000}))
	require.NoError(t, err)
	assert.Equal(t, maxLimit, reads.gotN)
}

func TestGlobalLeaderboard_ConfiguredDefault(t *testing.T) {
	reads := &fakeReader{}
	client := NewTipJarClient(serve(t, newHandler(reads).WithDefaultLimit(3)))

	resp, err := client.GlobalLeaderboard(context.Background(), request(t, map[string]interface{}{}))
	require.NoError(t, err)
	assert.Equal(t, 3, reads.gotN)
	assert.Equal(t, float64(3), resp.Fields["limit"].GetNumberValue())
}

func TestTipsBySender(t *testing.T) {
	reads := &fakeReader{tips: []*domain.TipRecord{
		{ID: "1", Sender: alice, Receiver: creator, Token: "USDC", Amount: "5", TxID: "0xaa", ChainID: 8453},
	}}
	client := NewTipJarClient(startServer(t, reads))

	resp, err := client.TipsBySender(context.Background(), request(t, map[string]interface{}{"address": alice}))
	require.NoError(t, err)
	assert.Equal(t, float64(1), resp.Fields["total"].GetNumberValue())
	tip := resp.Fields["tips"].GetListValue().GetValues()[0].GetStructValue().GetFields()
	assert.Equal(t, "USDC", tip["token"].GetStringValue())
	assert.Equal(t, "0xaa", tip["tx_id"].GetStringValue())
}

func TestTipsByReceiver_LedgerDown(t *testing.T) {
	client := NewTipJarClient(startServer(t, &fakeReader{tipsErr: errors.New("db down")}))

	_, err := client.TipsByReceiver(context.Background(), request(t, map[string]interface{}{"address": creator}))
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestHealth(t *testing.T) {
	conn := startServer(t, &fakeReader{})

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
