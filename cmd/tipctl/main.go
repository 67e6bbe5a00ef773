// Command tipctl sends a tip from a local wallet or reads rankings from a
// running tipjar server.
//
//	tipctl send -to @creator -amount 0.01 -token ETH -message "gm"
//	tipctl top -receiver @creator -n 5
//	tipctl leaderboard -n 10
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/16navigabraham/Tipjar/internal/app"
	"github.com/16navigabraham/Tipjar/internal/config"
	"github.com/16navigabraham/Tipjar/internal/domain"
	grpcHandler "github.com/16navigabraham/Tipjar/internal/handler/grpc"
	"github.com/16navigabraham/Tipjar/internal/infrastructure/blockchain"
	"github.com/16navigabraham/Tipjar/internal/service"
	"github.com/16navigabraham/Tipjar/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "send":
		err = runSend(ctx, os.Args[2:])
	case "top":
		err = runTop(ctx, os.Args[2:])
	case "leaderboard":
		err = runLeaderboard(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tipctl <send|top|leaderboard> [flags]")
}

func runSend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	configPath := fs.String("config", "config/config.yaml", "path to the config file")
	from := fs.String("from", "", "sender address (defaults to the first configured wallet)")
	to := fs.String("to", "", "receiver address, ENS name or @username")
	amount := fs.String("amount", "", "amount in token units, e.g. 0.01")
	token := fs.String("token", "ETH", "token symbol")
	chainID := fs.Int64("chain", 0, "chain id when the symbol exists on several chains")
	message := fs.String("message", "", "optional message")
	_ = fs.Parse(args)

	// tipctl signs only after a terminal confirmation and serves no port.
	if err := os.Setenv("AUTH_ALLOW_UNAUTHENTICATED_SIGNING", "true"); err != nil {
		return err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level)

	tipjar, err := app.New(ctx, cfg, blockchain.NewTerminalPrompter(os.Stdin, os.Stdout), prometheus.NewRegistry(), logger)
	if err != nil {
		return err
	}
	defer tipjar.Close(context.Background())

	sender := *from
	if sender == "" {
		addrs := tipjar.Wallets.Addresses()
		if len(addrs) == 0 {
			return errors.New("no wallet configured; set wallets.keys or WALLETS_KEYS")
		}
		sender = addrs[0].Hex()
	}

	receiver, err := tipjar.Resolver.Resolve(ctx, *to)
	if err != nil {
		return err
	}

	result, err := tipjar.Orchestrator.SendTip(ctx, domain.TipRequest{
		Sender:   sender,
		Receiver: receiver,
		Amount:   *amount,
		Token:    *token,
		ChainID:  *chainID,
		Message:  *message,
	}, service.WithStatus(func(st domain.Status) {
		line := fmt.Sprintf("-> %s", st.Phase)
		if st.TxID != "" {
			line += " tx=" + st.TxID
		}
		if st.Error != "" {
			line += " (" + st.Error + ")"
		}
		fmt.Println(line)
	}))
	if result != nil {
		printJSON(result)
	}
	return err
}

func runTop(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("top", flag.ExitOnError)
	addr := fs.String("server", "localhost:9090", "tipjar gRPC address")
	receiver := fs.String("receiver", "", "receiver address, ENS name or @username")
	n := fs.Int("n", 10, "number of tippers")
	_ = fs.Parse(args)

	return call(ctx, *addr, func(ctx context.Context, c *grpcHandler.TipJarClient) (*structpb.Struct, error) {
		req, err := structpb.NewStruct(map[string]interface{}{"receiver": *receiver, "limit": *n})
		if err != nil {
			return nil, err
		}
		return c.TopTippers(ctx, req)
	})
}

func runLeaderboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("leaderboard", flag.ExitOnError)
	addr := fs.String("server", "localhost:9090", "tipjar gRPC address")
	n := fs.Int("n", 10, "number of entries")
	_ = fs.Parse(args)

	return call(ctx, *addr, func(ctx context.Context, c *grpcHandler.TipJarClient) (*structpb.Struct, error) {
		req, err := structpb.NewStruct(map[string]interface{}{"limit": *n})
		if err != nil {
			return nil, err
		}
		return c.GlobalLeaderboard(ctx, req)
	})
}

func call(ctx context.Context, addr string, fn func(context.Context, *grpcHandler.TipJarClient) (*structpb.Struct, error)) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return errors.Wrap(err, "connecting to tipjar")
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	resp, err := fn(ctx, grpcHandler.NewTipJarClient(conn))
	if err != nil {
		return err
	}
	printJSON(resp.AsMap())
	return nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
