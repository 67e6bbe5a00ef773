package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/16navigabraham/Tipjar/internal/config"
	"github.com/16navigabraham/Tipjar/internal/domain"
	"github.com/16navigabraham/Tipjar/internal/infrastructure/blockchain"
	"github.com/16navigabraham/Tipjar/internal/infrastructure/featureflags"
	"github.com/16navigabraham/Tipjar/internal/infrastructure/notify"
	"github.com/16navigabraham/Tipjar/internal/infrastructure/pricefeed"
	"github.com/16navigabraham/Tipjar/internal/infrastructure/storage/gormdb"
	"github.com/16navigabraham/Tipjar/internal/metrics"
	"github.com/16navigabraham/Tipjar/internal/service"
)

// App holds the wired tipping core shared by the server and the CLI.
type App struct {
	Tokens       *domain.TokenRegistry
	Ledger       *gormdb.TipRepository
	Prices       *service.PriceOracle
	Engine       *service.AggregationEngine
	Queries      *service.TipQueries
	Resolver     *service.Resolver
	Orchestrator *service.TipOrchestrator
	Wallets      *blockchain.Keyring

	db      *gorm.DB
	clients []*ethclient.Client
	flags   *featureflags.NativeMode
	logger  *slog.Logger
}

// New connects to the database, every configured chain and the optional
// ENS, Telegram and Flipt endpoints, then builds the services on top.
func New(ctx context.Context, cfg *config.Config, prompter blockchain.Prompter, reg prometheus.Registerer, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.Close(context.Background())
		}
	}()

	a.Tokens = domain.NewTokenRegistry(Tokens(cfg.Tokens))

	db, err := initDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.Ledger = gormdb.NewTipRepository(db)

	a.Wallets, err = blockchain.NewKeyringFromHex(cfg.Wallets.Keys, prompter)
	if err != nil {
		return nil, errors.Wrap(err, "loading wallets")
	}
	for _, addr := range a.Wallets.Addresses() {
		logger.Info("wallet loaded", "address", addr.Hex())
	}

	gateways, err := a.initGateways(ctx, cfg.Chains)
	if err != nil {
		return nil, err
	}

	tm := metrics.NewTips(reg)
	feed := pricefeed.NewCoinGeckoClient(cfg.Price.BaseURL, cfg.Price.APIKey, cfg.Price.Timeout)
	a.Prices = service.NewPriceOracle(feed, service.NewPriceCache(cfg.Price.TTL), a.Tokens.All(), tm, logger)
	a.Engine = service.NewAggregationEngine(a.Ledger, a.Prices, logger)
	a.Queries = service.NewTipQueries(a.Ledger, a.Engine, cfg.Tips.CacheTTL)

	ens, err := a.initENS(ctx, cfg.ENS)
	if err != nil {
		return nil, err
	}
	a.Resolver = service.NewResolver(ens, cfg.Creators)

	if cfg.Flipt.URL != "" {
		a.flags, err = featureflags.NewFliptNativeMode(ctx, cfg.Flipt.URL, cfg.Flipt.Namespace, cfg.Flipt.UpdateInterval, logger)
		if err != nil {
			return nil, err
		}
	}

	a.Orchestrator = service.NewTipOrchestrator(service.OrchestratorDeps{
		Tokens:            a.Tokens,
		Wallets:           a.Wallets,
		Gateways:          gateways,
		Ledger:            a.Ledger,
		Alerter:           initAlerter(cfg.Telegram, logger),
		Invalidator:       a.Queries,
		NativeMode:        a.flags,
		NativeViaContract: NativeDefaults(cfg.Chains),
		MaxMessageLength:  cfg.Tips.MaxMessageLength,
		Metrics:           tm,
		Logger:            logger,
	})

	ok = true
	return a, nil
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := gormdb.Dialector(cfg.Database, cfg.PostgreSQL)
	if err != nil {
		return nil, err
	}
	return gormdb.NewDB(dialector, nil)
}

func (a *App) initGateways(ctx context.Context, chains []config.Chain) ([]service.ChainGateway, error) {
	gateways := make([]service.ChainGateway, 0, len(chains))
	for _, ch := range chains {
		client, err := ethclient.DialContext(ctx, ch.RPCURL)
		if err != nil {
			return nil, errors.Wrapf(err, "dialing chain %d", ch.ID)
		}
		a.clients = append(a.clients, client)

		gw, err := blockchain.NewEVMGateway(ctx, client, blockchain.GatewayOptions{
			TipContract:         common.HexToAddress(ch.TipContract),
			PollInterval:        ch.PollInterval,
			ConfirmationTimeout: ch.ConfirmationTimeout,
			Logger:              a.logger.With("chain", ch.Name),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "chain %d", ch.ID)
		}
		if gw.ChainID() != ch.ID {
			return nil, errors.Errorf("chain %s: rpc reports chain id %d, configured %d", ch.Name, gw.ChainID(), ch.ID)
		}
		a.logger.Info("chain connected", "chain", ch.Name, "chain_id", ch.ID, "tip_contract", ch.TipContract)
		gateways = append(gateways, gw)
	}
	return gateways, nil
}

func (a *App) initENS(ctx context.Context, cfg config.ENS) (service.NameResolver, error) {
	if cfg.RPCURL == "" {
		return nil, nil
	}
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "dialing ens rpc")
	}
	a.clients = append(a.clients, client)
	return blockchain.NewENSResolver(client, common.HexToAddress(cfg.Registry)), nil
}

func initAlerter(cfg config.Telegram, logger *slog.Logger) service.Alerter {
	if cfg.BotToken == "" {
		return notify.LogAlerter{Logger: logger}
	}
	alerter, err := notify.NewTelegramAlerter(cfg.BotToken, cfg.ChatID, logger)
	if err != nil {
		logger.Warn("telegram unavailable, alerts go to the log", "err", err)
		return notify.LogAlerter{Logger: logger}
	}
	return alerter
}

// Close releases chain connections, the flag client and the database.
func (a *App) Close(ctx context.Context) {
	for _, c := range a.clients {
		c.Close()
	}
	if err := a.flags.Close(ctx); err != nil {
		a.logger.Warn("closing flipt client", "err", err)
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// Tokens converts the configured token list.
func Tokens(list []config.Token) []domain.Token {
	out := make([]domain.Token, 0, len(list))
	for _, t := range list {
		out = append(out, domain.Token{
			Symbol:      strings.ToUpper(strings.TrimSpace(t.Symbol)),
			Name:        t.Name,
			Address:     t.Address,
			Decimals:    t.Decimals,
			ChainID:     t.ChainID,
			CoinGeckoID: t.CoinGeckoID,
			USDPeg:      t.USDPeg,
		})
	}
	return out
}

// NativeDefaults reports, per chain, whether native tips go through the tip
// contract when no flag says otherwise.
func NativeDefaults(chains []config.Chain) map[int64]bool {
	out := make(map[int64]bool, len(chains))
	for _, ch := range chains {
		out[ch.ID] = ch.NativeMode == config.NativeModeContract && common.IsHexAddress(ch.TipContract)
	}
	return out
}
