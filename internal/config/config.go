package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	NativeModeDirect   = "direct"
	NativeModeContract = "contract"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type (
	Config struct {
		App        `yaml:"app" env-prefix:"APP_"`
		GRPC       `yaml:"grpc" env-prefix:"GRPC_"`
		HTTP       `yaml:"http" env-prefix:"HTTP_"`
		Database   `yaml:"database" env-prefix:"DATABASE_"`
		PostgreSQL `yaml:"postgresql" env-prefix:"POSTGRESQL_"`
		Log        `yaml:"log" env-prefix:"LOG_"`
		Price      `yaml:"price" env-prefix:"PRICE_"`
		Wallets    `yaml:"wallets" env-prefix:"WALLETS_"`
		Auth       `yaml:"auth" env-prefix:"AUTH_"`
		Tips       `yaml:"tips" env-prefix:"TIPS_"`
		ENS        `yaml:"ens" env-prefix:"ENS_"`
		Telegram   `yaml:"telegram" env-prefix:"TELEGRAM_"`
		Flipt      `yaml:"flipt" env-prefix:"FLIPT_"`

		Chains   []Chain           `yaml:"chains"`
		Tokens   []Token           `yaml:"tokens"`
		Creators map[string]string `yaml:"creators"`
	}

	App struct {
		Name    string `yaml:"name" env:"NAME" env-default:"tipjar"`
		Version string `yaml:"version" env:"VERSION" env-default:"dev"`
	}

	GRPC struct {
		Port             string `yaml:"port" env:"PORT" env-default:":9090"`
		EnableReflection bool   `yaml:"enable_reflection" env:"ENABLE_REFLECTION"`
	}

	HTTP struct {
		Port            string        `yaml:"port" env:"PORT" env-default:":8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" env-default:"15s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	}

	Database struct {
		Driver     string `yaml:"driver" env:"DRIVER" env-default:"sqlite"`
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"tipjar.db"`
	}

	PostgreSQL struct {
		Host     string `yaml:"host" env:"HOST"`
		Port     string `yaml:"port" env:"PORT"`
		User     string `yaml:"user" env:"USER"`
		Password string `yaml:"password" env:"PASSWORD"`
		DBName   string `yaml:"dbname" env:"DBNAME"`
		SSLMode  string `yaml:"sslmode" env:"SSLMODE" env-default:"disable"`
	}

	Log struct {
		Level string `yaml:"level" env:"LEVEL" env-default:"info"`
	}

	Price struct {
		BaseURL string        `yaml:"base_url" env:"BASE_URL" env-default:"https://api.coingecko.com/api/v3"`
		APIKey  string        `yaml:"api_key" env:"API_KEY"`
		TTL     time.Duration `yaml:"ttl" env:"TTL" env-default:"5m"`
		Timeout time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"10s"`
	}

	// Wallets holds the hex private keys the server may sign with. The sender
	// of a tip must be one of these addresses.
	Wallets struct {
		Keys []string `yaml:"keys" env:"KEYS" env-separator:","`
	}

	// Auth identifies the sender of HTTP tips. Without it the sender is taken
	// from the request body, so configured wallet keys would be spendable by
	// anyone reaching the port unless AllowUnauthenticatedSigning is set.
	Auth struct {
		Enabled                     bool     `yaml:"enabled" env:"ENABLED"`
		AllowUnauthenticatedSigning bool     `yaml:"allow_unauthenticated_signing" env:"ALLOW_UNAUTHENTICATED_SIGNING"`
		HMACSecret                  string   `yaml:"hmac_secret" env:"HMAC_SECRET"`
		JWKSURLs                    []string `yaml:"jwks_urls" env:"JWKS_URLS" env-separator:","`
		Issuer                      string   `yaml:"issuer" env:"ISSUER"`
		Audience                    string   `yaml:"audience" env:"AUDIENCE"`
	}

	Tips struct {
		MaxMessageLength int           `yaml:"max_message_length" env:"MAX_MESSAGE_LENGTH" env-default:"280"`
		CacheTTL         time.Duration `yaml:"cache_ttl" env:"CACHE_TTL" env-default:"30s"`
		LeaderboardSize  int           `yaml:"leaderboard_size" env:"LEADERBOARD_SIZE" env-default:"10"`
	}

	ENS struct {
		RPCURL   string `yaml:"rpc_url" env:"RPC_URL"`
		Registry string `yaml:"registry" env:"REGISTRY" env-default:"0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"`
	}

	Telegram struct {
		BotToken string `yaml:"bot_token" env:"BOT_TOKEN"`
		ChatID   int64  `yaml:"chat_id" env:"CHAT_ID"`
	}

	Flipt struct {
		URL            string        `yaml:"url" env:"URL"`
		Namespace      string        `yaml:"namespace" env:"NAMESPACE" env-default:"default"`
		UpdateInterval time.Duration `yaml:"update_interval" env:"UPDATE_INTERVAL" env-default:"30s"`
	}

	Chain struct {
		ID                  int64         `yaml:"id"`
		Name                string        `yaml:"name"`
		RPCURL              string        `yaml:"rpc_url"`
		TipContract         string        `yaml:"tip_contract"`
		NativeMode          string        `yaml:"native_mode"`
		PollInterval        time.Duration `yaml:"poll_interval"`
		ConfirmationTimeout time.Duration `yaml:"confirmation_timeout"`
	}

	Token struct {
		Symbol      string  `yaml:"symbol"`
		Name        string  `yaml:"name"`
		Address     string  `yaml:"address"`
		Decimals    int32   `yaml:"decimals"`
		ChainID     int64   `yaml:"chain_id"`
		CoinGeckoID string  `yaml:"coingecko_id"`
		USDPeg      float64 `yaml:"usd_peg"`
	}
)

var (
	instance *Config
	once     sync.Once
	onceErr  error
)

// GetConfig reads config once from file and environment variables.
func GetConfig(path string) (*Config, error) {
	once.Do(func() {
		instance, onceErr = Load(path)
	})
	if onceErr != nil {
		return nil, onceErr
	}
	return instance, nil
}

// Load reads and validates a config file without touching the singleton.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env")
	}

	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, errors.Wrap(err, "config error")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	for i := range c.Chains {
		ch := &c.Chains[i]
		if ch.NativeMode == "" {
			ch.NativeMode = NativeModeContract
		}
		if ch.PollInterval <= 0 {
			ch.PollInterval = 2 * time.Second
		}
		if ch.ConfirmationTimeout <= 0 {
			ch.ConfirmationTimeout = 3 * time.Minute
		}
	}
	if c.Creators == nil {
		c.Creators = map[string]string{}
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	chains := make(map[int64]bool, len(c.Chains))
	for _, ch := range c.Chains {
		if ch.ID <= 0 {
			return errors.Errorf("chain %q: id must be positive", ch.Name)
		}
		if chains[ch.ID] {
			return errors.Errorf("chain %d configured twice", ch.ID)
		}
		chains[ch.ID] = true
		if ch.NativeMode != NativeModeDirect && ch.NativeMode != NativeModeContract {
			return errors.Errorf("chain %d: unknown native mode %q", ch.ID, ch.NativeMode)
		}
	}

	for _, t := range c.Tokens {
		if strings.TrimSpace(t.Symbol) == "" {
			return errors.New("token without symbol")
		}
		if t.Decimals < 0 || t.Decimals > 36 {
			return errors.Errorf("token %s: decimals out of range", t.Symbol)
		}
		if !chains[t.ChainID] {
			return errors.Errorf("token %s: chain %d is not configured", t.Symbol, t.ChainID)
		}
	}

	if c.Tips.MaxMessageLength <= 0 {
		return errors.New("tips.max_message_length must be positive")
	}
	if c.Auth.Enabled && c.Auth.HMACSecret == "" && len(c.Auth.JWKSURLs) == 0 {
		return errors.New("auth enabled without hmac_secret or jwks_urls")
	}
	if c.Wallets.HasKeys() && !c.Auth.Enabled && !c.Auth.AllowUnauthenticatedSigning {
		return errors.New("wallets.keys requires auth.enabled (or auth.allow_unauthenticated_signing)")
	}
	if c.Tips.LeaderboardSize <= 0 {
		return errors.New("tips.leaderboard_size must be positive")
	}
	return nil
}

// HasKeys reports whether any non-blank signing key is configured.
func (w Wallets) HasKeys() bool {
	for _, k := range w.Keys {
		if strings.TrimSpace(k) != "" {
			return true
		}
	}
	return false
}

// DSN builds the postgres connection string.
func (p PostgreSQL) DSN() string {
	return "host=" + p.Host +
		" user=" + p.User +
		" password=" + p.Password +
		" dbname=" + p.DBName +
		" port=" + p.Port +
		" sslmode=" + p.SSLMode
}
