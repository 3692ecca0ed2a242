package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/zkvault/internal/common"
)

// Config holds the recognized SDK options.
//
// Fields:
//   - RPCEndpoint: Solana JSON-RPC endpoint. Required.
//   - ProgramID: private-state program address; enables state instructions.
//   - ComputeProgramID: confidential-compute program address; enables job instructions.
//   - ProvingServiceURL: coordinator base URL; empty means the in-process mock path.
//   - CoordinatorSecret: HMAC secret for coordinator bearer tokens; empty disables auth.
//   - CoordinatorTimeout: per-request HTTP timeout; zero means no timeout.
//   - StorePath: SQLite file for the mock job store; empty keeps jobs in memory.
//   - WalletPath: solana-keygen keypair file used by the CLI as its wallet.
//   - LogLevel: slog level name.
//
// The SDK itself never reads WalletPath; the wallet adapter is a capability
// handed to the SDK client at construction time.
type Config struct {
	RPCEndpoint        string
	ProgramID          string
	ComputeProgramID   string
	ProvingServiceURL  string
	CoordinatorSecret  string
	CoordinatorTimeout time.Duration
	StorePath          string
	WalletPath         string
	LogLevel           string
}

// LoadDefaults populates c with development defaults (a local validator).
func (c *Config) LoadDefaults() {
	c.RPCEndpoint = "http://127.0.0.1:8899"
	c.LogLevel = "info"
}

// Validate reports ErrConfig when a required option is missing or a URL
// cannot be parsed.
func (c *Config) Validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("%w: rpc endpoint is required", common.ErrConfig)
	}
	if err := checkURL(c.RPCEndpoint); err != nil {
		return fmt.Errorf("%w: rpc endpoint: %v", common.ErrConfig, err)
	}
	if c.ProvingServiceURL != "" {
		if err := checkURL(c.ProvingServiceURL); err != nil {
			return fmt.Errorf("%w: proving service url: %v", common.ErrConfig, err)
		}
	}
	if c.CoordinatorTimeout < 0 {
		return fmt.Errorf("%w: negative coordinator timeout", common.ErrConfig)
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// in args, then flags in args. Later sources take precedence. The result is
// validated.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfig, err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
