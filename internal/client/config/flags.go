package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/zkvault/internal/flagx"
)

// parseFlags populates cfg from the flags it knows about in args; other
// arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-r", "-p", "-x", "-u", "-s", "-t", "-d", "-w", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.RPCEndpoint, "r", cfg.RPCEndpoint, "solana rpc endpoint")
	fs.StringVar(&cfg.ProgramID, "p", cfg.ProgramID, "private-state program id")
	fs.StringVar(&cfg.ComputeProgramID, "x", cfg.ComputeProgramID, "confidential-compute program id")
	fs.StringVar(&cfg.ProvingServiceURL, "u", cfg.ProvingServiceURL, "proving service url")
	fs.StringVar(&cfg.CoordinatorSecret, "s", cfg.CoordinatorSecret, "coordinator token secret")
	timeout := fs.Int("t", int(cfg.CoordinatorTimeout.Seconds()), "coordinator timeout (in seconds)")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "sqlite job store path")
	fs.StringVar(&cfg.WalletPath, "w", cfg.WalletPath, "wallet keypair file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.CoordinatorTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
