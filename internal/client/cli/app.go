package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/zkvault/internal/chain"
	"github.com/dmitrijs2005/zkvault/internal/client/config"
	"github.com/dmitrijs2005/zkvault/internal/client/services"
	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
	"github.com/dmitrijs2005/zkvault/internal/logging"
	"github.com/dmitrijs2005/zkvault/pkg/sdk"
)

type Mode string

const (
	ModeLocal       Mode = "local"
	ModeCoordinator Mode = "coordinator"
)

type App struct {
	closer io.Closer
	state  services.StateService
	jobs   services.JobService
	wallet chain.WalletAdapter
	logger logging.Logger

	owner string
	// key is the resolved session key; nil while locked.
	key []byte
	// envelopes keeps the latest envelope per state id for proof requests.
	envelopes map[string]*cryptox.Envelope

	Mode   Mode
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	var wallet sdk.WalletAdapter
	if cfg.WalletPath != "" {
		w, err := sdk.LoadWallet(cfg.WalletPath)
		if err != nil {
			return nil, err
		}
		wallet = w
	}

	client, err := sdk.New(ctx, cfg, sdk.WithWallet(wallet), sdk.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	a := &App{
		closer:    client,
		state:     client.State(),
		jobs:      client.Jobs(),
		wallet:    wallet,
		logger:    logger,
		envelopes: make(map[string]*cryptox.Envelope),
		Mode:      ModeLocal,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
	if cfg.ProvingServiceURL != "" {
		a.Mode = ModeCoordinator
	}
	if wallet != nil {
		a.owner = wallet.PublicKey().String()
	}
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		a.wipeKey()
		if err := a.closer.Close(); err != nil {
			a.logger.Error(ctx, "close sdk client", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isUnlocked() bool {
	return a.key != nil
}

func (a *App) wipeKey() {
	common.WipeByteArray(a.key)
	a.key = nil
}

// keyMaterial returns the session key or an error asking the user to unlock.
func (a *App) keyMaterial() (cryptox.KeyMaterial, error) {
	if !a.isUnlocked() {
		return cryptox.KeyMaterial{}, errLocked
	}
	return cryptox.Key(a.key), nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
