package sdk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/zkvault/internal/chain"
	"github.com/dmitrijs2005/zkvault/internal/client/config"
	"github.com/dmitrijs2005/zkvault/internal/client/coordinator"
	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/client/repositories/jobs"
	"github.com/dmitrijs2005/zkvault/internal/client/services"
	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
	"github.com/dmitrijs2005/zkvault/internal/filex"
	"github.com/dmitrijs2005/zkvault/internal/logging"
	"github.com/gagliardetto/solana-go"
)

type (
	Config        = config.Config
	Schema        = models.Schema
	Field         = models.Field
	FieldType     = models.FieldType
	StateHandle   = models.StateHandle
	Proof         = models.Proof
	JobDefinition = models.JobDefinition
	JobRecord     = models.JobRecord
	JobStatus     = models.JobStatus
	Envelope      = cryptox.Envelope
	KeyMaterial   = cryptox.KeyMaterial
	WalletAdapter = chain.WalletAdapter
	Connection    = chain.Connection
	Logger        = logging.Logger

	StateService        = services.StateService
	JobService          = services.JobService
	CreateStateParams   = services.CreateStateParams
	UpdateStateParams   = services.UpdateStateParams
	GenerateProofParams = services.GenerateProofParams
	SubmitProofParams   = services.SubmitProofParams
	StateResult         = services.StateResult
	SubmitJobParams     = services.SubmitJobParams
	SubmitJobResult     = services.SubmitJobResult
	NotifyHook          = services.NotifyHook
)

var (
	ErrConfig   = common.ErrConfig
	ErrSchema   = common.ErrSchema
	ErrCrypto   = common.ErrCrypto
	ErrNotFound = common.ErrNotFound
	ErrRPC      = common.ErrRPC
)

const (
	FieldTypeU64     = models.FieldTypeU64
	FieldTypeString  = models.FieldTypeString
	FieldTypeBytes   = models.FieldTypeBytes
	FieldTypeBoolean = models.FieldTypeBoolean

	JobStatusPending   = models.JobStatusPending
	JobStatusRunning   = models.JobStatusRunning
	JobStatusCompleted = models.JobStatusCompleted
	JobStatusFailed    = models.JobStatusFailed
)

// Seed, Key and Passphrase build tagged key material.
func Seed(b []byte) KeyMaterial { return cryptox.Seed(b) }

func Key(b []byte) KeyMaterial { return cryptox.Key(b) }

func Passphrase(password, salt []byte) KeyMaterial { return cryptox.Passphrase(password, salt) }

// Client is one SDK instance. It is safe for concurrent use.
type Client struct {
	cfg      Config
	logger   logging.Logger
	wallet   chain.WalletAdapter
	registry *services.Registry
	repo     jobs.Repository
	db       *sql.DB
	conns    *chain.ConnectionCache
	coord    *coordinator.Client
	state    services.StateService
	jobs     services.JobService
}

type options struct {
	wallet     chain.WalletAdapter
	logger     logging.Logger
	conn       chain.Connection
	notifyHook services.NotifyHook
}

// Option customizes New.
type Option func(*options)

// WithWallet sets the default wallet adapter returned by Client.Wallet.
func WithWallet(w WalletAdapter) Option {
	return func(o *options) { o.wallet = w }
}

func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConnection replaces the RPC connection built from cfg.RPCEndpoint.
func WithConnection(c Connection) Option {
	return func(o *options) { o.conn = c }
}

// WithNotifyHook observes coordinator notifications made by SubmitJob.
func WithNotifyHook(h NotifyHook) Option {
	return func(o *options) { o.notifyHook = h }
}

// New validates cfg and assembles a Client. With cfg.StorePath set the mock
// job store is a SQLite file (migrated on open), otherwise it lives in memory.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", common.ErrConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	programID, err := chain.ParseProgramID(cfg.ProgramID)
	if err != nil {
		return nil, err
	}
	computeProgramID, err := chain.ParseProgramID(cfg.ComputeProgramID)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:      *cfg,
		logger:   o.logger,
		wallet:   o.wallet,
		registry: services.NewRegistry(),
		conns:    chain.NewConnectionCache(),
	}

	conn := o.conn
	if conn == nil {
		conn = c.conns.Get(cfg.RPCEndpoint)
	}

	if cfg.StorePath != "" {
		path, err := filex.EnsureParentDir(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("%w: store path: %v", common.ErrConfig, err)
		}
		db, err := jobs.InitDatabase(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open job store: %w", err)
		}
		c.db = db
		c.repo = jobs.NewSQLiteRepository(db)
	} else {
		c.repo = jobs.NewMemoryRepository()
	}

	var (
		proofCoord services.ProofCoordinator
		jobCoord   services.JobCoordinator
	)
	if cfg.ProvingServiceURL != "" {
		copts := []coordinator.Option{coordinator.WithLogger(o.logger)}
		if cfg.CoordinatorSecret != "" {
			copts = append(copts, coordinator.WithTokenSource(
				coordinator.NewTokenSource([]byte(cfg.CoordinatorSecret), coordinator.DefaultTokenValidity)))
		}
		c.coord = coordinator.New(cfg.ProvingServiceURL, cfg.CoordinatorTimeout, copts...)
		proofCoord, jobCoord = c.coord, c.coord
	}

	var jobOpts []services.JobServiceOption
	if o.notifyHook != nil {
		jobOpts = append(jobOpts, services.WithNotifyHook(o.notifyHook))
	}

	c.state = services.NewStateService(c.registry, conn, programID, proofCoord, o.logger)
	c.jobs = services.NewJobService(c.registry, c.repo, conn, computeProgramID, jobCoord, o.logger, jobOpts...)

	o.logger.Debug(ctx, "sdk client ready",
		"rpc", cfg.RPCEndpoint,
		"state_program", !programID.IsZero(),
		"compute_program", !computeProgramID.IsZero(),
		"coordinator", cfg.ProvingServiceURL != "",
		"persistent_store", cfg.StorePath != "")

	return c, nil
}

func (c *Client) State() StateService { return c.state }

func (c *Client) Jobs() JobService { return c.jobs }

// Wallet returns the adapter set with WithWallet, or nil.
func (c *Client) Wallet() WalletAdapter { return c.wallet }

// Config returns a copy of the configuration the client was built with.
func (c *Client) Config() Config { return c.cfg }

// Close drops every registration, clears an in-memory job store and
// releases the SQLite handle and RPC connections. A SQLite store keeps its
// rows on disk. Close is idempotent.
func (c *Client) Close() error {
	ctx := context.Background()
	c.registry.Reset()

	var errs []error
	if c.db == nil {
		if err := c.repo.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	} else {
		if err := c.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.conns.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadWallet reads a Solana keypair file (the JSON byte array written by
// solana-keygen) and returns a wallet adapter backed by it.
func LoadWallet(path string) (WalletAdapter, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: wallet file %s: %v", common.ErrConfig, path, err)
	}
	return chain.NewKeypairWallet(key), nil
}
