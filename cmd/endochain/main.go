package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/endochain/go-core/internal/assessment"
	"github.com/danielpatrickdp/endochain/go-core/internal/audit"
	"github.com/danielpatrickdp/endochain/go-core/internal/config"
	"github.com/danielpatrickdp/endochain/go-core/internal/glyph"
	"github.com/danielpatrickdp/endochain/go-core/internal/leiv"
	"github.com/danielpatrickdp/endochain/go-core/internal/logging"
	"github.com/danielpatrickdp/endochain/go-core/internal/stage"
)

// #region main
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// #endregion main

// #region root
// app carries global flags and the state built from them before any
// subcommand runs.
type app struct {
	configPath string
	dbPath     string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "endochain",
		Short: "Exact LEI-V scoring with a hash-chained audit log",
		Long: `endochain computes the LEI-V score of six radial electrode distances in
exact arithmetic, classifies it into a stage, and records every computation
in an append-only, hash-chained audit log.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "endochain.yaml", "path to YAML config (missing file uses defaults)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "audit database path (implies the sqlite backend)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAssessCmd(a),
		newVerifyCmd(a),
		newInspectCmd(a),
		newReplayCmd(a),
		newConstantsCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Audit.Backend = config.BackendSQLite
		cfg.Audit.DatabasePath = a.dbPath
	}
	logger, err := logging.NewLogger(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// #endregion root

// #region wiring
func (a *app) openBackend(ctx context.Context) (audit.Backend, error) {
	switch a.cfg.Audit.Backend {
	case config.BackendMemory:
		return audit.NewMemoryBackend(), nil
	default:
		b, err := audit.OpenSQLite(ctx, a.cfg.Audit.DatabasePath, a.logger)
		if err != nil {
			return nil, fmt.Errorf("open audit db %s: %w", a.cfg.Audit.DatabasePath, err)
		}
		return b, nil
	}
}

func (a *app) hasher() audit.Hasher {
	return audit.NewHMACHasher([]byte(a.cfg.Audit.Secret))
}

func (a *app) openChain(ctx context.Context) (*audit.Chain, audit.Backend, error) {
	backend, err := a.openBackend(ctx)
	if err != nil {
		return nil, nil, err
	}
	chain, err := audit.NewChain(ctx, backend, audit.WithHasher(a.hasher()), audit.WithLogger(a.logger))
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return chain, backend, nil
}

func (a *app) calculator() *leiv.Calculator {
	return leiv.NewCalculator(glyph.Default(), leiv.WithPrecision(a.cfg.Precision))
}

func (a *app) classifier() (*stage.Classifier, error) {
	th, err := a.cfg.StageThresholds()
	if err != nil {
		return nil, err
	}
	return stage.NewClassifier(th), nil
}

func (a *app) engine(chain *audit.Chain) (*assessment.Engine, error) {
	cl, err := a.classifier()
	if err != nil {
		return nil, err
	}
	return assessment.NewEngine(a.calculator(), cl, chain, a.logger), nil
}

// #endregion wiring
