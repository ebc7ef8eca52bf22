// Package cli defines the diversemol command tree: descriptor tables,
// fingerprint matrices, and similarity search over SMILES or SDF input.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appfeature "github.com/turtacn/DiverseMol/internal/application/feature"
	"github.com/turtacn/DiverseMol/internal/config"
	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/internal/infrastructure/cache"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/DiverseMol/internal/infrastructure/padel"
	"github.com/turtacn/DiverseMol/internal/infrastructure/search/milvus"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds global flags.
type rootOptions struct {
	configPath string
	logLevel   string
}

// cliContext carries the initialised dependencies through the command tree.
type cliContext struct {
	cfg     *config.Config
	logger  logging.Logger
	service *appfeature.Service
	mtr     *metrics.FeatureMetrics
	cleanup []func()
}

type cliContextKey struct{}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "diversemol",
		Short:   "Molecular descriptor and fingerprint feature generation",
		Long:    "DiverseMol computes numeric molecular descriptors and bit-vector\nfingerprints for molecule collections, producing tabular feature matrices\nfor diversity selection and similarity search pipelines.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initContext(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cc := getContext(cmd); cc != nil {
				for _, fn := range cc.cleanup {
					fn()
				}
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config file (default: environment only)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	cmd.AddCommand(newDescriptorsCommand())
	cmd.AddCommand(newFingerprintsCommand())
	cmd.AddCommand(newSearchCommand())
	return cmd
}

func initContext(cmd *cobra.Command, opts *rootOptions) error {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	cc := &cliContext{cfg: cfg, logger: logger}

	if cfg.Metrics.Enabled {
		cc.mtr = metrics.NewFeatureMetrics(cfg.Metrics.Namespace)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", cc.mtr.Handler())
			if srvErr := http.ListenAndServe(cfg.Metrics.Listen, mux); srvErr != nil {
				logger.Warn("metrics endpoint stopped", logging.Err(srvErr))
			}
		}()
	}

	var runner appfeature.PadelRunner
	if cfg.Padel.Executable != "" {
		r, padelErr := padel.NewRunner(cfg.Padel, logger)
		if padelErr != nil {
			return padelErr
		}
		if cc.mtr != nil {
			r.SetObserver(func(outcome string, elapsed time.Duration) {
				cc.mtr.PadelRunsTotal.WithLabelValues(outcome).Inc()
				cc.mtr.PadelRunDuration.Observe(elapsed.Seconds())
			})
		}
		runner = r
	}

	var rowCache appfeature.RowCache
	if cfg.Cache.Enabled {
		c, cacheErr := cache.NewDescriptorCache(cmd.Context(), cfg.Cache.Config, logger)
		if cacheErr != nil {
			return cacheErr
		}
		if cc.mtr != nil {
			c.Hit = cc.mtr.CacheHitsTotal.Inc
			c.Miss = cc.mtr.CacheMissesTotal.Inc
		}
		rowCache = c
		cc.cleanup = append(cc.cleanup, func() { c.Close() })
	}

	var store appfeature.VectorStore
	if cfg.Milvus.Enabled {
		s, milvusErr := milvus.NewFingerprintStore(cmd.Context(), cfg.Milvus.Config, logger)
		if milvusErr != nil {
			return milvusErr
		}
		store = s
		cc.cleanup = append(cc.cleanup, func() { s.Close() })
	}

	cc.service = appfeature.NewService(runner, rowCache, store, cc.mtr, logger)
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cc))
	return nil
}

func getContext(cmd *cobra.Command) *cliContext {
	cc, _ := cmd.Context().Value(cliContextKey{}).(*cliContext)
	return cc
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadMolecules reads molecules from path: SDF when the name ends in .sdf or
// .sd, otherwise one SMILES per line with an optional whitespace-separated
// name.  "-" reads from stdin as SMILES lines.  A non-nil mtr counts parsed
// molecules and parse failures per input format.
func loadMolecules(mtr *metrics.FeatureMetrics, path string) ([]*chem.Molecule, error) {
	if path == "-" {
		return readSMILESLines(mtr, os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".sdf") || strings.HasSuffix(lower, ".sd") {
		mols, err := chem.ReadSDF(f)
		if err != nil {
			if mtr != nil {
				mtr.ParseFailuresTotal.WithLabelValues("sdf").Inc()
			}
			return nil, err
		}
		if mtr != nil {
			mtr.MoleculesParsedTotal.WithLabelValues("sdf").Add(float64(len(mols)))
		}
		return mols, nil
	}
	return readSMILESLines(mtr, f)
}

func readSMILESLines(mtr *metrics.FeatureMetrics, r io.Reader) ([]*chem.Molecule, error) {
	var mols []*chem.Molecule
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		m, err := chem.ParseSMILES(fields[0])
		if err != nil {
			if mtr != nil {
				mtr.ParseFailuresTotal.WithLabelValues("smiles").Inc()
			}
			return nil, err
		}
		if len(fields) > 1 {
			m.Name = fields[1]
		}
		mols = append(mols, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if mtr != nil {
		mtr.MoleculesParsedTotal.WithLabelValues("smiles").Add(float64(len(mols)))
	}
	return mols, nil
}

// openOutput returns the writer for --output plus a close function that is a
// no-op for stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
