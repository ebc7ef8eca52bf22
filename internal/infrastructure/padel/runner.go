// Package padel shells out to the external PaDEL-Descriptor tool.  Molecules
// are handed over through a transient SDF file which is removed again whether
// the run succeeds or fails.
package padel

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// tmpSDFName is the fixed name of the exchange file written into WorkDir.
const tmpSDFName = "padelpy_out_tmp.sdf"

// Config carries the external tool invocation parameters.
type Config struct {
	// Executable is the command to run, typically a wrapper script around
	// the PaDEL jar.
	Executable string `yaml:"executable" json:"executable" mapstructure:"executable"`

	// Args are extra arguments placed before the input and output paths.
	Args []string `yaml:"args" json:"args" mapstructure:"args"`

	// WorkDir is where the transient SDF and the output CSV are created.
	// Defaults to the process working directory.
	WorkDir string `yaml:"work_dir" json:"work_dir" mapstructure:"work_dir"`

	// Timeout bounds a single invocation.  Zero means no bound beyond ctx.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// Runner invokes PaDEL for a batch of molecules.
type Runner struct {
	cfg    Config
	logger logging.Logger

	observe func(outcome string, elapsed time.Duration)
}

// NewRunner validates the config and returns a Runner.
func NewRunner(cfg Config, logger logging.Logger) (*Runner, error) {
	if cfg.Executable == "" {
		return nil, errors.InvalidParam("padel executable is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Runner{cfg: cfg, logger: logger.Named("padel")}, nil
}

// SetObserver installs a per-invocation metrics callback.  The outcome is
// "ok" when the external command exits cleanly, "error" otherwise.
func (r *Runner) SetObserver(fn func(outcome string, elapsed time.Duration)) {
	r.observe = fn
}

// Run writes the molecules to the transient SDF, invokes the tool, and
// parses its CSV output into a feature matrix.  The SDF is removed before
// returning on every path.
func (r *Runner) Run(ctx context.Context, mols []*chem.Molecule) (*feature.Matrix, error) {
	if len(mols) == 0 {
		return nil, errors.New(errors.CodeMoleculeEmptySet, "no molecules to featurize")
	}

	workDir := r.cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}
	sdfPath := filepath.Join(workDir, tmpSDFName)
	outPath := filepath.Join(workDir, "padel_descriptors.csv")

	if err := r.writeSDF(sdfPath, mols); err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(sdfPath); rmErr != nil && !os.IsNotExist(rmErr) {
			r.logger.Warn("failed to remove transient sdf",
				logging.String("path", sdfPath), logging.Err(rmErr))
		}
	}()
	defer os.Remove(outPath)

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.cfg.Args...), sdfPath, outPath)
	cmd := exec.CommandContext(ctx, r.cfg.Executable, args...)
	cmd.Dir = workDir

	start := time.Now()
	output, err := cmd.CombinedOutput()
	elapsed := time.Since(start)
	if err != nil {
		if r.observe != nil {
			r.observe("error", elapsed)
		}
		r.logger.Error("padel run failed",
			logging.Err(err),
			logging.Duration("elapsed", elapsed),
			logging.String("output", string(output)))
		return nil, errors.Wrap(err, errors.CodePadelRunFailed, "padel invocation failed").
			WithDetail(string(output))
	}
	if r.observe != nil {
		r.observe("ok", elapsed)
	}
	r.logger.Info("padel run finished",
		logging.Int("molecules", len(mols)),
		logging.Duration("elapsed", elapsed))

	return r.parseCSV(outPath, len(mols))
}

func (r *Runner) writeSDF(path string, mols []*chem.Molecule) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodePadelRunFailed, "cannot create transient sdf")
	}
	if err := chem.WriteSDF(f, mols); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return errors.Wrap(err, errors.CodePadelRunFailed, "cannot flush transient sdf")
	}
	return nil
}

// parseCSV reads the PaDEL output: a header row naming the columns (first
// column is the molecule name), then one numeric row per molecule.
// Unparseable cells become NaN rather than failing the batch.
func (r *Runner) parseCSV(path string, wantRows int) (*feature.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePadelRunFailed, "padel produced no output csv")
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePadelRunFailed, "malformed padel output csv")
	}
	if len(records) < 2 {
		return nil, errors.New(errors.CodePadelRunFailed, "padel output csv has no data rows")
	}

	columns := records[0][1:]
	index := make([]string, 0, len(records)-1)
	data := make([][]float64, 0, len(records)-1)
	for _, rec := range records[1:] {
		index = append(index, rec[0])
		row := make([]float64, len(columns))
		for i := range columns {
			v, convErr := strconv.ParseFloat(rec[i+1], 64)
			if convErr != nil {
				v = math.NaN()
			}
			row[i] = v
		}
		data = append(data, row)
	}
	if len(data) != wantRows {
		return nil, errors.Newf(errors.CodeMatrixShapeMismatch,
			"padel returned %d rows for %d molecules", len(data), wantRows)
	}
	return feature.NewMatrix(index, columns, data)
}
