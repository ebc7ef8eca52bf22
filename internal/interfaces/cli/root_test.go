package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiverseMol/internal/config"
	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/metrics"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMolecules_SMILESCountsParsed(t *testing.T) {
	mtr := metrics.NewFeatureMetrics("cli_test")
	path := writeTempFile(t, "input.smi", "CCO ethanol\n# comment\nc1ccccc1\n")

	mols, err := loadMolecules(mtr, path)
	require.NoError(t, err)
	require.Len(t, mols, 2)
	assert.Equal(t, "ethanol", mols[0].Name)

	assert.Equal(t, 2.0, testutil.ToFloat64(mtr.MoleculesParsedTotal.WithLabelValues("smiles")))
	assert.Equal(t, 0.0, testutil.ToFloat64(mtr.ParseFailuresTotal.WithLabelValues("smiles")))
}

func TestLoadMolecules_SMILESCountsFailure(t *testing.T) {
	mtr := metrics.NewFeatureMetrics("cli_test")
	path := writeTempFile(t, "input.smi", "C(\n")

	_, err := loadMolecules(mtr, path)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(mtr.ParseFailuresTotal.WithLabelValues("smiles")))
	assert.Equal(t, 0.0, testutil.ToFloat64(mtr.MoleculesParsedTotal.WithLabelValues("smiles")))
}

func TestLoadMolecules_SDFCountsParsed(t *testing.T) {
	mtr := metrics.NewFeatureMetrics("cli_test")

	src, err := chem.ParseSMILES("CCO")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "input.sdf")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, chem.WriteSDF(f, []*chem.Molecule{src}))
	require.NoError(t, f.Close())

	mols, err := loadMolecules(mtr, path)
	require.NoError(t, err)
	require.Len(t, mols, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(mtr.MoleculesParsedTotal.WithLabelValues("sdf")))
}

// contextWithConfig plants a cliContext the way initContext does, so the flag
// resolvers can be exercised without running the full command tree.
func contextWithConfig(cmd *cobra.Command, cfg *config.Config) {
	cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, &cliContext{cfg: cfg}))
}

func TestFingerprintFlags_ResolveFromConfig(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Feature.Fingerprint = "ECFP"
	cfg.Feature.NBits = 1024
	cfg.Feature.Rings = false
	cfg.Feature.Isomeric = true
	cfg.Feature.Kekulize = true

	var selector string
	cmd := &cobra.Command{}
	resolve := fingerprintFlags(cmd, &selector)
	contextWithConfig(cmd, cfg)

	p := resolve(cmd)
	assert.Equal(t, "ECFP", selector)
	assert.Equal(t, 1024, p.NBits)
	assert.False(t, p.Rings)
	assert.True(t, p.Isomeric)
	assert.True(t, p.Kekulize)
}

func TestFingerprintFlags_FlagsBeatConfig(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Feature.Rings = false
	cfg.Feature.Isomeric = false

	var selector string
	cmd := &cobra.Command{}
	resolve := fingerprintFlags(cmd, &selector)
	contextWithConfig(cmd, cfg)

	require.NoError(t, cmd.Flags().Set("rings", "true"))
	require.NoError(t, cmd.Flags().Set("isomeric", "true"))
	require.NoError(t, cmd.Flags().Set("n-bits", "256"))

	p := resolve(cmd)
	assert.True(t, p.Rings)
	assert.True(t, p.Isomeric)
	assert.Equal(t, 256, p.NBits)
}
