package padel

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/pkg/errors"
)

// writeStub installs an executable shell script standing in for the PaDEL
// wrapper.  The script receives the sdf path as $1 and the output csv path
// as $2.
func writeStub(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "padel-stub.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func testMols(t *testing.T, smiles ...string) []*chem.Molecule {
	t.Helper()
	out := make([]*chem.Molecule, len(smiles))
	for i, s := range smiles {
		m, err := chem.ParseSMILES(s)
		require.NoError(t, err, s)
		out[i] = m
	}
	return out
}

func TestRunner_ParsesOutputAndRemovesSDF(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, `cat > "$2" <<EOF
Name,MW,nAtom
ethanol,46.07,3
benzene,78.11,abc
EOF
`)

	r, err := NewRunner(Config{Executable: stub, WorkDir: dir}, nil)
	require.NoError(t, err)

	m, err := r.Run(context.Background(), testMols(t, "CCO", "c1ccccc1"))
	require.NoError(t, err)

	assert.Equal(t, []string{"MW", "nAtom"}, m.Columns)
	assert.Equal(t, []string{"ethanol", "benzene"}, m.Index)
	assert.InDelta(t, 46.07, m.Data[0][0], 1e-9)
	// Unparseable cells become NaN rather than failing the batch.
	assert.True(t, math.IsNaN(m.Data[1][1]))

	// The transient exchange files must be gone after a successful run.
	_, err = os.Stat(filepath.Join(dir, tmpSDFName))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "padel_descriptors.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunner_StubSeesSDF(t *testing.T) {
	dir := t.TempDir()
	// The stub copies the sdf it receives, proving the file existed during
	// the invocation even though it is removed afterwards.
	stub := writeStub(t, dir, `cp "$1" "$1.seen"
cat > "$2" <<EOF
Name,MW
x,1
EOF
`)

	r, err := NewRunner(Config{Executable: stub, WorkDir: dir}, nil)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), testMols(t, "CCO"))
	require.NoError(t, err)

	seen, err := os.ReadFile(filepath.Join(dir, tmpSDFName+".seen"))
	require.NoError(t, err)
	assert.Contains(t, string(seen), "V2000")

	_, err = os.Stat(filepath.Join(dir, tmpSDFName))
	assert.True(t, os.IsNotExist(err))
}

func TestRunner_FailureStillRemovesSDF(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "exit 3\n")

	r, err := NewRunner(Config{Executable: stub, WorkDir: dir}, nil)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), testMols(t, "CCO"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePadelRunFailed))

	_, statErr := os.Stat(filepath.Join(dir, tmpSDFName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_RowCountMismatch(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, `cat > "$2" <<EOF
Name,MW
only-one,1.0
EOF
`)

	r, err := NewRunner(Config{Executable: stub, WorkDir: dir}, nil)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), testMols(t, "CCO", "CCN"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMatrixShapeMismatch))
}

func TestRunner_EmptyOutput(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, `: > "$2"
`)

	r, err := NewRunner(Config{Executable: stub, WorkDir: dir}, nil)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), testMols(t, "CCO"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePadelRunFailed))
}

func TestRunner_ObserverSeesOutcomes(t *testing.T) {
	dir := t.TempDir()

	var outcomes []string
	record := func(outcome string, elapsed time.Duration) {
		outcomes = append(outcomes, outcome)
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	}

	ok := writeStub(t, dir, `cat > "$2" <<EOF
Name,MW
x,1
EOF
`)
	r, err := NewRunner(Config{Executable: ok, WorkDir: dir}, nil)
	require.NoError(t, err)
	r.SetObserver(record)
	_, err = r.Run(context.Background(), testMols(t, "CCO"))
	require.NoError(t, err)

	bad, err := NewRunner(Config{Executable: writeStub(t, dir, "exit 3\n"), WorkDir: dir}, nil)
	require.NoError(t, err)
	bad.SetObserver(record)
	_, err = bad.Run(context.Background(), testMols(t, "CCO"))
	require.Error(t, err)

	assert.Equal(t, []string{"ok", "error"}, outcomes)
}

func TestNewRunner_RequiresExecutable(t *testing.T) {
	_, err := NewRunner(Config{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}
