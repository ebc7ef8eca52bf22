package feature

import (
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// FilterFeatures is a reserved hook for binary-fingerprint feature
// selection.  It currently passes the matrix through unchanged.
func FilterFeatures(m *feature.Matrix) (*feature.Matrix, error) {
	return m, nil
}
