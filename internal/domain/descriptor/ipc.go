package descriptor

import (
	"math"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
)

// Ipc is the information content of the coefficients of the characteristic
// polynomial of the adjacency matrix.  With avg set the mean information
// content is returned instead of the total; the generator selects the
// averaged variant through its ipc_avg option.
//
// The characteristic polynomial is computed with the Faddeev–LeVerrier
// recurrence, which is O(n^4) but exact and dependency-free; descriptor-set
// molecules are small enough for that to be irrelevant.
func Ipc(m *chem.Molecule, avg bool) float64 {
	n := m.NumAtoms()
	if n == 0 {
		return 0
	}

	coeffs := characteristicPolynomial(adjacencyMatrix(m))

	// Shannon information over the absolute coefficient magnitudes.
	sum := 0.0
	for _, c := range coeffs {
		sum += math.Abs(c)
	}
	if sum == 0 {
		return 0
	}
	entropy := 0.0
	for _, c := range coeffs {
		a := math.Abs(c)
		if a == 0 {
			continue
		}
		p := a / sum
		entropy -= p * math.Log2(p)
	}
	if avg {
		return entropy
	}
	return sum * entropy
}

func adjacencyMatrix(m *chem.Molecule) [][]float64 {
	n := m.NumAtoms()
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}
	for _, b := range m.Bonds {
		a[b.From][b.To] = 1
		a[b.To][b.From] = 1
	}
	return a
}

// characteristicPolynomial returns the coefficients c_1..c_n of
// det(λI − A) = λ^n + c_1 λ^(n−1) + … + c_n via Faddeev–LeVerrier.
func characteristicPolynomial(a [][]float64) []float64 {
	n := len(a)
	coeffs := make([]float64, n)

	mPrev := identity(n)
	for k := 1; k <= n; k++ {
		am := matMul(a, mPrev)
		c := -trace(am) / float64(k)
		coeffs[k-1] = c
		mPrev = matAdd(am, scaledIdentity(n, c))
	}
	return coeffs
}

func identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

func scaledIdentity(n int, s float64) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = s
	}
	return m
}

func matMul(a, b [][]float64) [][]float64 {
	n := len(a)
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for k := 0; k < n; k++ {
			if a[i][k] == 0 {
				continue
			}
			aik := a[i][k]
			for j := 0; j < n; j++ {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out
}

func matAdd(a, b [][]float64) [][]float64 {
	n := len(a)
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out[i][j] = a[i][j] + b[i][j]
		}
	}
	return out
}

func trace(a [][]float64) float64 {
	t := 0.0
	for i := range a {
		t += a[i][i]
	}
	return t
}
