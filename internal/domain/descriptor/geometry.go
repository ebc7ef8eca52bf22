package descriptor

import (
	"math"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
)

// Geometry descriptors require atomic coordinates (SDF input).  For
// molecules without a coordinate set every geometry column is NaN, matching
// how a full-registry run behaves on 2D-only input.

func geometryRegistry() []Descriptor {
	return []Descriptor{
		{"PMI1", func(m *chem.Molecule) float64 { return principalMoment(m, 0) }},
		{"PMI2", func(m *chem.Molecule) float64 { return principalMoment(m, 1) }},
		{"PMI3", func(m *chem.Molecule) float64 { return principalMoment(m, 2) }},
		{"NPR1", NPR1},
		{"NPR2", NPR2},
		{"RadiusOfGyration", RadiusOfGyration},
		{"Asphericity", Asphericity},
		{"Eccentricity", Eccentricity},
	}
}

// principalMoments returns the sorted (ascending) principal moments of
// inertia, or NaNs when no coordinates are available.
func principalMoments(m *chem.Molecule) [3]float64 {
	nan := [3]float64{math.NaN(), math.NaN(), math.NaN()}
	if !m.HasCoordinates() || m.NumAtoms() == 0 {
		return nan
	}

	// Center of mass.
	var cx, cy, cz, totalMass float64
	for i := range m.Atoms {
		w := chem.AtomicWeight(m.Atoms[i].Element)
		cx += w * m.Atoms[i].X
		cy += w * m.Atoms[i].Y
		cz += w * m.Atoms[i].Z
		totalMass += w
	}
	if totalMass == 0 {
		return nan
	}
	cx /= totalMass
	cy /= totalMass
	cz /= totalMass

	// Inertia tensor.
	var ixx, iyy, izz, ixy, ixz, iyz float64
	for i := range m.Atoms {
		w := chem.AtomicWeight(m.Atoms[i].Element)
		x := m.Atoms[i].X - cx
		y := m.Atoms[i].Y - cy
		z := m.Atoms[i].Z - cz
		ixx += w * (y*y + z*z)
		iyy += w * (x*x + z*z)
		izz += w * (x*x + y*y)
		ixy -= w * x * y
		ixz -= w * x * z
		iyz -= w * y * z
	}

	ev := symmetricEigenvalues3(ixx, iyy, izz, ixy, ixz, iyz)
	return ev
}

// symmetricEigenvalues3 computes the eigenvalues of a symmetric 3x3 matrix
// with the trigonometric closed form, returned ascending.
func symmetricEigenvalues3(a11, a22, a33, a12, a13, a23 float64) [3]float64 {
	p1 := a12*a12 + a13*a13 + a23*a23
	q := (a11 + a22 + a33) / 3
	if p1 == 0 {
		ev := [3]float64{a11, a22, a33}
		sort3(&ev)
		return ev
	}
	p2 := (a11-q)*(a11-q) + (a22-q)*(a22-q) + (a33-q)*(a33-q) + 2*p1
	p := math.Sqrt(p2 / 6)

	// B = (A - qI) / p, r = det(B)/2 clamped to [-1, 1].
	b11, b22, b33 := (a11-q)/p, (a22-q)/p, (a33-q)/p
	b12, b13, b23 := a12/p, a13/p, a23/p
	r := (b11*(b22*b33-b23*b23) - b12*(b12*b33-b23*b13) + b13*(b12*b23-b22*b13)) / 2
	if r < -1 {
		r = -1
	} else if r > 1 {
		r = 1
	}

	phi := math.Acos(r) / 3
	eig1 := q + 2*p*math.Cos(phi)
	eig3 := q + 2*p*math.Cos(phi+2*math.Pi/3)
	eig2 := 3*q - eig1 - eig3

	ev := [3]float64{eig1, eig2, eig3}
	sort3(&ev)
	return ev
}

func sort3(ev *[3]float64) {
	if ev[0] > ev[1] {
		ev[0], ev[1] = ev[1], ev[0]
	}
	if ev[1] > ev[2] {
		ev[1], ev[2] = ev[2], ev[1]
	}
	if ev[0] > ev[1] {
		ev[0], ev[1] = ev[1], ev[0]
	}
}

func principalMoment(m *chem.Molecule, idx int) float64 {
	return principalMoments(m)[idx]
}

// NPR1 is the first normalised principal moment ratio PMI1/PMI3.
func NPR1(m *chem.Molecule) float64 {
	ev := principalMoments(m)
	if ev[2] == 0 {
		return math.NaN()
	}
	return ev[0] / ev[2]
}

// NPR2 is the second normalised principal moment ratio PMI2/PMI3.
func NPR2(m *chem.Molecule) float64 {
	ev := principalMoments(m)
	if ev[2] == 0 {
		return math.NaN()
	}
	return ev[1] / ev[2]
}

// RadiusOfGyration is the mass-weighted radius of gyration.
func RadiusOfGyration(m *chem.Molecule) float64 {
	if !m.HasCoordinates() || m.NumAtoms() == 0 {
		return math.NaN()
	}
	var cx, cy, cz, totalMass float64
	for i := range m.Atoms {
		w := chem.AtomicWeight(m.Atoms[i].Element)
		cx += w * m.Atoms[i].X
		cy += w * m.Atoms[i].Y
		cz += w * m.Atoms[i].Z
		totalMass += w
	}
	if totalMass == 0 {
		return math.NaN()
	}
	cx /= totalMass
	cy /= totalMass
	cz /= totalMass
	sum := 0.0
	for i := range m.Atoms {
		w := chem.AtomicWeight(m.Atoms[i].Element)
		dx := m.Atoms[i].X - cx
		dy := m.Atoms[i].Y - cy
		dz := m.Atoms[i].Z - cz
		sum += w * (dx*dx + dy*dy + dz*dz)
	}
	return math.Sqrt(sum / totalMass)
}

// Asphericity measures deviation from spherical shape in [0, 1].
func Asphericity(m *chem.Molecule) float64 {
	ev := principalMoments(m)
	sum := ev[0] + ev[1] + ev[2]
	if sum == 0 || math.IsNaN(sum) {
		return math.NaN()
	}
	num := (ev[0]-ev[1])*(ev[0]-ev[1]) +
		(ev[1]-ev[2])*(ev[1]-ev[2]) +
		(ev[2]-ev[0])*(ev[2]-ev[0])
	return num / (2 * sum * sum)
}

// Eccentricity is sqrt(PMI3^2 − PMI1^2)/PMI3.
func Eccentricity(m *chem.Molecule) float64 {
	ev := principalMoments(m)
	if ev[2] == 0 || math.IsNaN(ev[2]) {
		return math.NaN()
	}
	return math.Sqrt(ev[2]*ev[2]-ev[0]*ev[0]) / ev[2]
}
