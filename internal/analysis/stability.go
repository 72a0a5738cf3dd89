package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/models"
	"gonum.org/v1/gonum/mat"
)

// Jacobian returns d(dX/dt)/dX of m evaluated at x. Under frequency coupling
// the dependence of N on every compartment is included.
func Jacobian(m models.Model, x dynamo.State) (*mat.Dense, error) {
	n := m.StateDim()
	if len(x) != n {
		return nil, fmt.Errorf("%w: state has %d components, model needs %d",
			dynamo.ErrDimensionMismatch, len(x), n)
	}

	p := m.Params()
	kind := m.Kind()
	sIdx, iIdx, rIdx := 0, m.InfectedIndex(), m.RecoveredIndex()
	s, i := x[sIdx], x[iIdx]

	// gradient of the infection flow
	grad := make([]float64, n)
	if m.Coupling() == models.Frequency {
		total := x.Sum()
		inf := p.Beta * s * i / total
		for k := range grad {
			grad[k] = -inf / total
		}
		grad[sIdx] += p.Beta * i / total
		grad[iIdx] += p.Beta * s / total
	} else {
		grad[sIdx] = p.Beta * i
		grad[iIdx] = p.Beta * s
	}

	j := mat.NewDense(n, n, nil)
	for k := 0; k < n; k++ {
		j.Set(sIdx, k, -grad[k])
	}
	j.Set(sIdx, sIdx, j.At(sIdx, sIdx)-p.Nu)

	if kind.HasExposed() {
		const eIdx = 1
		for k := 0; k < n; k++ {
			j.Set(eIdx, k, grad[k])
		}
		j.Set(eIdx, eIdx, j.At(eIdx, eIdx)-p.Sigma)
		j.Set(iIdx, eIdx, p.Sigma)
	} else {
		for k := 0; k < n; k++ {
			j.Set(iIdx, k, grad[k])
		}
	}
	j.Set(iIdx, iIdx, j.At(iIdx, iIdx)-p.Gamma)

	j.Set(rIdx, iIdx, j.At(rIdx, iIdx)+p.Gamma)
	j.Set(rIdx, sIdx, j.At(rIdx, sIdx)+p.Nu)

	if kind.HasDemography() {
		if m.Coupling() == models.Frequency {
			// births mu*N feed S from every compartment
			for k := 0; k < n; k++ {
				j.Set(sIdx, k, j.At(sIdx, k)+p.Mu)
			}
		}
		for k := 0; k < n; k++ {
			j.Set(k, k, j.At(k, k)-p.Mu)
		}
	}

	return j, nil
}

// Eigenvalues returns the eigenvalues of a square matrix.
func Eigenvalues(a mat.Matrix) ([]complex128, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: matrix is %dx%d", dynamo.ErrDimensionMismatch, r, c)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenNone); !ok {
		return nil, fmt.Errorf("%w: eigen decomposition did not converge", dynamo.ErrInvalidValue)
	}
	return eig.Values(nil), nil
}

// SpectralAbscissa is the largest real part among eigs. A negative value
// means the linearisation decays.
func SpectralAbscissa(eigs []complex128) float64 {
	out := math.Inf(-1)
	for _, v := range eigs {
		out = math.Max(out, real(v))
	}
	return out
}
