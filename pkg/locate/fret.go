package locate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/whigg/sharad-tools/pkg/power"
)

// Gradient returns the derivative of every column along the row axis with
// unit spacing: central differences inside, one-sided at the first and last
// rows. A single row has zero gradient.
func Gradient(grid mat.Matrix) *mat.Dense {
	r, c := grid.Dims()
	g := mat.NewDense(r, c, nil)
	if r < 2 {
		return g
	}
	for j := 0; j < c; j++ {
		g.Set(0, j, grid.At(1, j)-grid.At(0, j))
		for i := 1; i < r-1; i++ {
			g.Set(i, j, (grid.At(i+1, j)-grid.At(i-1, j))/2)
		}
		g.Set(r-1, j, grid.At(r-1, j)-grid.At(r-2, j))
	}
	return g
}

// Criterion weights each sample's power by the derivative of the sample
// before it, P[i] * dP[i-1]. Rows below skip are zero.
func Criterion(pow *mat.Dense, skip int) (*mat.Dense, error) {
	r, c := pow.Dims()
	if err := checkRows(r); err != nil {
		return nil, err
	}
	if skip < 1 || skip >= r {
		return nil, fmt.Errorf("skip margin %d must lie in [1, %d)", skip, r)
	}

	grad := Gradient(pow)
	crit := mat.NewDense(r, c, nil)
	lagged := crit.Slice(skip, r, 0, c).(*mat.Dense)
	lagged.MulElem(pow.Slice(skip, r, 0, c), grad.Slice(skip-1, r-1, 0, c))
	return crit, nil
}

// Fret returns the first-return sample index for every trace: the row of
// the largest criterion value at or past the skip margin
func Fret(pow *mat.Dense, skip int) ([]int, error) {
	crit, err := Criterion(pow, skip)
	if err != nil {
		return nil, err
	}
	return power.ColumnArgMax(crit, skip), nil
}
