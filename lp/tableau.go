// SPDX-License-Identifier: MIT

package lp

// tableau is a dense row-major simplex tableau.
//
// Layout: rows 0..rows-1 are constraints, row `rows` is the objective row;
// columns 0..vars-1 are variables, column `vars` is the right-hand side.
type tableau struct {
	rows, vars int
	data       []float64 // (rows+1) × (vars+1)
	basis      []int     // basic variable of each constraint row
}

func newTableau(rows, vars int) *tableau {
	return &tableau{
		rows:  rows,
		vars:  vars,
		data:  make([]float64, (rows+1)*(vars+1)),
		basis: make([]int, rows),
	}
}

func (t *tableau) stride() int { return t.vars + 1 }

func (t *tableau) at(r, c int) float64 { return t.data[r*t.stride()+c] }

func (t *tableau) set(r, c int, v float64) { t.data[r*t.stride()+c] = v }

func (t *tableau) row(r int) []float64 {
	s := t.stride()

	return t.data[r*s : (r+1)*s]
}

func (t *tableau) objective() []float64 { return t.row(t.rows) }

func (t *tableau) rhs(r int) float64 { return t.at(r, t.vars) }

// pivot makes variable c basic in row r.
//
// Complexity: O(rows × vars).
func (t *tableau) pivot(r, c int) {
	pr := t.row(r)
	inv := 1 / pr[c]
	for j := range pr {
		pr[j] *= inv
	}
	pr[c] = 1

	for i := 0; i <= t.rows; i++ {
		if i == r {
			continue
		}
		ri := t.row(i)
		f := ri[c]
		if f == 0 {
			continue
		}
		for j := range ri {
			ri[j] -= f * pr[j]
		}
		ri[c] = 0
	}
	t.basis[r] = c
}

// entering returns the smallest-index variable with a negative reduced cost,
// or -1 at optimality.
func (t *tableau) entering(tol float64) int {
	obj := t.objective()
	for j := 0; j < t.vars; j++ {
		if obj[j] < -tol {
			return j
		}
	}

	return -1
}

// leaving runs the ratio test on column c; ties go to the smallest basic
// variable. It returns -1 when the column is unbounded.
func (t *tableau) leaving(c int, tol float64) int {
	var (
		best  = -1
		ratio float64
	)
	for r := 0; r < t.rows; r++ {
		a := t.at(r, c)
		if a <= tol {
			continue
		}
		q := t.rhs(r) / a
		switch {
		case best < 0, q < ratio-tol:
			best, ratio = r, q
		case q <= ratio+tol && t.basis[r] < t.basis[best]:
			best, ratio = r, q
		}
	}

	return best
}
