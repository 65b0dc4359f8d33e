package integrators

// Tableau holds the coefficients of an explicit embedded Runge-Kutta pair.
// A is lower triangular and stored ragged: A[i] has i entries.
// Bhat weights produce the propagated solution, B weights the embedded
// lower-order solution used only for the error estimate.
type Tableau struct {
	Name  string
	Order int
	C     []float64
	A     [][]float64
	B     []float64
	Bhat  []float64
}

func (tb *Tableau) Stages() int { return len(tb.C) }

// errorWeights returns B[i] - Bhat[i].
func (tb *Tableau) errorWeights() []float64 {
	e := make([]float64, len(tb.B))
	for i := range tb.B {
		e[i] = tb.B[i] - tb.Bhat[i]
	}
	return e
}

// Dormand-Prince coefficients (RK45). Never written after init.
var DormandPrince45 = Tableau{
	Name:  "dopri5",
	Order: 5,
	C: []float64{
		0,
		1.0 / 5.0,
		3.0 / 10.0,
		4.0 / 5.0,
		8.0 / 9.0,
		1,
		1,
	},
	A: [][]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	},
	B: []float64{
		5179.0 / 57600.0,
		0,
		7571.0 / 16695.0,
		393.0 / 640.0,
		-92097.0 / 339200.0,
		187.0 / 2100.0,
		1.0 / 40.0,
	},
	Bhat: []float64{
		35.0 / 384.0,
		0,
		500.0 / 1113.0,
		125.0 / 192.0,
		-2187.0 / 6784.0,
		11.0 / 84.0,
		0,
	},
}

var dopriErrorWeights = DormandPrince45.errorWeights()
