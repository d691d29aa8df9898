package chaos

const DefaultLogisticR = 3.99

// Logistic is the map x -> r*x*(1-x). It is chaotic for r roughly in
// [3.57, 4.0] and 0 < x0 < 1; outside that range it still runs but the
// output may settle into a cycle.
type Logistic struct{ R float64 }

func NewLogistic() *Logistic { return &Logistic{R: DefaultLogisticR} }

// Sequence iterates the map length times from x0. The seed itself is not
// part of the output: the first value is x1.
func (l *Logistic) Sequence(x0 float64, length int) Sequence {
	if length <= 0 {
		return Sequence{}
	}
	seq := make(Sequence, length)
	x := x0
	for i := range seq {
		x = l.R * x * (1 - x)
		seq[i] = x
	}
	return seq
}

func (l *Logistic) GetParams() map[string]float64 {
	return map[string]float64{"r": l.R}
}

func (l *Logistic) SetParam(n string, v float64) {
	if n == "r" {
		l.R = v
	}
}
