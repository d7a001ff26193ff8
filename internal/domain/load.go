package domain

// Epsilon absorbs floating-point noise in capacity and cost comparisons.
const Epsilon = 1e-6

// Load is a weight/volume pair used for both demand and capacity.
type Load struct {
	Kg float64 `json:"kg"`
	M3 float64 `json:"m3"`
}

func (l Load) Add(o Load) Load { return Load{Kg: l.Kg + o.Kg, M3: l.M3 + o.M3} }

func (l Load) Sub(o Load) Load { return Load{Kg: l.Kg - o.Kg, M3: l.M3 - o.M3} }

// Fits reports whether l fits within capacity c in both dimensions.
func (l Load) Fits(c Load) bool {
	return l.Kg <= c.Kg+Epsilon && l.M3 <= c.M3+Epsilon
}
