package core

// Range is a closed interval of ray distances in which a hit counts
type Range struct {
	Lower, Upper float64
}

// NewRange creates a new range, swapping the bounds if they arrive reversed
func NewRange(lower, upper float64) Range {
	if lower > upper {
		lower, upper = upper, lower
	}
	return Range{Lower: lower, Upper: upper}
}

// Contains reports whether value lies within the range, bounds included.
// NaN is never contained.
func (r Range) Contains(value float64) bool {
	return value >= r.Lower && value <= r.Upper
}

// WithUpper returns a copy of the range with a new upper bound
func (r Range) WithUpper(upper float64) Range {
	return Range{Lower: r.Lower, Upper: upper}
}
