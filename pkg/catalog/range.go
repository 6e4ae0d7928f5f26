package catalog

import "fmt"

// Range is a half-open interval of integers [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewRange is the single constructor of index ranges. It rejects end < start.
func NewRange(start, end int) (Range, error) {
	if end < start {
		return Range{}, fmt.Errorf("invalid range: end %d is before start %d", end, start)
	}
	return Range{Start: start, End: end}, nil
}

// Len returns the number of values in the range
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Values lists the range in ascending order.
func (r Range) Values() []int {
	out := make([]int, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		out = append(out, i)
	}
	return out
}

// Contains reports whether v lies in the range
func (r Range) Contains(v int) bool {
	return v >= r.Start && v < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
