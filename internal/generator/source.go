package generator

// Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Sequence is a Source replaying fixed values in a loop.
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence returns a Sequence over values. An empty sequence always yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 implements Source.
func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}
