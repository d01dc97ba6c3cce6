package model

// FeatureSink receives the feature indices emitted by Walk.
type FeatureSink interface {
	Increment(feature int)
}

// Walk runs data through the model's automaton starting from state 0 and
// reports every feature emitted by the states it enters.
//
// Each call is an independent pass: n-grams spanning two calls are not
// recognized. Windows into a larger buffer are walked by slicing, which
// yields the same emissions as walking a copy.
func Walk[T ~string | ~[]byte](m *Model, data T, sink FeatureSink) {
	next := m.transitions
	out := m.stateFeatures
	state := 0
	for i := 0; i < len(data); i++ {
		state = int(next[state<<8|int(data[i])])
		for _, f := range out[state] {
			sink.Increment(f)
		}
	}
}

// Emissions returns the features emitted while walking data, in emission
// order. It allocates and is meant for inspection, not the hot path.
func Emissions[T ~string | ~[]byte](m *Model, data T) []int {
	var c collector
	Walk(m, data, &c)
	return c.features
}

type collector struct {
	features []int
}

func (c *collector) Increment(feature int) {
	c.features = append(c.features, feature)
}
