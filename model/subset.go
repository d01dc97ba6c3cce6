package model

import "fmt"

// Subset returns a model restricted to the languages of m that also appear in
// langs, in m's label order. Feature extraction is unchanged: the automaton
// tables are shared with m, and only prior entries and matrix rows of the
// retained classes are copied.
func (m *Model) Subset(langs []string) (*Model, error) {
	keep := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		keep[l] = struct{}{}
	}

	var retained []int
	for c, l := range m.labels {
		if _, ok := keep[l]; ok {
			retained = append(retained, c)
		}
	}
	if len(retained) < 2 {
		return nil, fmt.Errorf("%w: %d of the requested languages are known to the model", ErrTooFewLabels, len(retained))
	}

	labels := make([]string, len(retained))
	prior := make([]float64, len(retained))
	ptc := make([]float64, len(retained)*m.numFeatures)
	for j, c := range retained {
		labels[j] = m.labels[c]
		prior[j] = m.classPrior[c]
		copy(ptc[j*m.numFeatures:(j+1)*m.numFeatures], m.Row(c))
	}

	return &Model{
		labels:         labels,
		classPrior:     prior,
		featureLogProb: ptc,
		transitions:    m.transitions,
		stateFeatures:  m.stateFeatures,
		numFeatures:    m.numFeatures,
	}, nil
}
