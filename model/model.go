// Package model holds the immutable language identification model: class
// labels, Naive Bayes probability matrices and the byte n-gram automaton.
//
// A Model is read-only after New and may be shared by any number of
// goroutines without synchronization.
package model

import (
	"errors"
	"fmt"
	"slices"
)

// Alphabet is the number of transitions leaving each automaton state.
const Alphabet = 256

var (
	// ErrInvalidModel reports a model whose tables have inconsistent sizes or out-of-range entries.
	ErrInvalidModel = errors.New("invalid model")
	// ErrTooFewLabels reports a model or subset with fewer than two languages.
	ErrTooFewLabels = errors.New("a model must contain at least two languages")
)

// Raw is the parsed representation of a model as produced by a loader.
type Raw struct {
	Labels         []string  `json:"labels" msgpack:"labels"`
	ClassPrior     []float64 `json:"class_prior" msgpack:"class_prior"`
	FeatureLogProb []float64 `json:"feature_log_prob" msgpack:"feature_log_prob"` // [numClasses*numFeatures], class-major
	Transitions    []uint16  `json:"transitions" msgpack:"transitions"`           // [numStates*256]
	StateFeatures  [][]int   `json:"state_features" msgpack:"state_features"`     // [numStates], nil for silent states
}

// Model is a validated, immutable language identification model.
type Model struct {
	labels         []string
	classPrior     []float64
	featureLogProb []float64
	transitions    []uint16
	stateFeatures  [][]int
	numFeatures    int
}

// New validates raw and builds a Model. The model takes ownership of the
// slices in raw; callers must not modify them afterwards.
func New(raw Raw) (*Model, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}
	return &Model{
		labels:         raw.Labels,
		classPrior:     raw.ClassPrior,
		featureLogProb: raw.FeatureLogProb,
		transitions:    raw.Transitions,
		stateFeatures:  raw.StateFeatures,
		numFeatures:    len(raw.FeatureLogProb) / len(raw.Labels),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(raw Raw) *Model {
	m, err := New(raw)
	if err != nil {
		panic(err)
	}
	return m
}

func validate(raw Raw) error {
	numClasses := len(raw.Labels)
	if numClasses < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewLabels, numClasses)
	}
	seen := make(map[string]struct{}, numClasses)
	for _, l := range raw.Labels {
		if l == "" {
			return fmt.Errorf("%w: empty label", ErrInvalidModel)
		}
		if _, dup := seen[l]; dup {
			return fmt.Errorf("%w: duplicate label %q", ErrInvalidModel, l)
		}
		seen[l] = struct{}{}
	}
	if len(raw.ClassPrior) != numClasses {
		return fmt.Errorf("%w: %d class priors for %d labels", ErrInvalidModel, len(raw.ClassPrior), numClasses)
	}
	if len(raw.FeatureLogProb)%numClasses != 0 {
		return fmt.Errorf("%w: feature matrix of %d entries is not a multiple of %d classes",
			ErrInvalidModel, len(raw.FeatureLogProb), numClasses)
	}
	numFeatures := len(raw.FeatureLogProb) / numClasses

	if len(raw.Transitions) == 0 || len(raw.Transitions)%Alphabet != 0 {
		return fmt.Errorf("%w: transition table of %d entries is not a positive multiple of %d",
			ErrInvalidModel, len(raw.Transitions), Alphabet)
	}
	numStates := len(raw.Transitions) / Alphabet
	if len(raw.StateFeatures) != numStates {
		return fmt.Errorf("%w: %d state outputs for %d states", ErrInvalidModel, len(raw.StateFeatures), numStates)
	}
	for i, next := range raw.Transitions {
		if int(next) >= numStates {
			return fmt.Errorf("%w: transition %d of state %d targets state %d (have %d)",
				ErrInvalidModel, i%Alphabet, i/Alphabet, next, numStates)
		}
	}
	for state, feats := range raw.StateFeatures {
		for _, f := range feats {
			if f < 0 || f >= numFeatures {
				return fmt.Errorf("%w: state %d emits feature %d outside [0, %d)", ErrInvalidModel, state, f, numFeatures)
			}
		}
	}
	return nil
}

// Labels returns the language codes in class order. The slice must not be modified.
func (m *Model) Labels() []string {
	return m.labels
}

// Label returns the language code of class c.
func (m *Model) Label(c int) string {
	return m.labels[c]
}

// Languages returns a copy of the language codes in class order.
func (m *Model) Languages() []string {
	return slices.Clone(m.labels)
}

// Index returns the class index of lang, or -1.
func (m *Model) Index(lang string) int {
	return slices.Index(m.labels, lang)
}

// NumClasses returns the number of languages.
func (m *Model) NumClasses() int {
	return len(m.labels)
}

// NumFeatures returns the size of the feature vocabulary.
func (m *Model) NumFeatures() int {
	return m.numFeatures
}

// NumStates returns the number of automaton states.
func (m *Model) NumStates() int {
	return len(m.stateFeatures)
}

// ClassPrior returns the log prior weights in class order. The slice must not be modified.
func (m *Model) ClassPrior() []float64 {
	return m.classPrior
}

// Row returns the feature log-probabilities of class c. The slice must not be modified.
func (m *Model) Row(c int) []float64 {
	return m.featureLogProb[c*m.numFeatures : (c+1)*m.numFeatures]
}

// Raw returns the model's tables. The slices are shared with the model and
// must not be modified.
func (m *Model) Raw() Raw {
	return Raw{
		Labels:         m.labels,
		ClassPrior:     m.classPrior,
		FeatureLogProb: m.featureLogProb,
		Transitions:    m.transitions,
		StateFeatures:  m.stateFeatures,
	}
}
