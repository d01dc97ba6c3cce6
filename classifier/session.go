// Package classifier identifies the language of byte or text input against a
// shared model.
//
// A Session accumulates byte n-gram features of one document at a time and
// scores them with multinomial Naive Bayes:
//
//	s := classifier.NewSession(m)
//	d := s.ClassifyString("W Szczebrzeszynie chrząszcz brzmi w trzcinie", true)
//	fmt.Println(d.Lang, d.Confidence) // pl 0.99...
//
// Streaming use calls Reset, then Append as data arrives, and Classify or
// Rank whenever an estimate is needed.
package classifier

import (
	"fmt"

	"github.com/happyhackingspace/langid/internal/sparse"
	"github.com/happyhackingspace/langid/model"
)

// Detected is a language code with a confidence. Normalized confidences are
// in (0, 1]; raw confidences are Naive Bayes log-scores.
type Detected struct {
	Lang       string  `json:"lang"`
	Confidence float64 `json:"confidence"`
}

func (d Detected) String() string {
	return fmt.Sprintf("[%s, conf.: %g]", d.Lang, d.Confidence)
}

// Session classifies one document at a time. It reuses its buffers across
// documents and is not safe for concurrent use; give each goroutine its own
// Session over the same Model.
type Session struct {
	model  *model.Model
	fv     *sparse.CountingSet
	scores []float64
	ranks  []Detected
}

// NewSession creates a session for m.
func NewSession(m *model.Model) *Session {
	ranks := make([]Detected, m.NumClasses())
	for c, l := range m.Labels() {
		ranks[c].Lang = l
	}
	return &Session{
		model:  m,
		fv:     sparse.New(m.NumFeatures()),
		scores: make([]float64, m.NumClasses()),
		ranks:  ranks,
	}
}

// Model returns the session's model.
func (s *Session) Model() *model.Model {
	return s.model
}

// Reset discards all accumulated features.
func (s *Session) Reset() {
	s.fv.Clear()
}

// FeatureCount returns the number of distinct features accumulated since the
// last Reset.
func (s *Session) FeatureCount() int {
	return s.fv.Len()
}

// Append adds the features of p. Every call walks the automaton from its
// start state, so n-grams crossing the boundary between two Append calls
// are not counted.
func (s *Session) Append(p []byte) {
	model.Walk(s.model, p, s.fv)
}

// AppendRange adds the features of p[off:off+n].
func (s *Session) AppendRange(p []byte, off, n int) {
	model.Walk(s.model, p[off:off+n], s.fv)
}

// AppendString adds the features of the UTF-8 bytes of text.
func (s *Session) AppendString(text string) {
	model.Walk(s.model, text, s.fv)
}

// Classify returns the best scoring language for the features accumulated so
// far. It does not reset the session.
func (s *Session) Classify(normalize bool) Detected {
	sc := scores(s.scores, s.model, s.fv)
	c := argmax(sc)
	conf := sc[c]
	if normalize {
		conf = normalizeConfidence(sc, c)
	}
	return Detected{Lang: s.model.Label(c), Confidence: conf}
}

// ClassifyBytes resets the session and classifies p.
func (s *Session) ClassifyBytes(p []byte, normalize bool) Detected {
	s.Reset()
	s.Append(p)
	return s.Classify(normalize)
}

// ClassifyString resets the session and classifies text.
func (s *Session) ClassifyString(text string, normalize bool) Detected {
	s.Reset()
	s.AppendString(text)
	return s.Classify(normalize)
}

// Rank returns one entry per language of the model, in model label order
// (not sorted by confidence). The returned slice is owned by the session and
// is overwritten by the next call to Rank; copy it to keep it.
func (s *Session) Rank(normalize bool) []Detected {
	sc := scores(s.scores, s.model, s.fv)
	for c := range s.ranks {
		if normalize {
			s.ranks[c].Confidence = normalizeConfidence(sc, c)
		} else {
			s.ranks[c].Confidence = sc[c]
		}
	}
	return s.ranks
}
