package classifier

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/langid/internal/fixture"
)

func randomText(rng *rand.Rand, maxRunes int) string {
	ranges := [][2]rune{
		{'a', 'z'}, {'A', 'Z'}, {' ', '@'}, {0xC0, 0x17F}, {0x400, 0x4FF}, {0x4E00, 0x4FFF},
	}
	var b strings.Builder
	n := 1 + rng.IntN(maxRunes)
	for range n {
		r := ranges[rng.IntN(len(ranges))]
		b.WriteRune(r[0] + rune(rng.IntN(int(r[1]-r[0]+1))))
	}
	return b.String()
}

func TestSanity(t *testing.T) {
	s := NewSession(fixture.Default())
	tests := []struct {
		lang, text string
	}{
		{"en", fixture.English},
		{"pl", fixture.Polish},
		{"it", fixture.Italian},
		{"fr", fixture.French},
		{"de", fixture.German},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := s.ClassifyString(tt.text, true)
			assert.Equal(t, tt.lang, got.Lang)
		})
	}
}

func TestEnglishHasMaximalRankConfidence(t *testing.T) {
	s := NewSession(fixture.Default())
	s.AppendString(fixture.English)
	best := s.Classify(true)
	require.Equal(t, "en", best.Lang)

	for _, d := range s.Rank(true) {
		if d.Lang == "en" {
			assert.InDelta(t, best.Confidence, d.Confidence, 1e-12)
			continue
		}
		assert.Less(t, d.Confidence, best.Confidence, d.Lang)
	}
}

func TestEmptyInputFallsBackToPriors(t *testing.T) {
	m := fixture.Default()
	s := NewSession(m)

	want := argmax(m.ClassPrior())
	got := s.Classify(false)
	assert.Equal(t, m.Label(want), got.Lang)
	assert.Equal(t, m.ClassPrior()[want], got.Confidence)
	assert.Equal(t, "en", got.Lang)

	norm := s.Classify(true)
	assert.InDelta(t, normalizeConfidence(m.ClassPrior(), want), norm.Confidence, 1e-12)
	assert.Equal(t, 0, s.FeatureCount())
}

func TestAppendMethodsAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	s := NewSession(fixture.Default())

	for range 500 {
		in := randomText(rng, 300)
		normalize := rng.IntN(2) == 0

		s.Reset()
		s.AppendString(in)
		want := s.Classify(normalize)

		s.Reset()
		require.Equal(t, want, s.ClassifyString(in, normalize))

		require.Equal(t, want, s.ClassifyBytes([]byte(in), normalize))

		bytes := []byte(in)
		pad := rng.IntN(101)
		shift := rng.IntN(pad + 1)
		shifted := make([]byte, len(bytes)+pad)
		copy(shifted[shift:], bytes)

		s.Reset()
		s.AppendRange(shifted, shift, len(bytes))
		require.Equal(t, want, s.Classify(normalize))
	}
}

func TestClassifyDoesNotReset(t *testing.T) {
	s := NewSession(fixture.Default())
	s.AppendString(fixture.German)
	first := s.Classify(true)
	n := s.FeatureCount()

	assert.Equal(t, first, s.Classify(true))
	assert.Equal(t, n, s.FeatureCount())

	s.AppendString(fixture.German)
	assert.Equal(t, "de", s.Classify(true).Lang)
	assert.Equal(t, n, s.FeatureCount())
}

func TestSplitAppendDropsBoundaryNgrams(t *testing.T) {
	s := NewSession(fixture.Default())
	whole := s.ClassifyString("the boat", false)

	s.Reset()
	s.AppendString("the b")
	s.AppendString("oat")
	split := s.Classify(false)

	assert.NotEqual(t, whole.Confidence, split.Confidence)
}

func TestRankCompleteness(t *testing.T) {
	m := fixture.Default()
	s := NewSession(m)
	s.AppendString(fixture.Polish)

	for _, normalize := range []bool{true, false} {
		ranks := s.Rank(normalize)
		require.Len(t, ranks, m.NumClasses())
		for i, d := range ranks {
			assert.Equal(t, m.Labels()[i], d.Lang)
		}
	}

	raw := slices.Clone(s.Rank(false))
	best := s.Classify(false)
	assert.Equal(t, best.Confidence, raw[m.Index(best.Lang)].Confidence)
}

func TestRankIsReused(t *testing.T) {
	s := NewSession(fixture.Default())
	s.AppendString(fixture.Polish)
	first := s.Rank(true)
	kept := slices.Clone(first)

	s.ClassifyString(fixture.English, true)
	second := s.Rank(true)

	assert.Same(t, &first[0], &second[0])
	assert.NotEqual(t, kept, second)
}

func TestNormalizedRankSumsToOne(t *testing.T) {
	s := NewSession(fixture.Default())
	s.AppendString(fixture.Italian)

	var sum float64
	for _, d := range s.Rank(true) {
		assert.Greater(t, d.Confidence, 0.0)
		assert.LessOrEqual(t, d.Confidence, 1.0)
		sum += d.Confidence
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSubsetMonotonicity(t *testing.T) {
	full := fixture.Default()
	allowed := []string{"en", "de", "it", "pl", "pt", "fr", "se", "no"}
	sub, err := full.Subset(allowed)
	require.NoError(t, err)

	v1 := NewSession(full)
	v2 := NewSession(sub)

	c1 := v1.ClassifyString(fixture.French, true)
	require.Equal(t, "fr", c1.Lang)
	assert.Equal(t, "fr", v2.ClassifyString(fixture.French, true).Lang)

	rng := rand.New(rand.NewPCG(0xdead, 0xbeef))
	for range 2000 {
		in := randomText(rng, 300)
		c1 := v1.ClassifyString(in, true)
		c2 := v2.ClassifyString(in, true)
		if slices.Contains(allowed, c1.Lang) {
			require.Equal(t, c1.Lang, c2.Lang, "input %q", in)
		}
	}
}

func TestDetectedString(t *testing.T) {
	assert.Equal(t, "[pl, conf.: 0.5]", Detected{Lang: "pl", Confidence: 0.5}.String())
}
