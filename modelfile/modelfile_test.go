package modelfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/langid/internal/fixture"
	"github.com/happyhackingspace/langid/model"
)

func requireSameModel(t *testing.T, want, got *model.Model) {
	t.Helper()
	a, b := want.Raw(), got.Raw()
	require.Equal(t, a.Labels, b.Labels)
	require.Equal(t, a.ClassPrior, b.ClassPrior)
	require.Equal(t, a.FeatureLogProb, b.FeatureLogProb)
	require.Equal(t, a.Transitions, b.Transitions)
	require.Equal(t, len(a.StateFeatures), len(b.StateFeatures))
	for i := range a.StateFeatures {
		require.ElementsMatch(t, a.StateFeatures[i], b.StateFeatures[i], "state %d", i)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		comp   Compression
	}{
		{"model.json", FormatJSON, None},
		{"dir/Model.JSON.gz", FormatJSON, Gzip},
		{"m.msgpack", FormatMsgpack, None},
		{"m.mp.xz", FormatMsgpack, XZ},
		{"langid.model.txt", FormatText, None},
		{"langid.model", FormatText, None},
		{"langid.model.lzma", FormatText, LZMA},
	}
	for _, tt := range tests {
		format, comp, err := Detect(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.format, format, tt.path)
		assert.Equal(t, tt.comp, comp, tt.path)
	}

	_, _, err := Detect("model.bin")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, _, err = Detect("model.lzma")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := fixture.Default()
	dir := t.TempDir()
	for _, name := range []string{
		"m.json", "m.json.gz", "m.msgpack", "m.mp.xz", "m.txt", "m.model.lzma",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, m))
			got, err := Load(path)
			require.NoError(t, err)
			requireSameModel(t, m, got)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReadRejectsInvalidModel(t *testing.T) {
	_, err := Read(strings.NewReader(`{"labels":["en","de"],"class_prior":[0]}`), FormatJSON)
	assert.ErrorIs(t, err, model.ErrInvalidModel)
}

// A langid.py dump with two classes, two features and two states. nb_ptc is
// feature-major: feature 0 -> (en -1, de -2), feature 1 -> (en -3, de -4).
func langidPyDump() string {
	next := make([]string, 2*model.Alphabet)
	for i := range next {
		next[i] = "0"
	}
	next['a'] = "1"
	next[model.Alphabet+'a'] = "1"
	return strings.Join([]string{
		"# langid.py model",
		"nb_classes=en, de",
		"nb_pc=-0.5,-0.9",
		"nb_ptc=-1 -2 -3 -4",
		"tk_nextmove=" + strings.Join(next, ","),
		"tk_output=1:(0, 1,);0:()",
		"unrelated=ignored",
	}, "\n")
}

func TestReadTextTransposesMatrix(t *testing.T) {
	m, err := Read(strings.NewReader(langidPyDump()), FormatText)
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "de"}, m.Labels())
	assert.Equal(t, []float64{-0.5, -0.9}, m.ClassPrior())
	assert.Equal(t, []float64{-1, -3}, m.Row(0))
	assert.Equal(t, []float64{-2, -4}, m.Row(1))
	assert.Equal(t, 2, m.NumStates())
	assert.Equal(t, []int{0, 1, 0, 1}, model.Emissions(m, "aba"))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, FormatText))
	again, err := Read(&buf, FormatText)
	require.NoError(t, err)
	requireSameModel(t, m, again)
}

func TestReadTextErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing table", "nb_classes=en,de\nnb_pc=0,0\n"},
		{"bad float", "nb_classes=en,de\nnb_pc=0,x\n"},
		{"state overflow", "nb_classes=en,de\nnb_pc=0,0\nnb_ptc=0,0\ntk_nextmove=70000\n"},
		{"bad output", "tk_output=3-(1,2)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), FormatText)
			assert.Error(t, err)
		})
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(filepath.Join(dir, "m.msgpack"), fixture.Default()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "m.msgpack", entries[0].Name())
}
