// Package langid identifies the natural language of short texts.
//
// It scores byte n-gram features, recognized by a compiled automaton,
// against a pretrained multinomial Naive Bayes model.
//
//	id, _ := langid.Load("langid.model.lzma")
//	d := id.Detect("W Szczebrzeszynie chrząszcz brzmi w trzcinie")
//	fmt.Println(d.Lang, d.Confidence) // pl 0.99...
//
// An Identifier is safe for concurrent use. Callers that stream input or
// need allocation-free classification should take a classifier.Session from
// NewSession and keep it on one goroutine.
package langid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/happyhackingspace/langid/classifier"
	"github.com/happyhackingspace/langid/internal/textutil"
	"github.com/happyhackingspace/langid/model"
	"github.com/happyhackingspace/langid/modelfile"
)

// Detected is a language code with a confidence.
type Detected = classifier.Detected

// ModelEnv names the environment variable New consults first.
const ModelEnv = "LANGID_MODEL"

// ModelNames lists the file names New looks for, in order.
var ModelNames = []string{
	"langid.model.lzma",
	"langid.msgpack",
	"langid.json",
	"langid.model",
}

// Identifier detects languages with a shared model and a pool of sessions.
type Identifier struct {
	model     *model.Model
	maxBytes  int
	normalize bool
	pool      sync.Pool
}

// Option configures an Identifier.
type Option func(*Identifier)

// WithMaxBytes limits the input considered per document. Inputs are cut at a
// UTF-8 boundary; about two thousand characters already give a stable
// profile. Zero means no limit.
func WithMaxBytes(n int) Option {
	return func(id *Identifier) { id.maxBytes = n }
}

// WithNormalize selects probability confidences (the default) or raw
// Naive Bayes log-scores.
func WithNormalize(normalize bool) Option {
	return func(id *Identifier) { id.normalize = normalize }
}

// FromModel creates an Identifier over m.
func FromModel(m *model.Model, opts ...Option) *Identifier {
	id := &Identifier{model: m, normalize: true}
	for _, opt := range opts {
		opt(id)
	}
	id.pool.New = func() any { return classifier.NewSession(id.model) }
	return id
}

// Load creates an Identifier from a model file.
func Load(path string, opts ...Option) (*Identifier, error) {
	m, err := modelfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("langid: %w", err)
	}
	return FromModel(m, opts...), nil
}

// New loads the model named by $LANGID_MODEL or, failing that, the first of
// ModelNames found in the current directory, its parents up to the module
// root, or ModelDir.
func New(opts ...Option) (*Identifier, error) {
	path, err := FindModel()
	if err != nil {
		return nil, fmt.Errorf("langid: %w", err)
	}
	return Load(path, opts...)
}

// ErrModelNotFound is returned by FindModel when no model file exists.
var ErrModelNotFound = errors.New("model file not found")

// FindModel returns the path New would load.
func FindModel() (string, error) {
	if p := os.Getenv(ModelEnv); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s: %w", ModelEnv, err)
		}
		return p, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if p, ok := firstExisting(dir); ok {
			return p, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if p, ok := firstExisting(ModelDir()); ok {
		return p, nil
	}
	return "", ErrModelNotFound
}

func firstExisting(dir string) (string, bool) {
	for _, name := range ModelNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// ModelDir returns the per-user directory for downloaded models.
func ModelDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "langid")
	}
	return filepath.Join(os.TempDir(), "langid")
}

// Model returns the identifier's model.
func (id *Identifier) Model() *model.Model {
	return id.model
}

// Languages returns the language codes the identifier can detect.
func (id *Identifier) Languages() []string {
	return id.model.Languages()
}

// DetectOnly returns an Identifier restricted to langs. At least two of them
// must be known to the model.
func (id *Identifier) DetectOnly(langs ...string) (*Identifier, error) {
	sub, err := id.model.Subset(langs)
	if err != nil {
		return nil, fmt.Errorf("langid: %w", err)
	}
	return FromModel(sub, WithMaxBytes(id.maxBytes), WithNormalize(id.normalize)), nil
}

// NewSession returns a session over the identifier's model for streaming use.
func (id *Identifier) NewSession() *classifier.Session {
	return classifier.NewSession(id.model)
}

func (id *Identifier) acquire() *classifier.Session {
	return id.pool.Get().(*classifier.Session)
}

func (id *Identifier) release(s *classifier.Session) {
	id.pool.Put(s)
}

// Detect returns the most likely language of text.
func (id *Identifier) Detect(text string) Detected {
	s := id.acquire()
	defer id.release(s)
	return s.ClassifyString(textutil.Truncate(text, id.maxBytes), id.normalize)
}

// DetectBytes returns the most likely language of UTF-8 encoded p.
func (id *Identifier) DetectBytes(p []byte) Detected {
	s := id.acquire()
	defer id.release(s)
	return s.ClassifyBytes(textutil.TruncateBytes(p, id.maxBytes), id.normalize)
}

// Rank returns every language with its confidence for text, most likely
// first. Equal confidences keep model order. The slice is owned by the caller.
func (id *Identifier) Rank(text string) []Detected {
	s := id.acquire()
	defer id.release(s)
	s.Reset()
	s.AppendString(textutil.Truncate(text, id.maxBytes))
	ranks := slices.Clone(s.Rank(id.normalize))
	slices.SortStableFunc(ranks, func(a, b Detected) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	return ranks
}

// DetectAll detects the language of every text using up to workers
// goroutines (GOMAXPROCS if workers <= 0). Results are in input order. It
// stops early and returns ctx's error if ctx is cancelled.
func (id *Identifier) DetectAll(ctx context.Context, texts []string, workers int) ([]Detected, error) {
	out := make([]Detected, len(texts))
	err := id.forEach(ctx, len(texts), workers, func(s *classifier.Session, i int) {
		out[i] = s.ClassifyString(textutil.Truncate(texts[i], id.maxBytes), id.normalize)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// forEach calls fn for every index in [0, n), spreading contiguous chunks
// over workers that each own one session.
func (id *Identifier) forEach(ctx context.Context, n, workers int, fn func(*classifier.Session, int)) error {
	if n == 0 {
		return ctx.Err()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			s := id.acquire()
			defer id.release(s)
			for i := start; i < end; i++ {
				if (i-start)%256 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				fn(s, i)
			}
			return nil
		})
	}
	return g.Wait()
}
