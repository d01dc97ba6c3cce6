// Package fixture builds small, deterministic language identification models
// for tests. Features are all byte n-grams (1..MaxN) seen in the corpora,
// recognized by an Aho-Corasick automaton, with Laplace-smoothed Naive Bayes
// weights.
package fixture

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"fortio.org/safecast"

	"github.com/happyhackingspace/langid/model"
)

// Language is a labelled training corpus.
type Language struct {
	Code  string
	Texts []string
}

// Config controls model building.
type Config struct {
	MaxN  int     // longest n-gram in bytes
	Alpha float64 // additive smoothing
}

// DefaultConfig returns the configuration used by Default.
func DefaultConfig() Config {
	return Config{MaxN: 3, Alpha: 0.5}
}

var (
	defaultOnce  sync.Once
	defaultModel *model.Model
)

// Default returns a model trained on Corpora with DefaultConfig. It is built
// once and shared.
func Default() *model.Model {
	defaultOnce.Do(func() {
		m, err := Build(Corpora(), DefaultConfig())
		if err != nil {
			panic(err)
		}
		defaultModel = m
	})
	return defaultModel
}

// Build trains a model over langs, keeping their order as class order.
func Build(langs []Language, cfg Config) (*model.Model, error) {
	if cfg.MaxN < 1 {
		cfg.MaxN = 1
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = 1
	}

	vocab := ngramVocabulary(langs, cfg.MaxN)
	trie := newTrie(vocab)
	transitions, outputs, err := trie.compile()
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(langs))
	docs := make([]float64, len(langs))
	totalDocs := 0.0
	for c, l := range langs {
		labels[c] = l.Code
		docs[c] = float64(len(l.Texts))
		totalDocs += docs[c]
	}

	numFeatures := len(vocab)
	raw := model.Raw{
		Labels:         labels,
		ClassPrior:     make([]float64, len(langs)),
		FeatureLogProb: make([]float64, len(langs)*numFeatures),
		Transitions:    transitions,
		StateFeatures:  outputs,
	}

	// Counting goes through the same automaton used at inference time.
	counting, err := model.New(model.Raw{
		Labels:         append(labels[:0:0], labels...),
		ClassPrior:     make([]float64, len(langs)),
		FeatureLogProb: make([]float64, len(langs)*numFeatures),
		Transitions:    transitions,
		StateFeatures:  outputs,
	})
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}

	for c, l := range langs {
		counts := make(denseCounts, numFeatures)
		for _, text := range l.Texts {
			model.Walk(counting, text, counts)
		}
		total := 0.0
		for _, n := range counts {
			total += n
		}
		denom := math.Log(total + cfg.Alpha*float64(numFeatures))
		row := raw.FeatureLogProb[c*numFeatures : (c+1)*numFeatures]
		for f, n := range counts {
			row[f] = math.Log(n+cfg.Alpha) - denom
		}
		raw.ClassPrior[c] = math.Log(docs[c] / totalDocs)
	}

	return model.New(raw)
}

type denseCounts []float64

func (d denseCounts) Increment(f int) { d[f]++ }

func ngramVocabulary(langs []Language, maxN int) []string {
	set := make(map[string]struct{})
	for _, l := range langs {
		for _, text := range l.Texts {
			for n := 1; n <= maxN; n++ {
				for i := 0; i+n <= len(text); i++ {
					set[text[i:i+n]] = struct{}{}
				}
			}
		}
	}
	vocab := make([]string, 0, len(set))
	for g := range set {
		vocab = append(vocab, g)
	}
	sort.Strings(vocab)
	return vocab
}

type trieNode struct {
	next    map[byte]int
	fail    int
	feature int // -1 unless the node spells a vocabulary entry
	out     []int
}

type trie struct {
	nodes []trieNode
}

func newTrie(vocab []string) *trie {
	t := &trie{nodes: []trieNode{{next: map[byte]int{}, feature: -1}}}
	for f, g := range vocab {
		cur := 0
		for i := 0; i < len(g); i++ {
			nx, ok := t.nodes[cur].next[g[i]]
			if !ok {
				nx = len(t.nodes)
				t.nodes = append(t.nodes, trieNode{next: map[byte]int{}, feature: -1})
				t.nodes[cur].next[g[i]] = nx
			}
			cur = nx
		}
		t.nodes[cur].feature = f
	}
	return t
}

// compile turns the trie into a total DFA whose state outputs are all
// vocabulary entries that are suffixes of the input read so far.
func (t *trie) compile() ([]uint16, [][]int, error) {
	numStates := len(t.nodes)
	if _, err := safecast.Conv[uint16](numStates - 1); err != nil {
		return nil, nil, fmt.Errorf("fixture: %d states do not fit the transition table: %w", numStates, err)
	}
	delta := make([]int, numStates*model.Alphabet)

	queue := make([]int, 0, numStates)
	for b := 0; b < model.Alphabet; b++ {
		if nx, ok := t.nodes[0].next[byte(b)]; ok {
			t.nodes[nx].fail = 0
			delta[b] = nx
			queue = append(queue, nx)
		}
	}
	t.nodes[0].out = nil

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		node := &t.nodes[u]
		if node.feature >= 0 {
			node.out = append(node.out, node.feature)
		}
		node.out = append(node.out, t.nodes[node.fail].out...)

		for b := 0; b < model.Alphabet; b++ {
			if nx, ok := node.next[byte(b)]; ok {
				t.nodes[nx].fail = delta[node.fail*model.Alphabet+b]
				delta[u*model.Alphabet+b] = nx
				queue = append(queue, nx)
			} else {
				delta[u*model.Alphabet+b] = delta[node.fail*model.Alphabet+b]
			}
		}
	}

	transitions := make([]uint16, len(delta))
	for i, s := range delta {
		transitions[i] = uint16(s)
	}
	outputs := make([][]int, numStates)
	for i := range t.nodes {
		if len(t.nodes[i].out) > 0 {
			outputs[i] = t.nodes[i].out
		}
	}
	return transitions, outputs, nil
}
