package langid

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/happyhackingspace/langid/classifier"
	"github.com/happyhackingspace/langid/internal/corpus"
	"github.com/happyhackingspace/langid/internal/textutil"
)

// EvalConfig configures Evaluate.
type EvalConfig struct {
	Workers int  // concurrent classifiers; GOMAXPROCS when <= 0
	Verbose bool // log every misclassified document
}

// EvalResult holds accuracy metrics over a labeled test file.
type EvalResult struct {
	Correct    int
	Total      int
	Accuracy   float64
	Duration   time.Duration
	DocsPerSec float64

	// Classes lists every label seen in the test file or predicted, sorted.
	Classes []string
	// Confusion[true][predicted] counts documents.
	Confusion map[string]map[string]int
	Precision map[string]float64
	Recall    map[string]float64
	F1        map[string]float64
	MacroF1   float64

	// Domains maps a source site to its accuracy, for documents that carry a URL.
	Domains map[string]DomainResult
}

// DomainResult is the accuracy over documents from one site.
type DomainResult struct {
	Correct  int
	Total    int
	Accuracy float64
}

// Evaluate classifies every document of a tab-separated test file (see
// internal/corpus) and compares the predictions with the gold labels.
func Evaluate(ctx context.Context, id *Identifier, path string, config *EvalConfig) (*EvalResult, error) {
	var cfg EvalConfig
	if config != nil {
		cfg = *config
	}

	docs, err := corpus.Load(path)
	if err != nil {
		return nil, fmt.Errorf("langid: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("langid: no documents found in %s", path)
	}

	start := time.Now()
	predicted := make([]string, len(docs))
	err = id.forEach(ctx, len(docs), cfg.Workers, func(s *classifier.Session, i int) {
		predicted[i] = s.ClassifyString(textutil.Truncate(docs[i].Text, id.maxBytes), id.normalize).Lang
	})
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	result := score(docs, predicted)
	result.Duration = elapsed
	if secs := elapsed.Seconds(); secs > 0 {
		result.DocsPerSec = float64(result.Total) / secs
	}

	if cfg.Verbose {
		for i, d := range docs {
			if predicted[i] != d.Lang {
				slog.Info("Misclassified", "line", d.Line, "want", d.Lang, "got", predicted[i],
					"text", textutil.Truncate(d.Text, 80))
			}
		}
	}
	return result, nil
}

func score(docs []corpus.Document, predicted []string) *EvalResult {
	result := &EvalResult{
		Total:     len(docs),
		Confusion: make(map[string]map[string]int),
		Precision: make(map[string]float64),
		Recall:    make(map[string]float64),
		F1:        make(map[string]float64),
		Domains:   make(map[string]DomainResult),
	}

	seen := make(map[string]bool)
	for i, d := range docs {
		got := predicted[i]
		seen[d.Lang] = true
		seen[got] = true
		if result.Confusion[d.Lang] == nil {
			result.Confusion[d.Lang] = make(map[string]int)
		}
		result.Confusion[d.Lang][got]++

		ok := got == d.Lang
		if ok {
			result.Correct++
		}
		if d.URL != "" {
			dom := result.Domains[corpus.Domain(d.URL)]
			dom.Total++
			if ok {
				dom.Correct++
			}
			result.Domains[corpus.Domain(d.URL)] = dom
		}
	}
	result.Accuracy = float64(result.Correct) / float64(result.Total)
	for k, dom := range result.Domains {
		dom.Accuracy = float64(dom.Correct) / float64(dom.Total)
		result.Domains[k] = dom
	}

	for cls := range seen {
		result.Classes = append(result.Classes, cls)
	}
	slices.Sort(result.Classes)

	var f1Sum float64
	var gold int
	for _, cls := range result.Classes {
		tp := result.Confusion[cls][cls]
		support, predictedAs := 0, 0
		for _, v := range result.Confusion[cls] {
			support += v
		}
		for _, row := range result.Confusion {
			predictedAs += row[cls]
		}
		var p, r, f float64
		if predictedAs > 0 {
			p = float64(tp) / float64(predictedAs)
		}
		if support > 0 {
			r = float64(tp) / float64(support)
		}
		if p+r > 0 {
			f = 2 * p * r / (p + r)
		}
		result.Precision[cls] = p
		result.Recall[cls] = r
		result.F1[cls] = f
		if support > 0 {
			f1Sum += f
			gold++
		}
	}
	if gold > 0 {
		result.MacroF1 = f1Sum / float64(gold)
	}
	return result
}
