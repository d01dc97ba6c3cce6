package cli

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/langid"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	var o identifierOptions
	var workers int
	var domains bool

	cmd := &cobra.Command{
		Use:   "evaluate <test-file>",
		Short: "Measure accuracy on a labeled test file",
		Long: `Measure accuracy on a labeled test file.

Every line of the test file is "lang<TAB>text" or "lang<TAB>url<TAB>text".
Blank lines and lines starting with # are skipped. Files ending in .gz are
decompressed.`,
		Example: `  langid evaluate europarl.test
  langid evaluate europarl.test --langs en,de,fr --workers 8
  langid evaluate crawl.tsv.gz --domains`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.loadIdentifier(o)
			if err != nil {
				return err
			}
			if workers == 0 {
				workers = c.config.Workers
			}

			slog.Info("Evaluating", "file", args[0], "workers", workers)
			start := time.Now()
			result, err := langid.Evaluate(cmd.Context(), id, args[0], &langid.EvalConfig{
				Workers: workers,
				Verbose: c.verbose,
			})
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Accuracy: %.2f%% (%d/%d)\n", result.Accuracy*100, result.Correct, result.Total)
			fmt.Fprintf(out, "Speed: %.0f docs/s (%s)\n", result.DocsPerSec, result.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "Macro F1: %.1f%%\n", result.MacroF1*100)
			printConfusionMatrix(out, result.Confusion, slices.Clone(result.Classes))
			printClassReport(out, result.Confusion, result.Classes, result.Precision, result.Recall, result.F1)
			if domains {
				printDomainReport(out, result.Domains)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&o.modelPath, "model", "", "Path to model file (default: config, $LANGID_MODEL or auto-detect)")
	cmd.Flags().StringSliceVar(&o.langs, "langs", nil, "Only consider these languages (comma-separated)")
	cmd.Flags().IntVar(&o.maxBytes, "max-bytes", 0, "Classify at most this many bytes per document (0: config default)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent classifiers (0: config default or all CPUs)")
	cmd.Flags().BoolVar(&domains, "domains", false, "Print accuracy per source domain")
	return cmd
}

func printClassReport(w io.Writer, confusion map[string]map[string]int, classes []string, precision, recall, f1 map[string]float64) {
	fmt.Fprintf(w, "\nPer-class metrics:\n")
	fmt.Fprintf(w, "%8s  %6s  %6s  %6s  %7s\n", "class", "prec", "recall", "f1", "support")
	for _, cls := range classes {
		support := 0
		for _, v := range confusion[cls] {
			support += v
		}
		fmt.Fprintf(w, "%8s  %5.1f%%  %5.1f%%  %5.1f%%  %7d\n",
			cls, precision[cls]*100, recall[cls]*100, f1[cls]*100, support)
	}
}

func printConfusionMatrix(w io.Writer, confusion map[string]map[string]int, classes []string) {
	if len(confusion) == 0 {
		return
	}

	sort.SliceStable(classes, func(i, j int) bool {
		ti, tj := 0, 0
		for _, v := range confusion[classes[i]] {
			ti += v
		}
		for _, v := range confusion[classes[j]] {
			tj += v
		}
		return ti > tj
	})

	fmt.Fprintf(w, "\nConfusion matrix (rows=true, cols=predicted):\n")
	fmt.Fprintf(w, "%8s", "")
	for _, c := range classes {
		fmt.Fprintf(w, " %5s", c)
	}
	fmt.Fprintf(w, "  total  acc%%\n")

	for _, trueClass := range classes {
		fmt.Fprintf(w, "%8s", trueClass)
		total := 0
		correct := 0
		for _, predClass := range classes {
			count := confusion[trueClass][predClass]
			total += count
			if trueClass == predClass {
				correct = count
			}
			if count == 0 {
				fmt.Fprintf(w, " %5s", ".")
			} else {
				fmt.Fprintf(w, " %5d", count)
			}
		}
		acc := 0.0
		if total > 0 {
			acc = float64(correct) / float64(total) * 100
		}
		fmt.Fprintf(w, "  %5d %5.1f\n", total, acc)
	}
}

func printDomainReport(w io.Writer, domains map[string]langid.DomainResult) {
	if len(domains) == 0 {
		fmt.Fprintf(w, "\nNo documents carry a URL.\n")
		return
	}
	names := slices.Sorted(maps.Keys(domains))
	sort.SliceStable(names, func(i, j int) bool {
		return domains[names[i]].Total > domains[names[j]].Total
	})

	fmt.Fprintf(w, "\nPer-domain accuracy:\n")
	fmt.Fprintf(w, "%-24s  %6s  %7s\n", "domain", "acc", "docs")
	for _, name := range names {
		d := domains[name]
		fmt.Fprintf(w, "%-24s  %5.1f%%  %7d\n", name, d.Accuracy*100, d.Total)
	}
}
