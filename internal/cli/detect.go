package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/happyhackingspace/langid"
	"github.com/happyhackingspace/langid/internal/htmlutil"
	"github.com/happyhackingspace/langid/internal/textutil"
)

type detectOptions struct {
	identifierOptions
	rank    bool
	lines   bool
	html    bool
	nfc     bool
	jsonOut bool
	charset string
	workers int
}

// input is a document read from a URL, a file or stdin.
type input struct {
	source      string
	contentType string
	data        []byte
	utf8        bool // already converted to UTF-8
}

type detectResult struct {
	Source     string            `json:"source"`
	Lang       string            `json:"lang"`
	Confidence float64           `json:"confidence"`
	Declared   string            `json:"declared,omitempty"`
	Ranking    []langid.Detected `json:"ranking,omitempty"`
}

type lineResult struct {
	Line       int     `json:"line"`
	Lang       string  `json:"lang"`
	Confidence float64 `json:"confidence"`
	Text       string  `json:"text"`
}

var errNoInput = errors.New("no input")

func (c *CLI) newDetectCommand() *cobra.Command {
	var o detectOptions

	cmd := &cobra.Command{
		Use:   "detect [url-or-file]",
		Short: "Identify the language of a URL, a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Detect the language of a sentence
  echo "W Szczebrzeszynie chrząszcz brzmi w trzcinie" | langid detect

  # Detect the language of a web page
  langid detect https://www.lemonde.fr

  # Show every language with its probability
  langid detect article.txt --rank

  # One result per line, as JSON
  langid detect sentences.txt --lines --json

  # Only consider a few languages
  langid detect notes.txt --langs en,de,fr

  # Decode a legacy encoding first
  langid detect old.txt --charset windows-1250

  # Use a custom model file
  langid detect notes.txt --model langid.model.lzma`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if errors.Is(err, errNoInput) {
				return cmd.Help()
			}
			if err != nil {
				return err
			}
			slog.Debug("Input read", "source", in.source, "bytes", len(in.data))

			text, declared, err := o.extractText(in)
			if err != nil {
				return err
			}

			id, err := c.loadIdentifier(o.identifierOptions)
			if err != nil {
				return err
			}
			if o.workers == 0 {
				o.workers = c.config.Workers
			}

			start := time.Now()
			defer func() { slog.Debug("Detection completed", "duration", time.Since(start)) }()
			if o.lines {
				return o.detectLines(cmd, id, text)
			}
			return o.detectDocument(cmd, id, in.source, text, declared)
		},
	}

	cmd.Flags().StringVar(&o.modelPath, "model", "", "Path to model file (default: config, $LANGID_MODEL or auto-detect)")
	cmd.Flags().StringSliceVar(&o.langs, "langs", nil, "Only consider these languages (comma-separated)")
	cmd.Flags().IntVar(&o.maxBytes, "max-bytes", 0, "Classify at most this many bytes per document (0: config default)")
	cmd.Flags().BoolVar(&o.raw, "raw", false, "Report raw log-scores instead of probabilities")
	cmd.Flags().BoolVar(&o.rank, "rank", false, "Show every language ranked by confidence")
	cmd.Flags().BoolVar(&o.lines, "lines", false, "Classify every non-empty line separately")
	cmd.Flags().BoolVar(&o.html, "html", false, "Treat input as HTML and classify its visible text")
	cmd.Flags().BoolVar(&o.nfc, "nfc", false, "Apply Unicode NFC normalization before classifying")
	cmd.Flags().StringVar(&o.charset, "charset", "", "Character set of the input (e.g. latin1, windows-1250)")
	cmd.Flags().BoolVar(&o.jsonOut, "json", false, "Print results as JSON")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "Concurrent classifiers for --lines (0: config default or all CPUs)")
	return cmd
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func readInput(cmd *cobra.Command, args []string) (*input, error) {
	if len(args) == 1 {
		return readTarget(args[0])
	}

	stdin := cmd.InOrStdin()
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errNoInput
	}
	slog.Debug("Reading from stdin")
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}
	if trimmed := string(bytes.TrimSpace(data)); isURL(trimmed) && !strings.ContainsAny(trimmed, " \n") {
		slog.Debug("Stdin contains URL", "url", trimmed)
		return readTarget(trimmed)
	}
	return &input{source: "stdin", data: data}, nil
}

func readTarget(target string) (*input, error) {
	if isURL(target) {
		slog.Debug("Fetching", "url", target)
		page, err := htmlutil.Fetch(target)
		if err != nil {
			return nil, err
		}
		return &input{
			source:      target,
			contentType: page.ContentType,
			data:        page.Body,
			utf8:        htmlutil.IsHTML(page.ContentType),
		}, nil
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return &input{source: target, data: data}, nil
}

// extractText turns the input into UTF-8 text, reducing HTML to its visible
// text. It also returns the language declared by an HTML document, if any.
func (o *detectOptions) extractText(in *input) (string, string, error) {
	data := in.data
	if o.charset != "" && !in.utf8 {
		decoded, err := textutil.Decode(data, o.charset)
		if err != nil {
			return "", "", err
		}
		data, in.utf8 = decoded, true
	}

	var text, declared string
	if o.html || htmlutil.IsHTML(in.contentType) || htmlutil.IsHTML(in.source) {
		load := htmlutil.LoadHTML
		if !in.utf8 {
			load = func(r io.Reader) (*goquery.Document, error) {
				return htmlutil.LoadHTMLCharset(r, in.contentType)
			}
		}
		doc, err := load(bytes.NewReader(data))
		if err != nil {
			return "", "", fmt.Errorf("parse HTML: %w", err)
		}
		text = htmlutil.VisibleText(doc)
		declared = htmlutil.DeclaredLang(doc)
		slog.Debug("Extracted visible text", "bytes", len(text), "declared", declared)
	} else {
		text = string(data)
	}

	if o.nfc {
		text = textutil.NFC(text)
	}
	return text, declared, nil
}

func (o *detectOptions) detectDocument(cmd *cobra.Command, id *langid.Identifier, source, text, declared string) error {
	res := detectResult{Source: source, Declared: declared}
	if o.rank {
		res.Ranking = id.Rank(text)
		res.Lang, res.Confidence = res.Ranking[0].Lang, res.Ranking[0].Confidence
	} else {
		d := id.Detect(text)
		res.Lang, res.Confidence = d.Lang, d.Confidence
	}
	if declared != "" && declared != res.Lang {
		slog.Info("Declared language differs", "declared", declared, "detected", res.Lang)
	}

	out := cmd.OutOrStdout()
	if o.jsonOut {
		output, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}
	if !o.rank {
		fmt.Fprintf(out, "%s\t%s\n", langColor.Sprint(res.Lang), o.formatConfidence(res.Confidence))
		return nil
	}
	for _, d := range res.Ranking {
		fmt.Fprintf(out, "%s\t%s\n", langColor.Sprint(d.Lang), o.formatConfidence(d.Confidence))
	}
	return nil
}

func (o *detectOptions) detectLines(cmd *cobra.Command, id *langid.Identifier, text string) error {
	var texts []string
	var lineNos []int
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		texts = append(texts, line)
		lineNos = append(lineNos, i+1)
	}

	detected, err := id.DetectAll(cmd.Context(), texts, o.workers)
	if err != nil {
		return err
	}
	slog.Debug("Lines classified", "lines", len(texts), "workers", o.workers)

	out := cmd.OutOrStdout()
	if o.jsonOut {
		enc := json.NewEncoder(out)
		for i, d := range detected {
			if err := enc.Encode(lineResult{Line: lineNos[i], Lang: d.Lang, Confidence: d.Confidence, Text: texts[i]}); err != nil {
				return err
			}
		}
		return nil
	}
	for i, d := range detected {
		fmt.Fprintf(out, "%s\t%s\t%s\n", langColor.Sprint(d.Lang), o.formatConfidence(d.Confidence), texts[i])
	}
	return nil
}

func (o *detectOptions) formatConfidence(conf float64) string {
	if o.raw {
		return fmt.Sprintf("%.2f", conf)
	}
	s := fmt.Sprintf("%.4f", conf)
	if conf < 0.5 {
		return warnColor.Sprint(s)
	}
	return s
}
