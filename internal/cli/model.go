package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/langid"
	"github.com/happyhackingspace/langid/modelfile"
)

func (c *CLI) newModelCommand() *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect, convert, subset and download model files",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info [model-file]",
		Short: "Show the languages and size of a model",
		Args:  cobra.MaximumNArgs(1),
		Example: `  langid model info
  langid model info langid.model.lzma`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.config.Model
			if len(args) == 1 {
				p = args[0]
			}
			if p == "" {
				var err error
				if p, err = langid.FindModel(); err != nil {
					return err
				}
			}
			return modelInfo(cmd.OutOrStdout(), p)
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a model between formats",
		Long: `Convert a model between formats. Formats are chosen by file extension:
.json, .msgpack/.mp and .txt/.model (langid.py dump), optionally followed by
.gz, .xz or .lzma.`,
		Example: `  langid model convert langid.model.lzma langid.msgpack
  langid model convert langid.json langid.json.xz`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertModel(args[0], args[1], nil)
		},
	}

	var langs []string
	subsetCmd := &cobra.Command{
		Use:     "subset <in> <out>",
		Short:   "Write a model restricted to some languages",
		Example: `  langid model subset langid.model.lzma eu.msgpack --langs en,de,fr,it,pl`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(langs) == 0 {
				return fmt.Errorf("--langs is required")
			}
			return convertModel(args[0], args[1], langs)
		},
	}
	subsetCmd.Flags().StringSliceVar(&langs, "langs", nil, "Languages to keep (comma-separated)")

	var dest string
	downloadCmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a model file into the model directory",
		Example: `  langid model download https://example.org/langid.model.lzma
  langid model download https://example.org/langid.msgpack --dest ./models`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dest == "" {
				dest = langid.ModelDir()
			}
			_, err := downloadModel(args[0], dest)
			return err
		},
	}
	downloadCmd.Flags().StringVar(&dest, "dest", "", "Destination directory (default: "+langid.ModelDir()+")")

	modelCmd.AddCommand(infoCmd, convertCmd, subsetCmd, downloadCmd)
	return modelCmd
}

func modelInfo(w io.Writer, p string) error {
	format, comp, err := modelfile.Detect(p)
	if err != nil {
		return err
	}
	m, err := modelfile.Load(p)
	if err != nil {
		return err
	}
	compression := "none"
	switch comp {
	case modelfile.Gzip:
		compression = "gzip"
	case modelfile.XZ:
		compression = "xz"
	case modelfile.LZMA:
		compression = "lzma"
	}

	fmt.Fprintf(w, "%s %s\n", faintColor.Sprint("path:       "), p)
	fmt.Fprintf(w, "%s %s (%s)\n", faintColor.Sprint("format:     "), format, compression)
	fmt.Fprintf(w, "%s %d\n", faintColor.Sprint("languages:  "), m.NumClasses())
	fmt.Fprintf(w, "%s %d\n", faintColor.Sprint("features:   "), m.NumFeatures())
	fmt.Fprintf(w, "%s %d\n", faintColor.Sprint("states:     "), m.NumStates())
	fmt.Fprintf(w, "%s %s\n", faintColor.Sprint("labels:     "), strings.Join(m.Labels(), " "))
	return nil
}

func convertModel(in, out string, langs []string) error {
	start := time.Now()
	m, err := modelfile.Load(in)
	if err != nil {
		return err
	}
	if len(langs) > 0 {
		if m, err = m.Subset(langs); err != nil {
			return err
		}
	}
	if err := modelfile.Save(out, m); err != nil {
		return err
	}
	slog.Info("Model written", "path", out, "languages", m.NumClasses(), "duration", time.Since(start))
	return nil
}

// downloadModel fetches a model file into dir, keeping the file name of the
// URL, and checks that it loads before moving it into place.
func downloadModel(rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	name := path.Base(u.Path)
	if _, _, err := modelfile.Detect(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}
	dest := filepath.Join(dir, name)
	slog.Info("Downloading model", "url", rawURL, "dest", dest)

	resp, err := http.Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("download model: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download model: HTTP %d", resp.StatusCode)
	}

	// The temp name keeps the extensions so that the format can be detected.
	f, err := os.CreateTemp(dir, ".download-*-"+name)
	if err != nil {
		return "", fmt.Errorf("create model file: %w", err)
	}
	defer func() { _ = os.Remove(f.Name()) }()

	written, err := io.Copy(f, resp.Body)
	if err != nil {
		_ = f.Close()
		return "", fmt.Errorf("download model: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if _, err := modelfile.Load(f.Name()); err != nil {
		return "", fmt.Errorf("downloaded model is invalid: %w", err)
	}
	if err := os.Rename(f.Name(), dest); err != nil {
		return "", err
	}

	slog.Info("Model downloaded", "size", fmt.Sprintf("%.1fMB", float64(written)/1024/1024))
	return dest, nil
}
