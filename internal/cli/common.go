package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/happyhackingspace/langid"
)

var (
	langColor  = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow)
	faintColor = color.New(color.Faint)
)

// identifierOptions selects and configures the model for a command. Zero
// values fall back to the config file.
type identifierOptions struct {
	modelPath string
	langs     []string
	maxBytes  int
	raw       bool
}

func (c *CLI) loadIdentifier(o identifierOptions) (*langid.Identifier, error) {
	if o.modelPath == "" {
		o.modelPath = c.config.Model
	}
	if len(o.langs) == 0 {
		o.langs = c.config.Languages
	}
	if o.maxBytes == 0 {
		o.maxBytes = c.config.MaxBytes
	}
	opts := []langid.Option{
		langid.WithMaxBytes(o.maxBytes),
		langid.WithNormalize(c.config.Normalize && !o.raw),
	}

	start := time.Now()
	var id *langid.Identifier
	var err error
	if o.modelPath != "" {
		slog.Debug("Loading custom model", "path", o.modelPath)
		id, err = langid.Load(o.modelPath, opts...)
	} else {
		id, err = langid.New(opts...)
		if errors.Is(err, langid.ErrModelNotFound) {
			err = fmt.Errorf("%w: pass --model, set $%s or run 'langid model download <url>'", err, langid.ModelEnv)
		}
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("Model loaded", "languages", len(id.Languages()), "duration", time.Since(start))

	if len(o.langs) > 0 {
		if id, err = id.DetectOnly(o.langs...); err != nil {
			return nil, err
		}
		slog.Debug("Restricted to languages", "languages", o.langs)
	}
	return id, nil
}
