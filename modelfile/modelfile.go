// Package modelfile reads and writes language identification models.
//
// Three encodings are supported, each optionally wrapped in gzip, xz or
// legacy LZMA compression:
//
//	model.json       JSON encoding of model.Raw
//	model.msgpack    MessagePack encoding of model.Raw (also .mp)
//	model.txt        langid.py "key=value" dump (also .model)
//	model.txt.lzma   any of the above, LZMA compressed (also .gz, .xz)
//
// The format is chosen from the file name.
package modelfile

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/happyhackingspace/langid/model"
)

// Format is a model encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	case FormatText:
		return "text"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Compression is an outer compression layer.
type Compression int

const (
	None Compression = iota
	Gzip
	XZ
	LZMA
)

// ErrUnknownFormat is returned for file names without a recognized extension.
var ErrUnknownFormat = errors.New("unknown model format")

// Detect derives the format and compression of a model file from its name.
func Detect(path string) (Format, Compression, error) {
	name := strings.ToLower(filepath.Base(path))
	comp := None
	switch ext := filepath.Ext(name); ext {
	case ".gz":
		comp = Gzip
	case ".xz":
		comp = XZ
	case ".lzma":
		comp = LZMA
	}
	if comp != None {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, comp, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, comp, nil
	case ".txt", ".model":
		return FormatText, comp, nil
	}
	return 0, 0, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
}

// Load reads and validates the model stored at path.
func Load(path string) (*model.Model, error) {
	format, comp, err := Detect(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	start := time.Now()
	var src io.Reader = f
	if comp == None {
		// Uncompressed tables are parsed straight from the page cache.
		if info, err := f.Stat(); err == nil && info.Size() > 0 {
			mm, err := mmap.Map(f, mmap.RDONLY, 0)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			defer func() { _ = mm.Unmap() }()
			src = bytes.NewReader(mm)
		}
	}
	r, err := decompress(src, comp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m, err := Read(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("Model loaded", "path", path, "format", format,
		"languages", m.NumClasses(), "features", m.NumFeatures(), "states", m.NumStates(),
		"duration", time.Since(start))
	return m, nil
}

// Read decodes a model in the given format from r.
func Read(r io.Reader, format Format) (*model.Model, error) {
	var raw model.Raw
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&raw)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&raw)
	case FormatText:
		raw, err = readText(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s model: %w", format, err)
	}
	return model.New(raw)
}

// Write encodes m in the given format to w.
func Write(w io.Writer, m *model.Model, format Format) error {
	raw := m.Raw()
	switch format {
	case FormatJSON:
		return json.NewEncoder(w).Encode(raw)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(&raw)
	case FormatText:
		return writeText(w, raw)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// Save writes m to path, choosing format and compression from the file name.
// The file is replaced atomically.
func Save(path string, m *model.Model) error {
	format, comp, err := Detect(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".model-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	w, err := compress(f, comp)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := Write(w, m, format); err != nil {
		_ = w.Close()
		_ = f.Close()
		return fmt.Errorf("encode %s model: %w", format, err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func decompress(r io.Reader, comp Compression) (io.Reader, error) {
	switch comp {
	case Gzip:
		return gzip.NewReader(r)
	case XZ:
		return xz.NewReader(r)
	case LZMA:
		return lzma.NewReader(r)
	default:
		return r, nil
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func compress(w io.Writer, comp Compression) (io.WriteCloser, error) {
	switch comp {
	case Gzip:
		return gzip.NewWriter(w), nil
	case XZ:
		return xz.NewWriter(w)
	case LZMA:
		return lzma.NewWriter(w)
	default:
		return nopCloser{w}, nil
	}
}
