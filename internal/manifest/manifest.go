// Package manifest decodes record files: the normalized list of modules and
// their resolved imports that a bundler integration writes after a build.
//
// A record file is JSON, YAML or TOML, chosen by extension, and may be wrapped
// in zstd (.zst) or gzip (.gz):
//
//	{"modules": [{"path": "src/index.js", "imports": [{"path": "src/a.js", "original": "./a"}]}]}
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"depgraph/internal/graph"
)

// Format is the serialization of a record file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Compression is the optional wrapper around a record file.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionZstd Compression = "zstd"
	CompressionGzip Compression = "gzip"
)

// Document is the root structure of a record file.
type Document struct {
	// Version is the schema version (default: 1)
	Version int `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`

	// Modules are the records, one per bundled module.
	Modules []graph.Record `json:"modules" yaml:"modules" toml:"modules"`
}

// Options configures decoding.
type Options struct {
	// MaxBytes caps the decompressed document size. 0 disables the cap.
	MaxBytes int64
}

// ErrTooLarge is returned when a document exceeds Options.MaxBytes.
type ErrTooLarge struct {
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("record file exceeds %d bytes", e.Limit)
}

// DetectFormat derives format and compression from a file name such as
// "meta.json", "meta.yaml.zst" or "meta.toml.gz".
func DetectFormat(path string) (Format, Compression, error) {
	name := strings.ToLower(filepath.Base(path))

	compression := CompressionNone
	switch {
	case strings.HasSuffix(name, ".zst"):
		compression = CompressionZstd
		name = strings.TrimSuffix(name, ".zst")
	case strings.HasSuffix(name, ".gz"):
		compression = CompressionGzip
		name = strings.TrimSuffix(name, ".gz")
	}

	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, compression, nil
	case ".yaml", ".yml":
		return FormatYAML, compression, nil
	case ".toml":
		return FormatTOML, compression, nil
	default:
		return "", compression, fmt.Errorf("unsupported record file extension: %s", path)
	}
}

// ParseFile reads and decodes a record file from the given path.
func ParseFile(path string, opts Options) (*Document, error) {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f, format, compression, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Decode reads one document from r.
func Decode(r io.Reader, format Format, compression Compression, opts Options) (*Document, error) {
	rc, err := decompress(r, compression)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := readLimited(rc, opts.MaxBytes)
	if err != nil {
		return nil, err
	}

	var doc Document
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if doc.Version < 1 {
		doc.Version = 1 // Default to version 1
	}
	if doc.Modules == nil {
		doc.Modules = []graph.Record{}
	}
	return &doc, nil
}

// Encode writes doc to w in the given format and compression.
func Encode(w io.Writer, doc *Document, format Format, compression Compression) error {
	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatTOML:
		data, err = toml.Marshal(doc)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return err
	}

	switch compression {
	case CompressionNone:
		_, err = w.Write(data)
		return err
	case CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if _, err := enc.Write(data); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	case CompressionGzip:
		gz := gzip.NewWriter(w)
		if _, err := gz.Write(data); err != nil {
			_ = gz.Close()
			return err
		}
		return gz.Close()
	default:
		return fmt.Errorf("unsupported compression %q", compression)
	}
}

// WriteFile encodes doc to path, choosing the format from the extension.
func WriteFile(path string, doc *Document) error {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format, compression); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func decompress(r io.Reader, compression Compression) (io.ReadCloser, error) {
	switch compression {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &ErrTooLarge{Limit: limit}
	}
	return data, nil
}
