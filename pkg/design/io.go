package design

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrUnknownFormat is returned by [Load] and [Save] for file extensions
// other than .json and .toml.
var ErrUnknownFormat = errors.New("unknown document format")

// ReadJSON decodes a document from r and validates it.
//
// Tagged cells must form one filled rectangle per tag, node home cells must
// lie inside the table and edges must reference declared nodes. A document
// without an ID is accepted; callers that persist it should assign one.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// WriteJSON encodes d as indented JSON.
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadTOML decodes a TOML document from r and validates it like [ReadJSON].
func ReadTOML(r io.Reader) (*Document, error) {
	var d Document
	if _, err := toml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// WriteTOML encodes d as TOML.
func WriteTOML(d *Document, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Load reads the document at path, choosing the format by extension.
func Load(path string) (*Document, error) {
	read, err := readerFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	d, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Save writes d to path, choosing the format by extension.
func Save(d *Document, path string) error {
	var write func(*Document, io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = WriteJSON
	case ".toml":
		write = WriteTOML
	default:
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(d, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readerFor(path string) (func(io.Reader) (*Document, error), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON, nil
	case ".toml":
		return ReadTOML, nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}
