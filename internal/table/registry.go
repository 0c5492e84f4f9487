package table

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/branchdash/loandash/internal/model"
)

var (
	// ErrUnsupportedFormat means no decoder is registered for the file name.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrCorruptData means the bytes could not be decoded in the implied format.
	ErrCorruptData = errors.New("corrupt data")
)

// Decoder turns file content into raw records. The first record is the header.
type Decoder interface {
	Decode(r io.Reader) ([][]string, error)
	Format() string
}

// Registry maps file extensions to decoders.
type Registry struct {
	decoders map[string]Decoder
	fallback Decoder
}

// NewRegistry creates an empty registry with no fallback. Names whose
// extension is not registered fail with ErrUnsupportedFormat.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register binds an extension (".csv") to d. Panics on duplicate extension.
func (r *Registry) Register(ext string, d Decoder) {
	key := strings.ToLower(ext)
	if _, ok := r.decoders[key]; ok {
		panic("duplicate decoder extension: " + key)
	}
	r.decoders[key] = d
}

// SetFallback sets the decoder used for any unregistered extension.
func (r *Registry) SetFallback(d Decoder) {
	r.fallback = d
}

// Lookup returns the decoder for a file name.
func (r *Registry) Lookup(name string) (Decoder, error) {
	ext := strings.ToLower(path.Ext(name))
	if d, ok := r.decoders[ext]; ok {
		return d, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Parse decodes raw into a typed table using the decoder implied by its name.
func (r *Registry) Parse(raw model.RawFile) (*model.Table, error) {
	d, err := r.Lookup(raw.Name)
	if err != nil {
		return nil, err
	}

	records, err := d.Decode(bytes.NewReader(raw.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s as %s: %v", ErrCorruptData, raw.Name, d.Format(), err)
	}

	t, err := build(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptData, raw.Name, err)
	}
	return t, nil
}

// DefaultRegistry decodes .csv as delimited text and everything else as a
// spreadsheet.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".csv", &CSVDecoder{})
	r.SetFallback(&SpreadsheetDecoder{})
	return r
}

var defaultRegistry = DefaultRegistry()

// Parse decodes raw with the default registry.
func Parse(raw model.RawFile) (*model.Table, error) {
	return defaultRegistry.Parse(raw)
}
