package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bgricker/apismoke/internal/registry"
	"github.com/bgricker/apismoke/internal/report"
)

// JSONRenderer emits structured report data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Render encodes the report document.
func (j *JSONRenderer) Render(doc report.Document) error {
	return encode(j.out, doc)
}

// RenderList encodes the registry with its warnings.
func (j *JSONRenderer) RenderList(set registry.Set) error {
	return encode(j.out, set)
}

// WriteReportFile writes doc to path, creating parent directories and replacing any
// existing file.
func WriteReportFile(path string, doc report.Document) error {
	var buf bytes.Buffer
	if err := encode(&buf, doc); err != nil {
		return fmt.Errorf("encode report %q: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report %q: %w", path, err)
	}
	return nil
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
