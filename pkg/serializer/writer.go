package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"
)

// Writer serializes values to an io.Writer. Field names follow the json tags of
// the value, so Kubernetes objects render the way kubectl prints them.
type Writer struct {
	format Format
	out    io.Writer
}

// NewWriter returns a Writer for format. Unknown formats fall back to JSON and
// a nil out falls back to stdout.
func NewWriter(format Format, out io.Writer) *Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	if out == nil {
		out = os.Stdout
	}
	return &Writer{format: format, out: out}
}

// Serialize writes v in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize to json: %w", err)
	}

	if w.format == FormatYAML {
		data, err = yaml.JSONToYAML(data)
		if err != nil {
			return fmt.Errorf("failed to convert to yaml: %w", err)
		}
	} else {
		data = append(data, '\n')
	}

	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
