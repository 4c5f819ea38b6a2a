package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputFlag selects how a command prints its result.
type OutputFlag struct {
	Output string `help:"Output format (text, json, yaml)" short:"o" default:"text" enum:"text,json,yaml"`
}

// render writes v as JSON or YAML, or calls text for the human format.
func (o OutputFlag) render(w io.Writer, v any, text func(io.Writer) error) error {
	switch o.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
		return text(w)
	default:
		return fmt.Errorf("unknown output format: %s", o.Output)
	}
}
