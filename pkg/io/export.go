package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/potentials/pkg/transport"
)

// WriteProblemJSON encodes p as indented JSON.
func WriteProblemJSON(p transport.Problem, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteProblemTOML encodes p as TOML.
func WriteProblemTOML(p transport.Problem, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportProblem writes p to path in the format given by its extension.
func ExportProblem(p transport.Problem, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if format == FormatTOML {
		return WriteProblemTOML(p, f)
	}
	return WriteProblemJSON(p, f)
}
