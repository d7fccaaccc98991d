package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/potentials/pkg/errors"
	"github.com/matzehuels/potentials/pkg/transport"
)

// Format is a problem file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported problem file extension %q (want .toml or .json)", ext)
	}
}

// ReadProblem decodes and validates a problem. Unknown fields are rejected
// so that typos such as "suply" do not silently produce an empty vector.
func ReadProblem(r io.Reader, format Format) (transport.Problem, error) {
	var p transport.Problem
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return p, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode JSON problem")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&p)
		if err != nil {
			return p, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode TOML problem")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return p, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown key %q in problem", undecoded[0].String())
		}
	default:
		return p, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown problem format %q", format)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// ParseProblem is [ReadProblem] over a byte slice.
func ParseProblem(data []byte, format Format) (transport.Problem, error) {
	return ReadProblem(bytes.NewReader(data), format)
}

// ImportProblem reads the problem file at path.
func ImportProblem(path string) (transport.Problem, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return transport.Problem{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return transport.Problem{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "problem file %s", path)
	}
	if err != nil {
		return transport.Problem{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p, err := ReadProblem(f, format)
	if err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
