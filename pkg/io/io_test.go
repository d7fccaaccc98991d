package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/potentials/pkg/errors"
	"github.com/matzehuels/potentials/pkg/transport"
)

const classicTOML = `
costs  = [[3, 3, 1], [9, 2, 2], [5, 7, 6]]
supply = [40, 60, 50]
demand = [30, 30, 40]
`

const classicJSON = `{"costs": [[3, 3, 1], [9, 2, 2], [5, 7, 6]], "supply": [40, 60, 50], "demand": [30, 30, 40]}`

func TestReadProblem(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"toml", classicTOML, FormatTOML},
		{"json", classicJSON, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ReadProblem(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadProblem: %v", err)
			}
			if p.Rows() != 3 || p.Cols() != 3 {
				t.Errorf("shape = %dx%d, want 3x3", p.Rows(), p.Cols())
			}
			if p.Costs[1][0] != 9 || p.Supply[2] != 50 || p.Demand[2] != 40 {
				t.Errorf("decoded %+v", p)
			}
		})
	}
}

func TestReadProblemErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		code   apperrors.Code
	}{
		{"malformed json", `{"costs": [`, FormatJSON, apperrors.ErrCodeInvalidFormat},
		{"unknown json field", `{"costs": [[1]], "supply": [1], "demand": [1], "suply": [1]}`, FormatJSON, apperrors.ErrCodeInvalidFormat},
		{"malformed toml", `costs = [[1`, FormatTOML, apperrors.ErrCodeInvalidFormat},
		{"unknown toml key", "costs = [[1]]\nsupply = [1]\ndemand = [1]\nextra = 1\n", FormatTOML, apperrors.ErrCodeInvalidFormat},
		{"unknown format", classicJSON, Format("yaml"), apperrors.ErrCodeInvalidFormat},
		{"invalid problem", `{"costs": [[1, 2]], "supply": [1], "demand": [1]}`, FormatJSON, apperrors.ErrCodeInvalidProblem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadProblem(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"p.toml":     FormatTOML,
		"dir/P.JSON": FormatJSON,
		"a.b.c.toml": FormatTOML,
	} {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("problem.yaml"); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("yaml extension: err = %v", err)
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	p := transport.Problem{
		Costs:  [][]int64{{2, 4}, {3, 1}},
		Supply: []int64{10, 10},
		Demand: []int64{15, 15},
	}
	dir := t.TempDir()
	for _, name := range []string{"p.json", "p.toml"} {
		path := filepath.Join(dir, name)
		if err := ExportProblem(p, path); err != nil {
			t.Fatalf("ExportProblem(%s): %v", name, err)
		}
		got, err := ImportProblem(path)
		if err != nil {
			t.Fatalf("ImportProblem(%s): %v", name, err)
		}
		if got.Costs[1][1] != 1 || got.Demand[1] != 15 || got.Supply[0] != 10 {
			t.Errorf("%s round trip = %+v", name, got)
		}
	}
}

func TestImportProblemMissingFile(t *testing.T) {
	_, err := ImportProblem(filepath.Join(t.TempDir(), "missing.toml"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteProblemJSON(t *testing.T) {
	p, _ := ParseProblem([]byte(classicTOML), FormatTOML)
	var buf bytes.Buffer
	if err := WriteProblemJSON(p, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"supply": [`) {
		t.Errorf("unexpected JSON:\n%s", buf.String())
	}
	if _, err := ParseProblem(buf.Bytes(), FormatJSON); err != nil {
		t.Errorf("output does not parse back: %v", err)
	}
}
