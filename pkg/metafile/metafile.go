// Package metafile reads and patches esbuild's JSON build report.
//
// esbuild only accounts for files it emits itself. The sprite is written
// after the pass, so its entry is appended here. Every other key in the
// report is carried through untouched.
package metafile

import (
	"encoding/json"

	"github.com/matzehuels/svgbundle/pkg/errors"
)

// Metafile represents the esbuild metafile JSON structure.
type Metafile struct {
	Inputs  map[string]Input  `json:"inputs"`
	Outputs map[string]Output `json:"outputs"`
}

// Input represents an input file in the metafile.
type Input struct {
	Bytes   int      `json:"bytes"`
	Imports []Import `json:"imports"`
	Format  string   `json:"format,omitempty"`
}

// Import represents an import in the metafile.
type Import struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
	Original string `json:"original,omitempty"`
}

// Output represents an output file in the metafile.
type Output struct {
	Bytes      int                     `json:"bytes"`
	Inputs     map[string]InputContrib `json:"inputs"`
	Imports    []Import                `json:"imports"`
	Exports    []string                `json:"exports"`
	EntryPoint string                  `json:"entryPoint,omitempty"`
}

// InputContrib represents the contribution of an input to an output.
type InputContrib struct {
	BytesInOutput int `json:"bytesInOutput"`
}

// Parse decodes a metafile.
func Parse(data string) (*Metafile, error) {
	var m Metafile
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode metafile")
	}
	return &m, nil
}

// LeafOutput builds the entry for an emitted asset that imports and exports
// nothing.
func LeafOutput(size int, inputs map[string]int) Output {
	contrib := make(map[string]InputContrib, len(inputs))
	for path, n := range inputs {
		contrib[path] = InputContrib{BytesInOutput: n}
	}
	return Output{
		Bytes:   size,
		Inputs:  contrib,
		Imports: []Import{},
		Exports: []string{},
	}
}

// AddOutput returns data with out recorded under outputs[path]. An existing
// entry for the same path is replaced. Unknown fields of the report and of
// the other entries are preserved byte for byte.
func AddOutput(data, path string, out Output) (string, error) {
	top := map[string]json.RawMessage{}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &top); err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode metafile")
		}
	}

	outputs := map[string]json.RawMessage{}
	if raw, ok := top["outputs"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &outputs); err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode metafile outputs")
		}
	}
	if _, ok := top["inputs"]; !ok {
		top["inputs"] = json.RawMessage("{}")
	}

	entry, err := json.Marshal(out)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode output %s", path)
	}
	outputs[path] = entry

	if top["outputs"], err = json.Marshal(outputs); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode metafile outputs")
	}
	patched, err := json.Marshal(top)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode metafile")
	}
	return string(patched), nil
}
