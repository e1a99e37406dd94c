package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Complex is a complex128 wire value, marshaled as a {re, im} mapping
// rather than relying on yaml.v3's (nonexistent) native complex support.
type Complex complex128

// MarshalYAML implements yaml.Marshaler.
func (c Complex) MarshalYAML() (interface{}, error) {
	return struct {
		Re float64 `yaml:"re"`
		Im float64 `yaml:"im"`
	}{real(complex128(c)), imag(complex128(c))}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Complex) UnmarshalYAML(value *yaml.Node) error {
	var pair struct {
		Re float64 `yaml:"re"`
		Im float64 `yaml:"im"`
	}
	if err := value.Decode(&pair); err != nil {
		return err
	}
	*c = Complex(complex(pair.Re, pair.Im))
	return nil
}

// Result is the output document: one entry per requested density subset,
// each a time series (index 0 is the initial state, index i the state
// after step i) of row-major complex matrices.
type Result [][][]Complex

// WriteResult serializes densities -- one []complex128 row-major matrix
// per (subset, time index) pair -- to path as YAML.
func WriteResult(path string, densities [][][]complex128) error {
	result := make(Result, len(densities))
	for i, series := range densities {
		result[i] = make([][]Complex, len(series))
		for j, mat := range series {
			row := make([]Complex, len(mat))
			for k, v := range mat {
				row[k] = Complex(v)
			}
			result[i][j] = row
		}
	}
	data, err := yaml.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "marshaling result")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing result %q", path)
	}
	return nil
}
