// Package config loads and validates the YAML documents that drive a
// bosesim run, and serializes its results back to YAML.
package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ajroetker/bosesim/boson"
)

// HamiltonianTerm is one tensor-product summand of the Hamiltonian as
// written in YAML: a real amplitude, the (possibly unsorted) positions it
// acts on, and one op string per position.
type HamiltonianTerm struct {
	Ampl float64  `yaml:"ampl"`
	Pos  []int    `yaml:"pos"`
	Ops  []string `yaml:"ops"`
}

// Config is the top-level YAML document describing a single run.
type Config struct {
	QubitsPerMode        []int             `yaml:"qubits_per_mode"`
	TotalTimeStepsNumber  int               `yaml:"total_time_steps_number"`
	TimeStepSize          float64           `yaml:"time_step_size"`
	Hamiltonian           []HamiltonianTerm `yaml:"hamiltonian"`
	DensityMatrices       [][]int           `yaml:"density_matrices"`
}

// opByName maps the wire vocabulary to boson.Op. Kept as a lookup table
// rather than a switch so Load can report the offending string directly.
var opByName = map[string]boson.Op{
	"A+": boson.Rising,
	"A-": boson.Lowering,
	"N1": boson.N,
	"N2": boson.N2,
}

// Load reads and parses the YAML document at path and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %q", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating config %q", path)
	}
	return &cfg, nil
}

// Validate checks the bit-width budget, term/op well-formedness, and
// density-subset well-formedness described in the error-handling design:
// configuration problems are reported and the caller aborts before any
// computation runs.
func (c *Config) Validate() error {
	if len(c.QubitsPerMode) == 0 {
		return errors.New("qubits_per_mode must be non-empty")
	}
	total := 0
	for i, e := range c.QubitsPerMode {
		if e <= 0 {
			return errors.Errorf("qubits_per_mode[%d] = %d must be positive", i, e)
		}
		total += e
	}
	if total > 62 {
		return errors.Errorf("qubits_per_mode sums to %d bits, exceeds the 62-bit budget", total)
	}
	if c.TotalTimeStepsNumber < 0 {
		return errors.New("total_time_steps_number must be non-negative")
	}

	layout := boson.Layout(c.QubitsPerMode)
	for i, ht := range c.Hamiltonian {
		if _, err := ht.toTerm(layout); err != nil {
			return errors.Wrapf(err, "hamiltonian[%d]", i)
		}
	}
	for i, s := range c.DensityMatrices {
		if err := validatePositions(s, layout); err != nil {
			return errors.Wrapf(err, "density_matrices[%d]", i)
		}
	}
	return nil
}

func validatePositions(positions []int, layout boson.Layout) error {
	n := len(positions)
	if n < 1 || n > 4 {
		return errors.Errorf("expected 1-4 positions, got %d", n)
	}
	seen := make(map[int]struct{}, n)
	for _, p := range positions {
		if p < 0 || p >= len(layout) {
			return errors.Errorf("position %d out of range [0,%d)", p, len(layout))
		}
		if _, dup := seen[p]; dup {
			return errors.Errorf("duplicate position %d", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// toTerm converts a YAML Hamiltonian term into a boson.Term, validating
// its positions and op-name vocabulary along the way.
func (ht HamiltonianTerm) toTerm(layout boson.Layout) (boson.Term, error) {
	if len(ht.Ops) != len(ht.Pos) {
		return boson.Term{}, errors.Errorf("pos has %d entries but ops has %d", len(ht.Pos), len(ht.Ops))
	}
	if err := validatePositions(ht.Pos, layout); err != nil {
		return boson.Term{}, err
	}
	ops := make([]boson.Op, len(ht.Ops))
	for i, name := range ht.Ops {
		op, ok := opByName[name]
		if !ok {
			return boson.Term{}, errors.Errorf("unrecognized op %q", name)
		}
		ops[i] = op
	}
	return boson.NewTerm(ht.Pos, ops), nil
}

// Layout returns the mode layout E described by the config.
func (c *Config) Layout() boson.Layout {
	return boson.Layout(c.QubitsPerMode)
}

// HamiltonianTerms converts every YAML Hamiltonian term into a
// boson.HamiltonianTerm. Validate must have succeeded first.
func (c *Config) HamiltonianTerms() []boson.HamiltonianTerm {
	layout := c.Layout()
	terms := make([]boson.HamiltonianTerm, len(c.Hamiltonian))
	for i, ht := range c.Hamiltonian {
		term, err := ht.toTerm(layout)
		if err != nil {
			panic(fmt.Sprintf("config: HamiltonianTerms called on unvalidated config: %v", err))
		}
		terms[i] = boson.HamiltonianTerm{Amplitude: ht.Ampl, Term: term}
	}
	return terms
}
