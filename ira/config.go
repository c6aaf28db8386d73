// Copyright 2020 Aleksandr Demakin. All rights reserved.

package ira

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"github.com/avdva/mpfloat"
	"github.com/avdva/mpfloat/internal/confutil"
)

// Format defines mantissa and exponent lengths of numbers.
type Format struct {
	Mantissa uint `toml:"mantissa"`
	Exponent uint `toml:"exponent"`
}

func (f Format) String() string {
	return fmt.Sprintf("(%d, %d)", f.Mantissa, f.Exponent)
}

func (f Format) lengths() (mantLen, expLen int, err error) {
	if mantLen, err = safecast.Conv[int](f.Mantissa); err != nil {
		return 0, 0, fmt.Errorf("mantissa: %w", err)
	}
	if expLen, err = safecast.Conv[int](f.Exponent); err != nil {
		return 0, 0, fmt.Errorf("exponent: %w", err)
	}
	if _, err := mpfloat.New(mantLen, expLen); err != nil {
		return 0, 0, err
	}
	return mantLen, expLen, nil
}

// Config defines the parameters of a solver.
type Config struct {
	// Dimension is the size of random systems.
	Dimension uint `toml:"dimension"`
	// MaxIter is the maximum number of refinement steps.
	MaxIter uint `toml:"max_iter"`
	// RandomLower and RandomUpper are the bounds of random matrix and solution elements.
	RandomLower float64 `toml:"random_lower"`
	RandomUpper float64 `toml:"random_upper"`
	// SparsityRate is the share of zeros in random matrices.
	SparsityRate float64 `toml:"sparsity_rate"`
	// Lower is used for the factorization and corrections, Working for the solution,
	// Upper for the system and the residuals.
	Lower   Format `toml:"lower"`
	Working Format `toml:"working"`
	Upper   Format `toml:"upper"`
	// Tolerance in units in the last place of the working format.
	// The refinement stops, when no element of the solution changes by more than Tolerance.
	Tolerance uint64 `toml:"tolerance"`
	// Runs is the number of random systems solved by Solver.Run.
	Runs uint `toml:"runs"`
	// Workers limits the number of systems solved in parallel. Zero means GOMAXPROCS.
	Workers uint  `toml:"workers"`
	Seed    int64 `toml:"seed"`
}

// DefaultConfig returns a config, which factorizes systems with 10-bit mantissas,
// and refines float32 solutions with float64 residuals.
func DefaultConfig() Config {
	return Config{
		Dimension:   10,
		MaxIter:     10,
		RandomLower: -10,
		RandomUpper: 10,
		Lower:       Format{Mantissa: 10, Exponent: 8},
		Working:     Format{Mantissa: 23, Exponent: 8},
		Upper:       Format{Mantissa: 52, Exponent: 11},
		Tolerance:   1,
		Runs:        1,
		Seed:        1,
	}
}

// LoadConfig reads a TOML file. Missing values are taken from DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := confutil.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the config can be used by a solver.
func (c Config) Validate() error {
	switch {
	case c.Dimension == 0:
		return fmt.Errorf("dimension must be positive")
	case c.MaxIter == 0:
		return fmt.Errorf("max_iter must be positive")
	case c.Runs == 0:
		return fmt.Errorf("runs must be positive")
	case math.IsNaN(c.RandomLower) || math.IsNaN(c.RandomUpper) ||
		math.IsInf(c.RandomLower, 0) || math.IsInf(c.RandomUpper, 0) || c.RandomLower >= c.RandomUpper:
		return fmt.Errorf("bad random bounds [%v, %v]", c.RandomLower, c.RandomUpper)
	case math.IsNaN(c.SparsityRate) || c.SparsityRate < 0 || c.SparsityRate >= 1:
		return fmt.Errorf("bad sparsity rate %v: must be in [0, 1)", c.SparsityRate)
	}
	for _, f := range []struct {
		name   string
		format Format
	}{{"lower", c.Lower}, {"working", c.Working}, {"upper", c.Upper}} {
		if _, _, err := f.format.lengths(); err != nil {
			return fmt.Errorf("%s format %v: %w", f.name, f.format, err)
		}
	}
	return nil
}
