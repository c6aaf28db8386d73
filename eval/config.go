// Copyright 2020 Aleksandr Demakin. All rights reserved.

package eval

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"github.com/avdva/mpfloat"
	"github.com/avdva/mpfloat/internal/confutil"
)

// Config defines the parameters of an evaluation.
type Config struct {
	// RandomLower and RandomUpper are the bounds of random operands.
	RandomLower float64 `toml:"random_lower"`
	RandomUpper float64 `toml:"random_upper"`
	// MantissaFrom and MantissaTo define the range of evaluated mantissa lengths, both inclusive.
	MantissaFrom uint `toml:"mantissa_from"`
	MantissaTo   uint `toml:"mantissa_to"`
	// ExponentLength is the same for all evaluated numbers.
	ExponentLength uint `toml:"exponent_length"`
	// Iterations is the number of operations to measure the time.
	Iterations uint `toml:"iterations"`
	// Samples is the number of random operand pairs to measure the error.
	Samples uint `toml:"samples"`
	// Workers limits the number of mantissa lengths evaluated in parallel. Zero means GOMAXPROCS.
	Workers uint  `toml:"workers"`
	Seed    int64 `toml:"seed"`
}

// DefaultConfig returns a config for all mantissa lengths up to float64's one.
func DefaultConfig() Config {
	return Config{
		RandomLower:    0x1p-1022,
		RandomUpper:    1,
		MantissaFrom:   4,
		MantissaTo:     52,
		ExponentLength: 11,
		Iterations:     1000,
		Samples:        100,
		Seed:           1,
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

// Validate checks that the config can be used for an evaluation.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.RandomLower) || math.IsNaN(c.RandomUpper):
		return fmt.Errorf("random bounds must be numbers")
	case c.RandomLower <= 0 || c.RandomLower >= c.RandomUpper || math.IsInf(c.RandomUpper, 0):
		return fmt.Errorf("bad random bounds [%v, %v]: operands must be positive and finite", c.RandomLower, c.RandomUpper)
	case c.MantissaFrom > c.MantissaTo:
		return fmt.Errorf("bad mantissa range [%d, %d]", c.MantissaFrom, c.MantissaTo)
	case c.Iterations == 0:
		return fmt.Errorf("iterations must be positive")
	}
	from, to, expLen, err := c.lengths()
	if err != nil {
		return err
	}
	if _, err := mpfloat.New(from, expLen); err != nil {
		return err
	}
	if _, err := mpfloat.New(to, expLen); err != nil {
		return err
	}
	return nil
}

func (c Config) lengths() (from, to, expLen int, err error) {
	if from, err = safecast.Conv[int](c.MantissaFrom); err != nil {
		return 0, 0, 0, fmt.Errorf("mantissa_from: %w", err)
	}
	if to, err = safecast.Conv[int](c.MantissaTo); err != nil {
		return 0, 0, 0, fmt.Errorf("mantissa_to: %w", err)
	}
	if expLen, err = safecast.Conv[int](c.ExponentLength); err != nil {
		return 0, 0, 0, fmt.Errorf("exponent_length: %w", err)
	}
	return from, to, expLen, nil
}

// MantissaAxis returns all evaluated mantissa lengths.
func (c Config) MantissaAxis() []int {
	from, to, _, err := c.lengths()
	if err != nil {
		return nil
	}
	result := make([]int, 0, to-from+1)
	for m := from; m <= to; m++ {
		result = append(result, m)
	}
	return result
}
