// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package eval measures the speed and the accuracy of arithmetic operations
// for a range of mantissa lengths.
package eval

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/avdva/mpfloat"
)

// Op is an evaluated arithmetic operation.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpQuo
)

var opNames = [...]string{"add", "sub", "mul", "quo"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// ParseOp returns an operation by its name: add, sub, mul, or quo.
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if strings.EqualFold(s, name) {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

func (op Op) apply(x, y *mpfloat.Float) (*mpfloat.Float, error) {
	switch op {
	case OpAdd:
		return x.Add(y)
	case OpSub:
		return x.Sub(y)
	case OpMul:
		return x.Mul(y)
	default:
		return x.Quo(y)
	}
}

// reference calculates the operation with float64 numbers.
func (op Op) reference(x, y float64) float64 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	default:
		return x / y
	}
}

// Result is the evaluation result for a single mantissa length.
type Result struct {
	MantissaLength int `json:"mantissa_length"`
	// Elapsed is the time spent for Config.Iterations operations.
	Elapsed time.Duration `json:"elapsed_ns"`
	// MeanRelError and MaxRelError are relative errors versus float64 calculations.
	MeanRelError float64 `json:"mean_rel_error"`
	MaxRelError  float64 `json:"max_rel_error"`
}

// Evaluator runs evaluations for a config.
type Evaluator struct {
	cfg Config
	log logrus.FieldLogger
}

// New returns an evaluator for the config.
// If log is nil, the standard logrus logger is used.
func New(cfg Config, log logrus.FieldLogger) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Evaluator{cfg: cfg, log: log}, nil
}

// MantissaAxis returns mantissa lengths in the order of the results.
func (e *Evaluator) MantissaAxis() []int {
	return e.cfg.MantissaAxis()
}

type pair struct {
	x, y float64
}

// randomPairs returns random positive operand pairs.
// For subtraction x > y, so that the result is positive.
func (e *Evaluator) randomPairs(op Op) []pair {
	r := rand.New(rand.NewSource(e.cfg.Seed))
	random := func() float64 {
		return e.cfg.RandomLower + r.Float64()*(e.cfg.RandomUpper-e.cfg.RandomLower)
	}
	count := e.cfg.Samples
	if count == 0 {
		count = 1
	}
	result := make([]pair, 0, count)
	for i := uint(0); i < count; i++ {
		x, y := random(), random()
		if op == OpSub {
			x += y
		}
		result = append(result, pair{x: x, y: y})
	}
	return result
}

// Evaluate runs the operation for all mantissa lengths from the config.
// Results are ordered by the mantissa length.
func (e *Evaluator) Evaluate(ctx context.Context, op Op) ([]Result, error) {
	axis := e.MantissaAxis()
	_, _, expLen, err := e.cfg.lengths()
	if err != nil {
		return nil, err
	}
	jobs, err := safecast.Conv[int](e.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	pairs := e.randomPairs(op)
	log := e.log.WithField("op", op.String())
	log.WithFields(logrus.Fields{
		"mantissa_from": e.cfg.MantissaFrom,
		"mantissa_to":   e.cfg.MantissaTo,
		"exponent":      expLen,
		"workers":       jobs,
	}).Info("starting evaluation")

	// every goroutine writes only its own item.
	results := make([]Result, len(axis))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, mantLen := range axis {
		g.Go(func() error {
			res, err := e.evaluateOne(gctx, op, mantLen, expLen, pairs)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"mantissa":       mantLen,
				"elapsed":        res.Elapsed,
				"mean_rel_error": res.MeanRelError,
			}).Debug("evaluated")
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, op Op, mantLen, expLen int, pairs []pair) (Result, error) {
	result := Result{MantissaLength: mantLen}
	var sum float64
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		x, err := mpfloat.NewFromFloat64(mantLen, expLen, p.x)
		if err != nil {
			return Result{}, err
		}
		y, err := mpfloat.NewFromFloat64(mantLen, expLen, p.y)
		if err != nil {
			return Result{}, err
		}
		res, err := op.apply(x, y)
		if err != nil {
			return Result{}, err
		}
		relErr := res.RelErrorFloat64(op.reference(p.x, p.y))
		sum += relErr
		result.MaxRelError = math.Max(result.MaxRelError, relErr)
	}
	result.MeanRelError = sum / float64(len(pairs))

	x, err := mpfloat.NewFromFloat64(mantLen, expLen, pairs[0].x)
	if err != nil {
		return Result{}, err
	}
	y, err := mpfloat.NewFromFloat64(mantLen, expLen, pairs[0].y)
	if err != nil {
		return Result{}, err
	}
	start := time.Now()
	for i := uint(0); i < e.cfg.Iterations; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		if _, err := op.apply(x, y); err != nil {
			return Result{}, err
		}
	}
	result.Elapsed = time.Since(start)
	return result, nil
}
