// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package ira solves linear systems with mixed precision iterative refinement.
//
// A system Ax = b is factorized once with the lower format. The solution is kept in the working format,
// residuals b - Ax are calculated in the upper format, and corrections are found with the factorization:
//
//	x0 = solve(LU, b)
//	r  = b - A*x      (upper)
//	d  = solve(LU, r) (lower)
//	x  = x + d        (working)
package ira

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"fortio.org/safecast"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/avdva/mpfloat"
)

// System is a linear system Ax = b.
type System struct {
	A *Matrix
	B Vector
	// Expected is the exact solution, if known.
	Expected Vector
}

// NewSystem returns a system with an unknown solution.
func NewSystem(a *Matrix, b Vector) (*System, error) {
	if len(b) != a.Dim() {
		return nil, fmt.Errorf("%w: matrix of size %d and %d elements", ErrDimension, a.Dim(), len(b))
	}
	return &System{A: a, B: b}, nil
}

// Step describes the solution before a refinement step.
type Step struct {
	Iteration int `json:"iteration"`
	// ResidualMean is the mean absolute value of b - Ax.
	ResidualMean float64 `json:"residual_mean"`
	// MeanRelError and MeanPrecision are only calculated, if the expected solution is known.
	// MeanPrecision is the mean number of correct mantissa bits, limited by the working format.
	MeanRelError  float64 `json:"mean_rel_error"`
	MeanPrecision float64 `json:"mean_precision"`
}

// Result is the result of a refinement.
type Result struct {
	// Solution is in the working format.
	Solution Vector `json:"solution"`
	// Iterations is the number of refinement steps performed.
	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`
	// Elapsed includes the factorization.
	Elapsed time.Duration `json:"elapsed_ns"`
	// Steps has Iterations+1 items, the last one describes the solution.
	Steps []Step `json:"steps"`
}

// LastStep returns the description of the solution.
func (r *Result) LastStep() Step {
	return r.Steps[len(r.Steps)-1]
}

type format struct {
	mantLen, expLen int
}

// Solver solves systems with the formats from a config.
type Solver struct {
	cfg                   Config
	lower, working, upper format
	maxIter               int
	log                   logrus.FieldLogger
}

// New returns a solver for the config.
// If log is nil, the standard logrus logger is used.
func New(cfg Config, log logrus.FieldLogger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Solver{cfg: cfg, log: log}
	for _, f := range []struct {
		dst *format
		src Format
	}{{&s.lower, cfg.Lower}, {&s.working, cfg.Working}, {&s.upper, cfg.Upper}} {
		m, e, err := f.src.lengths()
		if err != nil {
			return nil, err
		}
		*f.dst = format{mantLen: m, expLen: e}
	}
	maxIter, err := safecast.Conv[int](cfg.MaxIter)
	if err != nil {
		return nil, fmt.Errorf("max_iter: %w", err)
	}
	s.maxIter = maxIter
	return s, nil
}

// Solve refines the solution of the system until its elements stop changing by more than the tolerance,
// or until MaxIter steps are done. The system is cast to the upper format.
func (s *Solver) Solve(ctx context.Context, sys *System) (*Result, error) {
	a, err := sys.A.Cast(s.upper.mantLen, s.upper.expLen)
	if err != nil {
		return nil, err
	}
	b, err := sys.B.Cast(s.upper.mantLen, s.upper.expLen)
	if err != nil {
		return nil, err
	}
	var expected Vector
	if len(sys.Expected) > 0 {
		if expected, err = sys.Expected.Cast(s.upper.mantLen, s.upper.expLen); err != nil {
			return nil, err
		}
	}
	log := s.log.WithFields(logrus.Fields{
		"dimension": a.Dim(),
		"lower":     s.cfg.Lower.String(),
		"working":   s.cfg.Working.String(),
		"upper":     s.cfg.Upper.String(),
	})
	log.Debug("solving")

	start := time.Now()
	lu, err := Factor(a, s.lower.mantLen, s.lower.expLen)
	if err != nil {
		return nil, err
	}
	x, err := lu.Solve(b)
	if err != nil {
		return nil, err
	}
	if x, err = x.Cast(s.working.mantLen, s.working.expLen); err != nil {
		return nil, err
	}
	result := &Result{}
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		xu, err := x.Cast(s.upper.mantLen, s.upper.expLen)
		if err != nil {
			return nil, err
		}
		ax, err := a.MulVec(xu)
		if err != nil {
			return nil, err
		}
		r, err := b.Sub(ax)
		if err != nil {
			return nil, err
		}
		step := s.describe(i, r, xu, expected)
		result.Steps = append(result.Steps, step)
		log.WithFields(logrus.Fields{
			"iteration":      i,
			"residual_mean":  step.ResidualMean,
			"mean_rel_error": step.MeanRelError,
		}).Debug("refinement step")
		if result.Converged || i >= s.maxIter {
			break
		}
		d, err := lu.Solve(r)
		if err != nil {
			return nil, err
		}
		if d, err = d.Cast(s.working.mantLen, s.working.expLen); err != nil {
			return nil, err
		}
		next, err := x.Add(d)
		if err != nil {
			return nil, err
		}
		result.Converged = next.Within(x, s.cfg.Tolerance)
		result.Iterations = i + 1
		x = next
	}
	result.Elapsed = time.Since(start)
	result.Solution = x
	log.WithFields(logrus.Fields{
		"iterations": result.Iterations,
		"converged":  result.Converged,
		"elapsed":    result.Elapsed,
	}).Info("solved")
	return result, nil
}

// describe calculates the errors of the solution xu in the upper format.
func (s *Solver) describe(iteration int, residual, xu, expected Vector) Step {
	step := Step{Iteration: iteration, ResidualMean: residual.MeanAbs()}
	if len(expected) != len(xu) {
		return step
	}
	var relSum, precSum float64
	for i := range xu {
		if rel, err := xu[i].RelError(expected[i]); err == nil {
			relSum += rel.Value()
		}
		p, err := xu[i].Precision(expected[i])
		switch {
		case err != nil || p < 0:
			p = 0
		case p > s.working.mantLen:
			p = s.working.mantLen
		}
		precSum += float64(p)
	}
	step.MeanRelError = relSum / float64(len(xu))
	step.MeanPrecision = precSum / float64(len(xu))
	return step
}

// SolveDirect solves the system in the upper format without refinement.
func (s *Solver) SolveDirect(sys *System) (Vector, error) {
	lu, err := Factor(sys.A, s.upper.mantLen, s.upper.expLen)
	if err != nil {
		return nil, err
	}
	return lu.Solve(sys.B)
}

// RandomSystem returns a system with a random matrix and a random solution in the upper format.
// Every row and every column of the matrix has a nonzero element.
func (s *Solver) RandomSystem(r *rand.Rand) (*System, error) {
	n, err := safecast.Conv[int](s.cfg.Dimension)
	if err != nil {
		return nil, fmt.Errorf("dimension: %w", err)
	}
	random := func() (*mpfloat.Float, error) {
		v := s.cfg.RandomLower + r.Float64()*(s.cfg.RandomUpper-s.cfg.RandomLower)
		return mpfloat.NewFromFloat64(s.upper.mantLen, s.upper.expLen, v)
	}
	rate := s.cfg.SparsityRate
	if n > 1 {
		// one element in every row is never zero.
		rate = rate * float64(n) / float64(n-1)
	}
	nonZero := r.Perm(n)
	values := make(Vector, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var f *mpfloat.Float
			switch {
			case j == nonZero[i]:
				for f == nil || f.IsZero() {
					if f, err = random(); err != nil {
						return nil, err
					}
				}
			case rate > 0 && r.Float64() < rate:
				f, err = mpfloat.New(s.upper.mantLen, s.upper.expLen)
			default:
				f, err = random()
			}
			if err != nil {
				return nil, err
			}
			values = append(values, f)
		}
	}
	a, err := NewMatrix(n, values)
	if err != nil {
		return nil, err
	}
	x := make(Vector, n)
	for i := range x {
		if x[i], err = random(); err != nil {
			return nil, err
		}
	}
	b, err := a.MulVec(x)
	if err != nil {
		return nil, err
	}
	return &System{A: a, B: b, Expected: x}, nil
}

// Run solves Config.Runs random systems in parallel.
// The i-th system is generated with the seed Config.Seed+i.
func (s *Solver) Run(ctx context.Context) ([]*Result, error) {
	runs, err := safecast.Conv[int](s.cfg.Runs)
	if err != nil {
		return nil, fmt.Errorf("runs: %w", err)
	}
	jobs, err := safecast.Conv[int](s.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	s.log.WithFields(logrus.Fields{
		"runs":      runs,
		"dimension": s.cfg.Dimension,
		"workers":   jobs,
	}).Info("starting runs")

	// every goroutine writes only its own item.
	results := make([]*Result, runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range results {
		g.Go(func() error {
			sys, err := s.RandomSystem(rand.New(rand.NewSource(s.cfg.Seed + int64(i))))
			if err != nil {
				return err
			}
			res, err := s.Solve(gctx, sys)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MeanPrecision returns the mean of the last steps' precisions.
func MeanPrecision(results []*Result) float64 {
	if len(results) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, r := range results {
		sum += r.LastStep().MeanPrecision
	}
	return sum / float64(len(results))
}
