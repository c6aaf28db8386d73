// Copyright 2020 Aleksandr Demakin. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"math"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avdva/mpfloat/ira"
)

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [flags]",
		Short: "Solve linear systems with mixed precision iterative refinement",
		Long: `Solve factorizes a system with the lower format of the config, and refines the solution
in the working format using residuals in the upper format.
Without --matrix, random systems are generated and solved.
Matrix elements are given row by row: mpfloat solve --matrix=2,1,1,3 --rhs=3,4`,
		Args: cobra.NoArgs,
		RunE: runSolve,
	}
	cmd.Flags().String("config", "", "path to a TOML config, defaults are used if empty")
	cmd.Flags().StringSlice("matrix", nil, "matrix elements, row by row")
	cmd.Flags().StringSlice("rhs", nil, "right-hand side of the system")
	cmd.Flags().Bool("direct", false, "solve in the upper format without refinement")
	return cmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case formatPretty, formatJSON, formatMsgpack:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg := ira.DefaultConfig()
	if len(path) > 0 {
		if cfg, err = ira.LoadConfig(path); err != nil {
			return err
		}
	}
	s, err := ira.New(cfg, log.StandardLogger())
	if err != nil {
		return err
	}
	matrix, err := cmd.Flags().GetStringSlice("matrix")
	if err != nil {
		return fmt.Errorf("failed to get matrix flag: %w", err)
	}
	if len(matrix) == 0 {
		return runRandomSystems(cmd, s, format)
	}
	sys, err := parseSystem(cmd, cfg.Upper, matrix)
	if err != nil {
		return err
	}
	direct, err := cmd.Flags().GetBool("direct")
	if err != nil {
		return fmt.Errorf("failed to get direct flag: %w", err)
	}
	var (
		solution ira.Vector
		result   *ira.Result
		output   interface{}
	)
	if direct {
		if solution, err = s.SolveDirect(sys); err != nil {
			return err
		}
		output = solution
	} else {
		if result, err = s.Solve(cmd.Context(), sys); err != nil {
			return err
		}
		solution, output = result.Solution, result
	}
	switch format {
	case formatJSON:
		return json.NewEncoder(cmd.OutOrStdout()).Encode(output)
	case formatMsgpack:
		return encodeMsgpack(cmd.OutOrStdout(), output)
	}
	p := &printer{w: cmd.OutOrStdout(), format: format}
	for i, f := range solution {
		if err := p.print(fmt.Sprintf("x[%d]", i), f); err != nil {
			return err
		}
	}
	if result == nil {
		return nil
	}
	return p.printf("iterations: %d, converged: %v, residual: %.3e, elapsed: %v\n",
		result.Iterations, result.Converged, result.LastStep().ResidualMean, result.Elapsed)
}

func parseSystem(cmd *cobra.Command, upper ira.Format, matrix []string) (*ira.System, error) {
	rhs, err := cmd.Flags().GetStringSlice("rhs")
	if err != nil {
		return nil, fmt.Errorf("failed to get rhs flag: %w", err)
	}
	n := int(math.Sqrt(float64(len(matrix))))
	if n*n != len(matrix) {
		return nil, fmt.Errorf("%w: %d matrix elements do not form a square", ira.ErrDimension, len(matrix))
	}
	mantLen, expLen := int(upper.Mantissa), int(upper.Exponent)
	values, err := ira.ParseVector(mantLen, expLen, matrix)
	if err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}
	a, err := ira.NewMatrix(n, values)
	if err != nil {
		return nil, err
	}
	b, err := ira.ParseVector(mantLen, expLen, rhs)
	if err != nil {
		return nil, fmt.Errorf("rhs: %w", err)
	}
	return ira.NewSystem(a, b)
}

func runRandomSystems(cmd *cobra.Command, s *ira.Solver, format string) error {
	results, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}
	switch format {
	case formatJSON:
		return json.NewEncoder(cmd.OutOrStdout()).Encode(results)
	case formatMsgpack:
		return encodeMsgpack(cmd.OutOrStdout(), results)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "run\titerations\tconverged\tprecision\telapsed")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%d\t%v\t%.2f\t%v\n", i, res.Iterations, res.Converged, res.LastStep().MeanPrecision, res.Elapsed)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "mean precision: %.2f\n", ira.MeanPrecision(results))
	return err
}
