// Copyright 2020 Aleksandr Demakin. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avdva/mpfloat/eval"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [flags]",
		Short: "Measure speed and accuracy for a range of mantissa lengths",
		Long: `Eval runs an operation on random operands for every mantissa length from the config,
and prints the time and the relative error versus float64 calculations`,
		Args: cobra.NoArgs,
		RunE: runEval,
	}
	cmd.Flags().String("config", "", "path to a TOML config, defaults are used if empty")
	cmd.Flags().String("op", "add", "operation (add|sub|mul|quo)")
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
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
	opName, err := cmd.Flags().GetString("op")
	if err != nil {
		return fmt.Errorf("failed to get op flag: %w", err)
	}
	op, err := eval.ParseOp(opName)
	if err != nil {
		return err
	}
	cfg := eval.DefaultConfig()
	if len(path) > 0 {
		if cfg, err = eval.LoadConfig(path); err != nil {
			return err
		}
	}
	e, err := eval.New(cfg, log.StandardLogger())
	if err != nil {
		return err
	}
	results, err := e.Evaluate(cmd.Context(), op)
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
	fmt.Fprintln(w, "mantissa\telapsed\tmean rel error\tmax rel error")
	for _, res := range results {
		fmt.Fprintf(w, "%d\t%v\t%.3e\t%.3e\n", res.MantissaLength, res.Elapsed, res.MeanRelError, res.MaxRelError)
	}
	return w.Flush()
}
