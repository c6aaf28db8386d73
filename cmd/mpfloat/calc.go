// Copyright 2020 Aleksandr Demakin. All rights reserved.

package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avdva/mpfloat"
)

type (
	arithFunc = func(x, y *mpfloat.Float) (*mpfloat.Float, error)
	cmpFunc   = func(x, y *mpfloat.Float) (bool, error)
)

var (
	arithOps = map[string]arithFunc{
		"+": (*mpfloat.Float).Add,
		"-": (*mpfloat.Float).Sub,
		"*": (*mpfloat.Float).Mul,
		"x": (*mpfloat.Float).Mul,
		"/": (*mpfloat.Float).Quo,
	}
	cmpOps = map[string]cmpFunc{
		"==": (*mpfloat.Float).Eq,
		"!=": (*mpfloat.Float).Ne,
		"<":  (*mpfloat.Float).Lt,
		"<=": (*mpfloat.Float).Le,
		">":  (*mpfloat.Float).Gt,
		">=": (*mpfloat.Float).Ge,
	}
)

func newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc [flags] x op y",
		Short: "Calculate or compare two numbers",
		Long: `Calc rounds both operands to the given lengths and applies the operation.
Supported operations are + - * x / == != < <= > >=`,
		Args: cobra.ExactArgs(3),
		RunE: runCalc,
	}
}

func runCalc(cmd *cobra.Command, args []string) error {
	mantLen, expLen, err := widthFlags(cmd.Flags(), "mantissa", "exponent")
	if err != nil {
		return err
	}
	p, err := newPrinter(cmd.OutOrStdout(), cmd.Flags())
	if err != nil {
		return err
	}
	x, err := mpfloat.NewFromString(mantLen, expLen, args[0])
	if err != nil {
		return fmt.Errorf("%q: %w", args[0], err)
	}
	y, err := mpfloat.NewFromString(mantLen, expLen, args[2])
	if err != nil {
		return fmt.Errorf("%q: %w", args[2], err)
	}
	op := args[1]
	log.WithFields(log.Fields{"x": x, "y": y, "op": op}).Debug("calculating")
	if fn, found := arithOps[op]; found {
		res, err := fn(x, y)
		if err != nil {
			return err
		}
		return p.print("", res)
	}
	if fn, found := cmpOps[op]; found {
		res, err := fn(x, y)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), res)
		return err
	}
	return fmt.Errorf("unknown operation %q", op)
}
