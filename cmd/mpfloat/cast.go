// Copyright 2020 Aleksandr Demakin. All rights reserved.

package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avdva/mpfloat"
)

func newCastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cast [flags] value",
		Short: "Change the lengths of a number",
		Long: `Cast rounds a decimal number to the source lengths, then casts it to the target lengths,
and prints both numbers and the error introduced by the cast`,
		Args: cobra.ExactArgs(1),
		RunE: runCast,
	}
	cmd.Flags().Uint("to-mantissa", 10, "target mantissa length in bits")
	cmd.Flags().Uint("to-exponent", 5, "target exponent length in bits")
	cmd.Flags().Uint64("tolerance", 1, "allowed error in units in the last place")
	return cmd
}

func runCast(cmd *cobra.Command, args []string) error {
	mantLen, expLen, err := widthFlags(cmd.Flags(), "mantissa", "exponent")
	if err != nil {
		return err
	}
	toMant, toExp, err := widthFlags(cmd.Flags(), "to-mantissa", "to-exponent")
	if err != nil {
		return err
	}
	tolerance, err := cmd.Flags().GetUint64("tolerance")
	if err != nil {
		return fmt.Errorf("failed to get tolerance flag: %w", err)
	}
	p, err := newPrinter(cmd.OutOrStdout(), cmd.Flags())
	if err != nil {
		return err
	}
	source, err := mpfloat.NewFromString(mantLen, expLen, args[0])
	if err != nil {
		return fmt.Errorf("%q: %w", args[0], err)
	}
	target, err := source.CastTo(toMant, toExp)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"from": fmt.Sprintf("(%d, %d)", mantLen, expLen),
		"to":   fmt.Sprintf("(%d, %d)", toMant, toExp),
	}).Debug("cast")
	if err := p.print("from:", source); err != nil {
		return err
	}
	if err := p.print("to:  ", target); err != nil {
		return err
	}
	return p.printf("abs error: %g, within %d ulp: %v\n",
		target.AbsErrorFloat64(source.Value()), tolerance, target.CheckPrecision(source, tolerance))
}
