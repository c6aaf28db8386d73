// Copyright 2020 Aleksandr Demakin. All rights reserved.

package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avdva/mpfloat"
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [flags] value...",
		Short: "Show the bit array of decimal numbers",
		Long:  `Encode rounds decimal numbers to the given lengths and prints their bit arrays`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEncode,
	}
	cmd.Flags().Bool("bits", false, "treat arguments as bit arrays instead of decimal numbers")
	return cmd
}

func runEncode(cmd *cobra.Command, args []string) error {
	mantLen, expLen, err := widthFlags(cmd.Flags(), "mantissa", "exponent")
	if err != nil {
		return err
	}
	asBits, err := cmd.Flags().GetBool("bits")
	if err != nil {
		return fmt.Errorf("failed to get bits flag: %w", err)
	}
	p, err := newPrinter(cmd.OutOrStdout(), cmd.Flags())
	if err != nil {
		return err
	}
	for _, arg := range args {
		var f *mpfloat.Float
		if asBits {
			f, err = mpfloat.NewFromBitString(mantLen, expLen, arg)
		} else {
			f, err = mpfloat.NewFromString(mantLen, expLen, arg)
		}
		if err != nil {
			return fmt.Errorf("%q: %w", arg, err)
		}
		log.WithFields(log.Fields{"input": arg, "value": f.Value()}).Debug("encoded")
		if err := p.print(arg, f); err != nil {
			return err
		}
	}
	return nil
}
