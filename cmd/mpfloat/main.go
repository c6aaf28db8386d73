// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Command mpfloat encodes, casts, and calculates floating-point numbers with arbitrary mantissa and exponent lengths.
package main

import (
	"os"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mpfloat",
		Short: "Floating-point numbers with configurable lengths",
		Long: `mpfloat simulates binary floating-point numbers with arbitrary mantissa and exponent lengths.
Values are rounded to nearest, ties to even, like IEEE-754 numbers.
Use -- before negative numbers: mpfloat calc -- -1 + 2`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			noColor, err := cmd.Flags().GetBool("no-color")
			if err != nil {
				return err
			}
			if noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newCastCmd())
	rootCmd.AddCommand(newCalcCmd())
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newSolveCmd())

	// global flags
	flags := rootCmd.PersistentFlags()
	flags.UintP("mantissa", "m", 52, "mantissa length in bits")
	flags.UintP("exponent", "e", 11, "exponent length in bits")
	flags.String("format", formatPretty, "output format (pretty|json|msgpack)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Bool("no-color", false, "disable colored output")
	return rootCmd
}

func main() {
	log.SetOutput(os.Stderr)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
