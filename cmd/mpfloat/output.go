// Copyright 2020 Aleksandr Demakin. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/avdva/mpfloat"
)

const (
	formatPretty  = "pretty"
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

var (
	signColor     = color.New(color.FgRed, color.Bold)
	exponentColor = color.New(color.FgYellow)
	mantissaColor = color.New(color.FgGreen)
)

// widthFlags returns mantissa and exponent lengths from the flags with given names.
func widthFlags(flags *pflag.FlagSet, mantName, expName string) (mantLen, expLen int, err error) {
	m, err := flags.GetUint(mantName)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get %s flag: %w", mantName, err)
	}
	e, err := flags.GetUint(expName)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get %s flag: %w", expName, err)
	}
	if mantLen, err = safecast.Conv[int](m); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", mantName, err)
	}
	if expLen, err = safecast.Conv[int](e); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", expName, err)
	}
	return mantLen, expLen, nil
}

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, flags *pflag.FlagSet) (*printer, error) {
	format, err := flags.GetString("format")
	if err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case formatPretty, formatJSON, formatMsgpack:
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	return &printer{w: w, format: format}, nil
}

// print writes the number. label is only used by the pretty format.
func (p *printer) print(label string, f *mpfloat.Float) error {
	switch p.format {
	case formatJSON:
		return json.NewEncoder(p.w).Encode(f)
	case formatMsgpack:
		return msgpack.NewEncoder(p.w).Encode(f)
	}
	if len(label) > 0 {
		label += " "
	}
	_, err := fmt.Fprintf(p.w, "%s%s  %s\n", label, colorBits(f), f)
	return err
}

// encodeMsgpack writes v using json field names.
func encodeMsgpack(w io.Writer, v interface{}) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(v)
}

// printf writes a message only for the pretty format.
func (p *printer) printf(format string, args ...interface{}) error {
	if p.format != formatPretty {
		return nil
	}
	_, err := fmt.Fprintf(p.w, format, args...)
	return err
}

// colorBits renders the sign, the exponent, and the mantissa in different colors.
func colorBits(f *mpfloat.Float) string {
	fields := strings.SplitN(f.FieldString(), " ", 3)
	return signColor.Sprint(fields[0]) + " " + exponentColor.Sprint(fields[1]) + " " + mantissaColor.Sprint(fields[2])
}
