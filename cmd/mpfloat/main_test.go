// Copyright 2020 Aleksandr Demakin. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/avdva/mpfloat"
	"github.com/avdva/mpfloat/eval"
	"github.com/avdva/mpfloat/ira"
)

func execute(args ...string) (string, error) {
	log.SetOutput(io.Discard)
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestEncode(t *testing.T) {
	a := assert.New(t)
	out, err := execute("encode", "-m", "4", "-e", "2", "3.625", "0.5")
	require.NoError(t, err)
	a.Equal("3.625 0 10 1101  3.6\n0.5 0 00 1000  0.5\n", out)

	out, err = execute("encode", "-m", "4", "-e", "2", "--bits", "0101101")
	require.NoError(t, err)
	a.Equal("0101101 0 10 1101  3.6\n", out)

	out, err = execute("encode", "-m", "4", "-e", "2", "--format", "json", "3.625")
	require.NoError(t, err)
	a.Equal(`{"mantissa_length":4,"exponent_length":2,"bits":"0101101","value":"3.6"}`+"\n", out)

	out, err = execute("encode", "-m", "10", "-e", "5", "--format", "msgpack", "3.14")
	require.NoError(t, err)
	var f mpfloat.Float
	require.NoError(t, msgpack.Unmarshal([]byte(out), &f))
	a.Equal("3.14", f.String())
	a.Equal(10, f.MantissaLength())
}

func TestEncodeErrors(t *testing.T) {
	a := assert.New(t)
	_, err := execute("encode", "1.2.3")
	if a.Error(err) {
		a.Contains(err.Error(), "parsing failed")
	}
	_, err = execute("encode", "-m", "4", "-e", "2", "--bits", "0101")
	a.Error(err)
	_, err = execute("encode", "-e", "0", "1")
	a.ErrorIs(err, mpfloat.ErrConfiguration)
	_, err = execute("encode", "--format", "xml", "1")
	a.EqualError(err, "unknown format: xml")
	_, err = execute("encode")
	a.Error(err)
}

func TestCalc(t *testing.T) {
	a := assert.New(t)
	out, err := execute("calc", "-m", "10", "-e", "5", "3", "+", "4")
	require.NoError(t, err)
	a.Equal("0 10001 1100000000  7\n", out)

	out, err = execute("calc", "-m", "10", "-e", "5", "3", "/", "4")
	require.NoError(t, err)
	a.Equal("0 01110 1000000000  0.75\n", out)

	out, err = execute("calc", "--", "1", "-", "inf")
	require.NoError(t, err)
	a.True(strings.HasSuffix(out, "  -Inf\n"), out)

	for op, expected := range map[string]string{
		"==": "false", "!=": "true", "<": "true", "<=": "true", ">": "false", ">=": "false",
	} {
		out, err = execute("calc", "1", op, "2")
		require.NoError(t, err)
		a.Equal(expected+"\n", out, op)
	}

	_, err = execute("calc", "1", "^", "2")
	a.EqualError(err, `unknown operation "^"`)
	_, err = execute("calc", "1", "+")
	a.Error(err)
}

func TestCast(t *testing.T) {
	a := assert.New(t)
	out, err := execute("cast", "--to-mantissa", "10", "--to-exponent", "5", "3.14")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	a.True(strings.HasPrefix(lines[0], "from: 0 10000000000 "), lines[0])
	a.Equal("to:   0 10000 1001001000  3.14", lines[1])
	a.True(strings.HasSuffix(lines[2], "within 1 ulp: true"), lines[2])

	out, err = execute("cast", "--to-mantissa", "10", "--to-exponent", "5", "1e10")
	require.NoError(t, err)
	a.Contains(out, "to:   0 11111 0000000000  +Inf")
	a.Contains(out, "within 1 ulp: false")

	_, err = execute("cast", "--to-exponent", "40", "1")
	a.ErrorIs(err, mpfloat.ErrConfiguration)
}

func TestEval(t *testing.T) {
	a := assert.New(t)
	path := filepath.Join(t.TempDir(), "eval.toml")
	require.NoError(t, os.WriteFile(path, []byte("mantissa_from = 8\nmantissa_to = 10\niterations = 10\nsamples = 10\n"), 0o644))

	out, err := execute("eval", "--config", path, "--op", "mul")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	a.True(strings.HasPrefix(lines[0], "mantissa"), lines[0])
	a.True(strings.HasPrefix(lines[1], "8 "), lines[1])
	a.True(strings.HasPrefix(lines[3], "10 "), lines[3])

	out, err = execute("eval", "--config", path, "--format", "json")
	require.NoError(t, err)
	var results []eval.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	a.Equal(9, results[1].MantissaLength)

	out, err = execute("eval", "--config", path, "--format", "msgpack")
	require.NoError(t, err)
	dec := msgpack.NewDecoder(bytes.NewReader([]byte(out)))
	dec.SetCustomStructTag("json")
	results = nil
	require.NoError(t, dec.Decode(&results))
	require.Len(t, results, 3)
	a.Equal(10, results[2].MantissaLength)
	a.True(results[2].MeanRelError <= results[2].MaxRelError)

	_, err = execute("eval", "--config", path, "--format", "yaml")
	a.EqualError(err, "unknown format: yaml")
	_, err = execute("eval", "--config", path, "--op", "pow")
	a.EqualError(err, `unknown operation "pow"`)
	_, err = execute("eval", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	a.ErrorIs(err, os.ErrNotExist)
}

func TestSolve(t *testing.T) {
	a := assert.New(t)
	out, err := execute("solve", "--matrix=0,1,2,3", "--rhs=1,5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	a.Equal("x[0] 0 01111111 00000000000000000000000  1", lines[0])
	a.True(strings.HasPrefix(lines[1], "x[1] "), lines[1])
	a.True(strings.HasPrefix(lines[2], "iterations: 1, converged: true"), lines[2])

	out, err = execute("solve", "--matrix=0,1,2,3", "--rhs=1,5", "--format", "json")
	require.NoError(t, err)
	var res ira.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	a.True(res.Converged)
	a.Len(res.Steps, res.Iterations+1)
	require.Len(t, res.Solution, 2)
	a.Equal(23, res.Solution[0].MantissaLength())
	a.Equal([]float64{1, 1}, res.Solution.Float64s())

	out, err = execute("solve", "--matrix=0,1,2,3", "--rhs=1,5", "--direct")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	a.True(strings.HasPrefix(lines[1], "x[1] 0 01111111111 "), lines[1])

	path := filepath.Join(t.TempDir(), "ira.toml")
	require.NoError(t, os.WriteFile(path, []byte("dimension = 3\nruns = 2\n"), 0o644))
	out, err = execute("solve", "--config", path)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	a.True(strings.HasPrefix(lines[0], "run"), lines[0])
	a.True(strings.HasPrefix(lines[3], "mean precision: "), lines[3])

	out, err = execute("solve", "--config", path, "--format", "msgpack")
	require.NoError(t, err)
	dec := msgpack.NewDecoder(bytes.NewReader([]byte(out)))
	dec.SetCustomStructTag("json")
	var results []ira.Result
	require.NoError(t, dec.Decode(&results))
	require.Len(t, results, 2)
	a.Len(results[0].Solution, 3)

	_, err = execute("solve", "--matrix=1,2,3", "--rhs=1")
	a.ErrorIs(err, ira.ErrDimension)
	_, err = execute("solve", "--matrix=1,2,3,4", "--rhs=1")
	a.ErrorIs(err, ira.ErrDimension)
	_, err = execute("solve", "--matrix=1,2,2,4", "--rhs=1,2")
	a.ErrorIs(err, ira.ErrSingular)
	_, err = execute("solve", "--matrix=1,x,3,4", "--rhs=1,2")
	a.Error(err)
	_, err = execute("solve", "--format", "yaml")
	a.EqualError(err, "unknown format: yaml")
}
