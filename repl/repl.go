// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"vnopt/internal/errors"
	"vnopt/internal/ir"
	"vnopt/internal/opt"
	"vnopt/internal/parser"
)

const (
	PROMPT       = ">> "
	CONTINUATION = ".. "
)

// Start reads IR from in, one module per blank-line terminated chunk, and
// writes each optimized module and its counters to out.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var chunk strings.Builder

	fmt.Fprint(out, PROMPT)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			chunk.WriteString(line)
			chunk.WriteByte('\n')
			fmt.Fprint(out, CONTINUATION)
			continue
		}
		if chunk.Len() > 0 {
			Eval(out, chunk.String())
			chunk.Reset()
		}
		fmt.Fprint(out, PROMPT)
	}
	if chunk.Len() > 0 {
		Eval(out, chunk.String())
	}
	fmt.Fprintln(out)
}

// Eval optimizes one module with the default pipeline.
func Eval(out io.Writer, source string) {
	result := parser.ParseSource("<repl>", source)
	if len(result.Errors) > 0 {
		fmt.Fprint(out, errors.NewErrorReporter("<repl>", source).FormatAll(result.Errors))
	}
	if result.HasErrors() {
		return
	}

	pipeline, err := opt.NewPipeline(opt.Options{VerifyEachPass: true})
	if err != nil {
		fmt.Fprintln(out, color.RedString("error:"), err)
		return
	}
	if _, err := pipeline.Run(result.Module); err != nil {
		fmt.Fprintln(out, color.RedString("error:"), err)
		return
	}

	fmt.Fprint(out, ir.Print(result.Module))
	if stats := pipeline.Stats(); stats.IsZero() {
		fmt.Fprintln(out, color.YellowString("nothing to optimize"))
	} else {
		fmt.Fprint(out, stats.String())
	}
}
