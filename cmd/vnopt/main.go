// SPDX-License-Identifier: Apache-2.0
package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"vnopt/internal/errors"
	"vnopt/internal/ir"
	"vnopt/internal/opt"
	"vnopt/internal/parser"
)

var (
	verbosity     int
	noColor       bool
	passes        []string
	verify        bool
	showStats     bool
	maxIterations int
	outputFile    string
)

var errFailed = stderrors.New("compilation failed")

var rootCmd = &cobra.Command{
	Use:   "vnopt",
	Short: "Local value numbering optimizer for textual SSA IR",
	Long:  "Removes redundant and dead instructions from SSA functions written in an LLVM-like text form.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		commonlog.Configure(verbosity, nil)
	},
	SilenceErrors: true,
}

var optCmd = &cobra.Command{
	Use:   "opt <file.ll>",
	Short: "Optimize an IR file",
	Long:  "Parse an IR file, run the selected passes over every function and print the result.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		startTime := time.Now()
		path := args[0]

		result, err := load(path)
		if err != nil {
			return err
		}

		pipeline, err := opt.NewPipeline(opt.Options{MaxIterations: maxIterations, VerifyEachPass: verify}, passes...)
		if err != nil {
			return err
		}
		if _, err := pipeline.Run(result.Module); err != nil {
			report(result, pipelineError(path, err))
			return failed(startTime)
		}

		output := ir.Print(result.Module)
		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(output), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFile, err)
			}
		} else {
			fmt.Print(output)
		}

		if showStats {
			fmt.Fprint(os.Stderr, pipeline.Stats().String())
		}
		color.New(color.FgGreen).Fprintf(os.Stderr, "Optimized %s in %s\n", path, formatDuration(time.Since(startTime)))
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <file.ll>",
	Short: "Parse and verify an IR file without optimizing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		startTime := time.Now()
		path := args[0]

		result, err := load(path)
		if err != nil {
			return err
		}
		if err := ir.VerifyModule(result.Module); err != nil {
			report(result, errors.NewError(errors.ErrorVerification, err.Error(),
				errors.Position{Filename: path, Line: 1, Column: 1}).Build())
			return failed(startTime)
		}

		color.New(color.FgGreen).Fprintf(os.Stderr, "Successfully checked %s in %s\n", path, formatDuration(time.Since(startTime)))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeat for debug output)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	optCmd.Flags().StringSliceVar(&passes, "passes", opt.DefaultPasses, "comma-separated passes to run (constfold, cse, die)")
	optCmd.Flags().BoolVar(&verify, "verify", false, "verify each function after every pass")
	optCmd.Flags().BoolVar(&showStats, "stats", false, "print optimization counters")
	optCmd.Flags().IntVar(&maxIterations, "max-iterations", opt.DefaultMaxIterations, "fixed-point round limit per function")
	optCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the optimized IR to a file")

	rootCmd.AddCommand(optCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !stderrors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

// load reads, parses and lowers path, printing every diagnostic. Only
// warnings may remain when it succeeds.
func load(path string) (*parser.ParseResult, error) {
	startTime := time.Now()
	result, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		report(result, result.Errors...)
	}
	if result.HasErrors() {
		return nil, failed(startTime)
	}
	return result, nil
}

func report(result *parser.ParseResult, errs ...errors.CompilerError) {
	reporter := errors.NewErrorReporter(result.Path, result.Source)
	fmt.Fprint(os.Stderr, reporter.FormatAll(errs))
}

func pipelineError(path string, err error) errors.CompilerError {
	code := errors.ErrorVerification
	if stderrors.Is(err, opt.ErrIterationLimit) {
		code = errors.ErrorIterationLimit
	}
	return errors.NewError(code, err.Error(), errors.Position{Filename: path, Line: 1, Column: 1}).Build()
}

func failed(startTime time.Time) error {
	color.Red("Compilation failed after %s", formatDuration(time.Since(startTime)))
	return errFailed
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
