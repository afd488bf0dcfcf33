package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"vnopt/internal/errors"
	"vnopt/internal/ir"
	"vnopt/internal/opt"
	"vnopt/internal/parser"
)

const diagnosticSource = "vnopt"

// Analyze parses and lowers an IR document. When it is well formed, the
// default pipeline runs on the fresh module and every instruction it
// would remove or replace is reported as a hint.
func Analyze(path, source string) []protocol.Diagnostic {
	result := parser.ParseSource(path, source)
	lines := strings.Split(source, "\n")

	diagnostics := ConvertErrors(result.Errors, lines)
	if result.HasErrors() || result.Module == nil {
		return diagnostics
	}
	return append(diagnostics, ConvertErrors(OptimizationHints(path, result.Module), lines)...)
}

// OptimizationHints runs the default pipeline on m, which is modified, and
// describes each change as a warning-level CompilerError.
func OptimizationHints(path string, m *ir.Module) errors.List {
	var hints errors.List
	replaced := make(map[ir.Position]bool)
	position := func(pos ir.Position) errors.Position {
		return errors.Position{Filename: path, Line: pos.Line, Column: pos.Column}
	}

	options := opt.Options{
		OnReplace: func(ev opt.Event) {
			if !ev.Pos.IsValid() {
				return
			}
			replaced[ev.Pos] = true
			hints = append(hints, errors.RedundantInstruction(ev.Text, ev.Replacement, position(ev.Pos)))
		},
		OnRemove: func(ev opt.Event) {
			if !ev.Pos.IsValid() || replaced[ev.Pos] {
				return
			}
			hints = append(hints, errors.DeadInstruction(ev.Text, position(ev.Pos)))
		},
	}

	pipeline, err := opt.NewPipeline(options)
	if err != nil {
		return hints
	}
	if _, err := pipeline.Run(m); err != nil {
		hints = append(hints, errors.NewWarning(errors.ErrorIterationLimit, err.Error(),
			errors.Position{Filename: path, Line: 1, Column: 1}).Build())
	}
	return hints
}

// ConvertErrors transforms compiler errors into LSP diagnostics. Hints
// span the rest of their source line, other problems their reported length.
func ConvertErrors(errs errors.List, lines []string) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, e := range errs {
		line := max(e.Position.Line-1, 0)     // Convert to 0-based indexing
		column := max(e.Position.Column-1, 0) // Convert to 0-based indexing
		end := column + max(e.Length, 1)
		if isHint(e.Code) && line < len(lines) {
			end = max(len(strings.TrimRight(stripComment(lines[line]), " \t\r")), column+1)
		}

		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: uint32(column)},
				End:   protocol.Position{Line: uint32(line), Character: uint32(end)},
			},
			Severity: ptrSeverity(severity(e)),
			Code:     &protocol.IntegerOrString{Value: e.Code},
			Source:   ptrString(diagnosticSource),
			Message:  message(e),
		}
		if e.Code == errors.WarningDeadInstruction || e.Code == errors.WarningRedundantInstruction {
			diagnostic.Tags = []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

func isHint(code string) bool {
	return code == errors.WarningDeadInstruction || code == errors.WarningRedundantInstruction
}

func severity(e errors.CompilerError) protocol.DiagnosticSeverity {
	switch {
	case isHint(e.Code):
		return protocol.DiagnosticSeverityHint
	case e.Level == errors.Warning:
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}

func message(e errors.CompilerError) string {
	msg := e.Message
	for _, s := range e.Suggestions {
		msg += "\n" + s.Message
	}
	return msg
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
