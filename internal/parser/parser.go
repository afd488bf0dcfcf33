package parser

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"vnopt/grammar"
	"vnopt/internal/errors"
	"vnopt/internal/ir"
)

// ParseResult is the outcome of reading one IR file: the lowered module
// (nil on a syntax error) and every problem found on the way.
type ParseResult struct {
	Path   string
	Source string
	Module *ir.Module
	Errors errors.List
}

// HasErrors reports whether the module must not be optimized.
func (pr *ParseResult) HasErrors() bool {
	for _, e := range pr.Errors {
		if e.Level == errors.Error {
			return true
		}
	}
	return false
}

func ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseSource(path, string(source)), nil
}

// ParseSource parses and lowers IR text.
func ParseSource(path string, source string) *ParseResult {
	result := &ParseResult{Path: path, Source: source}

	ast, err := grammar.ParseString(path, source)
	if err != nil {
		result.Errors = append(result.Errors, syntaxError(path, err))
		return result
	}

	result.Module, result.Errors = Lower(path, ast)
	return result
}

func syntaxError(path string, err error) errors.CompilerError {
	pe, ok := err.(participle.Error)
	if !ok {
		return errors.SyntaxError(err.Error(), errors.Position{Filename: path, Line: 1, Column: 1})
	}
	pos := pe.Position()
	return errors.SyntaxError(pe.Message(), errors.Position{Filename: path, Line: pos.Line, Column: pos.Column})
}
