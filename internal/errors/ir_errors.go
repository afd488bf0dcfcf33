package errors

import (
	"fmt"
	"strings"
)

// ErrorBuilder provides a fluent interface for creating IR errors with suggestions
type ErrorBuilder struct {
	err CompilerError
}

// NewError creates a new error builder
func NewError(code, message string, pos Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *ErrorBuilder) WithLength(length int) *ErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *ErrorBuilder) WithSuggestion(message string) *ErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *ErrorBuilder) WithNote(note string) *ErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *ErrorBuilder) WithHelp(help string) *ErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *ErrorBuilder) Build() CompilerError {
	return b.err
}

// UndefinedValue creates an error for an unknown %name or @name, suggesting close matches
func UndefinedValue(name string, pos Position, candidates []string) CompilerError {
	builder := NewError(ErrorUndefinedValue, fmt.Sprintf("use of undefined value '%s'", name), pos).
		WithLength(len(name))

	similar := findSimilarNames(name, candidates)
	switch len(similar) {
	case 0:
		builder = builder.WithNote("values must be defined by an instruction, a parameter or a global")
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}

	return builder.Build()
}

// UndefinedBlock creates an error for a branch or phi naming a missing label
func UndefinedBlock(label string, pos Position, labels []string) CompilerError {
	builder := NewError(ErrorUndefinedBlock, fmt.Sprintf("use of undefined label '%s'", label), pos).
		WithLength(len(label))

	if similar := findSimilarNames(label, labels); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	}

	return builder.Build()
}

// UndefinedFunction creates an error for a call to an unknown function
func UndefinedFunction(name string, pos Position) CompilerError {
	return NewError(ErrorUndefinedFunction, fmt.Sprintf("call to undeclared function '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("add a declaration: declare <type> %s(...)", name)).
		WithHelp("intrinsics starting with @llvm. do not need a declaration").
		Build()
}

// DuplicateDefinition creates an error for a redefined name
func DuplicateDefinition(name string, pos Position) CompilerError {
	return NewError(ErrorDuplicateDefinition, fmt.Sprintf("'%s' is defined more than once", name), pos).
		WithLength(len(name)).
		Build()
}

// UnknownOpcode creates an error for an unknown instruction mnemonic
func UnknownOpcode(opcode string, pos Position, known []string) CompilerError {
	builder := NewError(ErrorUnknownOpcode, fmt.Sprintf("unknown opcode '%s'", opcode), pos).
		WithLength(len(opcode))

	if similar := findSimilarNames(opcode, known); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	}

	return builder.Build()
}

// InvalidFlag creates an error for a flag the opcode does not accept
func InvalidFlag(opcode, flag string, pos Position) CompilerError {
	return NewError(ErrorInvalidFlag, fmt.Sprintf("'%s' is not a valid flag for '%s'", flag, opcode), pos).
		WithLength(len(flag)).
		Build()
}

// OperandCount creates an error for an instruction with the wrong number of operands
func OperandCount(opcode string, expected string, actual int, pos Position) CompilerError {
	return NewError(ErrorOperandCount,
		fmt.Sprintf("'%s' expects %s operands, found %d", opcode, expected, actual), pos).
		WithLength(len(opcode)).
		Build()
}

// InvalidOperand creates an error for an operand that does not fit its slot
func InvalidOperand(message string, pos Position) CompilerError {
	return NewError(ErrorInvalidOperand, message, pos).Build()
}

// InvalidType creates an error for a malformed or misplaced type
func InvalidType(message string, pos Position) CompilerError {
	return NewError(ErrorInvalidType, message, pos).Build()
}

// TypeMismatch creates an error for a constant that cannot take the expected type
func TypeMismatch(expected, actual string, pos Position) CompilerError {
	return NewError(ErrorTypeMismatch, fmt.Sprintf("type mismatch: expected %s, found %s", expected, actual), pos).
		Build()
}

// SyntaxError wraps a parser message
func SyntaxError(message string, pos Position) CompilerError {
	return NewError(ErrorSyntax, message, pos).Build()
}

// MissingTerminator creates an error for a block that falls off its end
func MissingTerminator(label string, pos Position) CompilerError {
	return NewError(ErrorMissingTerminator, fmt.Sprintf("block '%s' does not end with a terminator", label), pos).
		WithSuggestion("end the block with br, ret or unreachable").
		Build()
}

// DeadInstruction creates a hint for an instruction the dead instruction eliminator removes
func DeadInstruction(text string, pos Position) CompilerError {
	return NewWarning(WarningDeadInstruction, fmt.Sprintf("dead instruction: %s", text), pos).
		WithLength(len(text)).
		Build()
}

// RedundantInstruction creates a hint for an instruction value numbering replaces
func RedundantInstruction(text, leader string, pos Position) CompilerError {
	return NewWarning(WarningRedundantInstruction,
		fmt.Sprintf("redundant instruction: %s is equivalent to %s", text, leader), pos).
		WithLength(len(text)).
		Build()
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if candidate != target && levenshteinDistance(target, candidate) <= 2 && len(candidate) > 1 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
