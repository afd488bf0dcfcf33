package errors

// Error codes for the vnopt toolchain
// These codes are used in error messages and documentation
// to provide consistent error identification across the CLI, REPL and language server.
//
// Error code ranges:
// E0001-E0099: IR lowering errors
// E0100-E0199: Parser errors
// E0200-E0299: Type errors
// E0600-E0699: Verifier errors
// E0700-E0799: Optimizer errors
// W0001-W0099: Optimization hints

const (
	// E0001: Reference to a value that is not defined in the function or module
	ErrorUndefinedValue = "E0001"

	// E0002: Branch or phi references a block label that does not exist
	ErrorUndefinedBlock = "E0002"

	// E0003: Value, block or function defined twice
	ErrorDuplicateDefinition = "E0003"

	// E0004: Opcode is not known to the IR
	ErrorUnknownOpcode = "E0004"

	// E0005: Flag or comparison predicate is not valid for the opcode
	ErrorInvalidFlag = "E0005"

	// E0006: Wrong number of operands for the opcode
	ErrorOperandCount = "E0006"

	// E0007: Operand cannot be used in this position
	ErrorInvalidOperand = "E0007"

	// E0008: Call to a function that is neither declared nor defined
	ErrorUndefinedFunction = "E0008"

	// E0100: Syntax error reported by the parser
	ErrorSyntax = "E0100"

	// E0200: Type is malformed or used where it is not allowed
	ErrorInvalidType = "E0200"

	// E0201: Constant does not fit the requested type
	ErrorTypeMismatch = "E0201"

	// E0600: Structural invariant of the IR does not hold
	ErrorVerification = "E0600"

	// E0601: Block does not end with a terminator
	ErrorMissingTerminator = "E0601"

	// E0700: Pass did not reach a fixed point within the iteration limit
	ErrorIterationLimit = "E0700"

	// W0001: Instruction has no effect and no users
	WarningDeadInstruction = "W0001"

	// W0002: Instruction recomputes a value available earlier in the block
	WarningRedundantInstruction = "W0002"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedValue:
		return "Value is used but not defined in the function or module"
	case ErrorUndefinedBlock:
		return "Block label is referenced but not defined"
	case ErrorDuplicateDefinition:
		return "Name is defined more than once"
	case ErrorUnknownOpcode:
		return "Unknown instruction opcode"
	case ErrorInvalidFlag:
		return "Invalid flag or predicate for the instruction"
	case ErrorOperandCount:
		return "Instruction has the wrong number of operands"
	case ErrorInvalidOperand:
		return "Operand is not valid in this position"
	case ErrorUndefinedFunction:
		return "Called function is neither declared nor defined"
	case ErrorSyntax:
		return "Syntax error"
	case ErrorInvalidType:
		return "Invalid type"
	case ErrorTypeMismatch:
		return "Constant does not match the expected type"
	case ErrorVerification:
		return "IR verification failed"
	case ErrorMissingTerminator:
		return "Block does not end with a terminator"
	case ErrorIterationLimit:
		return "Optimization did not converge"
	case WarningDeadInstruction:
		return "Instruction is dead and would be removed"
	case WarningRedundantInstruction:
		return "Instruction is redundant and would be replaced"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case len(code) == 0:
		return "Unknown"
	case code[0] == 'W':
		return "Optimization Hint"
	case code >= "E0001" && code < "E0100":
		return "Lowering"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0200" && code < "E0300":
		return "Type System"
	case code >= "E0600" && code < "E0700":
		return "Verifier"
	case code >= "E0700" && code < "E0800":
		return "Optimizer"
	default:
		return "Unknown"
	}
}
