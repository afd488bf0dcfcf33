package grammar

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

var parser = participle.MustBuild[Module](
	participle.Lexer(IRLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

func ParseFile(path string) (*Module, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

func ParseString(filename, source string) (*Module, error) {
	// A final line break keeps the last instruction terminated.
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}
	return parser.ParseString(filename, source)
}

// ReportParseError writes a friendly caret-style parse error message.
func ReportParseError(w io.Writer, src string, err error) {
	red := color.New(color.FgRed)
	pe, ok := err.(participle.Error)
	if !ok {
		red.Fprintf(w, "Unexpected error: %s\n", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		red.Fprintf(w, "Syntax error at unknown location: %s\n", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", max(pos.Column-1, 0)) + "^"

	red.Fprintf(w, "Syntax error in %s at line %d, column %d:\n", pos.Filename, pos.Line, pos.Column)
	fmt.Fprintln(w, line)
	color.New(color.FgHiRed).Fprintln(w, caret)
	fmt.Fprintf(w, "→ %s\n", pe.Message())
}
