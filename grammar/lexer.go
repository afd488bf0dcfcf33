package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// IRLexer tokenizes the textual IR. Line breaks are significant: an
// instruction ends at the end of its line.
var IRLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `;[^\n]*`, nil},

		// Line breaks, including any indentation of the following line
		{"EOL", `(\r?\n[ \t]*)+`, nil},
		{"Whitespace", `[ \t\r]+`, nil},

		// Block labels (order matters: before identifiers)
		{"Label", `[\w.$-]+:`, nil},

		// Value references
		{"Local", `%[\w.$-]+`, nil},
		{"Global", `@[\w.$-]+`, nil},

		// Primitive type names (before identifiers)
		{"TypeName", `(i[0-9]+|ptr|void|half|float|double|label|metadata|token)\b`, nil},

		// Integer literals
		{"Integer", `-?[0-9]+`, nil},

		// Opcodes, flags, predicates and keywords
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_.]*`, nil},

		// Punctuation
		{"Punctuation", `[=,()\[\]{}<>]`, nil},
	},
})
