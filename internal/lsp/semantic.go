package lsp

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"vnopt/grammar"
	"vnopt/internal/ir"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask over SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into SemanticTokenTypes
	TokenModifiers int // bitmask
}

var keywords = map[string]bool{
	"define":  true,
	"declare": true,
	"global":  true,
	"to":      true,
	"x":       true,
	"true":    true,
	"false":   true,
	"undef":   true,
	"null":    true,
	"none":    true,
}

// collectSemanticTokens classifies the lexer tokens of an IR file. It works
// on text that does not parse, so highlighting survives syntax errors.
func collectSemanticTokens(filename, source string) []SemanticToken {
	lex, err := grammar.IRLexer.Lex(filename, strings.NewReader(source))
	if err != nil {
		return nil
	}
	all, _ := lexer.ConsumeAll(lex)
	symbols := lexer.SymbolsByRune(grammar.IRLexer)

	var tokens []SemanticToken
	for i, tok := range all {
		switch symbols[tok.Type] {
		case "Comment":
			tokens = append(tokens, makeToken(tok.Pos, len(tok.Value), "comment", 0))
		case "Label":
			tokens = append(tokens, makeToken(tok.Pos, len(tok.Value)-1, "namespace", 1))
		case "Local":
			decl := 0
			if next := nextSignificant(all, symbols, i); next != nil && next.Value == "=" {
				decl = 1
			}
			tokens = append(tokens, makeToken(tok.Pos, len(tok.Value), "variable", decl))
		case "Global":
			tokens = append(tokens, makeToken(tok.Pos, len(tok.Value), "function", 0))
		case "TypeName":
			tokens = append(tokens, makeToken(tok.Pos, len(tok.Value), "type", 0))
		case "Integer":
			tokens = append(tokens, makeToken(tok.Pos, len(tok.Value), "number", 0))
		case "Ident":
			tokens = append(tokens, makeToken(tok.Pos, len(tok.Value), identTokenType(tok.Value), 0))
		}
	}
	return tokens
}

func identTokenType(value string) string {
	if keywords[value] {
		return "keyword"
	}
	if _, ok := ir.ParseOpcode(value); ok {
		return "operator"
	}
	// flags, qualifiers and predicates
	return "modifier"
}

func nextSignificant(all []lexer.Token, symbols map[lexer.TokenType]string, i int) *lexer.Token {
	for j := i + 1; j < len(all); j++ {
		switch symbols[all[j].Type] {
		case "Whitespace", "Comment":
			continue
		}
		return &all[j]
	}
	return nil
}

func makeToken(pos lexer.Position, length int, tokenType string, declModifier int) SemanticToken {
	return SemanticToken{
		Line:           uint32(pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(length),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: declModifier << indexOf("declaration", SemanticTokenModifiers),
	}
}

// encodeSemanticTokens packs tokens into the LSP wire format (using
// delta-line, delta-start compression).
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	var data []uint32
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}
	return data
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0 // Default to first token type if not found
}
