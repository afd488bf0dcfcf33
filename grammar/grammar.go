package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type Module struct {
	Pos     lexer.Position
	Entries []*Entry `EOL* (@@ EOL*)*`
}

type Entry struct {
	Global   *GlobalDecl `  @@`
	Declare  *Declare    `| @@`
	Function *Function   `| @@`
}

type GlobalDecl struct {
	Pos  lexer.Position
	Name string `@Global "=" "global"`
	Type *Type  `@@`
}

type Declare struct {
	Pos        lexer.Position
	ReturnType *Type   `"declare" @@`
	Name       string  `@Global "("`
	Params     []*Type `[ @@ { "," @@ } ] ")"`
}

type Function struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	ReturnType *Type    `"define" @@`
	Name       string   `@Global "("`
	Params     []*Param `[ @@ { "," @@ } ] ")" "{" EOL*`
	Blocks     []*Block `@@* "}"`
}

type Param struct {
	Pos  lexer.Position
	Type *Type  `@@`
	Name string `@Local`
}

type Block struct {
	Pos    lexer.Position
	Label  string   `@Label EOL*`
	Instrs []*Instr `{ @@ EOL+ }`
}

// Instr is one instruction line:
//
//	[%result =] opcode {flag} [type [","]] (callee(args) | operand {"," operand}) ["to" type]
type Instr struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Result   string     `[ @Local "=" ]`
	Opcode   string     `@Ident`
	Flags    []string   `@Ident*`
	Type     *Type      `[ @@ [ "," ] ]`
	Call     *Call      `[   @@`
	Operands []*Operand `  | @@ { "," @@ } ]`
	To       *Type      `[ "to" @@ ]`
}

type Call struct {
	Pos    lexer.Position
	Callee string     `@Global "("`
	Args   []*Operand `[ @@ { "," @@ } ] ")"`
}

type Operand struct {
	Pos   lexer.Position
	Phi   *PhiPair `  "[" @@ "]"`
	Type  *Type    `| @@?`
	Value *Value   `  @@`
}

type PhiPair struct {
	Value *Value `@@ ","`
	Block string `@Local`
}

type Value struct {
	Pos     lexer.Position
	Local   *string `  @Local`
	Global  *string `| @Global`
	Integer *string `| @Integer`
	Keyword *string `| @("true" | "false" | "undef" | "null" | "none")`
}

type Type struct {
	Pos    lexer.Position
	Name   string      `  @TypeName`
	Vector *SeqType    `| "<" @@ ">"`
	Array  *SeqType    `| "[" @@ "]"`
	Struct *StructType `| "{" @@ "}"`
}

type SeqType struct {
	Len  int   `@Integer "x"`
	Elem *Type `@@`
}

type StructType struct {
	Fields []*Type `@@ { "," @@ }`
}
