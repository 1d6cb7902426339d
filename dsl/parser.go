package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:px|pt|mm|cm|in|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	batchParser = participle.MustBuild[Batch](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Batch is the root AST node of a batch fit file:
//
//	batch HeroCards {
//	  title "Sir Ragnar the Bold" bounds 300 60
//	  statHeading "Movement Squares" bounds 140 70 { forceTwoLine: true }
//	}
type Batch struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"Newline* 'batch' @Ident"`
	Items []*Item        `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Item is one text to fit.
type Item struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Role   string         `parser:"@Ident"`
	Text   StringLiteral  `parser:"@String"`
	Width  string         `parser:"'bounds' @Number"`
	Height string         `parser:"@Number"`
	Prefs  *Block         `parser:"@@?"`
}

// Block is a delimited list of preference assignments.
type Block struct {
	Assignments []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Value is a boolean, number or string literal.
type Value struct {
	Bool   *Boolean       `parser:"  @('true' | 'false')"`
	Number *string        `parser:"| @Number"`
	String *StringLiteral `parser:"| @String"`
}

// Boolean captures true/false keywords.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("boolean capture requires value")
	}
	*b = values[0] == "true"
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a batch file from an io.Reader.
func Parse(r io.Reader) (*Batch, error) {
	return batchParser.Parse("", r)
}

// ParseString parses a batch file from a string.
func ParseString(input string) (*Batch, error) {
	return batchParser.ParseString("", input)
}
