// Package lexer converts one source line into a token stream for the
// parser, validating literal syntax as it goes.
package lexer

import (
	"fmt"

	"github.com/lookbusy1344/arm-toy/isa"
)

// TokenType classifies a Token.
type TokenType int

const (
	TokenOpcode TokenType = iota
	TokenRegister
	TokenLiteral
	TokenComma
	TokenLBracket
	TokenRBracket
	TokenLabel
	TokenComment
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenOpcode:   "OPCODE",
	TokenRegister: "REGISTER",
	TokenLiteral:  "LITERAL",
	TokenComma:    ",",
	TokenLBracket: "[",
	TokenRBracket: "]",
	TokenLabel:    "LABEL",
	TokenComment:  "COMMENT",
	TokenEOF:      "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Token is one lexeme: its type, literal text, and decoded payload where
// applicable (register number, opcode/condition, or literal value).
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int

	Register  isa.Register
	Opcode    isa.Opcode
	Condition isa.ConditionCode
	Value     uint32
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
