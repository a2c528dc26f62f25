package lexer_test

import (
	"testing"

	"github.com/lookbusy1344/arm-toy/isa"
	"github.com/lookbusy1344/arm-toy/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, err := lexer.NewLexer("test.asm", 1).TokenizeAll(src)
	require.Nil(t, err)
	return toks
}

func TestTokenizeAll_ThreeRegisterForm(t *testing.T) {
	toks := tokenize(t, "ADD R1, R2, R3")
	require.Len(t, toks, 6)
	assert.Equal(t, lexer.TokenOpcode, toks[0].Type)
	assert.Equal(t, isa.ADD, toks[0].Opcode)
	assert.Equal(t, lexer.TokenRegister, toks[1].Type)
	assert.Equal(t, isa.R1, toks[1].Register)
	assert.Equal(t, lexer.TokenRegister, toks[3].Type)
	assert.Equal(t, isa.R2, toks[3].Register)
	assert.Equal(t, lexer.TokenRegister, toks[5].Type)
	assert.Equal(t, isa.R3, toks[5].Register)
}

func TestTokenizeAll_BracketedMemoryOperand(t *testing.T) {
	toks := tokenize(t, "STR R1, [R2, R3]")
	types := make([]lexer.TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	assert.Equal(t, []lexer.TokenType{
		lexer.TokenOpcode, lexer.TokenRegister, lexer.TokenComma, lexer.TokenLBracket,
		lexer.TokenRegister, lexer.TokenComma, lexer.TokenRegister, lexer.TokenRBracket,
	}, types)
}

func TestTokenizeAll_HexAndDecimalLiterals(t *testing.T) {
	toks := tokenize(t, "MOV R0, #0x10")
	require.Len(t, toks, 4)
	assert.Equal(t, uint32(0x10), toks[3].Value)

	toks = tokenize(t, "MOV R0, #16")
	require.Len(t, toks, 4)
	assert.Equal(t, uint32(16), toks[3].Value)
}

func TestTokenizeAll_CharLiteral(t *testing.T) {
	toks := tokenize(t, "MOV R0, #'A'")
	require.Len(t, toks, 4)
	assert.Equal(t, uint32('A'), toks[3].Value)
}

func TestTokenizeAll_CommentStripsRestOfLine(t *testing.T) {
	toks := tokenize(t, "MOV R0, R1 ; copy R1 into R0")
	require.Len(t, toks, 4)
}

func TestTokenizeAll_BareLabel(t *testing.T) {
	toks := tokenize(t, "loop")
	require.Len(t, toks, 1)
	assert.Equal(t, lexer.TokenLabel, toks[0].Type)
	assert.Equal(t, "loop", toks[0].Literal)
}

func TestTokenizeAll_BranchMnemonicCarriesCondition(t *testing.T) {
	toks := tokenize(t, "BEQ loop")
	require.Len(t, toks, 2)
	assert.Equal(t, isa.Bcc, toks[0].Opcode)
	assert.Equal(t, isa.CondEQ, toks[0].Condition)
	assert.Equal(t, lexer.TokenLabel, toks[1].Type)
}

func TestTokenizeAll_MalformedLiteralErrors(t *testing.T) {
	_, err := lexer.NewLexer("test.asm", 1).TokenizeAll("MOV R0, #notanumber")
	require.NotNil(t, err)
	assert.Equal(t, 1, err.Pos.Line)
}
