package assemble_test

import (
	"testing"

	"github.com/lookbusy1344/arm-toy/assemble"
	"github.com/lookbusy1344/arm-toy/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_ThreeRegisterForm(t *testing.T) {
	words, err := assemble.Assemble("ADD R1, R2, R3", assemble.Options{Filename: "t.asm"})
	require.Nil(t, err)
	require.Len(t, words, 1)

	word := words[0]
	assert.Equal(t, uint32(0x01), isa.DecodeField(word, isa.FieldOpcode))
	assert.Equal(t, uint32(isa.R1), isa.DecodeField(word, isa.FieldDR))
	assert.Equal(t, uint32(isa.R2), isa.DecodeField(word, isa.FieldRX))
	assert.Equal(t, uint32(isa.R3), isa.DecodeField(word, isa.FieldRY))
}

func TestAssemble_ImmediateForm(t *testing.T) {
	words, err := assemble.Assemble("MOV R0, #100", assemble.Options{Filename: "t.asm"})
	require.Nil(t, err)
	require.Len(t, words, 1)

	word := words[0]
	assert.Equal(t, uint32(0x23), isa.DecodeField(word, isa.FieldOpcode))
	assert.Equal(t, uint32(100), isa.DecodeField(word, isa.FieldImmed20))
}

func TestAssemble_BranchResolvesForwardLabel(t *testing.T) {
	source := "BEQ skip\nADD R1, R2, R3\nskip MOV R0, #1"
	words, err := assemble.Assemble(source, assemble.Options{Filename: "t.asm"})
	require.Nil(t, err)
	require.Len(t, words, 3)

	bccWord := words[0]
	bccField := isa.DecodeField(bccWord, isa.FieldBcc)
	cc, decErr := isa.DecodeBcc(bccField)
	require.Nil(t, decErr)
	assert.Equal(t, isa.CondEQ, cc)
	assert.Equal(t, uint32(2), isa.DecodeField(bccWord, isa.FieldImmed20))
}

func TestAssemble_BareLabelDeclaresWithoutConsumingSlot(t *testing.T) {
	source := "start\nADD R1, R2, R3"
	words, err := assemble.Assemble(source, assemble.Options{Filename: "t.asm"})
	require.Nil(t, err)
	require.Len(t, words, 1)
}

func TestAssemble_UndeclaredBranchTargetIsFatal(t *testing.T) {
	_, err := assemble.Assemble("BEQ nowhere", assemble.Options{Filename: "t.asm"})
	require.NotNil(t, err)
}

func TestAssemble_RedeclaredLabelIsFatal(t *testing.T) {
	source := "here ADD R1, R2, R3\nhere MOV R0, #1"
	_, err := assemble.Assemble(source, assemble.Options{Filename: "t.asm"})
	require.NotNil(t, err)
}

func TestAssemble_DropsBadLineAndReportsDiagnostic(t *testing.T) {
	var reported []string
	source := "ADD R1, R2, R3\nNOTANOP R9\nSUB R4, R5, R6"
	words, err := assemble.Assemble(source, assemble.Options{
		Filename:   "t.asm",
		Diagnostic: func(line string) { reported = append(reported, line) },
	})
	require.Nil(t, err)
	assert.Len(t, words, 2)
	assert.Len(t, reported, 1)
}

func TestAssemble_HaltOnParseErrorAbortsImmediately(t *testing.T) {
	source := "ADD R1, R2, R3\nNOTANOP R9"
	_, err := assemble.Assemble(source, assemble.Options{
		Filename:         "t.asm",
		HaltOnParseError: true,
	})
	require.NotNil(t, err)
}

func TestAssemble_MemoryForm_RegisterBase(t *testing.T) {
	words, err := assemble.Assemble("STR R1, [R2, R3]", assemble.Options{Filename: "t.asm"})
	require.Nil(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, uint32(0x36), isa.DecodeField(words[0], isa.FieldOpcode))
}
