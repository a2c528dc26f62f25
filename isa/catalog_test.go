package isa_test

import (
	"testing"

	"github.com/lookbusy1344/arm-toy/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytecodeTable_MatchesAuthoritativeValues(t *testing.T) {
	tests := []struct {
		op   isa.Opcode
		form isa.Form
		want uint32
	}{
		{isa.ADD, isa.Form1, 0x01},
		{isa.ADD, isa.Form4, 0x21},
		{isa.SUB, isa.Form1, 0x02},
		{isa.SUB, isa.Form4, 0x22},
		{isa.MOV, isa.Form2, 0x03},
		{isa.MOV, isa.Form5, 0x23},
		{isa.AND, isa.Form1, 0x04},
		{isa.AND, isa.Form4, 0x24},
		{isa.ORR, isa.Form1, 0x05},
		{isa.ORR, isa.Form4, 0x25},
		{isa.EOR, isa.Form1, 0x06},
		{isa.EOR, isa.Form4, 0x26},
		{isa.MVN, isa.Form2, 0x07},
		{isa.MVN, isa.Form5, 0x27},
		{isa.MUL, isa.Form1, 0x08},
		{isa.MUL, isa.Form4, 0x28},
		{isa.LDR, isa.Form2, 0x30},
		{isa.LDR, isa.Form4, 0x31},
		{isa.LDR, isa.Form1, 0x32},
		{isa.LDR, isa.Form5, 0x33},
		{isa.STR, isa.Form2, 0x34},
		{isa.STR, isa.Form4, 0x35},
		{isa.STR, isa.Form1, 0x36},
		{isa.STR, isa.Form5, 0x37},
		{isa.CMP, isa.Form2, 0x47},
		{isa.CMP, isa.Form5, 0x57},
	}

	for _, tt := range tests {
		got, ok := isa.Bytecode(tt.op, tt.form)
		require.True(t, ok, "%s/form%d should have a bytecode", tt.op, tt.form)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecodeOpcode_RoundTrip(t *testing.T) {
	op, form, err := isa.DecodeOpcode(0x21)
	require.NoError(t, err)
	assert.Equal(t, isa.ADD, op)
	assert.Equal(t, isa.Form4, form)
}

func TestDecodeOpcode_UnknownByte(t *testing.T) {
	_, _, err := isa.DecodeOpcode(0xFF)
	assert.Error(t, err)
}

func TestBccField_AndDecode(t *testing.T) {
	field := isa.BccField(isa.CondEQ)
	assert.Equal(t, uint32(0x801), field)

	cc, err := isa.DecodeBcc(field)
	require.NoError(t, err)
	assert.Equal(t, isa.CondEQ, cc)
}

func TestConditionCode_Satisfied_TruthTable(t *testing.T) {
	tests := []struct {
		cc           isa.ConditionCode
		n, z, c, v   bool
		want         bool
	}{
		{isa.CondAL, false, false, false, false, true},
		{isa.CondEQ, false, true, false, false, true},
		{isa.CondEQ, false, false, false, false, false},
		{isa.CondNE, false, false, false, false, true},
		{isa.CondHS, false, false, true, false, true},
		{isa.CondLO, false, false, false, false, true},
		{isa.CondMI, true, false, false, false, true},
		{isa.CondPL, false, false, false, false, true},
		{isa.CondVS, false, false, false, true, true},
		{isa.CondVC, false, false, false, false, true},
		{isa.CondHI, false, false, true, false, true},
		{isa.CondHI, false, true, true, false, false},
		{isa.CondLS, false, true, false, false, true},
		{isa.CondGE, true, false, false, true, true},
		{isa.CondLT, true, false, false, false, true},
		{isa.CondGT, false, false, false, false, true},
		{isa.CondGT, true, false, false, false, false},
		{isa.CondLE, true, false, false, false, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cc.Satisfied(tt.n, tt.z, tt.c, tt.v),
			"%s with N=%v Z=%v C=%v V=%v", tt.cc, tt.n, tt.z, tt.c, tt.v)
	}
}

func TestLookupMnemonic(t *testing.T) {
	op, cc, ok := isa.LookupMnemonic("BEQ")
	require.True(t, ok)
	assert.Equal(t, isa.Bcc, op)
	assert.Equal(t, isa.CondEQ, cc)

	op, cc, ok = isa.LookupMnemonic("B")
	require.True(t, ok)
	assert.Equal(t, isa.Bcc, op)
	assert.Equal(t, isa.CondAL, cc)

	op, cc, ok = isa.LookupMnemonic("ADD")
	require.True(t, ok)
	assert.Equal(t, isa.ADD, op)
	assert.Equal(t, isa.CondAL, cc)

	_, _, ok = isa.LookupMnemonic("NOTANOP")
	assert.False(t, ok)
}

func TestParseRegister(t *testing.T) {
	reg, ok := isa.ParseRegister("R7")
	require.True(t, ok)
	assert.Equal(t, isa.Register(7), reg)

	reg, ok = isa.ParseRegister("PC")
	require.True(t, ok)
	assert.Equal(t, isa.PC, reg)

	_, ok = isa.ParseRegister("R99")
	assert.False(t, ok)
}
