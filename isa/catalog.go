package isa

import "fmt"

// Register is one of the sixteen 4-bit-addressable register slots.
type Register uint32

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	SP
	LR
	PC
)

var registerNames = [...]string{
	"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7",
	"R8", "R9", "R10", "R11", "R12", "SP", "LR", "PC",
}

func (r Register) String() string {
	if int(r) >= 0 && int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "??"
}

// ParseRegister looks up a register by its assembly-syntax name.
func ParseRegister(s string) (Register, bool) {
	for i, name := range registerNames {
		if name == s {
			return Register(i), true
		}
	}
	return 0, false
}

// Opcode is a symbolic operation mnemonic, independent of its encoded form.
type Opcode int

const (
	ADD Opcode = iota
	SUB
	AND
	ORR
	EOR
	MUL
	MOV
	MVN
	LDR
	STR
	CMP
	Bcc // conditional/unconditional branch; the specific condition rides in Form6's field, not here
)

var opcodeNames = [...]string{
	"ADD", "SUB", "AND", "ORR", "EOR", "MUL",
	"MOV", "MVN", "LDR", "STR", "CMP", "Bcc",
}

func (o Opcode) String() string {
	if int(o) >= 0 && int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "??"
}

// Form is the syntactic/encoding shape of an instruction. Form 3 is
// deliberately absent; the numbering is preserved for binary compatibility
// with the source this catalog was distilled from.
type Form int

const (
	// Form1 is OP DR, RX, RY (three-register), or STR/LDR DR, [RX, RY].
	Form1 Form = 1
	// Form2 is OP DR, RX (two-register), or STR/LDR DR, [RX].
	Form2 Form = 2
	// Form4 is OP DR, RX, #imm16, or STR/LDR DR, [RX, #imm16].
	Form4 Form = 4
	// Form5 is OP DR, #imm20 (or STR/LDR DR, [#imm20], PC-relative).
	Form5 Form = 5
	// Form6 is Bcc label: a conditional branch to a symbol.
	Form6 Form = 6
)

// ConditionCode indexes the fifteen Bcc condition-code variants (including
// AL, the always-true condition used by the unconditional branch B/BAL).
type ConditionCode int

const (
	CondAL ConditionCode = iota
	CondEQ
	CondNE
	CondHS
	CondLO
	CondMI
	CondPL
	CondVS
	CondVC
	CondHI
	CondLS
	CondGE
	CondLT
	CondGT
	CondLE
)

var conditionNames = [...]string{
	"AL", "EQ", "NE", "HS", "LO", "MI", "PL", "VS",
	"VC", "HI", "LS", "GE", "LT", "GT", "LE",
}

func (cc ConditionCode) String() string {
	if int(cc) >= 0 && int(cc) < len(conditionNames) {
		return conditionNames[cc]
	}
	return "??"
}

// ParseConditionCode looks up a condition code by its Bcc suffix (e.g. "EQ"
// for BEQ, "" or "AL" for B/BAL).
func ParseConditionCode(s string) (ConditionCode, bool) {
	if s == "" {
		return CondAL, true
	}
	for i, name := range conditionNames {
		if name == s {
			return ConditionCode(i), true
		}
	}
	return 0, false
}

// Satisfied evaluates cc against the given N/Z/C/V condition flags.
func (cc ConditionCode) Satisfied(n, z, c, v bool) bool {
	switch cc {
	case CondAL:
		return true
	case CondEQ:
		return z
	case CondNE:
		return !z
	case CondHS:
		return c
	case CondLO:
		return !c
	case CondMI:
		return n
	case CondPL:
		return !n
	case CondVS:
		return v
	case CondVC:
		return !v
	case CondHI:
		return c && !z
	case CondLS:
		return !c || z
	case CondGE:
		return n == v
	case CondLT:
		return n != v
	case CondGT:
		return !z && (n == v)
	case CondLE:
		return z || (n != v)
	}
	return false
}

// bccBase is the fixed high nibble-and-a-bit of the Bcc opcode field; the
// low 4 bits carry the condition-code index.
const bccBase = 0x800

// BccField returns the 12-bit Bcc opcode-field value for cc.
func BccField(cc ConditionCode) uint32 {
	return bccBase | uint32(cc)
}

// formBytecode maps an opcode to the byte (or, for Bcc, 12-bit field base)
// it occupies in each admissible form. This table is the wire format and
// must match bit-for-bit across implementations.
var formBytecode = map[Opcode]map[Form]uint32{
	ADD: {Form1: 0x01, Form4: 0x21},
	SUB: {Form1: 0x02, Form4: 0x22},
	MOV: {Form2: 0x03, Form5: 0x23},
	AND: {Form1: 0x04, Form4: 0x24},
	ORR: {Form1: 0x05, Form4: 0x25},
	EOR: {Form1: 0x06, Form4: 0x26},
	MVN: {Form2: 0x07, Form5: 0x27},
	MUL: {Form1: 0x08, Form4: 0x28},
	LDR: {Form2: 0x30, Form4: 0x31, Form1: 0x32, Form5: 0x33},
	STR: {Form2: 0x34, Form4: 0x35, Form1: 0x36, Form5: 0x37},
	CMP: {Form2: 0x47, Form5: 0x57},
}

// Forms returns the set of forms opcode may take. Bcc is handled specially
// (every condition code forms a Form6 instruction) and returns {Form6}.
func Forms(op Opcode) []Form {
	if op == Bcc {
		return []Form{Form6}
	}
	byForm := formBytecode[op]
	forms := make([]Form, 0, len(byForm))
	for _, f := range []Form{Form1, Form2, Form4, Form5} {
		if _, ok := byForm[f]; ok {
			forms = append(forms, f)
		}
	}
	return forms
}

// IsBcc reports whether op is a conditional (or unconditional) branch,
// which switches the encoder/decoder to the Bcc field layout.
func IsBcc(op Opcode) bool {
	return op == Bcc
}

// Bytecode returns the byte value op occupies when encoded in form.
func Bytecode(op Opcode, form Form) (uint32, bool) {
	byForm, ok := formBytecode[op]
	if !ok {
		return 0, false
	}
	v, ok := byForm[form]
	return v, ok
}

// IsMemoryOp reports whether op requires a bracketed address operand.
func IsMemoryOp(op Opcode) bool {
	return op == LDR || op == STR
}

// ExprLength returns the number of tokens a fully-formed instruction of
// (op, form) expects, including the opcode and a branch's target label,
// but excluding a leading declaration label and comments. Base lengths are as tabulated in the ISA catalog; LDR/STR add
// two tokens for the surrounding brackets (form 6 is unaffected, since Bcc
// never takes a bracketed operand).
func ExprLength(op Opcode, form Form) int {
	base := map[Form]int{
		Form1: 6,
		Form2: 4,
		Form4: 6,
		Form5: 4,
		Form6: 2,
	}[form]
	if IsMemoryOp(op) && form != Form6 {
		base += 2
	}
	return base
}

// Reduce returns the subset of forms whose expression length equals count,
// pruning ambiguity before the parser's state machine runs.
func Reduce(forms []Form, op Opcode, count int) []Form {
	reduced := make([]Form, 0, len(forms))
	for _, f := range forms {
		if ExprLength(op, f) == count {
			reduced = append(reduced, f)
		}
	}
	return reduced
}

// ErrUnknownEncoding is returned by DecodeOpcode/DecodeBcc when no catalog
// entry matches the observed byte/field value.
type ErrUnknownEncoding struct {
	Value uint32
	Bcc   bool
}

func (e *ErrUnknownEncoding) Error() string {
	if e.Bcc {
		return fmt.Sprintf("unknown Bcc field: 0x%03x", e.Value)
	}
	return fmt.Sprintf("unknown opcode byte: 0x%02x", e.Value)
}

// DecodeOpcode searches the catalog for the (opcode, form) pair whose
// bytecode matches byteValue.
func DecodeOpcode(byteValue uint32) (Opcode, Form, error) {
	for op, byForm := range formBytecode {
		for form, bc := range byForm {
			if bc == byteValue {
				return op, form, nil
			}
		}
	}
	return 0, 0, &ErrUnknownEncoding{Value: byteValue}
}

// DecodeBcc recovers the condition code from a 12-bit Bcc field value.
func DecodeBcc(field uint32) (ConditionCode, error) {
	if field&bccBase == 0 {
		return 0, &ErrUnknownEncoding{Value: field, Bcc: true}
	}
	cc := ConditionCode(field &^ bccBase)
	if int(cc) < 0 || int(cc) >= len(conditionNames) {
		return 0, &ErrUnknownEncoding{Value: field, Bcc: true}
	}
	return cc, nil
}

// Mnemonic renders the full source mnemonic for a Bcc instruction, e.g.
// "BEQ" for CondEQ, "B" for CondAL.
func (cc ConditionCode) Mnemonic() string {
	if cc == CondAL {
		return "B"
	}
	return "B" + cc.String()
}

var plainMnemonics = map[string]Opcode{
	"ADD": ADD, "SUB": SUB, "AND": AND, "ORR": ORR, "EOR": EOR, "MUL": MUL,
	"MOV": MOV, "MVN": MVN, "LDR": LDR, "STR": STR, "CMP": CMP,
}

// LookupMnemonic resolves a source mnemonic to its opcode. For branches it
// also returns the condition code encoded in the mnemonic's suffix (e.g.
// "BEQ" -> (Bcc, CondEQ), "B"/"BAL" -> (Bcc, CondAL)); for every other
// opcode it returns CondAL as a don't-care value.
func LookupMnemonic(s string) (Opcode, ConditionCode, bool) {
	if op, ok := plainMnemonics[s]; ok {
		return op, CondAL, true
	}
	if s == "B" || s == "BAL" {
		return Bcc, CondAL, true
	}
	if len(s) > 1 && s[0] == 'B' {
		if cc, ok := ParseConditionCode(s[1:]); ok && cc != CondAL {
			return Bcc, cc, true
		}
	}
	return 0, 0, false
}
