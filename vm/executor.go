// Package vm is the virtual processor: register file, condition flags,
// sparse main memory, and the fetch/decode/execute loop with its per-form
// instruction handlers.
package vm

import (
	"fmt"

	"github.com/lookbusy1344/arm-toy/isa"
)

// Processor ties a CPU and Memory together and runs the fetch/decode/
// execute loop described in §4.7.
type Processor struct {
	CPU    *CPU
	Memory *Memory

	// MaxCycles bounds Run's loop (0 means unbounded, matching the literal
	// halt-on-zero-word condition). A misassembled program with a
	// branch-to-self would otherwise never halt.
	MaxCycles uint64
	Cycles    uint64

	// OnStep, if set, is called after every executed instruction (used by
	// the optional execution trace).
	OnStep func(pc uint32, word uint32)
}

// New returns a Processor with a fresh CPU and empty Memory.
func New() *Processor {
	return &Processor{CPU: NewCPU(), Memory: NewMemory()}
}

// LoadProgram loads words into memory starting at address 0 and resets PC
// to 0.
func (p *Processor) LoadProgram(words []uint32) {
	p.Memory.LoadProgram(words)
	p.CPU.SetPC(0)
}

// DecodeError reports a runtime decode failure: a nonzero word whose
// opcode/Bcc field matches no catalog entry.
type DecodeError struct {
	PC   uint32
	Word uint32
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at PC=0x%08x (word 0x%08x): %v", e.PC, e.Word, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Step executes exactly one instruction: fetch, decode, dispatch, and the
// unconditional PC increment. It returns (false, nil) when the fetched
// word is 0 (normal halt).
func (p *Processor) Step() (bool, error) {
	pc := p.CPU.PC()
	word := p.Memory.Read(pc)
	if word == 0 {
		return false, nil
	}

	opByte := isa.DecodeField(word, isa.FieldOpcode)
	op, form, err := isa.DecodeOpcode(opByte)
	if err != nil {
		bccField := isa.DecodeField(word, isa.FieldBcc)
		cc, bccErr := isa.DecodeBcc(bccField)
		if bccErr != nil {
			return false, &DecodeError{PC: pc, Word: word, Err: err}
		}
		op, form = isa.Bcc, isa.Form6
		p.executeForm6(cc, word)
	} else {
		switch form {
		case isa.Form1:
			p.executeForm1(op, word)
		case isa.Form2:
			p.executeForm2(op, word)
		case isa.Form4:
			p.executeForm4(op, word)
		case isa.Form5:
			p.executeForm5(op, word)
		default:
			return false, &DecodeError{PC: pc, Word: word, Err: fmt.Errorf("unhandled form %d", form)}
		}
	}

	p.Cycles++
	if p.OnStep != nil {
		p.OnStep(pc, word)
	}
	p.CPU.IncrementPC()
	return true, nil
}

// Run steps the processor until it halts (Memory[PC] == 0), a decode
// error occurs, or MaxCycles is reached (if nonzero).
func (p *Processor) Run() error {
	for {
		if p.MaxCycles != 0 && p.Cycles >= p.MaxCycles {
			return fmt.Errorf("exceeded max cycle count %d", p.MaxCycles)
		}
		running, err := p.Step()
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
	}
}

func decodeRXY(word uint32) (dr, rx, ry isa.Register) {
	return isa.Register(isa.DecodeField(word, isa.FieldDR)),
		isa.Register(isa.DecodeField(word, isa.FieldRX)),
		isa.Register(isa.DecodeField(word, isa.FieldRY))
}

func (p *Processor) executeForm1(op isa.Opcode, word uint32) {
	dr, rx, ry := decodeRXY(word)
	x, y := p.CPU.GetRegister(rx), p.CPU.GetRegister(ry)
	switch op {
	case isa.ADD:
		p.CPU.SetRegister(dr, x+y)
	case isa.SUB:
		p.CPU.SetRegister(dr, x-y)
	case isa.AND:
		p.CPU.SetRegister(dr, x&y)
	case isa.ORR:
		p.CPU.SetRegister(dr, x|y)
	case isa.EOR:
		p.CPU.SetRegister(dr, x^y)
	case isa.MUL:
		p.CPU.SetRegister(dr, x*y)
	case isa.LDR:
		p.CPU.SetRegister(dr, p.Memory.Read(x+y))
	case isa.STR:
		p.Memory.Write(x+y, p.CPU.GetRegister(dr))
	}
}

func (p *Processor) executeForm2(op isa.Opcode, word uint32) {
	dr := isa.Register(isa.DecodeField(word, isa.FieldDR))
	rx := isa.Register(isa.DecodeField(word, isa.FieldRX))
	x := p.CPU.GetRegister(rx)
	switch op {
	case isa.MOV:
		p.CPU.SetRegister(dr, x)
	case isa.MVN:
		p.CPU.SetRegister(dr, ^x)
	case isa.LDR:
		p.CPU.SetRegister(dr, p.Memory.Read(x))
	case isa.STR:
		p.Memory.Write(x, p.CPU.GetRegister(dr))
	case isa.CMP:
		p.CPU.Flags.Update(p.CPU.GetRegister(dr), x)
	}
}

func (p *Processor) executeForm4(op isa.Opcode, word uint32) {
	dr, rx, _ := decodeRXY(word)
	x := p.CPU.GetRegister(rx)
	imm16 := isa.DecodeField(word, isa.FieldImmed16)
	switch op {
	case isa.ADD:
		p.CPU.SetRegister(dr, x+imm16)
	case isa.SUB:
		p.CPU.SetRegister(dr, x-imm16)
	case isa.AND:
		p.CPU.SetRegister(dr, x&imm16)
	case isa.ORR:
		p.CPU.SetRegister(dr, x|imm16)
	case isa.EOR:
		p.CPU.SetRegister(dr, x^imm16)
	case isa.MUL:
		p.CPU.SetRegister(dr, x*imm16)
	case isa.LDR:
		p.CPU.SetRegister(dr, p.Memory.Read(x+imm16))
	case isa.STR:
		p.Memory.Write(x+imm16, p.CPU.GetRegister(dr))
	}
}

// executeForm5 uses the pre-increment PC (the value seen during this
// instruction's decode) for LDR/STR's PC-relative addressing.
func (p *Processor) executeForm5(op isa.Opcode, word uint32) {
	dr := isa.Register(isa.DecodeField(word, isa.FieldDR))
	imm20 := isa.DecodeField(word, isa.FieldImmed20)
	pc := p.CPU.PC()
	switch op {
	case isa.MOV:
		p.CPU.SetRegister(dr, imm20)
	case isa.MVN:
		p.CPU.SetRegister(dr, ^imm20)
	case isa.LDR:
		p.CPU.SetRegister(dr, p.Memory.Read(pc+imm20))
	case isa.STR:
		p.Memory.Write(pc+imm20, p.CPU.GetRegister(dr))
	case isa.CMP:
		p.CPU.Flags.Update(p.CPU.GetRegister(dr), imm20)
	}
}

// executeForm6 evaluates cc against the current flags and, if true, sets
// PC to imm20-1 (the -1 compensates for Step's unconditional post-dispatch
// PC increment).
func (p *Processor) executeForm6(cc isa.ConditionCode, word uint32) {
	if !p.CPU.Flags.Satisfied(cc) {
		return
	}
	imm20 := isa.DecodeField(word, isa.FieldImmed20)
	p.CPU.SetPC(imm20 - 1)
}
