package vm

import "github.com/lookbusy1344/arm-toy/isa"

// CPU is the register file and condition flags, per §3: sixteen 32-bit
// registers (R0-R12, SP, LR, PC) plus the N/Z/C/V condition bits.
type CPU struct {
	R [16]uint32
	Flags
}

// NewCPU returns a CPU with all registers and flags zeroed.
func NewCPU() *CPU {
	return &CPU{}
}

// GetRegister returns the value of reg, addressing PC via register index
// 0xF like any other register (no pipeline offset: this ISA has no
// fetch/decode/execute overlap to compensate for).
func (c *CPU) GetRegister(reg isa.Register) uint32 {
	return c.R[reg]
}

// SetRegister stores value in reg.
func (c *CPU) SetRegister(reg isa.Register, value uint32) {
	c.R[reg] = value
}

// PC returns the program counter.
func (c *CPU) PC() uint32 { return c.R[isa.PC] }

// SetPC sets the program counter.
func (c *CPU) SetPC(value uint32) { c.R[isa.PC] = value }

// IncrementPC advances PC by one instruction slot.
func (c *CPU) IncrementPC() { c.R[isa.PC]++ }
