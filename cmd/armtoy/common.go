package main

import (
	"fmt"
	"os"

	"github.com/lookbusy1344/arm-toy/config"
	"github.com/lookbusy1344/arm-toy/internal/trace"
	"github.com/lookbusy1344/arm-toy/isa"
	"github.com/lookbusy1344/arm-toy/vm"
)

// newProcessor builds a Processor configured per cfg, wiring an
// internal/trace.Recorder to its OnStep hook when tracing is enabled.
func newProcessor(cfg *config.Config) (*vm.Processor, *trace.Recorder) {
	p := vm.New()
	p.MaxCycles = cfg.Execution.MaxCycles

	rec := trace.New(os.Stderr)
	if cfg.Execution.EnableTrace {
		rec.Enabled = true
		rec.Start()
		p.OnStep = func(pc, word uint32) {
			rec.Record(pc, word, p.CPU.R, trace.Flags{
				N: p.CPU.Flags.N, Z: p.CPU.Flags.Z, C: p.CPU.Flags.C, V: p.CPU.Flags.V,
			})
		}
	}

	return p, rec
}

func reportDiagnostic(line string) {
	fmt.Fprintln(os.Stderr, line)
}

func printRegisters(p *vm.Processor, format string) {
	for r := 0; r < 16; r++ {
		v := p.CPU.R[r]
		name := isa.Register(r).String()
		if format == "dec" {
			fmt.Printf("%-4s %d\n", name, v)
		} else {
			fmt.Printf("%-4s 0x%08x\n", name, v)
		}
	}
}
