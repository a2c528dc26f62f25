package main

import (
	"fmt"
	"os"

	"github.com/lookbusy1344/arm-toy/assemble"
	"github.com/lookbusy1344/arm-toy/config"
)

// runRead assembles the file at path and runs it to completion against a
// fresh processor, printing the final register file.
func runRead(cfg *config.Config, path string) error {
	source, err := os.ReadFile(path) // #nosec G304 -- CLI-provided program path
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	words, err := assemble.Assemble(string(source), assemble.Options{
		Filename:         path,
		HaltOnParseError: cfg.Assembler.HaltOnParseError,
		Diagnostic:       reportDiagnostic,
	})
	if err != nil {
		return fmt.Errorf("assembling %s: %w", path, err)
	}

	p, rec := newProcessor(cfg)
	p.LoadProgram(words)

	if err := p.Run(); err != nil {
		_ = rec.Flush()
		return fmt.Errorf("running %s: %w", path, err)
	}

	if err := rec.Flush(); err != nil {
		return fmt.Errorf("flushing trace: %w", err)
	}

	printRegisters(p, cfg.Display.NumberFormat)
	return nil
}
