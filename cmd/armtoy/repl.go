package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lookbusy1344/arm-toy/assemble"
	"github.com/lookbusy1344/arm-toy/config"
)

// runRepl reads one line of source at a time from stdin, assembles it in
// isolation, loads the resulting words at the processor's current program
// cursor, and steps through them — all against the same persistent
// processor state, per the interactive-mode contract.
func runRepl(cfg *config.Config) error {
	p, rec := newProcessor(cfg)

	var cursor uint32
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("armtoy REPL. Ctrl-D to exit.")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		words, err := assemble.Assemble(line, assemble.Options{
			Filename:         "<repl>",
			HaltOnParseError: cfg.Assembler.HaltOnParseError,
			Diagnostic:       reportDiagnostic,
		})
		if err != nil {
			reportDiagnostic(fmt.Sprintf("error: %v", err))
			continue
		}

		for _, w := range words {
			p.Memory.Write(cursor, w)
			p.CPU.SetPC(cursor)
			if _, err := p.Step(); err != nil {
				reportDiagnostic(fmt.Sprintf("error: %v", err))
				break
			}
			cursor++
		}

		printRegisters(p, cfg.Display.NumberFormat)
	}

	return rec.Flush()
}
