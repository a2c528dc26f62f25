package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/arm-toy/assemble"
	"github.com/lookbusy1344/arm-toy/isa"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [file]",
	Short: "Assemble a source file and print its decoded instruction words",
	Long: `disasm assembles the given source file (default assembly/pgrm.asm)
and prints one line per encoded instruction word, decoded with the same
field logic the processor uses, without executing it.`,
	RunE: runDisasm,
}

func runDisasm(cmd *cobra.Command, args []string) error {
	path := "assembly/pgrm.asm"
	if len(args) > 0 {
		path = args[0]
	}

	source, err := os.ReadFile(path) // #nosec G304 -- CLI-provided program path
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	words, err := assemble.Assemble(string(source), assemble.Options{
		Filename:   path,
		Diagnostic: reportDiagnostic,
	})
	if err != nil {
		return fmt.Errorf("assembling %s: %w", path, err)
	}

	for idx, word := range words {
		fmt.Println(disassembleWord(idx, word))
	}
	return nil
}

func disassembleWord(idx int, word uint32) string {
	opByte := isa.DecodeField(word, isa.FieldOpcode)
	if op, form, err := isa.DecodeOpcode(opByte); err == nil {
		dr := isa.Register(isa.DecodeField(word, isa.FieldDR))
		rx := isa.Register(isa.DecodeField(word, isa.FieldRX))

		switch form {
		case isa.Form1:
			ry := isa.Register(isa.DecodeField(word, isa.FieldRY))
			return fmt.Sprintf("%04d: 0x%08x  %s %s,%s,%s", idx, word, op, dr, rx, ry)
		case isa.Form2:
			return fmt.Sprintf("%04d: 0x%08x  %s %s,%s", idx, word, op, dr, rx)
		case isa.Form4:
			imm := isa.DecodeField(word, isa.FieldImmed16)
			return fmt.Sprintf("%04d: 0x%08x  %s %s,%s,#%d", idx, word, op, dr, rx, imm)
		case isa.Form5:
			imm := isa.DecodeField(word, isa.FieldImmed20)
			return fmt.Sprintf("%04d: 0x%08x  %s %s,#%d", idx, word, op, dr, imm)
		default:
			return fmt.Sprintf("%04d: 0x%08x  %s (form %d)", idx, word, op, form)
		}
	}

	bccField := isa.DecodeField(word, isa.FieldBcc)
	if cc, err := isa.DecodeBcc(bccField); err == nil {
		imm20 := isa.DecodeField(word, isa.FieldImmed20)
		return fmt.Sprintf("%04d: 0x%08x  %s #%d", idx, word, cc.Mnemonic(), imm20)
	}

	return fmt.Sprintf("%04d: 0x%08x  <unknown>", idx, word)
}
