// Package assemble drives the lex -> parse -> encode pipeline over a whole
// program, in the two passes the label registry's forward-reference
// resolution requires.
package assemble

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/arm-toy/diag"
	"github.com/lookbusy1344/arm-toy/isa"
	"github.com/lookbusy1344/arm-toy/label"
	"github.com/lookbusy1344/arm-toy/lexer"
	"github.com/lookbusy1344/arm-toy/parser"
)

// Options configures a single Assemble call.
type Options struct {
	// Filename is used only to annotate diagnostics.
	Filename string
	// HaltOnParseError turns the default "report and drop the line"
	// behavior into a fatal abort on the first lex/syntax error.
	HaltOnParseError bool
	// Diagnostic, if non-nil, receives one line of text per dropped
	// line (lex/syntax errors), in the teacher's plain-fmt diagnostic
	// idiom rather than a structured-logging call.
	Diagnostic func(line string)
}

// entry is a pass-1-collected (form, surviving tokens) pair, stored in
// source order for pass 2 to encode.
type entry struct {
	form      isa.Form
	opcode    isa.Opcode
	condition isa.ConditionCode
	tokens    []lexer.Token
}

// Assemble runs both passes over source (one instruction per line) and
// returns the encoded program as a sequence of 32-bit words. A LabelError
// (undeclared branch target or redeclared label) is fatal: no program is
// returned.
func Assemble(source string, opts Options) ([]uint32, error) {
	reg := label.New()
	var entries []entry
	var firstLabelErr *diag.Error

	lines := strings.Split(source, "\n")
	for lineNo, raw := range lines {
		lineNo++ // 1-indexed
		line := strings.TrimRight(raw, "\r")

		tokens, lexErr := lexer.NewLexer(opts.Filename, lineNo).TokenizeAll(line)
		if lexErr != nil {
			if opts.HaltOnParseError {
				return nil, lexErr
			}
			reportDropped(opts, line, lexErr)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		result, parseErr := parser.NewParser(opts.Filename, lineNo).Parse(tokens)
		if parseErr != nil {
			if opts.HaltOnParseError {
				return nil, parseErr
			}
			reportDropped(opts, line, parseErr)
			continue
		}

		if result.Form == 0 {
			// Bare-label line: declare at the current IP, consume no slot.
			if err := reg.Declare(result.Label, reg.IP()); err != nil && firstLabelErr == nil {
				firstLabelErr = err
			}
			continue
		}

		if result.HasLabel {
			if result.Form == isa.Form6 {
				reg.Reference(reg.IP(), result.Label)
			} else if err := reg.Declare(result.Label, reg.IP()); err != nil && firstLabelErr == nil {
				firstLabelErr = err
			}
		}

		entries = append(entries, entry{form: result.Form, opcode: result.Opcode, condition: result.Condition, tokens: result.Tokens})
		reg.Advance()
	}

	if firstLabelErr != nil {
		return nil, firstLabelErr
	}

	program := make([]uint32, 0, len(entries))
	for idx, e := range entries {
		word, err := encode(e, idx, reg)
		if err != nil {
			return nil, err
		}
		program = append(program, word)
	}
	return program, nil
}

// registerFieldOrder is the order (DR, RX, RY) in which register tokens
// from a line's surviving token sequence fill the word's register fields;
// a fourth register token is an error.
var registerFieldOrder = [...]isa.Field{isa.FieldDR, isa.FieldRX, isa.FieldRY}

func encode(e entry, idx int, reg *label.Registry) (uint32, error) {
	var word uint32
	cursor := 0

	for _, tok := range e.tokens {
		switch tok.Type {
		case lexer.TokenOpcode:
			if isa.IsBcc(e.opcode) {
				word = isa.EncodeField(word, isa.FieldBcc, isa.BccField(e.condition))
				continue
			}
			bytecode, ok := isa.Bytecode(e.opcode, e.form)
			if !ok {
				return 0, fmt.Errorf("no bytecode for %s in form %d", e.opcode, e.form)
			}
			word = isa.EncodeField(word, isa.FieldOpcode, bytecode)
		case lexer.TokenRegister:
			if cursor >= len(registerFieldOrder) {
				return 0, fmt.Errorf("too many register operands for %s", e.opcode)
			}
			word = isa.EncodeField(word, registerFieldOrder[cursor], uint32(tok.Register))
			cursor++
		case lexer.TokenLiteral:
			switch e.form {
			case isa.Form4:
				word = isa.EncodeField(word, isa.FieldImmed16, tok.Value)
			case isa.Form5:
				word = isa.EncodeField(word, isa.FieldImmed20, tok.Value)
			}
		}
	}

	if e.form == isa.Form6 {
		target, err := reg.Resolve(idx)
		if err != nil {
			return 0, err
		}
		word = isa.EncodeField(word, isa.FieldImmed20, uint32(target))
	}

	return word, nil
}

func reportDropped(opts Options, line string, err *diag.Error) {
	if opts.Diagnostic != nil {
		opts.Diagnostic(fmt.Sprintf("warn: dropping line %q: %v", line, err))
	}
}
