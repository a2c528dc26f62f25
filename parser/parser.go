// Package parser walks a lexed token stream with a finite state machine
// that classifies the line into one of the ISA's six forms (or recognizes
// a bare label), extracting any leading label along the way.
package parser

import (
	"github.com/lookbusy1344/arm-toy/diag"
	"github.com/lookbusy1344/arm-toy/isa"
	"github.com/lookbusy1344/arm-toy/lexer"
)

const (
	maxImmed16 = 0xFFFF
	maxImmed20 = 0xFFFFF
)

// state tags the parser's position in the transition graph described by
// the ISA's grammar. A single tagged-variant enum plus a loop stands in
// for the per-state marker types a type-directed design would use.
type state int

const (
	stReady state = iota
	stOpcode
	stLabel
	stRegister
	stComma
	stOpenBrace
	stImmediate
	stCloseBrace
)

// Result is the outcome of parsing one line: its form (zero if the line
// was a bare label), the opcode/condition for form-bearing lines, and any
// label attached (declaration for non-Bcc forms, branch target for Bcc).
type Result struct {
	Form      isa.Form // 0 if the line was a bare label
	Opcode    isa.Opcode
	Condition isa.ConditionCode
	Label     string
	HasLabel  bool
	// Tokens is the surviving token sequence the assembler driver encodes
	// from: opcodes, registers, and literals, with commas/brackets dropped.
	Tokens []lexer.Token
}

// Parser runs the form-discriminating state machine over one line's
// tokens.
type Parser struct {
	filename string
	line     int
}

// NewParser returns a Parser bound to one source line, for diagnostic
// positions.
func NewParser(filename string, line int) *Parser {
	return &Parser{filename: filename, line: line}
}

func (p *Parser) pos(column int) diag.Position {
	return diag.Position{Filename: p.filename, Line: p.line, Column: column}
}

func (p *Parser) fail(tok lexer.Token, format string, args ...any) *diag.Error {
	return diag.New(p.pos(tok.Column), diag.SyntaxError, format, args...)
}

// Parse classifies tokens (already stripped of comments by the lexer)
// into a Result, or returns a SyntaxError.
func (p *Parser) Parse(tokens []lexer.Token) (Result, *diag.Error) {
	if len(tokens) == 1 && tokens[0].Type == lexer.TokenLabel {
		return Result{HasLabel: true, Label: tokens[0].Literal}, nil
	}

	st := stReady
	i := 0
	var res Result
	var forms []isa.Form
	var survivors []lexer.Token

	next := func() (lexer.Token, bool) {
		if i >= len(tokens) {
			return lexer.Token{}, false
		}
		t := tokens[i]
		i++
		return t, true
	}
	eos := func() bool { return i >= len(tokens) }

	startOpcode := func(tok lexer.Token) *diag.Error {
		res.Opcode, res.Condition = tok.Opcode, tok.Condition
		survivors = append(survivors, tok)
		count := len(tokens) - i + 1 // opcode plus remaining operand tokens
		forms = isa.Reduce(isa.Forms(res.Opcode), res.Opcode, count)
		if len(forms) == 0 {
			return p.fail(tok, "no form of %s matches %d operand tokens", res.Opcode, count)
		}
		if isa.IsMemoryOp(res.Opcode) && tokens[len(tokens)-1].Type != lexer.TokenRBracket {
			return p.fail(tok, "%s requires a bracketed address operand", res.Opcode)
		}
		return nil
	}

	for {
		switch st {
		case stReady:
			tok, ok := next()
			if !ok {
				return Result{}, diag.New(p.pos(1), diag.SyntaxError, "empty line")
			}
			switch tok.Type {
			case lexer.TokenOpcode:
				if err := startOpcode(tok); err != nil {
					return Result{}, err
				}
				st = stOpcode
			case lexer.TokenLabel:
				res.HasLabel, res.Label = true, tok.Literal
				st = stLabel
			default:
				return Result{}, p.fail(tok, "expected opcode or label, got %s", tok.Type)
			}

		case stLabel:
			if eos() {
				return res, nil // bare-label line
			}
			tok, _ := next()
			if tok.Type != lexer.TokenOpcode {
				return Result{}, p.fail(tok, "expected opcode after label, got %s", tok.Type)
			}
			if err := startOpcode(tok); err != nil {
				return Result{}, err
			}
			st = stOpcode

		case stOpcode:
			if hasForm(forms, isa.Form6) {
				tok, ok := next()
				if !ok || tok.Type != lexer.TokenLabel || !eos() {
					return Result{}, p.fail(tokensOrLast(tokens, i), "expected branch target label after %s", res.Opcode)
				}
				res.Form = isa.Form6
				res.Label, res.HasLabel = tok.Literal, true
				res.Tokens = survivors
				return res, nil
			}
			tok, ok := next()
			if !ok {
				return Result{}, p.fail(tokens[len(tokens)-1], "expected operand after %s", res.Opcode)
			}
			if tok.Type != lexer.TokenRegister {
				return Result{}, p.fail(tok, "expected register, got %s", tok.Type)
			}
			survivors = append(survivors, tok)
			st = stRegister

		case stRegister:
			tok, ok := next()
			if !ok {
				forms = intersect(forms, []isa.Form{isa.Form1, isa.Form2})
				if len(forms) == 0 {
					return Result{}, p.fail(tokens[len(tokens)-1], "no register-only form of %s matches", res.Opcode)
				}
				res.Form, res.Tokens = forms[0], survivors
				return res, nil
			}
			switch tok.Type {
			case lexer.TokenComma:
				st = stComma
			case lexer.TokenRBracket:
				st = stCloseBrace
			default:
				return Result{}, p.fail(tok, "expected ',' or ']', got %s", tok.Type)
			}

		case stComma:
			tok, ok := next()
			if !ok {
				return Result{}, p.fail(tokens[len(tokens)-1], "expected operand after ','")
			}
			switch tok.Type {
			case lexer.TokenRegister:
				survivors = append(survivors, tok)
				st = stRegister
			case lexer.TokenLiteral:
				forms = intersect(forms, []isa.Form{isa.Form4, isa.Form5})
				if len(forms) == 0 {
					return Result{}, p.fail(tok, "immediate operand not valid for %s in this position", res.Opcode)
				}
				if err := checkWidth(tok, forms); err != nil {
					return Result{}, err
				}
				survivors = append(survivors, tok)
				st = stImmediate
			case lexer.TokenLBracket:
				st = stOpenBrace
			default:
				return Result{}, p.fail(tok, "expected register, literal, or '[', got %s", tok.Type)
			}

		case stOpenBrace:
			tok, ok := next()
			if !ok {
				return Result{}, p.fail(tokens[len(tokens)-1], "expected operand after '['")
			}
			switch tok.Type {
			case lexer.TokenRegister:
				survivors = append(survivors, tok)
				st = stRegister
			case lexer.TokenLiteral:
				forms = intersect(forms, []isa.Form{isa.Form4, isa.Form5})
				if len(forms) == 0 {
					return Result{}, p.fail(tok, "immediate operand not valid for %s in this position", res.Opcode)
				}
				if err := checkWidth(tok, forms); err != nil {
					return Result{}, err
				}
				survivors = append(survivors, tok)
				st = stImmediate
			default:
				return Result{}, p.fail(tok, "expected register or literal after '[', got %s", tok.Type)
			}

		case stImmediate:
			tok, ok := next()
			if !ok {
				forms = intersect(forms, []isa.Form{isa.Form4, isa.Form5})
				if len(forms) == 0 {
					return Result{}, p.fail(tokens[len(tokens)-1], "no immediate form of %s matches", res.Opcode)
				}
				res.Form, res.Tokens = forms[0], survivors
				return res, nil
			}
			if tok.Type != lexer.TokenRBracket {
				return Result{}, p.fail(tok, "expected ']', got %s", tok.Type)
			}
			st = stCloseBrace

		case stCloseBrace:
			if !eos() {
				tok, _ := next()
				return Result{}, p.fail(tok, "unexpected trailing token %s", tok.Type)
			}
			forms = intersect(forms, []isa.Form{isa.Form1, isa.Form2, isa.Form4, isa.Form5})
			if len(forms) == 0 {
				return Result{}, p.fail(tokens[len(tokens)-1], "no form of %s matches this operand shape", res.Opcode)
			}
			res.Form, res.Tokens = forms[0], survivors
			return res, nil
		}
	}
}

func hasForm(forms []isa.Form, f isa.Form) bool {
	for _, x := range forms {
		if x == f {
			return true
		}
	}
	return false
}

func intersect(forms, allowed []isa.Form) []isa.Form {
	var out []isa.Form
	for _, f := range forms {
		if hasForm(allowed, f) {
			out = append(out, f)
		}
	}
	return out
}

func checkWidth(tok lexer.Token, forms []isa.Form) *diag.Error {
	pos := diag.Position{Line: tok.Line, Column: tok.Column}
	if hasForm(forms, isa.Form5) && !hasForm(forms, isa.Form4) {
		if tok.Value > maxImmed20 {
			return diag.New(pos, diag.SyntaxError, "immediate %#x exceeds 20-bit width (max %#x)", tok.Value, maxImmed20)
		}
		return nil
	}
	if tok.Value > maxImmed16 {
		return diag.New(pos, diag.SyntaxError, "immediate %#x exceeds 16-bit width (max %#x)", tok.Value, maxImmed16)
	}
	return nil
}

func tokensOrLast(tokens []lexer.Token, i int) lexer.Token {
	if i < len(tokens) {
		return tokens[i]
	}
	if len(tokens) == 0 {
		return lexer.Token{}
	}
	return tokens[len(tokens)-1]
}
