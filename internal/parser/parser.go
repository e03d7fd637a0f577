// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser implements AlgoFSM's recursive-descent parser over
// the control-flow subset of Verilog lexer produces tokens for,
// building a tree of *node.Node rooted at a linked sequence of
// statement nodes. Grounded on vlogparser.py's VlogParser and
// topdown.py's TopDown base class.
//
// Fatal parse errors abort the whole translation by panicking with a
// *diag.FatalKind, recovered at Parse's boundary — the same pattern
// go/parser uses internally (a "bailout" panic caught at ParseFile),
// so callers get a normal error value rather than a crashed process.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/miguel-guerrero/AlgoFSM/internal/diag"
	"github.com/miguel-guerrero/AlgoFSM/internal/langutil"
	"github.com/miguel-guerrero/AlgoFSM/internal/lexer"
	"github.com/miguel-guerrero/AlgoFSM/internal/node"
)

// Parser is AlgoFSM's top-down parser: a lexer, a node store, and a
// small LIFO stack that rule functions push their completed subtree
// onto.
type Parser struct {
	Store *node.Store

	lex       *lexer.Lexer
	lookahead *lexer.Token
	tokenText string

	stack []*node.Node

	lineBase int
	fileBase string
	input    string

	tickNum int
}

// New returns a Parser over input, with diagnostics reported relative
// to fileBase and lineBase (the line number of input's first line
// within the host file).
func New(store *node.Store, input string, lineBase int, fileBase string) *Parser {
	return &Parser{
		Store:    store,
		lex:      lexer.New(input),
		input:    input,
		lineBase: lineBase,
		fileBase: fileBase,
	}
}

// Parse runs the start rule and returns the root of the parsed tree.
// Fatal syntax/semantic errors are returned as *diag.FatalKind.
func (p *Parser) Parse() (root *node.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			fk, ok := r.(*diag.FatalKind)
			if !ok {
				panic(r)
			}
			err = fk
		}
	}()
	if p.ruleSentences() && p.ruleEnd() {
		return p.stkTop(1), nil
	}
	p.fail("Expecting rule_sentences")
	return nil, nil // unreachable
}

// --- token stream -----------------------------------------------------

func (p *Parser) tokenAhead() lexer.Token {
	if p.lookahead == nil {
		tok := p.lex.Next()
		p.lookahead = &tok
	}
	return *p.lookahead
}

func (p *Parser) tokenMatch(tok lexer.Tok) bool {
	if p.tokenAhead().Tok == tok {
		p.tokenText = p.lookahead.Text
		p.lookahead = nil
		return true
	}
	return false
}

// --- stack --------------------------------------------------------

func (p *Parser) stkPush(n *node.Node) bool {
	p.stack = append(p.stack, n)
	return true
}

func (p *Parser) stkPop(cnt int) []*node.Node {
	popped := append([]*node.Node(nil), p.stack[len(p.stack)-cnt:]...)
	p.stack = p.stack[:len(p.stack)-cnt]
	return popped
}

func (p *Parser) stkTop(depth int) *node.Node {
	return p.stack[len(p.stack)-depth]
}

// --- rule combinators -----------------------------------------------

// must aborts the parse with msg if rc is false; it always returns
// true, so call sites can write `return p.must(rule(), "...")`.
func (p *Parser) must(rc bool, msg string) bool {
	if !rc {
		p.fail(msg)
	}
	return true
}

// oneOrMore repeatedly applies rule, chaining each successive subtree
// onto the first via Next, and leaves a pointer to the first on the
// stack.
func (p *Parser) oneOrMore(rule func() bool) bool {
	if !rule() {
		return false
	}
	first := p.stkTop(1)
	for rule() {
		popped := p.stkPop(2)
		prev, last := popped[0], popped[1]
		prev.Next = last
		p.stkPush(last)
	}
	p.stkPop(1)
	p.stkPush(first)
	return true
}

// --- grammar ----------------------------------------------------------
//
//	sentences   = sentence { sentence }
//	sentence    = if_stmt | while_stmt | block | tick | prcomment
//	            | for_stmt | case_stmt | do_while | stmt
//	if_stmt     = IF pexpr sentence [ ELSE sentence ]
//	while_stmt  = WHILE pexpr sentence
//	do_while    = DO sentence WHILE pexpr SEMICOLON
//	for_stmt    = FOR pexpr sentence
//	case_stmt   = CASE pexpr case_arm { case_arm } ENDCASE
//	case_arm    = case_expr sentence
//	block       = BEGIN sentences END
//	tick        = TICK SEMICOLON
//	prcomment   = PRSLCOMMENT
//	stmt        = SN SEMICOLON

func (p *Parser) ruleSentences() bool {
	return p.oneOrMore(p.ruleSentence)
}

func (p *Parser) ruleEnd() bool {
	return p.tokenMatch(lexer.EOF)
}

func (p *Parser) ruleSentence() bool {
	return p.ruleIf() ||
		p.ruleWhile() ||
		p.ruleBlock() ||
		p.ruleTick() ||
		p.rulePrComment() ||
		p.ruleFor() ||
		p.ruleCase() ||
		p.ruleDoWhile() ||
		p.ruleSn()
}

func (p *Parser) ruleIf() bool {
	if !p.tokenMatch(lexer.IF) {
		return false
	}
	p.must(p.rulePexpr(), "if: Expecting parenthesis expression")
	p.must(p.ruleSentence(), "if: Expecting sentence/blk")

	var n *node.Node
	if p.tokenAhead().Tok != lexer.ELSE {
		popped := p.stkPop(2)
		cond, bodyT := popped[0], popped[1]
		n = node.Add(p.Store, node.If, cond.Code, nil, nil, bodyT)
		p.Store.Remove(cond)
	} else {
		p.tokenMatch(lexer.ELSE)
		p.must(p.ruleSentence(), "else: Expecting sentence/blk")
		popped := p.stkPop(3)
		cond, bodyT, bodyF := popped[0], popped[1], popped[2]
		n = node.Add(p.Store, node.If, cond.Code, nil, nil, bodyT, bodyF)
		p.Store.Remove(cond)
	}
	return p.stkPush(n)
}

func (p *Parser) ruleWhile() bool {
	if !p.tokenMatch(lexer.WHILE) {
		return false
	}
	p.must(p.rulePexpr(), "while: Expecting parenthesis expression")
	p.must(p.ruleSentence(), "while: Expecting sentence/blk")
	popped := p.stkPop(2)
	cond, body := popped[0], popped[1]
	n := node.Add(p.Store, node.Wh, cond.Code, nil, nil, body)
	p.Store.Remove(cond)
	return p.stkPush(n)
}

func (p *Parser) ruleDoWhile() bool {
	if !p.tokenMatch(lexer.DO) {
		return false
	}
	p.must(p.ruleSentence(), "while: Expecting sentence/blk")
	p.tokenMatch(lexer.WHILE)
	p.must(p.rulePexpr(), "while: Expecting parenthesis expression")
	p.must(p.tokenMatch(lexer.SEMICOLON), "Expected ;")
	popped := p.stkPop(2)
	body, cond := popped[0], popped[1]
	n := node.Add(p.Store, node.Do, cond.Code, nil, nil, body)
	p.Store.Remove(cond)
	return p.stkPush(n)
}

func (p *Parser) ruleBlock() bool {
	if !p.tokenMatch(lexer.BEGIN) {
		return false
	}
	p.must(p.ruleSentences(), "Empty block")
	return p.must(p.tokenMatch(lexer.END), "Expected end")
}

func (p *Parser) ruleTick() bool {
	if !p.tokenMatch(lexer.TICK) {
		return false
	}
	p.stkPush(node.Add(p.Store, node.Tk, strconv.Itoa(p.tickNum), nil))
	p.tickNum++
	return p.must(p.tokenMatch(lexer.SEMICOLON), "Expected ;")
}

func (p *Parser) ruleFor() bool {
	if !p.tokenMatch(lexer.FOR) {
		return false
	}
	p.must(p.rulePexpr(), "for: Expecting parenthesis expression")
	p.must(p.ruleSentence(), "for: Expecting sentence/blk")
	popped := p.stkPop(2)
	cond, body := popped[0], popped[1]
	n := node.Add(p.Store, node.Fo, cond.Code, nil, nil, body)
	p.Store.Remove(cond)
	return p.stkPush(n)
}

func (p *Parser) ruleCase() bool {
	if !p.tokenMatch(lexer.CASE) {
		return false
	}
	p.must(p.rulePexpr(), "case: Expecting parenthesis expression")
	p.must(p.oneOrMore(p.ruleCaseStatement), "need at least one case statement")
	p.must(p.tokenMatch(lexer.ENDCASE), "expected endcase")
	popped := p.stkPop(2)
	cond, body := popped[0], popped[1]
	n := node.Add(p.Store, node.Cs, cond.Code, nil, nil, body)
	p.Store.Remove(cond)
	return p.stkPush(n)
}

func (p *Parser) ruleCaseStatement() bool {
	if !p.ruleCaseExpr() {
		return false
	}
	p.must(p.ruleSentence(), "case statement: expecting sentence")
	popped := p.stkPop(2)
	expr, body := popped[0], popped[1]
	return p.stkPush(node.Add(p.Store, node.Csb, expr.Code, nil, expr, body))
}

// ruleCaseExpr hand-scans a case-arm label up to its terminating ':',
// dropping whitespace and keeping the colon itself (it is emitted
// verbatim as part of the RTL case arm). It backtracks the lexer
// cursor if it hits ';' or EOF first, i.e. there was no label here.
func (p *Parser) ruleCaseExpr() bool {
	backtrack := p.lex.Consumed()
	var b strings.Builder
	var c byte
	for c != ':' {
		ch, ok := p.lex.GetChar()
		if !ok || ch == ';' {
			p.lex.SetConsumed(backtrack)
			return false
		}
		if ch != ' ' && ch != '\t' && ch != '\n' {
			b.WriteByte(ch)
		}
		c = ch
	}
	return p.stkPush(node.Add(p.Store, node.CaseExpr, b.String(), nil))
}

// rulePexpr hand-scans a balanced parenthesized expression, counting
// paren depth, since its body may contain arbitrary operator text the
// tokenizer's normal vocabulary isn't meant to understand.
func (p *Parser) rulePexpr() bool {
	if !p.tokenMatch(lexer.OPEN_PAR) {
		return false
	}
	var b strings.Builder
	parenLevel := 1
	for parenLevel > 0 {
		ch, ok := p.lex.GetChar()
		if !ok {
			p.fail("Unfinished rule_pexpr")
		}
		switch ch {
		case '(':
			parenLevel++
		case ')':
			parenLevel--
		}
		if parenLevel > 0 {
			b.WriteByte(ch)
		}
	}
	return p.stkPush(node.Add(p.Store, node.Pexpr, b.String(), nil))
}

func (p *Parser) rulePrComment() bool {
	if !p.tokenMatch(lexer.PRSLCOMMENT) {
		return false
	}
	return p.stkPush(node.Add(p.Store, node.Cm, p.tokenText, nil))
}

func (p *Parser) ruleSn() bool {
	if !p.tokenMatch(lexer.SN) {
		return false
	}
	text := p.tokenText
	p.stkPush(node.Add(p.Store, node.Sn, text, nil))
	if langutil.IsNonBlockingAssign(text) {
		p.failKind(diag.Semantic, fmt.Sprintf(
			"non-blocking assignments not allowed within an AlgoFSM block, found: %s", text))
	}
	return p.must(p.tokenMatch(lexer.SEMICOLON), "Expected ;")
}

// --- errors -------------------------------------------------------

func (p *Parser) fail(msg string) {
	p.failKind(diag.Syntax, msg)
}

func (p *Parser) failKind(kind diag.Kind, msg string) {
	consumed := p.lex.Consumed()
	lines := strings.Split(p.input[:consumed], "\n")
	curLine := strings.SplitN(p.input[consumed:], "\n", 2)[0]
	window := diag.SourceWindow(p.fileBase, p.lineBase, 0, lines, curLine, fmt.Sprintf("%v", p.tokenAhead()), 4)
	panic(diag.Errorf(kind, "%s\n%s", msg, window))
}
