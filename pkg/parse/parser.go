// Package parse implements the pyrite parser.
//
// The language is an indentation-delimited subset of a conventional
// Python-like grammar. The parser is a hand-written recursive descent over
// the token stream produced by the lexer; it fails fast on the first error
// and never evaluates anything.
//
// The grammar deliberately accepts more than the interpreter executes:
// banned constructs (import, class, lambda, yield, global, nonlocal, with,
// decorators, starred arguments, generator expressions) parse into nodes of
// their own kinds, so that the security policy can reject them with a precise
// message instead of the parser reporting a generic error.
package parse

import (
	"github.com/pyritelang/pyrite/pkg/diag"
)

// Tree is one parsed script or statement: a block of statements plus the
// source it came from.
type Tree struct {
	Root   Block
	Source Source
}

// Parse parses the given source. A non-nil error always has type [*Error].
func Parse(src Source) (*Tree, error) {
	toks, lerr := lex(src)
	if lerr != nil {
		return nil, lerr
	}
	p := &parser{src: src, toks: toks}
	root, err := p.parseTop()
	if err != nil {
		return nil, err
	}
	return &Tree{Root: root, Source: src}, nil
}

type parser struct {
	src  Source
	toks []token
	i    int
	err  *Error
}

// The parser unwinds with a panic on the first error; parseTop recovers it.
type bailout struct{}

func (p *parser) fail(r diag.Ranger, msg string) {
	if p.err == nil {
		p.err = newError(p.src, r, msg)
	}
	panic(bailout{})
}

func (p *parser) parseTop() (block Block, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			block, err = nil, p.err
		}
	}()
	for !p.at(tokEOF) {
		block = append(block, p.statement()...)
	}
	return block, nil
}

// Token plumbing.

func (p *parser) cur() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) at(kind tokenKind) bool { return p.cur().kind == kind }

func (p *parser) atOp(text string) bool {
	t := p.cur()
	return t.kind == tokOp && t.text == text
}

func (p *parser) atKw(text string) bool {
	t := p.cur()
	return t.kind == tokKeyword && t.text == text
}

func (p *parser) acceptOp(text string) bool {
	if p.atOp(text) {
		p.i++
		return true
	}
	return false
}

func (p *parser) acceptKw(text string) bool {
	if p.atKw(text) {
		p.i++
		return true
	}
	return false
}

func (p *parser) expectOp(text string) token {
	if !p.atOp(text) {
		p.fail(p.cur(), "expected '"+text+"'")
	}
	return p.next()
}

func (p *parser) expectKw(text string) token {
	if !p.atKw(text) {
		p.fail(p.cur(), "expected '"+text+"'")
	}
	return p.next()
}

func (p *parser) expectName() token {
	if !p.at(tokName) {
		if p.at(tokKeyword) {
			p.fail(p.cur(), "keyword '"+p.cur().text+"' cannot be used as a name")
		}
		p.fail(p.cur(), "expected name")
	}
	return p.next()
}

func (p *parser) expectNewline() {
	if p.at(tokEOF) {
		return
	}
	if !p.at(tokNewline) {
		p.fail(p.cur(), "expected end of line")
	}
	p.i++
}

// startsExpr reports whether the current token can begin an expression.
func (p *parser) startsExpr() bool {
	switch t := p.cur(); t.kind {
	case tokName, tokNumber, tokString:
		return true
	case tokKeyword:
		switch t.text {
		case "True", "False", "None", "not", "lambda", "yield":
			return true
		}
	case tokOp:
		switch t.text {
		case "(", "[", "{", "-", "+", "~", "*", "**":
			return true
		}
	}
	return false
}

func blockEnd(b Block, fallback int) int {
	if len(b) == 0 {
		return fallback
	}
	return b[len(b)-1].Range().To
}

// Statements.

func (p *parser) statement() []Stmt {
	if p.at(tokKeyword) {
		switch p.cur().text {
		case "if":
			return []Stmt{p.ifStmt()}
		case "while":
			return []Stmt{p.whileStmt()}
		case "for":
			return []Stmt{p.forStmt()}
		case "def":
			return []Stmt{p.defStmt(nil)}
		case "try":
			return []Stmt{p.tryStmt()}
		case "class":
			return []Stmt{p.classStmt()}
		case "with":
			return []Stmt{p.withStmt()}
		}
	}
	if p.atOp("@") {
		return []Stmt{p.decoratedDef()}
	}
	return p.simpleLine()
}

// simpleLine parses one logical line of semicolon-separated simple
// statements.
func (p *parser) simpleLine() []Stmt {
	var stmts []Stmt
	for {
		stmts = append(stmts, p.smallStmt())
		if !p.acceptOp(";") {
			break
		}
		if p.at(tokNewline) || p.at(tokEOF) {
			break
		}
	}
	p.expectNewline()
	return stmts
}

func (p *parser) smallStmt() Stmt {
	if p.at(tokKeyword) {
		tok := p.cur()
		switch tok.text {
		case "pass":
			p.i++
			return &Pass{Ranging: tok.Ranging}
		case "break":
			p.i++
			return &Break{Ranging: tok.Ranging}
		case "continue":
			p.i++
			return &Continue{Ranging: tok.Ranging}
		case "return":
			p.i++
			ret := &Return{Ranging: tok.Ranging}
			if p.startsExpr() {
				ret.Value = p.testlist()
				ret.To = ret.Value.Range().To
			}
			return ret
		case "del":
			p.i++
			del := &Del{Ranging: tok.Ranging}
			for {
				t := p.target()
				del.Targets = append(del.Targets, t)
				del.To = t.Range().To
				if !p.acceptOp(",") {
					break
				}
			}
			return del
		case "raise":
			p.i++
			r := &Raise{Ranging: tok.Ranging}
			if p.startsExpr() {
				r.Exc = p.test()
				r.To = r.Exc.Range().To
			}
			return r
		case "assert":
			p.i++
			a := &Assert{Ranging: tok.Ranging, Cond: p.test()}
			a.To = a.Cond.Range().To
			if p.acceptOp(",") {
				a.Msg = p.test()
				a.To = a.Msg.Range().To
			}
			return a
		case "global", "nonlocal":
			p.i++
			var names []string
			end := tok.To
			for {
				n := p.expectName()
				names = append(names, n.text)
				end = n.To
				if !p.acceptOp(",") {
					break
				}
			}
			r := diag.Ranging{From: tok.From, To: end}
			if tok.text == "global" {
				return &Global{Ranging: r, Names: names}
			}
			return &Nonlocal{Ranging: r, Names: names}
		case "import":
			return p.importStmt()
		case "from":
			return p.fromImportStmt()
		case "yield":
			y := p.yieldExpr()
			return &ExprStmt{Ranging: y.Range(), X: y}
		}
	}
	return p.exprOrAssign()
}

func (p *parser) importStmt() Stmt {
	tok := p.expectKw("import")
	var names []string
	end := tok.To
	for {
		name, to := p.dottedName()
		if p.acceptKw("as") {
			alias := p.expectName()
			to = alias.To
		}
		names = append(names, name)
		end = to
		if !p.acceptOp(",") {
			break
		}
	}
	return &Import{Ranging: diag.Ranging{From: tok.From, To: end}, Names: names}
}

func (p *parser) fromImportStmt() Stmt {
	tok := p.expectKw("from")
	module, _ := p.dottedName()
	p.expectKw("import")
	var names []string
	var end int
	if p.atOp("*") {
		end = p.next().To
		names = []string{"*"}
	} else {
		parens := p.acceptOp("(")
		for {
			n := p.expectName()
			if p.acceptKw("as") {
				n = p.expectName()
			}
			names = append(names, n.text)
			end = n.To
			if !p.acceptOp(",") {
				break
			}
		}
		if parens {
			end = p.expectOp(")").To
		}
	}
	return &ImportFrom{
		Ranging: diag.Ranging{From: tok.From, To: end},
		Module:  module, Names: names,
	}
}

func (p *parser) dottedName() (string, int) {
	n := p.expectName()
	name, to := n.text, n.To
	for p.acceptOp(".") {
		n = p.expectName()
		name += "." + n.text
		to = n.To
	}
	return name, to
}

var augOps = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "//=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, "&=": true, "|=": true, "^=": true,
}

func (p *parser) exprOrAssign() Stmt {
	first := p.testlist()
	switch {
	case p.atOp("="):
		targets := []Expr{first}
		var value Expr
		for p.acceptOp("=") {
			value = p.testlist()
			targets = append(targets, value)
		}
		value = targets[len(targets)-1]
		targets = targets[:len(targets)-1]
		for _, t := range targets {
			p.checkAssignable(t)
		}
		return &Assign{
			Ranging: diag.MixedRanging(first, value),
			Targets: targets, Value: value,
		}
	case p.at(tokOp) && augOps[p.cur().text]:
		op := p.next().text
		p.checkAssignable(first)
		if _, ok := first.(*Tuple); ok {
			p.fail(first, "augmented assignment target cannot be a tuple")
		}
		value := p.testlist()
		return &AugAssign{
			Ranging: diag.MixedRanging(first, value),
			Target:  first, Op: op[:len(op)-1], Value: value,
		}
	}
	return &ExprStmt{Ranging: first.Range(), X: first}
}

func (p *parser) checkAssignable(e Expr) {
	switch e := e.(type) {
	case *Name, *Attribute, *Subscript:
	case *Starred:
		p.checkAssignable(e.Value)
	case *Tuple:
		for _, elem := range e.Elems {
			p.checkAssignable(elem)
		}
	case *List:
		for _, elem := range e.Elems {
			p.checkAssignable(elem)
		}
	default:
		p.fail(e, "cannot assign to "+e.Kind().String())
	}
}

// suite parses the body of a compound statement: either an indented block or
// a one-line suite after the colon.
func (p *parser) suite() Block {
	p.expectOp(":")
	if p.at(tokNewline) {
		p.i++
		if !p.at(tokIndent) {
			p.fail(p.cur(), "expected an indented block")
		}
		p.i++
		var block Block
		for !p.at(tokDedent) && !p.at(tokEOF) {
			block = append(block, p.statement()...)
		}
		if p.at(tokDedent) {
			p.i++
		}
		return block
	}
	return p.simpleLine()
}

func (p *parser) ifStmt() Stmt {
	tok := p.next() // "if" or "elif"
	cond := p.test()
	body := p.suite()
	stmt := &If{Ranging: diag.Ranging{From: tok.From}, Cond: cond, Body: body}
	switch {
	case p.atKw("elif"):
		nested := p.ifStmt()
		stmt.Else = Block{nested}
	case p.atKw("else"):
		p.i++
		stmt.Else = p.suite()
	}
	stmt.To = blockEnd(stmt.Else, blockEnd(body, cond.Range().To))
	return stmt
}

func (p *parser) whileStmt() Stmt {
	tok := p.expectKw("while")
	cond := p.test()
	body := p.suite()
	stmt := &While{Ranging: diag.Ranging{From: tok.From}, Cond: cond, Body: body}
	if p.acceptKw("else") {
		stmt.Else = p.suite()
	}
	stmt.To = blockEnd(stmt.Else, blockEnd(body, cond.Range().To))
	return stmt
}

func (p *parser) forStmt() Stmt {
	tok := p.expectKw("for")
	target := p.targetList()
	p.expectKw("in")
	iter := p.testlist()
	body := p.suite()
	stmt := &For{
		Ranging: diag.Ranging{From: tok.From},
		Target:  target, Iter: iter, Body: body,
	}
	if p.acceptKw("else") {
		stmt.Else = p.suite()
	}
	stmt.To = blockEnd(stmt.Else, blockEnd(body, iter.Range().To))
	return stmt
}

func (p *parser) decoratedDef() Stmt {
	var decorators []Expr
	for p.acceptOp("@") {
		decorators = append(decorators, p.test())
		p.expectNewline()
	}
	if !p.atKw("def") {
		p.fail(p.cur(), "expected 'def' after decorators")
	}
	return p.defStmt(decorators)
}

func (p *parser) defStmt(decorators []Expr) Stmt {
	tok := p.expectKw("def")
	name := p.expectName()
	params := p.paramList()
	body := p.suite()
	from := tok.From
	if len(decorators) > 0 {
		from = decorators[0].Range().From
	}
	return &FunctionDef{
		Ranging:    diag.Ranging{From: from, To: blockEnd(body, name.To)},
		Name:       name.text,
		Params:     params,
		Body:       body,
		Decorators: decorators,
	}
}

func (p *parser) paramList() []Param {
	p.expectOp("(")
	var params []Param
	seenDefault := false
	for !p.atOp(")") {
		if p.atOp("*") || p.atOp("**") {
			p.fail(p.cur(), "starred parameters not supported")
		}
		name := p.expectName()
		param := Param{Ranging: name.Ranging, Name: name.text}
		if p.acceptOp("=") {
			param.Default = p.test()
			param.To = param.Default.Range().To
			seenDefault = true
		} else if seenDefault {
			p.fail(name, "parameter without default follows parameter with default")
		}
		for _, prev := range params {
			if prev.Name == param.Name {
				p.fail(name, "duplicate parameter '"+param.Name+"'")
			}
		}
		params = append(params, param)
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return params
}

func (p *parser) classStmt() Stmt {
	tok := p.expectKw("class")
	name := p.expectName()
	if p.acceptOp("(") {
		for !p.atOp(")") {
			p.test()
			if !p.acceptOp(",") {
				break
			}
		}
		p.expectOp(")")
	}
	body := p.suite()
	return &ClassDef{
		Ranging: diag.Ranging{From: tok.From, To: blockEnd(body, name.To)},
		Name:    name.text,
		Body:    body,
	}
}

func (p *parser) withStmt() Stmt {
	tok := p.expectKw("with")
	var items []Expr
	for {
		item := p.test()
		if p.acceptKw("as") {
			p.target()
		}
		items = append(items, item)
		if !p.acceptOp(",") {
			break
		}
	}
	body := p.suite()
	return &With{
		Ranging: diag.Ranging{From: tok.From, To: blockEnd(body, items[len(items)-1].Range().To)},
		Items:   items,
		Body:    body,
	}
}

func (p *parser) tryStmt() Stmt {
	tok := p.expectKw("try")
	body := p.suite()
	stmt := &Try{Ranging: diag.Ranging{From: tok.From}, Body: body}
	for p.atKw("except") {
		exTok := p.next()
		clause := ExceptClause{Ranging: diag.Ranging{From: exTok.From}}
		if !p.atOp(":") {
			if p.acceptOp("(") {
				for {
					clause.Kinds = append(clause.Kinds, p.expectName().text)
					if !p.acceptOp(",") {
						break
					}
				}
				p.expectOp(")")
			} else {
				clause.Kinds = append(clause.Kinds, p.expectName().text)
			}
			if p.acceptKw("as") {
				clause.Name = p.expectName().text
			}
		}
		clause.Body = p.suite()
		clause.To = blockEnd(clause.Body, exTok.To)
		stmt.Excepts = append(stmt.Excepts, clause)
	}
	if len(stmt.Excepts) > 0 && p.acceptKw("else") {
		stmt.Else = p.suite()
	}
	if p.acceptKw("finally") {
		stmt.Finally = p.suite()
	}
	if len(stmt.Excepts) == 0 && stmt.Finally == nil {
		p.fail(tok, "try statement must have an except or finally clause")
	}
	end := blockEnd(body, tok.To)
	if len(stmt.Excepts) > 0 {
		end = stmt.Excepts[len(stmt.Excepts)-1].To
	}
	end = blockEnd(stmt.Finally, blockEnd(stmt.Else, end))
	stmt.To = end
	return stmt
}

// Targets.

// target parses a single assignment target: a name, attribute, subscript, or
// a parenthesized/bracketed list of targets.
func (p *parser) target() Expr {
	if p.atOp("*") {
		star := p.next()
		inner := p.target()
		return &Starred{Ranging: diag.Ranging{From: star.From, To: inner.Range().To}, Value: inner}
	}
	e := p.postfix()
	p.checkAssignable(e)
	return e
}

// targetList parses comma-separated targets, as in a for statement or a
// comprehension clause. Unlike testlist it never consumes "in".
func (p *parser) targetList() Expr {
	first := p.target()
	if !p.atOp(",") {
		return first
	}
	elems := []Expr{first}
	for p.acceptOp(",") {
		if !p.startsExpr() {
			break
		}
		elems = append(elems, p.target())
	}
	return &Tuple{
		Ranging: diag.MixedRanging(first, elems[len(elems)-1]),
		Elems:   elems,
	}
}

// Expressions.

// testlist parses a comma-separated expression list, producing a Tuple when
// there is more than one element or a trailing comma.
func (p *parser) testlist() Expr {
	first := p.testOrStar()
	if !p.atOp(",") {
		return first
	}
	elems := []Expr{first}
	to := first.Range().To
	for p.acceptOp(",") {
		if !p.startsExpr() {
			break
		}
		e := p.testOrStar()
		elems = append(elems, e)
		to = e.Range().To
	}
	return &Tuple{Ranging: diag.Ranging{From: first.Range().From, To: to}, Elems: elems}
}

func (p *parser) testOrStar() Expr {
	if p.atOp("*") {
		star := p.next()
		inner := p.test()
		return &Starred{Ranging: diag.Ranging{From: star.From, To: inner.Range().To}, Value: inner}
	}
	return p.test()
}

func (p *parser) test() Expr {
	if p.atKw("lambda") {
		return p.lambdaExpr()
	}
	t := p.orTest()
	if p.atKw("if") {
		p.i++
		cond := p.orTest()
		p.expectKw("else")
		els := p.test()
		return &IfExp{Ranging: diag.MixedRanging(t, els), Cond: cond, Then: t, Else: els}
	}
	return t
}

func (p *parser) lambdaExpr() Expr {
	tok := p.expectKw("lambda")
	var params []Param
	for !p.atOp(":") {
		name := p.expectName()
		param := Param{Ranging: name.Ranging, Name: name.text}
		if p.acceptOp("=") {
			param.Default = p.test()
		}
		params = append(params, param)
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(":")
	body := p.test()
	return &Lambda{
		Ranging: diag.Ranging{From: tok.From, To: body.Range().To},
		Params:  params,
		Body:    body,
	}
}

func (p *parser) yieldExpr() Expr {
	tok := p.expectKw("yield")
	y := &Yield{Ranging: tok.Ranging}
	if p.acceptKw("from") {
		y.Value = p.test()
		y.To = y.Value.Range().To
	} else if p.startsExpr() {
		y.Value = p.testlist()
		y.To = y.Value.Range().To
	}
	return y
}

func (p *parser) orTest() Expr {
	e := p.andTest()
	if !p.atKw("or") {
		return e
	}
	values := []Expr{e}
	for p.acceptKw("or") {
		values = append(values, p.andTest())
	}
	return &BoolOp{
		Ranging: diag.MixedRanging(e, values[len(values)-1]),
		Op:      "or", Values: values,
	}
}

func (p *parser) andTest() Expr {
	e := p.notTest()
	if !p.atKw("and") {
		return e
	}
	values := []Expr{e}
	for p.acceptKw("and") {
		values = append(values, p.notTest())
	}
	return &BoolOp{
		Ranging: diag.MixedRanging(e, values[len(values)-1]),
		Op:      "and", Values: values,
	}
}

func (p *parser) notTest() Expr {
	if p.atKw("not") {
		tok := p.next()
		operand := p.notTest()
		return &UnaryOp{
			Ranging: diag.Ranging{From: tok.From, To: operand.Range().To},
			Op:      "not", Operand: operand,
		}
	}
	return p.comparison()
}

func (p *parser) comparison() Expr {
	left := p.bitOr()
	var ops []string
	var operands []Expr
	for {
		op, ok := p.compOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		operands = append(operands, p.bitOr())
	}
	if len(ops) == 0 {
		return left
	}
	return &Compare{
		Ranging: diag.MixedRanging(left, operands[len(operands)-1]),
		Left:    left, Ops: ops, Operands: operands,
	}
}

func (p *parser) compOp() (string, bool) {
	if t := p.cur(); t.kind == tokOp {
		switch t.text {
		case "<", "<=", ">", ">=", "==", "!=":
			p.i++
			return t.text, true
		}
		return "", false
	}
	switch {
	case p.atKw("in"):
		p.i++
		return "in", true
	case p.atKw("not"):
		// "not" here can only start "not in".
		save := p.i
		p.i++
		if p.acceptKw("in") {
			return "not in", true
		}
		p.i = save
		return "", false
	case p.atKw("is"):
		p.i++
		if p.acceptKw("not") {
			return "is not", true
		}
		return "is", true
	}
	return "", false
}

// binaryLevel parses one level of left-associative binary operators.
func (p *parser) binaryLevel(operand func() Expr, ops ...string) Expr {
	e := operand()
	for {
		matched := false
		for _, op := range ops {
			if p.atOp(op) {
				p.i++
				right := operand()
				e = &BinOp{Ranging: diag.MixedRanging(e, right), Op: op, Left: e, Right: right}
				matched = true
				break
			}
		}
		if !matched {
			return e
		}
	}
}

func (p *parser) bitOr() Expr  { return p.binaryLevel(p.bitXor, "|") }
func (p *parser) bitXor() Expr { return p.binaryLevel(p.bitAnd, "^") }
func (p *parser) bitAnd() Expr { return p.binaryLevel(p.shift, "&") }
func (p *parser) shift() Expr  { return p.binaryLevel(p.arith, "<<", ">>") }
func (p *parser) arith() Expr  { return p.binaryLevel(p.term, "+", "-") }
func (p *parser) term() Expr   { return p.binaryLevel(p.factor, "*", "/", "//", "%") }

func (p *parser) factor() Expr {
	if t := p.cur(); t.kind == tokOp {
		switch t.text {
		case "-", "+", "~":
			p.i++
			operand := p.factor()
			return &UnaryOp{
				Ranging: diag.Ranging{From: t.From, To: operand.Range().To},
				Op:      t.text, Operand: operand,
			}
		}
	}
	return p.power()
}

func (p *parser) power() Expr {
	base := p.postfix()
	if p.acceptOp("**") {
		// Right-associative; the right operand may itself be signed.
		exp := p.factor()
		return &BinOp{Ranging: diag.MixedRanging(base, exp), Op: "**", Left: base, Right: exp}
	}
	return base
}

func (p *parser) postfix() Expr {
	e := p.atom()
	for {
		switch {
		case p.atOp("("):
			e = p.callTrailer(e)
		case p.atOp("["):
			p.i++
			index := p.subscript()
			end := p.expectOp("]")
			e = &Subscript{
				Ranging: diag.Ranging{From: e.Range().From, To: end.To},
				Object:  e, Index: index,
			}
		case p.atOp("."):
			p.i++
			name := p.expectName()
			e = &Attribute{
				Ranging:   diag.Ranging{From: e.Range().From, To: name.To},
				Object:    e, Attr: name.text, AttrRange: name.Ranging,
			}
		default:
			return e
		}
	}
}

func (p *parser) callTrailer(fn Expr) Expr {
	p.expectOp("(")
	call := &Call{Func: fn}
	for !p.atOp(")") {
		switch {
		case p.atOp("*"), p.atOp("**"):
			star := p.next()
			inner := p.test()
			call.Args = append(call.Args, &Starred{
				Ranging: diag.Ranging{From: star.From, To: inner.Range().To},
				Value:   inner,
			})
		case p.at(tokName) && p.peekIsOp(1, "="):
			name := p.next()
			p.expectOp("=")
			value := p.test()
			for _, prev := range call.KeywordNames {
				if prev == name.text {
					p.fail(name, "duplicate keyword argument '"+name.text+"'")
				}
			}
			call.KeywordNames = append(call.KeywordNames, name.text)
			call.KeywordValues = append(call.KeywordValues, value)
		default:
			if len(call.KeywordNames) > 0 {
				p.fail(p.cur(), "positional argument follows keyword argument")
			}
			call.Args = append(call.Args, p.test())
		}
		if !p.acceptOp(",") {
			break
		}
	}
	end := p.expectOp(")")
	call.Ranging = diag.Ranging{From: fn.Range().From, To: end.To}
	return call
}

// peekIsOp reports whether the token at offset n from the current one is the
// given operator.
func (p *parser) peekIsOp(n int, text string) bool {
	if p.i+n >= len(p.toks) {
		return false
	}
	t := p.toks[p.i+n]
	return t.kind == tokOp && t.text == text
}

func (p *parser) subscript() Expr {
	var low Expr
	start := p.cur().From
	if !p.atOp(":") {
		low = p.test()
		if !p.atOp(":") {
			return low
		}
	}
	colon := p.expectOp(":")
	sl := &Slice{Ranging: diag.Ranging{From: start, To: colon.To}, Low: low}
	if !p.atOp("]") && !p.atOp(":") {
		sl.High = p.test()
		sl.To = sl.High.Range().To
	}
	if p.atOp(":") {
		c := p.next()
		sl.To = c.To
		if !p.atOp("]") {
			sl.Step = p.test()
			sl.To = sl.Step.Range().To
		}
	}
	return sl
}

func (p *parser) atom() Expr {
	t := p.cur()
	switch t.kind {
	case tokNumber:
		p.i++
		return &Literal{Ranging: t.Ranging, Value: t.val}
	case tokString:
		p.i++
		// Adjacent string literals concatenate.
		s := t.val.(string)
		to := t.To
		for p.at(tokString) {
			nt := p.next()
			s += nt.val.(string)
			to = nt.To
		}
		return &Literal{Ranging: diag.Ranging{From: t.From, To: to}, Value: s}
	case tokName:
		p.i++
		return &Name{Ranging: t.Ranging, Name: t.text}
	case tokKeyword:
		switch t.text {
		case "True", "False", "None":
			p.i++
			return &Literal{Ranging: t.Ranging, Value: t.val}
		case "lambda":
			return p.lambdaExpr()
		case "yield":
			return p.yieldExpr()
		}
	case tokOp:
		switch t.text {
		case "(":
			return p.parenAtom()
		case "[":
			return p.listAtom()
		case "{":
			return p.braceAtom()
		}
	}
	p.fail(t, "expected expression")
	return nil
}

func (p *parser) parenAtom() Expr {
	open := p.expectOp("(")
	if p.atOp(")") {
		end := p.next()
		return &Tuple{Ranging: diag.Ranging{From: open.From, To: end.To}}
	}
	first := p.testOrStar()
	if p.atKw("for") {
		clauses := p.compClauses()
		end := p.expectOp(")")
		return &GeneratorExp{
			Ranging: diag.Ranging{From: open.From, To: end.To},
			Elem:    first, Clauses: clauses,
		}
	}
	if p.atOp(",") {
		elems := []Expr{first}
		for p.acceptOp(",") {
			if p.atOp(")") {
				break
			}
			elems = append(elems, p.testOrStar())
		}
		end := p.expectOp(")")
		return &Tuple{Ranging: diag.Ranging{From: open.From, To: end.To}, Elems: elems}
	}
	p.expectOp(")")
	// A parenthesized expression keeps its inner node; the parens only
	// affect grouping.
	return first
}

func (p *parser) listAtom() Expr {
	open := p.expectOp("[")
	if p.atOp("]") {
		end := p.next()
		return &List{Ranging: diag.Ranging{From: open.From, To: end.To}}
	}
	first := p.testOrStar()
	if p.atKw("for") {
		clauses := p.compClauses()
		end := p.expectOp("]")
		return &ListComp{
			Ranging: diag.Ranging{From: open.From, To: end.To},
			Elem:    first, Clauses: clauses,
		}
	}
	elems := []Expr{first}
	for p.acceptOp(",") {
		if p.atOp("]") {
			break
		}
		elems = append(elems, p.testOrStar())
	}
	end := p.expectOp("]")
	return &List{Ranging: diag.Ranging{From: open.From, To: end.To}, Elems: elems}
}

func (p *parser) braceAtom() Expr {
	open := p.expectOp("{")
	if p.atOp("}") {
		end := p.next()
		return &Dict{Ranging: diag.Ranging{From: open.From, To: end.To}}
	}
	first := p.testOrStar()
	if p.acceptOp(":") {
		value := p.test()
		if p.atKw("for") {
			clauses := p.compClauses()
			end := p.expectOp("}")
			return &DictComp{
				Ranging: diag.Ranging{From: open.From, To: end.To},
				Key:     first, Value: value, Clauses: clauses,
			}
		}
		keys, values := []Expr{first}, []Expr{value}
		for p.acceptOp(",") {
			if p.atOp("}") {
				break
			}
			k := p.test()
			p.expectOp(":")
			v := p.test()
			keys = append(keys, k)
			values = append(values, v)
		}
		end := p.expectOp("}")
		return &Dict{
			Ranging: diag.Ranging{From: open.From, To: end.To},
			Keys:    keys, Values: values,
		}
	}
	if p.atKw("for") {
		clauses := p.compClauses()
		end := p.expectOp("}")
		return &SetComp{
			Ranging: diag.Ranging{From: open.From, To: end.To},
			Elem:    first, Clauses: clauses,
		}
	}
	elems := []Expr{first}
	for p.acceptOp(",") {
		if p.atOp("}") {
			break
		}
		elems = append(elems, p.testOrStar())
	}
	end := p.expectOp("}")
	return &Set{Ranging: diag.Ranging{From: open.From, To: end.To}, Elems: elems}
}

func (p *parser) compClauses() []CompClause {
	var clauses []CompClause
	for p.acceptKw("for") {
		clause := CompClause{}
		clause.Target = p.targetList()
		p.expectKw("in")
		clause.Iter = p.orTest()
		for p.acceptKw("if") {
			clause.Ifs = append(clause.Ifs, p.orTest())
		}
		clauses = append(clauses, clause)
	}
	return clauses
}
