package parse

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pyritelang/pyrite/pkg/diag"
)

// Token kinds produced by the lexer. Line structure is made explicit:
// tokNewline ends every logical line, and tokIndent/tokDedent bracket every
// indented block, so the parser never looks at whitespace.
type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIndent
	tokDedent
	tokName
	tokKeyword
	tokNumber
	tokString
	tokOp
)

type token struct {
	kind tokenKind
	// text is the source text of a name, keyword or operator.
	text string
	// val is the value of a number or string literal.
	val any
	diag.Ranging
}

var keywords = map[string]bool{
	"and": true, "as": true, "assert": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
	"True": true, "False": true, "None": true,
}

// IsKeyword reports whether the name is a reserved word of the language.
func IsKeyword(name string) bool { return keywords[name] }

// Operators, longest first so that the longest match wins.
var operators = []string{
	"**=", "//=", "<<=", ">>=",
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "->",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ".", ";", "@", "=",
}

// How many columns a tab advances to (the next multiple of this).
const tabStop = 8

type lexer struct {
	src  Source
	pos  int
	toks []token
	// Indentation stack in columns; always starts with 0.
	indents []int
	// Bracket nesting depth; newlines inside brackets are insignificant.
	depth int
	err   *Error
}

// lex tokenizes the whole source up front. The parser works on the token
// slice, which keeps error recovery trivial: the first error wins.
func lex(src Source) ([]token, *Error) {
	lx := &lexer{src: src, indents: []int{0}}
	lx.run()
	if lx.err != nil {
		return nil, lx.err
	}
	return lx.toks, nil
}

func (lx *lexer) errorAt(r diag.Ranger, msg string) {
	if lx.err == nil {
		lx.err = newError(lx.src, r, msg)
	}
	// Jump to the end so the main loop terminates.
	lx.pos = len(lx.src.Code)
}

func (lx *lexer) emit(kind tokenKind, text string, val any, from, to int) {
	lx.toks = append(lx.toks, token{kind, text, val, diag.Ranging{From: from, To: to}})
}

func (lx *lexer) run() {
	atLineStart := true
	for lx.pos < len(lx.src.Code) && lx.err == nil {
		if atLineStart && lx.depth == 0 {
			if !lx.lineStart() {
				// Blank or comment-only line, or end of input.
				continue
			}
			atLineStart = false
			continue
		}
		c := lx.src.Code[lx.pos]
		switch {
		case c == '\n' || c == '\r':
			nl := lx.pos
			lx.skipLineBreak()
			if lx.depth > 0 {
				// Implicit line joining inside brackets.
				continue
			}
			lx.emit(tokNewline, "", nil, nl, lx.pos)
			atLineStart = true
		case c == ' ' || c == '\t':
			lx.pos++
		case c == '#':
			lx.skipComment()
		case c == '\\' && lx.nextIsLineBreak(lx.pos+1):
			lx.pos++
			lx.skipLineBreak()
		case c == '\'' || c == '"':
			lx.stringLiteral(lx.pos, false)
		case c >= '0' && c <= '9':
			lx.number()
		case c == '.' && lx.pos+1 < len(lx.src.Code) &&
			lx.src.Code[lx.pos+1] >= '0' && lx.src.Code[lx.pos+1] <= '9':
			lx.number()
		default:
			r, _ := utf8.DecodeRuneInString(lx.src.Code[lx.pos:])
			if isNameStart(r) {
				lx.name()
			} else {
				lx.operator()
			}
		}
	}
	if lx.err != nil {
		return
	}
	// Close the last logical line if the source does not end in a newline.
	if n := len(lx.toks); n > 0 {
		last := lx.toks[n-1].kind
		if last != tokNewline && last != tokIndent && last != tokDedent {
			lx.emit(tokNewline, "", nil, lx.pos, lx.pos)
		}
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(tokDedent, "", nil, lx.pos, lx.pos)
	}
	lx.emit(tokEOF, "", nil, lx.pos, lx.pos)
}

// lineStart measures the indentation of the coming line and emits
// INDENT/DEDENT tokens. It returns false if the line turned out to be blank
// or comment-only (already skipped).
func (lx *lexer) lineStart() bool {
	start := lx.pos
	col := 0
	for lx.pos < len(lx.src.Code) {
		switch lx.src.Code[lx.pos] {
		case ' ':
			col++
			lx.pos++
		case '\t':
			col = (col/tabStop + 1) * tabStop
			lx.pos++
		default:
			goto measured
		}
	}
measured:
	if lx.pos >= len(lx.src.Code) {
		return false
	}
	switch lx.src.Code[lx.pos] {
	case '\n', '\r':
		lx.skipLineBreak()
		return false
	case '#':
		lx.skipComment()
		return false
	}
	top := lx.indents[len(lx.indents)-1]
	switch {
	case col > top:
		lx.indents = append(lx.indents, col)
		lx.emit(tokIndent, "", nil, start, lx.pos)
	case col < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > col {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(tokDedent, "", nil, start, lx.pos)
		}
		if lx.indents[len(lx.indents)-1] != col {
			lx.errorAt(diag.Ranging{From: start, To: lx.pos},
				"unindent does not match any outer indentation level")
			return false
		}
	}
	return true
}

func (lx *lexer) nextIsLineBreak(i int) bool {
	return i < len(lx.src.Code) && (lx.src.Code[i] == '\n' || lx.src.Code[i] == '\r')
}

func (lx *lexer) skipLineBreak() {
	if lx.pos < len(lx.src.Code) && lx.src.Code[lx.pos] == '\r' {
		lx.pos++
	}
	if lx.pos < len(lx.src.Code) && lx.src.Code[lx.pos] == '\n' {
		lx.pos++
	}
}

func (lx *lexer) skipComment() {
	for lx.pos < len(lx.src.Code) &&
		lx.src.Code[lx.pos] != '\n' && lx.src.Code[lx.pos] != '\r' {
		lx.pos++
	}
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (lx *lexer) name() {
	start := lx.pos
	for lx.pos < len(lx.src.Code) {
		r, w := utf8.DecodeRuneInString(lx.src.Code[lx.pos:])
		if !isNameCont(r) {
			break
		}
		lx.pos += w
	}
	text := lx.src.Code[start:lx.pos]

	// A string prefix directly followed by a quote is part of the string
	// literal. Only the raw prefix is supported.
	if lx.pos < len(lx.src.Code) &&
		(lx.src.Code[lx.pos] == '\'' || lx.src.Code[lx.pos] == '"') {
		switch text {
		case "r", "R":
			lx.stringLiteral(start, true)
			return
		case "f", "F", "b", "B", "rb", "Rb", "rB", "RB", "br", "bR", "Br", "BR", "u", "U":
			lx.errorAt(diag.Ranging{From: start, To: lx.pos + 1},
				"string prefix "+strconv.Quote(text)+" not supported")
			return
		}
	}

	switch text {
	case "True":
		lx.emit(tokKeyword, text, true, start, lx.pos)
	case "False":
		lx.emit(tokKeyword, text, false, start, lx.pos)
	case "None":
		lx.emit(tokKeyword, text, nil, start, lx.pos)
	default:
		if keywords[text] {
			lx.emit(tokKeyword, text, nil, start, lx.pos)
		} else {
			lx.emit(tokName, text, nil, start, lx.pos)
		}
	}
}

func (lx *lexer) operator() {
	rest := lx.src.Code[lx.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			start := lx.pos
			lx.pos += len(op)
			switch op {
			case "(", "[", "{":
				lx.depth++
			case ")", "]", "}":
				if lx.depth > 0 {
					lx.depth--
				}
			}
			lx.emit(tokOp, op, nil, start, lx.pos)
			return
		}
	}
	r, w := utf8.DecodeRuneInString(rest)
	lx.errorAt(diag.Ranging{From: lx.pos, To: lx.pos + w},
		"unexpected character "+strconv.QuoteRune(r))
}

func (lx *lexer) number() {
	start := lx.pos
	code := lx.src.Code

	if code[lx.pos] == '0' && lx.pos+1 < len(code) {
		switch code[lx.pos+1] {
		case 'x', 'X':
			lx.radixInt(start, 16, isHexDigit)
			return
		case 'o', 'O':
			lx.radixInt(start, 8, isOctDigit)
			return
		case 'b', 'B':
			lx.radixInt(start, 2, isBinDigit)
			return
		}
	}

	isFloat := false
	for lx.pos < len(code) && isDigit(code[lx.pos]) {
		lx.pos++
	}
	if lx.pos < len(code) && code[lx.pos] == '.' {
		isFloat = true
		lx.pos++
		for lx.pos < len(code) && isDigit(code[lx.pos]) {
			lx.pos++
		}
	}
	if lx.pos < len(code) && (code[lx.pos] == 'e' || code[lx.pos] == 'E') {
		mark := lx.pos
		lx.pos++
		if lx.pos < len(code) && (code[lx.pos] == '+' || code[lx.pos] == '-') {
			lx.pos++
		}
		if lx.pos < len(code) && isDigit(code[lx.pos]) {
			isFloat = true
			for lx.pos < len(code) && isDigit(code[lx.pos]) {
				lx.pos++
			}
		} else {
			// Not an exponent after all ("1e" could start "1 else ..."
			// never, but "1e" alone is an error in Python; report it).
			lx.pos = mark
			lx.errorAt(diag.Ranging{From: start, To: mark + 1},
				"invalid number literal")
			return
		}
	}
	if lx.pos < len(code) && (code[lx.pos] == 'j' || code[lx.pos] == 'J') {
		lx.errorAt(diag.Ranging{From: start, To: lx.pos + 1},
			"complex literals not supported")
		return
	}
	text := code[start:lx.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			lx.errorAt(diag.Ranging{From: start, To: lx.pos}, "invalid number literal")
			return
		}
		lx.emit(tokNumber, text, f, start, lx.pos)
	} else {
		b, ok := new(big.Int).SetString(text, 10)
		if !ok {
			lx.errorAt(diag.Ranging{From: start, To: lx.pos}, "invalid number literal")
			return
		}
		lx.emit(tokNumber, text, normalizeInt(b), start, lx.pos)
	}
}

func (lx *lexer) radixInt(start, base int, valid func(byte) bool) {
	lx.pos += 2 // the 0x/0o/0b prefix
	digitsStart := lx.pos
	for lx.pos < len(lx.src.Code) && valid(lx.src.Code[lx.pos]) {
		lx.pos++
	}
	digits := lx.src.Code[digitsStart:lx.pos]
	if digits == "" {
		lx.errorAt(diag.Ranging{From: start, To: lx.pos}, "invalid number literal")
		return
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok {
		lx.errorAt(diag.Ranging{From: start, To: lx.pos}, "invalid number literal")
		return
	}
	lx.emit(tokNumber, lx.src.Code[start:lx.pos], normalizeInt(b), start, lx.pos)
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }
func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// normalizeInt demotes a big int to a machine int when it fits. The
// evaluator applies the same rule after arithmetic, so ints have a single
// canonical representation.
func normalizeInt(b *big.Int) any {
	if b.IsInt64() {
		i := b.Int64()
		if int64(int(i)) == i {
			return int(i)
		}
	}
	return b
}

// stringLiteral scans a string starting at the opening quote (lx.pos); start
// is the start of the whole literal including any prefix.
func (lx *lexer) stringLiteral(start int, raw bool) {
	code := lx.src.Code
	quote := code[lx.pos]
	lx.pos++
	triple := strings.HasPrefix(code[lx.pos:], string([]byte{quote, quote}))
	if triple {
		lx.pos += 2
	}

	var sb strings.Builder
	for {
		if lx.pos >= len(code) {
			lx.errorAt(diag.Ranging{From: start, To: lx.pos}, "string not terminated")
			return
		}
		c := code[lx.pos]
		if c == quote {
			if !triple {
				lx.pos++
				break
			}
			if strings.HasPrefix(code[lx.pos:], strings.Repeat(string(quote), 3)) {
				lx.pos += 3
				break
			}
			sb.WriteByte(c)
			lx.pos++
			continue
		}
		if (c == '\n' || c == '\r') && !triple {
			lx.errorAt(diag.Ranging{From: start, To: lx.pos}, "string not terminated")
			return
		}
		if c == '\\' && !raw {
			if !lx.stringEscape(&sb) {
				return
			}
			continue
		}
		sb.WriteByte(c)
		lx.pos++
	}
	lx.emit(tokString, code[start:lx.pos], sb.String(), start, lx.pos)
}

// stringEscape consumes one backslash escape, appending its expansion.
func (lx *lexer) stringEscape(sb *strings.Builder) bool {
	code := lx.src.Code
	escStart := lx.pos
	lx.pos++ // the backslash
	if lx.pos >= len(code) {
		lx.errorAt(diag.Ranging{From: escStart, To: lx.pos}, "string not terminated")
		return false
	}
	c := code[lx.pos]
	lx.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '0':
		sb.WriteByte(0)
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case '\n', '\r':
		// Escaped line break: continues the string on the next line.
		lx.pos--
		lx.skipLineBreak()
	case 'x':
		return lx.hexEscape(sb, escStart, 2)
	case 'u':
		return lx.hexEscape(sb, escStart, 4)
	default:
		lx.errorAt(diag.Ranging{From: escStart, To: lx.pos}, "invalid escape sequence")
		return false
	}
	return true
}

func (lx *lexer) hexEscape(sb *strings.Builder, escStart, n int) bool {
	code := lx.src.Code
	if lx.pos+n > len(code) {
		lx.errorAt(diag.Ranging{From: escStart, To: len(code)}, "invalid escape sequence")
		return false
	}
	digits := code[lx.pos : lx.pos+n]
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		lx.errorAt(diag.Ranging{From: escStart, To: lx.pos + n}, "invalid escape sequence")
		return false
	}
	lx.pos += n
	if n == 2 {
		sb.WriteByte(byte(v))
	} else {
		sb.WriteRune(rune(v))
	}
	return true
}
