// Package re exposes regular expressions as an installable pyrite module.
// Patterns use Go's RE2 syntax; the module-level functions carry the "re"
// prefix plus the trailing underscore (research_, resub_, ...), and
// recompile_ returns a Pattern value with the same operations as methods.
package re

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
)

// Flag bits, matching the values scripts combine with |.
const (
	flagIgnoreCase = 2
	flagMultiline  = 8
	flagDotAll     = 16
)

// Ns is the namespace bound by install_('re').
var Ns = eval.NsBuilder{}.
	AddReadOnly("reNOFLAG_", 0).
	AddReadOnly("reIGNORECASE_", flagIgnoreCase).
	AddReadOnly("reMULTILINE_", flagMultiline).
	AddReadOnly("reDOTALL_", flagDotAll).
	AddGoFns(map[string]any{
		"recompile_":   compile,
		"research_":    search,
		"rematch_":     match,
		"refullmatch_": fullmatch,
		"refindall_":   findall,
		"resplit_":     split,
		"resub_":       sub,
		"resubn_":      subn,
		"reescape_":    regexp.QuoteMeta,
	}).Ns()

type flagOpts struct{ Flags int }

func (*flagOpts) SetDefaultOptions() {}

// makePattern compiles source-language pattern text, applying flags as
// inline RE2 flag groups.
func makePattern(pattern string, flags int) (*Pattern, error) {
	var prefix strings.Builder
	if flags&flagIgnoreCase != 0 {
		prefix.WriteString("(?i)")
	}
	if flags&flagMultiline != 0 {
		prefix.WriteString("(?m)")
	}
	if flags&flagDotAll != 0 {
		prefix.WriteString("(?s)")
	}
	re, err := regexp.Compile(prefix.String() + pattern)
	if err != nil {
		return nil, errs.Newf(errs.Value, "invalid regular expression: %v", err)
	}
	return &Pattern{re: re, pattern: pattern, flags: flags}, nil
}

func compile(opts flagOpts, pattern string) (*Pattern, error) {
	return makePattern(pattern, opts.Flags)
}

func search(opts flagOpts, pattern, s string) (any, error) {
	p, err := makePattern(pattern, opts.Flags)
	if err != nil {
		return nil, err
	}
	return p.search(s), nil
}

func match(opts flagOpts, pattern, s string) (any, error) {
	p, err := makePattern(pattern, opts.Flags)
	if err != nil {
		return nil, err
	}
	return p.match(s), nil
}

func fullmatch(opts flagOpts, pattern, s string) (any, error) {
	p, err := makePattern(pattern, opts.Flags)
	if err != nil {
		return nil, err
	}
	return p.fullmatch(s), nil
}

func findall(opts flagOpts, pattern, s string) (*vals.List, error) {
	p, err := makePattern(pattern, opts.Flags)
	if err != nil {
		return nil, err
	}
	return p.findall(s), nil
}

func split(opts splitOpts, pattern, s string) (*vals.List, error) {
	p, err := makePattern(pattern, opts.Flags)
	if err != nil {
		return nil, err
	}
	return p.split(s, opts.Maxsplit), nil
}

type splitOpts struct {
	Flags    int
	Maxsplit int
}

func (*splitOpts) SetDefaultOptions() {}

type subOpts struct {
	Flags int
	Count int
}

func (*subOpts) SetDefaultOptions() {}

func sub(opts subOpts, pattern, repl, s string) (string, error) {
	p, err := makePattern(pattern, opts.Flags)
	if err != nil {
		return "", err
	}
	out, _ := p.sub(repl, s, opts.Count)
	return out, nil
}

func subn(opts subOpts, pattern, repl, s string) (vals.Tuple, error) {
	p, err := makePattern(pattern, opts.Flags)
	if err != nil {
		return nil, err
	}
	out, n := p.sub(repl, s, opts.Count)
	return vals.Tuple{out, n}, nil
}

// Pattern is a compiled regular expression. Its methods are exposed to
// scripts through attribute access.
type Pattern struct {
	re      *regexp.Regexp
	pattern string
	flags   int
}

// Kind returns "pattern".
func (p *Pattern) Kind() string { return "pattern" }

// Repr returns a representation naming the pattern text.
func (p *Pattern) Repr() string { return "<pattern '" + p.pattern + "'>" }

// Attr resolves a method or data attribute of the pattern.
func (p *Pattern) Attr(name string) (any, bool) {
	switch name {
	case "pattern":
		return p.pattern, true
	case "flags":
		return p.flags, true
	case "groups":
		return p.re.NumSubexp(), true
	case "search":
		return eval.NewGoFn("search", p.search), true
	case "match":
		return eval.NewGoFn("match", p.match), true
	case "fullmatch":
		return eval.NewGoFn("fullmatch", p.fullmatch), true
	case "findall":
		return eval.NewGoFn("findall", p.findall), true
	case "split":
		return eval.NewGoFn("split", func(opts countOpts, s string) *vals.List {
			return p.split(s, opts.Maxsplit)
		}), true
	case "sub":
		return eval.NewGoFn("sub", func(opts countOpts, repl, s string) string {
			out, _ := p.sub(repl, s, opts.Count)
			return out
		}), true
	case "subn":
		return eval.NewGoFn("subn", func(opts countOpts, repl, s string) vals.Tuple {
			out, n := p.sub(repl, s, opts.Count)
			return vals.Tuple{out, n}
		}), true
	}
	return nil, false
}

type countOpts struct {
	Count    int
	Maxsplit int
}

func (*countOpts) SetDefaultOptions() {}

// search finds the first match anywhere in s, returning a *Match or nil.
func (p *Pattern) search(s string) any {
	loc := p.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil
	}
	return &Match{re: p.re, subject: s, loc: loc}
}

// match requires the match to start at the beginning of s.
func (p *Pattern) match(s string) any {
	m := p.search(s)
	if m == nil {
		return nil
	}
	if m.(*Match).loc[0] != 0 {
		return nil
	}
	return m
}

// fullmatch requires the match to cover all of s.
func (p *Pattern) fullmatch(s string) any {
	m := p.search(s)
	if m == nil {
		return nil
	}
	loc := m.(*Match).loc
	if loc[0] != 0 || loc[1] != len(s) {
		return nil
	}
	return m
}

// findall returns all matches: the matched text when the pattern has no
// groups, the sole group when it has one, and a tuple of groups otherwise.
func (p *Pattern) findall(s string) *vals.List {
	items := []any{}
	for _, sub := range p.re.FindAllStringSubmatch(s, -1) {
		switch p.re.NumSubexp() {
		case 0:
			items = append(items, sub[0])
		case 1:
			items = append(items, sub[1])
		default:
			t := make(vals.Tuple, p.re.NumSubexp())
			for i := range t {
				t[i] = sub[i+1]
			}
			items = append(items, t)
		}
	}
	return vals.NewList(items...)
}

func (p *Pattern) split(s string, maxsplit int) *vals.List {
	n := -1
	if maxsplit > 0 {
		n = maxsplit + 1
	}
	parts := p.re.Split(s, n)
	items := make([]any, len(parts))
	for i, part := range parts {
		items[i] = part
	}
	return vals.NewList(items...)
}

// sub replaces up to count matches (all when count is 0) and reports the
// number of replacements. Group references in repl use RE2's $1 syntax.
func (p *Pattern) sub(repl, s string, count int) (string, int) {
	matches := p.re.FindAllStringSubmatchIndex(s, -1)
	if count > 0 && len(matches) > count {
		matches = matches[:count]
	}
	var sb strings.Builder
	last := 0
	for _, loc := range matches {
		sb.WriteString(s[last:loc[0]])
		sb.Write(p.re.ExpandString(nil, repl, s, loc))
		last = loc[1]
	}
	sb.WriteString(s[last:])
	return sb.String(), len(matches)
}

// Match is the result of a successful pattern operation.
type Match struct {
	re      *regexp.Regexp
	subject string
	// loc is the submatch index pairs as returned by RE2.
	loc []int
}

// Kind returns "match".
func (m *Match) Kind() string { return "match" }

// Repr returns a representation with the span and matched text.
func (m *Match) Repr() string {
	return fmt.Sprintf("<match span=(%d, %d) match='%s'>",
		m.loc[0], m.loc[1], m.group(0))
}

// Attr resolves a method of the match.
func (m *Match) Attr(name string) (any, bool) {
	switch name {
	case "group":
		return eval.NewGoFn("group", m.groupFn), true
	case "groups":
		return eval.NewGoFn("groups", m.groups), true
	case "start":
		return eval.NewGoFn("start", m.start), true
	case "end":
		return eval.NewGoFn("end", m.end), true
	case "span":
		return eval.NewGoFn("span", m.span), true
	}
	return nil, false
}

func (m *Match) checkGroup(n int) error {
	if n < 0 || 2*n+1 >= len(m.loc) {
		return errs.Newf(errs.Index, "no such group %d", n)
	}
	return nil
}

// group returns the text of group n; an unmatched optional group is None.
func (m *Match) group(n int) string {
	if m.loc[2*n] < 0 {
		return ""
	}
	return m.subject[m.loc[2*n]:m.loc[2*n+1]]
}

func (m *Match) groupVal(n int) any {
	if m.loc[2*n] < 0 {
		return nil
	}
	return m.group(n)
}

func (m *Match) groupFn(ns ...int) (any, error) {
	switch len(ns) {
	case 0:
		return m.group(0), nil
	case 1:
		if err := m.checkGroup(ns[0]); err != nil {
			return nil, err
		}
		return m.groupVal(ns[0]), nil
	default:
		t := make(vals.Tuple, len(ns))
		for i, n := range ns {
			if err := m.checkGroup(n); err != nil {
				return nil, err
			}
			t[i] = m.groupVal(n)
		}
		return t, nil
	}
}

func (m *Match) groups() vals.Tuple {
	n := len(m.loc)/2 - 1
	t := make(vals.Tuple, n)
	for i := 1; i <= n; i++ {
		t[i-1] = m.groupVal(i)
	}
	return t
}

func (m *Match) start(ns ...int) (int, error) {
	n, err := m.optGroup("start", ns)
	if err != nil {
		return 0, err
	}
	return m.loc[2*n], nil
}

func (m *Match) end(ns ...int) (int, error) {
	n, err := m.optGroup("end", ns)
	if err != nil {
		return 0, err
	}
	return m.loc[2*n+1], nil
}

func (m *Match) span(ns ...int) (vals.Tuple, error) {
	n, err := m.optGroup("span", ns)
	if err != nil {
		return nil, err
	}
	return vals.Tuple{m.loc[2*n], m.loc[2*n+1]}, nil
}

func (m *Match) optGroup(what string, ns []int) (int, error) {
	switch len(ns) {
	case 0:
		return 0, nil
	case 1:
		if err := m.checkGroup(ns[0]); err != nil {
			return 0, err
		}
		return ns[0], nil
	default:
		return 0, errs.ArityMismatch{
			What: "arguments to " + what, ValidLow: 0, ValidHigh: 1, Actual: len(ns)}
	}
}
