package lsp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	lsp "github.com/sourcegraph/go-lsp"

	"github.com/pyritelang/pyrite/pkg/tt"
)

func TestDiagnostics_ValidCode(t *testing.T) {
	diags := diagnostics("file:///a.pyr", "x = 1\nprint(x)\n")
	if len(diags) != 0 {
		t.Errorf("got %d diagnostics for valid code, want 0", len(diags))
	}
}

func TestDiagnostics_SyntaxError(t *testing.T) {
	diags := diagnostics("file:///a.pyr", "x = 1\ny = 'oops")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Severity != lsp.Error {
		t.Errorf("got severity %v, want %v", d.Severity, lsp.Error)
	}
	if d.Source != "parse" {
		t.Errorf("got source %q, want %q", d.Source, "parse")
	}
	if !strings.Contains(d.Message, "not terminated") {
		t.Errorf("got message %q, want it to mention the unterminated string", d.Message)
	}
	if d.Range.Start.Line != 1 {
		t.Errorf("got start line %d, want 1", d.Range.Start.Line)
	}
}

func TestLSPPositionMath(t *testing.T) {
	// 𐀀 (U+10000) takes two UTF-16 units and four bytes.
	src := "ab\ncd\r\ne𐀀f"
	tt.Test(t, tt.Fn("lspPositionFromIdx", func(i int) lsp.Position {
		return lspPositionFromIdx(src, i)
	}), tt.Table{
		tt.Args(0).Rets(lsp.Position{Line: 0, Character: 0}),
		tt.Args(2).Rets(lsp.Position{Line: 0, Character: 2}),
		tt.Args(3).Rets(lsp.Position{Line: 1, Character: 0}),
		tt.Args(7).Rets(lsp.Position{Line: 2, Character: 0}),
		tt.Args(8).Rets(lsp.Position{Line: 2, Character: 1}),
		// After the astral-plane rune.
		tt.Args(12).Rets(lsp.Position{Line: 2, Character: 3}),
		tt.Args(len(src)).Rets(lsp.Position{Line: 2, Character: 4}),
	})

	tt.Test(t, tt.Fn("lspPositionToIdx", func(p lsp.Position) int {
		return lspPositionToIdx(src, p)
	}), tt.Table{
		tt.Args(lsp.Position{Line: 0, Character: 0}).Rets(0),
		tt.Args(lsp.Position{Line: 1, Character: 1}).Rets(4),
		tt.Args(lsp.Position{Line: 2, Character: 1}).Rets(8),
		tt.Args(lsp.Position{Line: 2, Character: 3}).Rets(12),
		// Out of range clamps to the end.
		tt.Args(lsp.Position{Line: 9, Character: 9}).Rets(len(src)),
	})
}

func TestWordStart(t *testing.T) {
	tt.Test(t, tt.Fn("wordStart", wordStart), tt.Table{
		tt.Args("print(le", 8).Rets(6),
		tt.Args("le", 2).Rets(0),
		tt.Args("x = ", 4).Rets(4),
		tt.Args("a_b9", 4).Rets(0),
	})
}

func TestCompletion(t *testing.T) {
	s := newServer()
	uri := lsp.DocumentURI("file:///a.pyr")
	s.content[uri] = "x = le"

	items := complete(t, s, uri, lsp.Position{Line: 0, Character: 6})
	labels := make(map[string]lsp.CompletionItem)
	for _, item := range items {
		if !strings.HasPrefix(item.Label, "le") {
			t.Errorf("completion %q does not match prefix %q", item.Label, "le")
		}
		labels[item.Label] = item
	}
	item, ok := labels["len"]
	if !ok {
		t.Fatalf("completions %v do not include len", items)
	}
	if item.Kind != lsp.CIKFunction {
		t.Errorf("len has kind %v, want %v", item.Kind, lsp.CIKFunction)
	}
	want := lsp.Range{
		Start: lsp.Position{Line: 0, Character: 4},
		End:   lsp.Position{Line: 0, Character: 6},
	}
	if item.TextEdit == nil || item.TextEdit.Range != want {
		t.Errorf("len has text edit %v, want range %v", item.TextEdit, want)
	}
}

func TestCompletion_Keywords(t *testing.T) {
	s := newServer()
	uri := lsp.DocumentURI("file:///a.pyr")
	s.content[uri] = "whi"

	items := complete(t, s, uri, lsp.Position{Line: 0, Character: 3})
	for _, item := range items {
		if item.Label == "while" {
			if item.Kind != lsp.CIKKeyword {
				t.Errorf("while has kind %v, want %v", item.Kind, lsp.CIKKeyword)
			}
			return
		}
	}
	t.Errorf("completions %v do not include while", items)
}

func complete(t *testing.T, s *server, uri lsp.DocumentURI, pos lsp.Position) []lsp.CompletionItem {
	t.Helper()
	rawParams, err := json.Marshal(lsp.CompletionParams{
		TextDocumentPositionParams: lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.completion(context.Background(), nil, rawParams)
	if err != nil {
		t.Fatal(err)
	}
	return result.([]lsp.CompletionItem)
}
