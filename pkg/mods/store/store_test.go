package store_test

import (
	"path/filepath"
	"testing"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
	storemod "github.com/pyritelang/pyrite/pkg/mods/store"
	"github.com/pyritelang/pyrite/pkg/testutil"
)

func newEngine(t *testing.T, storePath string) *eval.Engine {
	t.Helper()
	return eval.NewEngine(eval.Config{
		StorePath: storePath,
		Modules:   map[string]eval.ModuleBuilder{"store": storemod.Build},
	})
}

func TestStoreModule(t *testing.T) {
	dir := testutil.TempDir(t)
	eng := newEngine(t, filepath.Join(dir, "vars.db"))
	if _, err := eng.Eval("install_('store')"); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		code string
		want any
	}{
		{"storeget_('missing')", nil},
		{"storeget_('missing', 'dflt')", "dflt"},
		{"storehas_('k')", false},
		{"storeset_('k', 'v')", nil},
		{"storeget_('k')", "v"},
		{"storehas_('k')", true},
		{"storeset_('a', '1')", nil},
		{"storekeys_()", vals.NewList("a", "k")},
		{"storedel_('k')", nil},
		{"storeget_('k')", nil},
		{"storedel_('k')", nil},
	}
	for _, c := range cases {
		got, err := eng.Eval(c.code)
		if err != nil {
			t.Fatalf("eval %q: %v", c.code, err)
		}
		if !vals.Equal(got, c.want) {
			t.Errorf("eval %q = %s, want %s", c.code, vals.Repr(got), vals.Repr(c.want))
		}
	}
}

func TestStoreModule_SharedAcrossEngines(t *testing.T) {
	path := filepath.Join(testutil.TempDir(t), "vars.db")

	eng1 := newEngine(t, path)
	if _, err := eng1.Eval("install_('store')\nstoreset_('shared', 'yes')"); err != nil {
		t.Fatal(err)
	}

	eng2 := newEngine(t, path)
	got, err := eng2.Eval("install_('store')\nstoreget_('shared')")
	if err != nil {
		t.Fatal(err)
	}
	if got != "yes" {
		t.Errorf("second engine read %v, want yes", got)
	}
}

func TestStoreModule_NoPath(t *testing.T) {
	eng := newEngine(t, "")
	_, err := eng.Eval("install_('store')")
	if errs.KindOf(err) != errs.Extension {
		t.Errorf("install without store path: %v, want ExtensionError", err)
	}
}

func TestStoreModule_NonStringValue(t *testing.T) {
	eng := newEngine(t, filepath.Join(testutil.TempDir(t), "vars.db"))
	if _, err := eng.Eval("install_('store')"); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Eval("storeset_('k', 1)"); errs.KindOf(err) != errs.Type {
		t.Errorf("storeset_ with int value: %v, want TypeError", err)
	}
}
