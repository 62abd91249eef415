package mods_test

import (
	"testing"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
	"github.com/pyritelang/pyrite/pkg/mods"
)

func TestDefault(t *testing.T) {
	builders := mods.Default()
	for _, name := range []string{"math", "time", "json", "base64", "re", "store"} {
		if builders[name] == nil {
			t.Errorf("Default() misses %q", name)
		}
	}
}

func TestModulesInstallTogether(t *testing.T) {
	eng := eval.NewEngine(eval.Config{Modules: mods.Default()})
	code := `
install_('math')
install_('json')
install_('base64')
install_('re')
jsonloads_(jsondumps_([floor_(2.5), b64encode_('x'), resub_('a', 'b', 'aa')]))`
	got, err := eng.Eval(code)
	if err != nil {
		t.Fatal(err)
	}
	want := vals.NewList(2, "eA==", "bb")
	if !vals.Equal(got, want) {
		t.Errorf("got %s, want %s", vals.Repr(got), vals.Repr(want))
	}
}
