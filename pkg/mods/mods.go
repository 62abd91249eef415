// Package mods collects the installable modules.
package mods

import (
	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/mods/base64"
	"github.com/pyritelang/pyrite/pkg/mods/json"
	"github.com/pyritelang/pyrite/pkg/mods/math"
	"github.com/pyritelang/pyrite/pkg/mods/re"
	"github.com/pyritelang/pyrite/pkg/mods/store"
	"github.com/pyritelang/pyrite/pkg/mods/time"
)

// Default returns the standard module allowlist. Hosts may add their own
// builders to the returned map before passing it to eval.Config.
func Default() map[string]eval.ModuleBuilder {
	return map[string]eval.ModuleBuilder{
		"math":   static(math.Ns),
		"time":   static(time.Ns),
		"json":   static(json.Ns),
		"base64": static(base64.Ns),
		"re":     static(re.Ns),
		"store":  store.Build,
	}
}

func static(ns *eval.Ns) eval.ModuleBuilder {
	return func(*eval.Engine) (*eval.Ns, error) { return ns, nil }
}
