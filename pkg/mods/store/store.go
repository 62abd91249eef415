// Package store exposes the persistent shared-variable store as an
// installable pyrite module. The database lives wherever the host's
// StorePath points; installing without one configured fails.
package store

import (
	"errors"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
	"github.com/pyritelang/pyrite/pkg/store"
)

// Build is the module builder for install_('store'). It opens (or reuses)
// the database eagerly, so a bad path fails the install instead of the
// first access.
func Build(eng *eval.Engine) (*eval.Ns, error) {
	path := eng.StorePath()
	if path == "" {
		return nil, errs.New(errs.Extension, "no store path configured")
	}
	db, err := store.OpenShared(path)
	if err != nil {
		return nil, errs.Newf(errs.Extension, "%v", err)
	}
	return eval.NsBuilder{}.
		AddGoFns(map[string]any{
			"storeset_": func(key, value string) error {
				return wrap(db.Set(key, value))
			},
			"storeget_": func(key string, dflt ...any) (any, error) {
				if len(dflt) > 1 {
					return nil, errs.ArityMismatch{
						What: "arguments to storeget_", ValidLow: 1, ValidHigh: 2,
						Actual: len(dflt) + 1}
				}
				v, err := db.Get(key)
				if errors.Is(err, store.ErrNoKey) {
					if len(dflt) == 1 {
						return dflt[0], nil
					}
					return nil, nil
				}
				if err != nil {
					return nil, wrap(err)
				}
				return v, nil
			},
			"storedel_": func(key string) error {
				return wrap(db.Del(key))
			},
			"storehas_": func(key string) (bool, error) {
				has, err := db.Has(key)
				return has, wrap(err)
			},
			"storekeys_": func() (*vals.List, error) {
				keys, err := db.Keys()
				if err != nil {
					return nil, wrap(err)
				}
				items := make([]any, len(keys))
				for i, k := range keys {
					items[i] = k
				}
				return vals.NewList(items...), nil
			},
		}).Ns(), nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return errs.Newf(errs.Extension, "store: %v", err)
}
