// Package testutil provides utilities shared by tests across the repo:
// environment and global overrides that undo themselves on cleanup, temporary
// directory helpers, and string dedenting for inline scripts.
package testutil

// Cleanuper is the subset of [testing.TB] that the helpers in this package
// need to register undo actions; *testing.T and *testing.B both satisfy it.
type Cleanuper interface {
	Cleanup(func())
}
