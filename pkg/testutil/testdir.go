package testutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pyritelang/pyrite/pkg/must"
)

// TempDir creates a unique temporary directory and returns its path, with
// symlinks resolved, so that tests that compare paths are not confused by the
// temporary directory itself being a symlink (as is the case on macOS).
//
// The directory is removed when the test finishes.
func TempDir(c Cleanuper) string {
	dir, err := os.MkdirTemp("", "pyrite-test.")
	if err != nil {
		panic(err)
	}
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() {
		err := os.RemoveAll(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temp dir %s: %v\n", dir, err)
		}
	})
	return dir
}

// InTempDir is like TempDir, but also changes into the directory, changing
// back when the test finishes.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	Chdir(c, dir)
	return dir
}

// Chdir changes into a directory, and restores the original working directory
// when the test finishes. It returns the directory for easier chaining.
func Chdir(c Cleanuper, dir string) string {
	oldWd := must.OK1(os.Getwd())
	must.Chdir(dir)
	c.Cleanup(func() { must.Chdir(oldWd) })
	return dir
}

// Dir describes the layout of a directory. The keys of the map represent
// filenames. Each value is either a string (the content of a regular file
// with permission 0644) or a nested Dir.
type Dir map[string]any

// ApplyDir creates the given filesystem layout in the current directory.
func ApplyDir(dir Dir) {
	applyDir(dir, "")
}

func applyDir(dir Dir, prefix string) {
	for name, file := range dir {
		path := filepath.Join(prefix, name)
		switch file := file.(type) {
		case string:
			must.OK(os.WriteFile(path, []byte(file), 0644))
		case Dir:
			must.OK(os.MkdirAll(path, 0755))
			applyDir(file, path)
		default:
			panic(fmt.Sprintf("file is neither string nor Dir: %v", file))
		}
	}
}
