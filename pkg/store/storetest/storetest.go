// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/patrickelectric/sixtyfps/pkg/must"
	"github.com/patrickelectric/sixtyfps/pkg/store/storedefs"
	"github.com/patrickelectric/sixtyfps/pkg/testutil"
)

var mtime = time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

// TestResource tests the resource cache functionality of a Store.
func TestResource(t *testing.T, store storedefs.Store) {
	dir := testutil.InTempDir(t)
	logo := filepath.Join(dir, "logo.png")
	must.WriteFileAt("logo.png", "abc", mtime)

	// Relative and absolute paths share the entry.
	if data := string(must.OK1(store.Load("logo.png"))); data != "abc" {
		t.Errorf("Load -> %q, want %q", data, "abc")
	}
	r, err := store.Resource(logo)
	if err != nil {
		t.Fatalf("Resource -> error %v", err)
	}
	if diff := cmp.Diff(storedefs.Resource{Path: logo, ModTime: mtime, Size: 3}, r,
		cmp.Comparer(time.Time.Equal)); diff != "" {
		t.Errorf("Resource (-want +got):\n%s", diff)
	}

	// Unchanged size and modification time: the cached content is used.
	must.WriteFileAt("logo.png", "xyz", mtime)
	if data := string(must.OK1(store.Load(logo))); data != "abc" {
		t.Errorf("Load of unchanged file -> %q, want cached %q", data, "abc")
	}

	// A changed file is read again.
	must.WriteFileAt("logo.png", "hello", mtime)
	if data := string(must.OK1(store.Load(logo))); data != "hello" {
		t.Errorf("Load of changed file -> %q, want %q", data, "hello")
	}
	if r := must.OK1(store.Resource(logo)); r.Size != 5 {
		t.Errorf("Resource after change has size %d, want 5", r.Size)
	}

	if _, err := store.Load("missing.png"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load of missing file -> error %v, want os.ErrNotExist", err)
	}

	err = store.DelResource(logo)
	if err != nil {
		t.Errorf("DelResource -> error %v", err)
	}
	if _, err := store.Resource(logo); err != storedefs.ErrNoResource {
		t.Errorf("Resource after DelResource -> error %v, want ErrNoResource", err)
	}
	if err := store.DelResource(logo); err != nil {
		t.Errorf("DelResource of missing entry -> error %v", err)
	}
}

// TestPurge tests the removal of stale entries of a Store.
func TestPurge(t *testing.T, store storedefs.Store) {
	dir := testutil.InTempDir(t)
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		must.WriteFileAt(name, name, mtime)
		must.OK1(store.Load(name))
	}
	must.OK(os.Remove("a.png"))
	must.WriteFileAt("b.png", "changed", mtime)

	n, err := store.Purge()
	if n != 2 || err != nil {
		t.Errorf("Purge -> (%d, %v), want (2, nil)", n, err)
	}
	var paths []string
	for _, r := range must.OK1(store.Resources()) {
		paths = append(paths, r.Path)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "c.png")}, paths); diff != "" {
		t.Errorf("Resources after Purge (-want +got):\n%s", diff)
	}

	if n, err := store.Purge(); n != 0 || err != nil {
		t.Errorf("second Purge -> (%d, %v), want (0, nil)", n, err)
	}
}
