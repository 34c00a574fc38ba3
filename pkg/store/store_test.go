package store_test

import (
	"path/filepath"
	"testing"

	"github.com/patrickelectric/sixtyfps/pkg/compiler"
	"github.com/patrickelectric/sixtyfps/pkg/must"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/store"
	"github.com/patrickelectric/sixtyfps/pkg/store/storetest"
	"github.com/patrickelectric/sixtyfps/pkg/testutil"
)

func TestResource(t *testing.T) {
	tStore, cleanup := store.MustGetTempStore()
	defer cleanup()
	storetest.TestResource(t, tStore)
}

func TestPurge(t *testing.T) {
	tStore, cleanup := store.MustGetTempStore()
	defer cleanup()
	storetest.TestPurge(t, tStore)
}

func TestReopen(t *testing.T) {
	dir := testutil.InTempDir(t)
	must.WriteFile("icon.png", "data")
	dbname := filepath.Join(dir, "cache.db")

	st := must.OK1(store.NewStore(dbname))
	must.OK1(st.Load("icon.png"))
	must.OK(st.Close())

	st = must.OK1(store.NewStore(dbname))
	defer st.Close()
	resources := must.OK1(st.Resources())
	if len(resources) != 1 || resources[0].Path != filepath.Join(dir, "icon.png") {
		t.Errorf("Resources after reopening -> %v", resources)
	}
}

func TestResourceCacheInCompiler(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("icon.png", "png bytes")
	tStore, cleanup := store.MustGetTempStore()
	defer cleanup()

	doc, bd := compiler.CompileSource("main.60", `
Main := Rectangle {
    Image { source: img!"icon.png"; }
}`, &compiler.Configuration{EmbedResources: true, ResourceCache: tStore})
	if err := bd.Err(); err != nil {
		t.Fatal(err)
	}
	if got := string(embedded(doc.Root)); got != "png bytes" {
		t.Errorf("embedded resource is %q, want %q", got, "png bytes")
	}
	if len(must.OK1(tStore.Resources())) != 1 {
		t.Errorf("resource was not cached")
	}
}

func embedded(c *objtree.Component) []byte {
	for _, data := range c.EmbeddedResources {
		return data
	}
	return nil
}
