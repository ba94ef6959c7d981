package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("% instance\n"), 0o644))
	}
}

func TestInstanceGroup(t *testing.T) {
	t.Parallel()

	name, err := InstanceGroup("queens-12.lp", false)
	require.NoError(t, err)
	assert.Equal(t, "queens-12", name)

	name, err = InstanceGroup("queens-12.part1.lp", false)
	require.NoError(t, err)
	assert.Equal(t, "queens-12.part1", name)

	name, err = InstanceGroup("queens-12.part1.lp", true)
	require.NoError(t, err)
	assert.Equal(t, "queens-12", name)

	_, err = InstanceGroup("noextension", false)
	assert.Error(t, err)

	_, err = InstanceGroup(".hidden", false)
	assert.Error(t, err)
}

func TestFolderPopulate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"easy/a.lp",
		"easy/b.lp",
		"hard/deep/c.lp",
		"easy/.hidden.lp",
	)

	b := &Benchmark{Name: "bench"}
	b.AddSource(&Folder{Path: root})
	require.NoError(t, b.Init())

	require.Len(t, b.Classes, 2)
	assert.Equal(t, "easy", b.Classes[0].Name)
	assert.Equal(t, "hard/deep", b.Classes[1].Name)

	easy := b.Classes[0]
	require.Len(t, easy.Instances, 2)
	assert.Equal(t, "a", easy.Instances[0].Name)
	assert.Equal(t, "b", easy.Instances[1].Name)
	assert.Equal(t, []string{filepath.Join(root, "easy", "a.lp")}, easy.Instances[0].Paths())
}

func TestFolderPopulateGrouping(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"cls/inst1.graph.lp",
		"cls/inst1.query.lp",
		"cls/inst2.graph.lp",
	)

	b := &Benchmark{Name: "bench"}
	b.AddSource(&Folder{Path: root, Group: true})
	require.NoError(t, b.Init())

	require.Len(t, b.Classes, 1)
	cls := b.Classes[0]
	require.Len(t, cls.Instances, 2)
	assert.Equal(t, "inst1", cls.Instances[0].Name)
	require.Len(t, cls.Instances[0].Members, 2)
	assert.Equal(t, "inst1.graph.lp", cls.Instances[0].Members[0].File)
	assert.Equal(t, "inst1.query.lp", cls.Instances[0].Members[1].File)
	assert.Equal(t, "inst2", cls.Instances[1].Name)
}

func TestFolderPopulateIgnore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"keep/a.lp",
		"skipme/b.lp",
	)

	folder := &Folder{Path: root}
	folder.AddIgnore("skipme")
	b := &Benchmark{Name: "bench"}
	b.AddSource(folder)
	require.NoError(t, b.Init())

	require.Len(t, b.Classes, 1)
	assert.Equal(t, "keep", b.Classes[0].Name)
}

func TestFolderPopulateMissingRoot(t *testing.T) {
	t.Parallel()

	b := &Benchmark{Name: "bench"}
	b.AddSource(&Folder{Path: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, b.Init())
}

func TestFilesPopulate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"sub/x.lp",
		"sub/y.lp",
		"z.lp",
	)

	b := &Benchmark{Name: "bench"}
	b.AddSource(&Files{Path: root, Adds: []FileAdd{
		{File: "sub/x.lp", Group: "pair", Cmdline: "-c k=1"},
		{File: "sub/y.lp", Group: "pair"},
		{File: "z.lp"},
	}})
	require.NoError(t, b.Init())

	require.Len(t, b.Classes, 2)
	assert.Equal(t, ".", b.Classes[0].Name)
	assert.Equal(t, "sub", b.Classes[1].Name)

	pair := b.Classes[1].Instances[0]
	assert.Equal(t, "pair", pair.Name)
	require.Len(t, pair.Members, 2)
	assert.Equal(t, "-c k=1", pair.Members[0].Cmdline)

	single := b.Classes[0].Instances[0]
	assert.Equal(t, "z", single.Name)
}

func TestFilesPopulateErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "a/x.lp", "b/y.lp")

	missing := &Benchmark{Name: "bench"}
	missing.AddSource(&Files{Path: root, Adds: []FileAdd{{File: "gone.lp"}}})
	assert.Error(t, missing.Init())

	split := &Benchmark{Name: "bench"}
	split.AddSource(&Files{Path: root, Adds: []FileAdd{
		{File: "a/x.lp", Group: "g"},
		{File: "b/y.lp", Group: "g"},
	}})
	assert.Error(t, split.Init())
}

func TestAddInstanceRejectsDuplicates(t *testing.T) {
	t.Parallel()

	b := &Benchmark{Name: "bench"}
	require.NoError(t, b.AddInstance("cls", &Instance{Name: "i1"}))
	require.NoError(t, b.AddInstance("cls", &Instance{Name: "i2"}))
	assert.Error(t, b.AddInstance("cls", &Instance{Name: "i1"}))
}

func TestInitIsCachedAndSorted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "b/x.lp", "a/y.lp")

	b := &Benchmark{Name: "bench"}
	b.AddSource(&Folder{Path: root})
	require.NoError(t, b.Init())
	require.NoError(t, b.Init(), "second call reuses the first result")

	assert.Equal(t, "a", b.Classes[0].Name)
	assert.Equal(t, 0, b.Classes[0].ID)
	assert.Equal(t, "b", b.Classes[1].Name)
	assert.Equal(t, 1, b.Classes[1].ID)
}
