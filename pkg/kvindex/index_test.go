package kvindex

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"Skipkv/pkg/skiplist"
	"Skipkv/pkg/snapshot"

	"gotest.tools/assert"
)

func newTestOptions(t *testing.T) *Options {
	opts := NewDefaultOptions()
	opts.MaxHeight = 6
	opts.StoreFile = filepath.Join(t.TempDir(), "store", "dumpFile")
	return opts
}

func newTestIndex(t *testing.T, opts *Options) *Index {
	db, err := New(opts)
	assert.NilError(t, err)
	t.Cleanup(db.Close)
	return db
}

func insertScenario(t *testing.T, db *Index) {
	for _, kv := range [][2]string{
		{"22", "aaaa"},
		{"22", "aaaa"},
		{"33", "bbbb"},
		{"33", "eeeee"},
		{"55", "eeeee"},
		{"66", "eeeee"},
		{"77", "eeeee"},
	} {
		_, err := db.Insert(kv[0], kv[1])
		assert.NilError(t, err)
	}
}

var scenarioValues = map[string]string{
	"22": "aaaa",
	"33": "eeeee",
	"55": "eeeee",
	"66": "eeeee",
	"77": "eeeee",
}

func TestInsertSearch(t *testing.T) {
	db := newTestIndex(t, newTestOptions(t))
	insertScenario(t, db)

	assert.Equal(t, db.Size(), 5)
	v, ok := db.Search("33")
	assert.Assert(t, ok)
	assert.Equal(t, v, "eeeee")
	_, ok = db.Search("44")
	assert.Assert(t, !ok)
}

func TestDelete(t *testing.T) {
	db := newTestIndex(t, newTestOptions(t))
	insertScenario(t, db)

	assert.Assert(t, db.Delete("33"))
	assert.Equal(t, db.Size(), 4)
	_, ok := db.Search("33")
	assert.Assert(t, !ok)

	assert.Assert(t, !db.Delete("99"))
	assert.Equal(t, db.Size(), 4)
}

func TestExportImport(t *testing.T) {
	opts := newTestOptions(t)
	db := newTestIndex(t, opts)
	insertScenario(t, db)

	exported, err := db.Export()
	assert.NilError(t, err)
	assert.Equal(t, exported.Records, 5)

	raw, err := os.ReadFile(opts.StoreFile)
	assert.NilError(t, err)
	assert.Equal(t, string(raw), "22:aaaa\n33:eeeee\n55:eeeee\n66:eeeee\n77:eeeee\n")

	fresh := newTestIndex(t, opts)
	imported, err := fresh.Import()
	assert.NilError(t, err)
	assert.Equal(t, imported.Records, 5)
	assert.Equal(t, imported.Checksum, exported.Checksum)
	assert.Equal(t, fresh.Size(), 5)
	for k, want := range scenarioValues {
		v, ok := fresh.Search(k)
		assert.Assert(t, ok, k)
		assert.Equal(t, v, want)
	}
}

func TestImportSkipsInvalidLines(t *testing.T) {
	opts := newTestOptions(t)
	assert.NilError(t, os.MkdirAll(filepath.Dir(opts.StoreFile), 0755))
	content := "a:1\n\nnodelim\n:nokey\nnovalue:\nb:x:y\na:2\n"
	assert.NilError(t, os.WriteFile(opts.StoreFile, []byte(content), 0644))

	db := newTestIndex(t, opts)
	stats, err := db.Import()
	assert.NilError(t, err)
	assert.Equal(t, stats.Records, 3)
	assert.Equal(t, stats.Skipped, 4)
	assert.Equal(t, db.Size(), 2)

	// later lines win, in file order
	v, _ := db.Search("a")
	assert.Equal(t, v, "2")
	v, _ = db.Search("b")
	assert.Equal(t, v, "x:y")
}

func TestImportMissingFile(t *testing.T) {
	db := newTestIndex(t, newTestOptions(t))
	_, err := db.Import()
	assert.Assert(t, errors.Is(err, snapshot.ErrSnapshotIO), err)
	assert.Equal(t, db.Size(), 0)
}

func TestImportArenaFull(t *testing.T) {
	opts := newTestOptions(t)
	db := newTestIndex(t, opts)
	insertScenario(t, db)
	_, err := db.Export()
	assert.NilError(t, err)

	small := *opts
	small.MaxNodes = 3
	limited := newTestIndex(t, &small)
	_, err = limited.Import()
	assert.Assert(t, errors.Is(err, skiplist.ErrArenaFull), err)
	assert.Equal(t, limited.Size(), 3)
}

func TestCustomDelimiter(t *testing.T) {
	opts := newTestOptions(t)
	opts.Delimiter = "="
	db := newTestIndex(t, opts)

	_, err := db.Insert("url", "http://host:80/?q=1")
	assert.NilError(t, err)
	_, err = db.Insert("a=b", "v")
	assert.Assert(t, errors.Is(err, ErrInvalidKey))

	// ':' is only special for the default delimiter
	_, err = db.Insert("k:1", "v")
	assert.NilError(t, err)

	_, err = db.Export()
	assert.NilError(t, err)
	fresh := newTestIndex(t, opts)
	_, err = fresh.Import()
	assert.NilError(t, err)
	v, ok := fresh.Search("url")
	assert.Assert(t, ok)
	assert.Equal(t, v, "http://host:80/?q=1")
}

func TestInsertValidation(t *testing.T) {
	db := newTestIndex(t, newTestOptions(t))
	for _, key := range []string{"", "a:b", "line\nbreak", "cr\r"} {
		_, err := db.Insert(key, "v")
		assert.Assert(t, errors.Is(err, ErrInvalidKey), "%q", key)
	}
	for _, value := range []string{"", "two\nlines"} {
		_, err := db.Insert("k", value)
		assert.Assert(t, errors.Is(err, ErrInvalidValue), "%q", value)
	}
	assert.Equal(t, db.Size(), 0)

	r, err := db.Insert("k", "v:with:delimiters")
	assert.NilError(t, err)
	assert.Equal(t, r, skiplist.Inserted)
}

func TestOptionsValidate(t *testing.T) {
	assert.Equal(t, len(NewDefaultOptions().Validate()), 0)

	bad := &Options{MaxHeight: 0, Delimiter: "::", MaxNodes: -1}
	errs := bad.Validate()
	assert.Equal(t, len(errs), 4, errs)

	_, err := New(bad)
	assert.Assert(t, errors.Is(err, ErrInvalidOptions))

	nl := NewDefaultOptions()
	nl.Delimiter = "\n"
	assert.Equal(t, len(nl.Validate()), 1)
}

func TestRoundTripRandom(t *testing.T) {
	opts := newTestOptions(t)
	opts.MaxHeight = 18
	db := newTestIndex(t, opts)

	r := rand.New(rand.NewSource(1))
	want := make(map[string]string)
	for i := 0; i < 1000; i++ {
		k := strconv.FormatInt(r.Int63(), 36)
		v := strconv.Itoa(r.Int()) + ":" + strconv.Itoa(i)
		want[k] = v
		_, err := db.Insert(k, v)
		assert.NilError(t, err)
	}
	_, err := db.Export()
	assert.NilError(t, err)

	fresh := newTestIndex(t, opts)
	_, err = fresh.Import()
	assert.NilError(t, err)

	got := make(map[string]string)
	fresh.Range(func(k, v string) bool {
		got[k] = v
		return true
	})
	assert.DeepEqual(t, got, want)
}

func TestExportWhileWriting(t *testing.T) {
	opts := newTestOptions(t)
	db := newTestIndex(t, opts)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			_, _ = db.Insert(strconv.Itoa(i), "aa")
		}
	}()
	for i := 0; i < 5; i++ {
		_, err := db.Export()
		assert.NilError(t, err)
	}
	wg.Wait()

	_, err := db.Export()
	assert.NilError(t, err)
	fresh := newTestIndex(t, opts)
	stats, err := fresh.Import()
	assert.NilError(t, err)
	assert.Equal(t, stats.Records, 2000)
}
