package bbolt

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/cefr/internal/ports"
)

// =============================================================================
// Lexicon snapshots: save/load, isolation, crash recovery, lock timeouts.
// Snapshots are the parsed source rows; order must survive a round trip
// because homograph tie-breaks depend on it.
// =============================================================================

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestRows creates a small lexicon with homographs and a phrase.
func makeTestRows() []ports.Row {
	return []ports.Row{
		{Lemma: "book", POS: ports.POSNoun, Level: ports.LevelA1},
		{Lemma: "book", POS: ports.POSVerb, Level: ports.LevelA2},
		{Lemma: "freedom", POS: ports.POSNoun, Level: ports.LevelB1, Abstract: true},
		{Lemma: "nevertheless", POS: ports.POSAdv, Level: ports.LevelC1},
		{Lemma: "look after", POS: ports.POSVerb, Level: ports.LevelA2},
		{Lemma: "Paris", POS: ports.POSNoun, Level: ports.LevelUnknown},
	}
}

func TestStore_SaveLoadLexicon_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	rows := makeTestRows()

	require.NoError(t, store.SaveLexicon("oxford", rows))

	loaded, err := store.LoadLexicon("oxford")
	require.NoError(t, err)
	assert.Equal(t, rows, loaded, "order and fields preserved")
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	rows, err := store.LoadLexicon("nope")
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestStore_SaveEmptyName(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.SaveLexicon("", makeTestRows()))
}

func TestStore_SaveReplaces(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveLexicon("main", makeTestRows()))
	require.NoError(t, store.SaveLexicon("main", []ports.Row{{Lemma: "cat", POS: ports.POSNoun, Level: ports.LevelA1}}))

	loaded, err := store.LoadLexicon("main")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "cat", loaded[0].Lemma)
}

func TestStore_SaveEmptyRows(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveLexicon("empty", nil))
	loaded, err := store.LoadLexicon("empty")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_ListLexicons(t *testing.T) {
	store, _ := newTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	infos, err := store.ListLexicons()
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, store.SaveLexicon("zeta", makeTestRows()))
	require.NoError(t, store.SaveLexicon("alpha", makeTestRows()[:2]))

	infos, err = store.ListLexicons()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, 2, infos[0].Rows)
	assert.Equal(t, "zeta", infos[1].Name)
	assert.Equal(t, 6, infos[1].Rows)
	assert.True(t, fixed.Equal(infos[1].SavedAt))
}

func TestStore_DeleteLexicon(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveLexicon("a", makeTestRows()))
	require.NoError(t, store.SaveLexicon("b", makeTestRows()))

	require.NoError(t, store.DeleteLexicon("a"))

	rows, err := store.LoadLexicon("a")
	require.NoError(t, err)
	assert.Nil(t, rows)

	rows, err = store.LoadLexicon("b")
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	// Delete nonexistent: idempotent
	assert.NoError(t, store.DeleteLexicon("c"))
}

func TestStore_DeleteOnFreshStore(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.DeleteLexicon("anything"))
}

func TestStore_CrashRecovery(t *testing.T) {
	// Write, close, reopen: the last committed transaction is intact.
	dir := t.TempDir()
	path := filepath.Join(dir, "crash.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveLexicon("main", makeTestRows()))
	require.NoError(t, store.Close())

	// Verify file exists on disk
	_, err = os.Stat(path)
	require.NoError(t, err)

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.LoadLexicon("main")
	require.NoError(t, err)
	assert.Equal(t, makeTestRows(), loaded)
}

func TestStore_ConcurrentReads(t *testing.T) {
	// bbolt supports concurrent readers, single writer.
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveLexicon("main", makeTestRows()))

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := store.LoadLexicon("main")
			if err != nil {
				errs <- err
				return
			}
			if len(rows) != 6 {
				errs <- fmt.Errorf("expected 6 rows, got %d", len(rows))
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent read error: %v", err)
	}
}

func TestStore_LargeLexicon_Performance(t *testing.T) {
	store, _ := newTestStore(t)

	rows := make([]ports.Row, 50000)
	for i := range rows {
		rows[i] = ports.Row{
			Lemma: fmt.Sprintf("word%05d", i),
			POS:   ports.POSNoun,
			Level: ports.Levels[i%len(ports.Levels)],
		}
	}

	start := time.Now()
	require.NoError(t, store.SaveLexicon("big", rows))
	saveTime := time.Since(start)

	start = time.Now()
	loaded, err := store.LoadLexicon("big")
	loadTime := time.Since(start)
	require.NoError(t, err)

	assert.Len(t, loaded, len(rows))
	assert.Less(t, saveTime, 2*time.Second, "save took %v", saveTime) // generous for CI
	assert.Less(t, loadTime, 2*time.Second, "load took %v", loadTime)

	t.Logf("Performance: save=%v load=%v rows=%d", saveTime, loadTime, len(rows))
}

// =============================================================================
// Row encoding
// =============================================================================

func TestDecodeRows_Corrupt(t *testing.T) {
	good, err := encodeRows(makeTestRows())
	require.NoError(t, err)

	_, err = decodeRows(good[:3])
	assert.Error(t, err, "shorter than header")

	_, err = decodeRows(good[:len(good)-1])
	assert.Error(t, err, "truncated last row")

	_, err = decodeRows(append(append([]byte{}, good...), 0))
	assert.Error(t, err, "trailing garbage")

	huge := make([]byte, 8)
	binary.LittleEndian.PutUint32(huge, 1<<30)
	_, err = decodeRows(huge)
	assert.Error(t, err, "count larger than blob")
}

func TestEncodeRows_LemmaTooLong(t *testing.T) {
	long := make([]byte, 70000)
	for i := range long {
		long[i] = 'a'
	}
	_, err := encodeRows([]ports.Row{{Lemma: string(long)}})
	assert.Error(t, err)
}

// =============================================================================
// Lock contention tests: verify the 1s timeout prevents hangs
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	// When another process/goroutine holds the bbolt exclusive lock,
	// a second open should timeout in ~1 second, not hang forever.
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2, "store should be nil on timeout")
	assert.Contains(t, err.Error(), "timeout", "error should mention timeout")
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond, "should wait ~1s for the configured timeout")
}

func TestStore_OpenAfterClose_Succeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "released.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.SaveLexicon("main", makeTestRows()))
	store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.NoError(t, err, "open after close should succeed")
	require.NotNil(t, store2)
	defer store2.Close()
	assert.Less(t, elapsed, 500*time.Millisecond, "should open instantly after lock released")

	rows, err := store2.LoadLexicon("main")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}
