package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"zordinals/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(os.Stderr)
	st, err := store.New(t.TempDir(), log)
	require.NoError(t, err)
	return st
}

func TestWriteArtifactAndFindFile(t *testing.T) {
	st := newTestStore(t)

	id := "abc123i0"
	path, err := st.WriteArtifact(id, "image/png", []byte("fake png bytes"))
	require.NoError(t, err)
	require.FileExists(t, path)
	require.Equal(t, "png", filepath.Ext(path)[1:])

	found, ok := st.FindFile(id, "abc123")
	require.True(t, ok)
	require.Equal(t, path, found)
}

func TestFindFileTriesIDThenBaseThenI0(t *testing.T) {
	st := newTestStore(t)

	_, err := st.WriteArtifact("deadbeefi0", "text/plain", []byte("hi"))
	require.NoError(t, err)

	// Looking up by bare txid should still resolve via the "<base>i0" try.
	_, ok := st.FindFile("deadbeef", "deadbeef")
	require.True(t, ok)
}

func TestFindFileIsCaseInsensitive(t *testing.T) {
	st := newTestStore(t)
	_, err := st.WriteArtifact("ABCDEFi0", "text/plain", []byte("hi"))
	require.NoError(t, err)

	_, ok := st.FindFile("abcdefi0", "abcdef")
	require.True(t, ok)
}

func TestFindFileMissReturnsFalse(t *testing.T) {
	st := newTestStore(t)
	_, ok := st.FindFile("nosuchid", "nosuchid")
	require.False(t, ok)
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	st := newTestStore(t)

	err := st.Upsert(store.Record{InscriptionID: "id1", MimeType: "text/plain"})
	require.NoError(t, err)

	rec1, ok, err := st.Lookup("id1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, rec1.CreatedAt)

	err = st.Upsert(store.Record{InscriptionID: "id1", MimeType: "text/html"})
	require.NoError(t, err)

	rec2, ok, err := st.Lookup("id1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rec1.CreatedAt, rec2.CreatedAt)
	require.Equal(t, "text/html", rec2.MimeType)
}

func TestNewRecordDerivesFilenameAndExt(t *testing.T) {
	st := newTestStore(t)

	rec := st.NewRecord("abc123i0", "abc123", "image/png", 42, true)
	require.Equal(t, "abc123i0", rec.InscriptionID)
	require.Equal(t, "abc123", rec.Txid)
	require.Equal(t, "abc123i0.png", rec.Filename)
	require.Equal(t, "png", rec.Ext)
	require.Equal(t, 42, rec.Size)
	require.True(t, rec.Complete)
}

func TestUpsertRoundTripsFullRecord(t *testing.T) {
	st := newTestStore(t)

	rec := st.NewRecord("deadbeefi0", "deadbeef", "text/plain", 5, false)
	require.NoError(t, st.Upsert(rec))

	got, ok, err := st.Lookup("deadbeefi0")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "deadbeef", got.Txid)
	require.Equal(t, "deadbeefi0.txt", got.Filename)
	require.Equal(t, "txt", got.Ext)
	require.Equal(t, 5, got.Size)
	require.False(t, got.Complete, "partial reconstruction must be marked incomplete")
}

func TestLookupMissingID(t *testing.T) {
	st := newTestStore(t)
	_, ok, err := st.Lookup("nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpsertWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	log := logrus.New()
	st, err := store.New(dir, log)
	require.NoError(t, err)

	require.NoError(t, st.Upsert(store.Record{InscriptionID: "id1", MimeType: "text/plain"}))

	masterPath := filepath.Join(dir, "master", "master.json")
	require.FileExists(t, masterPath)
	_, err = os.Stat(masterPath + ".tmp")
	require.True(t, os.IsNotExist(err), "temp file should not survive a successful write")
}

func TestLoadIndexRecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	log := logrus.New()
	log.SetOutput(os.Stderr)
	masterDir := filepath.Join(dir, "master")
	require.NoError(t, os.MkdirAll(masterDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(masterDir, "master.json"), []byte("not json"), 0o644))

	st, err := store.New(dir, log)
	require.NoError(t, err)

	_, ok, err := st.Lookup("anything")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReadArtifactAndMimeFromPath(t *testing.T) {
	st := newTestStore(t)
	path, err := st.WriteArtifact("id1i0", "application/json", []byte(`{"a":1}`))
	require.NoError(t, err)

	data, err := store.ReadArtifact(path)
	require.NoError(t, err)
	require.Equal(t, []byte(`{"a":1}`), data)
	require.Equal(t, "application/json", store.MimeFromPath(path))
}
