package storage_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greenfield-poultry/farmshop/internal/storage"
)

func backends(t *testing.T) map[string]storage.Store {
	t.Helper()
	ctx := context.Background()

	file, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	bolt, err := storage.OpenBolt(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	lite, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "carts.sqlite"))
	require.NoError(t, err)

	stores := map[string]storage.Store{
		"memory": storage.NewMemStore(),
		"file":   file,
		"bolt":   bolt,
		"sqlite": lite,
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		rs, err := storage.OpenRedis(ctx, url, "farmshop-test:"+t.Name()+":")
		require.NoError(t, err)
		stores["redis"] = rs
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "poultryCart:nobody")
			require.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := "poultryCart:4f0c2d"
			require.NoError(t, s.Set(ctx, key, []byte(`[{"id":"eggs-large","quantity":2}]`)))
			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			require.JSONEq(t, `[{"id":"eggs-large","quantity":2}]`, string(got))

			require.NoError(t, s.Set(ctx, key, []byte(`[]`)))
			got, err = s.Get(ctx, key)
			require.NoError(t, err)
			require.Equal(t, "[]", string(got))
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "poultryCart:a", []byte("a")))
			require.NoError(t, s.Set(ctx, "poultryCart:b", []byte("b")))
			a, err := s.Get(ctx, "poultryCart:a")
			require.NoError(t, err)
			b, err := s.Get(ctx, "poultryCart:b")
			require.NoError(t, err)
			require.Equal(t, "a", string(a))
			require.Equal(t, "b", string(b))
		})
	}
}

func TestMemStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemStore()
	buf := []byte("original")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "original", string(got))
	got[0] = 'Y'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "original", string(again))
}

func TestMemStore_FailWrites(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemStore()
	boom := errors.New("disk full")
	s.FailWrites(boom)
	require.ErrorIs(t, s.Set(ctx, "k", []byte("v")), boom)
	require.Equal(t, 0, s.Writes())

	s.FailWrites(nil)
	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.Equal(t, 1, s.Writes())
}

func TestMemStore_FailReads(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemStore()
	require.NoError(t, s.Set(ctx, "k", []byte("v")))

	boom := errors.New("connection reset")
	s.FailReads(boom)
	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, boom)

	s.FailReads(nil)
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(got))
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "poultryCart:x", []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "poultryCart%3Ax.json", entries[0].Name())
}

func TestFileStore_Backup(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "poultryCart:a", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "poultryCart:b", []byte(`[{"id":"eggs-medium","quantity":1}]`)))

	var buf bytes.Buffer
	require.NoError(t, s.Backup(ctx, &buf))

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	names := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		names[hdr.Name] = string(body)
	}
	require.Equal(t, map[string]string{
		"poultryCart%3Aa.json": `[]`,
		"poultryCart%3Ab.json": `[{"id":"eggs-medium","quantity":1}]`,
	}, names)
}

func TestBoltStore_BackupReopens(t *testing.T) {
	ctx := context.Background()
	s, err := storage.OpenBolt(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Set(ctx, "poultryCart:a", []byte(`[1]`)))

	snapshot := filepath.Join(t.TempDir(), "snapshot.db")
	f, err := os.Create(snapshot)
	require.NoError(t, err)
	require.NoError(t, s.Backup(ctx, f))
	require.NoError(t, f.Close())

	restored, err := storage.OpenBolt(snapshot)
	require.NoError(t, err)
	defer restored.Close()
	got, err := restored.Get(ctx, "poultryCart:a")
	require.NoError(t, err)
	require.Equal(t, "[1]", string(got))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "carts.sqlite")
	s, err := storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "poultryCart:a", []byte(`[2]`)))
	require.NoError(t, s.Close())

	s, err = storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "poultryCart:a")
	require.NoError(t, err)
	require.Equal(t, "[2]", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		backend string
		want    any
	}{
		{"", &storage.FileStore{}},
		{storage.BackendMemory, &storage.MemStore{}},
		{storage.BackendFile, &storage.FileStore{}},
		{storage.BackendBolt, &storage.BoltStore{}},
		{storage.BackendSQLite, &storage.SQLiteStore{}},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := storage.Open(ctx, storage.Options{Backend: tt.backend, Dir: dir})
			require.NoError(t, err)
			defer s.Close()
			require.IsType(t, tt.want, s)
		})
	}

	_, err := storage.Open(ctx, storage.Options{Backend: "floppy"})
	require.Error(t, err)
	_, err = storage.Open(ctx, storage.Options{Backend: storage.BackendRedis})
	require.Error(t, err)
}
