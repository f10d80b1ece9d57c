package store_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/storage"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
	"github.com/shandysiswandi/seedotp/internal/twofa/outbound/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Put(_ context.Context, bucket, key string, body []byte, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = bytes.Clone(body)
	return nil
}

func (m *memStorage) Get(_ context.Context, bucket, key string, limit int64) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	if int64(len(b)) > limit {
		return nil, storage.ErrObjectTooLarge
	}
	return bytes.Clone(b), nil
}

func (m *memStorage) Stat(_ context.Context, bucket, key string) (storage.ObjectInfo, error) {
	if m.err != nil {
		return storage.ObjectInfo{}, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[bucket+"/"+key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Size: int64(len(b))}, nil
}

func (m *memStorage) Close() error { return nil }

func TestObject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := newMemStorage()
	s := store.NewObject(mem, "secrets", "seed.txt", instrument.NewNoop())

	_, err := s.Read(ctx)
	require.ErrorIs(t, err, goerror.ErrNotFound)

	ok, err := s.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, "abcdef"))

	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.HexSeed("abcdef"), got)

	ok, err = s.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestObject_Oversized(t *testing.T) {
	t.Parallel()

	mem := newMemStorage()
	mem.objects["secrets/seed.txt"] = bytes.Repeat([]byte("ab"), 4096)
	s := store.NewObject(mem, "secrets", "seed.txt", instrument.NewNoop())

	_, err := s.Read(context.Background())
	require.ErrorIs(t, err, storage.ErrObjectTooLarge)
}

func TestObject_BackendError(t *testing.T) {
	t.Parallel()

	mem := newMemStorage()
	mem.err = errors.New("connection reset")
	s := store.NewObject(mem, "secrets", "seed.txt", instrument.NewNoop())

	_, err := s.Read(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, goerror.ErrNotFound)

	_, err = s.Exists(context.Background())
	require.Error(t, err)
}
