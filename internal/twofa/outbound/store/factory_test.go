package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shandysiswandi/seedotp/internal/twofa/outbound/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		driver  string
		opts    store.Options
		wantErr error
		want    any
	}{
		{name: "unknown driver", driver: "etcd", wantErr: store.ErrUnknownDriver},
		{name: "file without path", driver: store.DriverFile, wantErr: store.ErrMissingBackend},
		{name: "redis without client", driver: store.DriverRedis, wantErr: store.ErrMissingBackend},
		{name: "postgres without conn", driver: store.DriverPostgres, wantErr: store.ErrMissingBackend},
		{name: "object without bucket", driver: store.DriverObject, opts: store.Options{Object: newMemStorage()}, wantErr: store.ErrMissingBackend},
		{name: "file", driver: store.DriverFile, opts: store.Options{FilePath: filepath.Join(t.TempDir(), "seed.txt")}, want: &store.File{}},
		{name: "object", driver: store.DriverObject, opts: store.Options{Object: newMemStorage(), Bucket: "b", ObjectKey: "k"}, want: &store.Object{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := store.New(context.Background(), tt.driver, tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}
