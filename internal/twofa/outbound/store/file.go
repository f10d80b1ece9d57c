package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

const (
	seedFileMode fs.FileMode = 0o600
	seedDirMode  fs.FileMode = 0o700
)

// File keeps the seed in a single file. Writes go to a temp file in the same
// directory that is synced and renamed over the target, so readers see either
// the old seed or the new one.
type File struct {
	path string
	ins  instrument.Instrumentation
}

func NewFile(path string, ins instrument.Instrumentation) *File {
	return &File{path: path, ins: ins}
}

func (f *File) Write(ctx context.Context, seed entity.HexSeed) (err error) {
	ctx, span := startSpan(ctx, f.ins, "File.Write")
	defer func() { endSpan(span, err) }()

	if err = ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err = os.MkdirAll(dir, seedDirMode); err != nil {
		return fmt.Errorf("create seed dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp seed file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = tmp.Chmod(seedFileMode); err != nil {
		return fmt.Errorf("chmod temp seed file: %w", err)
	}

	if _, err = io.WriteString(tmp, string(seed)); err != nil {
		return fmt.Errorf("write temp seed file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp seed file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp seed file: %w", err)
	}

	if err = os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace seed file: %w", err)
	}

	return nil
}

func (f *File) Read(ctx context.Context) (_ entity.HexSeed, err error) {
	ctx, span := startSpan(ctx, f.ins, "File.Read")
	defer func() { endSpan(span, err) }()

	if err = ctx.Err(); err != nil {
		return "", err
	}

	fh, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", goerror.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()

	raw, err := io.ReadAll(io.LimitReader(fh, maxSeedBytes))
	if err != nil {
		return "", fmt.Errorf("read seed file: %w", err)
	}

	return parseStored(string(raw))
}

func (f *File) Exists(ctx context.Context) (_ bool, err error) {
	ctx, span := startSpan(ctx, f.ins, "File.Exists")
	defer func() { endSpan(span, err) }()

	if err = ctx.Err(); err != nil {
		return false, err
	}

	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat seed file: %w", err)
	}

	return info.Mode().IsRegular() && info.Size() > 0, nil
}
