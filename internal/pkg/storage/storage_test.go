package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLimited(t *testing.T) {
	t.Parallel()

	b, err := readLimited(strings.NewReader("abcd"), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), b)

	_, err = readLimited(strings.NewReader("abcde"), 4)
	require.ErrorIs(t, err, ErrObjectTooLarge)

	b, err = readLimited(strings.NewReader(""), 4)
	require.NoError(t, err)
	assert.Empty(t, b)
}
