package stacktrace_test

import (
	"testing"

	"github.com/shandysiswandi/seedotp/internal/pkg/stacktrace"
	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	t.Parallel()

	stack := []byte(`goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/seedotp/internal/twofa/usecase.(*Usecase).DecryptSeed(...)
	/src/internal/twofa/usecase/seed_decrypt.go:42 +0x1a
net/http.HandlerFunc.ServeHTTP(...)
	/usr/local/go/src/net/http/server.go:2220 +0x29
github.com/shandysiswandi/seedotp/internal/pkg/router.(*Router).endpoint.func1(...)
	/src/internal/pkg/router/router.go:120
`)

	assert.Equal(t, []string{
		"internal/twofa/usecase/seed_decrypt.go:42",
		"internal/pkg/router/router.go:120",
	}, stacktrace.InternalPaths(stack))

	assert.Empty(t, stacktrace.InternalPaths([]byte("no frames here")))
}
