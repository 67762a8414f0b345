package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExec_Run(t *testing.T) {
	if LookPath("sh") != nil {
		t.Skip("sh not available")
	}

	out, errb, err := Exec{}.Run(context.Background(), "sh", "-c", "printf hello; printf oops >&2")

	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
	assert.Equal(t, "oops", string(errb))
}

func TestExec_RunFailure(t *testing.T) {
	if LookPath("sh") != nil {
		t.Skip("sh not available")
	}

	_, errb, err := Exec{}.Run(context.Background(), "sh", "-c", "echo bad input >&2; exit 3")

	require.Error(t, err)
	assert.Equal(t, "bad input\n", string(errb))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...(truncated)", truncate("abcd", 2))
}
