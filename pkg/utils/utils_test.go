package utils

import (
	"context"
	"testing"

	"meridian/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "hello", TruncateRunes("hello", 10))
	assert.Equal(t, "hel", TruncateRunes("hello", 3))
	// Multi-byte characters are not split.
	assert.Equal(t, "héll", TruncateRunes("héllo", 4))
	assert.Equal(t, "", TruncateRunes("", 5))
}

func TestCleanToValidUTF8(t *testing.T) {
	assert.Equal(t, "hello", CleanToValidUTF8("hello"))
	assert.Equal(t, "ab", CleanToValidUTF8("a\x00b"))
	assert.Equal(t, "ab", CleanToValidUTF8("a\xffb"))
}

func TestToPointer(t *testing.T) {
	p := ToPointer("value")
	assert.Equal(t, "value", *p)

	n := ToPointer(42)
	assert.Equal(t, 42, *n)
}

func TestShouldContinue(t *testing.T) {
	assert.True(t, ShouldContinue(context.Background(), logger.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, ShouldContinue(ctx, logger.NewNop()))
}
