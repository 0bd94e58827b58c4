package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSequenceToken(t *testing.T) {
	token := EncodeSequenceToken("ex-1|EXCHANGE:ex-1|fwd-a", 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	seq, err := DecodeSequenceToken(token, "ex-1|EXCHANGE:ex-1|fwd-a")
	require.NoError(t, err)
	assert.Equal(t, int64(42), seq)

	_, err = DecodeSequenceToken(token, "ex-2|EXCHANGE:ex-2|fwd-a")
	assert.Error(t, err, "Token of another listing should be rejected")
}

func TestDecodeSequenceToken_Invalid(t *testing.T) {
	_, err := DecodeSequenceToken("%%%", "scope")
	assert.Error(t, err)

	_, err = DecodeSequenceToken(EncodeSequenceToken("scope", 1)[:2], "scope")
	assert.Error(t, err)
}

func TestPageAfter(t *testing.T) {
	items := []int64{3, 5, 8, 13, 21}
	id := func(v int64) int64 { return v }

	page, more := PageAfter(items, id, 0, 2)
	assert.Equal(t, []int64{3, 5}, page)
	assert.True(t, more)

	page, more = PageAfter(items, id, 5, 2)
	assert.Equal(t, []int64{8, 13}, page)
	assert.True(t, more)

	page, more = PageAfter(items, id, 13, 2)
	assert.Equal(t, []int64{21}, page)
	assert.False(t, more)

	page, more = PageAfter(items, id, 21, 2)
	assert.Empty(t, page)
	assert.False(t, more)

	page, more = PageAfter(items, id, 0, 0)
	assert.Len(t, page, 5)
	assert.False(t, more)
}
