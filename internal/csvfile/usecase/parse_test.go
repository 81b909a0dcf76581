package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVHeaders(t *testing.T) {
	t.Parallel()

	headers, rows, err := parseCSV([]byte("id,name\r\n1,\"a, b\"\r\n2,c\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, headers)
	require.Len(t, rows, 2)

	value, ok := rows[0].Get("name")
	require.True(t, ok)
	assert.Equal(t, "a, b", *value)
}

func TestParseCSVLazyQuotes(t *testing.T) {
	t.Parallel()

	_, rows, err := parseCSV([]byte("a,b\n5\" tall,x\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	value, _ := rows[0].Get("a")
	assert.Equal(t, `5" tall`, *value)
}

func TestFirstLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a,b", string(firstLine([]byte("a,b\r\nc"))))
	assert.Equal(t, "a,b", string(firstLine([]byte("a,b"))))
	assert.Empty(t, firstLine([]byte("\n")))
}
