package numio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	in := "5\n1\n\n  67 \n18446744073709551615\n"
	data, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 1, 67, 18446744073709551615}, data)
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line string
	}{
		{"not a number", "1\nabc\n", "line 2"},
		{"negative", "-4\n", "line 1"},
		{"overflow", "1\n2\n18446744073709551616\n", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []uint64{1, 22, 333}))
	assert.Equal(t, "1\n22\n333\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.txt")
	data := Generate(10_000, 42, 1_000_000)

	require.NoError(t, WriteFile(path, data))
	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// 임시 파일이 남지 않아야 함
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestGenerate(t *testing.T) {
	a := Generate(100, 7, 10)
	b := Generate(100, 7, 10)
	assert.Equal(t, a, b)
	for _, v := range a {
		assert.Less(t, v, uint64(10))
	}
	assert.Len(t, Generate(0, 1, 0), 0)
}
