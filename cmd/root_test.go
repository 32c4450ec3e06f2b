package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsort/kvdb"
	"parsort/numio"
	psort "parsort/sort"
)

func TestParseWorkers(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 1},
		{"4", 4},
		{" 8 ", 8},
		{"0", 1},
		{"-2", 1},
		{"many", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseWorkers(tt.in), "%q", tt.in)
	}
}

func TestResolveStorePath(t *testing.T) {
	assert.Equal(t, "./parsort-pebble", resolveStorePath("Pebble", ""))
	assert.Equal(t, "/tmp/x", resolveStorePath("bbolt", "/tmp/x"))
}

func TestRunSortFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "output.txt")
	require.NoError(t, numio.WriteFile(input, []uint64{5, 1, 67, 2345, 875, 235}))

	for _, strategy := range []string{"tree", "fold"} {
		res, err := runSort(sortOptions{
			Workers:  3,
			Strategy: strategy,
			Input:    input,
			Output:   output,
			Verify:   true,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Chunks)

		got, err := numio.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 5, 67, 235, 875, 2345}, got)
	}
}

func TestRunSortStore(t *testing.T) {
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "kv")

	s, err := kvdb.Open(kvdb.BackendPebble, storeDir)
	require.NoError(t, err)
	require.NoError(t, s.Save("in", []uint64{3, 1, 2}))
	require.NoError(t, s.Close())

	_, err = runSort(sortOptions{
		Workers:   8,
		Store:     kvdb.BackendPebble,
		StorePath: storeDir,
		Dataset:   "in",
		SaveAs:    "out",
	})
	require.NoError(t, err)

	s, err = kvdb.Open(kvdb.BackendPebble, storeDir)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load("out")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, got)
}

func TestRunSortErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := runSort(sortOptions{Workers: 0, Input: filepath.Join(dir, "x")})
	assert.Equal(t, psort.ErrInvalidWorkers, errors.Cause(err))

	_, err = runSort(sortOptions{Workers: 1, Strategy: "bogo"})
	assert.Equal(t, psort.ErrUnknownStrategy, errors.Cause(err))

	_, err = runSort(sortOptions{Workers: 1, Dataset: "in"})
	assert.Error(t, err)

	_, err = runSort(sortOptions{Workers: 1, Input: filepath.Join(dir, "missing.txt")})
	assert.Error(t, err)

	_, err = runSort(sortOptions{
		Workers:   1,
		Store:     kvdb.BackendBbolt,
		StorePath: filepath.Join(dir, "db"),
		Dataset:   "nothing",
	})
	assert.Equal(t, kvdb.ErrNotFound, errors.Cause(err))
}

func TestRunSortEmptyInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "output.txt")
	require.NoError(t, numio.WriteFile(input, nil))

	res, err := runSort(sortOptions{Workers: 4, Input: input, Output: output, Verify: true})
	require.NoError(t, err)
	assert.Empty(t, res.Sorted)

	got, err := numio.ReadFile(output)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRootCommandPositionalArgs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "numbers.txt")
	require.NoError(t, numio.WriteFile(input, []uint64{9, 3, 7, 1}))

	var logs bytes.Buffer
	jww.SetLogOutput(&logs)
	defer jww.SetLogOutput(io.Discard)

	tests := []struct {
		name        string
		args        []string
		output      string
		viperInput  string
		wantWorkers string
	}{
		{
			name:        "unparseable threads falls back to one worker",
			args:        []string{"x", input},
			output:      filepath.Join(dir, "out1.txt"),
			wantWorkers: "with 1 workers",
		},
		{
			name:        "missing file argument uses the configured input",
			args:        []string{"3"},
			output:      filepath.Join(dir, "out2.txt"),
			viperInput:  input,
			wantWorkers: "with 3 workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			if tt.viperInput != "" {
				viper.Set("input", tt.viperInput)
				defer viper.Set("input", defaultInput)
			}

			rootCmd.SetArgs(append(tt.args, "-o", tt.output))
			require.NoError(t, rootCmd.Execute())

			assert.Contains(t, logs.String(), tt.wantWorkers)

			got, err := numio.ReadFile(tt.output)
			require.NoError(t, err)
			assert.Equal(t, []uint64{1, 3, 7, 9}, got)
		})
	}
}
