package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	content := strings.Join([]string{
		"Java is a programming language",
		"",
		"Python is great for data science",
		"I love java and python",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_PrintsRankedLines(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run([]string{"-corpus", writeCorpus(t), "-q", "love java", "-lang", "en", "-limit", "2"}, &out, &errOut)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	fields := strings.Split(lines[0], "\t")
	require.Len(t, fields, 3)
	assert.Equal(t, "2", fields[0])
	assert.Equal(t, "I love java and python", fields[2])
	assert.True(t, strings.HasPrefix(lines[1], "0\t"))
}

func TestRun_AllDocumentsWithoutLimit(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-corpus", writeCorpus(t), "-q", "python"}, &out, &bytes.Buffer{}))
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 3)
}

func TestRun_Errors(t *testing.T) {
	path := writeCorpus(t)
	cases := map[string][]string{
		"missing query":    {"-corpus", path},
		"missing corpus":   {"-q", "java"},
		"bad language":     {"-corpus", path, "-q", "java", "-lang", "xx"},
		"bad k1":           {"-corpus", path, "-q", "java", "-k1", "0"},
		"stopword query":   {"-corpus", path, "-q", "the and", "-lang", "en"},
		"unreadable input": {"-corpus", filepath.Join(t.TempDir(), "nope.txt"), "-q", "java"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, run(args, &bytes.Buffer{}, &bytes.Buffer{}))
		})
	}
}
