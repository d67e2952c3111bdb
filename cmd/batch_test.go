package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadBatchCSV(t *testing.T) {
	path := writeTempCSV(t, "agent,transcript_file,operation\nAna,/tmp/a.txt,Suporte N1\nBia,/tmp/b.txt,\n")

	rows, err := readBatchCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, batchRow{Agent: "Ana", TranscriptPath: "/tmp/a.txt", Operation: "Suporte N1"}, rows[0])
	assert.Equal(t, batchRow{Agent: "Bia", TranscriptPath: "/tmp/b.txt"}, rows[1])
}

func TestReadBatchCSV_HeaderIsCaseInsensitive(t *testing.T) {
	path := writeTempCSV(t, "Agent,Transcript_File\nAna,/tmp/a.txt\n")

	rows, err := readBatchCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].Agent)
}

func TestReadBatchCSV_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "agent,file\nAna,/tmp/a.txt\n")

	_, err := readBatchCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcript_file")
}
