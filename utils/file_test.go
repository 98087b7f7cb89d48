package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestReadTextFileNormalizesUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desc.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFline one\r\nline two\r\n"), 0644))

	got, err := ReadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", got)
}

func TestReadTextFileDecodesGB18030(t *testing.T) {
	encoded, err := simplifiedchinese.GB18030.NewEncoder().String("斗罗大陆")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "desc.txt")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0644))

	got, err := ReadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, "斗罗大陆", got)
}

func TestReadTextFileMissing(t *testing.T) {
	_, err := ReadTextFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
