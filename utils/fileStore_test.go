package utils

import (
	"bytes"
	"mime/multipart"
	"os"
	"strings"
	"testing"

	"futureminds/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["files"]
	require.Len(t, files, 1)
	return files[0]
}

func setupUploadDir(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{UploadDir: t.TempDir()}
}

func TestSaveSubmissionFile(t *testing.T) {
	setupUploadDir(t)

	header := makeFileHeader(t, "essay.pdf", "pdf-bytes")

	key, err := SaveSubmissionFile(header, 5, 9)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "submissions/5/9/"), "key %q lacks the student/submission prefix", key)
	assert.True(t, strings.HasSuffix(key, "_essay.pdf"), "key %q lost the original filename", key)

	path, err := ResolveFilePath(key)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(content))
}

func TestSaveSubmissionFileUniqueKeys(t *testing.T) {
	setupUploadDir(t)

	header := makeFileHeader(t, "essay.pdf", "same name twice")

	key1, err := SaveSubmissionFile(header, 1, 1)
	require.NoError(t, err)
	key2, err := SaveSubmissionFile(header, 1, 1)
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestSaveSubmissionFileSanitizesName(t *testing.T) {
	setupUploadDir(t)

	header := makeFileHeader(t, "../../etc/passwd", "nope")

	key, err := SaveSubmissionFile(header, 1, 2)
	require.NoError(t, err)
	assert.NotContains(t, key, "..")
	assert.True(t, strings.HasSuffix(key, "_passwd"))
}

func TestDeleteSubmissionFile(t *testing.T) {
	setupUploadDir(t)

	header := makeFileHeader(t, "a.txt", "bye")
	key, err := SaveSubmissionFile(header, 2, 3)
	require.NoError(t, err)

	require.NoError(t, DeleteSubmissionFile(key))

	path, err := ResolveFilePath(key)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is fine; the blob is already gone
	assert.NoError(t, DeleteSubmissionFile(key))
}

func TestResolveFilePathRejectsTraversal(t *testing.T) {
	setupUploadDir(t)

	for _, key := range []string{
		"",
		"../outside.txt",
		"submissions/1/1/../../../etc/passwd",
		"/etc/passwd",
	} {
		_, err := ResolveFilePath(key)
		assert.ErrorIs(t, err, ErrInvalidFileKey, "key %q should be rejected", key)
	}
}
