package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"futureminds/config"

	"github.com/google/uuid"
)

var ErrInvalidFileKey = errors.New("invalid file key")

// SaveSubmissionFile stores an uploaded attachment under a key namespaced by
// student and submission. The key carries a millisecond timestamp plus a
// short random suffix, so two uploads in the same millisecond cannot collide.
func SaveSubmissionFile(file *multipart.FileHeader, studentID, submissionID uint) (string, error) {
	// Open the uploaded file
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := sanitizeFilename(file.Filename)
	key := fmt.Sprintf("submissions/%d/%d/%d_%s_%s",
		studentID, submissionID, time.Now().UnixMilli(), uuid.NewString()[:8], name)

	destPath := filepath.Join(config.AppConfig.UploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", err
	}

	// Create destination file
	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	// Copy the file content
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return key, nil
}

// DeleteSubmissionFile removes the blob for a key. A missing blob counts as
// deleted so dangling references can still be cleaned up.
func DeleteSubmissionFile(key string) error {
	path, err := ResolveFilePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ResolveFilePath maps a storage key to a path inside the upload dir,
// rejecting keys that would escape it.
func ResolveFilePath(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", ErrInvalidFileKey
	}
	root, err := filepath.Abs(config.AppConfig.UploadDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, filepath.FromSlash(key))
	if !strings.HasPrefix(path, root+string(os.PathSeparator)) {
		return "", ErrInvalidFileKey
	}
	return path, nil
}

// sanitizeFilename keeps only the base name of the client-supplied filename
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.FromSlash(name))
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "" || name == "." {
		name = "file"
	}
	return name
}
