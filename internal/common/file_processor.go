package common

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"resumatch/internal/errors"
)

var textExtensions = []string{".txt", ".md", ".markdown", ".text"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileProcessor reads resume and job description documents and writes
// formatted results.
type FileProcessor struct {
	logger   *errors.Logger
	maxBytes int64 // 0 means unlimited
}

// NewFileProcessor creates a file processor. Documents larger than maxBytes
// are rejected; maxBytes <= 0 disables the limit.
func NewFileProcessor(logger *errors.Logger, maxBytes int64) *FileProcessor {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &FileProcessor{logger: logger, maxBytes: maxBytes}
}

// ReadDocument reads a plain-text document. Line endings are normalised to
// "\n" and a leading byte order mark is dropped.
func (fp *FileProcessor) ReadDocument(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	var r io.Reader = file
	if fp.maxBytes > 0 {
		r = io.LimitReader(file, fp.maxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	if fp.maxBytes > 0 && int64(len(content)) > fp.maxBytes {
		return "", errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("File %s exceeds the %d byte limit", filename, fp.maxBytes), nil)
	}

	return normalizeDocument(filename, content)
}

func normalizeDocument(filename string, content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) || bytes.IndexByte(content, 0) >= 0 {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("File %s is not plain UTF-8 text", filename), nil)
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ReadDocuments checks each path and reads it, in argument order.
func (fp *FileProcessor) ReadDocuments(filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))

	for i, filename := range filenames {
		if err := checkInputPath(filename); err != nil {
			return nil, errors.NewValidationError("INVALID_INPUT_FILE",
				fmt.Sprintf("Invalid file %s", filename), err)
		}

		if !IsTextFile(filename) {
			fp.logger.Warn("Input does not have a text extension, reading it as plain text",
				"filename", filename)
		}

		content, err := fp.ReadDocument(filename)
		if err != nil {
			return nil, err
		}
		contents[i] = content
	}

	return contents, nil
}

// ValidateOutputFile rejects output paths that point at a directory.
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout
	}

	if info, err := os.Stat(filename); err == nil && info.IsDir() {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename),
			fmt.Errorf("path is a directory: %s", filename))
	}

	return nil
}

// IsTextFile reports whether the file has a plain-text extension.
func IsTextFile(filename string) bool {
	return slices.Contains(textExtensions, strings.ToLower(filepath.Ext(filename)))
}

func checkInputPath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	info, err := os.Stat(filename)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("file does not exist: %s", filename)
	case err != nil:
		return fmt.Errorf("cannot access file %s: %w", filename, err)
	case info.IsDir():
		return fmt.Errorf("path is a directory, not a file: %s", filename)
	}
	return nil
}
