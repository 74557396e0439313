// Package loader reads inbox files into documents.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
)

// ErrUnsupported is returned for files no loader handles.
var ErrUnsupported = errors.New("unsupported file type")

// DefaultMaxSize caps how much of a file is read.
const DefaultMaxSize = 1 << 20

// TextLoader loads plain text transcripts (.txt, .md, .log).
type TextLoader struct {
	maxSize int64
}

// NewTextLoader creates a new text document loader.
func NewTextLoader() *TextLoader {
	return &TextLoader{maxSize: DefaultMaxSize}
}

// NewTextLoaderWithLimit creates a text loader that reads at most maxSize bytes.
func NewTextLoaderWithLimit(maxSize int64) *TextLoader {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &TextLoader{maxSize: maxSize}
}

// Load reads a text document from the given path.
func (l *TextLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	content, err := io.ReadAll(io.LimitReader(file, l.maxSize))
	if err != nil {
		return nil, err
	}

	return &entities.Document{
		ID:        generateDocID(path),
		Name:      filepath.Base(path),
		Path:      path,
		Content:   cleanContent(string(content)),
		CreatedAt: info.ModTime(),
		UpdatedAt: time.Now(),
	}, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *TextLoader) SupportedExtensions() []string {
	return []string{".txt", ".md", ".markdown", ".log"}
}

// MultiLoader dispatches to a loader by file extension.
type MultiLoader struct {
	loaders map[string]interface {
		Load(context.Context, string) (*entities.Document, error)
	}
}

// NewMultiLoader creates a loader for every supported transcript type.
func NewMultiLoader() *MultiLoader {
	text := NewTextLoader()
	m := &MultiLoader{loaders: map[string]interface {
		Load(context.Context, string) (*entities.Document, error)
	}{}}
	for _, ext := range text.SupportedExtensions() {
		m.loaders[ext] = text
	}
	return m
}

// Load dispatches to the appropriate loader based on extension.
func (m *MultiLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := m.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	return loader.Load(ctx, path)
}

// SupportedExtensions returns all supported extensions.
func (m *MultiLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(m.loaders))
	for ext := range m.loaders {
		exts = append(exts, ext)
	}
	return exts
}

// generateDocID creates a deterministic ID for a document.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

// cleanContent drops a byte-order mark, invalid UTF-8 and control characters
// other than newlines and tabs.
func cleanContent(content string) string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ToValidUTF8(content, "")

	var cleaned strings.Builder
	cleaned.Grow(len(content))
	for _, r := range content {
		if r >= 32 && r != 127 || r == '\n' || r == '\t' || r == '\r' {
			cleaned.WriteRune(r)
		}
	}
	return cleaned.String()
}
