package client_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/client"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	pdfPath := writeTempFile(t, dir, "factura.pdf", []byte("%PDF-1.4"))
	pngPath := writeTempFile(t, dir, "logo.png", []byte{0x89, 0x50, 0x4e, 0x47})

	t.Run("loads content types by extension", func(t *testing.T) {
		files, err := client.LoadFiles([]string{pdfPath, pngPath}, "documento")
		require.NoError(t, err)
		require.Len(t, files, 2)

		assert.Equal(t, "factura.pdf", files[0].FileName)
		assert.Equal(t, "application/pdf", files[0].ContentType)
		assert.Equal(t, "documento", files[0].FieldName)
		assert.Equal(t, []byte("%PDF-1.4"), files[0].Content)

		assert.Equal(t, "image/png", files[1].ContentType)
	})

	t.Run("skips missing paths", func(t *testing.T) {
		files, err := client.LoadFiles([]string{pdfPath, filepath.Join(dir, "missing.pdf")}, "documento")
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("errors when nothing is readable", func(t *testing.T) {
		_, err := client.LoadFiles([]string{filepath.Join(dir, "missing.pdf")}, "documento")
		require.Error(t, err)
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("unknown extension falls back to octet-stream", func(t *testing.T) {
		binPath := writeTempFile(t, dir, "payload.qz9", []byte{0x00})
		files, err := client.LoadFiles([]string{binPath}, "documento")
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", files[0].ContentType)
	})
}

func TestCollectDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.pdf", []byte("a"))
	writeTempFile(t, dir, "b.png", []byte("b"))
	writeTempFile(t, dir, "c.txt", []byte("c"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	t.Run("default extensions skip text files", func(t *testing.T) {
		files, err := client.CollectDirectory(dir, nil, "adjuntos", 0)
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("explicit extensions", func(t *testing.T) {
		files, err := client.CollectDirectory(dir, []string{".txt"}, "adjuntos", 0)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "c.txt", files[0].FileName)
		assert.Equal(t, "text/plain", files[0].ContentType)
	})

	t.Run("respects max files", func(t *testing.T) {
		files, err := client.CollectDirectory(dir, nil, "adjuntos", 1)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := client.CollectDirectory(filepath.Join(dir, "nope"), nil, "adjuntos", 0)
		require.Error(t, err)
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("no matching files", func(t *testing.T) {
		_, err := client.CollectDirectory(dir, []string{".zip"}, "adjuntos", 0)
		require.Error(t, err)
	})
}
