package service_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/service"
)

func TestImageStoreLocal(t *testing.T) {
	mediaDir := t.TempDir()
	images := service.NewImageService(nil, mediaDir)
	ctx := context.Background()

	payload := base64.StdEncoding.EncodeToString([]byte("not a real png"))
	url, err := images.Store(ctx, "data:image/png;base64,"+payload)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/recipes/images/"), "got %q", url)
	assert.True(t, strings.HasSuffix(url, ".png"))

	onDisk := filepath.Join(mediaDir, filepath.FromSlash(strings.TrimPrefix(url, "/media/")))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "not a real png", string(data))
}

func TestImageStorePassthrough(t *testing.T) {
	images := service.NewImageService(nil, t.TempDir())
	ctx := context.Background()

	for _, url := range []string{
		"https://example.com/pic.png",
		"http://example.com/pic.png",
		"/media/recipes/images/existing.png",
	} {
		got, err := images.Store(ctx, url)
		require.NoError(t, err)
		assert.Equal(t, url, got)
	}
}

func TestImageStoreRejectsBadInput(t *testing.T) {
	images := service.NewImageService(nil, t.TempDir())
	ctx := context.Background()

	tests := []struct {
		name  string
		image string
	}{
		{"not a data URI", "just some text"},
		{"unsupported type", "data:image/tiff;base64,AAAA"},
		{"not base64 marked", "data:image/png;hex,FFFF"},
		{"broken base64", "data:image/png;base64,!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := images.Store(ctx, tt.image)
			var validationErr *service.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}
