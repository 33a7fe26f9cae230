package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, publicURL string) *Client {
	t.Helper()
	c, err := New(Options{
		Endpoint:  "https://s3.example.com/",
		Region:    "eu-central-1",
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "blog-images",
		PublicURL: publicURL,
	})
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func TestNew_Unconfigured(t *testing.T) {
	c, err := New(Options{Region: "us-east-1"})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = New(Options{Endpoint: "https://s3.example.com", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Nil(t, c, "a missing bucket disables storage")
}

func TestNew_RequiresRegion(t *testing.T) {
	_, err := New(Options{Endpoint: "https://s3.example.com", AccessKey: "a", SecretKey: "b", Bucket: "x"})
	assert.Error(t, err)
}

func TestFileURL(t *testing.T) {
	c := newTestClient(t, "")
	assert.Equal(t, "https://s3.example.com/blog-images/images/2026/03/a.png", c.FileURL("images/2026/03/a.png"))
	assert.Equal(t, "blog-images", c.PublicBucket())

	cdn := newTestClient(t, "https://cdn.example.com/")
	assert.Equal(t, "https://cdn.example.com/images/a.png", cdn.FileURL("images/a.png"))
}

func TestExtractS3Key(t *testing.T) {
	c := newTestClient(t, "https://cdn.example.com")

	tests := []struct {
		name    string
		url     string
		wantKey string
		wantOK  bool
	}{
		{"cdn url", "https://cdn.example.com/images/2026/03/a.png", "images/2026/03/a.png", true},
		{"path style url", "https://s3.example.com/blog-images/images/a.png", "images/a.png", true},
		{"other bucket", "https://s3.example.com/other/images/a.png", "", false},
		{"foreign host", "https://images.unsplash.com/photo.jpg", "", false},
		{"bare prefix", "https://cdn.example.com/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := c.ExtractS3Key(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}

	// Round trip.
	key, ok := c.ExtractS3Key(c.FileURL("images/2026/10/x.webp"))
	require.True(t, ok)
	assert.Equal(t, "images/2026/10/x.webp", key)
}

func TestRemoveByURL_Ignored(t *testing.T) {
	var nilClient *Client
	assert.NoError(t, nilClient.RemoveByURL(context.Background(), "https://cdn.example.com/a.png"))

	// Foreign URLs never reach the network.
	c := newTestClient(t, "https://cdn.example.com")
	assert.NoError(t, c.RemoveByURL(context.Background(), "https://elsewhere.example.org/a.png"))
}
