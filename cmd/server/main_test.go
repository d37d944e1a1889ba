package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"photo-gallery/internal/config"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		public   string
		useSSL   bool
		want     string
	}{
		{name: "explicit cdn", public: "https://cdn.example.com", want: "https://cdn.example.com"},
		{name: "aws default", want: "https://photos.s3.eu-west-1.amazonaws.com"},
		{name: "endpoint with scheme", endpoint: "http://minio:9000/", want: "http://minio:9000/photos"},
		{name: "bare endpoint tls", endpoint: "minio:9000", useSSL: true, want: "https://minio:9000/photos"},
		{name: "bare endpoint plain", endpoint: "minio:9000", want: "http://minio:9000/photos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Config
			cfg.Storage.Bucket = "photos"
			cfg.Storage.Region = "eu-west-1"
			cfg.Storage.Endpoint = tt.endpoint
			cfg.Storage.PublicURL = tt.public
			cfg.Storage.UseSSL = tt.useSSL
			assert.Equal(t, tt.want, publicURL(cfg))
		})
	}
}

func TestMinioEndpoint(t *testing.T) {
	endpoint, secure := minioEndpoint("https://play.min.io", false)
	assert.Equal(t, "play.min.io", endpoint)
	assert.True(t, secure)

	endpoint, secure = minioEndpoint("http://localhost:9000", true)
	assert.Equal(t, "localhost:9000", endpoint)
	assert.False(t, secure)

	endpoint, secure = minioEndpoint("localhost:9000", true)
	assert.Equal(t, "localhost:9000", endpoint)
	assert.True(t, secure)
}
