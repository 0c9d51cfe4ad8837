package storage

import (
	"testing"

	"github.com/BruksfildServices01/practice-scheduler/internal/config"
)

func TestNewS3(t *testing.T) {
	if s := NewS3(config.StorageConfig{Bucket: "b"}); s != nil {
		t.Fatal("expected nil without credentials")
	}

	tests := map[string]struct {
		cfg  config.StorageConfig
		want string
	}{
		"aws": {
			cfg:  config.StorageConfig{Region: "sa-east-1", Bucket: "avatars", AccessKey: "k", SecretKey: "s"},
			want: "https://avatars.s3.sa-east-1.amazonaws.com/clients/1.webp",
		},
		"custom endpoint": {
			cfg:  config.StorageConfig{Endpoint: "http://minio:9000/", Region: "us-east-1", Bucket: "avatars", AccessKey: "k", SecretKey: "s"},
			want: "http://minio:9000/avatars/clients/1.webp",
		},
		"public base url": {
			cfg:  config.StorageConfig{Region: "auto", Bucket: "avatars", AccessKey: "k", SecretKey: "s", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/clients/1.webp",
		},
	}

	for name, tc := range tests {
		s := NewS3(tc.cfg)
		if got := s.URL("clients/1.webp"); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", name, tc.want, got)
		}
	}
}
