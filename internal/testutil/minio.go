package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
)

// MinioContainer wraps a MinIO container for testing.
type MinioContainer struct {
	container *tcminio.MinioContainer
	endpoint  string
}

// NewMinioContainer creates and starts a new MinIO container.
func NewMinioContainer(ctx context.Context, t *testing.T) (*MinioContainer, error) {
	t.Helper()

	container, err := tcminio.Run(ctx, "minio/minio:RELEASE.2024-01-16T16-07-38Z")
	if err != nil {
		return nil, fmt.Errorf("failed to start MinIO container: %w", err)
	}

	endpoint, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &MinioContainer{container: container, endpoint: endpoint}, nil
}

// Endpoint returns host:port of the MinIO server.
func (c *MinioContainer) Endpoint() string {
	return c.endpoint
}

// Credentials returns the root access and secret keys.
func (c *MinioContainer) Credentials() (string, string) {
	return c.container.Username, c.container.Password
}

// Client returns a minio-go client for the container.
func (c *MinioContainer) Client() (*minio.Client, error) {
	user, pass := c.Credentials()
	return minio.New(c.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(user, pass, ""),
		Secure: false,
	})
}

// Terminate stops and removes the MinIO container.
func (c *MinioContainer) Terminate(ctx context.Context) error {
	if c.container != nil {
		if err := c.container.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}
	return nil
}

// SetupMinioTest starts MinIO for a test, creates bucket and registers cleanup.
func SetupMinioTest(t *testing.T, bucket string) *MinioContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := NewMinioContainer(ctx, t)
	if err != nil {
		t.Fatalf("Failed to create MinIO container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MinIO container: %v", err)
		}
	})

	client, err := container.Client()
	if err != nil {
		t.Fatalf("Failed to create MinIO client: %v", err)
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		t.Fatalf("Failed to create bucket: %v", err)
	}

	return container
}
