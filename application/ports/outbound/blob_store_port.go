package outbound

import "context"

// BlobStorePort is the path-addressed object store shared by all stages.
// Keys are namespaced by story id, so concurrent executions never collide.
type BlobStorePort interface {
	Put(ctx context.Context, bucket string, key string, body []byte, contentType string) error
	Get(ctx context.Context, bucket string, key string) ([]byte, error)
	Exists(ctx context.Context, bucket string, key string) (bool, error)
}
