package results

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"partnersim/internal/blob"
)

// BlobObjectStore adapts a blob.Store to the exporter's ObjectStore
// interface, letting artifacts land on any configured blob driver.
type BlobObjectStore struct {
	store blob.Store
}

var _ ObjectStore = (*BlobObjectStore)(nil)

// NewBlobObjectStore wraps the provided blob store.
func NewBlobObjectStore(store blob.Store) *BlobObjectStore {
	return &BlobObjectStore{store: store}
}

// Put stores a new immutable artifact payload.
func (s *BlobObjectStore) Put(ctx context.Context, key string, payload []byte, contentType string, metadata map[string]any) (ExportArtifact, error) {
	info, err := s.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: contentType,
		Metadata:    stringifyMetadata(metadata),
	})
	if err != nil {
		return ExportArtifact{}, err
	}
	return artifactFromInfo(info, metadata), nil
}

// Get returns the artifact metadata and payload bytes.
func (s *BlobObjectStore) Get(ctx context.Context, key string) (ExportArtifact, []byte, error) {
	info, rc, err := s.store.Get(ctx, key)
	if err != nil {
		return ExportArtifact{}, nil, err
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return ExportArtifact{}, nil, err
	}
	return artifactFromInfo(info, nil), payload, nil
}

// Delete removes the artifact; returns true if it existed.
func (s *BlobObjectStore) Delete(ctx context.Context, key string) (bool, error) {
	return s.store.Delete(ctx, key)
}

// List returns artifacts whose keys start with prefix.
func (s *BlobObjectStore) List(ctx context.Context, prefix string) ([]ExportArtifact, error) {
	infos, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]ExportArtifact, 0, len(infos))
	for _, info := range infos {
		out = append(out, artifactFromInfo(info, nil))
	}
	return out, nil
}

func artifactFromInfo(info blob.Info, metadata map[string]any) ExportArtifact {
	md := metadata
	if md == nil && len(info.Metadata) > 0 {
		md = make(map[string]any, len(info.Metadata))
		for k, v := range info.Metadata {
			md[k] = v
		}
	}
	return ExportArtifact{
		ID:          info.Key,
		ContentType: info.ContentType,
		SizeBytes:   info.Size,
		URL:         info.URL,
		Metadata:    cloneMap(md),
		CreatedAt:   info.LastModified,
	}
}

func stringifyMetadata(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = fmt.Sprint(v)
	}
	return out
}
