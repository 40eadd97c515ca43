// Package jsonl writes catalog snapshots as JSON lines.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/skuprice/backend/internal/domain"
)

var _ domain.SnapshotRepository = (*Writer)(nil)

// Writer is a SnapshotRepository that encodes one snapshot per line
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a Writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// SaveSnapshots writes the snapshots in order
func (w *Writer) SaveSnapshots(ctx context.Context, snapshots []domain.CatalogSnapshot) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, s := range snapshots {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := w.enc.Encode(s); err != nil {
			return i, fmt.Errorf("failed to encode snapshot %s/%s: %w", s.Store, s.SkuID, err)
		}
	}
	return len(snapshots), nil
}
