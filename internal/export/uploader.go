package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/dvloznov/customer-spending/internal/dashboard"
	"github.com/google/uuid"
)

// ObjectWriter stores an object in a bucket.
type ObjectWriter interface {
	WriteObject(ctx context.Context, bucket, object, contentType string, r io.Reader) (int64, error)
}

// GCSWriter writes objects to Google Cloud Storage.
// It assumes Application Default Credentials are configured.
type GCSWriter struct{}

// NewGCSWriter creates a new GCSWriter.
func NewGCSWriter() *GCSWriter {
	return &GCSWriter{}
}

// WriteObject copies r into gs://bucket/object.
func (g *GCSWriter) WriteObject(ctx context.Context, bucket, object, contentType string, r io.Reader) (int64, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return 0, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	written, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("write gs://%s/%s: %w", bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close writer for gs://%s/%s: %w", bucket, object, err)
	}
	return written, nil
}

// Snapshot is the exported form of one dashboard evaluation.
type Snapshot struct {
	SnapshotID  string               `json:"snapshot_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Dashboard   *dashboard.ViewModel `json:"dashboard"`
}

// Exporter uploads dashboard snapshots as JSON objects.
type Exporter struct {
	writer ObjectWriter
	bucket string
	prefix string
	now    func() time.Time
}

// NewExporter creates an exporter writing under gs://bucket/prefix/.
func NewExporter(writer ObjectWriter, bucket, prefix string) *Exporter {
	return &Exporter{
		writer: writer,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

// Export writes vm to a new object and returns its gs:// URI.
func (e *Exporter) Export(ctx context.Context, vm *dashboard.ViewModel) (string, error) {
	if e.bucket == "" {
		return "", fmt.Errorf("Export: bucket is required")
	}

	snap := Snapshot{
		SnapshotID:  uuid.NewString(),
		GeneratedAt: e.now().UTC(),
		Dashboard:   vm,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("Export: encode snapshot: %w", err)
	}

	object := ObjectName(e.prefix, snap.GeneratedAt, snap.SnapshotID)
	if _, err := e.writer.WriteObject(ctx, e.bucket, object, "application/json", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("Export: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", e.bucket, object), nil
}

// ObjectName lays snapshots out by day: prefix/YYYY/MM/DD/<id>.json.
func ObjectName(prefix string, at time.Time, id string) string {
	return path.Join(prefix, at.Format("2006/01/02"), id+".json")
}
