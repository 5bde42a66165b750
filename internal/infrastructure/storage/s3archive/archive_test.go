package s3archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

type putterFake struct {
	bucket string
	key    string
	body   string
	err    error
}

func (p *putterFake) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.bucket = *params.Bucket
	p.key = *params.Key
	raw, _ := io.ReadAll(params.Body)
	p.body = string(raw)
	return &s3.PutObjectOutput{}, nil
}

func savedReport(t *testing.T) domain.PersistedReport {
	t.Helper()
	folder := filepath.Join(t.TempDir(), "brief", "citecheck_result_20260301_143005")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(folder, "citations_report.json")
	if err := os.WriteFile(path, []byte(`{"citations":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return domain.PersistedReport{Path: path, Folder: folder}
}

func TestObjectKey(t *testing.T) {
	got := ObjectKey(domain.PersistedReport{
		Path:   "/out/brief/citecheck_result_20260301_143005/citations_report.json",
		Folder: "/out/brief/citecheck_result_20260301_143005/",
	})
	if got != "brief/citecheck_result_20260301_143005/citations_report.json" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestArchiveUploadsReport(t *testing.T) {
	putter := &putterFake{}
	archiver := newArchiver(putter, Options{Bucket: "reports", Prefix: "/citecheck/"})

	uri, err := archiver.Archive(context.Background(), savedReport(t))
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	wantKey := "citecheck/brief/citecheck_result_20260301_143005/citations_report.json"
	if putter.bucket != "reports" || putter.key != wantKey {
		t.Fatalf("unexpected upload target %s/%s", putter.bucket, putter.key)
	}
	if putter.body != `{"citations":[]}` {
		t.Fatalf("unexpected body %q", putter.body)
	}
	if uri != "s3://reports/"+wantKey {
		t.Fatalf("unexpected uri %q", uri)
	}
}

func TestArchiveWrapsUploadFailure(t *testing.T) {
	archiver := newArchiver(&putterFake{err: errors.New("access denied")}, Options{Bucket: "reports"})

	_, err := archiver.Archive(context.Background(), savedReport(t))
	if !domain.IsKind(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Options{Region: "us-east-1"})
	if !domain.IsKind(err, domain.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}
