// Package s3archive mirrors saved citation reports to an S3 bucket.
package s3archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

type Options struct {
	Bucket    string
	Region    string
	Prefix    string
	AccessKey string
	SecretKey string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Archiver struct {
	client objectPutter
	bucket string
	prefix string
}

// New loads the default AWS config. Static credentials are used only when
// both keys are set; otherwise the default chain applies.
func New(ctx context.Context, opts Options) (*Archiver, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, domain.NewError(domain.ErrConfig, "S3 bucket is required for report archiving")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, domain.WrapError(domain.ErrConfig, "load aws config", err)
	}
	return newArchiver(s3.NewFromConfig(awsCfg), opts), nil
}

func newArchiver(client objectPutter, opts Options) *Archiver {
	return &Archiver{
		client: client,
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
	}
}

// Archive uploads the report file and returns its s3:// URI.
func (a *Archiver) Archive(ctx context.Context, persisted domain.PersistedReport) (string, error) {
	f, err := os.Open(persisted.Path)
	if err != nil {
		return "", domain.WrapError(domain.ErrIO, "open report for archive", err)
	}
	defer f.Close()

	key := a.objectKey(persisted)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", domain.WrapError(domain.ErrTransport, "upload report to s3", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

func (a *Archiver) objectKey(persisted domain.PersistedReport) string {
	key := ObjectKey(persisted)
	if a.prefix == "" {
		return key
	}
	return a.prefix + "/" + key
}

// ObjectKey keeps the last three path segments of a saved report:
// <base>/citecheck_result_<timestamp>/citations_report.json.
func ObjectKey(persisted domain.PersistedReport) string {
	folder := filepath.Clean(persisted.Folder)
	return strings.Join([]string{
		filepath.Base(filepath.Dir(folder)),
		filepath.Base(folder),
		filepath.Base(persisted.Path),
	}, "/")
}
