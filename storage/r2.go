package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type R2Options struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // https://<account-id>.r2.cloudflarestorage.com
	PublicDomain    string // custom domain or the bucket's r2.dev URL
}

// R2 talks to Cloudflare R2 through the S3 API.
type R2 struct {
	client *s3.Client
	opts   R2Options
}

func NewR2(ctx context.Context, opts R2Options) (*R2, error) {
	if opts.Bucket == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" || opts.Endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true // required for R2
	})
	opts.PublicDomain = strings.TrimRight(opts.PublicDomain, "/")
	return &R2{client: client, opts: opts}, nil
}

func (r *R2) Put(ctx context.Context, objectName, contentType string, body io.Reader) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(r.opts.Bucket),
		Key:          aws.String(objectName),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return r.publicURL(objectName), nil
}

func (r *R2) Delete(ctx context.Context, objectName string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.opts.Bucket),
		Key:    aws.String(objectName),
	})
	return err
}

func (r *R2) publicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", r.opts.PublicDomain, r.opts.Bucket, objectName)
}

func (r *R2) ObjectName(raw string) (string, bool) {
	prefix := r.opts.PublicDomain + "/" + r.opts.Bucket + "/"
	if r.opts.PublicDomain == "" || !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(raw, prefix)
	return name, name != ""
}
