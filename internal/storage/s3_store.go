package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Options configures an S3Store.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store mirrors artifacts into an S3-compatible bucket under an optional prefix.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store builds an S3 client from the default AWS configuration chain.
// Static credentials and a custom endpoint (R2, MinIO) override the defaults.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*awsConfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsConfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := awsConfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, ferrors.ConfigError("failed to load AWS SDK configuration").
			WithCause(err).
			WithContext("field", "upload").
			Build()
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})
	return NewS3StoreWithClient(client, opts.Bucket, opts.Prefix), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Put uploads the object and returns its content hash.
func (s *S3Store) Put(ctx context.Context, obj *Object) (string, error) {
	if err := checkName(obj.Name); err != nil {
		return "", err
	}
	hash := ContentHash(obj.Data)

	metadata := map[string]string{"sha256": hash}
	for k, v := range obj.Metadata.Custom {
		metadata[k] = v
	}

	in := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(s.key(obj.Name)),
		Body:     bytes.NewReader(obj.Data),
		Metadata: metadata,
	}
	if obj.ContentType != "" {
		in.ContentType = aws.String(obj.ContentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", s.apiError("couldn't upload artifact", obj.Name, err)
	}

	obj.Hash = hash
	return hash, nil
}

// Get downloads an object by name.
func (s *S3Store) Get(ctx context.Context, name string) (*Object, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound{Name: name}
		}
		return nil, s.apiError("couldn't download artifact", name, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, s.apiError("couldn't read artifact body", name, err)
	}
	obj := &Object{
		Name:        name,
		ContentType: aws.ToString(out.ContentType),
		Data:        data,
		Hash:        ContentHash(data),
		Metadata:    Metadata{Custom: out.Metadata},
	}
	if out.LastModified != nil {
		obj.Metadata.ModifiedAt = *out.LastModified
	}
	return obj, nil
}

// Exists checks if an object with the given name exists.
func (s *S3Store) Exists(ctx context.Context, name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, s.apiError("couldn't inspect artifact", name, err)
}

// Delete removes an object. S3 treats deleting a missing key as success.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	}); err != nil && !isNotFound(err) {
		return s.apiError("couldn't delete artifact", name, err)
	}
	return nil
}

// List returns the names of objects directly under the prefix.
func (s *S3Store) List(ctx context.Context) ([]string, error) {
	in := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		in.Prefix = aws.String(s.prefix + "/")
	}

	var names []string
	p := s3.NewListObjectsV2Paginator(s.client, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, s.apiError("couldn't list artifacts", "", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), aws.ToString(in.Prefix))
			if name != "" && !strings.Contains(name, "/") {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// Location returns the s3:// URL of the prefix.
func (s *S3Store) Location() string {
	if s.prefix == "" {
		return "s3://" + s.bucket
	}
	return "s3://" + s.bucket + "/" + s.prefix
}

// Close releases resources (the SDK client holds none that need closing).
func (s *S3Store) Close() error { return nil }

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Store) apiError(message, name string, err error) error {
	b := ferrors.StorageError(message).
		WithCause(err).
		WithContext("bucket", s.bucket)
	if name != "" {
		b = b.WithContext("key", s.key(name))
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		b = b.WithContext("code", apiErr.ErrorCode())
		if apiErr.ErrorCode() == "EntityTooLarge" {
			b = b.UserAction()
		}
	}
	return b.Build()
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

var _ ArtifactStore = (*S3Store)(nil)
