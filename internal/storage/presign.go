package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("storage: bucket not configured")

// maxUploadBytes caps POST policy uploads via a content-length-range
// condition.
const maxUploadBytes = 5 * 1024 * 1024

// Presigner is the subset of the S3 presign client the uploader needs.
type Presigner interface {
	PresignPostObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Uploader mints time-limited upload and download URLs scoped to a per-user
// key namespace. The platform never sees uploaded bytes; it only stores the
// resulting object references.
type Uploader struct {
	presigner Presigner
	bucket    string
	prefix    string
	ttl       time.Duration
}

func NewUploader(presigner Presigner, bucket, prefix string, ttl time.Duration) *Uploader {
	return &Uploader{
		presigner: presigner,
		bucket:    bucket,
		prefix:    prefix,
		ttl:       ttl,
	}
}

// UploadPostURL returns a presigned POST policy upload: the form URL, the
// fields the client must submit with it, and the object key. The policy caps
// the upload size at maxUploadBytes.
func (u *Uploader) UploadPostURL(ctx context.Context, userID int64) (string, map[string]string, string, error) {
	if u.bucket == "" || u.presigner == nil {
		return "", nil, "", ErrNotConfigured
	}

	key := u.objectKey(userID)
	req, err := u.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = u.ttl
		o.Conditions = []interface{}{
			[]interface{}{"content-length-range", 0, maxUploadBytes},
		}
	})
	if err != nil {
		return "", nil, "", err
	}
	return req.URL, req.Values, key, nil
}

// UploadURL returns a presigned PUT URL and the object key it uploads to.
// Keys are uuid-based so concurrent uploads for one user cannot collide.
func (u *Uploader) UploadURL(ctx context.Context, userID int64) (string, string, error) {
	if u.bucket == "" || u.presigner == nil {
		return "", "", ErrNotConfigured
	}

	key := u.objectKey(userID)
	req, err := u.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String("image/jpeg"),
	}, s3.WithPresignExpires(u.ttl))
	if err != nil {
		return "", "", err
	}
	return req.URL, key, nil
}

// DownloadURL returns a presigned GET URL for a previously uploaded object.
func (u *Uploader) DownloadURL(ctx context.Context, key string) (string, error) {
	if u.bucket == "" || u.presigner == nil {
		return "", ErrNotConfigured
	}

	req, err := u.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(u.ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// KeyOwnedBy reports whether the object key sits inside the user's key
// namespace.
func (u *Uploader) KeyOwnedBy(key string, userID int64) bool {
	return strings.HasPrefix(key, fmt.Sprintf("%s/%d/", u.prefix, userID))
}

func (u *Uploader) objectKey(userID int64) string {
	return fmt.Sprintf("%s/%d/%s.jpg", u.prefix, userID, uuid.NewString())
}
