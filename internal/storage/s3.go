package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SignedURLTTL is how long a presigned image link stays valid.
const SignedURLTTL = time.Hour

// ObjectAPI is the subset of *s3.Client the image store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type ImageStore struct {
	api     ObjectAPI
	presign Presigner
	bucket  string
}

func NewImageStore(api ObjectAPI, presign Presigner, bucket string) *ImageStore {
	return &ImageStore{api: api, presign: presign, bucket: bucket}
}

// NewImageStoreFromClient wires both the object API and the presigner to client.
func NewImageStoreFromClient(client *s3.Client, bucket string) *ImageStore {
	return NewImageStore(client, s3.NewPresignClient(client), bucket)
}

// UploadTemp stores body under a fresh temp key for userID and returns the key.
func (s *ImageStore) UploadTemp(ctx context.Context, userID, fileName, contentType string, body io.Reader, size int64) (string, error) {
	key := TempKey(userID, fileName, time.Now())
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// Confirm promotes one of userID's temp uploads to its permanent key.
func (s *ImageStore) Confirm(ctx context.Context, userID, tempKey string) (string, error) {
	key, err := PermanentKey(userID, tempKey)
	if err != nil {
		return "", err
	}

	_, err = s.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(copySource(s.bucket, tempKey)),
		Key:        aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("copy object %s: %w", tempKey, err)
	}

	if err := s.Delete(ctx, tempKey); err != nil {
		return "", err
	}
	return key, nil
}

// Cancel removes one of userID's temp uploads.
func (s *ImageStore) Cancel(ctx context.Context, userID, tempKey string) error {
	if !OwnsTemp(tempKey, userID) {
		return ErrForeignKey
	}
	return s.Delete(ctx, tempKey)
}

func (s *ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a presigned GET link for key valid for SignedURLTTL.
func (s *ImageStore) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(SignedURLTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func copySource(bucket, key string) string {
	segs := strings.Split(key, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return bucket + "/" + strings.Join(segs, "/")
}
