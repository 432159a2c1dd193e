package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"content-dashboard/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	emptyAWSSessionToken = ""
	pathSeparator        = "/"
	listMaxKeys          = 1000

	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errFailedPutObjectFmt        = "failed to store media object: %w"
	errFailedHeadObjectFmt       = "failed to stat media object: %w"
	errFailedListObjectsFmt      = "failed to list media objects: %w"
	errFailedDeleteObjectFmt     = "failed to delete media object: %w"
	errFailedCopyObjectFmt       = "failed to copy media object: %w"
)

// FileInfo describes one stored media object.
type FileInfo struct {
	Path         string
	Name         string
	Size         int64
	MimeType     string
	LastModified time.Time
}

// Client is the S3-backed media file store behind the media proxy.
type Client struct {
	svc    *s3.S3
	bucket string
}

func NewClient(cfg *config.AWSConfig, bucket string) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{svc: s3.New(sess), bucket: bucket}, nil
}

// Upload stores a payload at path and returns the resulting descriptor.
func (c *Client) Upload(ctx context.Context, path string, payload io.Reader, contentType string) (*FileInfo, error) {
	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(path),
		Body:        aws.ReadSeekCloser(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf(errFailedPutObjectFmt, err)
	}

	return c.Stat(ctx, path)
}

// Stat fetches one object's descriptor. A missing object yields (nil, nil).
func (c *Client) Stat(ctx context.Context, path string) (*FileInfo, error) {
	head, err := c.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf(errFailedHeadObjectFmt, err)
	}

	info := &FileInfo{
		Path:     path,
		Name:     baseName(path),
		Size:     aws.Int64Value(head.ContentLength),
		MimeType: aws.StringValue(head.ContentType),
	}
	if head.LastModified != nil {
		info.LastModified = *head.LastModified
	}
	return info, nil
}

// List returns the objects directly under dir, skipping sub-directory
// entries the way the original media listing did.
func (c *Client) List(ctx context.Context, dir string) ([]FileInfo, error) {
	prefix := dir
	if prefix != "" && !strings.HasSuffix(prefix, pathSeparator) {
		prefix += pathSeparator
	}

	var files []FileInfo
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(c.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(pathSeparator),
		MaxKeys:   aws.Int64(listMaxKeys),
	}

	err := c.svc.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if key == prefix {
				continue
			}
			info := FileInfo{
				Path: key,
				Name: baseName(key),
				Size: aws.Int64Value(obj.Size),
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			files = append(files, info)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf(errFailedListObjectsFmt, err)
	}

	return files, nil
}

// Delete removes one object by path.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}
	return nil
}

// Copy duplicates an object server-side. Move is copy-then-delete at the
// proxy layer; there is no atomic rename.
func (c *Client) Copy(ctx context.Context, sourcePath, destinationPath string) error {
	_, err := c.svc.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		CopySource: aws.String(c.bucket + pathSeparator + sourcePath),
		Key:        aws.String(destinationPath),
	})
	if err != nil {
		return fmt.Errorf(errFailedCopyObjectFmt, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		code := aerr.Code()
		return code == s3.ErrCodeNoSuchKey || code == "NotFound"
	}
	return false
}

func baseName(path string) string {
	if idx := strings.LastIndex(path, pathSeparator); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
