// Package s3zip parses ZIP archives stored as S3 objects by downloading them into memory.
package s3zip

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nguyengg/zipcd"
)

// GetObjectAPIClient abstracts the only S3 operation used here so that tests can provide a fake.
// *s3.Client satisfies it.
type GetObjectAPIClient interface {
	GetObject(ctx context.Context, input *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ GetObjectAPIClient = (*s3.Client)(nil)

// Parse downloads the S3 object identified by bucket and key in full, then parses it with
// zipcd.Parse.
//
// The returned buffer backs the Archive (entry names and payloads are slices into it) and must be
// kept alive for as long as the Archive is used. ZIP archives generally cannot be parsed without
// their tail, so for archives too large to hold in memory a ranged-read approach is needed
// instead of this package.
func Parse(ctx context.Context, client GetObjectAPIClient, bucket, key string, optFns ...func(*s3.Options)) (*zipcd.Archive, []byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, optFns...)
	if err != nil {
		return nil, nil, fmt.Errorf("get s3://%s/%s error: %w", bucket, key, err)
	}
	defer out.Body.Close()

	var bb bytes.Buffer
	if n := aws.ToInt64(out.ContentLength); n > 0 {
		bb.Grow(int(n))
	}
	if _, err = bb.ReadFrom(out.Body); err != nil {
		return nil, nil, fmt.Errorf("read s3://%s/%s error: %w", bucket, key, err)
	}

	buf := bb.Bytes()
	a, err := zipcd.Parse(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("parse s3://%s/%s error: %w", bucket, key, err)
	}

	return a, buf, nil
}
