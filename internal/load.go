package internal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nguyengg/zipcd"
	"github.com/nguyengg/zipcd/s3zip"
)

// LoadArchive reads the named local file, or downloads the S3 object if name is an s3:// URI,
// into memory and parses its central directory.
func LoadArchive(ctx context.Context, name string) (*zipcd.Archive, error) {
	if strings.HasPrefix(name, "s3://") {
		bucket, key, err := ParseS3URI(name)
		if err != nil {
			return nil, err
		}

		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config error: %w", err)
		}

		a, _, err := s3zip.Parse(ctx, s3.NewFromConfig(cfg), bucket, key)
		return a, err
	}

	buf, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf(`read file "%s" error: %w`, name, err)
	}

	return zipcd.Parse(buf)
}
