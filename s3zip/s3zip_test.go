package s3zip

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	data []byte
}

func (f *fakeClient) GetObject(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(f.data)),
		ContentLength: aws.Int64(int64(len(f.data))),
	}, nil
}

func TestParse(t *testing.T) {
	src := &bytes.Buffer{}
	zw := zip.NewWriter(src)
	w, err := zw.Create("test/a.txt")
	assert.NoError(t, err)
	_, err = w.Write([]byte("hello world"))
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())

	a, buf, err := Parse(context.Background(), &fakeClient{data: src.Bytes()}, "bucket", "key")
	if !assert.NoErrorf(t, err, "Parse(...) error = %v", err) {
		return
	}

	assert.Equal(t, src.Bytes(), buf)
	assert.Len(t, a.Entries, 1)
	assert.Equal(t, "test/a.txt", string(a.Entries[0].Name))
}

func TestParse_NotZip(t *testing.T) {
	_, _, err := Parse(context.Background(), &fakeClient{data: bytes.Repeat([]byte("x"), 100)}, "bucket", "key")
	assert.Error(t, err)
}
