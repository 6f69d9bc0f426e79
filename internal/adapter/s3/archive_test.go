package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestArchive(t *testing.T) {
	fp := &fakePutter{}
	a := newArchiver(fp, Config{Bucket: "digests", Prefix: "gktoday/"})

	key, err := a.Archive(context.Background(), "05 March 2024 Current Affairs.pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "gktoday/05 March 2024 Current Affairs.pdf", key)
	assert.Equal(t, "digests", aws.ToString(fp.in.Bucket))
	assert.Equal(t, key, aws.ToString(fp.in.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fp.in.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(fp.in.ContentLength))
	assert.Equal(t, []byte("%PDF"), fp.body)
}

func TestArchive_NoPrefix(t *testing.T) {
	a := newArchiver(&fakePutter{}, Config{Bucket: "b"})
	assert.Equal(t, "x.pdf", a.Key("x.pdf"))
}

func TestArchive_Error(t *testing.T) {
	a := newArchiver(&fakePutter{err: errors.New("access denied")}, Config{Bucket: "b"})

	_, err := a.Archive(context.Background(), "x.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://b/x.pdf")
	assert.Contains(t, err.Error(), "access denied")
}
