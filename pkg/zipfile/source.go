package zipfile

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alec-rabold/zipfix/pkg/aws"
)

// ObjectGetter downloads a whole S3 object.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Source loads the raw bytes of an archive given a local path or an s3:// URI.
type Source struct {
	// S3 is used for s3:// URIs. It is created on first use when nil.
	S3 ObjectGetter
}

// IsRemote reports whether src names an S3 object.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, aws.URIScheme)
}

// Read returns the entire contents of src.
func (s *Source) Read(ctx context.Context, src string) ([]byte, error) {
	if !IsRemote(src) {
		return os.ReadFile(src)
	}
	bucket, key, err := aws.ParseURI(src)
	if err != nil {
		return nil, err
	}
	if s.S3 == nil {
		s.S3 = aws.NewClient()
	}
	return s.S3.GetObject(ctx, bucket, key)
}

// Stem returns the base name of src without its last extension.
func Stem(src string) string {
	base := filepath.Base(src)
	if IsRemote(src) {
		base = path.Base(src)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
