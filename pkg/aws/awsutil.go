package aws

import (
	"context"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// URIScheme prefixes archive locations stored in S3.
const URIScheme = "s3://"

// Client is an abstraction layer for interacting with AWS services.
type Client struct {
	s3 s3iface.S3API
}

// NewClient creates a new AWS client, expecting that the environment variables configure the settings.
func NewClient() *Client {
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))
	return &Client{
		s3: s3.New(sess),
	}
}

// GetObject downloads the whole object.
func (c *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	output, err := c.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("get S3 object (bucket: %s)(key: %s): %w", bucket, key, err)
	}
	defer output.Body.Close()
	body, err := ioutil.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("read S3 object (bucket: %s)(key: %s): %w", bucket, key, err)
	}
	return body, nil
}

// ParseURI splits an s3://bucket/key URI.
func ParseURI(uri string) (bucket, key string, err error) {
	if !strings.HasPrefix(uri, URIScheme) {
		return "", "", fmt.Errorf("not an S3 URI: %q", uri)
	}
	rest := strings.TrimPrefix(uri, URIScheme)
	i := strings.IndexByte(rest, '/')
	if i <= 0 || i == len(rest)-1 {
		return "", "", fmt.Errorf("S3 URI needs a bucket and a key: %q", uri)
	}
	return rest[:i], rest[i+1:], nil
}
