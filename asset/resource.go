// Package asset opens render inputs such as settings files from local
// disk, http(s) servers or S3 buckets.
package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// A streamable local or remote resource. Callers must Close it.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the location of this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns true if the resource is not read from local disk.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Opens resources by location. Plain paths are read from disk, http and
// https URLs are fetched with Client and s3://bucket/key URLs are
// downloaded with S3.
type Opener struct {
	// Defaults to http.DefaultClient.
	Client *http.Client

	// Required for s3:// locations.
	S3 s3iface.S3API
}

// Open the resource at location. Local files that do not exist yield an
// error matching fs.ErrNotExist.
func (o *Opener) Open(ctx context.Context, location string) (*Resource, error) {
	// Accept windows-style separators in local paths
	u, err := url.Parse(strings.Replace(location, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("resource: invalid location '%s': %w", location, err)
	}

	var reader io.ReadCloser
	switch u.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(u.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		reader, err = o.fetch(ctx, u)
		if err != nil {
			return nil, err
		}
	case "s3":
		reader, err = o.download(ctx, u)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", u.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        u,
	}, nil
}

func (o *Opener) fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("resource: could not fetch '%s': %w", u.String(), err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resource: could not fetch '%s': %w", u.String(), err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("resource: could not fetch '%s': status %d", u.String(), resp.StatusCode)
	}
	return resp.Body, nil
}

func (o *Opener) download(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	if o.S3 == nil {
		return nil, fmt.Errorf("resource: no S3 client configured for '%s'", u.String())
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("resource: expected s3://bucket/key; got '%s'", u.String())
	}

	out, err := o.S3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.Host),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("resource: could not download '%s': %w", u.String(), err)
	}
	return out.Body, nil
}
