// Package s3fetch fetches manifest/module pairs from Amazon S3,
// leveraging the official aws-sdk-go client the way
// registry/storage/driver/s3-aws builds a session from a region and
// static or IAM-instance credentials.
package s3fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/mitchellh/mapstructure"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/resolvers/remote"
	"github.com/wraplang/goclient/resolvers/remote/factory"
)

const backendName = "s3"

func init() {
	factory.Register(backendName, &fetcherFactory{})
}

type fetcherFactory struct{}

func (fetcherFactory) Create(parameters map[string]interface{}) (remote.Fetcher, error) {
	return FromParameters(parameters)
}

// Params configures Fetcher, decoded via mapstructure the same way
// s3-aws.FromParameters decodes its DriverParameters.
type Params struct {
	AccessKey string `mapstructure:"accesskey"`
	SecretKey string `mapstructure:"secretkey"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	RootDir   string `mapstructure:"rootdirectory"`
}

// Fetcher fetches "<RootDir>/<uri.Authority()>/<uri.Path()>/manifest.yaml"
// and "...module.wasm" objects from one S3 bucket.
type Fetcher struct {
	s3      *s3.S3
	bucket  string
	rootDir string
}

var _ remote.Fetcher = (*Fetcher)(nil)

// FromParameters builds a Fetcher from a backend parameter bag. An
// empty AccessKey/SecretKey is valid: the session falls back to IAM
// instance credentials, matching s3-aws's own allowance for that.
func FromParameters(parameters map[string]interface{}) (*Fetcher, error) {
	var p Params
	if err := mapstructure.Decode(parameters, &p); err != nil {
		return nil, err
	}
	if p.Bucket == "" {
		return nil, fmt.Errorf("s3fetch: no bucket parameter provided")
	}
	if p.Region == "" {
		return nil, fmt.Errorf("s3fetch: no region parameter provided")
	}

	cfg := aws.NewConfig().WithRegion(p.Region)
	if p.AccessKey != "" || p.SecretKey != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(p.AccessKey, p.SecretKey, ""))
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}

	return &Fetcher{s3: s3.New(sess), bucket: p.Bucket, rootDir: p.RootDir}, nil
}

// Fetch implements remote.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, uri wrap.Uri) ([]byte, []byte, error) {
	manifestBytes, err := f.get(ctx, f.key(uri, "manifest.yaml"))
	if err != nil {
		return nil, nil, err
	}
	moduleBytes, err := f.get(ctx, f.key(uri, "module.wasm"))
	if err != nil {
		return nil, nil, err
	}
	return manifestBytes, moduleBytes, nil
}

func (f *Fetcher) key(uri wrap.Uri, file string) string {
	if f.rootDir == "" {
		return fmt.Sprintf("%s/%s/%s", uri.Authority(), uri.Path(), file)
	}
	return fmt.Sprintf("%s/%s/%s/%s", f.rootDir, uri.Authority(), uri.Path(), file)
}

func (f *Fetcher) get(ctx context.Context, key string) ([]byte, error) {
	out, err := f.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, remote.ErrObjectNotFound
		}
		return nil, err
	}
	defer out.Body.Close()

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
