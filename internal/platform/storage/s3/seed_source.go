/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-21
 * Change License: AGPL-3.0
 */

package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sematx/opendata-seed/internal/core/ports"
)

// ObjectAPI is the subset of the S3 client used by SeedSource.
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SeedSource reads seed CSV files stored under a bucket prefix.
type SeedSource struct {
	client ObjectAPI
	bucket string
	prefix string
}

// Ensure we implement the interface
var _ ports.SeedSource = (*SeedSource)(nil)

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// IsURL reports whether a data location points at S3.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// ParseURL splits "s3://bucket/some/prefix" into bucket and prefix.
// A non-empty prefix always ends with "/".
func ParseURL(location string) (bucket, prefix string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %q: %w", location, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: expected s3://bucket[/prefix]", location)
	}
	prefix = strings.TrimPrefix(u.Path, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return u.Host, prefix, nil
}

// NewClient builds a path-style S3 client, pointed at cfg.Endpoint when set
// (MinIO and friends).
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				if cfg.Endpoint != "" {
					return aws.Endpoint{
						PartitionID:   "aws",
						URL:           cfg.Endpoint,
						SigningRegion: cfg.Region,
					}, nil
				}
				return aws.Endpoint{}, &aws.EndpointNotFoundError{}
			},
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

func NewSeedSource(client ObjectAPI, location string) (*SeedSource, error) {
	bucket, prefix, err := ParseURL(location)
	if err != nil {
		return nil, err
	}
	return &SeedSource{client: client, bucket: bucket, prefix: prefix}, nil
}

// List returns the keys of the *.csv objects directly under the prefix,
// sorted.
func (s *SeedSource) List(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String("/"),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, ".csv") {
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *SeedSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return out.Body, nil
}

func (s *SeedSource) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
}
