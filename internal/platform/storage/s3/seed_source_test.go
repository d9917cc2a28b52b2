package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectAPI serves two pages of listings and object bodies from memory.
type fakeObjectAPI struct {
	pages   [][]string
	objects map[string]string
	inputs  []*s3.ListObjectsV2Input
}

func (f *fakeObjectAPI) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.inputs = append(f.inputs, in)

	page := 0
	if in.ContinuationToken != nil {
		page = 1
	}
	out := &s3.ListObjectsV2Output{}
	for _, key := range f.pages[page] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	if page+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String("next")
	}
	return out, nil
}

func (f *fakeObjectAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		in      string
		bucket  string
		prefix  string
		wantErr bool
	}{
		{in: "s3://seed", bucket: "seed", prefix: ""},
		{in: "s3://seed/", bucket: "seed", prefix: ""},
		{in: "s3://seed/hcmc/2025", bucket: "seed", prefix: "hcmc/2025/"},
		{in: "s3://seed/hcmc/", bucket: "seed", prefix: "hcmc/"},
		{in: "s3:///nobucket", wantErr: true},
		{in: "/data", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, prefix, err := ParseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("s3://seed/data"))
	assert.False(t, IsURL("/data"))
}

func TestSeedSource_List(t *testing.T) {
	api := &fakeObjectAPI{pages: [][]string{
		{"hcmc/WeatherObserved.csv", "hcmc/README.md"},
		{"hcmc/AirQualityObserved.csv"},
	}}
	src, err := NewSeedSource(api, "s3://seed/hcmc")
	require.NoError(t, err)

	keys, err := src.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"hcmc/AirQualityObserved.csv", "hcmc/WeatherObserved.csv"}, keys)
	require.Len(t, api.inputs, 2)
	assert.Equal(t, "seed", aws.ToString(api.inputs[0].Bucket))
	assert.Equal(t, "hcmc/", aws.ToString(api.inputs[0].Prefix))
	assert.Equal(t, "/", aws.ToString(api.inputs[0].Delimiter))
	assert.Equal(t, "s3://seed/hcmc/", src.Location())
}

func TestSeedSource_Open(t *testing.T) {
	api := &fakeObjectAPI{objects: map[string]string{"FloodZone.csv": "id\nurn:z\n"}}
	src, err := NewSeedSource(api, "s3://seed")
	require.NoError(t, err)

	rc, err := src.Open(context.Background(), "FloodZone.csv")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "id\nurn:z\n", string(data))

	_, err = src.Open(context.Background(), "Missing.csv")
	assert.Error(t, err)
}
