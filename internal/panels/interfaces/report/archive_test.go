package report

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 accepts PutObject requests and remembers bodies by object key.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	status  int
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != 0 {
		return &http.Response{StatusCode: f.status, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
	}
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: 501, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	body, _ := io.ReadAll(req.Body)
	f.objects[key] = body
	return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}}, nil
}

func newFakeArchiver(t *testing.T, rt http.RoundTripper) *Archiver {
	t.Helper()
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	a := newArchiver(client, "reports-bucket")
	a.now = func() time.Time { return time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC) }
	return a
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.FixedZone("x", 3600))
	assert.Equal(t, "reports/Flats/20240501T073000Z.pdf", ObjectKey(" Flats ", FormatPDF, at))
	assert.Equal(t, "reports/a_b/20240501T073000Z.xlsx", ObjectKey("a/b", FormatXLSX, at))
}

func TestArchiverUploads(t *testing.T) {
	rt := &fakeS3{objects: map[string][]byte{}}
	a := newFakeArchiver(t, rt)

	key, err := a.Archive(context.Background(), "Flats", FormatPDF, []byte("%PDF-body"))
	require.NoError(t, err)
	assert.Equal(t, "reports/Flats/20240501T083000Z.pdf", key)

	rt.mu.Lock()
	defer rt.mu.Unlock()
	body, ok := rt.objects[key]
	require.True(t, ok)
	assert.True(t, bytes.Contains(body, []byte("%PDF-body")))
}

func TestArchiverPropagatesFailure(t *testing.T) {
	a := newFakeArchiver(t, &fakeS3{objects: map[string][]byte{}, status: http.StatusForbidden})
	_, err := a.Archive(context.Background(), "Flats", FormatXLSX, []byte("x"))
	assert.Error(t, err)
}

func TestNewArchiverRequiresBucket(t *testing.T) {
	_, err := NewArchiver(context.Background(), ArchiveConfig{})
	assert.Error(t, err)

	var nilArchiver *Archiver
	_, err = nilArchiver.Archive(context.Background(), "Flats", FormatPDF, nil)
	assert.Error(t, err)
}
