package minio

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	appconfig "github.com/GoArmGo/ProfileApp/internal/config"
	"github.com/GoArmGo/ProfileApp/internal/domain"
	"github.com/GoArmGo/ProfileApp/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noSuchKeyXML = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>missing.png</Key></Error>`

// fakeS3 отвечает на минимальный набор запросов path-style к одному бакету.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	puts    []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	if bucket != "avatars" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case key == "" && r.Method == http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		_, _ = io.Copy(io.Discard, r.Body)
		f.puts = append(f.puts, key)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, noSuchKeyXML)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestClient(t *testing.T, fake *fakeS3) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := &appconfig.Config{
		MinioEndpoint:        strings.TrimPrefix(srv.URL, "http://"),
		MinioAccessKeyID:     "minioadmin",
		MinioSecretAccessKey: "minioadmin",
		MinioBucketName:      "avatars",
		MinioRegion:          "us-east-1",
	}
	c, err := NewMinioClient(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	return c
}

func TestNewMinioClient_RequiresCredentials(t *testing.T) {
	_, err := NewMinioClient(context.Background(), &appconfig.Config{MinioRegion: "us-east-1"}, logger.Discard())
	assert.Error(t, err)
}

func TestClient_OpenFile(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"avatar.png": "png-bytes"}}
	c := newTestClient(t, fake)

	rc, err := c.OpenFile(context.Background(), "avatar.png")
	require.NoError(t, err)
	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
}

func TestClient_OpenFile_NoSuchKey(t *testing.T) {
	c := newTestClient(t, &fakeS3{objects: map[string]string{}})

	_, err := c.OpenFile(context.Background(), "missing.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_SaveFile(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	c := newTestClient(t, fake)

	name, err := c.SaveFile(context.Background(), "avatar.png", strings.NewReader("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "avatar.png", name)
	assert.Equal(t, []string{"avatar.png"}, fake.puts)

	_, err = c.SaveFile(context.Background(), "", strings.NewReader("data"), "")
	assert.ErrorIs(t, err, domain.ErrMissingFile)
}
