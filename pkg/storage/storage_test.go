package storage_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/backoffice/pkg/storage"
)

func upload(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, _ = fw.Write([]byte(content))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	disk, err := storage.NewLocal(t.TempDir(), "/storage/")
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "profiles/a.png", strings.NewReader("img")))
	ok, err := disk.Exists(ctx, "profiles/a.png")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/storage/profiles/a.png", disk.URL("profiles/a.png"))

	rec := httptest.NewRecorder()
	http.StripPrefix("/storage/", disk.Handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/profiles/a.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "img", rec.Body.String())

	require.NoError(t, disk.Delete(ctx, "profiles/a.png"))
	require.NoError(t, disk.Delete(ctx, "profiles/a.png"))
	ok, err = disk.Exists(ctx, "profiles/a.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk, err := storage.NewLocal(root, "/storage")
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "../../escape.png", strings.NewReader("x")))
	ok, err := disk.Exists(ctx, "escape.png")
	require.NoError(t, err)
	assert.True(t, ok, "parent segments are dropped, the file lands under root")
}

func TestLocalHandlerRefusesListings(t *testing.T) {
	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)
	require.NoError(t, disk.Put(context.Background(), "profiles/a.png", strings.NewReader("img")))

	rec := httptest.NewRecorder()
	http.StripPrefix("/storage/", disk.Handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/profiles/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveUpload(t *testing.T) {
	ctx := context.Background()
	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)

	name, err := storage.SaveUpload(ctx, disk, "profiles", upload(t, "Me.PNG", "png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "profiles/"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	ok, err := disk.Exists(ctx, name)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = storage.SaveUpload(ctx, disk, "profiles", upload(t, "run.sh", "#!/bin/sh"))
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)
}
