package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"content-dashboard/internal/domain/content"
	"content-dashboard/internal/storage/s3"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	objects map[string]*s3.FileInfo
	fail    bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]*s3.FileInfo)}
}

func (f *fakeStorage) Upload(ctx context.Context, path string, payload io.Reader, contentType string) (*s3.FileInfo, error) {
	if f.fail {
		return nil, errors.New("storage unavailable")
	}
	data, _ := io.ReadAll(payload)
	info := &s3.FileInfo{
		Path:         path,
		Name:         path[strings.LastIndex(path, "/")+1:],
		Size:         int64(len(data)),
		MimeType:     contentType,
		LastModified: time.Now(),
	}
	f.objects[path] = info
	return info, nil
}

func (f *fakeStorage) Stat(ctx context.Context, path string) (*s3.FileInfo, error) {
	if f.fail {
		return nil, errors.New("storage unavailable")
	}
	return f.objects[path], nil
}

func (f *fakeStorage) List(ctx context.Context, dir string) ([]s3.FileInfo, error) {
	var out []s3.FileInfo
	for _, info := range f.objects {
		out = append(out, *info)
	}
	return out, nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	delete(f.objects, path)
	return nil
}

func (f *fakeStorage) Copy(ctx context.Context, sourcePath, destinationPath string) error {
	src, ok := f.objects[sourcePath]
	if !ok {
		return errors.New("source missing")
	}
	copied := *src
	copied.Path = destinationPath
	f.objects[destinationPath] = &copied
	return nil
}

func multipartBody(t *testing.T, fileName, dir, contents string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(formFieldFile, fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField(formFieldPath, dir))
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestMediaHandler_Upload_UniqueTimestampedName(t *testing.T) {
	storage := newFakeStorage()
	h := NewMediaHandler(storage, "/media", 10<<20)
	h.now = func() time.Time {
		return time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)
	}

	body, contentType := multipartBody(t, "report.pdf", "docs", "%PDF-1.4")
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/media", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Upload(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var ref content.MediaReference
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ref))
	assert.Equal(t, "docs/report_20260829143005.pdf", ref.Path)
	assert.Equal(t, "/media/docs/report_20260829143005.pdf", ref.URL)
	assert.Equal(t, int64(len("%PDF-1.4")), ref.Size)
}

func TestMediaHandler_Upload_RejectsTraversalPath(t *testing.T) {
	h := NewMediaHandler(newFakeStorage(), "/media", 10<<20)

	body, contentType := multipartBody(t, "x.txt", "../secrets", "hi")
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/media", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Upload(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMediaHandler_Upload_MissingFileField(t *testing.T) {
	h := NewMediaHandler(newFakeStorage(), "/media", 10<<20)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField(formFieldPath, "docs"))
	require.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/media", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()

	require.NoError(t, h.Upload(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMediaHandler_Info_NotFound(t *testing.T) {
	h := NewMediaHandler(newFakeStorage(), "/media", 10<<20)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/media/docs/missing.pdf", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramWildcard)
	c.SetParamValues("docs/missing.pdf")

	require.NoError(t, h.Info(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMediaHandler_Move_CopyThenDelete(t *testing.T) {
	storage := newFakeStorage()
	storage.objects["a/x.png"] = &s3.FileInfo{Path: "a/x.png", Name: "x.png", Size: 5}
	h := NewMediaHandler(storage, "/media", 10<<20)

	payload, _ := json.Marshal(MoveRequest{SourcePath: "a/x.png", DestinationPath: "b/x.png"})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/media/move", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, contentTypeJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Move(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MediaMoveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a/x.png", resp.OldPath)
	assert.Equal(t, "b/x.png", resp.NewPath)
	assert.Equal(t, "/media/b/x.png", resp.URL)
	assert.NotEmpty(t, resp.Message)

	_, sourceExists := storage.objects["a/x.png"]
	_, destExists := storage.objects["b/x.png"]
	assert.False(t, sourceExists)
	assert.True(t, destExists)
}

func TestMediaHandler_Delete_ReturnsConfirmation(t *testing.T) {
	storage := newFakeStorage()
	storage.objects["docs/old.pdf"] = &s3.FileInfo{Path: "docs/old.pdf", Name: "old.pdf", Size: 9}
	h := NewMediaHandler(storage, "/media", 10<<20)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/media/docs/old.pdf", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramWildcard)
	c.SetParamValues("docs/old.pdf")

	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MediaDeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "docs/old.pdf", resp.Path)
	assert.NotEmpty(t, resp.Message)

	_, exists := storage.objects["docs/old.pdf"]
	assert.False(t, exists)
}

func TestMediaHandler_Move_MissingSource(t *testing.T) {
	h := NewMediaHandler(newFakeStorage(), "/media", 10<<20)

	payload, _ := json.Marshal(MoveRequest{SourcePath: "nope.png", DestinationPath: "b/x.png"})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/media/move", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, contentTypeJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Move(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUniqueFileName(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "report_20260102030405.pdf", uniqueFileName("report.pdf", at))
	assert.Equal(t, "noext_20260102030405", uniqueFileName("noext", at))
	assert.Equal(t, "archive.tar_20260102030405.gz", uniqueFileName("archive.tar.gz", at))
}
