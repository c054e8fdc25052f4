package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
)

// multipartBody builds a multipart form with one part per file under the
// "photos" field.
func multipartBody(t *testing.T, files []struct {
	name        string
	contentType string
	content     []byte
}) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, file := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, file.name))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, itemID, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/upload/"+itemID, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type uploadFile = struct {
	name        string
	contentType string
	content     []byte
}

func TestUpload_RequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	item := seedItem(t, env, "locked")

	body, contentType := multipartBody(t, []uploadFile{
		{"photo.jpg", "image/jpeg", []byte("jpeg")},
	})

	w := env.upload(t, item.ID.String(), "", body, contentType)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUpload_AssociatesFilesWithItem(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	item := seedItem(t, env, "photographed")

	body, contentType := multipartBody(t, []uploadFile{
		{"first.jpg", "image/jpeg", []byte("one")},
		{"second.png", "image/png", []byte("two")},
	})

	w := env.upload(t, item.ID.String(), token, body, contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	response := decodeBody[UploadResponse](t, w)
	if len(response.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(response.Files))
	}
	for _, file := range response.Files {
		if file.ItemID != item.ID {
			t.Fatalf("file associated with wrong item: %+v", file)
		}
		if file.FilePath == "" {
			t.Fatal("file path missing in response")
		}
	}
}

func TestUpload_UnknownItem(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	body, contentType := multipartBody(t, []uploadFile{
		{"orphan.jpg", "image/jpeg", []byte("jpeg")},
	})

	w := env.upload(t, uuid.New().String(), token, body, contentType)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpload_InvalidItemID(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	body, contentType := multipartBody(t, []uploadFile{
		{"photo.jpg", "image/jpeg", []byte("jpeg")},
	})

	w := env.upload(t, "not-a-uuid", token, body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpload_RejectsNonImageFiles(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	item := seedItem(t, env, "strict")

	body, contentType := multipartBody(t, []uploadFile{
		{"ok.jpg", "image/jpeg", []byte("jpeg")},
		{"malware.exe", "application/octet-stream", []byte("MZ")},
	})

	w := env.upload(t, item.ID.String(), token, body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image file, got %d", w.Code)
	}

	// Nothing is kept from a rejected batch
	if len(env.photoRepo.photos) != 0 {
		t.Fatalf("rejected batch should leave no records, found %d", len(env.photoRepo.photos))
	}
}

func TestUpload_NoFiles(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	item := seedItem(t, env, "empty-upload")

	body, contentType := multipartBody(t, nil)

	w := env.upload(t, item.ID.String(), token, body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty upload, got %d", w.Code)
	}
}
