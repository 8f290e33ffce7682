package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
)

func multipartBody(t *testing.T, field, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadListPreviewDelete(t *testing.T) {
	ts := startTestServer(t)
	client := ts.Client()

	body, contentType := multipartBody(t, "file", "notes.txt", "text/plain", "remember the milk")
	resp, err := client.Post(ts.URL+"/api/upload", contentType, body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status %d: %s", resp.StatusCode, raw)
	}
	var uploaded UploadResponse
	if err := json.Unmarshal(raw, &uploaded); err != nil {
		t.Fatalf("unmarshal upload response: %v", err)
	}
	if !uploaded.OK || uploaded.Name != "notes.txt" || uploaded.Size != int64(len("remember the milk")) {
		t.Fatalf("unexpected upload response: %+v", uploaded)
	}

	resp, raw = request(t, client, http.MethodGet, ts.URL+"/api/files")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %d", resp.StatusCode)
	}
	var list FileListResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list.Files) != 1 || list.Files[0].Name != "notes.txt" {
		t.Fatalf("unexpected file list: %+v", list.Files)
	}

	resp, raw = request(t, client, http.MethodGet, ts.URL+"/preview/notes.txt")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview status: %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected preview content type: %s", resp.Header.Get("Content-Type"))
	}
	if string(raw) != "remember the milk" {
		t.Fatalf("unexpected preview body: %s", raw)
	}

	resp, _ = request(t, client, http.MethodDelete, ts.URL+"/api/files/notes.txt")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status: %d", resp.StatusCode)
	}
	resp, _ = request(t, client, http.MethodDelete, ts.URL+"/api/files/notes.txt")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing file, got %d", resp.StatusCode)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Post(ts.URL+"/api/upload", "multipart/form-data; boundary=x", strings.NewReader("--x--\r\n"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", resp.StatusCode)
	}
}

func TestChatImageUpload(t *testing.T) {
	ts := startTestServer(t)
	client := ts.Client()

	body, contentType := multipartBody(t, "image", "cat photo.png", "image/png", "pretend-png-bytes")
	resp, err := client.Post(ts.URL+"/api/upload-chat-image", contentType, body)
	if err != nil {
		t.Fatalf("upload image: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status %d: %s", resp.StatusCode, raw)
	}
	var uploaded ChatImageResponse
	if err := json.Unmarshal(raw, &uploaded); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.HasPrefix(uploaded.URL, "/uploads/chat/") {
		t.Fatalf("image url must live under /uploads/chat/, got %q", uploaded.URL)
	}
	if uploaded.Mime != "image/png" {
		t.Fatalf("unexpected mime: %q", uploaded.Mime)
	}

	// Chat images never show up in the shared-files listing.
	resp, raw = request(t, client, http.MethodGet, ts.URL+"/api/files")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %d", resp.StatusCode)
	}
	var list FileListResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list.Files) != 0 {
		t.Fatalf("chat image leaked into file list: %+v", list.Files)
	}
}

func TestChatImageUploadRejectsNonImages(t *testing.T) {
	ts := startTestServer(t)

	body, contentType := multipartBody(t, "image", "evil.txt", "text/plain", "not an image")
	resp, err := ts.Client().Post(ts.URL+"/api/upload-chat-image", contentType, body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image upload, got %d", resp.StatusCode)
	}
}

func TestDeleteAllFiles(t *testing.T) {
	ts := startTestServer(t)
	client := ts.Client()

	for _, name := range []string{"a.txt", "b.txt"} {
		body, contentType := multipartBody(t, "file", name, "text/plain", "x")
		resp, err := client.Post(ts.URL+"/api/upload", contentType, body)
		if err != nil {
			t.Fatalf("upload %s: %v", name, err)
		}
		resp.Body.Close()
	}

	resp, raw := request(t, client, http.MethodDelete, ts.URL+"/api/files")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete all status: %d", resp.StatusCode)
	}
	var deleted struct {
		OK      bool `json:"ok"`
		Deleted int  `json:"deleted"`
	}
	if err := json.Unmarshal(raw, &deleted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !deleted.OK || deleted.Deleted != 2 {
		t.Fatalf("unexpected delete-all response: %+v", deleted)
	}
}

func TestPreviewRejectsBinaries(t *testing.T) {
	ts := startTestServer(t)
	client := ts.Client()

	body, contentType := multipartBody(t, "file", "blob.bin", "application/octet-stream", "\x00\x01")
	resp, err := client.Post(ts.URL+"/api/upload", contentType, body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()

	resp, _ = request(t, client, http.MethodGet, ts.URL+"/preview/blob.bin")
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 for binary preview, got %d", resp.StatusCode)
	}

	resp, _ = request(t, client, http.MethodGet, ts.URL+"/preview/ghost.txt")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing preview, got %d", resp.StatusCode)
	}
}
