package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"pdfvision/service"
	"pdfvision/storage/session"
	"pdfvision/types"

	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) (*gin.Engine, *session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewStore(t.TempDir())
	pipeline := service.NewPipelineService(store)
	h := NewDocumentHandler(pipeline, store)

	r := gin.New()
	api := r.Group("/api/v1/document")
	api.POST("/upload", h.Upload)
	api.GET("/:id/progress", h.Progress)
	api.GET("/:id/content", h.Content)
	api.GET("/:id/export", h.Export)
	api.DELETE("/:id", h.Reset)
	return r, store
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (int, string, map[string]any) {
	t.Helper()
	var body struct {
		Code int            `json:"code"`
		Msg  string         `json:"msg"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json response %q: %v", w.Body.String(), err)
	}
	return body.Code, body.Msg, body.Data
}

func multipartPDF(t *testing.T, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "upload.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	for k, v := range extra {
		_ = mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadMissingFile(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/document/upload", strings.NewReader(""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if code, _, _ := decode(t, w); code != -1 {
		t.Errorf("code = %d, want -1", code)
	}
}

func TestUploadCorruptPDFLeavesNoTempFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	store := session.NewStore(root)
	h := NewDocumentHandler(service.NewPipelineService(store), store)
	r := gin.New()
	r.POST("/api/v1/document/upload", h.Upload)

	body, ct := multipartPDF(t, []byte("this is not a pdf"), map[string]string{
		"process_images": "false",
		"process_formulas": "false",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/document/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if code, msg, _ := decode(t, w); code != -1 {
		t.Errorf("corrupt upload: code = %d msg = %q", code, msg)
	}

	// 校验在建会话之前：坏文件不能留下任何会话临时目录
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("corrupt upload left %d entries in temp root", len(entries))
	}
}

func TestProgressUnknownSession(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/document/nope/progress", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestProgressKnownSession(t *testing.T) {
	r, store := newTestServer(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	sess.SetProgress("Processing regions...", 45)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/document/"+sess.ID+"/progress", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	code, _, data := decode(t, w)
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	if data["stage"] != "Processing regions..." || data["percent"].(float64) != 45 {
		t.Errorf("progress data = %v", data)
	}
}

func TestContentBeforeDone(t *testing.T) {
	r, store := newTestServer(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/document/"+sess.ID+"/content", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if code, _, _ := decode(t, w); code != -1 {
		t.Errorf("code = %d, want -1 before processing finishes", code)
	}
}

func attachDoc(sess *session.Session) *types.Document {
	doc := &types.Document{
		ID:        "doc-42",
		FileName:  "paper.pdf",
		PageCount: 1,
		Content: []*types.Region{
			{Type: types.RegionTitle, Page: 1, Content: "Results", Status: types.StatusProcessed},
			{Type: types.RegionText, Page: 1, Content: "Findings hold.", Status: types.StatusProcessed},
		},
		CreatedAt:   time.Now(),
		ProcessTime: time.Second,
	}
	sess.SetDocument(doc)
	return doc
}

func TestContentAfterDone(t *testing.T) {
	r, store := newTestServer(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	attachDoc(sess)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/document/"+sess.ID+"/content", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	code, _, data := decode(t, w)
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	if data["document_id"] != "doc-42" || data["page_count"].(float64) != 1 {
		t.Errorf("content data = %v", data)
	}
	items, ok := data["content"].([]any)
	if !ok || len(items) != 2 {
		t.Errorf("content items = %v", data["content"])
	}
}

func TestExportDownload(t *testing.T) {
	r, store := newTestServer(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	attachDoc(sess)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/document/"+sess.ID+"/export?format="+url.QueryEscape("markdown"), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/markdown") {
		t.Errorf("content-type = %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, `extracted_paper.pdf.md`) {
		t.Errorf("content-disposition = %q", got)
	}
	if !strings.Contains(w.Body.String(), "### Results") {
		t.Errorf("markdown body:\n%s", w.Body.String())
	}
}

func TestExportDefaultsToText(t *testing.T) {
	r, store := newTestServer(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	attachDoc(sess)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/document/"+sess.ID+"/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("content-type = %q", got)
	}
	if !strings.Contains(w.Body.String(), "PDF CONTENT EXTRACTION RESULTS") {
		t.Error("text export missing header line")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	r, store := newTestServer(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	attachDoc(sess)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/document/"+sess.ID+"/export?format=docx", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if code, msg, _ := decode(t, w); code != -1 || !strings.Contains(msg, "docx") {
		t.Errorf("code=%d msg=%q", code, msg)
	}
}

func TestResetDeletesSession(t *testing.T) {
	r, store := newTestServer(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/document/"+sess.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if code, _, _ := decode(t, w); code != 0 {
		t.Fatalf("code = %d", code)
	}
	if _, ok := store.Get(sess.ID); ok {
		t.Error("session survived reset")
	}
	if _, err := os.Stat(sess.TempDir); !os.IsNotExist(err) {
		t.Error("temp dir survived reset")
	}

	// 再删一次应当 404
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/document/"+sess.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestParseBool(t *testing.T) {
	for v, want := range map[string]bool{
		"true": true, "1": true, "on": true, "yes": true, "": true,
		"false": false, "0": false, "off": false, "no": false,
	} {
		if got := parseBool(v); got != want {
			t.Errorf("parseBool(%q) = %v, want %v", v, got, want)
		}
	}
}
