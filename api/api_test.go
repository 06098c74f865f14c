package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/fyerfyer/doc-dashboard/api/handler"
	"github.com/fyerfyer/doc-dashboard/api/model"
	"github.com/fyerfyer/doc-dashboard/internal/collection"
	"github.com/fyerfyer/doc-dashboard/internal/document"
	"github.com/fyerfyer/doc-dashboard/internal/kvstore"
	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/fyerfyer/doc-dashboard/internal/services"
	"github.com/fyerfyer/doc-dashboard/internal/upload"
	"github.com/fyerfyer/doc-dashboard/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试环境配置
type apiTestEnv struct {
	Router  *gin.Engine
	Service *services.DashboardService
}

// apiResponse 解析响应时使用，Data保留原始JSON
type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	TraceID string          `json:"trace_id"`
}

// setupAPITestEnv 使用内存快照和临时目录创建完整的路由
func setupAPITestEnv(t *testing.T, capacity int) *apiTestEnv {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	files, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	kv, err := kvstore.New(kvstore.Config{Type: "memory"})
	require.NoError(t, err)

	docs := collection.NewStore(kv, collection.WithCapacity(capacity), collection.WithLogger(logger))
	require.NoError(t, docs.Init(context.Background()))

	gate, err := upload.NewGate(upload.Config{})
	require.NoError(t, err)

	service := services.NewDashboardService(gate, files, document.NewBuilder(document.ModePlaceholder), docs,
		services.WithLogger(logger),
	)

	router := SetupRouter(handler.NewDocumentHandler(service), handler.NewPreviewHandler(service))
	return &apiTestEnv{Router: router, Service: service}
}

// multipartBody 构造带指定Content-Type的文件上传表单
func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func (e *apiTestEnv) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, apiResponse) {
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (e *apiTestEnv) upload(t *testing.T, filename, contentType string, data []byte) (*httptest.ResponseRecorder, apiResponse) {
	body, ct := multipartBody(t, filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", ct)
	return e.do(t, req)
}

func (e *apiTestEnv) uploadCSV(t *testing.T, filename string) model.DocumentCard {
	w, resp := e.upload(t, filename, "text/csv", []byte("a,b\n1,2\n"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var card model.DocumentCard
	require.NoError(t, json.Unmarshal(resp.Data, &card))
	return card
}

func (e *apiTestEnv) post(t *testing.T, path string, body string) (*httptest.ResponseRecorder, apiResponse) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.do(t, req)
}

func previewFrom(t *testing.T, resp apiResponse) model.PreviewResponse {
	var p model.PreviewResponse
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	return p
}

func TestHealth(t *testing.T) {
	env := setupAPITestEnv(t, collection.DefaultCapacity)

	w, resp := env.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestTraceIDIsEchoed(t *testing.T) {
	env := setupAPITestEnv(t, collection.DefaultCapacity)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/missing", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	w, resp := env.do(t, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "trace-123", w.Header().Get("X-Trace-ID"))
	assert.Equal(t, "trace-123", resp.TraceID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUploadAndList(t *testing.T) {
	env := setupAPITestEnv(t, collection.DefaultCapacity)

	first := env.uploadCSV(t, "first.csv")
	second := env.uploadCSV(t, "second.csv")
	assert.Equal(t, models.KindCSV, first.Kind)
	assert.Equal(t, 2, first.PageCount)
	assert.Equal(t, time.Now().UTC().Format(models.CardDateLayout), first.Date)

	w, resp := env.do(t, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list model.DocumentListResponse
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 9, list.Capacity)
	assert.False(t, list.Full)
	require.Len(t, list.Documents, 2)
	assert.Equal(t, first.ID, list.Documents[0].ID)
	assert.Equal(t, second.ID, list.Documents[1].ID)
}

func TestUpload_ExtensionFallback(t *testing.T) {
	env := setupAPITestEnv(t, collection.DefaultCapacity)

	w, resp := env.upload(t, "Budget.XLSX", "application/octet-stream", []byte("PK\x03\x04"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var card model.DocumentCard
	require.NoError(t, json.Unmarshal(resp.Data, &card))
	assert.Equal(t, models.KindXLSX, card.Kind)
}

func TestUpload_Rejections(t *testing.T) {
	env := setupAPITestEnv(t, collection.DefaultCapacity)

	w, resp := env.upload(t, "photo.png", "image/png", []byte("png"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only XLSX, XLS, CSV, and PDF files are allowed", resp.Message)

	w, resp = env.upload(t, "big.pdf", "application/pdf", bytes.Repeat([]byte("x"), 15*1024*1024))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File size must be less than 10MB", resp.Message)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w, _ = env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, env.Service.Documents())
}

func TestUpload_CollectionFull(t *testing.T) {
	env := setupAPITestEnv(t, 1)
	env.uploadCSV(t, "only.csv")

	w, resp := env.upload(t, "extra.csv", "text/csv", []byte("a\n"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Maximum number of documents reached", resp.Message)

	w, resp = env.do(t, httptest.NewRequest(http.MethodGet, "/api/collection", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var status services.CollectionStatus
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, 1, status.Count)
	assert.Equal(t, 1, status.Capacity)
	assert.True(t, status.Full)
}

func TestGetDocumentAndContent(t *testing.T) {
	env := setupAPITestEnv(t, collection.DefaultCapacity)
	card := env.uploadCSV(t, "sheet.csv")

	w, resp := env.do(t, httptest.NewRequest(http.MethodGet, "/api/documents/"+card.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var detail model.DocumentDetail
	require.NoError(t, json.Unmarshal(resp.Data, &detail))
	assert.Equal(t, "sheet.csv", detail.Title)
	require.Len(t, detail.Pages, 2)
	assert.Equal(t, "Sample content for page 1", detail.Pages[0].Content)
	assert.Equal(t, "/api/documents/"+card.ID+"/content", detail.ContentURL)

	w, _ = env.do(t, httptest.NewRequest(http.MethodGet, detail.ContentURL, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "a,b\n1,2\n", w.Body.String())

	w, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/api/documents/missing/content", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewFlow(t *testing.T) {
	env := setupAPITestEnv(t, collection.DefaultCapacity)
	card := env.uploadCSV(t, "sheet.csv")

	w, resp := env.post(t, "/api/documents/"+card.ID+"/preview", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	opened := previewFrom(t, resp)
	require.NotEmpty(t, opened.SessionID)
	assert.Equal(t, 1, opened.Page)
	assert.Equal(t, "Page 1 of 2", opened.Label)
	require.NotNil(t, opened.Current)
	assert.Len(t, opened.Extractions, 2)

	base := "/api/previews/" + opened.SessionID

	w, resp = env.post(t, base+"/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, previewFrom(t, resp).Page)

	w, resp = env.post(t, base+"/previous", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, previewFrom(t, resp).Page)

	w, resp = env.post(t, base+"/goto", `{"page": 40}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, previewFrom(t, resp).Page)

	w, _ = env.post(t, base+"/goto", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = env.do(t, httptest.NewRequest(http.MethodGet, base+"?layout=vertical", nil))
	require.Equal(t, http.StatusOK, w.Code)
	vertical := previewFrom(t, resp)
	assert.Len(t, vertical.Pages, 2)
	assert.Equal(t, "page-2", vertical.ScrollTo)

	w, _ = env.do(t, httptest.NewRequest(http.MethodGet, base+"?layout=diagonal", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, httptest.NewRequest(http.MethodDelete, base, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, httptest.NewRequest(http.MethodGet, base, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreview_UnknownDocument(t *testing.T) {
	env := setupAPITestEnv(t, collection.DefaultCapacity)

	w, resp := env.post(t, "/api/documents/missing/preview", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Document not found", resp.Message)
}

func TestCorsPreflight(t *testing.T) {
	env := setupAPITestEnv(t, collection.DefaultCapacity)

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/documents", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
