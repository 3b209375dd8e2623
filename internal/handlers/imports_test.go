package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymops-platform/api/internal/audit"
	"github.com/gymops-platform/api/internal/config"
	"github.com/gymops-platform/api/internal/domain"
	"github.com/gymops-platform/api/internal/importer"
	"github.com/gymops-platform/api/internal/middleware"
	"github.com/gymops-platform/api/internal/repo"
)

// Stub repositories. Handler tests exercise request parsing, run
// bookkeeping, and response shape; row semantics are covered in the
// importer package.

type stubMemberRepo struct{ created []domain.Member }

func (s *stubMemberRepo) Create(ctx context.Context, m domain.Member) (domain.Member, error) {
	m.ID = uuid.New()
	s.created = append(s.created, m)
	return m, nil
}

func (s *stubMemberRepo) Update(ctx context.Context, m domain.Member) (domain.Member, error) {
	return m, nil
}

func (s *stubMemberRepo) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (domain.Member, error) {
	return domain.Member{}, domain.ErrNotFound
}

func (s *stubMemberRepo) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (domain.Member, error) {
	return domain.Member{}, domain.ErrNotFound
}

func (s *stubMemberRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Member, error) {
	return domain.Member{}, domain.ErrNotFound
}

type stubImportRunRepo struct {
	runs map[uuid.UUID]domain.ImportRun
}

func newStubImportRunRepo() *stubImportRunRepo {
	return &stubImportRunRepo{runs: make(map[uuid.UUID]domain.ImportRun)}
}

func (s *stubImportRunRepo) Create(ctx context.Context, run domain.ImportRun) (domain.ImportRun, error) {
	run.ID = uuid.New()
	run.CreatedAt = time.Now()
	s.runs[run.ID] = run
	return run, nil
}

func (s *stubImportRunRepo) Complete(ctx context.Context, tenantID, id uuid.UUID, status string, summary []byte) (domain.ImportRun, error) {
	run := s.runs[id]
	run.Status = status
	run.Summary = summary
	now := time.Now()
	run.CompletedAt = &now
	s.runs[id] = run
	return run, nil
}

func (s *stubImportRunRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.ImportRun, error) {
	run, ok := s.runs[id]
	if !ok {
		return domain.ImportRun{}, domain.ErrNotFound
	}
	return run, nil
}

type discardAuditRepo struct{}

func (discardAuditRepo) Insert(ctx context.Context, e repo.AuditEntry) error { return nil }

type noopIdentity struct{}

func (noopIdentity) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	return "idp-" + email, nil
}

func newTestServer(t *testing.T) (*Server, *stubMemberRepo, *stubImportRunRepo) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	members := &stubMemberRepo{}
	runs := newStubImportRunRepo()

	coordinator := &importer.Coordinator{
		Members:     members,
		Provisioner: importer.NewProvisioner(noopIdentity{}, 0, 0, logger),
		Log:         logger,
	}
	srv := NewServer(
		config.Config{ImportMaxRows: 100},
		logger,
		audit.NewLogger(discardAuditRepo{}),
		coordinator,
		runs,
	)
	return srv, members, runs
}

func actorContext(r *http.Request) *http.Request {
	actor := middleware.Actor{TenantID: uuid.New(), TenantSlug: "iron-temple"}
	return r.WithContext(middleware.WithActor(r.Context(), actor))
}

func multipartUpload(t *testing.T, csvBody string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "members.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestPostImportsHappyPath(t *testing.T) {
	srv, members, runs := newTestServer(t)

	body, contentType := multipartUpload(t,
		"Full Name,Email\nAlice Jones,alice@gym.io\nBob Lee,bob@gym.io\n",
		map[string]string{"dataType": "users"},
	)

	req := actorContext(httptest.NewRequest(http.MethodPost, "/api/imports", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.PostImports(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp importRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Success)
	assert.Equal(t, 2, resp.Result.Imported)
	assert.Len(t, members.created, 2)
	assert.Equal(t, "Alice", members.created[0].FirstName)

	// The run record persisted with the final summary.
	run := runs.runs[uuid.UUID(resp.ID)]
	assert.Equal(t, domain.ImportRunCompleted, run.Status)
	assert.NotEmpty(t, run.FileSHA256)
}

func TestPostImportsRejectsUnknownDataType(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body, contentType := multipartUpload(t, "a,b\n1,2\n", map[string]string{"dataType": "aliens"})
	req := actorContext(httptest.NewRequest(http.MethodPost, "/api/imports", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.PostImports(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestPostImportsRejectsNonCSV(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "members.xlsx")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("binary"))
	require.NoError(t, w.WriteField("dataType", "users"))
	require.NoError(t, w.Close())

	req := actorContext(httptest.NewRequest(http.MethodPost, "/api/imports", &buf))
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	srv.PostImports(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_file_type")
}

func TestPostImportsContentTypes(t *testing.T) {
	upload := func(t *testing.T, partType string) *httptest.ResponseRecorder {
		t.Helper()
		srv, _, _ := newTestServer(t)

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="members.csv"`)
		h.Set("Content-Type", partType)
		fw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = fw.Write([]byte("Full Name,Email\nAlice Jones,alice@gym.io\n"))
		require.NoError(t, err)
		require.NoError(t, w.WriteField("dataType", "users"))
		require.NoError(t, w.Close())

		req := actorContext(httptest.NewRequest(http.MethodPost, "/api/imports", &buf))
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		srv.PostImports(rec, req)
		return rec
	}

	// Browsers send text/csv; plain multipart writers fall back to
	// application/octet-stream. Both carry valid files.
	for _, partType := range []string{"text/csv", "application/octet-stream"} {
		rec := upload(t, partType)
		assert.Equal(t, http.StatusOK, rec.Code, "part type %s: %s", partType, rec.Body.String())
	}

	rec := upload(t, "image/png")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_content_type")
}

func TestPostImportsRowLimit(t *testing.T) {
	srv, _, _ := newTestServer(t)
	srv.Config.ImportMaxRows = 1

	body, contentType := multipartUpload(t,
		"Full Name\nAlice Jones\nBob Lee\n",
		map[string]string{"dataType": "users"},
	)
	req := actorContext(httptest.NewRequest(http.MethodPost, "/api/imports", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.PostImports(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "row_limit_exceeded")
}

func TestPostImportsRequiresAuth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body, contentType := multipartUpload(t, "Full Name\nAlice\n", map[string]string{"dataType": "users"})
	req := httptest.NewRequest(http.MethodPost, "/api/imports", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.PostImports(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostImportMappings(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body, contentType := multipartUpload(t,
		"Member Name,E-Mail,Mobile\nAlice Jones,a@b.c,555\n",
		map[string]string{"dataType": "users"},
	)
	req := actorContext(httptest.NewRequest(http.MethodPost, "/api/imports/mappings", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.PostImportMappings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp mappingDetectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Member Name", "E-Mail", "Mobile"}, resp.Headers)

	byTarget := make(map[string]string)
	for _, m := range resp.Mappings {
		byTarget[m.Target] = m.Source
	}
	assert.Equal(t, "Member Name", byTarget["full_name"])
	assert.Equal(t, "E-Mail", byTarget["email"])
	assert.Equal(t, "Mobile", byTarget["phone"])
}

func TestGetImportRun(t *testing.T) {
	srv, _, runs := newTestServer(t)

	summary, _ := json.Marshal(importer.Result{Success: true, TotalRecords: 5, Imported: 5})
	created, err := runs.Create(context.Background(), domain.ImportRun{DataType: "users", Status: domain.ImportRunRunning})
	require.NoError(t, err)
	_, err = runs.Complete(context.Background(), uuid.Nil, created.ID, domain.ImportRunCompleted, summary)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Get("/api/imports/{id}", srv.GetImportRun)

	req := actorContext(httptest.NewRequest(http.MethodGet, "/api/imports/"+created.ID.String(), nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp importRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, 5, resp.Result.Imported)
}

func TestGetImportTemplate(t *testing.T) {
	srv, _, _ := newTestServer(t)

	router := chi.NewRouter()
	router.Get("/api/imports/templates/{dataType}", srv.GetImportTemplate)

	req := actorContext(httptest.NewRequest(http.MethodGet, "/api/imports/templates/packages", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "name,description,price,duration_days")

	req = actorContext(httptest.NewRequest(http.MethodGet, "/api/imports/templates/aliens", nil))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
