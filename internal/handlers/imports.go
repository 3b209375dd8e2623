package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/gymops-platform/api/internal/audit"
	"github.com/gymops-platform/api/internal/domain"
	"github.com/gymops-platform/api/internal/httpx"
	"github.com/gymops-platform/api/internal/importer"
	"github.com/gymops-platform/api/internal/middleware"
)

// application/octet-stream is what multipart writers label file parts
// with when the uploader does not sniff the type.
var supportedCSVContentTypes = map[string]struct{}{
	"text/csv":                 {},
	"application/csv":          {},
	"application/vnd.ms-excel": {},
	"application/octet-stream": {},
}

type appError struct {
	Status  int
	Code    string
	Message string
	Details any
}

type parsedImportFile struct {
	filename   string
	fileSHA256 string
	dataType   importer.Kind
	onDup      importer.DuplicateHandling
	mappings   []importer.FieldMapping
	headers    []string
	records    []importer.Record
}

type importRunResponse struct {
	ID                openapi_types.UUID `json:"id"`
	DataType          string             `json:"dataType"`
	DuplicateHandling string             `json:"duplicateHandling"`
	Filename          string             `json:"filename"`
	FileSHA256        string             `json:"fileSha256"`
	Status            string             `json:"status"`
	Result            *importer.Result   `json:"result,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	CompletedAt       *time.Time         `json:"completedAt,omitempty"`
	RequestID         string             `json:"requestId"`
}

// PostImports runs a bulk import synchronously: the response carries the
// full per-row report. The client's context drives cancellation, so an
// operator closing the upload dialog stops the run at the next row.
func (s *Server) PostImports(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	parsed, appErr := parseImportUpload(r, s.Config.ImportMaxRows)
	if appErr != nil {
		httpx.WriteError(w, r, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
		return
	}

	run, err := s.ImportRuns.Create(r.Context(), domain.ImportRun{
		TenantID:          actor.TenantID,
		DataType:          string(parsed.dataType),
		DuplicateHandling: string(parsed.onDup),
		Filename:          parsed.filename,
		FileSHA256:        parsed.fileSHA256,
		Status:            domain.ImportRunRunning,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create import run", nil)
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	runID := run.ID
	_ = s.Audit.Log(r.Context(), audit.Entry{
		TenantID:   actor.TenantID,
		Action:     "import.started",
		EntityType: "import_run",
		EntityID:   &runID,
		RequestID:  requestID,
		Metadata: map[string]any{
			"dataType":   parsed.dataType,
			"filename":   parsed.filename,
			"fileSha256": parsed.fileSHA256,
			"rowsTotal":  len(parsed.records),
		},
	})

	result := s.Coordinator.Run(r.Context(), importer.Config{
		TenantID:    actor.TenantID,
		DataType:    parsed.dataType,
		OnDuplicate: parsed.onDup,
		Mappings:    parsed.mappings,
	}, parsed.records)

	finalStatus := domain.ImportRunCompleted
	switch {
	case result.Cancelled:
		finalStatus = domain.ImportRunCancelled
	case !result.Success:
		finalStatus = domain.ImportRunFailed
	}

	summaryJSON, _ := json.Marshal(result)
	// Completion is written on a fresh context: the run record must land
	// even when the client cancelled the request.
	completeCtx := context.WithoutCancel(r.Context())
	run, err = s.ImportRuns.Complete(completeCtx, actor.TenantID, run.ID, finalStatus, summaryJSON)
	if err != nil {
		s.Logger.Error("complete import run", "run_id", runID, "error", err)
	}

	_ = s.Audit.Log(completeCtx, audit.Entry{
		TenantID:   actor.TenantID,
		Action:     "import.completed",
		EntityType: "import_run",
		EntityID:   &runID,
		RequestID:  requestID,
		Metadata: map[string]any{
			"dataType": parsed.dataType,
			"status":   finalStatus,
			"imported": result.Imported,
			"updated":  result.Updated,
			"skipped":  result.Skipped,
			"failed":   result.Failed,
		},
	})

	httpx.WriteJSON(w, http.StatusOK, mapImportRunResponse(run, &result, requestID))
}

type mappingDetectionResponse struct {
	DataType     string                  `json:"dataType"`
	Headers      []string                `json:"headers"`
	Mappings     []importer.FieldMapping `json:"mappings"`
	TargetFields []importer.FieldSpec    `json:"targetFields"`
	RequestID    string                  `json:"requestId"`
}

// PostImportMappings previews an upload: it reads only the header row and
// proposes a column mapping for the operator to adjust before the real
// import.
func (s *Server) PostImportMappings(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	parsed, appErr := parseImportUpload(r, s.Config.ImportMaxRows)
	if appErr != nil {
		httpx.WriteError(w, r, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, mappingDetectionResponse{
		DataType:     string(parsed.dataType),
		Headers:      parsed.headers,
		Mappings:     parsed.mappings,
		TargetFields: importer.TargetFields(parsed.dataType),
		RequestID:    middleware.RequestIDFromContext(r.Context()),
	})
}

func (s *Server) GetImportRun(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Import run id must be a UUID", nil)
		return
	}

	run, err := s.ImportRuns.GetByID(r.Context(), actor.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httpx.WriteError(w, r, http.StatusNotFound, "not_found", "Import run not found", nil)
			return
		}
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load import run", nil)
		return
	}

	var result *importer.Result
	if len(run.Summary) > 0 && !bytes.Equal(run.Summary, []byte(`{}`)) {
		var parsed importer.Result
		if err := json.Unmarshal(run.Summary, &parsed); err == nil {
			result = &parsed
		}
	}

	httpx.WriteJSON(w, http.StatusOK, mapImportRunResponse(run, result, middleware.RequestIDFromContext(r.Context())))
}

// GetImportTemplate serves a one-line CSV whose headers are the canonical
// field names, so operators can fill a clean sheet instead of fighting the
// auto-detector.
func (s *Server) GetImportTemplate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	kind := importer.Kind(chi.URLParam(r, "dataType"))
	if !kind.Valid() {
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", "Unknown import template", nil)
		return
	}

	specs := importer.TargetFields(kind)
	headers := make([]string, len(specs))
	for i, spec := range specs {
		headers[i] = spec.Field
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+string(kind)+`_template.csv"`)
	writer := csv.NewWriter(w)
	_ = writer.Write(headers)
	writer.Flush()
}

func mapImportRunResponse(run domain.ImportRun, result *importer.Result, requestID string) importRunResponse {
	return importRunResponse{
		ID:                openapi_types.UUID(run.ID),
		DataType:          run.DataType,
		DuplicateHandling: run.DuplicateHandling,
		Filename:          run.Filename,
		FileSHA256:        run.FileSHA256,
		Status:            run.Status,
		Result:            result,
		CreatedAt:         run.CreatedAt,
		CompletedAt:       run.CompletedAt,
		RequestID:         requestID,
	}
}

func parseImportUpload(r *http.Request, maxRows int) (parsedImportFile, *appError) {
	if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_content_type",
			Message: "Content-Type must be multipart/form-data",
		}
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_multipart",
			Message: "Failed to parse multipart form",
		}
	}

	dataType := importer.Kind(strings.TrimSpace(r.FormValue("dataType")))
	if !dataType.Valid() {
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "validation_error",
			Message: "dataType must be one of users, staff, packages, check_ins, memberships",
		}
	}

	onDup := importer.DuplicateHandling(strings.TrimSpace(r.FormValue("onDuplicate")))
	if onDup == "" {
		onDup = importer.DuplicateSkip
	}
	if !onDup.Valid() {
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "validation_error",
			Message: "onDuplicate must be skip, update, or create_new",
		}
	}

	var explicit []importer.FieldMapping
	if raw := strings.TrimSpace(r.FormValue("mappings")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &explicit); err != nil {
			return parsedImportFile{}, &appError{
				Status:  http.StatusBadRequest,
				Code:    "invalid_mappings",
				Message: "mappings must be a JSON array of {sourceField, targetField}",
			}
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "missing_file",
			Message: "file is required",
		}
	}
	defer file.Close()

	filename := header.Filename
	ext := strings.ToLower(filepath.Ext(filename))
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))

	switch ext {
	case ".csv":
		if contentType != "" {
			if _, ok := supportedCSVContentTypes[contentType]; !ok {
				return parsedImportFile{}, &appError{
					Status:  http.StatusBadRequest,
					Code:    "invalid_content_type",
					Message: "Unsupported CSV content type",
					Details: map[string]any{"contentType": contentType},
				}
			}
		}
	case ".xlsx", ".xls":
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_file_type",
			Message: "Excel uploads are not supported. Export the sheet as CSV first.",
		}
	default:
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_file_type",
			Message: "Only .csv uploads are supported",
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_file",
			Message: "Failed to read uploaded file",
		}
	}
	digest := sha256.Sum256(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows := make([][]string, 0, 1024)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return parsedImportFile{}, &appError{
				Status:  http.StatusBadRequest,
				Code:    "invalid_csv",
				Message: "CSV parsing failed",
			}
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "empty_file",
			Message: "Uploaded CSV is empty",
		}
	}

	headers := rows[0]
	for i, h := range headers {
		headers[i] = strings.TrimPrefix(strings.TrimSpace(h), "\uFEFF")
	}
	dataRows := rows[1:]

	if maxRows > 0 && len(dataRows) > maxRows {
		return parsedImportFile{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "row_limit_exceeded",
			Message: "CSV row limit exceeded",
			Details: map[string]any{"maxRows": maxRows},
		}
	}

	mappings := resolveMappings(dataType, headers, explicit)

	records := make([]importer.Record, 0, len(dataRows))
	for _, row := range dataRows {
		rec := make(importer.Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		records = append(records, rec)
	}

	return parsedImportFile{
		filename:   filename,
		fileSHA256: hex.EncodeToString(digest[:]),
		dataType:   dataType,
		onDup:      onDup,
		mappings:   mappings,
		headers:    headers,
		records:    records,
	}, nil
}

// resolveMappings starts from the auto-detected proposal and lets explicit
// client mappings override individual targets. An explicit empty source
// unmaps the target.
func resolveMappings(kind importer.Kind, headers []string, explicit []importer.FieldMapping) []importer.FieldMapping {
	mappings := importer.AutoDetectMappings(kind, headers)
	if len(explicit) == 0 {
		return mappings
	}

	overrides := make(map[string]string, len(explicit))
	for _, m := range explicit {
		overrides[m.Target] = m.Source
	}
	for i, m := range mappings {
		if src, ok := overrides[m.Target]; ok {
			mappings[i].Source = src
		}
	}
	return mappings
}
