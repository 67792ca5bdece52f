package process

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"absencer/internal/api"
	"absencer/internal/export"
	"absencer/internal/middleware"
	"absencer/internal/storage"
)

const downloadTimestamp = "20060102_150405"

// Handler exposes the pipeline and the roster store over HTTP.
type Handler struct {
	Pipeline     *Pipeline
	HistoryLimit int
}

func NewHandler(pipeline *Pipeline, historyLimit int) *Handler {
	return &Handler{Pipeline: pipeline, HistoryLimit: historyLimit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/process", h.HandleProcess)
	r.Post("/employees", h.HandleUpdateEmployees)
	r.Get("/employees/file", h.HandleEmployeesFile)
	r.Get("/employees/status", h.HandleEmployeesStatus)
	r.Get("/runs", h.HandleRuns)
}

// HandleProcess accepts a multipart absence sheet, reconciles it against the
// stored roster and streams the report back in the requested format.
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	file, fileHeader, err := r.FormFile("absencesFile")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "missing_file", "absencesFile is required", reqID)
		return
	}
	defer file.Close()

	format := r.FormValue("format")
	if format == "" {
		format = "excel"
	}
	if format != "excel" && format != "csv" && format != "pdf" {
		api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be excel, csv or pdf", reqID)
		return
	}

	uploadPath, cleanup, err := saveUpload(file, fileHeader.Filename)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", err.Error(), reqID)
		return
	}
	defer cleanup()

	outcome, err := h.Pipeline.Run(r.Context(), uploadPath, fileHeader.Filename, format)
	if err != nil {
		if errors.Is(err, ErrNoRoster) {
			api.Fail(w, http.StatusBadRequest, "no_roster", "upload an employee roster first", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "process_failed", err.Error(), reqID)
		return
	}

	stamp := time.Now().Format(downloadTimestamp)
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", attachment("absence_report_"+stamp+".csv"))
		err = export.CSV(w, outcome.Results)
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", attachment("absence_report_"+stamp+".pdf"))
		err = export.PDF(w, export.RunSummary{
			GeneratedAt: time.Now(),
			Employees:   outcome.Employees,
			Processed:   outcome.Processed,
			Excluded:    outcome.Excluded,
			Errored:     len(outcome.Errors),
			Matched:     outcome.Stats.Matched,
			Unmatched:   outcome.Stats.Unmatched,
		}, outcome.Results)
	default:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", attachment("absence_report_"+stamp+".xlsx"))
		err = export.Excel(w, outcome.Results)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", err.Error(), reqID)
	}
}

// HandleUpdateEmployees replaces the stored roster with the uploaded file.
func (h *Handler) HandleUpdateEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	file, fileHeader, err := r.FormFile("employeesFile")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "missing_file", "employeesFile is required", reqID)
		return
	}
	defer file.Close()

	if err := h.Pipeline.Storage.ReplaceRoster(file, fileHeader.Filename); err != nil {
		if errors.Is(err, storage.ErrUnsupportedFile) {
			api.Fail(w, http.StatusBadRequest, "unsupported_file", err.Error(), reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "store_failed", err.Error(), reqID)
		return
	}
	api.Success(w, map[string]string{"message": "employee roster updated"}, reqID)
}

// HandleEmployeesFile serves the current roster file as a download.
func (h *Handler) HandleEmployeesFile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	path, ok := h.Pipeline.Storage.RosterPath()
	if !ok {
		api.Fail(w, http.StatusNotFound, "no_roster", "no employee roster uploaded", reqID)
		return
	}
	w.Header().Set("Content-Disposition", attachment(filepath.Base(path)))
	http.ServeFile(w, r, path)
}

type rosterStatus struct {
	Exists       bool       `json:"exists"`
	Name         string     `json:"name,omitempty"`
	Size         int64      `json:"size,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// HandleEmployeesStatus reports whether a roster exists and its metadata.
func (h *Handler) HandleEmployeesStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	info, err := h.Pipeline.Storage.RosterInfo()
	if err != nil {
		api.Success(w, rosterStatus{Exists: false}, reqID)
		return
	}
	modified := info.ModTime()
	api.Success(w, rosterStatus{
		Exists:       true,
		Name:         info.Name(),
		Size:         info.Size(),
		LastModified: &modified,
	}, reqID)
}

// HandleRuns lists recent reconciliation runs. Without a configured database
// the history is simply empty, not an error.
func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	if h.Pipeline.Runs == nil {
		api.Fail(w, http.StatusNotFound, "history_disabled", "run history requires a database", reqID)
		return
	}
	limit := h.HistoryLimit
	if limit <= 0 {
		limit = 50
	}
	history, err := h.Pipeline.Runs.List(r.Context(), limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "history_failed", err.Error(), reqID)
		return
	}
	api.Success(w, history, reqID)
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}

// saveUpload spills the multipart part to a temp file so the pipeline can
// open it by extension.
func saveUpload(r io.Reader, fileName string) (string, func(), error) {
	ext := filepath.Ext(fileName)
	if ext == "" {
		return "", nil, fmt.Errorf("upload %q has no file extension", fileName)
	}
	tmp, err := os.CreateTemp("", "absences-*"+ext)
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}
