package process

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"absencer/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	pipeline := NewPipeline(storage.New(t.TempDir()), nil, nil)
	pipeline.Now = func() time.Time {
		return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	}

	router := chi.NewRouter()
	NewHandler(pipeline, 10).RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func multipartUpload(t *testing.T, field, fileName, content string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	for key, value := range extra {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestProcessEndToEnd(t *testing.T) {
	server := newTestServer(t)

	body, contentType := multipartUpload(t, "employeesFile", "employees.csv", rosterCSV, nil)
	resp, err := http.Post(server.URL+"/employees", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	absences := strings.Join([]string{
		"meta", "meta", "meta",
		absenceCSVRow("Ion", "Popescu", "Vacation", "01.07.2024", "05.07.2024", "APPROVED"),
		absenceCSVRow("Maria", "Ionescu", "Sick Leave", "2024-06-20", "2024-06-21", "PENDING"),
	}, "\n") + "\n"

	body, contentType = multipartUpload(t, "absencesFile", "absences.csv", absences,
		map[string]string{"format": "csv"})
	resp, err = http.Post(server.URL+"/process", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "absence_report_")

	report, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(report)), "\n")
	require.Equal(t, []string{
		"USER-ID,email,absent from,absent until",
		"u-100,ion.popescu@example.com,01.07.2024,05.07.2024",
		"u-200,maria.ionescu@example.com,20.06.2024,21.06.2024",
	}, lines)
}

func TestProcessWithoutRoster(t *testing.T) {
	server := newTestServer(t)

	body, contentType := multipartUpload(t, "absencesFile", "absences.csv", "meta\n", nil)
	resp, err := http.Post(server.URL+"/process", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcessRejectsUnknownFormat(t *testing.T) {
	server := newTestServer(t)

	body, contentType := multipartUpload(t, "absencesFile", "absences.csv", "meta\n",
		map[string]string{"format": "xml"})
	resp, err := http.Post(server.URL+"/process", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEmployeesStatusLifecycle(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/employees/status")
	require.NoError(t, err)
	var envelope struct {
		Success bool         `json:"success"`
		Data    rosterStatus `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	require.True(t, envelope.Success)
	require.False(t, envelope.Data.Exists)

	body, contentType := multipartUpload(t, "employeesFile", "employees.csv", rosterCSV, nil)
	resp, err = http.Post(server.URL+"/employees", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/employees/status")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	require.True(t, envelope.Data.Exists)
	require.Equal(t, "employees.csv", envelope.Data.Name)

	resp, err = http.Get(server.URL + "/employees/file")
	require.NoError(t, err)
	downloaded, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, rosterCSV, string(downloaded))
}

func TestEmployeesRejectsUnsupportedType(t *testing.T) {
	server := newTestServer(t)

	body, contentType := multipartUpload(t, "employeesFile", "employees.txt", "whatever", nil)
	resp, err := http.Post(server.URL+"/employees", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunsWithoutDatabase(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
