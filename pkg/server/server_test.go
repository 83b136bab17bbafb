package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetfamily/roster/pkg/config"
	"github.com/streetfamily/roster/pkg/models"
	"github.com/streetfamily/roster/pkg/roster"
	"github.com/streetfamily/roster/pkg/storage"
	"github.com/streetfamily/roster/pkg/workbook"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := roster.NewStore(roster.NewMapper(nil), storage.NewMemory(), log.New(io.Discard))
	return New(&config.Config{Addr: "127.0.0.1:0"}, store, log.New(io.Discard))
}

func uploadRoster(t *testing.T, s *Server) {
	t.Helper()
	rows := [][]any{
		{"Saison 2025-2026"},
		{"Fiche", "Nom Prénom", "Cours", "Nb heures", "Réduction", "Montant dû", "Type paiement", "Payé 1", "Date 1"},
		{"True", "Dupont Alice", "Hip-Hop", "2", "", "225", "Année", "225", "10/09"},
		{"", "Martin Bob", "Breakdance", "1", "", "140", "Année", "100", "12/09"},
	}
	data, err := workbook.Encode(rows)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("roster", "inscriptions.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestUploadAndList(t *testing.T) {
	s := newTestServer(t)
	uploadRoster(t, s)

	code, out := doJSON(t, s, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusOK, code)

	students := out["students"].([]any)
	require.Len(t, students, 2)
	first := students[0].(map[string]any)
	assert.Equal(t, "Dupont Alice", first["name"])
	assert.Equal(t, models.StatusPaid, first["status"])
}

func TestUploadRejectsGarbage(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("roster", "inscriptions.xlsx")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not a workbook"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	uploadRoster(t, s)

	code, out := doJSON(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, code)

	stats := out["stats"].(map[string]any)
	assert.Equal(t, 2.0, stats["total"])
	assert.Equal(t, 1.0, stats["paid"])
	assert.Equal(t, 1.0, stats["partial"])
}

func TestEditStudent(t *testing.T) {
	s := newTestServer(t)
	uploadRoster(t, s)

	code, out := doJSON(t, s, http.MethodPost, "/api/students/3", map[string]any{
		"paid2": 40.0,
		"date2": "01/10",
	})
	require.Equal(t, http.StatusOK, code)

	student := out["student"].(map[string]any)
	assert.Equal(t, models.StatusPaid, student["status"])
	assert.Equal(t, 140.0, student["amountPaid"])
}

func TestEditHeaderRowIgnored(t *testing.T) {
	s := newTestServer(t)
	uploadRoster(t, s)

	code, out := doJSON(t, s, http.MethodPost, "/api/students/1", map[string]any{})
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, out["student"])

	code, out = doJSON(t, s, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["students"].([]any), 2)
}

func TestToggleStudent(t *testing.T) {
	s := newTestServer(t)
	uploadRoster(t, s)

	code, out := doJSON(t, s, http.MethodPost, "/api/students/2/toggle", nil)
	require.Equal(t, http.StatusOK, code)

	student := out["student"].(map[string]any)
	assert.Equal(t, false, student["active"])
}

func TestReminder(t *testing.T) {
	s := newTestServer(t)
	uploadRoster(t, s)

	code, out := doJSON(t, s, http.MethodPost, "/api/students/3/reminder?style=formal", nil)
	require.Equal(t, http.StatusOK, code)
	msg := out["message"].(string)
	assert.Contains(t, msg, "Bob")
	assert.Contains(t, msg, "40.00€")

	code, _ = doJSON(t, s, http.MethodPost, "/api/students/99/reminder", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestInvalidStudentID(t *testing.T) {
	s := newTestServer(t)
	code, _ := doJSON(t, s, http.MethodPost, "/api/students/abc", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestExportDownload(t *testing.T) {
	s := newTestServer(t)
	uploadRoster(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/export?status=1&balance=1", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "SF_Inscriptions_Export_")

	rows, err := workbook.Decode(rec.Body.Bytes(), "export.xlsx")
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	labels := rows[0]
	assert.Equal(t, "Statut", labels[len(labels)-2])
	assert.Equal(t, "Solde Restant", labels[len(labels)-1])
}

func TestVisibilityRoundTrip(t *testing.T) {
	s := newTestServer(t)

	code, _ := doJSON(t, s, http.MethodPut, "/api/visibility", map[string]bool{"telStudent": false})
	require.Equal(t, http.StatusOK, code)

	code, out := doJSON(t, s, http.MethodGet, "/api/visibility", nil)
	require.Equal(t, http.StatusOK, code)
	vis := out["visibility"].(map[string]any)
	assert.Equal(t, false, vis["telStudent"])
}

func TestTarifs(t *testing.T) {
	s := newTestServer(t)
	code, out := doJSON(t, s, http.MethodGet, "/api/tarifs", nil)
	require.Equal(t, http.StatusOK, code)

	tarifs := out["tarifs"].(map[string]any)
	rates := tarifs["Rates"].([]any)
	assert.Len(t, rates, 9)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/students", "/api/stats", "/api/export", "/api/tarifs"} {
		code, out := doJSON(t, s, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, code, path)
		assert.Equal(t, "error", out["status"], path)
	}
	code, _ := doJSON(t, s, http.MethodGet, "/api/upload", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestUnknownAction(t *testing.T) {
	s := newTestServer(t)
	uploadRoster(t, s)

	code, _ := doJSON(t, s, http.MethodPost, "/api/students/2/frobnicate", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
