package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/specplot/internal/processing"
	"github.com/RMahshie/specplot/internal/render"
	"github.com/RMahshie/specplot/internal/repository/memory"
	"github.com/RMahshie/specplot/internal/storage"
)

func multipartBody(t *testing.T, files map[string]string) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range []string{"run_A001.txt", "run_B002.txt", "bad.txt"} {
		content, ok := files[name]
		if !ok {
			continue
		}
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return "Content-Type: " + w.FormDataContentType(), &buf
}

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "/artifacts")
	require.NoError(t, err)
	svc := processing.NewService(memory.NewSessionRepository(), store, processing.Options{
		SmoothWindow: 3,
		SmoothOrder:  2,
		Render:       render.Options{Width: 320, Height: 240},
	})

	_, api := humatest.New(t)
	RegisterRoutes(api, svc, 1<<20)
	return api
}

func createSession(t *testing.T, api humatest.TestAPI) string {
	t.Helper()
	resp := api.Post("/api/sessions", struct{}{})
	require.Equal(t, http.StatusCreated, resp.Code)
	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.ID)
	return body.ID
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "healthy")
}

func TestSessionWorkflow(t *testing.T) {
	api := newTestAPI(t)
	id := createSession(t, api)
	base := "/api/sessions/" + id

	// nothing loaded yet
	resp := api.Get(base + "/charts/simple")
	assert.Equal(t, http.StatusConflict, resp.Code)

	header, body := multipartBody(t, map[string]string{
		"run_A001.txt": "500 10\n600 30\n700 20\n",
		"run_B002.txt": "500 1\n600 4\n700 2\n",
	})
	resp = api.Put(base+"/files", header, body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "run_B002.txt")

	resp = api.Get(base + "/charts/simple?energy=true")
	require.Equal(t, http.StatusOK, resp.Code)
	var chart struct {
		XLabel    string `json:"x_label"`
		YLabel    string `json:"y_label"`
		XReversed bool   `json:"x_reversed"`
		Series    []struct {
			Name string    `json:"name"`
			Y    []float64 `json:"y"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &chart))
	assert.Equal(t, "Energy (eV)", chart.XLabel)
	assert.Equal(t, "Normalized intensity (arb.u.)", chart.YLabel, "normalize defaults to on")
	assert.True(t, chart.XReversed)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, []float64{0, 1, 0.5}, chart.Series[0].Y)

	resp = api.Get(base + "/charts/simple.svg?normalize=false&log_y=true")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/svg+xml", resp.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(resp.Body.String()), "<svg"))

	resp = api.Get(base + "/charts/peaks")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"wavelength":600`)

	resp = api.Post(base+"/charts/multi", map[string]any{"mode": "overall", "shift": []float64{0, 5}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "same exposure condition")

	resp = api.Post(base+"/charts/multi", map[string]any{"legend": []string{"only one"}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = api.Post(base+"/artifacts", map[string]any{"format": "svg"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "/artifacts/simple.svg")

	resp = api.Get(base + "/artifacts/smooth?format=svg")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/svg+xml", resp.Header().Get("Content-Type"))

	resp = api.Get(base + "/artifacts/simple?format=png")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Get(base + "/export.xlsx")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("PK")))

	resp = api.Delete(base)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	resp = api.Get(base + "/tables")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSimpleChart_ShortFiles(t *testing.T) {
	api := newTestAPI(t)
	id := createSession(t, api)
	base := "/api/sessions/" + id

	header, body := multipartBody(t, map[string]string{"run_A001.txt": "500 10\n600 30\n"})
	require.Equal(t, http.StatusOK, api.Put(base+"/files", header, body).Code)

	resp := api.Get(base + "/charts/simple")
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	resp = api.Get(base + "/charts/peaks")
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "invalid smoothing window")
}

func TestUploadAllOrNothing(t *testing.T) {
	api := newTestAPI(t)
	id := createSession(t, api)
	base := "/api/sessions/" + id

	header, body := multipartBody(t, map[string]string{"run_A001.txt": "500 10\n600 30\n"})
	require.Equal(t, http.StatusOK, api.Put(base+"/files", header, body).Code)

	header, body = multipartBody(t, map[string]string{
		"run_B002.txt": "500 1\n600 4\n",
		"bad.txt":      "500 1 2\n",
	})
	resp := api.Put(base+"/files", header, body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "bad.txt")

	resp = api.Get(base + "/tables")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "run_A001.txt")
	assert.NotContains(t, resp.Body.String(), "run_B002.txt")
}

func TestUnknownSession(t *testing.T) {
	api := newTestAPI(t)
	assert.Equal(t, http.StatusNotFound, api.Get("/api/sessions/nope/tables").Code)
	assert.Equal(t, http.StatusNotFound, api.Delete("/api/sessions/nope").Code)
}
