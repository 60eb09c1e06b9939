package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/specplot/internal/api/handlers"
	"github.com/RMahshie/specplot/internal/processing"
	"github.com/RMahshie/specplot/pkg/models"
)

// Version is reported by the health endpoint and the OpenAPI document
const Version = "1.0.0"

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, svc processing.Service, maxUploadBytes int64) {
	sessionHandler := handlers.NewSessionHandler(svc, maxUploadBytes)
	chartHandler := handlers.NewChartHandler(svc)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = Version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	// Session routes
	huma.Register(api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/api/sessions",
		Summary:       "Create a session",
		Description:   "Creates an empty session to upload measurement files into",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, sessionHandler.CreateSession)

	huma.Register(api, huma.Operation{
		OperationID: "uploadFiles",
		Method:      http.MethodPut,
		Path:        "/api/sessions/{id}/files",
		Summary:     "Upload measurement files",
		Description: "Replaces the session's tables with the uploaded files. Either every file loads or nothing changes.",
		Tags:        []string{"Sessions"},
	}, sessionHandler.UploadFiles)

	huma.Register(api, huma.Operation{
		OperationID: "listTables",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}/tables",
		Summary:     "List loaded tables",
		Description: "Returns row counts and count statistics of every loaded file",
		Tags:        []string{"Sessions"},
	}, sessionHandler.ListTables)

	huma.Register(api, huma.Operation{
		OperationID: "exportTables",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}/export.xlsx",
		Summary:     "Export tables",
		Description: "Returns a workbook with one sheet per loaded file",
		Tags:        []string{"Sessions"},
	}, sessionHandler.ExportXLSX)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteSession",
		Method:        http.MethodDelete,
		Path:          "/api/sessions/{id}",
		Summary:       "Delete a session",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, sessionHandler.DeleteSession)

	// Chart routes
	huma.Register(api, huma.Operation{
		OperationID: "getSimpleChart",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}/charts/simple",
		Summary:     "Simple plot",
		Description: "Returns one curve per file over wavelength or energy",
		Tags:        []string{"Charts"},
	}, chartHandler.SimpleChart)

	huma.Register(api, huma.Operation{
		OperationID: "renderSimpleChart",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}/charts/simple.svg",
		Summary:     "Render the simple plot",
		Tags:        []string{"Charts"},
	}, chartHandler.SimpleChartImage)

	huma.Register(api, huma.Operation{
		OperationID: "getPeaksChart",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}/charts/peaks",
		Summary:     "Smooth & peak plot",
		Description: "Returns the Savitzky-Golay smoothed curves and the wavelength of each maximum",
		Tags:        []string{"Charts"},
	}, chartHandler.PeaksChart)

	huma.Register(api, huma.Operation{
		OperationID: "renderPeaksChart",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}/charts/peaks.svg",
		Summary:     "Render the smooth & peak plot",
		Tags:        []string{"Charts"},
	}, chartHandler.PeaksChartImage)

	huma.Register(api, huma.Operation{
		OperationID: "buildMultiChart",
		Method:      http.MethodPost,
		Path:        "/api/sessions/{id}/charts/multi",
		Summary:     "Multi-curve plot",
		Description: "Builds a chart with per-file shifts and legend labels, optionally renormalized across all files",
		Tags:        []string{"Charts"},
	}, chartHandler.MultiChart)

	huma.Register(api, huma.Operation{
		OperationID: "publishCharts",
		Method:      http.MethodPost,
		Path:        "/api/sessions/{id}/artifacts",
		Summary:     "Publish charts",
		Description: "Renders both dashboard charts into the artifact store and returns download URLs",
		Tags:        []string{"Charts"},
	}, chartHandler.PublishCharts)

	huma.Register(api, huma.Operation{
		OperationID: "downloadArtifact",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}/artifacts/{chart}",
		Summary:     "Download a published chart",
		Description: "Reads a chart written by publishCharts back from the artifact store",
		Tags:        []string{"Charts"},
	}, chartHandler.DownloadArtifact)
}
