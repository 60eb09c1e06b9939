package models

import (
	"mime/multipart"
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateSessionResponse represents the response from creating a session
type CreateSessionResponse struct {
	Body struct {
		ID        string    `json:"id" doc:"Session unique identifier"`
		CreatedAt time.Time `json:"created_at" doc:"Session creation timestamp"`
	}
}

// SessionRequest addresses a single session
type SessionRequest struct {
	ID string `path:"id" doc:"Session ID"`
}

// UploadFilesRequest replaces the tables of a session with the uploaded files
type UploadFilesRequest struct {
	ID      string         `path:"id" doc:"Session ID"`
	RawBody multipart.Form `contentType:"multipart/form-data"`
}

// TablesResponse lists the loaded tables of a session
type TablesResponse struct {
	Body struct {
		ID     string         `json:"id" doc:"Session ID"`
		Tables []TableSummary `json:"tables" doc:"One summary per loaded file, in load order"`
	}
}

// SimpleChartRequest selects the axes of the simple plot
type SimpleChartRequest struct {
	ID        string `path:"id" doc:"Session ID"`
	Energy    bool   `query:"energy" doc:"Plot photon energy instead of wavelength"`
	Normalize bool   `query:"normalize" default:"true" doc:"Plot normalized intensity instead of raw counts"`
	LogY      bool   `query:"log_y" doc:"Logarithmic intensity axis"`
	Format    string `query:"format" enum:"svg,png" default:"svg" doc:"Image format for rendered charts"`
}

// PeaksChartRequest selects the smoothing parameters of the smooth & peak view
type PeaksChartRequest struct {
	ID     string `path:"id" doc:"Session ID"`
	Window int    `query:"window" minimum:"0" doc:"Savitzky-Golay window length; 0 uses the server default"`
	Order  int    `query:"order" minimum:"0" doc:"Polynomial order; 0 with window 0 uses the server default"`
	Format string `query:"format" enum:"svg,png" default:"svg" doc:"Image format for rendered charts"`
}

// ChartResponse returns a chart description
type ChartResponse struct {
	Body Chart
}

// PeaksResponse returns the smoothed curves and their peaks
type PeaksResponse struct {
	Body struct {
		Chart  Chart  `json:"chart" doc:"Smoothed curves with peak markers"`
		Peaks  []Peak `json:"peaks" doc:"One peak per table"`
		Window int    `json:"window" doc:"Window length actually used"`
		Order  int    `json:"order" doc:"Polynomial order actually used"`
	}
}

// MultiChartRequest builds a multi-curve chart with per-file shift and legend
type MultiChartRequest struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		Energy bool      `json:"energy,omitempty" doc:"Plot photon energy instead of wavelength"`
		Mode   string    `json:"mode,omitempty" enum:"normalized,raw,overall" doc:"Intensity column; overall renormalizes across all files"`
		Shift  []float64 `json:"shift,omitempty" doc:"Per-file x offset, one per loaded file"`
		Legend []string  `json:"legend,omitempty" doc:"Per-file legend label, one per loaded file"`
		Labels string    `json:"labels,omitempty" enum:"id,stem,name" doc:"Legend derivation when no labels are given"`
	}
}

// PublishRequest renders both dashboard charts into the artifact store
type PublishRequest struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		Energy    bool   `json:"energy,omitempty" doc:"Plot photon energy instead of wavelength"`
		Normalize *bool  `json:"normalize,omitempty" doc:"Plot normalized intensity; defaults to true"`
		LogY      bool   `json:"log_y,omitempty" doc:"Logarithmic intensity axis"`
		Window    int    `json:"window,omitempty" minimum:"0" doc:"Savitzky-Golay window length"`
		Order     int    `json:"order,omitempty" minimum:"0" doc:"Polynomial order"`
		Format    string `json:"format,omitempty" enum:"svg,png" doc:"Image format"`
	}
}

// PublishResponse carries download links for the published charts
type PublishResponse struct {
	Body struct {
		SimpleURL string `json:"simple_url" doc:"Download URL of the simple plot"`
		SmoothURL string `json:"smooth_url" doc:"Download URL of the smooth & peak plot; empty when the files are too short to smooth"`
	}
}

// ArtifactRequest addresses one published chart
type ArtifactRequest struct {
	ID     string `path:"id" doc:"Session ID"`
	Chart  string `path:"chart" enum:"simple,smooth" doc:"Which dashboard chart"`
	Format string `query:"format" enum:"svg,png" default:"svg" doc:"Image format the chart was published in"`
}

// FileResponse streams a binary artifact back to the client
type FileResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}
