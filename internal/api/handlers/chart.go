package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/specplot/internal/plotting"
	"github.com/RMahshie/specplot/internal/processing"
	"github.com/RMahshie/specplot/internal/render"
	"github.com/RMahshie/specplot/pkg/models"
)

// ChartHandler serves chart descriptions, rendered images and published artifacts
type ChartHandler struct {
	svc processing.Service
}

// NewChartHandler creates a new chart handler
func NewChartHandler(svc processing.Service) *ChartHandler {
	return &ChartHandler{svc: svc}
}

// SimpleChart returns the simple plot for the given toggles
func (h *ChartHandler) SimpleChart(ctx context.Context, req *models.SimpleChartRequest) (*models.ChartResponse, error) {
	chart, err := h.svc.Simple(ctx, req.ID, processing.ViewOptions{Energy: req.Energy, Normalize: req.Normalize, LogY: req.LogY})
	if err != nil {
		return nil, toHTTPError(err, "build chart")
	}
	return &models.ChartResponse{Body: chart}, nil
}

// SimpleChartImage renders the simple plot
func (h *ChartHandler) SimpleChartImage(ctx context.Context, req *models.SimpleChartRequest) (*models.FileResponse, error) {
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error(), err)
	}
	chart, err := h.svc.Simple(ctx, req.ID, processing.ViewOptions{Energy: req.Energy, Normalize: req.Normalize, LogY: req.LogY})
	if err != nil {
		return nil, toHTTPError(err, "build chart")
	}
	return h.image(chart, format, "simple")
}

// PeaksChart returns the smoothed curves with their peak markers
func (h *ChartHandler) PeaksChart(ctx context.Context, req *models.PeaksChartRequest) (*models.PeaksResponse, error) {
	view, err := h.svc.Recompute(ctx, req.ID, processing.ViewOptions{Normalize: true, Window: req.Window, Order: req.Order})
	if err != nil {
		return nil, toHTTPError(err, "build chart")
	}
	resp := &models.PeaksResponse{}
	resp.Body.Chart = view.Smooth
	resp.Body.Peaks = view.Peaks
	resp.Body.Window = view.Window
	resp.Body.Order = view.Order
	return resp, nil
}

// PeaksChartImage renders the smooth & peak plot
func (h *ChartHandler) PeaksChartImage(ctx context.Context, req *models.PeaksChartRequest) (*models.FileResponse, error) {
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error(), err)
	}
	view, err := h.svc.Recompute(ctx, req.ID, processing.ViewOptions{Normalize: true, Window: req.Window, Order: req.Order})
	if err != nil {
		return nil, toHTTPError(err, "build chart")
	}
	return h.image(view.Smooth, format, "smooth")
}

// MultiChart builds a multi-curve chart with shift and legend options
func (h *ChartHandler) MultiChart(ctx context.Context, req *models.MultiChartRequest) (*models.ChartResponse, error) {
	mode, err := plotting.ParseMode(req.Body.Mode)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error(), err)
	}
	chart, err := h.svc.Multi(ctx, req.ID, plotting.MultiOptions{
		Energy:   req.Body.Energy,
		Mode:     mode,
		Shift:    req.Body.Shift,
		Legend:   req.Body.Legend,
		Strategy: plotting.ParseLegendStrategy(req.Body.Labels),
	})
	if err != nil {
		return nil, toHTTPError(err, "build chart")
	}
	return &models.ChartResponse{Body: chart}, nil
}

// PublishCharts writes both dashboard charts to the artifact store
func (h *ChartHandler) PublishCharts(ctx context.Context, req *models.PublishRequest) (*models.PublishResponse, error) {
	format, err := render.ParseFormat(req.Body.Format)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error(), err)
	}
	normalize := true
	if req.Body.Normalize != nil {
		normalize = *req.Body.Normalize
	}

	out, err := h.svc.Publish(ctx, req.ID, processing.ViewOptions{
		Energy:    req.Body.Energy,
		Normalize: normalize,
		LogY:      req.Body.LogY,
		Window:    req.Body.Window,
		Order:     req.Body.Order,
	}, format)
	if err != nil {
		return nil, toHTTPError(err, "publish charts")
	}

	resp := &models.PublishResponse{}
	resp.Body.SimpleURL = out.SimpleURL
	resp.Body.SmoothURL = out.SmoothURL
	return resp, nil
}

// DownloadArtifact returns a previously published chart from the artifact store
func (h *ChartHandler) DownloadArtifact(ctx context.Context, req *models.ArtifactRequest) (*models.FileResponse, error) {
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error(), err)
	}
	data, err := h.svc.Artifact(ctx, req.ID, req.Chart, format)
	if err != nil {
		return nil, toHTTPError(err, "read artifact")
	}
	return &models.FileResponse{
		ContentType:        format.ContentType(),
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", req.Chart+format.Extension()),
		Body:               data,
	}, nil
}

func (h *ChartHandler) image(c models.Chart, format render.Format, name string) (*models.FileResponse, error) {
	data, err := h.svc.Render(c, format)
	if err != nil {
		return nil, toHTTPError(err, "render chart")
	}
	return &models.FileResponse{
		ContentType:        format.ContentType(),
		ContentDisposition: fmt.Sprintf("inline; filename=%q", name+format.Extension()),
		Body:               data,
	}, nil
}
