package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/specplot/internal/plotting"
	"github.com/RMahshie/specplot/internal/processing"
	"github.com/RMahshie/specplot/internal/render"
	"github.com/RMahshie/specplot/internal/repository"
	"github.com/RMahshie/specplot/internal/spectrum"
	"github.com/RMahshie/specplot/internal/storage"
	"github.com/RMahshie/specplot/pkg/models"
)

// MockService implements processing.Service for testing
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateSession(ctx context.Context) (*models.Session, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*models.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) DeleteSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) LoadUploads(ctx context.Context, id string, uploads []processing.Upload) ([]models.TableSummary, error) {
	args := m.Called(ctx, id, uploads)
	return args.Get(0).([]models.TableSummary), args.Error(1)
}

func (m *MockService) Tables(ctx context.Context, id string) ([]models.TableSummary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]models.TableSummary), args.Error(1)
}

func (m *MockService) Simple(ctx context.Context, id string, opts processing.ViewOptions) (models.Chart, error) {
	args := m.Called(ctx, id, opts)
	return args.Get(0).(models.Chart), args.Error(1)
}

func (m *MockService) Recompute(ctx context.Context, id string, opts processing.ViewOptions) (*processing.View, error) {
	args := m.Called(ctx, id, opts)
	if v := args.Get(0); v != nil {
		return v.(*processing.View), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Multi(ctx context.Context, id string, opts plotting.MultiOptions) (models.Chart, error) {
	args := m.Called(ctx, id, opts)
	return args.Get(0).(models.Chart), args.Error(1)
}

func (m *MockService) Render(c models.Chart, format render.Format) ([]byte, error) {
	args := m.Called(c, format)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockService) Publish(ctx context.Context, id string, opts processing.ViewOptions, format render.Format) (*processing.Published, error) {
	args := m.Called(ctx, id, opts, format)
	if p := args.Get(0); p != nil {
		return p.(*processing.Published), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Artifact(ctx context.Context, id, chart string, format render.Format) ([]byte, error) {
	args := m.Called(ctx, id, chart, format)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockService) Export(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]byte), args.Error(1)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing session", repository.ErrSessionNotFound, 404},
		{"bad upload", &processing.UploadError{Files: []error{&spectrum.ParseError{Source: "a.txt", Reason: "no samples"}}}, 422},
		{"nothing loaded", processing.ErrNoTables, 409},
		{"nothing to draw", render.ErrNoSeries, 409},
		{"not published", storage.ErrNotFound, 404},
		{"shift count", spectrum.ErrShiftMismatch, 400},
		{"legend count", spectrum.ErrLegendMismatch, 400},
		{"window", spectrum.ErrInvalidWindow, 400},
		{"flat batch", &spectrum.DegenerateRangeError{Source: "batch", Value: 3}, 400},
		{"anything else", errors.New("disk on fire"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, statusOf(t, toHTTPError(tt.err, "test")))
		})
	}
}

func TestToHTTPError_Messages(t *testing.T) {
	var se huma.StatusError
	require.ErrorAs(t, toHTTPError(render.ErrNoSeries, "test"), &se)
	assert.Contains(t, se.Error(), "logarithmic axis")
	assert.NotContains(t, se.Error(), "Upload files first")

	require.ErrorAs(t, toHTTPError(processing.ErrNoTables, "test"), &se)
	assert.Contains(t, se.Error(), "Upload files first")
}

func TestCreateSession(t *testing.T) {
	svc := &MockService{}
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.On("CreateSession", mock.Anything).Return(&models.Session{ID: "abc", CreatedAt: created}, nil)

	resp, err := NewSessionHandler(svc, 0).CreateSession(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Body.ID)
	assert.Equal(t, created, resp.Body.CreatedAt)
	svc.AssertExpectations(t)
}

func TestUploadFiles_NoFiles(t *testing.T) {
	svc := &MockService{}
	_, err := NewSessionHandler(svc, 0).UploadFiles(context.Background(), &models.UploadFilesRequest{ID: "abc"})
	assert.Equal(t, 400, statusOf(t, err))
	svc.AssertNotCalled(t, "LoadUploads", mock.Anything, mock.Anything, mock.Anything)
}

func TestListTables(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(*MockService)
		wantCode  int
		wantRows  int
	}{
		{
			name: "loaded session",
			mockSetup: func(svc *MockService) {
				svc.On("Tables", mock.Anything, "abc").Return([]models.TableSummary{{Name: "a.txt", Rows: 3}}, nil)
			},
			wantRows: 3,
		},
		{
			name: "unknown session",
			mockSetup: func(svc *MockService) {
				svc.On("Tables", mock.Anything, "abc").Return([]models.TableSummary(nil), repository.ErrSessionNotFound)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}
			tt.mockSetup(svc)

			resp, err := NewSessionHandler(svc, 0).ListTables(context.Background(), &models.SessionRequest{ID: "abc"})
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, statusOf(t, err))
			} else {
				require.NoError(t, err)
				require.Len(t, resp.Body.Tables, 1)
				assert.Equal(t, tt.wantRows, resp.Body.Tables[0].Rows)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestSimpleChart(t *testing.T) {
	svc := &MockService{}
	chart := models.Chart{XLabel: plotting.EnergyLabel, XReversed: true}
	svc.On("Simple", mock.Anything, "abc", processing.ViewOptions{Energy: true, Normalize: true}).Return(chart, nil)

	resp, err := NewChartHandler(svc).SimpleChart(context.Background(), &models.SimpleChartRequest{ID: "abc", Energy: true, Normalize: true})
	require.NoError(t, err)
	assert.True(t, resp.Body.XReversed)
	svc.AssertExpectations(t)
}

func TestSimpleChartImage(t *testing.T) {
	svc := &MockService{}
	chart := models.Chart{XLabel: plotting.WavelengthLabel}
	svc.On("Simple", mock.Anything, "abc", processing.ViewOptions{Normalize: true}).Return(chart, nil)
	svc.On("Render", chart, render.FormatPNG).Return([]byte("\x89PNG"), nil)

	resp, err := NewChartHandler(svc).SimpleChartImage(context.Background(), &models.SimpleChartRequest{ID: "abc", Normalize: true, Format: "png"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Contains(t, resp.ContentDisposition, "simple.png")
	svc.AssertExpectations(t)

	_, err = NewChartHandler(svc).SimpleChartImage(context.Background(), &models.SimpleChartRequest{ID: "abc", Format: "gif"})
	assert.Equal(t, 400, statusOf(t, err))
}

func TestPeaksChart(t *testing.T) {
	svc := &MockService{}
	view := &processing.View{
		Smooth: models.Chart{Markers: []models.Marker{{X: 600, Label: "600"}}},
		Peaks:  []models.Peak{{Name: "a.txt", Wavelength: 600}},
		Window: 31,
		Order:  2,
	}
	svc.On("Recompute", mock.Anything, "abc", processing.ViewOptions{Normalize: true, Window: 31, Order: 2}).Return(view, nil)

	resp, err := NewChartHandler(svc).PeaksChart(context.Background(), &models.PeaksChartRequest{ID: "abc", Window: 31, Order: 2})
	require.NoError(t, err)
	assert.Equal(t, 600.0, resp.Body.Peaks[0].Wavelength)
	assert.Equal(t, 31, resp.Body.Window)
	svc.AssertExpectations(t)
}

func TestMultiChart(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		mockSetup func(*MockService)
		wantCode  int
	}{
		{
			name: "overall mode",
			mode: "overall",
			mockSetup: func(svc *MockService) {
				svc.On("Multi", mock.Anything, "abc", mock.MatchedBy(func(o plotting.MultiOptions) bool {
					return o.Mode == plotting.ModeOverall && len(o.Shift) == 2
				})).Return(models.Chart{Warnings: []string{spectrum.OverallNormalizeWarning}}, nil)
			},
		},
		{
			name:      "unknown mode",
			mode:      "weird",
			mockSetup: func(svc *MockService) {},
			wantCode:  400,
		},
		{
			name: "shift count mismatch",
			mode: "normalized",
			mockSetup: func(svc *MockService) {
				svc.On("Multi", mock.Anything, "abc", mock.Anything).Return(models.Chart{}, spectrum.ErrShiftMismatch)
			},
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}
			tt.mockSetup(svc)

			req := &models.MultiChartRequest{ID: "abc"}
			req.Body.Mode = tt.mode
			req.Body.Shift = []float64{0, 5}

			resp, err := NewChartHandler(svc).MultiChart(context.Background(), req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.Contains(t, resp.Body.Warnings, spectrum.OverallNormalizeWarning)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestPublishCharts(t *testing.T) {
	svc := &MockService{}
	svc.On("Publish", mock.Anything, "abc", processing.ViewOptions{Normalize: false, LogY: true}, render.FormatSVG).
		Return(&processing.Published{SimpleURL: "/artifacts/simple.svg", SmoothURL: "/artifacts/smooth.svg"}, nil)

	off := false
	req := &models.PublishRequest{ID: "abc"}
	req.Body.Normalize = &off
	req.Body.LogY = true

	resp, err := NewChartHandler(svc).PublishCharts(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "/artifacts/simple.svg", resp.Body.SimpleURL)
	assert.Equal(t, "/artifacts/smooth.svg", resp.Body.SmoothURL)
	svc.AssertExpectations(t)
}

func TestDownloadArtifact(t *testing.T) {
	svc := &MockService{}
	svc.On("Artifact", mock.Anything, "abc", "smooth", render.FormatPNG).Return([]byte("\x89PNG"), nil)
	svc.On("Artifact", mock.Anything, "abc", "simple", render.FormatSVG).Return([]byte(nil), storage.ErrNotFound)

	h := NewChartHandler(svc)
	resp, err := h.DownloadArtifact(context.Background(), &models.ArtifactRequest{ID: "abc", Chart: "smooth", Format: "png"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Contains(t, resp.ContentDisposition, "smooth.png")

	_, err = h.DownloadArtifact(context.Background(), &models.ArtifactRequest{ID: "abc", Chart: "simple", Format: "svg"})
	assert.Equal(t, 404, statusOf(t, err))
	svc.AssertExpectations(t)
}

func TestExportXLSX(t *testing.T) {
	svc := &MockService{}
	svc.On("Export", mock.Anything, "abc").Return([]byte("PK"), nil)
	svc.On("Export", mock.Anything, "empty").Return([]byte(nil), processing.ErrNoTables)

	h := NewSessionHandler(svc, 0)
	resp, err := h.ExportXLSX(context.Background(), &models.SessionRequest{ID: "abc"})
	require.NoError(t, err)
	assert.Contains(t, resp.ContentDisposition, "spectra.xlsx")
	assert.Equal(t, []byte("PK"), resp.Body)

	_, err = h.ExportXLSX(context.Background(), &models.SessionRequest{ID: "empty"})
	assert.Equal(t, 409, statusOf(t, err))
}
