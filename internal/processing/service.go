package processing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/RMahshie/specplot/internal/export"
	"github.com/RMahshie/specplot/internal/plotting"
	"github.com/RMahshie/specplot/internal/render"
	"github.com/RMahshie/specplot/internal/repository"
	"github.com/RMahshie/specplot/internal/spectrum"
	"github.com/RMahshie/specplot/internal/storage"
	"github.com/RMahshie/specplot/pkg/models"
)

// ErrNoTables is returned when a session has nothing loaded yet
var ErrNoTables = errors.New("no files loaded; upload files first")

// Upload is one file received from a client
type Upload struct {
	Name   string
	Reader io.Reader
}

// UploadError collects every file that failed to load in one batch
type UploadError struct {
	Files []error
}

func (e *UploadError) Error() string {
	msgs := make([]string, len(e.Files))
	for i, err := range e.Files {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d of the uploaded files could not be loaded: %s", len(e.Files), strings.Join(msgs, "; "))
}

// ViewOptions are the dashboard controls
type ViewOptions struct {
	Energy    bool
	Normalize bool
	LogY      bool
	Window    int
	Order     int
}

// View is everything the dashboard draws for one set of controls
type View struct {
	Simple models.Chart
	Smooth models.Chart
	Peaks  []models.Peak
	Window int
	Order  int
}

// Published holds download links of the charts written to the artifact store
type Published struct {
	SimpleURL string
	SmoothURL string
}

// Service drives the dashboard: loading, recomputing, rendering and exporting
type Service interface {
	CreateSession(ctx context.Context) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	LoadUploads(ctx context.Context, id string, uploads []Upload) ([]models.TableSummary, error)
	Tables(ctx context.Context, id string) ([]models.TableSummary, error)
	Simple(ctx context.Context, id string, opts ViewOptions) (models.Chart, error)
	Recompute(ctx context.Context, id string, opts ViewOptions) (*View, error)
	Multi(ctx context.Context, id string, opts plotting.MultiOptions) (models.Chart, error)
	Render(c models.Chart, format render.Format) ([]byte, error)
	Publish(ctx context.Context, id string, opts ViewOptions, format render.Format) (*Published, error)
	Artifact(ctx context.Context, id, chart string, format render.Format) ([]byte, error)
	Export(ctx context.Context, id string) ([]byte, error)
}

// Options configures a Service
type Options struct {
	SmoothWindow int
	SmoothOrder  int
	Render       render.Options
	// SessionKeys prefixes artifact keys with the session ID; when false every
	// publish overwrites the fixed simple/smooth artifacts
	SessionKeys bool
}

type service struct {
	repo   repository.SessionRepository
	store  storage.ArtifactStore
	loader *spectrum.Loader
	opts   Options
}

// NewService creates a new processing service
func NewService(repo repository.SessionRepository, store storage.ArtifactStore, opts Options) Service {
	if opts.SmoothWindow <= 0 {
		opts.SmoothWindow = spectrum.DefaultSmoothWindow
	}
	if opts.SmoothOrder <= 0 {
		opts.SmoothOrder = spectrum.DefaultSmoothOrder
	}
	return &service{
		repo:   repo,
		store:  store,
		loader: spectrum.NewLoader(),
		opts:   opts,
	}
}

func (s *service) CreateSession(ctx context.Context) (*models.Session, error) {
	session, err := s.repo.Create(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Str("session_id", session.ID).Msg("session created")
	return session, nil
}

// DeleteSession drops the session and, when artifacts are keyed per session,
// its published charts in every format
func (s *service) DeleteSession(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.opts.SessionKeys && s.store != nil {
		for _, format := range []render.Format{render.FormatSVG, render.FormatPNG} {
			for _, name := range []string{"simple", "smooth"} {
				key := s.artifactKey(id, name, format)
				if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("delete artifact %s: %w", key, err)
				}
			}
		}
	}
	log.Info().Str("session_id", id).Msg("session deleted")
	return nil
}

// LoadUploads parses every upload and replaces the session's tables only if
// all of them load; otherwise the session is left untouched.
func (s *service) LoadUploads(ctx context.Context, id string, uploads []Upload) ([]models.TableSummary, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, ErrNoTables
	}

	tables := make([]models.NamedTable, 0, len(uploads))
	var failed []error
	for _, u := range uploads {
		name := filepath.Base(u.Name)
		t, err := s.loader.ReadData(u.Reader, name)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		tables = append(tables, models.NamedTable{Name: name, Table: t})
	}
	if len(failed) > 0 {
		log.Warn().Str("session_id", id).Int("failed", len(failed)).Int("files", len(uploads)).Msg("upload rejected")
		return nil, &UploadError{Files: failed}
	}

	if _, err := s.repo.ReplaceTables(ctx, id, tables); err != nil {
		return nil, err
	}

	log.Info().Str("session_id", id).Int("files", len(tables)).Msg("tables loaded")
	return summarize(tables)
}

func (s *service) Tables(ctx context.Context, id string) ([]models.TableSummary, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return summarize(session.Tables)
}

// Simple builds only the simple plot; smoothing parameters are ignored
func (s *service) Simple(ctx context.Context, id string, opts ViewOptions) (models.Chart, error) {
	tables, err := s.tables(ctx, id)
	if err != nil {
		return models.Chart{}, err
	}
	return plotting.Simple(tables, plotting.Axes{Energy: opts.Energy, Normalize: opts.Normalize}, opts.LogY), nil
}

// Recompute rebuilds both dashboard charts from the current controls.
// When the default window cannot smooth the loaded tables the smooth chart
// carries a warning instead of failing the view; an explicit window still errors.
func (s *service) Recompute(ctx context.Context, id string, opts ViewOptions) (*View, error) {
	tables, err := s.tables(ctx, id)
	if err != nil {
		return nil, err
	}

	window, order := s.smoothing(opts, tables)
	simple := plotting.Simple(tables, plotting.Axes{Energy: opts.Energy, Normalize: opts.Normalize}, opts.LogY)
	smooth, peaks, err := plotting.SmoothPeaks(tables, window, order)
	if err != nil {
		if opts.Window > 0 || !errors.Is(err, spectrum.ErrInvalidWindow) {
			return nil, err
		}
		log.Warn().Err(err).Str("session_id", id).Msg("smoothing skipped")
		smooth = models.Chart{
			XLabel:   plotting.WavelengthLabel,
			YLabel:   plotting.NormalizedLabel,
			Warnings: []string{err.Error()},
		}
		peaks = nil
	}

	return &View{Simple: simple, Smooth: smooth, Peaks: peaks, Window: window, Order: order}, nil
}

func (s *service) Multi(ctx context.Context, id string, opts plotting.MultiOptions) (models.Chart, error) {
	tables, err := s.tables(ctx, id)
	if err != nil {
		return models.Chart{}, err
	}
	return plotting.Multi(tables, opts)
}

func (s *service) Render(c models.Chart, format render.Format) ([]byte, error) {
	opts := s.opts.Render
	opts.Format = format
	return render.New(opts).Bytes(c)
}

// Publish renders both charts and writes them to the artifact store concurrently.
// A chart with nothing to draw is skipped and its URL left empty.
func (s *service) Publish(ctx context.Context, id string, opts ViewOptions, format render.Format) (*Published, error) {
	view, err := s.Recompute(ctx, id, opts)
	if err != nil {
		return nil, err
	}

	artifacts := []struct {
		key   string
		chart models.Chart
		url   *string
	}{
		{key: s.artifactKey(id, "simple", format), chart: view.Simple},
		{key: s.artifactKey(id, "smooth", format), chart: view.Smooth},
	}
	var out Published
	artifacts[0].url = &out.SimpleURL
	artifacts[1].url = &out.SmoothURL

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range artifacts {
		a := a
		if len(a.chart.Series) == 0 {
			log.Warn().Str("session_id", id).Str("key", a.key).Strs("warnings", a.chart.Warnings).Msg("chart skipped")
			continue
		}
		g.Go(func() error {
			data, err := s.Render(a.chart, format)
			if err != nil {
				return fmt.Errorf("render %s: %w", a.key, err)
			}
			if err := s.store.Put(gctx, a.key, data, format.ContentType()); err != nil {
				return err
			}
			u, err := s.store.DownloadURL(gctx, a.key)
			if err != nil {
				return err
			}
			*a.url = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Str("session_id", id).Str("format", string(format)).Msg("charts published")
	return &out, nil
}

// Artifact reads back a chart written by Publish
func (s *service) Artifact(ctx context.Context, id, chart string, format render.Format) ([]byte, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	if chart != "simple" && chart != "smooth" {
		return nil, storage.ErrNotFound
	}
	return s.store.Get(ctx, s.artifactKey(id, chart, format))
}

func (s *service) artifactKey(id, chart string, format render.Format) string {
	if s.opts.SessionKeys {
		return id + "/" + chart + format.Extension()
	}
	return chart + format.Extension()
}

func (s *service) Export(ctx context.Context, id string) ([]byte, error) {
	tables, err := s.tables(ctx, id)
	if err != nil {
		return nil, err
	}
	return export.XLSXBytes(tables)
}

func (s *service) tables(ctx context.Context, id string) ([]models.NamedTable, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(session.Tables) == 0 {
		return nil, ErrNoTables
	}
	return session.Tables, nil
}

// smoothing resolves the requested window against the defaults and clamps it
// to the shortest loaded table
func (s *service) smoothing(opts ViewOptions, tables []models.NamedTable) (int, int) {
	window, order := opts.Window, opts.Order
	if window <= 0 {
		window = s.opts.SmoothWindow
		if order <= 0 {
			order = s.opts.SmoothOrder
		}
	}

	shortest := math.MaxInt
	for _, nt := range tables {
		if n := nt.Table.Len(); n < shortest {
			shortest = n
		}
	}
	return spectrum.ClampWindow(window, order, shortest), order
}

func summarize(tables []models.NamedTable) ([]models.TableSummary, error) {
	out := make([]models.TableSummary, 0, len(tables))
	for _, nt := range tables {
		sum, err := spectrum.Summarize(nt)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}
