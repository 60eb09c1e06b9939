package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RMahshie/specplot/internal/config"
	"github.com/RMahshie/specplot/internal/export"
	"github.com/RMahshie/specplot/internal/plotting"
	"github.com/RMahshie/specplot/internal/render"
	"github.com/RMahshie/specplot/internal/spectrum"
	"github.com/RMahshie/specplot/pkg/models"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.Server.LogLevel)
	zerolog.SetGlobalLevel(level)

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pldraw",
		Short:         "Plot photoluminescence and Raman spectra from two-column text files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newPlotCmd(cfg),
		newSingleCmd(cfg),
		newSummaryCmd(cfg),
		newExportCmd(cfg),
	)
	return rootCmd
}

// styleFlags are the figure options shared by the drawing commands
type styleFlags struct {
	format    string
	width     int
	height    int
	lineWidth float64
}

func (s *styleFlags) register(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&s.format, "format", cfg.Chart.Format, "Image format: svg or png")
	cmd.Flags().IntVar(&s.width, "width", cfg.Chart.Width, "Figure width in pixels")
	cmd.Flags().IntVar(&s.height, "height", cfg.Chart.Height, "Figure height in pixels")
	cmd.Flags().Float64Var(&s.lineWidth, "line-width", 3, "Curve line width")
}

func (s *styleFlags) renderer() (*render.Renderer, error) {
	format, err := render.ParseFormat(s.format)
	if err != nil {
		return nil, err
	}
	return render.New(render.Options{
		Width:     s.width,
		Height:    s.height,
		Format:    format,
		LineWidth: s.lineWidth,
	}), nil
}

type plotOptions struct {
	suffix string
	energy string
	dir    string
	out    string
	mode   string
	shift  []float64
	legend []string
	labels string
	peaks  bool
	window int
	order  int
	style  styleFlags
}

func newPlotCmd(cfg *config.Config) *cobra.Command {
	opts := plotOptions{}

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw every *<suffix>.txt file of a directory into one chart",
		Long: `Draw every file named *<suffix>.txt in the data directory as one curve.

When --suffix or --energy are not given they are asked for interactively.

Example: pldraw plot --suffix _633nm --energy n --mode overall --shift 0,5,10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd.InOrStdin(), cmd.OutOrStdout(), opts, cmd.Flags().Changed("suffix"))
		},
	}

	cmd.Flags().StringVar(&opts.suffix, "suffix", "", "File name suffix before .txt")
	cmd.Flags().StringVar(&opts.energy, "energy", "", "Plot photon energy instead of wavelength (y/n)")
	cmd.Flags().StringVar(&opts.dir, "dir", cfg.Analysis.DataDir, "Directory holding the measurement files")
	cmd.Flags().StringVar(&opts.out, "out", filepath.Join(cfg.Storage.OutputDir, "multi"), "Output image path; the extension follows --format")
	cmd.Flags().StringVar(&opts.mode, "mode", string(plotting.ModeNormalized), "Intensity: normalized, raw or overall")
	cmd.Flags().Float64SliceVar(&opts.shift, "shift", nil, "Per-file x offsets, one per file")
	cmd.Flags().StringSliceVar(&opts.legend, "legend", nil, "Per-file legend labels, one per file")
	cmd.Flags().StringVar(&opts.labels, "labels", "id", "Legend derivation when --legend is not given: id, stem or name")
	cmd.Flags().BoolVar(&opts.peaks, "peaks", false, "Also draw the smooth & peak chart")
	cmd.Flags().IntVar(&opts.window, "window", cfg.Analysis.SmoothWindow, "Savitzky-Golay window length for --peaks")
	cmd.Flags().IntVar(&opts.order, "order", cfg.Analysis.SmoothOrder, "Savitzky-Golay polynomial order for --peaks")
	opts.style.register(cmd, cfg)

	return cmd
}

func runPlot(in io.Reader, out io.Writer, opts plotOptions, suffixGiven bool) error {
	reader := bufio.NewReader(in)
	if !suffixGiven {
		answer, err := prompt(reader, out, "file name suffix: ")
		if err != nil {
			return err
		}
		opts.suffix = answer
	}
	if opts.energy == "" {
		answer, err := prompt(reader, out, "energy plot? (y/n): ")
		if err != nil {
			return err
		}
		opts.energy = answer
	}
	energy := strings.EqualFold(strings.TrimSpace(opts.energy), "y")

	mode, err := plotting.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	renderer, err := opts.style.renderer()
	if err != nil {
		return err
	}

	files, err := spectrum.RequireFiles("*"+opts.suffix+".txt", opts.dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "number of files: %d\n", len(files))

	tables, err := spectrum.NewLoader().ReadNamed(files)
	if err != nil {
		return err
	}

	chart, err := plotting.Multi(tables, plotting.MultiOptions{
		Energy:   energy,
		Mode:     mode,
		Shift:    opts.shift,
		Legend:   opts.legend,
		Strategy: plotting.ParseLegendStrategy(opts.labels),
	})
	if err != nil {
		return err
	}
	for _, w := range chart.Warnings {
		log.Warn().Msg(w)
	}

	path := withExtension(opts.out, renderer.Format())
	if err := writeChart(renderer, chart, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", path)

	if opts.peaks {
		window := spectrum.ClampWindow(opts.window, opts.order, shortest(tables))
		smooth, peaks, err := plotting.SmoothPeaks(tables, window, opts.order)
		if err != nil {
			return err
		}
		peakPath := withExtension(strings.TrimSuffix(path, filepath.Ext(path))+"_smooth", renderer.Format())
		if err := writeChart(renderer, smooth, peakPath); err != nil {
			return err
		}
		for _, p := range peaks {
			fmt.Fprintf(out, "%s: peak at %s nm (%.3f eV)\n", filepath.Base(p.Name), strconv.FormatFloat(p.Wavelength, 'f', -1, 64), p.Energy)
		}
		fmt.Fprintf(out, "wrote %s\n", peakPath)
	}
	return nil
}

func newSingleCmd(cfg *config.Config) *cobra.Command {
	var (
		energy bool
		raw    bool
		logY   bool
		out    string
		style  styleFlags
	)

	cmd := &cobra.Command{
		Use:   "single [file]",
		Short: "Draw one measurement file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := style.renderer()
			if err != nil {
				return err
			}
			table, err := spectrum.NewLoader().ReadFile(args[0])
			if err != nil {
				return err
			}
			name := filepath.Base(args[0])
			chart := plotting.Simple([]models.NamedTable{{Name: name, Table: table}},
				plotting.Axes{Energy: energy, Normalize: !raw}, logY)

			target := out
			if target == "" {
				target = filepath.Join(cfg.Storage.OutputDir, strings.TrimSuffix(name, filepath.Ext(name)))
			}
			target = withExtension(target, renderer.Format())
			if err := writeChart(renderer, chart, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&energy, "energy", false, "Plot photon energy instead of wavelength")
	cmd.Flags().BoolVar(&raw, "raw", false, "Plot raw counts instead of normalized intensity")
	cmd.Flags().BoolVar(&logY, "log-y", false, "Logarithmic intensity axis")
	cmd.Flags().StringVar(&out, "out", "", "Output image path")
	style.register(cmd, cfg)

	return cmd
}

func newSummaryCmd(cfg *config.Config) *cobra.Command {
	var suffix, dir string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print row counts and count statistics of matching files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadMatching(suffix, dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-32s %6s %10s %10s %12s %12s %12s\n", "file", "rows", "min nm", "max nm", "max count", "mean", "stddev")
			for _, nt := range tables {
				s, err := spectrum.Summarize(nt)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-32s %6d %10.2f %10.2f %12.2f %12.2f %12.2f\n",
					filepath.Base(s.Name), s.Rows, s.MinWavelength, s.MaxWavelength, s.MaxCount, s.MeanCount, s.StdDevCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&suffix, "suffix", "", "File name suffix before .txt")
	cmd.Flags().StringVar(&dir, "dir", cfg.Analysis.DataDir, "Directory holding the measurement files")
	return cmd
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	var suffix, dir, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write matching files with their derived columns to a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadMatching(suffix, dir)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(cfg.Storage.OutputDir, "spectra.xlsx")
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := export.WriteXLSX(f, tables); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&suffix, "suffix", "", "File name suffix before .txt")
	cmd.Flags().StringVar(&dir, "dir", cfg.Analysis.DataDir, "Directory holding the measurement files")
	cmd.Flags().StringVar(&out, "out", "", "Workbook path (default <output dir>/spectra.xlsx)")
	return cmd
}

func loadMatching(suffix, dir string) ([]models.NamedTable, error) {
	files, err := spectrum.RequireFiles("*"+suffix+".txt", dir)
	if err != nil {
		return nil, err
	}
	return spectrum.NewLoader().ReadNamed(files)
}

func prompt(r *bufio.Reader, w io.Writer, question string) (string, error) {
	fmt.Fprint(w, question)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func writeChart(r *render.Renderer, c models.Chart, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := r.Render(c, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func withExtension(path string, format render.Format) string {
	if filepath.Ext(path) == format.Extension() {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + format.Extension()
}

func shortest(tables []models.NamedTable) int {
	n := 0
	for i, nt := range tables {
		if i == 0 || nt.Table.Len() < n {
			n = nt.Table.Len()
		}
	}
	return n
}
