package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"covidtracker/internal/config"
	"covidtracker/internal/infrastructure"
	apperrors "covidtracker/internal/errors"
	"covidtracker/pkg/contracts/domain"
)

const (
	trendSheet   = "Trends"
	rankingSheet = "Ranking"
	dateLayout   = "2006-01-02"
)

// Renderer writes visualizations as Excel workbooks with native charts.
type Renderer struct {
	cfg     config.RenderConfig
	palette palette
	logger  *slog.Logger
}

// NewRenderer validates the display configuration and creates a renderer.
func NewRenderer(cfg config.RenderConfig, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, apperrors.NewConfigError("invalid render configuration", err)
	}
	return &Renderer{cfg: cfg, palette: paletteFor(cfg.Theme), logger: logger}, nil
}

// RenderGlobalTrends writes the global trend workbook: a data sheet and one
// line chart per series, stacked vertically. The vaccination chart is
// omitted when the source had no vaccination data.
func (r *Renderer) RenderGlobalTrends(ctx context.Context, trend Trend, path string) error {
	if len(trend.Points) == 0 {
		return apperrors.NewRenderingError(filepath.Base(path), apperrors.ErrEmptyDataset)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), trendSheet); err != nil {
		return apperrors.NewRenderingError(filepath.Base(path), err)
	}

	header := []interface{}{"Date", "New cases", "New cases (7-day avg)", "New deaths", "New deaths (7-day avg)"}
	if trend.Vaccinations {
		header = append(header, "New vaccinations", "New vaccinations (7-day avg)")
	}
	if err := f.SetSheetRow(trendSheet, "A1", &header); err != nil {
		return apperrors.NewRenderingError(filepath.Base(path), err)
	}

	for i, p := range trend.Points {
		row := []interface{}{
			p.Date.Format(dateLayout),
			p.NewCases, metricCell(p.CasesAvg),
			p.NewDeaths, metricCell(p.DeathsAvg),
		}
		if trend.Vaccinations {
			row = append(row, p.NewVaccinations, metricCell(p.VaccinationsAvg))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(trendSheet, cell, &row); err != nil {
			return apperrors.NewRenderingError(filepath.Base(path), err)
		}
	}

	last := len(trend.Points) + 1
	if err := r.formatColumns(f, trendSheet, len(header), last); err != nil {
		return apperrors.NewRenderingError(filepath.Base(path), err)
	}

	panels := []struct {
		title  string
		column string
	}{
		{"Daily New Cases (7-day avg)", "C"},
		{"Daily New Deaths (7-day avg)", "E"},
	}
	if trend.Vaccinations {
		panels = append(panels, struct {
			title  string
			column string
		}{"Daily Vaccinations (7-day avg)", "G"})
	}

	anchorCol, _ := excelize.ColumnNumberToName(len(header) + 2)
	for i, panel := range panels {
		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$%s$1", trendSheet, panel.column),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", trendSheet, last),
				Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", trendSheet, panel.column, panel.column, last),
				Line:       excelize.ChartLine{Width: 1.5, Smooth: false},
				Fill:       r.palette.seriesFill(i),
				Marker:     excelize.ChartMarker{Symbol: "none"},
			}},
			Title:        r.palette.title(panel.title),
			Dimension:    excelize.ChartDimension{Width: 960, Height: 300},
			Legend:       excelize.ChartLegend{Position: "none"},
			Fill:         r.palette.chartFill(),
			ShowBlanksAs: "gap",
			XAxis:        excelize.ChartAxis{TickLabelSkip: 30},
			YAxis: excelize.ChartAxis{
				MajorGridLines: true,
				NumFmt:         excelize.ChartNumFmt{CustomNumFmt: numberFormat(0)},
			},
		}
		anchor := fmt.Sprintf("%s%d", anchorCol, 1+i*16)
		if err := f.AddChart(trendSheet, anchor, chart); err != nil {
			return apperrors.NewRenderingError(filepath.Base(path), fmt.Errorf("add chart %q: %w", panel.title, err))
		}
	}

	if err := save(f, path); err != nil {
		return apperrors.NewRenderingError(filepath.Base(path), err)
	}

	r.logger.InfoContext(ctx, "Saved global trends visualization",
		slog.String("path", path),
		slog.Int("dates", len(trend.Points)),
		slog.Int("panels", len(panels)))
	return nil
}

// RenderComparison writes a horizontal bar chart of ranked entities with
// value labels.
func (r *Renderer) RenderComparison(ctx context.Context, metric string, ranked []Ranked, path string) error {
	if len(ranked) == 0 {
		return apperrors.NewRenderingError(filepath.Base(path),
			fmt.Errorf("no data available for %s: %w", metric, apperrors.ErrEmptyDataset))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), rankingSheet); err != nil {
		return apperrors.NewRenderingError(filepath.Base(path), err)
	}

	label := DisplayName(metric)
	header := []interface{}{"Country", label, "Date"}
	if err := f.SetSheetRow(rankingSheet, "A1", &header); err != nil {
		return apperrors.NewRenderingError(filepath.Base(path), err)
	}
	for i, rk := range ranked {
		row := []interface{}{rk.Entity, rk.Value, rk.Date.Format(dateLayout)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(rankingSheet, cell, &row); err != nil {
			return apperrors.NewRenderingError(filepath.Base(path), err)
		}
	}

	last := len(ranked) + 1
	if err := r.formatColumns(f, rankingSheet, len(header), last); err != nil {
		return apperrors.NewRenderingError(filepath.Base(path), err)
	}

	unit := UnitOf(metric)
	chart := &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", rankingSheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", rankingSheet, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", rankingSheet, last),
			Fill:       r.palette.seriesFill(0),
		}},
		Title:     r.palette.title(fmt.Sprintf("Top %d Countries by %s", len(ranked), label)),
		Dimension: excelize.ChartDimension{Width: 720, Height: uint(160 + 24*len(ranked))},
		Legend:    excelize.ChartLegend{Position: "none"},
		Fill:      r.palette.chartFill(),
		PlotArea: excelize.ChartPlotArea{
			ShowVal: true,
			NumFmt:  excelize.ChartNumFmt{CustomNumFmt: numberFormat(r.cfg.FloatPrecision)},
		},
		XAxis: excelize.ChartAxis{ReverseOrder: true},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: axisTitle(label, unit)}},
		},
	}
	if err := f.AddChart(rankingSheet, "E2", chart); err != nil {
		return apperrors.NewRenderingError(filepath.Base(path), fmt.Errorf("add chart: %w", err))
	}

	if err := save(f, path); err != nil {
		return apperrors.NewRenderingError(filepath.Base(path), err)
	}

	r.logger.InfoContext(ctx, "Saved comparison visualization",
		slog.String("path", path),
		slog.String("metric", metric),
		slog.Int("entities", len(ranked)))
	return nil
}

// RenderReport lists what RenderAll produced.
type RenderReport struct {
	Written  []string
	Skipped  []string
	Failures []error
}

// Err joins all rendering failures, or returns nil.
func (rep RenderReport) Err() error {
	return errors.Join(rep.Failures...)
}

// RenderAll renders the global trend and one comparison per metric. Each
// visualization is independent: a failure is logged and recorded, and the
// remaining ones are still attempted. Metrics the dataset cannot rank are
// skipped.
func (r *Renderer) RenderAll(ctx context.Context, ds *domain.Dataset, paths *config.Paths, comparisons []string, topN int) RenderReport {
	var rep RenderReport

	record := func(path string, err error) {
		if err != nil {
			infrastructure.WithError(r.logger, err).ErrorContext(ctx, "Visualization failed",
				slog.String("path", path))
			rep.Failures = append(rep.Failures, err)
			return
		}
		rep.Written = append(rep.Written, path)
	}

	record(paths.GlobalTrendsXLS, r.RenderGlobalTrends(ctx, GlobalTrend(ds), paths.GlobalTrendsXLS))

	for _, metric := range comparisons {
		path := paths.ComparisonPath(metric)
		if !Available(ds, metric) {
			r.logger.WarnContext(ctx, "Comparison skipped, metric unavailable",
				slog.String("metric", metric))
			rep.Skipped = append(rep.Skipped, metric)
			continue
		}

		ranked, err := TopN(ds, metric, topN)
		if err != nil {
			record(path, apperrors.NewRenderingError(filepath.Base(path), err))
			continue
		}
		if len(ranked) == 0 {
			r.logger.WarnContext(ctx, "No data available for comparison",
				slog.String("metric", metric))
			rep.Skipped = append(rep.Skipped, metric)
			continue
		}
		record(path, r.RenderComparison(ctx, metric, ranked, path))
	}

	return rep
}

// formatColumns sets column widths and the number format of value cells.
func (r *Renderer) formatColumns(f *excelize.File, sheet string, columns, lastRow int) error {
	lastCol, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, float64(r.cfg.ColumnWidth)); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	if lastRow < 2 || columns < 2 {
		return nil
	}
	numFmt := numberFormat(r.cfg.FloatPrecision)
	valueStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "B2", fmt.Sprintf("%s%d", lastCol, lastRow), valueStyle)
}

// DisplayName turns a metric column name into a chart label.
func DisplayName(metric string) string {
	words := strings.Split(metric, "_")
	for i, w := range words {
		switch {
		case w == "pct":
			words[i] = "%"
		case i == 0 && w != "":
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func axisTitle(label string, unit Unit) string {
	if unit == UnitCount {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, unit)
}

func numberFormat(precision int) string {
	if precision <= 0 {
		return "#,##0"
	}
	return "#,##0." + strings.Repeat("0", precision)
}

func metricCell(m domain.Metric) interface{} {
	if v, ok := m.Value(); ok {
		return v
	}
	return nil
}

func save(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return f.SaveAs(path)
}
