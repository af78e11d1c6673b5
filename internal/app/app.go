package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/BiteMyBucket/sosi/internal/config"
	"github.com/BiteMyBucket/sosi/internal/ctxlog"
	"github.com/BiteMyBucket/sosi/pkg/sosi"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *config.Config
}

// NewApp is the constructor for the main application. Results go to outW and
// diagnostics to logW, so exported data is never mixed with log lines.
func NewApp(outW, logW io.Writer, cfg *config.Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
}

// featureWriter is the common shape of the streaming exporters.
type featureWriter interface {
	Write(f *sosi.Feature) error
	Count() int
}

// Run reads every configured file and writes the selected output format.
// Files that cannot be read are logged and skipped; Run then reports how
// many failed.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "files", len(a.config.Paths), "format", a.config.Format)

	var err error
	switch a.config.Format {
	case config.FormatGeoJSON:
		gw := sosi.NewGeoJSONWriter(a.outW)
		err = a.export(ctx, gw)
		if cerr := gw.Close(); err == nil {
			err = cerr
		}
	case config.FormatWKT:
		err = a.export(ctx, sosi.NewWKTWriter(a.outW))
	default:
		err = a.summarize(ctx)
	}

	a.logger.Debug("App.Run method finished.")
	return err
}

func (a *App) readOptions() sosi.ReadOptions {
	opts := sosi.DefaultReadOptions()
	opts.Logger = a.logger
	opts.SkipUnknown = a.config.SkipUnknown
	opts.ObjectTypeFilter = a.config.ObjectTypes
	opts.ValidateGeometry = a.config.ValidateGeometry
	return opts
}

func (a *App) summarize(ctx context.Context) error {
	opts := sosi.DefaultLoadOptions()
	if a.config.Workers > 0 {
		opts.Workers = a.config.Workers
	}
	opts.Read = a.readOptions()

	set, errs := sosi.LoadParallel(ctx, a.config.Paths, opts)
	for _, ds := range set.Datasets {
		if err := writeSummary(a.outW, ds); err != nil {
			return err
		}
	}
	a.logger.Info("Summary complete.", "datasets", len(set.Datasets), "features", set.FeatureCount())
	return failedFiles(len(errs), len(a.config.Paths))
}

func writeSummary(w io.Writer, ds *sosi.Dataset) error {
	h := ds.Header()
	var b []byte
	b = fmt.Appendf(b, "%s (%s)\n", ds.Name(), ds.Path())
	b = fmt.Appendf(b, "  CRS:        %s", h.CRS)
	if h.CoordSysName != "" {
		b = fmt.Appendf(b, " (%s)", h.CoordSysName)
	}
	b = append(b, '\n')
	if h.Version != "" {
		b = fmt.Appendf(b, "  Version:    %s\n", h.Version)
	}
	b = fmt.Appendf(b, "  Features:   %d\n", ds.FeatureCount())
	b = fmt.Appendf(b, "  Warnings:   %d\n", ds.WarningCount())
	if bound, ok := ds.Bounds(); ok {
		b = fmt.Appendf(b, "  Bounds:     %.2f,%.2f %.2f,%.2f\n", bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1])
	}
	if types := ds.ObjectTypes(); len(types) > 0 {
		b = append(b, "  Object types:\n"...)
		for _, t := range types {
			name := t.ObjectType
			if name == "" {
				name = "(none)"
			}
			b = fmt.Appendf(b, "    %-24s %d\n", name, t.Count)
		}
	}
	_, err := w.Write(b)
	return err
}

// export streams files in order through fw. Features are never collected.
func (a *App) export(ctx context.Context, fw featureWriter) error {
	log := ctxlog.FromContext(ctx)
	opts := a.readOptions()

	failed := 0
	for _, path := range a.config.Paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := exportFile(ctx, path, opts, fw); err != nil {
			var werr *writeError
			if errors.As(err, &werr) {
				return werr.err
			}
			log.Warn("failed to read SOSI file", "path", path, "error", err)
			failed++
		}
	}
	log.Info("Export complete.", "features", fw.Count())
	return failedFiles(failed, len(a.config.Paths))
}

// writeError marks a failure of the output rather than of an input file.
type writeError struct{ err error }

func (e *writeError) Error() string { return e.err.Error() }

func exportFile(ctx context.Context, path string, opts sosi.ReadOptions, fw featureWriter) error {
	log := ctxlog.FromContext(ctx)

	r, err := sosi.Open(path, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		f, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for _, w := range f.Warnings() {
			log.Debug("feature warning", "path", path, "warning", w)
		}
		if err := fw.Write(f); err != nil {
			return &writeError{err: err}
		}
	}
}

func failedFiles(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d files could not be read", failed, total)
}
