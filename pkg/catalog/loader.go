package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/binlog-hq/logq/pkg/config"
	"github.com/binlog-hq/logq/pkg/query/ast"
	queryErrors "github.com/binlog-hq/logq/pkg/query/errors"
	"github.com/binlog-hq/logq/pkg/query/parser"
	"github.com/binlog-hq/logq/pkg/telemetry/logging"
	"github.com/binlog-hq/logq/pkg/telemetry/metrics"
	"github.com/binlog-hq/logq/pkg/telemetry/tracing"
)

// DefaultContextLines is the number of source lines shown on each side of
// an error location.
const DefaultContextLines = 2

// Extensions lists the file extensions treated as catalogs by LoadDir.
var Extensions = []string{".yaml", ".yml"}

// Options configures a Loader. Zero values select defaults; nil telemetry
// fields disable the corresponding signal.
type Options struct {
	Parser              *parser.Parser
	MaxFileSize         int64
	MaxExpressionLength int
	ContextLines        int

	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Logger  *logging.Logger
}

// OptionsFromConfig derives loader options from the application config.
// Telemetry fields are left for the caller to set.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Parser:              parser.NewParser().WithMaxConstraints(cfg.Query.MaxConstraints),
		MaxFileSize:         cfg.Catalog.MaxFileSize,
		MaxExpressionLength: cfg.Query.MaxExpressionLength,
	}
}

// Loader reads catalogs from disk or memory and parses their queries.
// A Loader is safe for concurrent use.
type Loader struct {
	opts Options
}

// NewLoader creates a loader, filling unset options with defaults.
func NewLoader(opts Options) *Loader {
	if opts.Parser == nil {
		opts.Parser = parser.NewParser()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = config.DefaultCatalogMaxFileSize
	}
	if opts.ContextLines <= 0 {
		opts.ContextLines = DefaultContextLines
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Loader{opts: opts}
}

// Load reads and validates the catalog at path using opts.
func Load(path string, opts Options) (*Catalog, error) {
	return NewLoader(opts).Load(context.Background(), path)
}

// LoadBytes validates an in-memory catalog. source names it in errors.
func LoadBytes(data []byte, source string, opts Options) (*Catalog, error) {
	return NewLoader(opts).LoadBytes(context.Background(), data, source)
}

// Load reads the catalog file at path. On failure the returned error is an
// *errors.Error for I/O problems or an *errors.ErrorList holding every
// problem found in the file; the catalog is nil in both cases.
func (l *Loader) Load(ctx context.Context, path string) (*Catalog, error) {
	ctx, span := l.opts.Tracer.Start(ctx, tracing.SpanCatalogLoad)
	defer span.End()
	ctx = logging.WithCatalog(ctx, path)

	start := time.Now()
	data, err := l.readFile(path)
	if err != nil {
		l.opts.Metrics.RecordCatalogFailure(path, time.Since(start))
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
		l.opts.Logger.WarnContext(ctx, "catalog unreadable", "error", err)
		return nil, err
	}

	cat, err := l.load(ctx, data, path, start)
	tracing.SetStatus(span, err)
	return cat, err
}

// LoadBytes validates data as a catalog named source.
func (l *Loader) LoadBytes(ctx context.Context, data []byte, source string) (*Catalog, error) {
	ctx, span := l.opts.Tracer.Start(ctx, tracing.SpanCatalogLoad)
	defer span.End()
	ctx = logging.WithCatalog(ctx, source)

	start := time.Now()
	if int64(len(data)) > l.opts.MaxFileSize {
		err := &queryErrors.Error{
			Type:     queryErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("data size %d exceeds maximum %d bytes", len(data), l.opts.MaxFileSize),
			Location: queryErrors.Location{File: source},
		}
		l.opts.Metrics.RecordCatalogFailure(source, time.Since(start))
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
		return nil, err
	}

	cat, err := l.load(ctx, data, source, start)
	tracing.SetStatus(span, err)
	return cat, err
}

func (l *Loader) load(ctx context.Context, data []byte, source string, start time.Time) (*Catalog, error) {
	span := tracing.SpanFromContext(ctx)

	if !utf8.Valid(data) {
		err := &queryErrors.Error{
			Type:     queryErrors.ErrorTypeSyntax,
			Message:  "file contains invalid UTF-8 encoding",
			Location: queryErrors.Location{File: source},
		}
		l.opts.Metrics.RecordCatalogFailure(source, time.Since(start))
		return nil, err
	}

	doc, line, err := parseYAMLBytes(data)
	if err != nil {
		loc := queryErrors.Location{File: source, Line: line}
		l.opts.Metrics.RecordCatalogFailure(source, time.Since(start))
		l.opts.Logger.WarnContext(ctx, "catalog is not valid YAML", "line", line, "error", err)
		return nil, &queryErrors.Error{
			Type:       queryErrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("YAML parsing failed: %v", err),
			Location:   loc,
			Context:    queryErrors.ExtractContextFromBytes(data, loc, l.opts.ContextLines),
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
			Cause:      err,
		}
	}

	b := newBuilder(source, data)
	cat := b.buildCatalog(ctx, l, b.decodeCatalog(doc))
	err = b.finish(l.opts.ContextLines)

	duration := time.Since(start)
	tracing.SetCatalogAttributes(span, source, b.valid, b.invalid)

	if err != nil {
		if b.invalid > 0 {
			l.opts.Metrics.RecordCatalogLoad(source, duration, b.valid, b.invalid)
		} else {
			l.opts.Metrics.RecordCatalogFailure(source, duration)
		}
		l.opts.Logger.WarnContext(ctx, "catalog has errors",
			"errors", b.errors.Count(),
			"valid", b.valid,
			"invalid", b.invalid,
		)
		return nil, err
	}

	l.opts.Metrics.RecordCatalogLoad(source, duration, b.valid, 0)
	l.opts.Logger.DebugContext(ctx, "catalog loaded",
		"name", cat.Name,
		"queries", cat.Len(),
		"duration", duration,
	)
	return cat, nil
}

// readFile performs the checks done before any bytes are decoded.
func (l *Loader) readFile(path string) ([]byte, error) {
	ioError := func(message string, cause error) error {
		return &queryErrors.Error{
			Type:     queryErrors.ErrorTypeIO,
			Message:  message,
			Location: queryErrors.Location{File: path},
			Cause:    cause,
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, ioError("file not found", err)
		case errors.Is(err, fs.ErrPermission):
			return nil, ioError("permission denied", err)
		default:
			return nil, ioError("failed to access file", err)
		}
	}

	if !info.Mode().IsRegular() {
		return nil, ioError("not a regular file", nil)
	}

	if info.Size() > l.opts.MaxFileSize {
		return nil, ioError(fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), l.opts.MaxFileSize), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("failed to read file", err)
	}
	return data, nil
}

// ParseExpression parses one expression with the configured parser and
// records the outcome in metrics and a query.parse span.
func (l *Loader) ParseExpression(ctx context.Context, name, expression string) (ast.Node, error) {
	ctx, span := l.opts.Tracer.Start(ctx, tracing.SpanQueryParse)
	defer span.End()
	tracing.SetQueryAttributes(span, name, expression)

	start := time.Now()
	root, err := l.opts.Parser.Parse(expression)
	duration := time.Since(start)

	if err != nil {
		category := queryErrors.CategoryOf(err)
		offset := 0
		var pe *queryErrors.ParseError
		if errors.As(err, &pe) {
			offset = pe.Offset
		}
		l.opts.Metrics.RecordParse(string(category), duration, 0)
		tracing.SetParseFailure(span, string(category), offset)
		l.opts.Logger.DebugContext(logging.WithQuery(ctx, name), "expression rejected",
			"category", category,
			"offset", offset,
			"expression", expression,
		)
		return nil, err
	}

	depth := ast.Depth(root)
	l.opts.Metrics.RecordParse("", duration, depth)
	tracing.SetParseSuccess(span, depth)
	return root, nil
}

// CheckExpression reports whether expression fits the configured length
// limit.
func (l *Loader) CheckExpression(expression string) error {
	if limit := l.opts.MaxExpressionLength; limit > 0 && len(expression) > limit {
		return fmt.Errorf("expression is %d bytes, exceeding the limit of %d", len(expression), limit)
	}
	return nil
}

// Result is the outcome of loading one file in a directory.
type Result struct {
	Source  string
	Catalog *Catalog
	Err     error
}

// ProgressFunc is told how many of total files are done after each one.
type ProgressFunc func(done, total int, source string)

// LoadDir loads every catalog file under dir, skipping hidden files and
// directories. Per-file failures are reported in the results; the error is
// non-nil only when dir itself cannot be walked or holds no catalogs.
// progress may be nil.
func (l *Loader) LoadDir(ctx context.Context, dir string, progress ProgressFunc) ([]Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &queryErrors.Error{
			Type:     queryErrors.ErrorTypeIO,
			Message:  "failed to access directory",
			Location: queryErrors.Location{File: dir},
			Cause:    err,
		}
	}
	if !info.IsDir() {
		return nil, &queryErrors.Error{
			Type:     queryErrors.ErrorTypeIO,
			Message:  "not a directory",
			Location: queryErrors.Location{File: dir},
		}
	}

	files, err := collectCatalogFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &queryErrors.Error{
			Type:       queryErrors.ErrorTypeIO,
			Message:    "no catalog files found in directory",
			Location:   queryErrors.Location{File: dir},
			Suggestion: fmt.Sprintf("Catalog files end in %s", strings.Join(Extensions, " or ")),
		}
	}

	results := make([]Result, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		cat, err := l.Load(ctx, path)
		results = append(results, Result{Source: path, Catalog: cat, Err: err})
		if progress != nil {
			progress(len(results), len(files), path)
		}
	}
	return results, nil
}

func collectCatalogFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if isHidden(d.Name()) && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if hasCatalogExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

func hasCatalogExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// defaultName derives a catalog name from its source file.
func defaultName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
