package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
)

// Keywords with stream-level meaning
const (
	keywordHeader = "HODE"
	keywordEnd    = "SLUTT"
)

// Options configures reading behavior
type Options struct {
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	// SkipUnknown: if true, groups whose keyword is not a known object type
	// (PUNKT, KURVE, FLATE, TEKST, ...) are not returned
	// Default: false
	SkipUnknown bool

	// ObjectTypeFilter: if non-empty, only return features whose OBJTYPE is
	// listed. Curves are still cached for polygons that reference them.
	ObjectTypeFilter []string

	// ValidateGeometry: if true, every non-empty geometry is checked and
	// failures are added to the feature's warnings
	// Default: false
	ValidateGeometry bool
}

// DefaultOptions returns reader options with defaults
func DefaultOptions() Options {
	return Options{
		SkipUnknown:      false,
		ObjectTypeFilter: nil,
		ValidateGeometry: false,
	}
}

// Reader is a forward-only stream of features from one SOSI source.
//
// The header is parsed when the reader is created. Each call to Next parses
// exactly one object group. Curves are kept in memory by id for the lifetime
// of the reader so that later polygons can reference them.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	src    io.Reader
	lex    *lexer
	header HeaderInfo
	dec    coordinateDecoder
	curves *curveCache
	opts   Options
	log    *slog.Logger
	filter map[string]struct{}

	head *statement // next level-1 statement, read ahead

	total     int64 // source size in bytes, 0 if unknown
	bodyStart int64 // bytes consumed when the header was done

	done   bool
	closed bool

	features int
	warnings int
}

// Open opens a SOSI file. The returned Reader owns the file and closes it
// on Close.
func Open(path string, opts Options) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	r, err := NewReader(f, opts)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// NewReader reads the header from src and returns a Reader positioned at
// the first object group. If src implements io.Closer, Close closes it.
// Header errors match ErrFormat.
func NewReader(src io.Reader, opts Options) (*Reader, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	total := sourceSize(src)

	br := bufio.NewReaderSize(src, headerScanSize)
	cs, bom, err := detectCharset(br)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		src:    src,
		lex:    newLexer(br, newLineDecoder(cs)),
		curves: newCurveCache(),
		opts:   opts,
		log:    log,
		total:  total,
	}
	if bom {
		r.lex.consumed = int64(len(utf8BOM))
	}
	if len(opts.ObjectTypeFilter) > 0 {
		r.filter = make(map[string]struct{}, len(opts.ObjectTypeFilter))
		for _, t := range opts.ObjectTypeFilter {
			r.filter[t] = struct{}{}
		}
	}

	if err := r.readHeader(cs); err != nil {
		return nil, err
	}

	r.log.Debug("opened SOSI source",
		"crs", r.header.CRS,
		"charset", cs.String(),
		"bom", bom,
		"xy_factor", r.header.XYFactor,
		"z_factor", r.header.ZFactor,
		"version", r.header.Version,
		"size", total)
	return r, nil
}

// readHeader consumes every .HODE group ahead of the first object group
func (r *Reader) readHeader(cs Charset) error {
	var groups []*rawGroup
	for {
		if err := r.fillHead(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r.head.key != keywordHeader {
			break
		}
		g, err := r.readGroup()
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if g != nil {
			groups = append(groups, g)
		}
	}

	header, err := extractHeader(groups, cs)
	if err != nil {
		return err
	}
	r.header = header
	r.dec = newCoordinateDecoder(header)
	r.bodyStart = r.lex.consumed
	return nil
}

// fillHead reads up to the next level-1 statement. Deeper statements with no
// group to belong to are dropped.
func (r *Reader) fillHead() error {
	for r.head == nil {
		st, err := r.lex.next()
		if err != nil {
			return err
		}
		if st.level == 1 {
			r.head = st
		}
	}
	return nil
}

// readGroup folds the pending level-1 statement and everything below it into
// a rawGroup. It returns io.EOF only when no group is left.
func (r *Reader) readGroup() (*rawGroup, error) {
	if err := r.fillHead(); err != nil {
		return nil, err
	}
	head := r.head
	r.head = nil

	var body []*statement
	for {
		st, err := r.lex.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if st.level <= 1 {
			r.head = st
			break
		}
		body = append(body, st)
	}
	return buildGroup(head, body), nil
}

// Next returns the next feature in file order. It returns io.EOF once the
// stream is exhausted and ErrClosed after Close. Problems local to one group
// never end the stream; they are reported in Feature.Warnings.
func (r *Reader) Next() (*Feature, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.done {
		return nil, io.EOF
	}

	for {
		g, err := r.readGroup()
		if errors.Is(err, io.EOF) {
			r.finish()
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}

		switch g.keyword {
		case keywordEnd:
			r.finish()
			return nil, io.EOF
		case keywordHeader:
			r.log.Debug("ignoring header group after first object", "line", g.line)
			continue
		}

		f := r.buildFeature(g)
		if !r.accept(g, f) {
			continue
		}
		r.features++
		r.warnings += len(f.Warnings)
		return f, nil
	}
}

// buildFeature decodes and assembles one group. Curves are cached here even
// when the feature is filtered out afterwards.
func (r *Reader) buildFeature(g *rawGroup) *Feature {
	coords, errs := r.dec.forGroup(g).decodeAll(g.coords)
	geometry, geomErrs := assembleGeometry(g, coords, r.curves)

	warnings := make([]error, 0, len(g.warnings)+len(errs)+len(geomErrs))
	warnings = append(warnings, g.warnings...)
	warnings = append(warnings, errs...)
	warnings = append(warnings, geomErrs...)

	if r.opts.ValidateGeometry && !geometry.IsEmpty() {
		if err := ValidateGeometry(&geometry); err != nil {
			warnings = append(warnings, err)
		}
	}

	for _, w := range warnings {
		var missing *ErrMissingCurve
		if errors.As(w, &missing) {
			r.log.Warn("dangling curve reference",
				"feature", missing.FeatureID, "curve", missing.CurveID, "line", g.line)
			continue
		}
		r.log.Debug("feature warning", "keyword", g.keyword, "id", g.localID, "line", g.line, "error", w)
	}

	if len(warnings) == 0 {
		warnings = nil
	}
	return &Feature{
		ID:              g.localID,
		HasID:           g.hasID,
		Keyword:         g.keyword,
		Kind:            g.class.kind(),
		Attributes:      g.attributes,
		Geometry:        geometry,
		CoordinateCount: geometry.VertexCount(),
		Warnings:        warnings,
	}
}

// accept applies the reference-only rule and the configured filters
func (r *Reader) accept(g *rawGroup, f *Feature) bool {
	if g.class == classReferenceOnly {
		return false
	}
	if r.opts.SkipUnknown && g.class == classUnclassified {
		return false
	}
	if r.filter != nil {
		if _, ok := r.filter[f.ObjectType()]; !ok {
			return false
		}
	}
	return true
}

func (r *Reader) finish() {
	if r.done {
		return
	}
	r.done = true
	r.log.Debug("finished SOSI source",
		"features", r.features,
		"warnings", r.warnings,
		"curves", r.curves.len())
}

// Header returns the parsed header.
func (r *Reader) Header() HeaderInfo {
	return r.header
}

// CRS returns the EPSG identifier of the file's coordinate system.
func (r *Reader) CRS() string {
	return r.header.CRS
}

// XYFactor returns the horizontal unit factor (ENHET).
func (r *Reader) XYFactor() float64 {
	return r.header.XYFactor
}

// ZFactor returns the height unit factor.
func (r *Reader) ZFactor() float64 {
	return r.header.ZFactor
}

// Progress returns the fraction of the body consumed, in [0, 1]. It is 1
// only after Next has returned io.EOF and 0 while the source size is
// unknown.
func (r *Reader) Progress() float64 {
	if r.done {
		return 1
	}
	span := r.total - r.bodyStart
	if r.total <= 0 || span <= 0 {
		return 0
	}
	p := float64(r.lex.consumed-r.bodyStart) / float64(span)
	switch {
	case p < 0:
		return 0
	case p >= 1:
		return math.Nextafter(1, 0)
	}
	return p
}

// Close releases the source. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// sourceSize returns the number of unread bytes in src when it can be known
// without reading.
func sourceSize(src io.Reader) int64 {
	switch s := src.(type) {
	case *os.File:
		info, err := s.Stat()
		if err != nil || !info.Mode().IsRegular() {
			return 0
		}
		offset, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0
		}
		return info.Size() - offset
	case interface{ Len() int }:
		return int64(s.Len())
	case interface{ Size() int64 }:
		return s.Size()
	}
	return 0
}
