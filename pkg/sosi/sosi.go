package sosi

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/BiteMyBucket/sosi/internal/parser"
	"github.com/paulmach/orb"
)

// Reader streams features from one SOSI source in file order.
//
// Create a reader with Open or NewReader and call Next until it returns
// io.EOF:
//
//	r, err := sosi.Open("N50_Arealdekke.sos", sosi.DefaultReadOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for {
//	    f, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(f.ObjectType(), f.Geometry().Type)
//	}
//
// A Reader is not safe for concurrent use.
type Reader struct {
	internal *parser.Reader
	header   Header
}

// Open opens a SOSI file and parses its header.
//
// Paths of the form zip:///path/to/archive.zip!entry.sos stream the entry
// straight from the archive without extracting it.
func Open(path string, opts ReadOptions) (*Reader, error) {
	if strings.HasPrefix(path, "zip://") {
		return openFromZip(path, opts)
	}
	r, err := parser.Open(path, opts.internal())
	if err != nil {
		return nil, err
	}
	return wrapReader(r), nil
}

// NewReader parses the header from src and returns a reader positioned at
// the first object group. If src implements io.Closer, Close closes it.
func NewReader(src io.Reader, opts ReadOptions) (*Reader, error) {
	r, err := parser.NewReader(src, opts.internal())
	if err != nil {
		return nil, err
	}
	return wrapReader(r), nil
}

func wrapReader(r *parser.Reader) *Reader {
	return &Reader{
		internal: r,
		header:   convertHeader(r.Header()),
	}
}

// zipEntry closes the entry stream and its archive together and reports the
// uncompressed size for progress.
type zipEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
	size    int64
}

func (z *zipEntry) Size() int64 { return z.size }

func (z *zipEntry) Close() error {
	err := z.ReadCloser.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// openFromZip opens a SOSI entry inside a zip archive.
// Format: zip:///path/to/file.zip!path/within/zip.sos
func openFromZip(zipURL string, opts ReadOptions) (*Reader, error) {
	parts := strings.SplitN(strings.TrimPrefix(zipURL, "zip://"), "!", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid zip URL format: %s (expected zip://path!entry)", zipURL)
	}
	zipPath, entryPath := parts[0], parts[1]

	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var entry *zip.File
	for _, f := range archive.File {
		if f.Name == entryPath {
			entry = f
			break
		}
	}
	if entry == nil {
		archive.Close()
		return nil, fmt.Errorf("file not found in zip: %s", entryPath)
	}

	rc, err := entry.Open()
	if err != nil {
		archive.Close()
		return nil, fmt.Errorf("open zip entry: %w", err)
	}

	src := &zipEntry{ReadCloser: rc, archive: archive, size: int64(entry.UncompressedSize64)}
	r, err := parser.NewReader(src, opts.internal())
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("%s: %w", zipURL, err)
	}
	return wrapReader(r), nil
}

// ReadHeader opens path, parses only its header and closes it again.
func ReadHeader(path string) (Header, error) {
	r, err := Open(path, DefaultReadOptions())
	if err != nil {
		return Header{}, err
	}
	defer r.Close()
	return r.Header(), nil
}

// Next returns the next feature. It returns io.EOF at the end of the stream
// and ErrClosed after Close. Problems confined to one group are reported in
// Feature.Warnings instead of ending the stream.
func (r *Reader) Next() (*Feature, error) {
	f, err := r.internal.Next()
	if err != nil {
		return nil, err
	}
	return convertFeature(f), nil
}

// Header returns the file-level metadata.
func (r *Reader) Header() Header {
	return r.header
}

// CRS returns the EPSG identifier of the file, e.g. "EPSG:25833".
func (r *Reader) CRS() string {
	return r.internal.CRS()
}

// XYFactor returns the horizontal unit factor applied to raw coordinates.
func (r *Reader) XYFactor() float64 {
	return r.internal.XYFactor()
}

// ZFactor returns the height unit factor.
func (r *Reader) ZFactor() float64 {
	return r.internal.ZFactor()
}

// Progress returns the fraction of the source consumed, in [0, 1].
func (r *Reader) Progress() float64 {
	return r.internal.Progress()
}

// Close releases the underlying source. Calling it twice is harmless.
func (r *Reader) Close() error {
	return r.internal.Close()
}

// Header holds the metadata of the .HODE group.
type Header struct {
	CRS          string // EPSG identifier
	CoordSys     string // KOORDSYS code as written
	CoordSysName string // e.g. "EUREF89 UTM sone 33"

	XYFactor float64
	ZFactor  float64

	OriginNorth float64
	OriginEast  float64

	Charset       string // encoding used to decode the file
	Version       string // SOSI-VERSJON
	Level         string // SOSI-NIVÅ
	VerticalDatum string // VERT-DATUM

	// Area is the declared OMRÅDE extent in CRS units, valid when HasArea is set.
	Area    orb.Bound
	HasArea bool

	attributes *parser.Attributes
}

// Attribute returns a raw header value such as "EIER" or "PRODUSENT".
func (h Header) Attribute(key string) (string, bool) {
	return h.attributes.Get(key)
}

// AttributeKeys returns the header keys in file order.
func (h Header) AttributeKeys() []string {
	return h.attributes.Keys()
}

func convertHeader(h parser.HeaderInfo) Header {
	return Header{
		CRS:           h.CRS,
		CoordSys:      h.CoordSys,
		CoordSysName:  parser.CoordSysName(h.CoordSys),
		XYFactor:      h.XYFactor,
		ZFactor:       h.ZFactor,
		OriginNorth:   h.OriginNorth,
		OriginEast:    h.OriginEast,
		Charset:       h.Charset.String(),
		Version:       h.Version,
		Level:         h.Level,
		VerticalDatum: h.VerticalDatum,
		Area:          h.Area,
		HasArea:       h.HasArea,
		attributes:    h.Attributes,
	}
}
