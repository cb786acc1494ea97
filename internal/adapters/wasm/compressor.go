package wasm

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compressor = (*Compressor)(nil)

// osUnknown is the gzip header OS byte for "unknown".
const osUnknown = 255

// Compressor implements ports.Compressor with gzip at maximum compression.
// The header carries no name, no modification time and an unknown OS, so
// identical input always yields identical output.
type Compressor struct{}

// NewCompressor creates a new Compressor.
func NewCompressor() *Compressor {
	return &Compressor{}
}

// Compress writes a gzip copy of src to dst through a temporary file in dst's
// directory and renames it into place.
func (c *Compressor) Compress(src, dst string) (int64, error) {
	in, err := os.Open(src) //nolint:gosec // path comes from the resolved layout
	if err != nil {
		return 0, wrapCompression(err, src, dst)
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return 0, wrapCompression(err, src, dst)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := c.write(tmp, in); err != nil {
		_ = tmp.Close()
		return 0, wrapCompression(err, src, dst)
	}
	if err := tmp.Close(); err != nil {
		return 0, wrapCompression(err, src, dst)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return 0, wrapCompression(err, src, dst)
	}

	info, err := os.Stat(tmpName)
	if err != nil {
		return 0, wrapCompression(err, src, dst)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return 0, zerr.With(domain.WrapKind(domain.ErrPublishFailed, err), "path", dst)
	}
	return info.Size(), nil
}

func (c *Compressor) write(w io.Writer, r io.Reader) error {
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	// The writer stores ModTime.Unix() as is, so the zero time.Time would
	// not encode as zero.
	zw.Header = gzip.Header{
		ModTime: time.Unix(0, 0),
		OS:      osUnknown,
	}

	if _, err := io.Copy(zw, r); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	if f, ok := w.(*os.File); ok {
		return f.Sync()
	}
	return nil
}

func wrapCompression(err error, src, dst string) error {
	err = domain.WrapKind(domain.ErrCompressionFailed, err)
	err = zerr.With(err, "source", src)
	return zerr.With(err, "destination", dst)
}
