package export

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// NewCompressedWriter wraps w in a zstd stream. Close flushes the frame but
// does not close w.
func NewCompressedWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return enc, nil
}
