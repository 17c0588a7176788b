package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sensor-readout.klederson.com/internal/sensor"
	"sensor-readout.klederson.com/internal/series"
)

// FileName builds "readout-<category>-<session>.<ext>".
func FileName(category sensor.Category, session uuid.UUID, ext string) string {
	short := strings.SplitN(session.String(), "-", 2)[0]
	return fmt.Sprintf("readout-%s-%s.%s", category, short, ext)
}

// SaveCSV writes the channels to path. A ".zst" suffix compresses the file.
func SaveCSV(path string, channels []*series.Channel) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ".zst") {
		return WriteCSV(f, channels)
	}

	zw, err := NewCompressedWriter(f)
	if err != nil {
		return err
	}
	if err := WriteCSV(zw, channels); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// SavePNG renders the channels into a PNG file at path.
func SavePNG(path string, channels []*series.Channel, title, unit string, interval time.Duration) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WritePNG(f, channels, title, unit, interval)
}
