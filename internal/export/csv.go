package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"sensor-readout.klederson.com/internal/config"
	"sensor-readout.klederson.com/internal/series"
)

// Serialize flattens channels into the share format: one line per tick of
// the first plotted channel, "<index>, <ch1>[, <ch2>[, <ch3>]]". Placeholder
// channels are skipped. There is no header row.
func Serialize(channels []*series.Channel) string {
	var sb strings.Builder
	_ = WriteCSV(&sb, channels)
	return sb.String()
}

// WriteCSV streams the Serialize format to w.
func WriteCSV(w io.Writer, channels []*series.Channel) error {
	cols := plotted(channels)
	if len(cols) == 0 {
		return nil
	}
	if len(cols) > config.ExportColumns {
		cols = cols[:config.ExportColumns]
	}

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	rows := cols[0].Len()
	for i := 0; i < rows; i++ {
		buf = strconv.AppendInt(buf[:0], int64(i), 10)
		for _, ch := range cols {
			if i >= ch.Len() {
				break
			}
			buf = append(buf, ", "...)
			buf = strconv.AppendFloat(buf, ch.At(i).Value, 'f', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func plotted(channels []*series.Channel) []*series.Channel {
	out := make([]*series.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch != nil && ch.Spec.Visible {
			out = append(out, ch)
		}
	}
	return out
}
