package adaptive

import (
	"encoding/csv"
	"io"
	"strconv"
)

// csvHeader is the fixed column order of the adaptation history export.
var csvHeader = []string{"timestamp", "victim_size", "hit_rate", "occupancy", "phase", "decision"}

// ExportCSV writes the header and one row per adaptation history record to
// w. A write failure is returned to the caller; controller state is never
// affected by an export attempt.
func (c *Controller) ExportCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range c.history {
		row := []string{
			strconv.FormatUint(r.Timestamp, 10),
			strconv.FormatUint(uint64(r.VictimSize), 10),
			strconv.FormatFloat(r.HitRate, 'f', -1, 64),
			strconv.FormatFloat(r.Occupancy, 'f', -1, 64),
			strconv.Itoa(int(r.Phase)),
			strconv.Itoa(int(r.Decision)),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
