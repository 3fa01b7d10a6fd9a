package host

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/sysid.go/pkg/excitation"
	"github.com/robotalks/sysid.go/pkg/framework"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"Time(s)", "Input", "Angle"}

// Experiment is a received record with its labels.
type Experiment struct {
	DeviceID     string
	SamplePeriod time.Duration
	Started      time.Time
	Record       *excitation.Record
}

// Time returns the time (seconds) of sample i.
func (e *Experiment) Time(i int) float64 {
	return float64(i) * e.SamplePeriod.Seconds()
}

// WriteCSV writes one row per sample.
func WriteCSV(out io.Writer, exp *Experiment) error {
	w := csv.NewWriter(out)
	if err := w.Write(CSVHeader); err != nil {
		return err
	}
	rec := exp.Record
	row := make([]string, 3)
	for i := 0; i < rec.Len(); i++ {
		row[0] = strconv.FormatFloat(exp.Time(i), 'g', -1, 64)
		row[1] = strconv.FormatFloat(float64(rec.Input[i]), 'g', -1, 32)
		row[2] = strconv.FormatFloat(float64(rec.Angle[i]), 'g', -1, 32)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// SaveCSV writes exp to the file at path.
func SaveCSV(path string, exp *Experiment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var errs framework.AggregatedError
	errs.Add(WriteCSV(f, exp), f.Close())
	return errs.Aggregate()
}
