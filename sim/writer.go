package sim

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/TriMagnetix/nmag-go/si"
)

// AllFields asks a save for every field the source reports.
const AllFields = "all"

// Source is what the DataWriter needs from a running simulation.
type Source interface {
	Name() string
	ID() int
	Step() int
	Stage() int
	StageStep() int
	Time() si.SI
	StageTime() si.SI
	RealTime() si.SI

	// SubfieldAverage returns the spatial average of one field in base
	// units, optionally restricted to a material region (material ""
	// means the whole field). A nil slice means the field is not
	// available and its columns are skipped; length 1 is a scalar,
	// longer slices are vector components.
	SubfieldAverage(field, material string) ([]float64, error)

	// MaterialsOfField lists the material names a per-material field
	// is defined on.
	MaterialsOfField(field string) []string

	// AllFieldNames lists every field the source can save spatially.
	AllFieldNames() []string

	// SaveSpatialFields writes the named fields, spatially resolved,
	// to filename.
	SaveSpatialFields(filename string, fields []string) error
}

// DataWriter writes the tabular .ndt data file (tab-separated, with a
// commented units header) and delegates spatial snapshots back to the
// source. The file is created lazily on the first save; the column set
// is frozen by that first save, and later rows leave missing columns
// empty. Safe for concurrent use.
type DataWriter struct {
	ndtPath string
	h5Path  string

	quantities []Quantity
	byName     map[string]Quantity
	log        *slog.Logger

	compress bool
	level    zstd.EncoderLevel

	mu            sync.Mutex
	file          *os.File
	out           io.Writer
	zw            *zstd.Encoder
	headerWritten bool
	columns       []string
	lastStep      int
}

// WriterOption adjusts a DataWriter.
type WriterOption func(*DataWriter)

// WithQuantities replaces the observable schema (default
// KnownQuantities).
func WithQuantities(qs []Quantity) WriterOption {
	return func(w *DataWriter) { w.quantities = qs }
}

// WithWriterLogger routes writer messages to l.
func WithWriterLogger(l *slog.Logger) WriterOption {
	return func(w *DataWriter) { w.log = l }
}

// WithCompression wraps the data table in a zstd stream, appending
// ".zst" to the file name. A zero level means zstd's default.
func WithCompression(level zstd.EncoderLevel) WriterOption {
	return func(w *DataWriter) {
		w.compress = true
		if level == 0 {
			level = zstd.SpeedDefault
		}
		w.level = level
	}
}

// NewDataWriter builds a writer for the given table and snapshot
// paths. Nothing touches the disk until the first Save.
func NewDataWriter(ndtPath, h5Path string, opts ...WriterOption) *DataWriter {
	w := &DataWriter{
		ndtPath:    ndtPath,
		h5Path:     h5Path,
		quantities: KnownQuantities(),
		log:        slog.Default(),
		lastStep:   -1,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.byName = make(map[string]Quantity, len(w.quantities))
	for _, q := range w.quantities {
		w.byName[q.Name] = q
	}

	return w
}

// NDTPath returns the effective data table path, including the ".zst"
// suffix when compression is on.
func (w *DataWriter) NDTPath() string {
	if w.compress {
		return w.ndtPath + ".zst"
	}

	return w.ndtPath
}

// Save appends one data row. When avoidSameStep is set and the source
// step equals the last saved one, nothing happens. A non-nil fields
// list additionally triggers a spatial snapshot; the single entry
// AllFields expands to every field the source reports.
func (w *DataWriter) Save(src Source, fields []string, avoidSameStep bool) error {
	skipped, err := w.writeRow(src, avoidSameStep)
	if err != nil || skipped {
		return err
	}

	return w.saveSpatial(src, fields)
}

// Close flushes and closes the data table. Safe to call when nothing
// was ever written.
func (w *DataWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			w.file.Close()

			return fmt.Errorf("sim: close zstd stream: %w", err)
		}
		w.zw = nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return fmt.Errorf("sim: close data table: %w", err)
	}

	return nil
}

func (w *DataWriter) writeRow(src Source, avoidSameStep bool) (skipped bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if avoidSameStep && src.Step() == w.lastStep {
		return true, nil
	}
	w.lastStep = src.Step()

	cols, err := w.gather(src)
	if err != nil {
		return false, err
	}

	if !w.headerWritten {
		if err := w.open(); err != nil {
			return false, err
		}
		if err := w.writeHeader(src, cols); err != nil {
			return false, err
		}
		w.headerWritten = true
	}

	byName := make(map[string]string, len(cols))
	for _, c := range cols {
		byName[c.name] = c.val
	}
	row := make([]string, len(w.columns))
	for i, name := range w.columns {
		row[i] = byName[name] // empty when a column went missing
	}
	if _, err := fmt.Fprintln(w.out, strings.Join(row, "\t")); err != nil {
		return false, fmt.Errorf("sim: append data row: %w", err)
	}

	return false, w.flush()
}

func (w *DataWriter) saveSpatial(src Source, fields []string) error {
	if fields == nil {
		return nil
	}
	names := fields
	if len(fields) == 1 && fields[0] == AllFields {
		names = src.AllFieldNames()
	}
	if len(names) == 0 {
		return nil
	}
	if err := src.SaveSpatialFields(w.h5Path, names); err != nil {
		return fmt.Errorf("sim: save spatial fields: %w", err)
	}

	return nil
}

func (w *DataWriter) open() error {
	f, err := os.Create(w.NDTPath())
	if err != nil {
		return fmt.Errorf("sim: create data table: %w", err)
	}
	w.file = f
	w.out = f
	if w.compress {
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(w.level))
		if err != nil {
			f.Close()
			w.file = nil

			return fmt.Errorf("sim: zstd stream: %w", err)
		}
		w.zw = zw
		w.out = zw
	}

	return nil
}

func (w *DataWriter) writeHeader(src Source, cols []column) error {
	var b strings.Builder
	b.WriteString("# Nmag Data Table (TSV format)\n")
	fmt.Fprintf(&b, "# Simulation: %s\n", src.Name())
	fmt.Fprintf(&b, "# Date: %s\n", time.Now().Format(time.ANSIC))
	b.WriteString("# --- Units ---\n")
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
		units := "1"
		if c.q.Units != nil {
			units = c.q.Units.DensStr()
		}
		fmt.Fprintf(&b, "# %s: %s\n", c.name, units)
	}
	b.WriteString("# ---\n")
	b.WriteString(strings.Join(names, "\t"))
	b.WriteString("\n")
	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return fmt.Errorf("sim: write header: %w", err)
	}
	w.columns = names
	w.log.Debug("data table header written",
		"file", w.NDTPath(), "columns", len(names))

	return nil
}

// column is one gathered cell: its column name, the rendered value and
// the quantity it belongs to.
type column struct {
	name string
	val  string
	q    Quantity
}

// gather collects the clock columns and every available field average,
// in schema order.
func (w *DataWriter) gather(src Source) ([]column, error) {
	now := time.Now()
	cols := []column{
		{name: "id", val: strconv.Itoa(src.ID())},
		{name: "step", val: strconv.Itoa(src.Step())},
		{name: "stage_step", val: strconv.Itoa(src.StageStep())},
		{name: "stage", val: strconv.Itoa(src.Stage())},
		{name: "time", val: formatFloat(src.Time().Base())},
		{name: "stage_time", val: formatFloat(src.StageTime().Base())},
		{name: "real_time", val: formatFloat(src.RealTime().Base())},
		{name: "unixtime", val: formatFloat(float64(now.UnixNano()) / 1e9)},
		{name: "localtime", val: now.Format("2006/01/02-15:04:05")},
	}
	for i := range cols {
		q, ok := w.byName[cols[i].name]
		if !ok {
			return nil, fmt.Errorf(
				"sim: quantity %q is not in the schema and cannot be saved: %w",
				cols[i].name, ErrUnknownQuantity)
		}
		cols[i].q = q
	}

	for _, q := range w.quantities {
		if q.Type != TypeField && q.Type != TypePField {
			continue
		}
		if strings.Contains(q.Sig(), "?") {
			for _, mat := range src.MaterialsOfField(q.Name) {
				cols = appendSubfield(cols, src, q, q.Name+"_"+mat, mat)
			}
		} else {
			cols = appendSubfield(cols, src, q, q.Name, "")
		}
	}

	return cols, nil
}

// appendSubfield asks the source for one field average and appends its
// columns; unavailable averages are skipped silently.
func appendSubfield(cols []column, src Source, q Quantity, prefix, material string) []column {
	avg, err := src.SubfieldAverage(q.Name, material)
	if err != nil || avg == nil {
		return cols
	}
	if len(avg) == 1 {
		return append(cols, column{
			name: prefix,
			val:  formatFloat(avg[0]),
			q:    q.SubQuantity(prefix),
		})
	}
	for i, v := range avg {
		name := fmt.Sprintf("%s_%d", prefix, i)
		cols = append(cols, column{name: name, val: formatFloat(v), q: q.SubQuantity(name)})
	}

	return cols
}

func (w *DataWriter) flush() error {
	if w.zw == nil {
		return nil
	}
	if err := w.zw.Flush(); err != nil {
		return fmt.Errorf("sim: flush data table: %w", err)
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
