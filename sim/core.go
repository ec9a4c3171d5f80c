package sim

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TriMagnetix/nmag-go/si"
	"github.com/TriMagnetix/nmag-go/throttle"
)

// Advance reports what one AdvanceTime call did.
type Advance struct {
	Reached si.SI // stage time reached, seconds
	Steps   int   // integration steps performed in this call
	LastDt  si.SI // size of the last step; zero when no step ran
}

// Driver is the physics backend a Simulation drives: the timestepper
// plus the field data it can average and snapshot.
type Driver interface {
	// AdvanceTime integrates up to the stage-relative target time or
	// maxSteps steps, whichever comes first. maxSteps < 0 means no
	// step bound.
	AdvanceTime(target si.SI, maxSteps int) (Advance, error)

	// SetExternalField applies a new [Hx, Hy, Hz] applied field.
	SetExternalField(h [3]si.SI) error

	// Reinitialise resets the integrator to the given stage time.
	Reinitialise(initialTime si.SI) error

	// IsConverged reports whether the current stage has relaxed.
	IsConverged() (bool, error)

	// ConvergenceReport renders the recent convergence history for the
	// progress file.
	ConvergenceReport() string

	// Data access, with the semantics the writer Source documents.
	SubfieldAverage(field, material string) ([]float64, error)
	MaterialsOfField(field string) []string
	AllFieldNames() []string
	SaveSpatialFields(filename string, fields []string) error

	// SaveRestart and LoadRestart snapshot and resume the backend
	// state.
	SaveRestart(filename string) error
	LoadRestart(filename string) error
}

// ActionFunc is one schedulable step of a relax or hysteresis run.
type ActionFunc func(*Simulation) error

// Simulation owns the clock and the data writer and drives a Driver
// through relax and hysteresis runs. Not safe for concurrent use.
type Simulation struct {
	name   string
	driver Driver

	features       Features
	log            *slog.Logger
	maxTimeReached si.SI

	clock  *Clock
	writer *DataWriter

	restarting  bool
	abbrevs     map[string]ActionFunc
	abbrevOrder []string
	progress    *throttle.Throttler
}

// Option adjusts a Simulation.
type Option func(*simConfig)

type simConfig struct {
	features   Features
	log        *slog.Logger
	writerOpts []WriterOption
	maxTime    si.SI
}

// WithFeatures replaces the run configuration (default
// DefaultFeatures).
func WithFeatures(f Features) Option {
	return func(c *simConfig) { c.features = f }
}

// WithLogger routes simulation messages to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *simConfig) { c.log = l }
}

// WithWriterOptions passes options through to the data writer.
func WithWriterOptions(opts ...WriterOption) Option {
	return func(c *simConfig) { c.writerOpts = append(c.writerOpts, opts...) }
}

// WithMaxTimeReached sets the advance-time ceiling standing in for
// infinity (default 1 s).
func WithMaxTimeReached(t si.SI) Option {
	return func(c *simConfig) { c.maxTime = t }
}

// New builds a simulation around a driver. An empty name falls back to
// Features.RunID. Existing data files abort the run unless the Clean
// feature moves them aside or Restart resumes from them.
func New(name string, driver Driver, opts ...Option) (*Simulation, error) {
	cfg := simConfig{
		features: DefaultFeatures(),
		log:      slog.Default(),
		maxTime:  si.MustNew(1, "s"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if name == "" {
		name = cfg.features.RunID
	}

	s := &Simulation{
		name:           name,
		driver:         driver,
		features:       cfg.features,
		log:            cfg.log,
		maxTimeReached: cfg.maxTime,
		clock:          NewClock(),
		abbrevs:        make(map[string]ActionFunc),
		progress:       throttle.New(),
	}
	s.log.Info("simulation object created", "name", name)

	dataFiles := []string{
		s.NDTFilename(), s.NDTFilename() + ".zst",
		s.H5Filename(), s.TolFilename(),
	}
	switch {
	case cfg.features.Clean:
		if err := renameOldFiles(s.log, dataFiles); err != nil {
			return nil, err
		}
	case cfg.features.Restart:
		s.log.Info("starting simulation in restart mode")
		s.restarting = true
	default:
		for _, f := range dataFiles {
			if _, err := os.Stat(f); err == nil {
				return nil, fmt.Errorf(
					"sim: found old data file %s (set Clean to move it aside or Restart to resume): %w",
					f, ErrDataFilesExist)
			}
		}
	}

	s.writer = NewDataWriter(s.NDTFilename(), s.H5Filename(), cfg.writerOpts...)

	s.AddSaveAbbrev("averages", func(s *Simulation) error {
		return s.SaveData(nil, true)
	})
	s.AddSaveAbbrev("fields", func(s *Simulation) error {
		return s.SaveData([]string{AllFields}, true)
	})
	s.AddSaveAbbrev("restart", func(s *Simulation) error {
		return s.SaveRestart()
	})
	s.AddDoAbbrev("next_stage", func(s *Simulation) error {
		s.NextStage()

		return nil
	})
	s.AddDoAbbrev("exit", func(s *Simulation) error {
		s.ExitHysteresis()

		return nil
	})

	return s, nil
}

// renameOldFiles moves each existing path aside to the first free
// numbered suffix (file.1, file.2, ...).
func renameOldFiles(log *slog.Logger, paths []string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		var target string
		for n := 1; ; n++ {
			candidate := fmt.Sprintf("%s.%d", p, n)
			if _, err := os.Stat(candidate); err != nil {
				target = candidate

				break
			}
		}
		if err := os.Rename(p, target); err != nil {
			return fmt.Errorf("sim: move old data file aside: %w", err)
		}
		log.Info("moved old data file aside", "from", p, "to", target)
	}

	return nil
}

func (s *Simulation) fileName(suffix string) string {
	return filepath.Join(s.features.SaveDir, s.name+suffix)
}

// NDTFilename is the tabular data file (before any ".zst" suffix).
func (s *Simulation) NDTFilename() string { return s.fileName("_dat.ndt") }

// H5Filename is the spatial snapshot file.
func (s *Simulation) H5Filename() string { return s.fileName("_dat.h5") }

// TolFilename is the tolerance log file.
func (s *Simulation) TolFilename() string { return s.fileName("_tol.log") }

// RestartFilename is the restart snapshot file.
func (s *Simulation) RestartFilename() string { return s.fileName("_restart.h5") }

// ProgressFilename is the throttled progress report file.
func (s *Simulation) ProgressFilename() string { return s.fileName("_progress.txt") }

// Clock exposes the run counters; callers resuming a run may restore
// them before starting the loop.
func (s *Simulation) Clock() *Clock { return s.clock }

// Name implements the writer Source.
func (s *Simulation) Name() string { return s.name }

// ID implements the writer Source.
func (s *Simulation) ID() int { return s.clock.ID }

// Step implements the writer Source.
func (s *Simulation) Step() int { return s.clock.Step }

// Stage implements the writer Source.
func (s *Simulation) Stage() int { return s.clock.Stage }

// StageStep implements the writer Source.
func (s *Simulation) StageStep() int { return s.clock.StageStep }

// Time implements the writer Source.
func (s *Simulation) Time() si.SI { return s.clock.Time }

// StageTime implements the writer Source.
func (s *Simulation) StageTime() si.SI { return s.clock.StageTime }

// RealTime implements the writer Source.
func (s *Simulation) RealTime() si.SI { return s.clock.RealTime }

// SubfieldAverage implements the writer Source by delegation.
func (s *Simulation) SubfieldAverage(field, material string) ([]float64, error) {
	return s.driver.SubfieldAverage(field, material)
}

// MaterialsOfField implements the writer Source by delegation.
func (s *Simulation) MaterialsOfField(field string) []string {
	return s.driver.MaterialsOfField(field)
}

// AllFieldNames implements the writer Source by delegation.
func (s *Simulation) AllFieldNames() []string {
	return s.driver.AllFieldNames()
}

// SaveSpatialFields implements the writer Source by delegation.
func (s *Simulation) SaveSpatialFields(filename string, fields []string) error {
	s.log.Info("saving spatial fields", "file", filename, "fields", fields)

	return s.driver.SaveSpatialFields(filename, fields)
}

// AddSaveAbbrev registers fn under "save_<name>" for use in save
// schedules.
func (s *Simulation) AddSaveAbbrev(name string, fn ActionFunc) {
	s.addAbbrev("save", name, fn)
}

// AddDoAbbrev registers fn under "do_<name>" for use in do schedules.
func (s *Simulation) AddDoAbbrev(name string, fn ActionFunc) {
	s.addAbbrev("do", name, fn)
}

func (s *Simulation) addAbbrev(prefix, name string, fn ActionFunc) {
	key := normaliseAction(name)
	if !strings.HasPrefix(key, prefix+"_") {
		key = prefix + "_" + key
	}
	if _, dup := s.abbrevs[key]; !dup {
		s.abbrevOrder = append(s.abbrevOrder, key)
	}
	s.abbrevs[key] = fn
}

// SaveData assigns the next data id and appends one row to the data
// table; fields and avoidSameStep pass through to the writer Save.
func (s *Simulation) SaveData(fields []string, avoidSameStep bool) error {
	s.clock.ID++

	return s.writer.Save(s, fields, avoidSameStep)
}

// SaveRestart snapshots the backend state into the restart file.
func (s *Simulation) SaveRestart() error {
	name := s.RestartFilename()
	s.log.Info("saving restart snapshot", "file", name)
	if err := s.driver.SaveRestart(name); err != nil {
		return fmt.Errorf("sim: save restart: %w", err)
	}

	return nil
}

// IsConverged queries the driver and records the answer in the clock.
func (s *Simulation) IsConverged() (bool, error) {
	conv, err := s.driver.IsConverged()
	if err != nil {
		return false, fmt.Errorf("sim: convergence check: %w", err)
	}
	s.clock.Convergence = conv

	return conv, nil
}

// NextStage asks the running loop to finish the current stage. This is
// the "do_next_stage" abbreviation.
func (s *Simulation) NextStage() { s.clock.StageEnd = true }

// ExitHysteresis asks the running loop to finish the current stage and
// leave the whole loop. This is the "do_exit" abbreviation.
func (s *Simulation) ExitHysteresis() {
	s.clock.StageEnd = true
	s.clock.ExitHysteresis = true
}

// Close flushes and closes the data writer.
func (s *Simulation) Close() error { return s.writer.Close() }

// advanceTime runs the driver and folds its report into the clock,
// accounting the wall time spent.
func (s *Simulation) advanceTime(target si.SI, maxSteps int) (si.SI, error) {
	start := time.Now()
	adv, err := s.driver.AdvanceTime(target, maxSteps)
	elapsed := time.Since(start).Seconds()
	s.clock.RealTime = si.MustNew(s.clock.RealTime.Base()+elapsed, "s")
	if err != nil {
		return si.SI{}, fmt.Errorf("sim: advance time: %w", err)
	}

	s.clock.Step += adv.Steps
	s.clock.StageStep += adv.Steps
	s.clock.StageTime = adv.Reached
	s.clock.Time = si.MustNew(s.clock.ZeroStageTime.Base()+adv.Reached.Base(), "s")
	s.clock.TimeReachedSI = adv.Reached
	s.clock.TimeReachedSU = adv.Reached.Base()
	if !adv.LastDt.IsZero() {
		s.clock.LastStepDtSI = adv.LastDt
		s.clock.LastStepDtSU = adv.LastDt.Base()
	}

	return adv.Reached, nil
}
