package sim

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/TriMagnetix/nmag-go/si"
	"github.com/TriMagnetix/nmag-go/when"
)

// negligibleTime is the tolerance for time comparisons in the stage
// loop, in seconds.
const negligibleTime = 1e-20

// Action names one schedulable step of a run.
type Action struct {
	name string
	fn   ActionFunc
}

// Do schedules a registered abbreviation by name, e.g. Do("averages")
// or Do("save_fields").
func Do(name string) Action { return Action{name: name} }

// DoFunc schedules a custom function under a display name.
func DoFunc(name string, fn ActionFunc) Action {
	return Action{name: name, fn: fn}
}

// Schedule binds actions to a trigger.
type Schedule struct {
	When    when.When
	Actions []Action
}

// LoopOption adjusts a relax or hysteresis run.
type LoopOption func(*loopConfig)

type loopConfig struct {
	save          []Schedule
	do            []Schedule
	convergence   when.When
	progressDelay time.Duration
}

// WithSave replaces the save schedules. The default saves averages and
// fields at every stage end.
func WithSave(schedules ...Schedule) LoopOption {
	return func(c *loopConfig) { c.save = schedules }
}

// WithDo sets the do schedules, which run before the save schedules of
// the same step.
func WithDo(schedules ...Schedule) LoopOption {
	return func(c *loopConfig) { c.do = schedules }
}

// WithConvergenceCheck sets when convergence is re-examined (default
// every 5 steps).
func WithConvergenceCheck(w when.When) LoopOption {
	return func(c *loopConfig) { c.convergence = w }
}

// WithProgressDelay sets the minimum interval between progress file
// updates (default one minute).
func WithProgressDelay(d time.Duration) LoopOption {
	return func(c *loopConfig) { c.progressDelay = d }
}

type plannedAction struct {
	name string
	fn   ActionFunc
	when when.When
}

var actionSeparators = regexp.MustCompile(`[ \t_]+`)

// normaliseAction lowercases and squeezes separator runs, so
// "Save  Fields" and "save_fields" name the same abbreviation.
func normaliseAction(s string) string {
	return actionSeparators.ReplaceAllString(strings.ToLower(s), "_")
}

func (s *Simulation) resolveAction(prefix, name string) (string, ActionFunc, error) {
	key := normaliseAction(prefix + " " + name)
	if fn, ok := s.abbrevs[key]; ok {
		return key, fn, nil
	}
	key = normaliseAction(name)
	if fn, ok := s.abbrevs[key]; ok {
		return key, fn, nil
	}

	return "", nil, fmt.Errorf(
		"sim: you want to %s %q but no such action is known (available: %s): %w",
		prefix, name, strings.Join(s.abbrevOrder, ", "), ErrUnknownAction)
}

// buildPlan resolves the schedules into a flat action list. Do entries
// run before save entries so a stage-end decision is visible to the
// saves of the same step.
func (s *Simulation) buildPlan(save, do []Schedule) ([]plannedAction, error) {
	var plan []plannedAction
	add := func(list []Schedule, prefix string) error {
		for _, sched := range list {
			for _, a := range sched.Actions {
				name, fn := a.name, a.fn
				if fn == nil {
					var err error
					name, fn, err = s.resolveAction(prefix, a.name)
					if err != nil {
						return err
					}
				}
				plan = append(plan, plannedAction{name: name, fn: fn, when: sched.When})
			}
		}

		return nil
	}
	if err := add(do, "do"); err != nil {
		return nil, err
	}
	if err := add(save, "save"); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(plan))
	for _, a := range plan {
		if seen[a.name] {
			return nil, fmt.Errorf(
				"sim: action %s is scheduled twice, combine the triggers with When.Or: %w",
				a.name, ErrDuplicateAction)
		}
		seen[a.name] = true
	}

	return plan, nil
}

// nextTimes is the stage-relative next-fire triple of one schedule.
// +Inf means the schedule puts no bound on that counter.
type nextTimes struct {
	step     float64
	time     float64
	realTime float64
}

// nextFireTimes computes when w fires next, relative to the stage
// start, so the triple stays comparable across steps of one stage.
func nextFireTimes(w when.When, c *Clock, tols map[string]float64) nextTimes {
	tm := c.TimeMap()
	rel := func(id string, base float64) float64 {
		if t, ok := w.NextTol(id, tm, tols).Event(); ok {
			return t - base
		}

		return math.Inf(1)
	}

	return nextTimes{
		step:     math.Min(rel("step", float64(c.ZeroStageStep)), rel("stage_step", 0)),
		time:     math.Min(rel("time", c.ZeroStageTime.Base()), rel("stage_time", 0)),
		realTime: rel("real_time", 0),
	}
}

type eventDeltas struct {
	step     float64
	time     float64
	realTime float64
}

func noDeltas() eventDeltas {
	inf := math.Inf(1)

	return eventDeltas{step: inf, time: inf, realTime: inf}
}

// nextEventDeltas shrinks prev by how far away w's next event is from
// the current clock position.
func nextEventDeltas(w when.When, c *Clock, tols map[string]float64, prev eventDeltas) eventDeltas {
	tm := c.TimeMap()
	d := func(id string, cur float64) float64 {
		if t, ok := w.NextTol(id, tm, tols).Event(); ok {
			return t - cur
		}

		return math.Inf(1)
	}

	return eventDeltas{
		step: math.Min(prev.step,
			math.Min(d("step", float64(c.Step)), d("stage_step", float64(c.StageStep)))),
		time: math.Min(prev.time,
			math.Min(d("time", c.Time.Base()), d("stage_time", c.StageTime.Base()))),
		realTime: math.Min(prev.realTime, d("real_time", c.RealTime.Base())),
	}
}

// Hysteresis sweeps the applied field through hExtList, relaxing the
// system at every value and running the scheduled actions as their
// triggers come up. A zero-value field entry keeps the current applied
// field. The sweep resumes from Clock().Stage, so a restored clock
// skips the stages already done.
func (s *Simulation) Hysteresis(hExtList [][3]si.SI, opts ...LoopOption) error {
	cfg := loopConfig{
		save: []Schedule{{
			When:    when.At("stage_end", when.Flag(true)),
			Actions: []Action{Do("averages"), Do("fields")},
		}},
		convergence:   when.Every("step", 5),
		progressDelay: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	plan, err := s.buildPlan(cfg.save, cfg.do)
	if err != nil {
		return err
	}

	tols := map[string]float64{"time": negligibleTime, "stage_time": negligibleTime}
	progressFile := s.ProgressFilename()

	if s.restarting {
		s.log.Info("hysteresis: restarting from a saved configuration",
			"file", s.RestartFilename())
		if err := s.driver.LoadRestart(s.RestartFilename()); err != nil {
			return fmt.Errorf("sim: load restart: %w", err)
		}
		s.restarting = false
	} else {
		s.log.Info("hysteresis: starting a new simulation",
			"progress_file", progressFile)
	}

	stage := s.clock.Stage
	s.clock.ExitHysteresis = false
	if stage-1 >= len(hExtList) {
		return nil
	}

	nextFire := make(map[string]nextTimes, len(plan))

	for i, hExt := range hExtList[stage-1:] {
		if i == 0 {
			s.clock.IncStageTo(stage)
		} else {
			s.clock.IncStage()
		}
		s.clock.StageEnd = false
		s.log.Info("hysteresis: starting stage",
			"stage", s.clock.Stage, "H_ext", fieldString(hExt))

		if !isNoField(hExt) {
			if err := s.driver.SetExternalField(hExt); err != nil {
				return fmt.Errorf("sim: set external field: %w", err)
			}
		}
		if err := s.driver.Reinitialise(si.MustNew(0, "s")); err != nil {
			return fmt.Errorf("sim: reinitialise: %w", err)
		}

		for _, a := range plan {
			nextFire[a.name] = nextFireTimes(a.when, s.clock, tols)
		}

		for {
			converged, err := s.IsConverged()
			if err != nil {
				return err
			}
			s.clock.StageEnd = converged

			deltas := nextEventDeltas(cfg.convergence, s.clock, tols, noDeltas())

			for _, a := range plan {
				matches := a.when.Match(s.clock.TimeMap())
				nst := nextFireTimes(a.when, s.clock, tols)
				if matches || nst != nextFire[a.name] {
					s.log.Info("hysteresis: running action",
						"action", a.name, "id", s.clock.ID, "step", s.clock.Step)
					if err := a.fn(s); err != nil {
						return fmt.Errorf("sim: action %s: %w", a.name, err)
					}
				}
				nextFire[a.name] = nst
				deltas = nextEventDeltas(a.when, s.clock, tols, deltas)
			}

			if s.clock.ExitHysteresis {
				s.log.Debug("hysteresis: exit requested, leaving the loop")

				return nil
			}
			if s.clock.StageEnd {
				s.log.Debug("hysteresis: end of stage",
					"stage", s.clock.Stage, "converged", converged)

				break
			}

			target := s.maxTimeReached
			if !math.IsInf(deltas.time, 1) {
				target = si.MustNew(s.clock.StageTime.Base()+deltas.time, "s")
			}
			maxSteps := -1
			if !math.IsInf(deltas.step, 1) {
				maxSteps = int(deltas.step)
			}

			reached, err := s.advanceTime(target, maxSteps)
			if err != nil {
				return err
			}
			beyond, err := reached.Gt(s.maxTimeReached.MulScalar(0.99))
			if err != nil {
				return fmt.Errorf("sim: advance time: %w", err)
			}
			if beyond {
				return fmt.Errorf(
					"sim: simulation time reached %s, are you starting from a zero torque configuration?: %w",
					s.maxTimeReached, ErrZeroTorque)
			}

			s.writeProgress(hExt, progressFile, cfg.progressDelay)
		}
	}

	return nil
}

// Relax integrates without changing the applied field until the system
// converges. It is a single-stage hysteresis run.
func (s *Simulation) Relax(opts ...LoopOption) error {
	s.log.Debug("entering relax")

	return s.Hysteresis([][3]si.SI{{}}, opts...)
}

// writeProgress refreshes the progress file, at most once per delay.
func (s *Simulation) writeProgress(hExt [3]si.SI, path string, delay time.Duration) {
	if !s.progress.Allow("hysteresis_reporting", delay) {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n%s\n",
		time.Now().Format(time.ANSIC), s.clock, s.driver.ConvergenceReport())
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		s.log.Warn("could not write progress file", "file", path, "error", err)

		return
	}
	s.log.Info("hysteresis progress",
		"step", s.clock.Step,
		"time", s.clock.TimeReachedSI.DensStr(),
		"stage", s.clock.Stage,
		"H_ext", fieldString(hExt))
}

// isNoField reports the zero value, meaning "keep the current field".
func isNoField(h [3]si.SI) bool {
	for _, c := range h {
		if !c.IsZero() || !c.IsDimensionless() {
			return false
		}
	}

	return true
}

func fieldString(h [3]si.SI) string {
	if isNoField(h) {
		return "unchanged"
	}

	return fmt.Sprintf("[%s, %s, %s]", h[0], h[1], h[2])
}
