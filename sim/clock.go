package sim

import (
	"fmt"
	"strings"

	"github.com/TriMagnetix/nmag-go/si"
	"github.com/TriMagnetix/nmag-go/when"
)

var picosecond = si.MustUnit("ps")

// FmtTime renders a time as "<t> ps" under 100 ps and "<t> ns" above,
// two decimals either way.
func FmtTime(t si.SI) string { return FmtTimePrec(t, 2, 2) }

// FmtTimePrec is FmtTime with explicit decimal counts for the
// picosecond and nanosecond renderings.
func FmtTimePrec(t si.SI, psPrec, nsPrec int) string {
	ps, err := t.InUnitsOf(picosecond)
	if err != nil {
		return t.String()
	}
	if ps < 100.0 {
		return fmt.Sprintf("%.*f ps", psPrec, ps)
	}

	return fmt.Sprintf("%.*f ns", nsPrec, ps/1000.0)
}

// Clock carries every counter that defines "now" in a simulation run.
//
// ID numbers saved data rows and stays -1 until the first save. Stage
// counts applied-field values (starting at 1) and Step the total
// integration steps. The stage-prefixed counters restart at every
// stage; the Zero* fields record the total counters at the stage
// boundary so stage-relative and total counters convert into each
// other. The *SU twins hold the same values as bare floats in
// simulation units.
type Clock struct {
	ID        int
	Stage     int
	Step      int
	Time      si.SI
	StageStep int
	StageTime si.SI
	RealTime  si.SI

	StageEnd       bool
	Convergence    bool
	ExitHysteresis bool

	ZeroStageTime si.SI
	ZeroStageStep int

	TimeReachedSU float64
	TimeReachedSI si.SI
	LastStepDtSU  float64
	LastStepDtSI  si.SI
}

// NewClock returns a clock at the start of a fresh run.
func NewClock() *Clock {
	zero := si.MustNew(0, "s")

	return &Clock{
		ID:            -1,
		Stage:         1,
		Time:          zero,
		StageTime:     zero,
		RealTime:      zero,
		ZeroStageTime: zero,
		TimeReachedSI: zero,
		LastStepDtSI:  zero,
	}
}

// IncStage advances the clock to the next stage.
func (c *Clock) IncStage() { c.IncStageTo(c.Stage + 1) }

// IncStageTo advances the clock to the given stage. The stage-relative
// counters restart and the current totals become the new stage zero
// point.
func (c *Clock) IncStageTo(stage int) {
	c.Stage = stage
	c.StageStep = 0
	c.StageTime = si.MustNew(0, "s")
	c.Convergence = false
	c.ZeroStageStep = c.Step
	c.ZeroStageTime = c.Time
}

// TimeMap exposes the counters as a when.Time snapshot: numeric
// counters under their snake_case names (times in base seconds) plus
// the boolean flags.
func (c *Clock) TimeMap() when.Time {
	return when.Time{
		"id":              when.Num(float64(c.ID)),
		"stage":           when.Num(float64(c.Stage)),
		"step":            when.Num(float64(c.Step)),
		"stage_step":      when.Num(float64(c.StageStep)),
		"time":            when.Num(c.Time.Base()),
		"stage_time":      when.Num(c.StageTime.Base()),
		"real_time":       when.Num(c.RealTime.Base()),
		"zero_stage_step": when.Num(float64(c.ZeroStageStep)),
		"zero_stage_time": when.Num(c.ZeroStageTime.Base()),
		"stage_end":       when.Flag(c.StageEnd),
		"convergence":     when.Flag(c.Convergence),
		"exit_hysteresis": when.Flag(c.ExitHysteresis),
	}
}

// String renders the clock as a boxed pipe table, three rows of the
// counters that matter when watching a run.
func (c *Clock) String() string {
	rows := [][]string{
		{
			fmt.Sprintf("ID=%d", c.ID),
			fmt.Sprintf("Step=%d", c.Step),
			fmt.Sprintf("Time=%s", FmtTime(c.Time)),
			fmt.Sprintf("Last step size=%s", FmtTime(c.LastStepDtSI)),
		},
		{
			"",
			fmt.Sprintf("Stage=%d", c.Stage),
			fmt.Sprintf("Stage-step=%d", c.StageStep),
			fmt.Sprintf("Stage-time=%s", FmtTime(c.StageTime)),
		},
		{
			"",
			fmt.Sprintf("Convergence=%v", c.Convergence),
			fmt.Sprintf("Stage-end=%v", c.StageEnd),
			fmt.Sprintf("Exit hysteresis=%v", c.ExitHysteresis),
		},
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString("|")
		for i, cell := range row {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteString("\n")
	}
	table := strings.TrimSuffix(b.String(), "\n")
	rule := strings.Repeat("=", len(strings.SplitN(table, "\n", 2)[0]))

	return rule + "\n" + table + "\n" + rule
}
