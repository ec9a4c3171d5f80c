package sim_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TriMagnetix/nmag-go/si"
	"github.com/TriMagnetix/nmag-go/sim"
	"github.com/TriMagnetix/nmag-go/when"
)

func seconds(t *testing.T, v float64) si.SI {
	t.Helper()
	s, err := si.New(v, "s")
	require.NoError(t, err)

	return s
}

func TestFmtTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		val  float64
		want string
	}{
		{name: "zero", val: 0, want: "0.00 ps"},
		{name: "picoseconds", val: 50e-12, want: "50.00 ps"},
		{name: "just_below_ns_cut", val: 99.9e-12, want: "99.90 ps"},
		{name: "at_ns_cut", val: 100e-12, want: "0.10 ns"},
		{name: "nanoseconds", val: 150e-12, want: "0.15 ns"},
		{name: "above_ns", val: 1234e-12, want: "1.23 ns"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, sim.FmtTime(seconds(t, tc.val)))
		})
	}
}

func TestFmtTimePrec(t *testing.T) {
	t.Parallel()

	require.Equal(t, "50.1 ps", sim.FmtTimePrec(seconds(t, 50.123e-12), 1, 1))
	require.Equal(t, "50.1230 ps", sim.FmtTimePrec(seconds(t, 50.123e-12), 4, 1))
	require.Equal(t, "0.2 ns", sim.FmtTimePrec(seconds(t, 150.123e-12), 2, 1))
}

func TestFmtTime_NotATime(t *testing.T) {
	t.Parallel()

	// Falls back to the plain rendering when the value is not a time.
	require.Equal(t, "5", sim.FmtTime(si.Scalar(5)))
}

func TestNewClock(t *testing.T) {
	t.Parallel()

	c := sim.NewClock()
	require.Equal(t, -1, c.ID)
	require.Equal(t, 1, c.Stage)
	require.Zero(t, c.Step)
	require.Zero(t, c.StageStep)
	require.True(t, c.Time.IsZero())
	require.True(t, c.StageTime.IsZero())
	require.True(t, c.RealTime.IsZero())
	require.False(t, c.StageEnd)
	require.False(t, c.Convergence)
	require.False(t, c.ExitHysteresis)
}

func TestClock_IncStage(t *testing.T) {
	t.Parallel()

	c := sim.NewClock()
	c.Stage = 3
	c.Step = 50
	c.StageStep = 7
	c.Time = seconds(t, 10e-9)
	c.StageTime = seconds(t, 3e-9)
	c.Convergence = true

	c.IncStage()

	require.Equal(t, 4, c.Stage)
	require.Zero(t, c.StageStep)
	require.True(t, c.StageTime.IsZero())
	require.False(t, c.Convergence)
	require.Equal(t, 50, c.ZeroStageStep)
	require.InDelta(t, 10e-9, c.ZeroStageTime.Base(), 1e-24)
	require.Equal(t, 50, c.Step)
	require.InDelta(t, 10e-9, c.Time.Base(), 1e-24)
}

func TestClock_IncStageTo(t *testing.T) {
	t.Parallel()

	c := sim.NewClock()
	c.IncStageTo(10)
	require.Equal(t, 10, c.Stage)
	require.Zero(t, c.StageStep)
}

func TestClock_TimeMap(t *testing.T) {
	t.Parallel()

	c := sim.NewClock()
	c.Step = 3
	c.StageStep = 2
	c.Time = seconds(t, 2e-9)
	c.StageEnd = true

	tm := c.TimeMap()
	require.Equal(t, when.Num(-1), tm["id"])
	require.Equal(t, when.Num(1), tm["stage"])
	require.Equal(t, when.Num(3), tm["step"])
	require.Equal(t, when.Num(2), tm["stage_step"])
	require.Equal(t, when.Num(2e-9), tm["time"])
	require.Equal(t, when.Num(0), tm["stage_time"])
	require.Equal(t, when.Num(0), tm["real_time"])
	require.Equal(t, when.Num(0), tm["zero_stage_step"])
	require.Equal(t, when.Num(0), tm["zero_stage_time"])
	require.Equal(t, when.Flag(true), tm["stage_end"])
	require.Equal(t, when.Flag(false), tm["convergence"])
	require.Equal(t, when.Flag(false), tm["exit_hysteresis"])
}

func TestClock_String(t *testing.T) {
	t.Parallel()

	c := sim.NewClock()
	out := c.String()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)

	// Rules above and below, both as wide as the table rows.
	require.Equal(t, lines[0], lines[4])
	require.Equal(t, strings.Repeat("=", len(lines[1])), lines[0])
	for _, ln := range lines[1:4] {
		require.Len(t, ln, len(lines[1]))
		require.True(t, strings.HasPrefix(ln, "|"))
		require.True(t, strings.HasSuffix(ln, "|"))
	}

	require.Contains(t, lines[1], "ID=-1")
	require.Contains(t, lines[1], "Step=0")
	require.Contains(t, lines[1], "Time=0.00 ps")
	require.Contains(t, lines[1], "Last step size=0.00 ps")
	require.Contains(t, lines[2], "Stage=1")
	require.Contains(t, lines[2], "Stage-step=0")
	require.Contains(t, lines[2], "Stage-time=0.00 ps")
	require.Contains(t, lines[3], "Convergence=false")
	require.Contains(t, lines[3], "Stage-end=false")
	require.Contains(t, lines[3], "Exit hysteresis=false")
}

func TestClock_StringNanoseconds(t *testing.T) {
	t.Parallel()

	c := sim.NewClock()
	c.Time = seconds(t, 120e-12)
	require.Contains(t, c.String(), "Time=0.12 ns")
}
