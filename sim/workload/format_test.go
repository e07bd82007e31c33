package workload

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/strike-sim/strike-sim/sim"
)

func TestReadInstance_PerDayLayout(t *testing.T) {
	inst, err := ReadInstance(strings.NewReader("3\n2\n2, 5, 0\n2, 1, 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, inst.N())
	assert.Equal(t, 2, inst.M())
	assert.Equal(t, []int{2, 2}, inst.Seats())
	assert.Equal(t, []int{5, 1}, inst.Prices())
	assert.Equal(t, []int{0, 0}, inst.WaitCosts())
	assert.False(t, inst.Bounded())
}

func TestReadInstance_LegacyLayout(t *testing.T) {
	// GIVEN the vector-per-line layout with m = 4
	input := "5\n4\n2, 2, 2, 2\n9, 3, 7, 1\n1, 0, 1, 0\n"

	// WHEN reading
	inst, err := ReadInstance(strings.NewReader(input))
	require.NoError(t, err)

	// THEN rows are s, p and h vectors
	assert.Equal(t, []int{2, 2, 2, 2}, inst.Seats())
	assert.Equal(t, []int{9, 3, 7, 1}, inst.Prices())
	assert.Equal(t, []int{1, 0, 1, 0}, inst.WaitCosts())
}

// captureLogOutput runs fn and returns what it logged at warn level or above.
func captureLogOutput(fn func()) string {
	var buf bytes.Buffer
	origOutput := logrus.StandardLogger().Out
	origLevel := logrus.GetLevel()
	logrus.SetOutput(&buf)
	logrus.SetLevel(logrus.WarnLevel)
	defer func() {
		logrus.SetOutput(origOutput)
		logrus.SetLevel(origLevel)
	}()
	fn()
	return buf.String()
}

func TestReadInstance_ThreeDays_PrefersPerDayLayoutAndWarns(t *testing.T) {
	// GIVEN a three-day file that also parses as the legacy layout
	var inst *sim.Instance
	var err error

	// WHEN reading it
	out := captureLogOutput(func() {
		inst, err = ReadInstance(strings.NewReader("2\n3\n1, 4, 0\n1, 5, 1\n1, 6, 2\n"))
	})
	require.NoError(t, err)

	// THEN rows are days and the ambiguity is reported
	assert.Equal(t, []int{4, 5, 6}, inst.Prices())
	assert.Contains(t, out, "fits both layouts")
}

func TestReadInstance_UnambiguousLayout_NoWarning(t *testing.T) {
	out := captureLogOutput(func() {
		_, err := ReadInstance(strings.NewReader("3\n2\n2, 5, 0\n2, 1, 0\n"))
		require.NoError(t, err)
	})

	assert.Empty(t, out)
}

func TestReadInstance_BoundsLineAndComments(t *testing.T) {
	input := "# evacuation\n2\n2\n\n2, 5, 1\n2, 1, 0\nbounds: 8, 3\n"

	inst, err := ReadInstance(strings.NewReader(input))
	require.NoError(t, err)

	pMax, hMax, ok := inst.Bounds()
	assert.True(t, ok)
	assert.Equal(t, 8, pMax)
	assert.Equal(t, 3, hMax)
}

func TestReadInstance_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool // wraps sim.ErrInvalidInstance
	}{
		{"empty", "", true},
		{"non-numeric n", "x\n1\n1, 1, 0\n", false},
		{"non-numeric field", "1\n1\n1, a, 0\n", false},
		{"wrong line count", "1\n2\n1, 1, 0\n", true},
		{"too few seats", "5\n2\n1, 1, 0\n1, 1, 0\n", true},
		{"bad bounds", "1\n1\n1, 1, 0\nbounds: 4\n", false},
		{"price above bound", "1\n1\n1, 9, 0\nbounds: 4, 0\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInstance(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, sim.ErrInvalidInstance)
			}
		})
	}
}

func TestWriteInstance_ReadBack(t *testing.T) {
	orig, err := sim.NewBoundedInstance(7, 3, []int{3, 2, 7}, []int{10, 4, 8}, []int{1, 0, 2}, 16, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteInstance(&buf, orig))
	assert.Equal(t, "7\n3\n3, 10, 1\n2, 4, 0\n7, 8, 2\nbounds: 16, 2\n", buf.String())

	back, err := ReadInstance(&buf)
	require.NoError(t, err)
	assert.True(t, orig.Equal(back))
}

func TestWriteSolution_OneLinePerDay(t *testing.T) {
	inst, err := sim.NewInstance(3, 2, []int{2, 2}, []int{5, 1}, []int{0, 0})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, sim.SolveOffline(inst)))

	assert.Equal(t, "1, 1\n2, 0\n", buf.String())
}

func TestInstanceFile_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.txt")
	orig, err := sim.NewInstance(2, 1, []int{2}, []int{3}, []int{0})
	require.NoError(t, err)

	require.NoError(t, WriteInstanceFile(path, orig))
	back, err := ReadInstanceFile(path)
	require.NoError(t, err)

	assert.True(t, orig.Equal(back))
}

func TestReadInstanceFile_Missing(t *testing.T) {
	_, err := ReadInstanceFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
