package hierarchy

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWBS_GlobalCounter(t *testing.T) {
	got := GenerateWBS(sampleTree())
	assert.Equal(t, map[string]string{
		"A": "1",
		"B": "1.2",
		"D": "1.2.3",
		"C": "1.4",
		"E": "5",
	}, got)
}

func TestGenerateWBS_IgnoresExpansion(t *testing.T) {
	tasks := sampleTree()
	assert.Len(t, GenerateWBS(tasks), len(tasks))
}

func lastSegment(wbs string) int {
	i := strings.LastIndex(wbs, ".")
	n, _ := strconv.Atoi(wbs[i+1:])
	return n
}

// TestGenerateWBS_MonotonicUnique_Property builds random forests and checks
// that suffixes strictly increase in pre-order and no number repeats.
func TestGenerateWBS_MonotonicUnique_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(30) + 1
		tasks := make([]*domain.Task, 0, n)
		for i := 0; i < n; i++ {
			parent := ""
			if i > 0 && rng.Intn(3) > 0 {
				parent = "t" + strconv.Itoa(rng.Intn(i))
			}
			tasks = append(tasks, node("t"+strconv.Itoa(i), parent))
		}

		numbers := GenerateWBS(tasks)
		require.Len(t, numbers, n)

		exp := NewExpandState()
		exp.ExpandAll(tasks)
		rows := Flatten(tasks, exp)
		require.Len(t, rows, n)

		seen := map[string]bool{}
		prev := 0
		for _, r := range rows {
			wbs := numbers[r.Task.ID]
			assert.True(t, ValidWBS(wbs), "trial %d: %q", trial, wbs)
			assert.False(t, seen[wbs], "trial %d: duplicate %q", trial, wbs)
			seen[wbs] = true
			assert.Equal(t, r.Level, strings.Count(wbs, "."))

			suffix := lastSegment(wbs)
			assert.Greater(t, suffix, prev, "trial %d", trial)
			prev = suffix
		}
	}
}

func TestGenerateWBS_DoesNotMutate(t *testing.T) {
	tasks := sampleTree()
	GenerateWBS(tasks)
	for _, tk := range tasks {
		assert.Empty(t, tk.WBSNumber)
	}
}

func TestValidWBS(t *testing.T) {
	for _, s := range []string{"1", "1.2", "10.20.3"} {
		assert.True(t, ValidWBS(s), s)
	}
	for _, s := range []string{"", "1.", ".1", "1..2", "a", "1.a", " 1"} {
		assert.False(t, ValidWBS(s), s)
	}
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "2", Prefix("2.1.3"))
	assert.Equal(t, "7", Prefix("7"))
	assert.Equal(t, "", Prefix(""))
}
