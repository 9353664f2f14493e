package hierarchy

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/constructbms/gantt/internal/domain"
)

var wbsPattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

// GenerateWBS numbers the full tree regardless of expansion. The counter is
// global to the walk: it increments on every visit, so numbers are unique
// and increase in display order. Roots get "<n>", children get
// "<parent>.<n>". The result maps task id to number.
func GenerateWBS(tasks []*domain.Task) map[string]string {
	tr := buildTree(tasks)
	out := make(map[string]string, len(tasks))

	counter := 0
	tr.walk(
		func(*domain.Task) bool { return true },
		func(t *domain.Task, level int) {
			counter++
			n := strconv.Itoa(counter)
			if level > 0 && t.HasParent() {
				if parent, ok := out[*t.ParentID]; ok {
					out[t.ID] = parent + "." + n
					return
				}
			}
			out[t.ID] = n
		},
	)
	return out
}

// ValidWBS reports whether s is a dotted sequence of digits such as "1.2.3".
func ValidWBS(s string) bool {
	return wbsPattern.MatchString(s)
}

// Prefix returns the first dot-separated segment of a WBS number.
func Prefix(wbs string) string {
	head, _, _ := strings.Cut(wbs, ".")
	return head
}
