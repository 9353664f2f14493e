package drag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapToWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"sunday midnight kept", date(1, 5), date(1, 5)},
		{"monday", date(1, 6), date(1, 12)},
		{"saturday", date(1, 11), date(1, 12)},
		{"sunday afternoon", date(1, 5).Add(14 * time.Hour), date(1, 12)},
		{"crosses month", date(1, 29), date(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SnapToWeek(tt.in))
		})
	}
}
