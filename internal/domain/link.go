package domain

import "time"

// Link is a dependency from SourceTaskID to TargetTaskID. A link whose
// endpoints do not both resolve is inert.
type Link struct {
	ID           string
	ProjectID    string
	SourceTaskID string
	TargetTaskID string
	Type         LinkType
	Lag          float64 // days; negative means lead time
	CreatedAt    time.Time
}

// LagDuration returns the lag as a time.Duration.
func (l *Link) LagDuration() time.Duration {
	return time.Duration(l.Lag * float64(Day))
}
