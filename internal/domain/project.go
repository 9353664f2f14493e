package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Short IDs are site codes such as SITE01 or BLDG0234.
var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

var (
	ErrShortIDRequired = errors.New("short ID is required (use --id flag)")
	ErrShortIDFormat   = errors.New("must be 3-6 uppercase letters followed by 2-4 digits (e.g. SITE01)")
)

// Project owns a task network and its links. StartDate anchors imports and
// new tasks; TargetDate, when set, is the contractual completion date.
type Project struct {
	ID         string
	ShortID    string
	Name       string
	StartDate  time.Time
	TargetDate *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Project) ValidateShortID() error {
	switch {
	case p.ShortID == "":
		return ErrShortIDRequired
	case !shortIDPattern.MatchString(p.ShortID):
		return fmt.Errorf("short ID %q %w", p.ShortID, ErrShortIDFormat)
	}
	return nil
}

// DisplayID is the short ID, or the first 8 characters of ID without one.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	return p.ID[:min(len(p.ID), 8)]
}

// Overruns reports whether end falls after the target date.
func (p *Project) Overruns(end time.Time) bool {
	return p.TargetDate != nil && end.After(*p.TargetDate)
}
