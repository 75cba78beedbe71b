package repository

import (
	"time"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// applyDateRange narrows a query on column to [from 00:00, to+1day 00:00).
// The exclusive upper bound at start of the following day makes the "to"
// date fully inclusive: an entry at to 23:59:59 matches, one at
// to+1day 00:00:00 does not. Malformed dates are ignored — the DTO layer
// validates the format before queries get here.
func applyDateRange(q *gorm.DB, column, from, to string) *gorm.DB {
	if from != "" {
		if t, err := time.ParseInLocation(dateLayout, from, time.UTC); err == nil {
			q = q.Where(column+" >= ?", t)
		}
	}
	if to != "" {
		if t, err := time.ParseInLocation(dateLayout, to, time.UTC); err == nil {
			q = q.Where(column+" < ?", t.AddDate(0, 0, 1))
		}
	}
	return q
}
