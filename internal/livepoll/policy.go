// ABOUTME: Refresh policy for fixture event timelines
// ABOUTME: Polls only while a match is in play

package livepoll

import (
	"strings"
	"time"
)

// LiveInterval is how often events are refreshed while a match is in play
const LiveInterval = 30 * time.Second

// FixtureStatus is a match status short code as reported by the API
type FixtureStatus string

const (
	StatusScheduled   FixtureStatus = "NS"
	StatusTBD         FixtureStatus = "TBD"
	StatusFirstHalf   FixtureStatus = "1H"
	StatusHalfTime    FixtureStatus = "HT"
	StatusSecondHalf  FixtureStatus = "2H"
	StatusExtraTime   FixtureStatus = "ET"
	StatusBreakTime   FixtureStatus = "BT"
	StatusPenalties   FixtureStatus = "P"
	StatusSuspended   FixtureStatus = "SUSP"
	StatusInterrupted FixtureStatus = "INT"
	StatusFinished    FixtureStatus = "FT"
	StatusAfterExtra  FixtureStatus = "AET"
	StatusAfterPens   FixtureStatus = "PEN"
	StatusPostponed   FixtureStatus = "PST"
	StatusCancelled   FixtureStatus = "CANC"
	StatusAbandoned   FixtureStatus = "ABD"
)

var statusLabels = map[FixtureStatus]string{
	StatusScheduled:   "Scheduled",
	StatusTBD:         "Time TBD",
	StatusFirstHalf:   "1st half",
	StatusHalfTime:    "Half time",
	StatusSecondHalf:  "2nd half",
	StatusExtraTime:   "Extra time",
	StatusBreakTime:   "Break",
	StatusPenalties:   "Penalties",
	StatusSuspended:   "Suspended",
	StatusInterrupted: "Interrupted",
	StatusFinished:    "Full time",
	StatusAfterExtra:  "After extra time",
	StatusAfterPens:   "After penalties",
	StatusPostponed:   "Postponed",
	StatusCancelled:   "Cancelled",
	StatusAbandoned:   "Abandoned",
}

var longNames = map[string]FixtureStatus{
	"scheduled":   StatusScheduled,
	"first_half":  StatusFirstHalf,
	"half_time":   StatusHalfTime,
	"second_half": StatusSecondHalf,
	"extra_time":  StatusExtraTime,
	"penalties":   StatusPenalties,
	"finished":    StatusFinished,
	"postponed":   StatusPostponed,
	"cancelled":   StatusCancelled,
	"abandoned":   StatusAbandoned,
}

// ParseFixtureStatus accepts a short code ("1H") or long name ("first_half")
func ParseFixtureStatus(s string) (FixtureStatus, bool) {
	s = strings.TrimSpace(s)
	if st, ok := longNames[strings.ToLower(s)]; ok {
		return st, true
	}
	st := FixtureStatus(strings.ToUpper(s))
	if _, ok := statusLabels[st]; ok {
		return st, true
	}
	return FixtureStatus(s), false
}

// Label returns a human-readable status
func (s FixtureStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	if s == "" {
		return "Unknown"
	}
	return string(s)
}

// Live reports whether the match is in play
func (s FixtureStatus) Live() bool {
	_, ok := Interval(s)
	return ok
}

// Terminal reports whether the fixture can no longer change
func (s FixtureStatus) Terminal() bool {
	switch s {
	case StatusFinished, StatusAfterExtra, StatusAfterPens, StatusPostponed, StatusCancelled, StatusAbandoned:
		return true
	}
	return false
}

// Interval returns the events refresh interval for a fixture in status s.
// Polling is enabled only during the first and second halves.
func Interval(s FixtureStatus) (time.Duration, bool) {
	switch s {
	case StatusFirstHalf, StatusSecondHalf:
		return LiveInterval, true
	}
	return 0, false
}
