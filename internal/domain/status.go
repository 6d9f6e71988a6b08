package domain

import "strings"

// Status is the upstream compliance category of a water system.
type Status string

const (
	StatusInventoryIncomplete Status = "Inventory not received or incomplete"
	StatusNotCompliant        Status = "Not compliant"
	StatusCompliant           Status = "Compliant"
	StatusFullyReplaced       Status = "100% replaced"
	StatusNoLeadLines         Status = "No lead lines"
	StatusWholesaleOnly       Status = "No service lines; wholesale only"
	StatusUnknown             Status = "Unknown"
)

// AllStatuses returns every status in display order, most concerning first.
func AllStatuses() []Status {
	return []Status{
		StatusInventoryIncomplete,
		StatusNotCompliant,
		StatusCompliant,
		StatusFullyReplaced,
		StatusNoLeadLines,
		StatusWholesaleOnly,
		StatusUnknown,
	}
}

// ParseStatus matches a label against the known statuses, ignoring case and
// surrounding whitespace. It reports false for an unrecognized label.
func ParseStatus(label string) (Status, bool) {
	label = strings.TrimSpace(label)
	for _, s := range AllStatuses() {
		if strings.EqualFold(label, string(s)) {
			return s, true
		}
	}
	return StatusUnknown, false
}

func (s Status) String() string {
	return string(s)
}

// HasReplacementProgram reports whether the system has lines to replace and a
// measurable replacement rate.
func (s Status) HasReplacementProgram() bool {
	switch s {
	case StatusCompliant, StatusFullyReplaced, StatusNotCompliant:
		return true
	default:
		return false
	}
}
