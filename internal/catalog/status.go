package catalog

import "strings"

// Status represents the translation lifecycle of a line.
type Status string

const (
	StatusNotTranslated Status = "not_translated"
	StatusTranslated    Status = "translated"
	StatusReviewed      Status = "reviewed"
	StatusApproved      Status = "approved"
)

var allStatuses = []Status{
	StatusNotTranslated,
	StatusTranslated,
	StatusReviewed,
	StatusApproved,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// StatusForEdit derives the status a text edit lands a line in, regardless
// of its current status: empty text resets to not_translated so a blank
// translation can never masquerade as reviewed or approved content, and any
// non-empty edit lands on translated — editing after review or approval
// deliberately invalidates that review.
func StatusForEdit(text string) Status {
	if strings.TrimSpace(text) == "" {
		return StatusNotTranslated
	}
	return StatusTranslated
}

// CanReview reports whether a reviewer action may move a line forward from
// its current status. Review and approval each step one rung and never skip.
func CanReview(current Status) bool {
	return current == StatusTranslated
}

// CanApprove reports whether an approver action may move a line forward.
func CanApprove(current Status) bool {
	return current == StatusReviewed
}
