package types

import "fmt"

// Status is the label a crate version receives against an advisory.
type Status int

var (
	// Statuses are the labels in precedence order: a version matching an
	// unaffected requirement is never reported as patched.
	Statuses = []string{
		"unaffected",
		"patched",
		"vulnerable",
	}
)

const (
	StatusUnaffected Status = iota
	StatusPatched
	StatusVulnerable
)

func NewStatus(status string) (Status, error) {
	for i, s := range Statuses {
		if status == s {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status: %s", status)
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(Statuses) {
		return "unknown"
	}
	return Statuses[s]
}

func (s Status) Index() int {
	return int(s)
}
