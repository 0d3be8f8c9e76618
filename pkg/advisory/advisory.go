package advisory

import (
	"time"

	"github.com/samber/lo"
)

// Advisory is a RustSec security advisory for a single crate.
type Advisory struct {
	ID      ID
	Package string

	// Date is the publication date at midnight UTC.
	Date time.Time

	Title       string
	Description string
	Aliases     []ID
	Related     []ID
	URL         string
	References  []string
	Categories  []string
	Keywords    []string
	CVSS        *CVSS

	// Informational is set for notices such as "unmaintained" or "unsound".
	Informational string
	Withdrawn     *time.Time

	Versions Versions
}

func (a *Advisory) IsWithdrawn() bool {
	return a.Withdrawn != nil
}

// Links returns the advisory URL followed by its references, without duplicates.
func (a *Advisory) Links() []string {
	return lo.Uniq(lo.Compact(append([]string{a.URL}, a.References...)))
}
