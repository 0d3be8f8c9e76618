package advisory

import (
	"strings"
	"unicode"

	"github.com/aquasecurity/go-version/pkg/semver"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Requirement is a Cargo version requirement such as ">= 1.2.3, < 2.0.0".
type Requirement struct {
	raw         string
	constraints semver.Constraints

	// releases of the comparators carrying a prerelease
	preReleases []semver.Version
}

// NewRequirement parses a Cargo requirement. Comparators without an operator
// are caret requirements in Cargo, so "1.2.3" is evaluated as "^1.2.3".
func NewRequirement(req string) (Requirement, error) {
	eb := oops.Tags("semver").With("requirement", req)

	var comparators []string
	var preReleases []semver.Version
	for _, c := range strings.Split(req, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			return Requirement{}, eb.Errorf("empty comparator")
		}
		if unicode.IsDigit(rune(c[0])) {
			c = "^" + c
		}
		comparators = append(comparators, c)

		if v, err := semver.Parse(strings.TrimLeft(c, "<>=^~ ")); err == nil && v.IsPreRelease() {
			preReleases = append(preReleases, v.Release())
		}
	}

	constraints, err := semver.NewConstraints(strings.Join(comparators, ", "), semver.WithPreRelease(true))
	if err != nil {
		return Requirement{}, eb.Wrapf(err, "failed to parse version requirement")
	}
	return Requirement{
		raw:         req,
		constraints: constraints,
		preReleases: preReleases,
	}, nil
}

// Matches reports whether v satisfies the requirement. As in Cargo, a
// prerelease only matches when some comparator carries a prerelease of the
// same major.minor.patch.
func (r Requirement) Matches(v semver.Version) bool {
	if v.IsPreRelease() {
		release := v.Release()
		if !lo.ContainsBy(r.preReleases, release.Equal) {
			return false
		}
	}
	return r.constraints.Check(v)
}

func (r Requirement) String() string {
	return r.raw
}

// Versions holds the patched and unaffected requirements of an advisory.
type Versions struct {
	Patched    []Requirement
	Unaffected []Requirement

	// Withdrawn advisories declare no version vulnerable.
	Withdrawn bool
}

func NewVersions(patched, unaffected []string) (Versions, error) {
	p, err := parseRequirements(patched)
	if err != nil {
		return Versions{}, oops.With("kind", "patched").Wrap(err)
	}
	u, err := parseRequirements(unaffected)
	if err != nil {
		return Versions{}, oops.With("kind", "unaffected").Wrap(err)
	}
	return Versions{
		Patched:    p,
		Unaffected: u,
	}, nil
}

func parseRequirements(reqs []string) ([]Requirement, error) {
	var parsed []Requirement
	for _, req := range reqs {
		r, err := NewRequirement(req)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, r)
	}
	return parsed, nil
}

func (vs Versions) IsUnaffected(v semver.Version) bool {
	return matchAny(vs.Unaffected, v)
}

func (vs Versions) IsPatched(v semver.Version) bool {
	return matchAny(vs.Patched, v)
}

// IsVulnerable reports whether v is affected: it is neither patched nor
// unaffected and the advisory has not been withdrawn.
func (vs Versions) IsVulnerable(v semver.Version) bool {
	if vs.Withdrawn {
		return false
	}
	return !vs.IsPatched(v) && !vs.IsUnaffected(v)
}

func matchAny(reqs []Requirement, v semver.Version) bool {
	for _, r := range reqs {
		if r.Matches(v) {
			return true
		}
	}
	return false
}
