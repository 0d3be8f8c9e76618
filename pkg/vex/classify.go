package vex

import (
	"github.com/aquasecurity/go-version/pkg/semver"
	"github.com/samber/oops"

	"github.com/aquasecurity/rustsec-vex/pkg/advisory"
	"github.com/aquasecurity/rustsec-vex/pkg/log"
	"github.com/aquasecurity/rustsec-vex/pkg/types"
)

// ClassifiedVersion is a registry version with the single label it received.
type ClassifiedVersion struct {
	Version string
	Status  types.Status
}

// Classify labels every registry version, in registry order. Unaffected takes
// precedence over patched, and patched over the vulnerability oracle. Versions
// the oracle rejects are dropped.
func Classify(versions advisory.Versions, registryVersions []string) ([]ClassifiedVersion, error) {
	var classified []ClassifiedVersion
	for _, ver := range registryVersions {
		v, err := semver.Parse(ver)
		if err != nil {
			return nil, oops.Tags("semver").With("version", ver).Wrapf(err, "failed to parse version")
		}

		var status types.Status
		switch {
		case versions.IsUnaffected(v):
			status = types.StatusUnaffected
		case versions.IsPatched(v):
			status = types.StatusPatched
		case versions.IsVulnerable(v):
			status = types.StatusVulnerable
		default:
			log.Debug("Dropping unclassified version", log.String("version", ver))
			continue
		}
		classified = append(classified, ClassifiedVersion{
			Version: ver,
			Status:  status,
		})
	}
	return classified, nil
}
