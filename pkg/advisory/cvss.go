package advisory

import (
	"errors"
	"strings"

	"github.com/goark/go-cvss/v3/metric"
	"github.com/samber/oops"

	"github.com/aquasecurity/rustsec-vex/pkg/types"
)

var ErrUnsupportedCVSS = errors.New("unsupported CVSS version")

// CVSS is a CVSS v3 base metric with its derived score.
type CVSS struct {
	Version  string
	Vector   string
	Score    float64
	Severity types.Severity
}

func ParseCVSS(vector string) (*CVSS, error) {
	eb := oops.Tags("cvss").With("vector", vector)

	// e.g. CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H
	prefix, _, _ := strings.Cut(vector, "/")
	if strings.HasPrefix(prefix, "CVSS:") && !strings.HasPrefix(prefix, "CVSS:3.") {
		return nil, eb.Wrap(ErrUnsupportedCVSS)
	}

	bm, err := metric.NewBase().Decode(vector)
	if err != nil {
		return nil, eb.Wrapf(err, "failed to decode CVSS vector")
	}

	return &CVSS{
		Version:  strings.TrimPrefix(prefix, "CVSS:"),
		Vector:   vector,
		Score:    bm.Score(),
		Severity: types.Severity(bm.Severity()),
	}, nil
}
