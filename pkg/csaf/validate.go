package csaf

import (
	"bytes"
	"encoding/json"

	gocsaf "github.com/gocsaf/csaf/v3/csaf"
	"github.com/samber/oops"
)

// Validate checks adv against the CSAF 2.0 JSON schema and returns the
// schema violations. A non-nil error means the check itself could not run.
func Validate(adv *Advisory) ([]string, error) {
	eb := oops.In("csaf").With("tracking_id", adv.Document.Tracking.ID)

	var buf bytes.Buffer
	if err := Encode(&buf, adv); err != nil {
		return nil, eb.Wrap(err)
	}

	var doc any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		return nil, eb.Wrapf(err, "json unmarshal error")
	}

	violations, err := gocsaf.ValidateCSAF(doc)
	if err != nil {
		return nil, eb.Wrapf(err, "schema validation error")
	}
	return violations, nil
}
