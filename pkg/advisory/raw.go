package advisory

import (
	"time"

	"golang.org/x/xerrors"
)

// https://github.com/RustSec/advisory-db

type rawFile struct {
	Advisory rawAdvisory `toml:"advisory"`
	Versions rawVersions `toml:"versions"`
}

type rawAdvisory struct {
	ID            string   `toml:"id"`
	Package       string   `toml:"package"`
	Date          rawDate  `toml:"date"`
	URL           string   `toml:"url"`
	Categories    []string `toml:"categories"`
	Keywords      []string `toml:"keywords"`
	Aliases       []string `toml:"aliases"`
	Related       []string `toml:"related"`
	References    []string `toml:"references"`
	CVSS          string   `toml:"cvss"`
	Informational string   `toml:"informational"`
	Withdrawn     rawDate  `toml:"withdrawn"`

	// Legacy all-TOML format only
	Title              string   `toml:"title"`
	Description        string   `toml:"description"`
	PatchedVersions    []string `toml:"patched_versions"`
	UnaffectedVersions []string `toml:"unaffected_versions"`
}

type rawVersions struct {
	Patched    []string `toml:"patched"`
	Unaffected []string `toml:"unaffected"`
}

// rawDate accepts both a quoted "2021-01-08" and a bare TOML local date.
type rawDate struct {
	t time.Time
}

func (d *rawDate) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		t, err := time.Parse(time.DateOnly, val)
		if err != nil {
			return xerrors.Errorf("invalid date %q: %w", val, err)
		}
		d.t = t
	case time.Time:
		d.t = time.Date(val.Year(), val.Month(), val.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return xerrors.Errorf("unexpected date type %T", v)
	}
	return nil
}
