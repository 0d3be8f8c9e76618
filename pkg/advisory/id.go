package advisory

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/xerrors"
)

var ErrInvalidID = errors.New("invalid advisory ID")

// Kind is the naming authority an identifier was issued by.
type Kind int

const (
	KindOther Kind = iota
	KindRustSec
	KindCVE
	KindGHSA
	KindTalos
)

var kindNames = map[Kind]string{
	KindOther:   "Other",
	KindRustSec: "RUSTSEC",
	KindCVE:     "CVE",
	KindGHSA:    "GHSA",
	KindTalos:   "Talos",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindOther]
}

type idFormat struct {
	kind   Kind
	prefix string
	re     *regexp.Regexp
}

var idFormats = []idFormat{
	{kind: KindRustSec, prefix: "RUSTSEC-", re: regexp.MustCompile(`^RUSTSEC-\d{4}-\d{4}$`)},
	{kind: KindCVE, prefix: "CVE-", re: regexp.MustCompile(`^CVE-\d{4}-\d{4,}$`)},
	{kind: KindGHSA, prefix: "GHSA-", re: regexp.MustCompile(`^GHSA(-[23456789cfghjmpqrvwx]{4}){3}$`)},
	{kind: KindTalos, prefix: "TALOS-", re: regexp.MustCompile(`^TALOS-\d{4}-\d{4}$`)},
}

// ID is an advisory identifier such as RUSTSEC-2021-0003 or CVE-2021-25900.
type ID struct {
	value string
	kind  Kind
}

// ParseID classifies s by its prefix. An identifier with a known prefix must
// match that authority's format; anything else without whitespace is KindOther.
func ParseID(s string) (ID, error) {
	if s == "" {
		return ID{}, xerrors.Errorf("empty identifier: %w", ErrInvalidID)
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return ID{}, xerrors.Errorf("%q contains whitespace: %w", s, ErrInvalidID)
	}

	for _, f := range idFormats {
		if !strings.HasPrefix(s, f.prefix) {
			continue
		}
		if !f.re.MatchString(s) {
			return ID{}, xerrors.Errorf("malformed %s identifier %q: %w", f.kind, s, ErrInvalidID)
		}
		return ID{value: s, kind: f.kind}, nil
	}
	return ID{value: s, kind: KindOther}, nil
}

// MustParseID is ParseID for identifiers known to be valid.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string {
	return id.value
}

func (id ID) Kind() Kind {
	return id.kind
}

func (id ID) IsCVE() bool {
	return id.kind == KindCVE
}

func (id ID) IsZero() bool {
	return id.value == ""
}
