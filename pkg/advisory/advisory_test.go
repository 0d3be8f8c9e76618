package advisory_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aquasecurity/go-version/pkg/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/rustsec-vex/pkg/advisory"
	"github.com/aquasecurity/rustsec-vex/pkg/types"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind advisory.Kind
		wantErr  string
	}{
		{
			name:     "rustsec",
			input:    "RUSTSEC-2021-0003",
			wantKind: advisory.KindRustSec,
		},
		{
			name:     "cve",
			input:    "CVE-2021-25900",
			wantKind: advisory.KindCVE,
		},
		{
			name:     "ghsa",
			input:    "GHSA-43w2-9j62-hq99",
			wantKind: advisory.KindGHSA,
		},
		{
			name:     "talos",
			input:    "TALOS-2022-1234",
			wantKind: advisory.KindTalos,
		},
		{
			name:     "other",
			input:    "OSV-2020-111",
			wantKind: advisory.KindOther,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: "empty identifier",
		},
		{
			name:    "whitespace",
			input:   "RUSTSEC 2021 0003",
			wantErr: "contains whitespace",
		},
		{
			name:    "malformed rustsec",
			input:   "RUSTSEC-21-3",
			wantErr: "malformed RUSTSEC identifier",
		},
		{
			name:    "malformed cve",
			input:   "CVE-2021-1",
			wantErr: "malformed CVE identifier",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := advisory.ParseID(tt.input)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, advisory.ErrInvalidID)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, got.String())
			assert.Equal(t, tt.wantKind, got.Kind())
			assert.Equal(t, tt.wantKind == advisory.KindCVE, got.IsCVE())
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "RUSTSEC", advisory.KindRustSec.String())
	assert.Equal(t, "Talos", advisory.KindTalos.String())
	assert.Equal(t, "Other", advisory.Kind(99).String())
}

func TestVersions(t *testing.T) {
	versions, err := advisory.NewVersions(
		[]string{"^0.6.14", ">= 1.6.1"},
		[]string{"< 0.6.10"},
	)
	require.NoError(t, err)

	tests := []struct {
		version        string
		wantUnaffected bool
		wantPatched    bool
		wantVulnerable bool
	}{
		{version: "0.6.9", wantUnaffected: true},
		{version: "0.6.10", wantVulnerable: true},
		{version: "0.6.14", wantPatched: true},
		{version: "0.7.0", wantVulnerable: true},
		{version: "1.6.0", wantVulnerable: true},
		{version: "1.6.1", wantPatched: true},
		{version: "2.0.0", wantPatched: true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			v, err := semver.Parse(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUnaffected, versions.IsUnaffected(v), "unaffected")
			assert.Equal(t, tt.wantPatched, versions.IsPatched(v), "patched")
			assert.Equal(t, tt.wantVulnerable, versions.IsVulnerable(v), "vulnerable")
		})
	}

	t.Run("withdrawn", func(t *testing.T) {
		withdrawn := versions
		withdrawn.Withdrawn = true

		v, err := semver.Parse("0.6.10")
		require.NoError(t, err)
		assert.False(t, withdrawn.IsVulnerable(v))
	})
}

func TestNewRequirement(t *testing.T) {
	tests := []struct {
		name      string
		req       string
		matches   []string
		unmatched []string
		wantErr   string
	}{
		{
			name:      "bare version is caret",
			req:       "1.2.3",
			matches:   []string{"1.2.3", "1.9.0"},
			unmatched: []string{"1.2.2", "2.0.0"},
		},
		{
			name:      "caret below 1.0",
			req:       "^0.5",
			matches:   []string{"0.5.0", "0.5.9"},
			unmatched: []string{"0.6.0", "0.4.9"},
		},
		{
			name:      "tilde",
			req:       "~1.1",
			matches:   []string{"1.1.0", "1.1.7"},
			unmatched: []string{"1.2.0"},
		},
		{
			name:      "range",
			req:       ">= 1.2.3, < 2.0.0",
			matches:   []string{"1.2.3", "1.99.0"},
			unmatched: []string{"2.0.0", "1.2.2"},
		},
		{
			name:      "exact",
			req:       "= 1.0.0",
			matches:   []string{"1.0.0"},
			unmatched: []string{"1.0.1"},
		},
		{
			name:      "prerelease comparator",
			req:       ">= 2.0.0-alpha.5, < 3.0.0",
			matches:   []string{"2.0.0-alpha.5", "2.0.0-rc.1", "2.0.0", "2.5.0"},
			unmatched: []string{"2.0.0-alpha.4", "2.1.0-alpha.1", "1.9.0"},
		},
		{
			name:      "prerelease without prerelease comparator",
			req:       ">= 1.0.0",
			matches:   []string{"1.0.0", "1.2.0"},
			unmatched: []string{"1.2.0-beta.1", "1.0.0-rc.1"},
		},
		{
			name:    "empty comparator",
			req:     ">= 1.0.0,",
			wantErr: "empty comparator",
		},
		{
			name:    "invalid",
			req:     "> = foo",
			wantErr: "failed to parse version requirement",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := advisory.NewRequirement(tt.req)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req, req.String())

			for _, s := range tt.matches {
				v, err := semver.Parse(s)
				require.NoError(t, err)
				assert.True(t, req.Matches(v), s)
			}
			for _, s := range tt.unmatched {
				v, err := semver.Parse(s)
				require.NoError(t, err)
				assert.False(t, req.Matches(v), s)
			}
		})
	}
}

func TestParseCVSS(t *testing.T) {
	got, err := advisory.ParseCVSS("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H")
	require.NoError(t, err)
	assert.Equal(t, "3.1", got.Version)
	assert.InDelta(t, 9.8, got.Score, 0.001)
	assert.Equal(t, types.SeverityCritical, got.Severity)

	_, err = advisory.ParseCVSS("AV:N/AC:L")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode CVSS vector")

	_, err = advisory.ParseCVSS("CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:N/VI:L/VA:N/SC:N/SI:N/SA:N")
	require.ErrorIs(t, err, advisory.ErrUnsupportedCVSS)
}

func TestLoad_UnsupportedCVSS(t *testing.T) {
	got, err := advisory.Load("testdata/cvss-v4.md")
	require.NoError(t, err)

	assert.Equal(t, advisory.MustParseID("RUSTSEC-2024-0421"), got.ID)
	assert.Nil(t, got.CVSS)
	require.Len(t, got.Versions.Patched, 1)
}

func TestLoad(t *testing.T) {
	want := &advisory.Advisory{
		ID:      advisory.MustParseID("RUSTSEC-2021-0003"),
		Package: "smallvec",
		Date:    time.Date(2021, 1, 8, 0, 0, 0, 0, time.UTC),
		Title:   "Buffer overflow in SmallVec::insert_many",
		Description: "A bug in the SmallVec::insert_many method caused it to allocate a buffer that was smaller than needed.\n\n" +
			"It then wrote past the end of the buffer, causing a buffer overflow and memory corruption on the heap.",
		Aliases: []advisory.ID{
			advisory.MustParseID("CVE-2021-25900"),
			advisory.MustParseID("GHSA-43w2-9j62-hq99"),
		},
		URL:        "https://github.com/servo/rust-smallvec/issues/252",
		Categories: []string{"memory-corruption"},
		Keywords:   []string{"buffer-overflow", "heap-overflow", "unsound"},
	}

	tests := []struct {
		name     string
		filePath string
	}{
		{
			name:     "markdown",
			filePath: "testdata/RUSTSEC-2021-0003.md",
		},
		{
			name:     "legacy toml",
			filePath: "testdata/RUSTSEC-2021-0003.toml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := advisory.Load(tt.filePath)
			require.NoError(t, err)

			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Package, got.Package)
			assert.True(t, want.Date.Equal(got.Date), got.Date)
			assert.Equal(t, want.Title, got.Title)
			assert.Equal(t, want.Description, got.Description)
			assert.Equal(t, want.Aliases, got.Aliases)
			assert.Equal(t, want.URL, got.URL)
			assert.Equal(t, want.Categories, got.Categories)
			assert.Equal(t, want.Keywords, got.Keywords)
			assert.False(t, got.IsWithdrawn())

			require.NotNil(t, got.CVSS)
			assert.Equal(t, types.SeverityCritical, got.CVSS.Severity)

			require.Len(t, got.Versions.Patched, 2)
			require.Len(t, got.Versions.Unaffected, 1)
			assert.Equal(t, "< 0.6.10", got.Versions.Unaffected[0].String())
		})
	}
}

func TestLoad_Withdrawn(t *testing.T) {
	got, err := advisory.Load("testdata/RUSTSEC-2020-0036.md")
	require.NoError(t, err)

	assert.True(t, got.IsWithdrawn())
	assert.Equal(t, time.Date(2020, 12, 20, 0, 0, 0, 0, time.UTC), *got.Withdrawn)
	assert.Equal(t, "unmaintained", got.Informational)
	assert.Nil(t, got.CVSS)
	assert.True(t, got.Versions.Withdrawn)
	assert.Equal(t, "failure is officially deprecated/unmaintained", got.Title)
	assert.True(t, strings.HasPrefix(got.Description, "The `failure` crate"))

	// the advisory URL is repeated in the references
	assert.Equal(t, []string{
		"https://github.com/rust-lang-nursery/failure/pull/347",
		"https://boats.gitlab.io/blog/post/failure-to-fehler/",
	}, got.Links())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		wantErr  string
	}{
		{
			name:     "invalid id",
			filePath: "testdata/invalid-id.md",
			wantErr:  "malformed RUSTSEC identifier",
		},
		{
			name:     "no title",
			filePath: "testdata/no-title.md",
			wantErr:  "missing title heading",
		},
		{
			name:     "invalid requirement",
			filePath: "testdata/invalid-requirement.toml",
			wantErr:  "failed to parse version requirement",
		},
		{
			name:     "missing file",
			filePath: "testdata/missing.md",
			wantErr:  "file open error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := advisory.Load(tt.filePath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_InvalidIDIsDistinguishable(t *testing.T) {
	_, err := advisory.Parse(strings.NewReader("[advisory]\nid = \"\"\npackage = \"x\"\ndate = \"2021-01-01\"\n"))
	require.ErrorIs(t, err, advisory.ErrInvalidID)
}
