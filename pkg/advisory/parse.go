package advisory

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/oops"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/rustsec-vex/pkg/log"
)

// Load parses the advisory file at filePath.
func Load(filePath string) (*Advisory, error) {
	eb := oops.With("file_path", filePath)

	f, err := os.Open(filePath)
	if err != nil {
		return nil, eb.Wrapf(err, "file open error")
	}
	defer f.Close()

	adv, err := Parse(f)
	if err != nil {
		return nil, eb.Wrap(err)
	}
	return adv, nil
}

// Parse reads an advisory in the RustSec Markdown format, a ```toml front
// matter block followed by a "# Title" heading and the description. The
// legacy all-TOML format is accepted as well.
func Parse(r io.Reader) (*Advisory, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("read error: %w", err)
	}

	if !bytes.HasPrefix(bytes.TrimSpace(src), []byte("```")) {
		return parseTOML(src, "", "")
	}

	front, title, description, err := splitMarkdown(src)
	if err != nil {
		return nil, oops.Tags("markdown").Wrap(err)
	}
	return parseTOML(front, title, description)
}

func splitMarkdown(src []byte) (front []byte, title, description string, err error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var heading *ast.Heading
	for n := doc.FirstChild(); n != nil && heading == nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			if front == nil && string(node.Language(src)) == "toml" {
				front = blockLines(node, src)
			}
		case *ast.Heading:
			if front != nil && node.Level == 1 {
				heading = node
			}
		}
	}

	if front == nil {
		return nil, "", "", xerrors.New("missing TOML front matter")
	}
	if heading == nil || heading.Lines().Len() == 0 {
		return nil, "", "", xerrors.New("missing title heading")
	}

	lines := heading.Lines()
	last := lines.At(lines.Len() - 1)
	title = strings.TrimSpace(string(heading.Text(src)))
	description = strings.TrimSpace(string(src[last.Stop:]))
	return front, title, description, nil
}

func blockLines(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.Bytes()
}

func parseTOML(data []byte, title, description string) (*Advisory, error) {
	var raw rawFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, oops.Tags("toml").Wrapf(err, "failed to unmarshal TOML")
	}
	if title == "" {
		title = strings.TrimSpace(raw.Advisory.Title)
	}
	if description == "" {
		description = strings.TrimSpace(raw.Advisory.Description)
	}
	return raw.toAdvisory(title, description)
}

func (raw rawFile) toAdvisory(title, description string) (*Advisory, error) {
	a := raw.Advisory
	eb := oops.With("advisory_id", a.ID).With("package", a.Package)

	id, err := ParseID(a.ID)
	if err != nil {
		return nil, eb.Wrap(err)
	}
	if a.Package == "" {
		return nil, eb.Errorf("missing package name")
	}
	if a.Date.t.IsZero() {
		return nil, eb.Errorf("missing date")
	}

	aliases, err := parseIDs(a.Aliases)
	if err != nil {
		return nil, eb.With("field", "aliases").Wrap(err)
	}
	related, err := parseIDs(a.Related)
	if err != nil {
		return nil, eb.With("field", "related").Wrap(err)
	}

	var cvss *CVSS
	if a.CVSS != "" {
		cvss, err = ParseCVSS(a.CVSS)
		if errors.Is(err, ErrUnsupportedCVSS) {
			log.Warn("Ignoring the CVSS vector", log.AdvisoryID(a.ID), log.String("vector", a.CVSS))
		} else if err != nil {
			return nil, eb.Wrap(err)
		}
	}

	patched := raw.Versions.Patched
	if len(patched) == 0 {
		patched = a.PatchedVersions
	}
	unaffected := raw.Versions.Unaffected
	if len(unaffected) == 0 {
		unaffected = a.UnaffectedVersions
	}
	versions, err := NewVersions(patched, unaffected)
	if err != nil {
		return nil, eb.Wrap(err)
	}

	adv := &Advisory{
		ID:            id,
		Package:       a.Package,
		Date:          a.Date.t,
		Title:         title,
		Description:   description,
		Aliases:       aliases,
		Related:       related,
		URL:           a.URL,
		References:    a.References,
		Categories:    a.Categories,
		Keywords:      a.Keywords,
		CVSS:          cvss,
		Informational: a.Informational,
		Versions:      versions,
	}
	if !a.Withdrawn.t.IsZero() {
		withdrawn := a.Withdrawn.t
		adv.Withdrawn = &withdrawn
		adv.Versions.Withdrawn = true
	}
	return adv, nil
}

func parseIDs(ids []string) ([]ID, error) {
	var parsed []ID
	for _, s := range ids {
		id, err := ParseID(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, id)
	}
	return parsed, nil
}
