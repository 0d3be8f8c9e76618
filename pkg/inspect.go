package pkg

import (
	"fmt"
	"io"

	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/rustsec-vex/pkg/csaf"
	"github.com/aquasecurity/rustsec-vex/pkg/types"
)

func inspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return xerrors.New("exactly one document is required")
	}
	doc, err := csaf.Load(c.Args().First())
	if err != nil {
		return xerrors.Errorf("load error: %w", err)
	}
	printSummary(c.App.Writer, doc)
	return nil
}

func printSummary(w io.Writer, doc *csaf.Advisory) {
	tracking := doc.Document.Tracking
	fmt.Fprintf(w, "%s: %s\n", tracking.ID, doc.Document.Title)
	fmt.Fprintf(w, "  published: %s (revision %s)\n", tracking.InitialReleaseDate, tracking.Version)
	if len(tracking.Aliases) > 0 {
		fmt.Fprintf(w, "  aliases: %v\n", tracking.Aliases)
	}

	for _, vuln := range doc.Vulnerabilities {
		severity := types.SeverityUnknown
		for _, score := range vuln.Scores {
			if score.CVSSv3 == nil {
				continue
			}
			if s, err := types.NewSeverity(score.CVSSv3.BaseSeverity); err == nil {
				severity = s
			}
		}
		fmt.Fprintf(w, "  severity: %s\n", types.ColorizeSeverity(severity.String()))

		status := vuln.ProductStatus
		if status == nil {
			status = &csaf.ProductStatus{}
		}
		fmt.Fprintf(w, "  fixed: %d\n", len(status.Fixed))
		fmt.Fprintf(w, "  known_affected: %d\n", len(status.KnownAffected))
		fmt.Fprintf(w, "  known_not_affected: %d\n", len(status.KnownNotAffected))
	}
}
