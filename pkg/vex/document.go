package vex

import (
	"time"

	"github.com/samber/lo"

	"github.com/aquasecurity/rustsec-vex/pkg/advisory"
	"github.com/aquasecurity/rustsec-vex/pkg/csaf"
)

const (
	publisherName      = "RUSTSEC"
	publisherNamespace = "https://rustsec.org/"

	initialRevision   = "1"
	withdrawnRevision = "2"
)

// ComposeDocument wraps the product tree and the vulnerability record into a
// VEX document published by the RustSec coordinator.
func ComposeDocument(adv *advisory.Advisory, tree *csaf.ProductTree, vuln *csaf.Vulnerability,
	gen *csaf.Generator) *csaf.Advisory {
	published := formatDate(adv.Date)
	tracking := csaf.Tracking{
		ID:                 adv.ID.String(),
		Status:             csaf.TrackingStatusFinal,
		Version:            initialRevision,
		InitialReleaseDate: published,
		CurrentReleaseDate: published,
		RevisionHistory: []csaf.Revision{
			{
				Date:    published,
				Number:  initialRevision,
				Summary: "RUSTSEC Advisory",
			},
		},
		Generator: gen,
	}
	if len(adv.Aliases) > 0 {
		tracking.Aliases = lo.Map(adv.Aliases, func(id advisory.ID, _ int) string {
			return id.String()
		})
	}
	if adv.IsWithdrawn() {
		withdrawn := formatDate(*adv.Withdrawn)
		tracking.RevisionHistory = append(tracking.RevisionHistory, csaf.Revision{
			Date:    withdrawn,
			Number:  withdrawnRevision,
			Summary: "Advisory withdrawn",
		})
		tracking.CurrentReleaseDate = withdrawn
		tracking.Version = withdrawnRevision
	}

	doc := csaf.Document{
		Category:    csaf.DocumentCategoryVEX,
		CSAFVersion: csaf.CSAFVersion20,
		Publisher: csaf.DocumentPublisher{
			Category:  csaf.PublisherCategoryCoordinator,
			Name:      publisherName,
			Namespace: publisherNamespace,
		},
		Title:    adv.Title,
		Tracking: tracking,
	}
	for _, link := range adv.Links() {
		doc.References = append(doc.References, &csaf.Reference{
			Summary: link,
			URL:     link,
		})
	}
	if adv.Informational != "" {
		doc.Notes = []*csaf.Note{
			{
				Category: csaf.NoteCategoryGeneral,
				Title:    "Informational",
				Text:     adv.Informational,
			},
		}
	}

	return &csaf.Advisory{
		Document:        doc,
		ProductTree:     tree,
		Vulnerabilities: []*csaf.Vulnerability{vuln},
	}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
