package vex

import (
	"github.com/aquasecurity/rustsec-vex/pkg/advisory"
	"github.com/aquasecurity/rustsec-vex/pkg/csaf"
	"github.com/aquasecurity/rustsec-vex/pkg/log"
)

const remediationDetails = "Updated crate versions available"

// AssembleVulnerability builds the single vulnerability record of the document.
func AssembleVulnerability(adv *advisory.Advisory, set ProductSet) *csaf.Vulnerability {
	vuln := &csaf.Vulnerability{
		Title: adv.Title,
		IDs: []*csaf.VulnerabilityID{
			{
				SystemName: adv.ID.Kind().String(),
				Text:       adv.ID.String(),
			},
		},
		Notes: []*csaf.Note{
			{
				Category: csaf.NoteCategoryDescription,
				Text:     adv.Description,
			},
		},
	}
	if adv.ID.IsCVE() {
		vuln.CVE = adv.ID.String()
	}

	status := &csaf.ProductStatus{
		Fixed:            set.PatchedIDs(),
		KnownAffected:    set.VulnerableIDs(),
		KnownNotAffected: set.UnaffectedIDs(),
	}
	if !status.IsEmpty() {
		vuln.ProductStatus = status
	}

	if len(set.Patched) > 0 {
		vuln.Remediations = []*csaf.Remediation{
			{
				Category:   csaf.RemediationCategoryVendorFix,
				Details:    remediationDetails,
				ProductIDs: set.VulnerableIDs(),
			},
		}
	}

	if adv.CVSS != nil {
		if len(set.Vulnerable) == 0 {
			log.Warn("Omitting the score as no version is vulnerable",
				log.AdvisoryID(adv.ID.String()), log.Package(adv.Package))
		} else {
			vuln.Scores = []*csaf.Score{
				{
					CVSSv3: &csaf.CVSSv3{
						Version:      adv.CVSS.Version,
						VectorString: adv.CVSS.Vector,
						BaseScore:    adv.CVSS.Score,
						BaseSeverity: adv.CVSS.Severity.String(),
					},
					Products: set.VulnerableIDs(),
				},
			}
		}
	}
	return vuln
}
