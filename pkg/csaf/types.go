package csaf

// Types follow the CSAF 2.0 JSON schema:
// https://docs.oasis-open.org/csaf/csaf/v2.0/csaf-v2.0.html
// Optional members are pointers or slices tagged omitempty so that an
// absent value is never encoded as null or [].

// Advisory is the top level CSAF document.
type Advisory struct {
	Document        Document         `json:"document"`
	ProductTree     *ProductTree     `json:"product_tree,omitempty"`
	Vulnerabilities []*Vulnerability `json:"vulnerabilities,omitempty"`
}

type DocumentCategory string

const (
	DocumentCategoryBase DocumentCategory = "csaf_base"
	DocumentCategoryVEX  DocumentCategory = "csaf_vex"
)

type CSAFVersion string

const CSAFVersion20 CSAFVersion = "2.0"

type Document struct {
	Category    DocumentCategory  `json:"category"`
	CSAFVersion CSAFVersion       `json:"csaf_version"`
	Lang        string            `json:"lang,omitempty"`
	Notes       []*Note           `json:"notes,omitempty"`
	Publisher   DocumentPublisher `json:"publisher"`
	References  []*Reference      `json:"references,omitempty"`
	Title       string            `json:"title"`
	Tracking    Tracking          `json:"tracking"`
}

type PublisherCategory string

const (
	PublisherCategoryCoordinator PublisherCategory = "coordinator"
	PublisherCategoryDiscoverer  PublisherCategory = "discoverer"
	PublisherCategoryOther       PublisherCategory = "other"
	PublisherCategoryTranslator  PublisherCategory = "translator"
	PublisherCategoryUser        PublisherCategory = "user"
	PublisherCategoryVendor      PublisherCategory = "vendor"
)

type DocumentPublisher struct {
	Category         PublisherCategory `json:"category"`
	ContactDetails   *string           `json:"contact_details,omitempty"`
	IssuingAuthority *string           `json:"issuing_authority,omitempty"`
	Name             string            `json:"name"`
	Namespace        string            `json:"namespace"`
}

type TrackingStatus string

const (
	TrackingStatusDraft   TrackingStatus = "draft"
	TrackingStatusFinal   TrackingStatus = "final"
	TrackingStatusInterim TrackingStatus = "interim"
)

// Tracking dates are RFC 3339 date-time strings.
type Tracking struct {
	Aliases            []string       `json:"aliases,omitempty"`
	CurrentReleaseDate string         `json:"current_release_date"`
	Generator          *Generator     `json:"generator,omitempty"`
	ID                 string         `json:"id"`
	InitialReleaseDate string         `json:"initial_release_date"`
	RevisionHistory    []Revision     `json:"revision_history"`
	Status             TrackingStatus `json:"status"`
	Version            string         `json:"version"`
}

type Revision struct {
	Date          string  `json:"date"`
	LegacyVersion *string `json:"legacy_version,omitempty"`
	Number        string  `json:"number"`
	Summary       string  `json:"summary"`
}

type Generator struct {
	Date   *string `json:"date,omitempty"`
	Engine Engine  `json:"engine"`
}

type Engine struct {
	Name    string  `json:"name"`
	Version *string `json:"version,omitempty"`
}

type NoteCategory string

const (
	NoteCategoryDescription     NoteCategory = "description"
	NoteCategoryDetails         NoteCategory = "details"
	NoteCategoryFAQ             NoteCategory = "faq"
	NoteCategoryGeneral         NoteCategory = "general"
	NoteCategoryLegalDisclaimer NoteCategory = "legal_disclaimer"
	NoteCategoryOther           NoteCategory = "other"
	NoteCategorySummary         NoteCategory = "summary"
)

type Note struct {
	Audience string       `json:"audience,omitempty"`
	Category NoteCategory `json:"category"`
	Text     string       `json:"text"`
	Title    string       `json:"title,omitempty"`
}

type ReferenceCategory string

const (
	ReferenceCategoryExternal ReferenceCategory = "external"
	ReferenceCategorySelf     ReferenceCategory = "self"
)

type Reference struct {
	Category *ReferenceCategory `json:"category,omitempty"`
	Summary  string             `json:"summary"`
	URL      string             `json:"url"`
}

type BranchCategory string

const (
	BranchCategoryArchitecture   BranchCategory = "architecture"
	BranchCategoryHostName       BranchCategory = "host_name"
	BranchCategoryLanguage       BranchCategory = "language"
	BranchCategoryLegacy         BranchCategory = "legacy"
	BranchCategoryPatchLevel     BranchCategory = "patch_level"
	BranchCategoryProductFamily  BranchCategory = "product_family"
	BranchCategoryProductName    BranchCategory = "product_name"
	BranchCategoryProductVersion BranchCategory = "product_version"
	BranchCategoryServicePack    BranchCategory = "service_pack"
	BranchCategorySpecification  BranchCategory = "specification"
	BranchCategoryVendor         BranchCategory = "vendor"
)

type ProductTree struct {
	Branches         []*Branch          `json:"branches,omitempty"`
	FullProductNames []*FullProductName `json:"full_product_names,omitempty"`
}

// Branch carries either child branches or a product, never both.
type Branch struct {
	Branches []*Branch        `json:"branches,omitempty"`
	Category BranchCategory   `json:"category"`
	Name     string           `json:"name"`
	Product  *FullProductName `json:"product,omitempty"`
}

type ProductID string

// Products is a list of product IDs. A nil Products is absent.
type Products []ProductID

type FullProductName struct {
	Name                        string                       `json:"name"`
	ProductID                   ProductID                    `json:"product_id"`
	ProductIdentificationHelper *ProductIdentificationHelper `json:"product_identification_helper,omitempty"`
}

type ProductIdentificationHelper struct {
	CPE  string `json:"cpe,omitempty"`
	PURL string `json:"purl,omitempty"`
}

type Vulnerability struct {
	CVE           string             `json:"cve,omitempty"`
	Flags         []*Flag            `json:"flags,omitempty"`
	IDs           []*VulnerabilityID `json:"ids,omitempty"`
	Notes         []*Note            `json:"notes,omitempty"`
	ProductStatus *ProductStatus     `json:"product_status,omitempty"`
	References    []*Reference       `json:"references,omitempty"`
	Remediations  []*Remediation     `json:"remediations,omitempty"`
	Scores        []*Score           `json:"scores,omitempty"`
	Threats       []*Threat          `json:"threats,omitempty"`
	Title         string             `json:"title,omitempty"`
}

type VulnerabilityID struct {
	SystemName string `json:"system_name"`
	Text       string `json:"text"`
}

type ProductStatus struct {
	FirstAffected      Products `json:"first_affected,omitempty"`
	FirstFixed         Products `json:"first_fixed,omitempty"`
	Fixed              Products `json:"fixed,omitempty"`
	KnownAffected      Products `json:"known_affected,omitempty"`
	KnownNotAffected   Products `json:"known_not_affected,omitempty"`
	LastAffected       Products `json:"last_affected,omitempty"`
	Recommended        Products `json:"recommended,omitempty"`
	UnderInvestigation Products `json:"under_investigation,omitempty"`
}

type RemediationCategory string

const (
	RemediationCategoryMitigation    RemediationCategory = "mitigation"
	RemediationCategoryNoFixPlanned  RemediationCategory = "no_fix_planned"
	RemediationCategoryNoneAvailable RemediationCategory = "none_available"
	RemediationCategoryVendorFix     RemediationCategory = "vendor_fix"
	RemediationCategoryWorkaround    RemediationCategory = "workaround"
)

type Remediation struct {
	Category   RemediationCategory `json:"category"`
	Date       *string             `json:"date,omitempty"`
	Details    string              `json:"details"`
	ProductIDs Products            `json:"product_ids,omitempty"`
	URL        *string             `json:"url,omitempty"`
}

// Score products is required by the schema, so an empty list is still encoded.
type Score struct {
	CVSSv3   *CVSSv3  `json:"cvss_v3,omitempty"`
	Products Products `json:"products"`
}

// CVSSv3 keeps only the members required by the FIRST CVSS v3 JSON schema.
type CVSSv3 struct {
	Version      string  `json:"version"`
	VectorString string  `json:"vectorString"`
	BaseScore    float64 `json:"baseScore"`
	BaseSeverity string  `json:"baseSeverity"`
}

type ThreatCategory string

const (
	ThreatCategoryExploitStatus ThreatCategory = "exploit_status"
	ThreatCategoryImpact        ThreatCategory = "impact"
	ThreatCategoryTargetSet     ThreatCategory = "target_set"
)

type Threat struct {
	Category   ThreatCategory `json:"category"`
	Date       *string        `json:"date,omitempty"`
	Details    string         `json:"details"`
	ProductIDs Products       `json:"product_ids,omitempty"`
}

type FlagLabel string

const (
	FlagLabelComponentNotPresent                         FlagLabel = "component_not_present"
	FlagLabelInlineMitigationsAlreadyExist               FlagLabel = "inline_mitigations_already_exist"
	FlagLabelVulnerableCodeCannotBeControlledByAdversary FlagLabel = "vulnerable_code_cannot_be_controlled_by_adversary"
	FlagLabelVulnerableCodeNotInExecutePath              FlagLabel = "vulnerable_code_not_in_execute_path"
	FlagLabelVulnerableCodeNotPresent                    FlagLabel = "vulnerable_code_not_present"
)

type Flag struct {
	Date       *string   `json:"date,omitempty"`
	Label      FlagLabel `json:"label"`
	ProductIDs Products  `json:"product_ids,omitempty"`
}
