package domain

// IndependentCompany is the sentinel affiliation for contributors with
// no recognized employer.
const IndependentCompany = "*independent"

// Company is read-only reference data mapping email-domain suffixes to
// a display name. Lifecycle is owned by configuration, not by the
// enrichment engine.
type Company struct {
	CompanyName string   `json:"company_name"`
	Domains     []string `json:"domains"`
}

// Release is one release window boundary. Releases form an ascending
// sequence of windows; the last one is treated as open-ended.
type Release struct {
	ReleaseName string `json:"release_name"`
	EndDate     int64  `json:"end_date"`
}
