package model

// MemberRecord is one legislator as extracted from a member detail page
type MemberRecord struct {
	ID                 string   `json:"id"`                  // Numeric token from the member URL
	Name               string   `json:"name"`                // Page title, verbatim
	Source             string   `json:"source"`              // Member detail URL
	Area               string   `json:"area"`                // Governorate
	Terms              []string `json:"terms"`               // Session short names (e.g. "9")
	ElectoralDistricts []string `json:"electoral_districts"` // Constituencies inside the governorate
	Chambers           []string `json:"chambers"`            // Canonical chamber labels
}

// Chamber labels
const (
	ChamberHouseOfRepresentatives = "house of representatives"
	ChamberPeoplesCouncil         = "peoples council"
)
