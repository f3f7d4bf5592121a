package domain

// Affiliation is one employment window in a user's company history.
// EndDate is a Unix timestamp; the zero value means the window is
// open-ended and extends indefinitely into the future.
type Affiliation struct {
	CompanyName string `json:"company_name"`
	EndDate     int64  `json:"end_date"`
}

// Open reports whether the affiliation has no end boundary.
func (a Affiliation) Open() bool {
	return a.EndDate == 0
}

// User is one contributor together with every identity known for them.
// Emails grows over time as new addresses are observed. Companies is a
// partition of time: ascending by EndDate, open-ended entries last, so
// each timestamp falls into exactly one window.
type User struct {
	UserID      string        `json:"user_id,omitempty"`
	LaunchpadID string        `json:"launchpad_id,omitempty"`
	UserName    string        `json:"user_name"`
	Emails      []string      `json:"emails"`
	Companies   []Affiliation `json:"companies"`
}

// HasEmail reports whether the address is already on file for the user.
func (u *User) HasEmail(email string) bool {
	for _, e := range u.Emails {
		if e == email {
			return true
		}
	}
	return false
}
