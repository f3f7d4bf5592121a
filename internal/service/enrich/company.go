package enrich

import (
	"math"
	"sort"
	"strings"

	"github.com/contribscope/backend/internal/domain"
)

// companyByEmail returns the company that registered the longest
// domain suffix of the address, matching on dot boundaries only, or
// "" when no registered domain matches.
func (s *Service) companyByEmail(email string) string {
	d := domain.EmailDomain(email)
	if d == "" {
		return ""
	}
	parts := strings.Split(d, ".")
	for i := range parts {
		if name, ok := s.domainsIndex[strings.Join(parts[i:], ".")]; ok {
			return name
		}
	}
	return ""
}

// companyAt returns the user's affiliation whose window covers ts.
// Windows are half-open on end_date: a record dated exactly at a
// boundary belongs to the next affiliation. An end_date of zero means
// the affiliation is still current.
func companyAt(u *domain.User, ts int64) string {
	if len(u.Companies) == 0 {
		return domain.IndependentCompany
	}
	entries := make([]domain.Affiliation, len(u.Companies))
	copy(entries, u.Companies)
	sort.SliceStable(entries, func(i, j int) bool {
		return affiliationEnd(entries[i]) < affiliationEnd(entries[j])
	})
	for _, a := range entries {
		if a.Open() || a.EndDate > ts {
			return a.CompanyName
		}
	}
	// Unreachable for well-formed users, which always carry an
	// open-ended entry.
	return domain.IndependentCompany
}

func affiliationEnd(a domain.Affiliation) int64 {
	if a.Open() {
		return math.MaxInt64
	}
	return a.EndDate
}

// resolveCompany applies the affiliation precedence: the email domain
// match wins outright, then the user's employment history at the
// record date, then independent.
func (s *Service) resolveCompany(email string, user *domain.User, ts int64) string {
	if name := s.companyByEmail(email); name != "" {
		return name
	}
	if user != nil {
		return companyAt(user, ts)
	}
	return domain.IndependentCompany
}
