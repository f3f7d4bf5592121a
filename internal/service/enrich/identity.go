package enrich

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contribscope/backend/internal/domain"
)

// resolveIdentity maps an author email to the canonical user, creating
// or extending users as new facts are learned. The engine keeps going
// no matter what: a malformed address or a failed lookup degrades to
// an anonymous identity instead of aborting the run.
func (s *Service) resolveIdentity(ctx context.Context, email, authorName string) *domain.User {
	if !domain.ValidEmail(email) {
		// Transient anonymous identity: never indexed, never
		// persisted, and no external call is made.
		return &domain.User{
			UserName:  authorName,
			Companies: []domain.Affiliation{{CompanyName: domain.IndependentCompany}},
		}
	}

	if u, ok := s.usersIndex[email]; ok {
		return u
	}

	result, err := s.lookup.LookupByEmail(ctx, email)
	if err != nil {
		s.log.WarnContext(ctx, "identity lookup failed, treating email as unknown",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		result = nil
	}

	if result == nil {
		// Unknown to the identity service. Persist an anonymous user
		// anyway so repeated runs resolve the address from the index
		// without another network call.
		u := s.newUser("", uuid.NewString(), authorName, email)
		s.registerUser(u)
		s.dirty = true
		return u
	}

	if u, ok := s.usersIndex[result.Name]; ok {
		// Known user contributing from a new address.
		u.Emails = append(u.Emails, email)
		s.usersIndex[email] = u
		s.dirty = true
		return u
	}

	u := s.newUser(result.Name, result.Name, result.DisplayName, email)
	s.registerUser(u)
	s.dirty = true
	return u
}

// newUser builds a user with a single open-ended affiliation derived
// from the email domain, independent when no registered domain
// matches.
func (s *Service) newUser(launchpadID, userID, name, email string) *domain.User {
	company := s.companyByEmail(email)
	if company == "" {
		company = domain.IndependentCompany
	}
	return &domain.User{
		UserID:      userID,
		LaunchpadID: launchpadID,
		UserName:    name,
		Emails:      []string{email},
		Companies:   []domain.Affiliation{{CompanyName: company}},
	}
}
