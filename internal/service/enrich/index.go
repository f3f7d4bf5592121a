package enrich

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/contribscope/backend/internal/domain"
)

func (s *Service) loadIndices(ctx context.Context) error {
	var users []domain.User
	if err := s.store.GetByKey(ctx, tableUsers, &users); err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	s.users = make([]*domain.User, 0, len(users))
	s.usersIndex = make(map[string]*domain.User, len(users))
	for i := range users {
		s.registerUser(&users[i])
	}

	var companies []domain.Company
	if err := s.store.GetByKey(ctx, tableCompanies, &companies); err != nil {
		return fmt.Errorf("load companies: %w", err)
	}
	s.domainsIndex = make(map[string]string)
	for _, c := range companies {
		for _, d := range c.Domains {
			d = strings.ToLower(d)
			if d == "" {
				continue
			}
			s.domainsIndex[d] = c.CompanyName
		}
	}

	var releases []domain.Release
	if err := s.store.GetByKey(ctx, tableReleases, &releases); err != nil {
		return fmt.Errorf("load releases: %w", err)
	}
	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].EndDate < releases[j].EndDate
	})
	s.releases = releases

	return nil
}

// registerUser adds a user to the table and indexes all its aliases.
func (s *Service) registerUser(u *domain.User) {
	s.users = append(s.users, u)
	s.indexUser(u)
}

func (s *Service) indexUser(u *domain.User) {
	if u.UserID != "" {
		s.usersIndex[u.UserID] = u
	}
	if u.LaunchpadID != "" {
		s.usersIndex[u.LaunchpadID] = u
	}
	for _, e := range u.Emails {
		s.usersIndex[e] = u
	}
}
