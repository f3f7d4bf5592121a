package enrich

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/contribscope/backend/internal/domain"
)

// Process lazily enriches a stream of raw records. The returned
// sequence preserves input order, pulls one record at a time, and
// mutates records in place. Side effects on the users index accumulate
// until Flush is called.
func (s *Service) Process(ctx context.Context, records iter.Seq[*domain.Record]) iter.Seq[*domain.Record] {
	return func(yield func(*domain.Record) bool) {
		for rec := range records {
			user := s.resolveIdentity(ctx, rec.AuthorEmail, rec.AuthorName)
			rec.CompanyName = s.resolveCompany(rec.AuthorEmail, user, rec.Date)
			rec.LaunchpadID = user.LaunchpadID
			rec.UserID = user.UserID
			rec.Release = s.releaseFor(rec.Date)
			if !yield(rec) {
				return
			}
		}
	}
}

// Update re-tags previously enriched records against a record key to
// release index, yielding only the records whose release actually
// changed. Running it twice over the same data yields nothing the
// second time.
func (s *Service) Update(records iter.Seq[*domain.Record], releaseIndex map[string]string) iter.Seq[*domain.Record] {
	return func(yield func(*domain.Record) bool) {
		for rec := range records {
			release, ok := releaseIndex[rec.Key()]
			if !ok || release == rec.Release {
				continue
			}
			rec.Release = release
			if !yield(rec) {
				return
			}
		}
	}
}

// Flush writes the users table back to the store if this run learned
// anything new. Idempotent: only the first call after a mutation
// performs a write.
func (s *Service) Flush(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	if err := s.store.SetByKey(ctx, tableUsers, users); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	s.dirty = false
	s.log.InfoContext(ctx, "users table persisted", slog.Int("users", len(users)))
	return nil
}
