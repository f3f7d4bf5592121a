// Package enrich implements the record enrichment engine: it resolves
// the canonical identity, employing company, and release window for
// each raw contribution record, and persists newly learned identity
// facts back to the shared runtime store.
package enrich

import (
	"context"
	"log/slog"

	"github.com/contribscope/backend/internal/domain"
	"github.com/contribscope/backend/internal/provider"
)

// Storage table names read and written by the engine.
const (
	tableUsers     = "users"
	tableCompanies = "companies"
	tableReleases  = "releases"
)

type referenceStore interface {
	GetByKey(ctx context.Context, key string, dest any) error
	SetByKey(ctx context.Context, key string, value any) error
}

type identityLookup interface {
	LookupByEmail(ctx context.Context, email string) (*provider.IdentityResult, error)
}

// Service is the record enrichment engine. It owns read-mostly
// reference snapshots built once per run and is the sole in-memory
// mutator of the users index. Not safe for concurrent use: creating a
// user is a check-then-act sequence, so a parallel caller would have
// to serialize the identity-resolution path.
type Service struct {
	log    *slog.Logger
	store  referenceStore
	lookup identityLookup

	// users is the full users table, persisted by Flush.
	// usersIndex maps every alias (email, user id, launchpad id) to
	// the same *domain.User, so a mutation through one alias is
	// observed through all of them.
	users        []*domain.User
	usersIndex   map[string]*domain.User
	domainsIndex map[string]string
	releases     []domain.Release

	dirty bool
}

// NewService builds the engine and loads the reference snapshots
// (users, companies, releases) from the store, one keyed read each.
// Empty tables are valid and yield empty indices.
func NewService(ctx context.Context, logger *slog.Logger, store referenceStore, lookup identityLookup) (*Service, error) {
	s := &Service{
		log:    logger.With("service", "enrich"),
		store:  store,
		lookup: lookup,
	}
	if err := s.loadIndices(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
