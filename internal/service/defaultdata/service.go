// Package defaultdata keeps the runtime store's reference tables in
// sync with the bundled default data set and re-tags stored records
// after the release schedule changes.
package defaultdata

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/contribscope/backend/internal/domain"
)

// Storage table names owned by the sync.
const (
	tableUsers     = "users"
	tableCompanies = "companies"
	tableReleases  = "releases"
	tableRecords   = "records"
	tableDigest    = "default_data_digest"
)

// DefaultData is the bundled reference data set.
type DefaultData struct {
	Users     []domain.User    `json:"users"`
	Companies []domain.Company `json:"companies"`
	Releases  []domain.Release `json:"releases"`
}

type referenceStore interface {
	GetByKey(ctx context.Context, key string, dest any) error
	SetByKey(ctx context.Context, key string, value any) error
}

type retagger interface {
	Update(records iter.Seq[*domain.Record], releaseIndex map[string]string) iter.Seq[*domain.Record]
}

type Service struct {
	log   *slog.Logger
	store referenceStore
}

func NewService(logger *slog.Logger, store referenceStore) *Service {
	return &Service{
		log:   logger.With("service", "defaultdata"),
		store: store,
	}
}

// Sync compares the digest of the default data set against the digest
// recorded in the store and rewrites the reference tables when they
// differ. Reports whether anything was written.
func (s *Service) Sync(ctx context.Context, data DefaultData) (bool, error) {
	digest, err := dataDigest(data)
	if err != nil {
		return false, err
	}

	var stored string
	if err := s.store.GetByKey(ctx, tableDigest, &stored); err != nil {
		return false, fmt.Errorf("load stored digest: %w", err)
	}
	if stored == digest {
		s.log.InfoContext(ctx, "default data unchanged", slog.String("digest", digest))
		return false, nil
	}

	tables := map[string]any{
		tableUsers:     data.Users,
		tableCompanies: data.Companies,
		tableReleases:  data.Releases,
	}
	for key, value := range tables {
		if err := s.store.SetByKey(ctx, key, value); err != nil {
			return false, fmt.Errorf("write %s: %w", key, err)
		}
	}
	if err := s.store.SetByKey(ctx, tableDigest, digest); err != nil {
		return false, fmt.Errorf("write digest: %w", err)
	}

	s.log.InfoContext(ctx, "default data synced",
		slog.String("digest", digest),
		slog.Int("users", len(data.Users)),
		slog.Int("companies", len(data.Companies)),
		slog.Int("releases", len(data.Releases)),
	)
	return true, nil
}

// Retag runs a release re-tag over the stored records and writes them
// back only if at least one record changed. Reports the number of
// changed records.
func (s *Service) Retag(ctx context.Context, engine retagger, releaseIndex map[string]string) (int, error) {
	var records []domain.Record
	if err := s.store.GetByKey(ctx, tableRecords, &records); err != nil {
		return 0, fmt.Errorf("load records: %w", err)
	}

	ptrs := make([]*domain.Record, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}

	changed := 0
	for range engine.Update(slices.Values(ptrs), releaseIndex) {
		changed++
	}
	if changed == 0 {
		s.log.InfoContext(ctx, "no records to re-tag")
		return 0, nil
	}

	if err := s.store.SetByKey(ctx, tableRecords, records); err != nil {
		return 0, fmt.Errorf("persist records: %w", err)
	}
	s.log.InfoContext(ctx, "records re-tagged", slog.Int("changed", changed))
	return changed, nil
}

// dataDigest is the hex SHA-1 of the canonical JSON encoding, the
// same fingerprint recorded in the store by previous syncs.
func dataDigest(data DefaultData) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode default data: %w", err)
	}
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}
