package enrich

// releaseFor returns the name of the release window covering ts.
// Timestamps past the last configured boundary are tagged with the
// most recent release so no record is left untagged. Returns "" when
// no releases are configured.
func (s *Service) releaseFor(ts int64) string {
	for _, r := range s.releases {
		if r.EndDate > ts {
			return r.ReleaseName
		}
	}
	if n := len(s.releases); n > 0 {
		return s.releases[n-1].ReleaseName
	}
	return ""
}
