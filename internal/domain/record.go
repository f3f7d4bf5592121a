package domain

import (
	"encoding/json"
	"fmt"
)

// Record is one raw contribution record flowing through the enrichment
// engine. The engine only interprets the core fields; everything else
// an ingester attaches travels untouched in Extra.
//
// CompanyName, LaunchpadID, UserID and Release are the enriched fields
// attached by the engine; they are empty on raw records.
type Record struct {
	RecordType  string
	PrimaryKey  string
	CommitID    string
	AuthorName  string
	AuthorEmail string
	Date        int64

	CompanyName string
	LaunchpadID string
	UserID      string
	Release     string

	// Extra holds pass-through content fields the engine does not
	// interpret (lines changed, message, branches, ...).
	Extra map[string]json.RawMessage
}

// Key returns the record's stable identifier: the explicit primary key
// when present, otherwise the commit id.
func (r *Record) Key() string {
	if r.PrimaryKey != "" {
		return r.PrimaryKey
	}
	return r.CommitID
}

// recordJSON mirrors Record's core fields for (de)serialization.
// Extra fields are merged in and out by the custom codec below.
type recordJSON struct {
	RecordType  string `json:"record_type,omitempty"`
	PrimaryKey  string `json:"primary_key,omitempty"`
	CommitID    string `json:"commit_id,omitempty"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorEmail string `json:"author_email,omitempty"`
	Date        int64  `json:"date,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	LaunchpadID string `json:"launchpad_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Release     string `json:"release,omitempty"`
}

var recordCoreKeys = map[string]bool{
	"record_type": true, "primary_key": true, "commit_id": true,
	"author_name": true, "author_email": true, "date": true,
	"company_name": true, "launchpad_id": true, "user_id": true,
	"release": true,
}

// UnmarshalJSON decodes the core fields and keeps every unknown key in
// Extra so records survive a round trip without field loss.
func (r *Record) UnmarshalJSON(data []byte) error {
	var core recordJSON
	if err := json.Unmarshal(data, &core); err != nil {
		return fmt.Errorf("record: decode core fields: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("record: decode fields: %w", err)
	}

	*r = Record{
		RecordType:  core.RecordType,
		PrimaryKey:  core.PrimaryKey,
		CommitID:    core.CommitID,
		AuthorName:  core.AuthorName,
		AuthorEmail: core.AuthorEmail,
		Date:        core.Date,
		CompanyName: core.CompanyName,
		LaunchpadID: core.LaunchpadID,
		UserID:      core.UserID,
		Release:     core.Release,
	}
	for k, v := range raw {
		if recordCoreKeys[k] {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[k] = v
	}
	return nil
}

// MarshalJSON emits the core fields plus all pass-through fields as one
// flat object.
func (r *Record) MarshalJSON() ([]byte, error) {
	core := recordJSON{
		RecordType:  r.RecordType,
		PrimaryKey:  r.PrimaryKey,
		CommitID:    r.CommitID,
		AuthorName:  r.AuthorName,
		AuthorEmail: r.AuthorEmail,
		Date:        r.Date,
		CompanyName: r.CompanyName,
		LaunchpadID: r.LaunchpadID,
		UserID:      r.UserID,
		Release:     r.Release,
	}

	coreData, err := json.Marshal(core)
	if err != nil {
		return nil, fmt.Errorf("record: encode core fields: %w", err)
	}
	if len(r.Extra) == 0 {
		return coreData, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(coreData, &merged); err != nil {
		return nil, fmt.Errorf("record: merge fields: %w", err)
	}
	for k, v := range r.Extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}
