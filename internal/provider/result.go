package provider

// IdentityResult is the structured result from an external identity
// lookup: the canonical id and display name for an email address.
type IdentityResult struct {
	Name        string
	DisplayName string
}
