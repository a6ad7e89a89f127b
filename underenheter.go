package brreg

import (
	"context"
	"net/url"
)

// GetUnderenhet retrieves a sub-entity by its 9-digit organization number.
// Removed sub-entities resolve to a deletion record; check Deleted on the
// result.
func (c *Client) GetUnderenhet(ctx context.Context, organisasjonsnummer string) (*UnderenhetResult, error) {
	const op = "underenhet"
	if !validOrganisasjonsnummer(organisasjonsnummer) {
		return nil, validationError(op, "organisasjonsnummer must be exactly 9 digits", nil)
	}
	return getTyped(ctx, c, op, fingerprintID(op, organisasjonsnummer),
		"/underenheter/"+organisasjonsnummer, nil, decodeUnderenhetResult)
}

// SearchUnderenheter searches sub-entities with the same parameter handling
// as SearchEnheter.
func (c *Client) SearchUnderenheter(ctx context.Context, params url.Values, page, size int) (*UnderenheterPage, error) {
	const op = "underenheter_sok"
	query, err := searchQuery(op, params, page, size)
	if err != nil {
		return nil, err
	}
	return getTyped(ctx, c, op, fingerprint(op, query), "/underenheter", query, decodeInto[UnderenheterPage])
}
