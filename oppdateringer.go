package brreg

import (
	"context"
	"net/url"
)

// Update feed endpoints. The feeds are cursor-like: filter with params such
// as "oppdateringsid" or "dato" to resume from a known position.

// GetEnhetOppdateringer retrieves one page of the entity update feed.
func (c *Client) GetEnhetOppdateringer(ctx context.Context, params url.Values, page, size int) (*EnhetOppdateringerPage, error) {
	const op = "oppdateringer_enheter"
	query, err := searchQuery(op, params, page, size)
	if err != nil {
		return nil, err
	}
	return getTyped(ctx, c, op, fingerprint(op, query), "/oppdateringer/enheter", query, decodeInto[EnhetOppdateringerPage])
}

// GetRolleOppdateringer retrieves the role update feed. Unlike the entity
// feeds the registry serves this one as a bare list; params (oppdateringsid,
// dato, ...) are passed through verbatim.
func (c *Client) GetRolleOppdateringer(ctx context.Context, params url.Values) ([]RolleOppdatering, error) {
	const op = "oppdateringer_roller"
	v, err := c.getJSON(ctx, op, fingerprint(op, params), "/oppdateringer/roller", params, func(body []byte) (any, error) {
		return decodeList[RolleOppdatering](body)
	})
	if err != nil {
		return nil, err
	}
	return v.([]RolleOppdatering), nil
}

// GetUnderenhetOppdateringer retrieves one page of the sub-entity update feed.
func (c *Client) GetUnderenhetOppdateringer(ctx context.Context, params url.Values, page, size int) (*UnderenhetOppdateringerPage, error) {
	const op = "oppdateringer_underenheter"
	query, err := searchQuery(op, params, page, size)
	if err != nil {
		return nil, err
	}
	return getTyped(ctx, c, op, fingerprint(op, query), "/oppdateringer/underenheter", query, decodeInto[UnderenhetOppdateringerPage])
}
