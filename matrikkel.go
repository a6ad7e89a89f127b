package brreg

import (
	"context"
	"net/url"
)

// GetMatrikkelenheter retrieves cadastral unit references. params filter the
// lookup (e.g. "organisasjonsnummer") and are passed through verbatim; the
// registry serves the result as a bare list.
func (c *Client) GetMatrikkelenheter(ctx context.Context, params url.Values) ([]Matrikkelenhet, error) {
	const op = "matrikkelenheter"
	v, err := c.getJSON(ctx, op, fingerprint(op, params), "/matrikkelenhet", params, func(body []byte) (any, error) {
		return decodeList[Matrikkelenhet](body)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Matrikkelenhet), nil
}
