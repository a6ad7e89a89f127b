package brreg

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"
)

// GetEnhet retrieves an entity by its 9-digit organization number. An entity
// removed from the register resolves to a deletion record; check Deleted on
// the result. An unknown number fails with a NotFound error.
func (c *Client) GetEnhet(ctx context.Context, organisasjonsnummer string) (*EnhetResult, error) {
	const op = "enhet"
	if !validOrganisasjonsnummer(organisasjonsnummer) {
		return nil, validationError(op, "organisasjonsnummer must be exactly 9 digits", nil)
	}
	return getTyped(ctx, c, op, fingerprintID(op, organisasjonsnummer),
		"/enheter/"+organisasjonsnummer, nil, decodeEnhetResult)
}

// SearchEnheter searches entities. params are passed through to the registry
// verbatim; page and size must be non-negative, zero leaves the registry
// default in place.
func (c *Client) SearchEnheter(ctx context.Context, params url.Values, page, size int) (*EnheterPage, error) {
	const op = "enheter_sok"
	query, err := searchQuery(op, params, page, size)
	if err != nil {
		return nil, err
	}
	return getTyped(ctx, c, op, fingerprint(op, query), "/enheter", query, decodeInto[EnheterPage])
}

// GetEnhetRoller retrieves the role listing of an entity.
func (c *Client) GetEnhetRoller(ctx context.Context, organisasjonsnummer string) (*Roller, error) {
	const op = "enhet_roller"
	if !validOrganisasjonsnummer(organisasjonsnummer) {
		return nil, validationError(op, "organisasjonsnummer must be exactly 9 digits", nil)
	}
	return getTyped(ctx, c, op, fingerprintID(op, organisasjonsnummer),
		"/enheter/"+organisasjonsnummer+"/roller", nil, decodeInto[Roller])
}

// BatchResult is the per-id outcome of a batch lookup: exactly one of Result
// and Err is set.
type BatchResult struct {
	Result *EnhetResult
	Err    error
}

// GetEnheter looks up several entities concurrently, returning an outcome per
// distinct organization number. One failed lookup never aborts the rest.
// Fan-out is bounded by the configured batch concurrency and every outgoing
// call still queues on the shared rate limiter.
func (c *Client) GetEnheter(ctx context.Context, organisasjonsnumre []string) map[string]BatchResult {
	results := make(map[string]BatchResult, len(organisasjonsnumre))
	if len(organisasjonsnumre) == 0 {
		return results
	}

	distinct := make([]string, 0, len(organisasjonsnumre))
	seen := make(map[string]struct{}, len(organisasjonsnumre))
	for _, orgnr := range organisasjonsnumre {
		if _, dup := seen[orgnr]; dup {
			continue
		}
		seen[orgnr] = struct{}{}
		distinct = append(distinct, orgnr)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchConcurrency)

	for _, orgnr := range distinct {
		orgnr := orgnr
		g.Go(func() error {
			result, err := c.GetEnhet(gctx, orgnr)
			mu.Lock()
			results[orgnr] = BatchResult{Result: result, Err: err}
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors, so Wait only synchronizes completion.
	_ = g.Wait()
	return results
}
