// Package brreg is a resilient client for the Brønnøysund Register Centre's
// open Enhetsregisteret API. It layers response caching, rate limiting,
// retries with jittered exponential backoff, request deduplication and a
// typed error taxonomy around the registry's read-only HTTP endpoints.
//
// Construct a client with functional options and release it with Close:
//
//	client := brreg.New(
//		brreg.WithRateLimit(100*time.Millisecond),
//		brreg.WithCache(5*time.Minute),
//		brreg.WithMaxRetries(3),
//	)
//	defer client.Close()
//
//	result, err := client.GetEnhet(ctx, "923609016")
//	if err != nil {
//		var ce *brreg.ClientError
//		if errors.As(err, &ce) && ce.Type == brreg.ErrorTypeNotFound {
//			// unknown organization number
//		}
//	}
//
// All failures surface as *ClientError with a closed Type taxonomy; use
// IsTransient to decide whether a caller-side retry makes sense.
package brreg
