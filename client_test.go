package brreg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registryStub serves canned Enhetsregisteret responses and counts requests.
type registryStub struct {
	server *httptest.Server
	calls  atomic.Int32
}

func newRegistryStub(t *testing.T, handler http.HandlerFunc) *registryStub {
	t.Helper()
	stub := &registryStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func enhetHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/enheter/923609016":
			_, _ = w.Write([]byte(`{"organisasjonsnummer":"923609016","navn":"EQUINOR ASA","organisasjonsform":{"kode":"ASA","beskrivelse":"Allmennaksjeselskap"}}`))
		case "/enheter/974760673":
			_, _ = w.Write([]byte(`{"organisasjonsnummer":"974760673","navn":"REGISTERENHETEN I BRØNNØYSUND"}`))
		case "/enheter/111111111":
			_, _ = w.Write([]byte(`{"organisasjonsnummer":"111111111","navn":"SLETTET AS","slettedato":"2020-01-15","respons_klasse":"SlettetEnhet"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestGetEnhetDecodesActiveEntity(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(WithBaseURL(stub.server.URL))
	defer client.Close()

	result, err := client.GetEnhet(context.Background(), "923609016")
	require.NoError(t, err)
	require.False(t, result.Deleted())
	assert.Equal(t, "EQUINOR ASA", result.Enhet.Navn)
	assert.Equal(t, "ASA", result.Enhet.Organisasjonsform.Kode)
}

func TestGetEnhetDecodesDeletedEntity(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(WithBaseURL(stub.server.URL))
	defer client.Close()

	result, err := client.GetEnhet(context.Background(), "111111111")
	require.NoError(t, err)
	require.True(t, result.Deleted())
	assert.Equal(t, "2020-01-15", result.Slettet.Slettedato)
	assert.Nil(t, result.Enhet)
}

func TestGetEnhetRejectsBadNumberLocally(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(WithBaseURL(stub.server.URL))
	defer client.Close()

	for _, orgnr := range []string{"", "12345", "12345678a", "9236090160"} {
		_, err := client.GetEnhet(context.Background(), orgnr)
		var ce *ClientError
		require.ErrorAs(t, err, &ce, "orgnr %q", orgnr)
		assert.Equal(t, ErrorTypeValidation, ce.Type)
	}
	assert.Equal(t, int32(0), stub.calls.Load(), "invalid input must never reach the network")
}

func TestCacheHitBypassesNetwork(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(WithBaseURL(stub.server.URL), WithCache(time.Minute))
	defer client.Close()

	first, err := client.GetEnhet(context.Background(), "923609016")
	require.NoError(t, err)
	second, err := client.GetEnhet(context.Background(), "923609016")
	require.NoError(t, err)

	assert.Equal(t, int32(1), stub.calls.Load(), "second lookup must be served from cache")
	assert.Same(t, first, second, "cache returns the decoded value")
	assert.Equal(t, uint64(1), client.CacheInfo().Hits)
}

func TestClearCacheForcesRefetch(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(WithBaseURL(stub.server.URL), WithCache(time.Minute))
	defer client.Close()

	_, err := client.GetEnhet(context.Background(), "923609016")
	require.NoError(t, err)

	removed := client.ClearCache("enhet_923609016")
	assert.Equal(t, 1, removed)

	_, err = client.GetEnhet(context.Background(), "923609016")
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestBatchIsolatesFailures(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(WithBaseURL(stub.server.URL), WithBatchConcurrency(2))
	defer client.Close()

	results := client.GetEnheter(context.Background(),
		[]string{"923609016", "999999999", "974760673", "923609016"})

	require.Len(t, results, 3, "duplicate ids collapse to one lookup")

	require.NoError(t, results["923609016"].Err)
	assert.Equal(t, "EQUINOR ASA", results["923609016"].Result.Enhet.Navn)

	require.NoError(t, results["974760673"].Err)

	assert.True(t, IsNotFound(results["999999999"].Err), "missing id fails alone")
	assert.Nil(t, results["999999999"].Result)
}

func TestBatchEmptyInput(t *testing.T) {
	client := New()
	defer client.Close()

	results := client.GetEnheter(context.Background(), nil)
	assert.Empty(t, results)
}

func TestSearchEnheterQuery(t *testing.T) {
	var gotQuery url.Values
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"_embedded":{"enheter":[{"organisasjonsnummer":"923609016","navn":"EQUINOR ASA"}]},"page":{"size":5,"totalElements":1,"totalPages":1,"number":0}}`))
	})
	client := New(WithBaseURL(stub.server.URL))
	defer client.Close()

	params := url.Values{}
	params.Set("navn", "Equinor")
	page, err := client.SearchEnheter(context.Background(), params, 0, 5)
	require.NoError(t, err)

	assert.Equal(t, "Equinor", gotQuery.Get("navn"))
	assert.Equal(t, "5", gotQuery.Get("size"))
	require.Len(t, page.Enheter(), 1)
	assert.Equal(t, int64(1), page.Page.TotalElements)
}

func TestSearchEnheterRejectsNegativePagination(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(WithBaseURL(stub.server.URL))
	defer client.Close()

	_, err := client.SearchEnheter(context.Background(), nil, -1, 10)
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrorTypeValidation, ce.Type)

	_, err = client.SearchEnheter(context.Background(), nil, 0, -5)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrorTypeValidation, ce.Type)

	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestClosedClientRejectsOperations(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(WithBaseURL(stub.server.URL))

	require.NoError(t, client.Close())
	require.NoError(t, client.Close(), "Close is idempotent")

	_, err := client.GetEnhet(context.Background(), "923609016")
	assert.ErrorIs(t, err, ErrClientClosed)

	_, err = client.DownloadEnheter(context.Background(), DownloadJSON, nil)
	assert.ErrorIs(t, err, ErrClientClosed)

	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestDeduplicationCoalescesConcurrentLookups(t *testing.T) {
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"organisasjonsnummer":"923609016","navn":"EQUINOR ASA"}`))
	})
	client := New(WithBaseURL(stub.server.URL), WithDeduplication())
	defer client.Close()

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = client.GetEnhet(context.Background(), "923609016")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), stub.calls.Load(), "concurrent identical lookups share one call")
}

func TestClearCacheAbandonsInFlightFlights(t *testing.T) {
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"organisasjonsnummer":"923609016","navn":"EQUINOR ASA"}`))
	})
	client := New(WithBaseURL(stub.server.URL), WithDeduplication())
	defer client.Close()

	first := make(chan error, 1)
	go func() {
		_, err := client.GetEnhet(context.Background(), "923609016")
		first <- err
	}()

	// Let the first flight register, then invalidate its fingerprint.
	time.Sleep(50 * time.Millisecond)
	client.ClearCache("enhet_")

	_, err := client.GetEnhet(context.Background(), "923609016")
	require.NoError(t, err)
	require.NoError(t, <-first)

	assert.Equal(t, int32(2), stub.calls.Load(), "a lookup after invalidation must not attach to the old flight")
}

func TestRequestHeaders(t *testing.T) {
	var gotAccept, gotUserAgent string
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"organisasjonsnummer":"923609016","navn":"EQUINOR ASA"}`))
	})
	client := New(WithBaseURL(stub.server.URL), WithUserAgent("custom-agent/1.0"))
	defer client.Close()

	_, err := client.GetEnhet(context.Background(), "923609016")
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "custom-agent/1.0", gotUserAgent)
}

func TestMiddlewareChainOrder(t *testing.T) {
	var order []string
	var mu sync.Mutex
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organisasjonsnummer":"923609016","navn":"EQUINOR ASA"}`))
	})

	mark := func(name string) Middleware {
		return func(req *http.Request, next RoundTripper) (*http.Response, error) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return next.RoundTrip(req)
		}
	}

	client := New(WithBaseURL(stub.server.URL), WithMiddleware(mark("first"), mark("second")))
	defer client.Close()

	_, err := client.GetEnhet(context.Background(), "923609016")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDownloadBypassesCacheAndDecode(t *testing.T) {
	var gotAccept, gotPath string
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("orgnr;navn\n923609016;EQUINOR ASA\n"))
	})
	client := New(WithBaseURL(stub.server.URL), WithCache(time.Minute))
	defer client.Close()

	payload, err := client.DownloadEnheter(context.Background(), DownloadCSV, nil)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", gotAccept)
	assert.Equal(t, "/enheter/lastned/csv", gotPath)
	assert.Contains(t, string(payload), "EQUINOR")

	_, err = client.DownloadEnheter(context.Background(), DownloadCSV, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.calls.Load(), "downloads are never cached")
}

func TestDownloadRejectsUnknownFormat(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(WithBaseURL(stub.server.URL))
	defer client.Close()

	_, err := client.DownloadEnheter(context.Background(), DownloadFormat("application/pdf"), nil)
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrorTypeValidation, ce.Type)
	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestGetKommunerWrapsBareArray(t *testing.T) {
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kommuner", r.URL.Path)
		_, _ = w.Write([]byte(`[{"nummer":"0301","navn":"Oslo"},{"nummer":"5001","navn":"Trondheim"}]`))
	})
	client := New(WithBaseURL(stub.server.URL))
	defer client.Close()

	kommuner, err := client.GetKommuner(context.Background())
	require.NoError(t, err)
	require.NotNil(t, kommuner.Embedded)
	require.Len(t, kommuner.Embedded.Kommuner, 2)
	assert.Equal(t, "Oslo", kommuner.Embedded.Kommuner[0].Navn)
}

func TestGetEnhetRoller(t *testing.T) {
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enheter/923609016/roller", r.URL.Path)
		_, _ = w.Write([]byte(`{"rollegrupper":[{"type":{"kode":"STYR","beskrivelse":"Styre"},"roller":[{"type":{"kode":"LEDE","beskrivelse":"Styrets leder"},"person":{"navn":{"fornavn":"Kari","etternavn":"Nordmann"}}}]}]}`))
	})
	client := New(WithBaseURL(stub.server.URL))
	defer client.Close()

	roller, err := client.GetEnhetRoller(context.Background(), "923609016")
	require.NoError(t, err)
	require.Len(t, roller.Rollegrupper, 1)
	assert.Equal(t, "STYR", roller.Rollegrupper[0].Type.Kode)
	assert.Equal(t, "Kari", roller.Rollegrupper[0].Roller[0].Person.Navn.Fornavn)
}

func TestDecodeFailureIsPermanent(t *testing.T) {
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"navn":"MISSING NUMBER"}`))
	})
	client := New(WithBaseURL(stub.server.URL), WithMaxRetries(3))
	defer client.Close()

	_, err := client.GetEnhet(context.Background(), "923609016")
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrorTypeDecode, ce.Type)
	assert.Equal(t, int32(1), stub.calls.Load(), "decode failures must not be retried")
	assert.False(t, IsTransient(err))
}

func TestErrorsAreNotCached(t *testing.T) {
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client := New(WithBaseURL(stub.server.URL), WithCache(time.Minute))
	defer client.Close()

	_, err := client.GetEnhet(context.Background(), "923609016")
	require.Error(t, err)
	_, err = client.GetEnhet(context.Background(), "923609016")
	require.Error(t, err)

	assert.Equal(t, int32(2), stub.calls.Load(), "failed lookups must reach the registry again")
	assert.Equal(t, 0, client.CacheInfo().Entries)
}

func TestGetServices(t *testing.T) {
	stub := newRegistryStub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_links":{"enheter":{"href":"https://data.brreg.no/enhetsregisteret/api/enheter"}}}`))
	})
	client := New(WithBaseURL(stub.server.URL))
	defer client.Close()

	services, err := client.GetServices(context.Background())
	require.NoError(t, err)
	assert.Contains(t, services, "_links")
}

func TestRateLimitedBatchStillCompletes(t *testing.T) {
	stub := newRegistryStub(t, enhetHandler(t))
	client := New(
		WithBaseURL(stub.server.URL),
		WithRateLimit(10*time.Millisecond),
		WithBatchConcurrency(3),
	)
	defer client.Close()

	start := time.Now()
	results := client.GetEnheter(context.Background(), []string{"923609016", "974760673", "999999999"})
	elapsed := time.Since(start)

	require.Len(t, results, 3)
	require.NoError(t, results["923609016"].Err)
	// Three calls through a 10ms-interval limiter need at least two spacings.
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	var unknownErr error
	if r, ok := results["999999999"]; ok {
		unknownErr = r.Err
	}
	assert.True(t, IsNotFound(unknownErr))
}
