package brreg

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestMapStatusError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		header     http.Header
		wantType   string
		transient  bool
		retryAfter bool
	}{
		{name: "not found", status: 404, wantType: ErrorTypeNotFound},
		{name: "rate limited", status: 429, header: http.Header{"Retry-After": []string{"2"}}, wantType: ErrorTypeRateLimited, transient: true, retryAfter: true},
		{name: "rate limited without header", status: 429, wantType: ErrorTypeRateLimited, transient: true},
		{name: "unauthorized", status: 401, wantType: ErrorTypeUnauthorized},
		{name: "forbidden", status: 403, wantType: ErrorTypeUnauthorized},
		{name: "server error", status: 500, wantType: ErrorTypeServer, transient: true},
		{name: "bad gateway", status: 502, wantType: ErrorTypeServer, transient: true},
		{name: "bad request", status: 400, wantType: ErrorTypeClient},
		{name: "teapot", status: 418, wantType: ErrorTypeClient},
		{name: "unexpected redirect", status: 302, wantType: ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == nil {
				header = http.Header{}
			}
			ce := mapStatusError("enhet", "https://example.test/enheter/1", tt.status, []byte(`{"feil":"x"}`), header)

			if ce.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", ce.Type, tt.wantType)
			}
			if ce.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", ce.StatusCode, tt.status)
			}
			if ce.Operation != "enhet" {
				t.Errorf("Operation = %q, want enhet", ce.Operation)
			}
			if got := IsTransient(ce); got != tt.transient {
				t.Errorf("IsTransient = %v, want %v", got, tt.transient)
			}
			if tt.retryAfter && ce.RetryAfter <= 0 {
				t.Error("expected RetryAfter to be parsed from header")
			}
			if !tt.retryAfter && ce.RetryAfter != 0 {
				t.Errorf("unexpected RetryAfter %v", ce.RetryAfter)
			}
		})
	}
}

func TestMapTransportError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	ce := mapTransportError("enhet", "https://example.test", cause)

	if ce.Type != ErrorTypeConnection {
		t.Errorf("Type = %q, want %q", ce.Type, ErrorTypeConnection)
	}
	if !IsTransient(ce) {
		t.Error("connection errors must be transient")
	}
	if !errors.Is(ce, cause) {
		t.Error("cause must be reachable via errors.Is")
	}
}

func TestErrorBodyTruncation(t *testing.T) {
	body := []byte(strings.Repeat("x", maxErrorBody+100))
	ce := mapStatusError("enhet", "", 500, body, http.Header{})

	if len(ce.Body) != maxErrorBody {
		t.Errorf("Body length = %d, want %d", len(ce.Body), maxErrorBody)
	}
}

func TestRetryExhaustedCopiesDiagnostics(t *testing.T) {
	inner := mapStatusError("enhet", "https://example.test/enheter/1", 503, []byte("down"), http.Header{})
	ce := retryExhausted("enhet", 4, 3, inner)

	if ce.Type != ErrorTypeRetryExhausted {
		t.Errorf("Type = %q, want %q", ce.Type, ErrorTypeRetryExhausted)
	}
	if ce.StatusCode != 503 || ce.Body != "down" || ce.URL != inner.URL {
		t.Error("diagnostics from the last error were not copied")
	}
	if ce.Attempt != 4 || ce.MaxRetries != 3 {
		t.Errorf("Attempt/MaxRetries = %d/%d, want 4/3", ce.Attempt, ce.MaxRetries)
	}
	if !errors.Is(ce, inner) {
		t.Error("last error must remain reachable via errors.Is")
	}
	if IsTransient(ce) {
		t.Error("RetryExhausted is terminal, not transient")
	}
}

func TestClientErrorIsMatchesOnType(t *testing.T) {
	err := mapStatusError("enhet", "", 404, nil, http.Header{})

	if !errors.Is(err, &ClientError{Type: ErrorTypeNotFound}) {
		t.Error("expected prototype match on NotFound")
	}
	if errors.Is(err, &ClientError{Type: ErrorTypeServer}) {
		t.Error("unexpected prototype match on Server")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report true")
	}
}

func TestClientErrorMessageFormat(t *testing.T) {
	ce := &ClientError{
		Type:       ErrorTypeServer,
		Message:    "registry server error",
		Operation:  "enhet",
		StatusCode: 500,
	}
	msg := ce.Error()
	for _, want := range []string{"Server", "registry server error", "enhet", "500"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestValidationErrorIsPermanent(t *testing.T) {
	err := validationError("enhet", "organisasjonsnummer must be exactly 9 digits", nil)
	if IsTransient(err) {
		t.Error("validation errors must not be transient")
	}
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrorTypeValidation {
		t.Fatalf("expected Validation ClientError, got %v", err)
	}
}
