package brreg

import (
	"context"
	"net/url"
)

// DownloadFormat selects the representation for bulk downloads. The value is
// the Accept header sent to the registry.
type DownloadFormat string

const (
	// DownloadJSON requests the full data set as JSON.
	DownloadJSON DownloadFormat = "application/json"
	// DownloadCSV requests the full data set as CSV.
	DownloadCSV DownloadFormat = "text/csv"
	// DownloadSpreadsheet requests the full data set as an Excel workbook.
	DownloadSpreadsheet DownloadFormat = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// path returns the download path segment for the format, or false for an
// unsupported format.
func (f DownloadFormat) path() (string, bool) {
	switch f {
	case DownloadJSON:
		return "", true
	case DownloadCSV:
		return "/csv", true
	case DownloadSpreadsheet:
		return "/regneark", true
	default:
		return "", false
	}
}

// DownloadEnheter downloads the entity data set in the given format. The raw
// payload is returned unparsed and is never cached; rate limiting and retry
// still apply.
func (c *Client) DownloadEnheter(ctx context.Context, format DownloadFormat, params url.Values) ([]byte, error) {
	return c.download(ctx, "enheter_lastned", "/enheter/lastned", format, params)
}

// DownloadUnderenheter downloads the sub-entity data set in the given format.
func (c *Client) DownloadUnderenheter(ctx context.Context, format DownloadFormat, params url.Values) ([]byte, error) {
	return c.download(ctx, "underenheter_lastned", "/underenheter/lastned", format, params)
}

// DownloadRollerTotalbestand downloads the registry's full role inventory, a
// zipped JSON file returned as raw bytes. Never cached; rate limiting and
// retry still apply.
func (c *Client) DownloadRollerTotalbestand(ctx context.Context) ([]byte, error) {
	const op = "roller_totalbestand"
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.fetch(ctx, op, "/roller/totalbestand", nil, "application/zip")
}

func (c *Client) download(ctx context.Context, op, basePath string, format DownloadFormat, params url.Values) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if format == "" {
		format = DownloadJSON
	}
	segment, ok := format.path()
	if !ok {
		return nil, validationError(op, "unsupported download format", nil)
	}
	return c.fetch(ctx, op, basePath+segment, params, string(format))
}
