// Package submit sends a compiled document to the remote analysis endpoint.
package submit

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// maxBodyEcho caps how much of a response body is kept for status reporting.
const maxBodyEcho = 64 << 10

// Submission is one compiled document plus its session metadata.
type Submission struct {
	SessionName string
	Filename    string
	MimeType    string
	Data        []byte
}

// Receipt describes an accepted submission.
type Receipt struct {
	StatusCode int
	Body       string
}

// Client posts submissions as multipart forms to a fixed URL.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient returns a Client for url. A nil hc uses http.DefaultClient.
func NewClient(url string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{URL: url, HTTP: hc}
}

// Submit posts s. Any 2xx response is success; other statuses yield a *StatusError
// carrying the status and body. Cancelling ctx aborts the request; the returned error
// then satisfies errors.Is(err, context.Canceled).
func (c *Client) Submit(ctx context.Context, s Submission) (Receipt, error) {
	if strings.TrimSpace(c.URL) == "" {
		return Receipt{}, errors.New("submit: endpoint URL not configured")
	}
	body, contentType, err := encode(s)
	if err != nil {
		return Receipt{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, body)
	if err != nil {
		return Receipt{}, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// Prefer the context's error so callers can tell an abort from a network failure.
		if cerr := ctx.Err(); cerr != nil {
			return Receipt{}, errors.Errorf("submitting: %w", cerr)
		}
		return Receipt{}, errors.Errorf("submitting: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyEcho))
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return Receipt{}, errors.Errorf("reading response: %w", cerr)
		}
		return Receipt{}, errors.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Receipt{}, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(text),
		}
	}
	return Receipt{StatusCode: resp.StatusCode, Body: string(text)}, nil
}

// encode builds the multipart body: a text field sessionName and a file part.
func encode(s Submission) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("sessionName", s.SessionName); err != nil {
		return nil, "", errors.Errorf("writing sessionName: %w", err)
	}
	mime := s.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+escapeQuotes(s.Filename)+`"`)
	h.Set("Content-Type", mime)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", errors.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(s.Data); err != nil {
		return nil, "", errors.Errorf("writing file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", errors.Errorf("closing multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
