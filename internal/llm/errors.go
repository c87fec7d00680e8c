package llm

import (
	"errors"
	"fmt"
	"net"
)

// ErrEmptyResponse is returned when the model produced no choices or no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// TransportErrorKind tells apart the ways a model request can fail.
type TransportErrorKind string

const (
	// KindNetwork is a failure to reach the endpoint at all.
	KindNetwork TransportErrorKind = "network"
	// KindHTTPStatus is a non-2xx response.
	KindHTTPStatus TransportErrorKind = "http_status"
	// KindContentType is a response that is not JSON, e.g. an HTML proxy page.
	KindContentType TransportErrorKind = "content_type"
	// KindDecode is a JSON response that does not decode as a completion.
	KindDecode TransportErrorKind = "decode"
	// KindEmpty is a well-formed response without any choices.
	KindEmpty TransportErrorKind = "empty_response"
)

// maxBodyExcerpt bounds how many characters of a response body are kept on an error.
const maxBodyExcerpt = 512

// TransportError describes a failed model request.
type TransportError struct {
	Kind        TransportErrorKind
	URL         string
	StatusCode  int
	ContentType string
	Body        string // excerpt of the response body, if any
	Err         error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("network request to %s failed: %v", e.URL, e.Err)
	case KindHTTPStatus:
		if e.Body != "" {
			return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
		}
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	case KindContentType:
		return fmt.Sprintf("API returned unexpected content type %q (check the endpoint or proxy configuration)", e.ContentType)
	case KindDecode:
		return fmt.Sprintf("failed to decode API response: %v", e.Err)
	case KindEmpty:
		return ErrEmptyResponse.Error()
	default:
		return fmt.Sprintf("model request failed: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	if e.Kind == KindEmpty {
		return ErrEmptyResponse
	}
	return e.Err
}

// HTTPStatusCode implements HTTPStatusError. It is zero for non-HTTP failures.
func (e *TransportError) HTTPStatusCode() int {
	return e.StatusCode
}

// IsTransportKind reports whether err is a TransportError of the given kind.
func IsTransportKind(err error, kind TransportErrorKind) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == kind
}

// WrapNetworkError marks err as a network failure when it originates from the
// network stack, and returns it unchanged otherwise.
func WrapNetworkError(url string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return &TransportError{Kind: KindNetwork, URL: url, Err: err}
	}
	return err
}

// excerpt keeps the first maxBodyExcerpt characters of body.
func excerpt(body []byte) string {
	runes := []rune(string(body))
	if len(runes) <= maxBodyExcerpt {
		return string(body)
	}
	return string(runes[:maxBodyExcerpt]) + "..."
}
