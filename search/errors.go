package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrBadStatus indicates a non-200 response from the catalogue.
type ErrBadStatus struct {
	Code int
}

func (e ErrBadStatus) Error() string {
	return fmt.Sprintf("bad status: http %d", e.Code)
}

// ErrNotHTML indicates the response body was not an HTML document.
type ErrNotHTML struct {
	ContentType string
}

func (e ErrNotHTML) Error() string {
	return fmt.Sprintf("not html: content type %q", e.ContentType)
}

// ErrTimeout indicates a timeout while issuing a request.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrConnection indicates a network connectivity failure.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if statusCode != 0 && statusCode != http.StatusOK {
		return ErrBadStatus{Code: statusCode}
	}

	return err
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	var badStatus ErrBadStatus
	if errors.As(err, &badStatus) {
		switch badStatus.Code {
		case http.StatusForbidden:
			return "forbidden"
		case http.StatusNotFound:
			return "not_found"
		case http.StatusTooManyRequests:
			return "rate_limited"
		}
		return "bad_status"
	}
	var notHTML ErrNotHTML
	if errors.As(err, &notHTML) {
		return "not_html"
	}
	return "other"
}
