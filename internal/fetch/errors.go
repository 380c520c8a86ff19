package fetch

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

// Kind classifies an upstream failure for retry purposes.
type Kind int

const (
	// KindRateLimited is an HTTP 429. Retryable after a long cooldown.
	KindRateLimited Kind = iota
	// KindTransient covers DNS resolution and connect-level failures.
	// Retryable after a short delay.
	KindTransient
	// KindPermanent is everything else. Not retried.
	KindPermanent
)

// StatusError reports a non-2xx HTTP response from a collaborator that is not
// wrapped by an SDK error type.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}

// Classify maps an error to its retry class. Unknown errors are permanent:
// failing fast and skipping the unit of work beats hammering a broken upstream.
func Classify(err error) Kind {
	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return KindRateLimited
		}
		return KindPermanent
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Status == http.StatusTooManyRequests {
			return KindRateLimited
		}
		return KindPermanent
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindTransient
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return KindTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransient
	}

	return KindPermanent
}
