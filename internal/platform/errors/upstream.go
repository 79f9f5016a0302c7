package errors

// Upstream-provider helpers: classify speech/embedding/completion call
// failures into transient (retry may succeed) vs permanent (fail fast)

import (
	"context"
	stderrs "errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// IsTransientUpstream reports whether a provider call failed in a way that
// retry with backoff is reasonable: connection resets, timeouts, DNS and
// other network-shaped failures. Auth failures, malformed input, and
// provider-side rejections are not transient
func IsTransientUpstream(err error) bool {
	if err == nil {
		return false
	}
	if IsCode(err, ErrorCodeUpstreamTransient) {
		return true
	}
	if IsCode(err, ErrorCodeUpstream) {
		return false
	}

	root := Root(err)

	if stderrs.Is(root, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if stderrs.As(root, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if stderrs.As(root, &dnsErr) {
		return true
	}
	if stderrs.Is(root, syscall.ECONNRESET) || stderrs.Is(root, syscall.ECONNREFUSED) ||
		stderrs.Is(root, syscall.EPIPE) || stderrs.Is(root, io.ErrUnexpectedEOF) {
		return true
	}

	s := strings.ToLower(root.Error())
	switch {
	case strings.Contains(s, "connection reset"),
		strings.Contains(s, "connection refused"),
		strings.Contains(s, "timeout"),
		strings.Contains(s, "timed out"),
		strings.Contains(s, "no such host"),
		strings.Contains(s, "temporary failure"):
		return true
	default:
		return false
	}
}

// FromUpstreamStatus maps a non-2xx provider HTTP status into a project error.
// 408/429/5xx look transient; everything else is a permanent rejection
func FromUpstreamStatus(provider string, status int, body string) error {
	msg := strings.TrimSpace(body)
	if len(msg) > 300 {
		msg = msg[:300]
	}
	switch {
	case status == http.StatusRequestTimeout,
		status == http.StatusTooManyRequests,
		status >= 500:
		return UpstreamTransientf("%s http %d: %s", provider, status, msg)
	default:
		return Upstreamf("%s http %d: %s", provider, status, msg)
	}
}

// FromTransport wraps a provider transport error (request never got a
// response) with the matching upstream code
func FromTransport(provider string, err error) error {
	if err == nil {
		return nil
	}
	if IsTransientUpstream(err) {
		return Wrapf(err, ErrorCodeUpstreamTransient, "%s request failed", provider)
	}
	return Wrapf(err, ErrorCodeUpstream, "%s request failed", provider)
}
