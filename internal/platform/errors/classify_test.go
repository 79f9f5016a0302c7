package errors_test

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	perr "voxanote/internal/platform/errors"
)

func TestFromPostgres_NoRowsIsNotFound(t *testing.T) {
	t.Parallel()

	err := perr.FromPostgres(pgx.ErrNoRows, "get recording")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	err = perr.FromPostgres(fmt.Errorf("scan: %w", pgx.ErrNoRows), "get recording")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("wrapped no-rows should still map, got %v", err)
	}
}

func TestFromPostgres_SQLStateMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code string
		want perr.ErrorCode
	}{
		{"23505", perr.ErrorCodeDuplicateKey},
		{"23503", perr.ErrorCodeInvalidArgument},
		{"23502", perr.ErrorCodeValidation},
		{"22P02", perr.ErrorCodeInvalidArgument},
		{"57P03", perr.ErrorCodeUnavailable},
		{"XX000", perr.ErrorCodeDB},
	}
	for _, tc := range cases {
		err := perr.FromPostgres(&pgconn.PgError{Code: tc.code}, "write")
		if !perr.IsCode(err, tc.want) {
			t.Fatalf("sqlstate %s: expected %v, got %v", tc.code, tc.want, err)
		}
	}
	if perr.FromPostgres(nil, "write") != nil {
		t.Fatal("nil in, nil out")
	}
}

func TestIsCapabilityMissing(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"42703", "42704", "42883", "0A000"} {
		if !perr.IsCapabilityMissing(&pgconn.PgError{Code: code}) {
			t.Fatalf("sqlstate %s should read as a missing capability", code)
		}
	}
	if perr.IsCapabilityMissing(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("a duplicate key is not a missing capability")
	}

	// drivers without structured codes fall back to message sniffing
	if !perr.IsCapabilityMissing(stderrs.New(`column "embedding" of relation "transcript_chunks" does not exist`)) {
		t.Fatal("text fallback should catch the missing column")
	}
	if !perr.IsCapabilityMissing(stderrs.New("unknown type vector")) {
		t.Fatal("text fallback should catch the missing extension type")
	}
	if perr.IsCapabilityMissing(stderrs.New("deadlock detected")) {
		t.Fatal("unrelated errors must not be swallowed as capability gaps")
	}
	if perr.IsCapabilityMissing(nil) {
		t.Fatal("nil is never a capability gap")
	}
}

func TestFromUpstreamStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status    int
		transient bool
	}{
		{408, true},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{400, false},
		{401, false},
		{404, false},
		{422, false},
	}
	for _, tc := range cases {
		err := perr.FromUpstreamStatus("openai", tc.status, "boom")
		if got := perr.IsTransientUpstream(err); got != tc.transient {
			t.Fatalf("status %d: transient=%v, want %v (%v)", tc.status, got, tc.transient, err)
		}
	}
}

func TestIsTransientUpstream_Transport(t *testing.T) {
	t.Parallel()

	if !perr.IsTransientUpstream(context.DeadlineExceeded) {
		t.Fatal("deadline exceeded is transient")
	}
	if !perr.IsTransientUpstream(stderrs.New("dial tcp: connection refused")) {
		t.Fatal("refused connections are transient")
	}
	if perr.IsTransientUpstream(stderrs.New("invalid api key")) {
		t.Fatal("auth failures are permanent")
	}
	if perr.IsTransientUpstream(nil) {
		t.Fatal("nil is never transient")
	}

	err := perr.FromTransport("openai", stderrs.New("read: connection reset by peer"))
	if !perr.IsCode(err, perr.ErrorCodeUpstreamTransient) {
		t.Fatalf("transport resets should carry the transient code, got %v", err)
	}
	if perr.FromTransport("openai", nil) != nil {
		t.Fatal("nil in, nil out")
	}
}
