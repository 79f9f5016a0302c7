package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	perr "voxanote/internal/platform/errors"
	phttp "voxanote/internal/platform/net/http"
)

// helper to build a request with a request_id in context
func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	ctx := context.WithValue(req.Context(), chimw.RequestIDKey, rid)
	return req.WithContext(ctx)
}

func TestJSONHelper(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("JSON status: expected 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}
}

func TestReturnStyle_Handle_OKCreatedNoContent(t *testing.T) {
	t.Parallel()

	// OK
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.OK(map[string]any{"x": 1})
	})
	rec := httptest.NewRecorder()
	req := reqWithReqID("GET", "/ok", "rid-1")
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("handle OK code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %+v", env)
	}

	// Created
	hc := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Created(map[string]int{"id": 7})
	})
	recC := httptest.NewRecorder()
	hc(recC, req)
	if recC.Code != http.StatusCreated {
		t.Fatalf("handle Created code: %d", recC.Code)
	}

	// Accepted
	ha := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Accepted(map[string]string{"status": "processing"})
	})
	recA := httptest.NewRecorder()
	ha(recA, req)
	if recA.Code != http.StatusAccepted {
		t.Fatalf("handle Accepted code: %d", recA.Code)
	}

	// NoContent should not write a JSON body
	hn := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.NoContent()
	})
	recN := httptest.NewRecorder()
	hn(recN, req)
	if recN.Code != http.StatusNoContent {
		t.Fatalf("handle NoContent code: %d", recN.Code)
	}
	if recN.Body.Len() != 0 {
		t.Fatalf("NoContent should have empty body, got %q", recN.Body.String())
	}
}

func TestReturnStyle_Handle_Error(t *testing.T) {
	t.Parallel()

	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Error(perr.New(perr.ErrorCodeNotFound, "nope"))
	})
	rec := httptest.NewRecorder()
	req := reqWithReqID("GET", "/err", "rid-2")
	h(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Code != perr.ErrorCodeNotFound || env.Error == "" || env.RequestID != "rid-2" {
		t.Fatalf("bad error envelope: %+v", env)
	}
}

func TestReturnStyle_Handle_HeaderPassthrough(t *testing.T) {
	t.Parallel()

	h := phttp.Handle(func(r *http.Request) phttp.Response {
		hdr := http.Header{}
		hdr.Set("Location", "/recordings/abc")
		return phttp.Response{Status: http.StatusCreated, Body: map[string]string{"id": "abc"}, Header: hdr}
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/x", nil))

	if rec.Header().Get("Location") != "/recordings/abc" {
		t.Fatalf("header not forwarded: %v", rec.Header())
	}
}
