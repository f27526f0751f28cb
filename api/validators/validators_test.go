package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/rocketshoes-cart/pkg/errors"
)

type amountBody struct {
	Amount *int `json:"amount" validate:"required"`
}

func TestDecodeJSONBody(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
		field   string
	}{
		{name: "valid", body: `{"amount":3}`},
		{name: "zero is present", body: `{"amount":0}`},
		{name: "missing field", body: `{}`, wantErr: true, field: "amount"},
		{name: "unknown field", body: `{"amount":1,"qty":2}`, wantErr: true},
		{name: "malformed", body: `{"amount":`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{name: "trailing object", body: `{"amount":1}{"amount":2}`, wantErr: true},
		{name: "oversized", body: `{"amount":1,"pad":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tc.body))
			var dest amountBody
			err := DecodeJSONBody(req, &dest)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tc.field != "" {
				details, ok := typed.Details().(map[string]string)
				if !ok || details[tc.field] != "is required" {
					t.Fatalf("expected %s detail, got %+v", tc.field, typed.Details())
				}
			}
		})
	}
}

func TestParsePathID(t *testing.T) {
	router := chi.NewRouter()
	var got int
	var gotErr error
	router.Get("/items/{productID}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = ParsePathID(r, "productID")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if gotErr != nil || got != 42 {
		t.Fatalf("expected 42, got %d (%v)", got, gotErr)
	}

	for _, raw := range []string{"0", "-1", "abc"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+raw, nil))
		if !pkgerrors.IsCode(gotErr, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", raw, gotErr)
		}
	}
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&unread=true", nil)
	if v, err := ParseQueryInt(req, "limit", 20, 1, 50); err != nil || v != 5 {
		t.Fatalf("expected 5, got %d (%v)", v, err)
	}
	if v, err := ParseQueryBool(req, "unread"); err != nil || !v {
		t.Fatalf("expected true, got %v (%v)", v, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=500&unread=maybe", nil)
	if _, err := ParseQueryInt(req, "limit", 20, 1, 50); err == nil {
		t.Fatal("expected range error")
	}
	if _, err := ParseQueryBool(req, "unread"); err == nil {
		t.Fatal("expected bool error")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if v, _ := ParseQueryInt(req, "limit", 20, 1, 50); v != 20 {
		t.Fatalf("expected default 20, got %d", v)
	}
}
