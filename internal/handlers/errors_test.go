package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/thereayou/classroom-chat/internal/services"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		message bool
		want    int
	}{
		{"validation", &services.Error{Kind: services.KindValidation}, false, http.StatusBadRequest},
		{"authentication", &services.Error{Kind: services.KindAuthentication}, false, http.StatusUnauthorized},
		{"forbidden", &services.Error{Kind: services.KindForbidden}, false, http.StatusForbidden},
		{"forbidden on message", &services.Error{Kind: services.KindForbidden}, true, http.StatusUnauthorized},
		{"not found", &services.Error{Kind: services.KindNotFound}, false, http.StatusNotFound},
		{"unknown user on message", &services.Error{Kind: services.KindNotFound}, true, http.StatusUnauthorized},
		{"persistence", &services.Error{Kind: services.KindPersistence}, true, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), false, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err, tc.message); got != tc.want {
				t.Fatalf("want %d got %d", tc.want, got)
			}
		})
	}
}
