package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"event-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestHolderIdentity(t *testing.T) {
	holderID := uuid.New()

	var gotHolder uuid.UUID
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotHolder, _ = utils.GetHolderIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := HolderIdentity(zap.NewNop())(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantNext   bool
	}{
		{name: "valid bearer", header: "Bearer " + holderID.String(), wantStatus: http.StatusOK, wantNext: true},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + holderID.String(), wantStatus: http.StatusUnauthorized},
		{name: "not a uuid", header: "Bearer not-a-uuid", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			gotHolder = uuid.Nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantNext {
				t.Errorf("next called = %v, want %v", called, tt.wantNext)
			}
			if tt.wantNext && gotHolder != holderID {
				t.Errorf("holder in context = %s, want %s", gotHolder, holderID)
			}
		})
	}
}
