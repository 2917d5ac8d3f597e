package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/service/screens"
)

var packageValues = url.Values{
	"recipientName":    {"Eric"},
	"recipientPhone":   {"+250788000000"},
	"recipientEmail":   {"eric@x.com"},
	"pickupLocation":   {"Kigali Heights"},
	"deliveryLocation": {"Nyamirambo"},
	"description":      {"Documents"},
	"estimatedValue":   {"15000"},
}

func TestPassengerWrites(t *testing.T) {
	created := screens.State[screens.CreateResult]{Notice: "Package created"}
	done := screens.State[[]models.DeliveryRequest]{Notice: "done"}
	failed := screens.State[[]models.DeliveryRequest]{Err: fmt.Errorf("cancel: %w", types.ErrBackendUnavailable)}

	tests := []struct {
		name         string
		screen       *fakePassenger
		request      *http.Request
		handle       func(h *Passenger) http.HandlerFunc
		wantStatus   int
		wantLocation string
		wantBody     string
		wantCalls    []string
	}{
		{
			name:         "create redirects to the list",
			screen:       &fakePassenger{create: created},
			request:      postForm("/passenger/packages/new", packageValues),
			handle:       func(h *Passenger) http.HandlerFunc { return h.CreatePackage },
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/passenger/packages?done=created",
			wantCalls:    []string{"Create"},
		},
		{
			name:         "create after a failed refetch still redirects",
			screen:       &fakePassenger{create: screens.State[screens.CreateResult]{Notice: "Package created", Err: fmt.Errorf("list: %w", types.ErrBackendUnavailable)}},
			request:      postForm("/passenger/packages/new", packageValues),
			handle:       func(h *Passenger) http.HandlerFunc { return h.CreatePackage },
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/passenger/packages?done=created",
			wantCalls:    []string{"Create"},
		},
		{
			name: "invalid create stays on the form",
			screen: &fakePassenger{create: screens.State[screens.CreateResult]{
				Err:         fmt.Errorf("create: %w", types.ErrValidation),
				FieldErrors: map[string]string{"recipientName": "Recipient name is required"},
			}},
			request:    postForm("/passenger/packages/new", url.Values{}),
			handle:     func(h *Passenger) http.HandlerFunc { return h.CreatePackage },
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "data-no-refresh",
			wantCalls:  []string{"Create"},
		},
		{
			name:         "cancel redirects to the list",
			screen:       &fakePassenger{write: done},
			request:      withID(postForm("/passenger/packages/5/cancel", url.Values{}), "5"),
			handle:       func(h *Passenger) http.HandlerFunc { return h.Cancel },
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/passenger/packages?done=canceled",
			wantCalls:    []string{"Cancel:5"},
		},
		{
			name:         "confirm receipt redirects to the list",
			screen:       &fakePassenger{write: done},
			request:      withID(postForm("/passenger/packages/5/confirm-receipt", url.Values{}), "5"),
			handle:       func(h *Passenger) http.HandlerFunc { return h.ConfirmReceipt },
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/passenger/packages?done=received",
			wantCalls:    []string{"ConfirmReceipt:5"},
		},
		{
			name:       "failed cancel shows the list again",
			screen:     &fakePassenger{write: failed},
			request:    withID(postForm("/passenger/packages/5/cancel", url.Values{}), "5"),
			handle:     func(h *Passenger) http.HandlerFunc { return h.Cancel },
			wantStatus: http.StatusBadGateway,
			wantBody:   "The service is unreachable right now.",
			wantCalls:  []string{"Cancel:5", "Packages"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPassenger(newTestBase(t, &fakeAuth{}), tt.screen)

			r, _ := withSession(t, tt.request, types.RolePassenger)
			rec := httptest.NewRecorder()
			tt.handle(h)(rec, r)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Fatalf("location = %q, want %q", rec.Header().Get("Location"), tt.wantLocation)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body does not contain %q:\n%s", tt.wantBody, rec.Body.String())
			}
			if strings.Join(tt.screen.calls, ",") != strings.Join(tt.wantCalls, ",") {
				t.Fatalf("calls = %v, want %v", tt.screen.calls, tt.wantCalls)
			}
		})
	}
}

func TestPassengerPackages_NoticeFromRedirect(t *testing.T) {
	h := NewPassenger(newTestBase(t, &fakeAuth{}), &fakePassenger{})

	r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/passenger/packages?done=canceled", nil), types.RolePassenger)
	rec := httptest.NewRecorder()
	h.Packages(rec, r)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Package canceled") {
		t.Fatalf("got %d without the cancel notice", rec.Code)
	}
}

func TestNewPackageForm_HoldsTabRefresh(t *testing.T) {
	h := NewPassenger(newTestBase(t, &fakeAuth{}), &fakePassenger{})

	r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/passenger/packages/new", nil), types.RolePassenger)
	rec := httptest.NewRecorder()
	h.NewPackageForm(rec, r)

	if !strings.Contains(rec.Body.String(), "data-no-refresh") {
		t.Fatal("a half-filled package form must not be reloaded by tab sync")
	}
}
