package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iho/kosherbill/internal/domain"
)

func TestCreateBookingRequestToUseCaseInput(t *testing.T) {
	dayRate := "50.00"
	transportFee := "12.5"

	req := CreateBookingRequest{
		ClientAccountID: "acc-client",
		StoreID:         "store-7",
		PlannedStart:    time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC),
		PlannedEnd:      time.Date(2024, time.June, 3, 16, 0, 0, 0, time.UTC),
		DayRate:         &dayRate,
		TransportFee:    &transportFee,
	}

	input, err := req.ToUseCaseInput("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if input.ActorUserID != "user-1" {
		t.Fatalf("expected actor user id to pass through, got %q", input.ActorUserID)
	}

	if input.DayRate == nil || *input.DayRate != 5000 {
		t.Fatalf("expected day rate in minor units, got %+v", input.DayRate)
	}

	if input.TransportFee == nil || *input.TransportFee != 1250 {
		t.Fatalf("expected transport fee in minor units, got %+v", input.TransportFee)
	}

	if input.NightRate != nil {
		t.Fatalf("expected omitted night rate to stay nil, got %v", *input.NightRate)
	}
}

func TestCreateBookingRequestInvalidRate(t *testing.T) {
	bad := "fifty credits"
	req := CreateBookingRequest{DayRate: &bad}

	if _, err := req.ToUseCaseInput("user-1"); err == nil {
		t.Fatal("expected error for unparseable rate")
	}
}

func TestUpdateBookingRequestToUseCaseInput(t *testing.T) {
	arrival := time.Date(2024, time.June, 3, 8, 15, 0, 0, time.UTC)
	nightRate := "75.00"

	req := UpdateBookingRequest{
		ActualArrival: &arrival,
		NightRate:     &nightRate,
	}

	input, err := req.ToUseCaseInput("booking-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if input.BookingID != "booking-1" {
		t.Fatalf("expected booking id to pass through, got %q", input.BookingID)
	}

	if input.ActualArrival == nil || !input.ActualArrival.Equal(arrival) {
		t.Fatalf("expected actual arrival to pass through, got %+v", input.ActualArrival)
	}

	if input.NightRate == nil || *input.NightRate != 7500 {
		t.Fatalf("expected night rate in minor units, got %+v", input.NightRate)
	}

	if input.PlannedStart != nil || input.DayRate != nil {
		t.Fatal("expected untouched fields to stay nil")
	}
}

func TestCheckoutWebhookRequestDecode(t *testing.T) {
	payload := `{
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123",
				"client_reference_id": "user-1",
				"amount_total": 25000
			}
		}
	}`

	var req CheckoutWebhookRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("failed to decode webhook payload: %v", err)
	}

	input := req.ToUseCaseInput()
	if input.EventType != "checkout.session.completed" {
		t.Fatalf("unexpected event type %q", input.EventType)
	}

	if input.SessionID != "cs_test_123" || input.UserID != "user-1" {
		t.Fatalf("unexpected identifiers: %+v", input)
	}

	if input.AmountMinorUnits != 25000 {
		t.Fatalf("expected amount in minor units, got %d", input.AmountMinorUnits)
	}
}

func TestClockRequestGeo(t *testing.T) {
	req := ClockRequest{Latitude: 32.08, Longitude: 34.78}

	geo := req.Geo()
	if geo != (domain.Geo{Latitude: 32.08, Longitude: 34.78}) {
		t.Fatalf("unexpected geo: %+v", geo)
	}
}
