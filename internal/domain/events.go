package domain

import "time"

// Event types
const (
	EventTypePaymentReceived = "payment.received"
	EventTypeBookingPriced   = "booking.priced"
	EventTypeBookingSettled  = "booking.settled"
	EventTypeBookingFailed   = "booking.failed"
)

// Aggregate types
const (
	AggregateTypeBooking = "booking"
	AggregateTypeAccount = "account"
	AggregateTypeLedger  = "ledger_entry"
)

// OutboxEvent is a notification written in the same transaction as the
// ledger mutation that caused it and delivered later by the notifier worker.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// PaymentReceivedEvent is delivered to a worker when a booking settlement
// credits their account.
type PaymentReceivedEvent struct {
	AccountID   string `json:"account_id"`
	Message     string `json:"message"`
	ReferenceID string `json:"reference_id"`
	Amount      string `json:"amount"`
}

// BookingPricedEvent records a repricing for downstream consumers.
type BookingPricedEvent struct {
	BookingID     string `json:"booking_id"`
	PreviousPrice string `json:"previous_price"`
	Price         string `json:"price"`
}

// BookingSettledEvent marks a completed settlement.
type BookingSettledEvent struct {
	BookingID       string `json:"booking_id"`
	WorkerAccountID string `json:"worker_account_id"`
	Amount          string `json:"amount"`
}
