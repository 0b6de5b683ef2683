package domain

import (
	"encoding/json"
	"time"
)

// Event types emitted for account activity.
const (
	EventAccountRegistered = "account_registered"
	EventLoginSucceeded    = "login_succeeded"
	EventLoginFailed       = "login_failed"
	EventOTPIssued         = "otp_issued"
	EventOTPConsumed       = "otp_consumed"
	EventOTPRejected       = "otp_rejected"
	EventPasswordReset     = "password_reset"
	EventGRPCRequest       = "grpc_request"
	EventHTTPRequest       = "http_request"
)

// Event is one telemetry record. It is serialized as JSON onto Kafka and into Loki lines.
type Event struct {
	AccountID string          `json:"accountId,omitempty"`
	EventType string          `json:"eventType"`
	Source    string          `json:"source"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewEvent builds an event stamped with the current UTC time. metadata is marshaled to JSON;
// a marshal failure leaves Metadata empty.
func NewEvent(accountID, eventType, source string, metadata any) *Event {
	e := &Event{AccountID: accountID, EventType: eventType, Source: source, CreatedAt: time.Now().UTC()}
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			e.Metadata = b
		}
	}
	return e
}
