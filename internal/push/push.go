package push

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrExpired is returned when a push subscription is no longer valid (410 Gone).
var ErrExpired = errors.New("push subscription expired")

// Payload is the JSON sent to the push service.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag,omitempty"`
}

// Dispatcher delivers a notification to one device. Implementations must
// treat delivery as best effort.
type Dispatcher interface {
	Send(deviceToken string, payload Payload) error
}

// Service sends web push notifications with VAPID authentication. A
// user's device token is their push subscription serialized as JSON.
type Service struct {
	publicKey  string
	privateKey string
	subscriber string
}

// Ensure Service implements Dispatcher
var _ Dispatcher = (*Service)(nil)

// NewService creates a new push service with VAPID keys.
func NewService(publicKey, privateKey, subscriber string) *Service {
	return &Service{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
	}
}

// Send pushes payload to the device identified by deviceToken.
func (s *Service) Send(deviceToken string, payload Payload) error {
	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(deviceToken), &sub); err != nil {
		return fmt.Errorf("parse subscription: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := webpush.SendNotification(data, &sub, &webpush.Options{
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		Subscriber:      s.subscriber,
		TTL:             86400,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		return ErrExpired
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}

	return nil
}
