package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func newWebhookTestClient(t *testing.T) *Client {
	client, err := NewClient(Config{
		SecretKey:     "sk_test_key",
		WebhookSecret: testWebhookSecret,
		Currency:      "eur",
	})
	require.NoError(t, err)
	return client
}

func signPayload(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.", timestamp)))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func signedHeader(secret string, timestamp int64, payload []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, signPayload(secret, timestamp, payload))
}

func TestVerifyAndParse_ValidSignature(t *testing.T) {
	client := newWebhookTestClient(t)
	now := time.Now()

	payload := []byte(`{
		"id": "evt_123",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_123",
				"amount": 3900,
				"currency": "eur",
				"status": "succeeded",
				"metadata": {"order_id": "42"}
			}
		}
	}`)

	event, err := client.verifyAndParseAt(payload, signedHeader(testWebhookSecret, now.Unix(), payload), now)
	require.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, EventPaymentIntentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.Data.Object.ID)
	assert.Equal(t, "42", event.Data.Object.Metadata["order_id"])
}

func TestVerifyAndParse_WrongSecret(t *testing.T) {
	client := newWebhookTestClient(t)
	now := time.Now()

	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded"}`)
	header := signedHeader("whsec_other_secret", now.Unix(), payload)

	_, err := client.verifyAndParseAt(payload, header, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyAndParse_TamperedPayload(t *testing.T) {
	client := newWebhookTestClient(t)
	now := time.Now()

	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded"}`)
	header := signedHeader(testWebhookSecret, now.Unix(), payload)

	tampered := []byte(`{"id":"evt_123","type":"payment_intent.payment_failed"}`)
	_, err := client.verifyAndParseAt(tampered, header, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyAndParse_StaleTimestamp(t *testing.T) {
	client := newWebhookTestClient(t)
	now := time.Now()

	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded"}`)
	stale := now.Add(-10 * time.Minute).Unix()
	header := signedHeader(testWebhookSecret, stale, payload)

	_, err := client.verifyAndParseAt(payload, header, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyAndParse_MultipleSignatures(t *testing.T) {
	client := newWebhookTestClient(t)
	now := time.Now()

	// Secret rotation sends the old signature first
	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded"}`)
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s",
		now.Unix(),
		signPayload("whsec_retired_secret", now.Unix(), payload),
		signPayload(testWebhookSecret, now.Unix(), payload),
	)

	_, err := client.verifyAndParseAt(payload, header, now)
	assert.NoError(t, err)
}

func TestVerifyAndParse_MalformedHeader(t *testing.T) {
	client := newWebhookTestClient(t)
	now := time.Now()
	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded"}`)

	cases := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"missing timestamp", "v1=abcdef"},
		{"missing signature", fmt.Sprintf("t=%d", now.Unix())},
		{"garbage timestamp", "t=notanumber,v1=abcdef"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.verifyAndParseAt(payload, tc.header, now)
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestVerifyAndParse_EmptyBody(t *testing.T) {
	client := newWebhookTestClient(t)
	now := time.Now()

	_, err := client.verifyAndParseAt(nil, signedHeader(testWebhookSecret, now.Unix(), []byte{}), now)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestVerifyAndParse_MissingEventType(t *testing.T) {
	client := newWebhookTestClient(t)
	now := time.Now()

	payload := []byte(`{"id":"evt_123"}`)
	header := signedHeader(testWebhookSecret, now.Unix(), payload)

	_, err := client.verifyAndParseAt(payload, header, now)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
