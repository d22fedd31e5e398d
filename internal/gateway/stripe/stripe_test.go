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

	"github.com/farringdon-press/boxoffice/internal/gateway"
)

const testSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()

	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)

	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func sessionEvent(eventType string) []byte {
	return fmt.Appendf(nil, `{
		"id": "evt_test_1",
		"type": %q,
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"amount_total": 3000,
				"payment_intent": "pi_test_1",
				"metadata": {"order_reference": "FP-20260831T120000-ABCDEF"}
			}
		}
	}`, eventType)
}

func TestVerifyEvent_Completed(t *testing.T) {
	c := New("sk_test", testSecret)
	payload := sessionEvent("checkout.session.completed")

	ev, err := c.VerifyEvent(payload, signPayload(t, payload, testSecret))
	require.NoError(t, err)

	assert.Equal(t, "evt_test_1", ev.ID)
	assert.Equal(t, gateway.EventCompleted, ev.Kind)
	assert.Equal(t, "cs_test_1", ev.SessionID)
	assert.Equal(t, int64(3000), ev.AmountTotal)
	assert.Equal(t, "pi_test_1", ev.PaymentIntentID)
	assert.Equal(t, "FP-20260831T120000-ABCDEF", ev.Metadata[gateway.MetaOrderReference])
}

func TestVerifyEvent_Expired(t *testing.T) {
	c := New("sk_test", testSecret)
	payload := sessionEvent("checkout.session.expired")

	ev, err := c.VerifyEvent(payload, signPayload(t, payload, testSecret))
	require.NoError(t, err)

	assert.Equal(t, gateway.EventExpired, ev.Kind)
	assert.Equal(t, "cs_test_1", ev.SessionID)
}

func TestVerifyEvent_UnknownTypeIsOther(t *testing.T) {
	c := New("sk_test", testSecret)
	payload := sessionEvent("payment_intent.created")

	ev, err := c.VerifyEvent(payload, signPayload(t, payload, testSecret))
	require.NoError(t, err)

	assert.Equal(t, gateway.EventOther, ev.Kind)
	assert.Empty(t, ev.SessionID, "unacted event kinds carry no session details")
}

func TestVerifyEvent_TamperedPayload(t *testing.T) {
	c := New("sk_test", testSecret)
	payload := sessionEvent("checkout.session.completed")
	sig := signPayload(t, payload, testSecret)

	tampered := sessionEvent("checkout.session.expired")

	_, err := c.VerifyEvent(tampered, sig)
	require.ErrorIs(t, err, gateway.ErrSignature)
}

func TestVerifyEvent_WrongSecret(t *testing.T) {
	c := New("sk_test", testSecret)
	payload := sessionEvent("checkout.session.completed")

	_, err := c.VerifyEvent(payload, signPayload(t, payload, "whsec_other"))
	require.ErrorIs(t, err, gateway.ErrSignature)
}

func TestVerifyEvent_MissingSignature(t *testing.T) {
	c := New("sk_test", testSecret)

	_, err := c.VerifyEvent(sessionEvent("checkout.session.completed"), "")
	require.ErrorIs(t, err, gateway.ErrSignature)
}
