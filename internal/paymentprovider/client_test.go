package paymentprovider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_VerifySignature(t *testing.T) {
	client := NewClient("key_id", "secret", "http://unused")

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("pay_1|sub_1"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature("pay_1", "sub_1", valid))
	assert.False(t, client.VerifySignature("pay_1", "sub_1", "forged"))
	assert.False(t, client.VerifySignature("pay_2", "sub_1", valid))
}

func TestClient_CreateSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/subscriptions", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "secret", pass)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"sub_1","plan_id":"plan_1","status":"created"}`))
	}))
	defer srv.Close()

	client := NewClient("key_id", "secret", srv.URL)
	sub, err := client.CreateSubscription(context.Background(), "plan_1")
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "created", sub.Status)
}

func TestClient_CancelSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/sub_1/cancel", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"sub_1","status":"cancelled"}`))
	}))
	defer srv.Close()

	client := NewClient("key_id", "secret", srv.URL)
	sub, err := client.CancelSubscription(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", sub.Status)
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient("key_id", "secret", srv.URL)
	_, err := client.CreateSubscription(context.Background(), "plan_1")
	assert.Error(t, err)
}
