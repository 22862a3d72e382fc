package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(baseURL string) *RazorpayService {
	return &RazorpayService{
		KeyID:     "rzp_test_key",
		KeySecret: "test_secret",
		BaseURL:   baseURL,
		Client:    &http.Client{Timeout: 2 * time.Second},
	}
}

func TestVerifySignature(t *testing.T) {
	s := testService("")

	mac := hmac.New(sha256.New, []byte("test_secret"))
	mac.Write([]byte("order_123|pay_456"))
	signature := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, s.VerifySignature("order_123", "pay_456", signature))
	assert.False(t, s.VerifySignature("order_123", "pay_456", "forged"))
	assert.False(t, s.VerifySignature("order_999", "pay_456", signature))
	assert.False(t, s.VerifySignature("order_123", "pay_456", ""))
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "test_secret", pass)

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(52000), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		json.NewEncoder(w).Encode(Order{
			ID:          "order_test_1",
			AmountPaise: req.Amount,
			Currency:    req.Currency,
			Receipt:     req.Receipt,
			Status:      "created",
		})
	}))
	defer server.Close()

	s := testService(server.URL)
	order, err := s.CreateOrder(52000, "INR", "SW-ABCDEFGHIJ")
	require.NoError(t, err)
	assert.Equal(t, "order_test_1", order.ID)
	assert.Equal(t, int64(52000), order.AmountPaise)
	assert.Equal(t, "SW-ABCDEFGHIJ", order.Receipt)
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"BAD_REQUEST_ERROR"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	s := testService(server.URL)
	_, err := s.CreateOrder(52000, "INR", "SW-ABCDEFGHIJ")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestRefund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/pay_456/refund", r.URL.Path)

		var req refundRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(52000), req.Amount)

		json.NewEncoder(w).Encode(Refund{
			ID:          "rfnd_test_1",
			AmountPaise: req.Amount,
			Status:      "processed",
		})
	}))
	defer server.Close()

	s := testService(server.URL)
	refund, err := s.Refund("pay_456", 52000)
	require.NoError(t, err)
	assert.Equal(t, "rfnd_test_1", refund.ID)
	assert.Equal(t, "processed", refund.Status)
}

func TestRefundGatewayDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := testService(server.URL)
	_, err := s.Refund("pay_456", 52000)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}
