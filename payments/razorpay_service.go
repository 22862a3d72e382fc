package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/dheerajgaurgithub/swachhcare/configs"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayService implements Gateway against the Razorpay REST API using
// basic auth with the key id/secret pair.
type RazorpayService struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Client    *http.Client
}

func NewRazorpayService() *RazorpayService {
	return &RazorpayService{
		KeyID:     config.Config("RAZORPAY_KEY_ID"),
		KeySecret: config.Config("RAZORPAY_KEY_SECRET"),
		BaseURL:   razorpayBaseURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (s *RazorpayService) CreateOrder(amountPaise int64, currency, receipt string) (*Order, error) {
	payload := createOrderRequest{Amount: amountPaise, Currency: currency, Receipt: receipt}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %v", err)
	}

	req, err := http.NewRequest("POST", s.BaseURL+"/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.KeyID, s.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		log.Printf("🔥 Razorpay create order request failed: %v", err)
		return nil, ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("🔥 Razorpay create order returned %d: %s", resp.StatusCode, string(respBody))
		return nil, ErrGatewayUnavailable
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %v", err)
	}
	return &order, nil
}

// VerifySignature checks the HMAC-SHA256 of "orderID|paymentID" signed with
// the key secret, as Razorpay's checkout callback contract specifies.
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type refundRequest struct {
	Amount int64 `json:"amount"`
}

func (s *RazorpayService) Refund(paymentID string, amountPaise int64) (*Refund, error) {
	body, err := json.Marshal(refundRequest{Amount: amountPaise})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/payments/%s/refund", s.BaseURL, paymentID)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.KeyID, s.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		log.Printf("🔥 Razorpay refund request failed: %v", err)
		return nil, ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("🔥 Razorpay refund returned %d: %s", resp.StatusCode, string(respBody))
		return nil, ErrGatewayUnavailable
	}

	var refund Refund
	if err := json.NewDecoder(resp.Body).Decode(&refund); err != nil {
		return nil, fmt.Errorf("failed to decode refund response: %v", err)
	}
	return &refund, nil
}
