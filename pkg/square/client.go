package square

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps the Square Payments API tokenize-and-charge flow. The web
// client collects a one-time payment token; the server exchanges it here.
type Client struct {
	BaseURL     string
	AccessToken string
	LocationID  string
	HTTPClient  *http.Client
}

type PaymentParams struct {
	SourceID       string // one-time token from the hosted payment fields
	IdempotencyKey string // fresh per attempt, never reused across retries
	AmountCents    int
	Currency       string
	OrderNumber    string
	BuyerEmail     string
}

type PaymentResult struct {
	Completed bool
	PaymentID string
	Status    string
	ErrorCode string
	Detail    string
}

type createPaymentRequest struct {
	SourceID       string `json:"source_id"`
	IdempotencyKey string `json:"idempotency_key"`
	AmountMoney    struct {
		Amount   int    `json:"amount"`
		Currency string `json:"currency"`
	} `json:"amount_money"`
	LocationID        string `json:"location_id,omitempty"`
	ReferenceID       string `json:"reference_id,omitempty"`
	Note              string `json:"note,omitempty"`
	BuyerEmailAddress string `json:"buyer_email_address,omitempty"`
}

type createPaymentResponse struct {
	Payment struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"payment"`
	Errors []struct {
		Category string `json:"category"`
		Code     string `json:"code"`
		Detail   string `json:"detail"`
	} `json:"errors"`
}

func NewClient(baseURL, accessToken, locationID string) *Client {
	return &Client{
		BaseURL:     baseURL,
		AccessToken: accessToken,
		LocationID:  locationID,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreatePayment charges the token. A transport-level failure is returned as
// an error; a decline comes back as a PaymentResult with Completed=false.
func (c *Client) CreatePayment(params PaymentParams) (*PaymentResult, error) {
	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}

	requestData := createPaymentRequest{
		SourceID:          params.SourceID,
		IdempotencyKey:    params.IdempotencyKey,
		LocationID:        c.LocationID,
		ReferenceID:       params.OrderNumber,
		Note:              fmt.Sprintf("Order %s", params.OrderNumber),
		BuyerEmailAddress: params.BuyerEmail,
	}
	requestData.AmountMoney.Amount = params.AmountCents
	requestData.AmountMoney.Currency = currency

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/payments", c.BaseURL)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response createPaymentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Errors) > 0 {
		apiErr := response.Errors[0]
		return &PaymentResult{
			Completed: false,
			ErrorCode: apiErr.Code,
			Detail:    apiErr.Detail,
		}, nil
	}

	return &PaymentResult{
		Completed: response.Payment.Status == "COMPLETED",
		PaymentID: response.Payment.ID,
		Status:    response.Payment.Status,
	}, nil
}
