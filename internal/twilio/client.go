package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier is the OTP gateway capability the auth service depends on. OTP
// codes live entirely on Twilio's side; this service never stores them.
type Verifier interface {
	SendOTP(ctx context.Context, phoneNumber string) error
	CheckOTP(ctx context.Context, phoneNumber, code string) (bool, error)
}

type Client struct {
	accountSID string
	authToken  string
	serviceSID string
	httpClient *http.Client
}

// NewClient creates a Twilio Verify v2 client.
func NewClient(accountSID, authToken, serviceSID string) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		serviceSID: serviceSID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) IsConfigured() bool {
	return c.accountSID != "" && c.authToken != "" && c.serviceSID != ""
}

// SendOTP asks Twilio Verify to dispatch an SMS passcode to the phone number.
func (c *Client) SendOTP(ctx context.Context, phoneNumber string) error {
	endpoint := fmt.Sprintf("https://verify.twilio.com/v2/Services/%s/Verifications", c.serviceSID)

	data := url.Values{}
	data.Set("To", phoneNumber)
	data.Set("Channel", "sms")

	resp, err := c.post(ctx, endpoint, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Twilio Verify returned non-success status: %d - %s", resp.StatusCode, readBody(resp.Body))
	}
	return nil
}

// CheckOTP submits a candidate code for verification. A missing or expired
// verification (Twilio answers 404) reports as not approved rather than an
// error, so callers see it as an invalid code.
func (c *Client) CheckOTP(ctx context.Context, phoneNumber, code string) (bool, error) {
	endpoint := fmt.Sprintf("https://verify.twilio.com/v2/Services/%s/VerificationCheck", c.serviceSID)

	data := url.Values{}
	data.Set("To", phoneNumber)
	data.Set("Code", code)

	resp, err := c.post(ctx, endpoint, data)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return false, fmt.Errorf("Twilio Verify returned non-success status: %d - %s", resp.StatusCode, readBody(resp.Body))
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode Twilio Verify response: %w", err)
	}
	return body.Status == "approved", nil
}

func (c *Client) post(ctx context.Context, endpoint string, data url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Twilio Verify request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Twilio Verify: %w", err)
	}
	return resp, nil
}

func readBody(r io.Reader) string {
	buf := new(strings.Builder)
	_, _ = io.Copy(buf, r)
	return buf.String()
}
