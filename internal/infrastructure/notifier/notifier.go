package notifier

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// CallbackPayload is the webhook body sent to an application's callback URL
// when one of its payouts reaches a terminal state.
type CallbackPayload struct {
	Event        string  `json:"event"`
	AccountingID string  `json:"accounting_uuid"`
	PayoutID     string  `json:"payout_uuid"`
	Status       string  `json:"status"`
	Total        float64 `json:"total"`
	Currency     string  `json:"currency"`
	Reason       string  `json:"reason,omitempty"`
}

var callbackClient = func() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 3 * time.Second
	rc.RetryWaitMax = 3 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil
	return rc.StandardClient()
}()

// SendCallback delivers the webhook before returning, so callers that exit
// right after (the admin commands) cannot abandon it mid-flight. Delivery is
// still best effort: 3 retries with fixed backoff, then give up with a log
// line.
func SendCallback(callbackURL string, payload CallbackPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal callback: %v\n", err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, callbackURL, bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Failed to create callback request: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := callbackClient.Do(req)
	if err != nil {
		log.Printf("Callback failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("Callback sent to %s\n", callbackURL)
	} else {
		log.Printf("Callback returned status %d", resp.StatusCode)
	}
}
