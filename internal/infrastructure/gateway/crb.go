package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/owlpay/settlement-service/internal/config"
	"github.com/owlpay/settlement-service/internal/domain"
)

// CRBGateway moves USD payouts over Cross River Bank ACH transfers.
type CRBGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewCRBGateway(cfg config.GatewayEndpoint) *CRBGateway {
	return &CRBGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  newHTTPClient(),
	}
}

func (g *CRBGateway) Name() string {
	return "crb"
}

func (g *CRBGateway) DateFormat() string {
	return "2006-01-02"
}

type crbPayment struct {
	ClientIdentifier string  `json:"clientIdentifier"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	ReceiverID       string  `json:"receiverId"`
	EffectiveDate    string  `json:"effectiveDate"`
}

type crbPaymentStatus struct {
	ClientIdentifier string `json:"clientIdentifier"`
	PaymentID        string `json:"paymentId"`
	Status           string `json:"status"` // Completed / Rejected
	RejectReason     string `json:"rejectReason"`
}

func (g *CRBGateway) SubmitBatch(ctx context.Context, accounting *domain.Accounting, payouts []*domain.Payout, executeDate string) ([]domain.PayoutResult, error) {
	payments := make([]crbPayment, 0, len(payouts))
	byRef := make(map[string]*domain.Payout, len(payouts))
	for _, p := range payouts {
		byRef[p.ExternalPaymentID] = p
		payments = append(payments, crbPayment{
			ClientIdentifier: p.ExternalPaymentID,
			Amount:           p.Total,
			Currency:         p.Currency,
			ReceiverID:       p.VendorID,
			EffectiveDate:    executeDate,
		})
	}

	var response struct {
		Payments []crbPaymentStatus `json:"payments"`
	}
	if err := postJSON(g.client, g.baseURL+"/api/v1/payments/batch", g.apiKey, map[string]interface{}{
		"batchReference": accounting.ID,
		"payments":       payments,
	}, &response); err != nil {
		return nil, fmt.Errorf("crb batch submit: %w", err)
	}

	results := make([]domain.PayoutResult, 0, len(response.Payments))
	for _, payment := range response.Payments {
		payout, ok := byRef[payment.ClientIdentifier]
		if !ok {
			continue
		}
		result := domain.PayoutResult{PayoutID: payout.ID, ExternalPaymentID: payment.PaymentID}
		if payment.Status == "Completed" {
			result.Status = domain.PayoutFinish
		} else {
			result.Status = domain.PayoutFailed
			result.Reason = payment.RejectReason
		}
		results = append(results, result)
	}

	return results, nil
}
