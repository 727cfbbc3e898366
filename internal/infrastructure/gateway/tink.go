package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/owlpay/settlement-service/internal/config"
	"github.com/owlpay/settlement-service/internal/domain"
)

// TinkGateway initiates SEPA credit transfers via Tink payment initiation.
// Tink submits one payment request per payout; a failed creation fails only
// that payout, not the whole batch.
type TinkGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewTinkGateway(cfg config.GatewayEndpoint) *TinkGateway {
	return &TinkGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  newHTTPClient(),
	}
}

func (g *TinkGateway) Name() string {
	return "tink"
}

func (g *TinkGateway) DateFormat() string {
	return "2006-01-02"
}

type tinkPaymentRequest struct {
	ExternalReference string `json:"externalReference"`
	Amount            struct {
		Value        float64 `json:"value"`
		CurrencyCode string  `json:"currencyCode"`
	} `json:"amount"`
	RecipientID   string `json:"recipientId"`
	ExecutionDate string `json:"executionDate"`
}

type tinkPaymentResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"` // CREATED / REJECTED
	StatusMessage string `json:"statusMessage"`
}

func (g *TinkGateway) SubmitBatch(ctx context.Context, accounting *domain.Accounting, payouts []*domain.Payout, executeDate string) ([]domain.PayoutResult, error) {
	results := make([]domain.PayoutResult, 0, len(payouts))

	for _, p := range payouts {
		request := tinkPaymentRequest{
			ExternalReference: p.ExternalPaymentID,
			RecipientID:       p.VendorID,
			ExecutionDate:     executeDate,
		}
		request.Amount.Value = p.Total
		request.Amount.CurrencyCode = p.Currency

		var response tinkPaymentResponse
		if err := postJSON(g.client, g.baseURL+"/api/v1/payments/requests", g.apiKey, request, &response); err != nil {
			results = append(results, domain.PayoutResult{
				PayoutID: p.ID,
				Status:   domain.PayoutFailed,
				Reason:   fmt.Sprintf("tink payment create: %v", err),
			})
			continue
		}

		result := domain.PayoutResult{PayoutID: p.ID, ExternalPaymentID: response.ID}
		if response.Status == "REJECTED" {
			result.Status = domain.PayoutFailed
			result.Reason = response.StatusMessage
		} else {
			result.Status = domain.PayoutFinish
		}
		results = append(results, result)
	}

	return results, nil
}
