package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/owlpay/settlement-service/internal/config"
	"github.com/owlpay/settlement-service/internal/domain"
)

// NiumGateway sends cross-border remittances through the Nium BaaS API.
type NiumGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewNiumGateway(cfg config.GatewayEndpoint) *NiumGateway {
	return &NiumGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  newHTTPClient(),
	}
}

func (g *NiumGateway) Name() string {
	return "nium"
}

func (g *NiumGateway) DateFormat() string {
	return "2006-01-02T15:04:05Z07:00"
}

type niumRemittance struct {
	CustomerComments string  `json:"customerComments"`
	SourceAmount     float64 `json:"sourceAmount"`
	SourceCurrency   string  `json:"sourceCurrency"`
	BeneficiaryID    string  `json:"beneficiaryId"`
	PurposeCode      string  `json:"purposeCode"`
	ScheduledAt      string  `json:"scheduledAt"`
	SystemReference  string  `json:"systemReferenceNumber"`
}

func (g *NiumGateway) SubmitBatch(ctx context.Context, accounting *domain.Accounting, payouts []*domain.Payout, executeDate string) ([]domain.PayoutResult, error) {
	remittances := make([]niumRemittance, 0, len(payouts))
	byRef := make(map[string]*domain.Payout, len(payouts))
	for _, p := range payouts {
		byRef[p.ExternalPaymentID] = p
		remittances = append(remittances, niumRemittance{
			CustomerComments: "OwlPay settlement " + accounting.ID,
			SourceAmount:     p.Total,
			SourceCurrency:   p.Currency,
			BeneficiaryID:    p.VendorID,
			PurposeCode:      "IR001",
			ScheduledAt:      executeDate,
			SystemReference:  p.ExternalPaymentID,
		})
	}

	var response struct {
		Remittances []struct {
			SystemReference string `json:"systemReferenceNumber"`
			PaymentID       string `json:"paymentId"`
			Status          string `json:"status"` // PAID / RETURNED
			FailureReason   string `json:"failureReason"`
		} `json:"remittances"`
	}
	if err := postJSON(g.client, g.baseURL+"/api/v1/remittance/batch", g.apiKey, map[string]interface{}{
		"batchReference": accounting.ID,
		"remittances":    remittances,
	}, &response); err != nil {
		return nil, fmt.Errorf("nium batch submit: %w", err)
	}

	results := make([]domain.PayoutResult, 0, len(response.Remittances))
	for _, remit := range response.Remittances {
		payout, ok := byRef[remit.SystemReference]
		if !ok {
			continue
		}
		result := domain.PayoutResult{PayoutID: payout.ID, ExternalPaymentID: remit.PaymentID}
		if remit.Status == "PAID" {
			result.Status = domain.PayoutFinish
		} else {
			result.Status = domain.PayoutFailed
			result.Reason = remit.FailureReason
		}
		results = append(results, result)
	}

	return results, nil
}
