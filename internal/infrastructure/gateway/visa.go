package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/owlpay/settlement-service/internal/config"
	"github.com/owlpay/settlement-service/internal/domain"
)

// VisaGateway pushes funds to cards through Visa Direct (VPA).
type VisaGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewVisaGateway(cfg config.GatewayEndpoint) *VisaGateway {
	return &VisaGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  newHTTPClient(),
	}
}

func (g *VisaGateway) Name() string {
	return "visa"
}

func (g *VisaGateway) DateFormat() string {
	return "20060102"
}

type visaPushPayment struct {
	RetrievalReference   string  `json:"retrievalReferenceNumber"`
	Amount               float64 `json:"amount"`
	TransactionCurrency  string  `json:"transactionCurrencyCode"`
	RecipientID          string  `json:"recipientPrimaryAccountToken"`
	LocalTransactionDate string  `json:"localTransactionDate"`
}

func (g *VisaGateway) SubmitBatch(ctx context.Context, accounting *domain.Accounting, payouts []*domain.Payout, executeDate string) ([]domain.PayoutResult, error) {
	payments := make([]visaPushPayment, 0, len(payouts))
	byRef := make(map[string]*domain.Payout, len(payouts))
	for _, p := range payouts {
		byRef[p.ExternalPaymentID] = p
		payments = append(payments, visaPushPayment{
			RetrievalReference:   p.ExternalPaymentID,
			Amount:               p.Total,
			TransactionCurrency:  p.Currency,
			RecipientID:          p.VendorID,
			LocalTransactionDate: executeDate,
		})
	}

	var response struct {
		Payments []struct {
			RetrievalReference string `json:"retrievalReferenceNumber"`
			TransactionID      string `json:"transactionIdentifier"`
			ActionCode         string `json:"actionCode"` // "00" approved
			ResponseText       string `json:"responseText"`
		} `json:"payments"`
	}
	if err := postJSON(g.client, g.baseURL+"/visadirect/fundstransfer/v1/multipushfunds", g.apiKey, map[string]interface{}{
		"batchReference": accounting.ID,
		"payments":       payments,
	}, &response); err != nil {
		return nil, fmt.Errorf("visa batch submit: %w", err)
	}

	results := make([]domain.PayoutResult, 0, len(response.Payments))
	for _, payment := range response.Payments {
		payout, ok := byRef[payment.RetrievalReference]
		if !ok {
			continue
		}
		result := domain.PayoutResult{PayoutID: payout.ID, ExternalPaymentID: payment.TransactionID}
		if payment.ActionCode == "00" {
			result.Status = domain.PayoutFinish
		} else {
			result.Status = domain.PayoutFailed
			result.Reason = fmt.Sprintf("%s: %s", payment.ActionCode, payment.ResponseText)
		}
		results = append(results, result)
	}

	return results, nil
}
