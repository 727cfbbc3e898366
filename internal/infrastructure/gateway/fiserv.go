package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/owlpay/settlement-service/internal/config"
	"github.com/owlpay/settlement-service/internal/domain"
)

// FiservGateway executes card-rail disbursements through Fiserv. Fiserv's
// disbursement API takes US-style slash dates.
type FiservGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewFiservGateway(cfg config.GatewayEndpoint) *FiservGateway {
	return &FiservGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  newHTTPClient(),
	}
}

func (g *FiservGateway) Name() string {
	return "fiserv"
}

func (g *FiservGateway) DateFormat() string {
	return "01/02/2006"
}

type fiservDisbursement struct {
	MerchantRef string  `json:"merchantRef"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	RecipientID string  `json:"recipientId"`
}

func (g *FiservGateway) SubmitBatch(ctx context.Context, accounting *domain.Accounting, payouts []*domain.Payout, executeDate string) ([]domain.PayoutResult, error) {
	disbursements := make([]fiservDisbursement, 0, len(payouts))
	byRef := make(map[string]*domain.Payout, len(payouts))
	for _, p := range payouts {
		byRef[p.ExternalPaymentID] = p
		disbursements = append(disbursements, fiservDisbursement{
			MerchantRef: p.ExternalPaymentID,
			Amount:      p.Total,
			Currency:    p.Currency,
			RecipientID: p.VendorID,
		})
	}

	var response struct {
		Disbursements []struct {
			MerchantRef   string `json:"merchantRef"`
			TransactionID string `json:"transactionId"`
			Approved      bool   `json:"approved"`
			ResponseCode  string `json:"responseCode"`
			ResponseText  string `json:"responseText"`
		} `json:"disbursements"`
	}
	if err := postJSON(g.client, g.baseURL+"/disbursements/v1/batch", g.apiKey, map[string]interface{}{
		"batchId":        accounting.ID,
		"settlementDate": executeDate,
		"disbursements":  disbursements,
	}, &response); err != nil {
		return nil, fmt.Errorf("fiserv batch submit: %w", err)
	}

	results := make([]domain.PayoutResult, 0, len(response.Disbursements))
	for _, d := range response.Disbursements {
		payout, ok := byRef[d.MerchantRef]
		if !ok {
			continue
		}
		result := domain.PayoutResult{PayoutID: payout.ID, ExternalPaymentID: d.TransactionID}
		if d.Approved {
			result.Status = domain.PayoutFinish
		} else {
			result.Status = domain.PayoutFailed
			result.Reason = fmt.Sprintf("%s: %s", d.ResponseCode, d.ResponseText)
		}
		results = append(results, result)
	}

	return results, nil
}
