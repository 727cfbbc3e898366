package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/owlpay/settlement-service/internal/config"
	"github.com/owlpay/settlement-service/internal/domain"
)

// CathayGateway drives domestic bank remittance batches through the Cathay
// corporate API. Cathay expects compact ROC-bank style dates (yyyymmdd).
type CathayGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewCathayGateway(cfg config.GatewayEndpoint) *CathayGateway {
	return &CathayGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  newHTTPClient(),
	}
}

func (g *CathayGateway) Name() string {
	return "cathay"
}

func (g *CathayGateway) DateFormat() string {
	return "20060102"
}

type cathayRemitItem struct {
	SeqNo    string  `json:"seq_no"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	PayeeID  string  `json:"payee_id"`
}

type cathayBatchRequest struct {
	BatchNo    string            `json:"batch_no"`
	RemitDate  string            `json:"remit_date"`
	TotalCount int               `json:"total_count"`
	Items      []cathayRemitItem `json:"items"`
}

type cathayBatchResponse struct {
	BatchNo string `json:"batch_no"`
	Items   []struct {
		SeqNo   string `json:"seq_no"`
		Result  string `json:"result"` // "0000" on success
		Message string `json:"message"`
		RemitNo string `json:"remit_no"`
	} `json:"items"`
}

func (g *CathayGateway) SubmitBatch(ctx context.Context, accounting *domain.Accounting, payouts []*domain.Payout, executeDate string) ([]domain.PayoutResult, error) {
	request := cathayBatchRequest{
		BatchNo:    accounting.ID,
		RemitDate:  executeDate,
		TotalCount: len(payouts),
	}
	byRef := make(map[string]*domain.Payout, len(payouts))
	for _, p := range payouts {
		byRef[p.ExternalPaymentID] = p
		request.Items = append(request.Items, cathayRemitItem{
			SeqNo:    p.ExternalPaymentID,
			Amount:   p.Total,
			Currency: p.Currency,
			PayeeID:  p.VendorID,
		})
	}

	var response cathayBatchResponse
	if err := postJSON(g.client, g.baseURL+"/corp/v1/remit/batch", g.apiKey, request, &response); err != nil {
		return nil, fmt.Errorf("cathay batch submit: %w", err)
	}

	results := make([]domain.PayoutResult, 0, len(response.Items))
	for _, item := range response.Items {
		payout, ok := byRef[item.SeqNo]
		if !ok {
			continue
		}
		result := domain.PayoutResult{PayoutID: payout.ID, ExternalPaymentID: item.RemitNo}
		if item.Result == "0000" {
			result.Status = domain.PayoutFinish
		} else {
			result.Status = domain.PayoutFailed
			result.Reason = fmt.Sprintf("%s: %s", item.Result, item.Message)
		}
		results = append(results, result)
	}

	return results, nil
}
