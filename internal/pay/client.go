// internal/pay/client.go
//
// HTTP client for the treasury service that holds the sponsor wallet and
// performs the actual on-chain transfers. The client imposes its own
// timeout; a slow treasury surfaces to callers as a retryable error.

package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type TreasuryClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewTreasuryClient constructs a client for the treasury service.
func NewTreasuryClient(baseURL, token string) *TreasuryClient {
	return &TreasuryClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *TreasuryClient) SubmitTransfer(ctx context.Context, toAddress string, amountUSD int, memo string) (*TransferResult, error) {
	reqBody := map[string]any{
		"to":        toAddress,
		"amountUsd": amountUSD,
		"memo":      memo,
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/transfers", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("to", toAddress).
			Msg("treasury transfer rejected")
		return nil, fmt.Errorf("treasury transfer failed: %d: %s", resp.StatusCode, string(body))
	}

	var out TransferResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.TxHash == "" {
		return nil, fmt.Errorf("treasury returned no transaction hash")
	}
	return &out, nil
}

func (c *TreasuryClient) SponsorBalance(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/balance", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("treasury balance failed: %d", resp.StatusCode)
	}
	var out struct {
		BalanceUSD float64 `json:"balanceUsd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.BalanceUSD, nil
}
