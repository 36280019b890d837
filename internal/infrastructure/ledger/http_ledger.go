package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type balanceResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPLedgerClient talks to the wallet service that owns account balances and
// performs the atomic transfer primitive.
type HTTPLedgerClient struct {
	Address string
}

func NewHTTPLedgerClient(address string) (*HTTPLedgerClient, error) {
	return &HTTPLedgerClient{
		Address: address,
	}, nil
}

func (h *HTTPLedgerClient) Transfer(ctx context.Context, from, to string, amount uint64) error {
	requestBodyBytes, err := json.Marshal(transferRequest{
		From:   from,
		To:     to,
		Amount: amount,
	})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/wallets/transfer", h.Address), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	if response.StatusCode == http.StatusPaymentRequired {
		return domain.ErrInsufficientFunds
	}
	var errorResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errorResp); err != nil {
		return fmt.Errorf("ledger transfer failed with status %d", response.StatusCode)
	}
	return errors.New(errorResp.Error)
}

func (h *HTTPLedgerClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/wallets/%s/balance", h.Address, address), nil)
	if err != nil {
		return 0, err
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, err
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var balanceResp balanceResponse
		if err := json.Unmarshal(responseBodyBytes, &balanceResp); err != nil {
			return 0, err
		}
		return balanceResp.Balance, nil
	}
	var errorResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errorResp); err != nil {
		return 0, fmt.Errorf("ledger balance request failed with status %d", response.StatusCode)
	}
	return 0, errors.New(errorResp.Error)
}
