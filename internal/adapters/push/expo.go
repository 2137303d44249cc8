package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"

	"grouptee/internal/domain"
)

const defaultGatewayURL = "https://exp.host/--/api/v2/push/send"

type expoPushSender struct {
	client     *http.Client
	gatewayURL string
}

// NewExpoSender returns a PushSender that delivers through the Expo push
// gateway. An empty gatewayURL uses the production endpoint.
func NewExpoSender(client *http.Client, gatewayURL string) domain.PushSender {
	if client == nil {
		client = http.DefaultClient
	}
	if gatewayURL == "" {
		gatewayURL = defaultGatewayURL
	}
	return &expoPushSender{client: client, gatewayURL: gatewayURL}
}

type expoMessage struct {
	To    string            `json:"to"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

// Send posts one message to the gateway. Transport failures and 5xx responses
// are retried a few times; a ticket with DeviceNotRegistered is a final
// verdict and comes back in the receipt, not as an error.
func (s *expoPushSender) Send(ctx context.Context, token, message, notificationID string) (domain.PushReceipt, error) {
	payload, err := json.Marshal([]expoMessage{{
		To:    token,
		Body:  message,
		Data:  map[string]string{"notification_id": notificationID},
		Sound: "default",
	}})
	if err != nil {
		return domain.PushReceipt{}, fmt.Errorf("failed to encode push message: %w", err)
	}

	var result expoResponse
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")

			resp, err := s.client.Do(req)
			if err != nil {
				return fmt.Errorf("failed to reach push gateway: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				return fmt.Errorf("push gateway returned status: %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("push gateway returned status: %d", resp.StatusCode))
			}
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to decode gateway response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return domain.PushReceipt{}, err
	}
	if len(result.Data) == 0 {
		return domain.PushReceipt{}, fmt.Errorf("push gateway returned no ticket")
	}

	ticket := result.Data[0]
	receipt := domain.PushReceipt{
		Token:  token,
		OK:     ticket.Status == "ok",
		Detail: ticket.Message,
	}
	if ticket.Details.Error == "DeviceNotRegistered" {
		receipt.DeviceNotRegistered = true
	}
	return receipt, nil
}
