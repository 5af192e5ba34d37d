// Package paymentprovider реализует HTTP-клиент платёжного провайдера:
// создание и отмена подписок, список платежей и проверка подписи
// платёжных уведомлений.
package paymentprovider

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client клиент API платёжного провайдера.
type Client struct {
	keyID      string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент платёжного провайдера.
func NewClient(keyID, secretKey, apiURL string) *Client {
	return &Client{
		keyID:      keyID,
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// KeyID возвращает публичный идентификатор ключа для фронтенда.
func (c *Client) KeyID() string {
	return c.keyID
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New("unexpected status: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateSubscription создаёт подписку по идентификатору тарифного плана.
func (c *Client) CreateSubscription(ctx context.Context, planID string) (*Subscription, error) {
	req, err := c.newRequest(ctx, "POST", "/subscriptions", CreateSubscriptionRequest{
		PlanID:         planID,
		CustomerNotify: 1,
		TotalCount:     12,
	})
	if err != nil {
		return nil, err
	}

	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription отменяет подписку у провайдера и возвращает её
// обновлённое состояние.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	req, err := c.newRequest(ctx, "POST", "/subscriptions/"+subscriptionID+"/cancel", nil)
	if err != nil {
		return nil, err
	}

	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubscriptions возвращает последние count подписок.
func (c *Client) ListSubscriptions(ctx context.Context, count int) (*SubscriptionList, error) {
	req, err := c.newRequest(ctx, "GET", fmt.Sprintf("/subscriptions?count=%d", count), nil)
	if err != nil {
		return nil, err
	}

	var list SubscriptionList
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// VerifySignature проверяет подпись провайдера над парой
// (payment_id, subscription_id). Сравнение выполняется за
// постоянное время.
func (c *Client) VerifySignature(paymentID, subscriptionID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
