package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type UserSnapshot struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// IdentityClient looks up users/owners in the identity service. Callers
// treat a failed lookup as partial data, never as fatal, except during
// order creation.
type IdentityClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewIdentityClient(baseURL, token string) *IdentityClient {
	return &IdentityClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *IdentityClient) UserByID(ctx context.Context, id uint) (*UserSnapshot, error) {
	url := fmt.Sprintf("%s/users/%d", c.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity: %s returned %d", url, res.StatusCode)
	}

	var body struct {
		Success bool         `json:"success"`
		Data    UserSnapshot `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, fmt.Errorf("identity: %s not successful", url)
	}
	return &body.Data, nil
}
