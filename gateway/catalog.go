package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Snapshot shapes returned by the restaurant/menu catalog service. They
// are copied onto orders at creation time and never refreshed.

type AddOnItemSnapshot struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type AddOnCategorySnapshot struct {
	Name          string              `json:"name"`
	MaxSelectable int                 `json:"maxSelectable"`
	Required      bool                `json:"required"`
	Items         []AddOnItemSnapshot `json:"items"`
}

type MenuSnapshot struct {
	ID           uint                    `json:"id"`
	RestaurantID uint                    `json:"restaurantId"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Price        int64                   `json:"price"`
	Image        string                  `json:"image"`
	Category     string                  `json:"category"`
	AddOns       []AddOnCategorySnapshot `json:"addOns"`
}

type RestaurantSnapshot struct {
	ID        uint   `json:"id"`
	OwnerID   uint   `json:"ownerId"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Image     string `json:"image"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// CatalogClient calls the catalog service over authenticated HTTP.
type CatalogClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewCatalogClient(baseURL, token string) *CatalogClient {
	return &CatalogClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *CatalogClient) MenuByID(ctx context.Context, id uint) (*MenuSnapshot, error) {
	var out MenuSnapshot
	if err := c.get(ctx, fmt.Sprintf("%s/menus/%d", c.BaseURL, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) RestaurantByID(ctx context.Context, id uint) (*RestaurantSnapshot, error) {
	var out RestaurantSnapshot
	if err := c.get(ctx, fmt.Sprintf("%s/restaurants/%d", c.BaseURL, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog: %s returned %d", url, res.StatusCode)
	}

	var body struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return err
	}
	if !body.Success {
		return fmt.Errorf("catalog: %s not successful", url)
	}
	return json.Unmarshal(body.Data, out)
}
