package bling

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PauloAdam/consulta-produto-estoque/internal/models"
)

const (
	productsPath = "/produtos"
	balancesPath = "/estoques/saldos"

	// gtinCriterion is the criterio value sent with GTIN searches.
	gtinCriterion = "2"
)

type productsResponse struct {
	Data []models.Product `json:"data"`
}

type balancesResponse struct {
	Data []models.StockBalance `json:"data"`
}

func (c *Client) ProductsByGTIN(ctx context.Context, gtin string, limit int) ([]models.Product, error) {
	const op = "bling.Client.ProductsByGTIN"

	query := url.Values{}
	query.Set("gtins[]", gtin)
	query.Set("criterio", gtinCriterion)
	query.Set("limite", strconv.Itoa(limit))

	var resp productsResponse
	if err := c.Get(ctx, productsPath, query, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp.Data, nil
}

func (c *Client) ProductsByCode(ctx context.Context, code string, limit int) ([]models.Product, error) {
	const op = "bling.Client.ProductsByCode"

	query := url.Values{}
	query.Set("codigo", code)
	query.Set("limite", strconv.Itoa(limit))

	var resp productsResponse
	if err := c.Get(ctx, productsPath, query, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp.Data, nil
}

// StockBalances returns the balances of productID. An empty depositID asks
// Bling for the account default.
func (c *Client) StockBalances(ctx context.Context, productID int64, depositID string) ([]models.StockBalance, error) {
	const op = "bling.Client.StockBalances"

	query := url.Values{}
	query.Set("idsProdutos[]", strconv.FormatInt(productID, 10))
	if depositID != "" {
		query.Set("idDeposito", depositID)
	}

	var resp balancesResponse
	if err := c.Get(ctx, balancesPath, query, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp.Data, nil
}
