package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PauloAdam/consulta-produto-estoque/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// Response field sets.
const (
	FieldsFull    = "full"
	FieldsCompact = "compact"
)

const thumbnailMarker = "miniatura"

type ProductSearcher interface {
	ProductsByGTIN(ctx context.Context, gtin string, limit int) ([]models.Product, error)
	ProductsByCode(ctx context.Context, code string, limit int) ([]models.Product, error)
}

type StockGetter interface {
	StockBalances(ctx context.Context, productID int64, depositID string) ([]models.StockBalance, error)
}

type Options struct {
	DepositID   string
	GTINLimit   int
	SKULimit    int
	SKUFallback bool
	Fields      string
}

type ProductOperator struct {
	Products ProductSearcher
	Stock    StockGetter
	opts     Options
}

func New(p ProductSearcher, s StockGetter, opts Options) *ProductOperator {
	if opts.GTINLimit < 1 {
		opts.GTINLimit = 1
	}
	if opts.SKULimit < 1 {
		opts.SKULimit = 1
	}
	if opts.Fields == "" {
		opts.Fields = FieldsFull
	}

	return &ProductOperator{
		Products: p,
		Stock:    s,
		opts:     opts,
	}
}

// Lookup resolves code as a GTIN, then as a SKU when fallback is enabled,
// and attaches the stock balance of the configured deposit.
func (p *ProductOperator) Lookup(ctx context.Context, code string) (models.LookupResult, error) {
	const op = "products.ProductOperator.Lookup"

	product, err := p.find(ctx, code)
	if err != nil {
		return models.LookupResult{}, fmt.Errorf("%s: %w", op, err)
	}

	balances, err := p.Stock.StockBalances(ctx, product.ID, p.opts.DepositID)
	if err != nil {
		return models.LookupResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var balance models.StockBalance
	if len(balances) > 0 {
		balance = balances[0]
	}

	return p.shape(product, balance.Quantity()), nil
}

func (p *ProductOperator) find(ctx context.Context, code string) (models.Product, error) {
	found, err := p.Products.ProductsByGTIN(ctx, code, p.opts.GTINLimit)
	if err != nil {
		return models.Product{}, err
	}
	if len(found) > 0 {
		return found[0], nil
	}

	if !p.opts.SKUFallback {
		return models.Product{}, ErrProductNotFound
	}

	found, err = p.Products.ProductsByCode(ctx, code, p.opts.SKULimit)
	if err != nil {
		return models.Product{}, err
	}
	if len(found) > 0 {
		return found[0], nil
	}

	return models.Product{}, ErrProductNotFound
}

func (p *ProductOperator) shape(product models.Product, stock float64) models.LookupResult {
	res := models.LookupResult{
		Name:  product.Name,
		Stock: stock,
		Image: FullSizeImage(product.ImageURL),
	}

	if p.opts.Fields == FieldsFull {
		res.ID = &product.ID
		res.SKU = &product.Code
		res.GTIN = &product.GTIN
	}

	return res
}

// FullSizeImage drops the first thumbnail marker from a Bling image URL. A
// marker that was a whole path segment leaves no empty segment behind.
func FullSizeImage(url string) string {
	i := strings.Index(url, thumbnailMarker)
	if i < 0 {
		return url
	}

	head, tail := url[:i], url[i+len(thumbnailMarker):]
	if strings.HasSuffix(head, "/") && strings.HasPrefix(tail, "/") {
		tail = tail[1:]
	}

	return head + tail
}
