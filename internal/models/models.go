package models

// Product is the subset of a Bling /produtos record the lookup needs.
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome"`
	Code     string `json:"codigo"`
	GTIN     string `json:"gtin"`
	ImageURL string `json:"imagemURL"`
}

// StockBalance is one record of /estoques/saldos. Bling reports the balance
// under different names depending on account settings, so every field is
// optional.
type StockBalance struct {
	VirtualTotal *float64 `json:"saldoVirtualTotal"`
	Virtual      *float64 `json:"saldoVirtual"`
	Balance      *float64 `json:"saldo"`
}

// Quantity resolves the balance by preference: virtual total, virtual, raw.
func (s StockBalance) Quantity() float64 {
	switch {
	case s.VirtualTotal != nil:
		return *s.VirtualTotal
	case s.Virtual != nil:
		return *s.Virtual
	case s.Balance != nil:
		return *s.Balance
	}

	return 0
}

// LookupResult is what GET /produto/{codigo} returns. Optional fields are
// dropped in the compact field set.
type LookupResult struct {
	ID    *int64  `json:"id,omitempty"`
	Name  string  `json:"nome"`
	SKU   *string `json:"sku,omitempty"`
	GTIN  *string `json:"gtin,omitempty"`
	Stock float64 `json:"estoque"`
	Image string  `json:"imagem"`
}
