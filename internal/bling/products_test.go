package bling

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductQueries(t *testing.T) {
	f := newFakeBling("at-1")

	var rawQueries []string
	f.products = func(w http.ResponseWriter, r *http.Request) {
		rawQueries = append(rawQueries, r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"data":[]}`)
	}
	client, _ := newTestClient(t, f, "at-1", time.Second)

	_, err := client.ProductsByGTIN(context.Background(), "0789", 5)
	require.NoError(t, err)
	_, err = client.ProductsByCode(context.Background(), "W-1", 1)
	require.NoError(t, err)

	require.Len(t, rawQueries, 2)
	assert.Equal(t, "criterio=2&gtins[]=0789&limite=5", rawQueries[0])
	assert.Equal(t, "codigo=W-1&limite=1", rawQueries[1])
}

func TestStockBalances(t *testing.T) {
	f := newFakeBling("at-1")

	var gotQuery string
	f.stock = func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"data":[{"produto":{"id":42},"saldoFisicoTotal":3,"saldoVirtualTotal":7}]}`)
	}
	client, _ := newTestClient(t, f, "at-1", time.Second)

	balances, err := client.StockBalances(context.Background(), 42, "1234")
	require.NoError(t, err)
	require.Len(t, balances, 1)

	assert.Equal(t, "idDeposito=1234&idsProdutos[]=42", gotQuery)
	assert.Equal(t, float64(7), balances[0].Quantity())
}

func TestStockBalancesWithoutDeposit(t *testing.T) {
	f := newFakeBling("at-1")

	var gotQuery string
	f.stock = func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"data":[]}`)
	}
	client, _ := newTestClient(t, f, "at-1", time.Second)

	balances, err := client.StockBalances(context.Background(), 42, "")
	require.NoError(t, err)

	assert.Empty(t, balances)
	assert.Equal(t, "idsProdutos[]=42", gotQuery)
}
