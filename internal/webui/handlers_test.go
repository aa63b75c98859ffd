package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icw-wallet/icw/config"
	"github.com/icw-wallet/icw/internal/dfx"
	"github.com/icw-wallet/icw/internal/icrc"
	"github.com/icw-wallet/icw/internal/price"
	"github.com/icw-wallet/icw/internal/wallet"
)

// fakeLedger scripts the dfx gateway for handler tests.
type fakeLedger struct {
	principal string
	balances  map[string]*big.Int // ledger canister ID -> balance

	transferRes  dfx.TransferResult
	lastTransfer icrc.TransferArgs

	active string
	used   []string
}

func (f *fakeLedger) BalanceOf(_ context.Context, ledger string, _ icrc.Account) (*big.Int, error) {
	bal, ok := f.balances[ledger]
	if !ok {
		return nil, fmt.Errorf("no such ledger %q", ledger)
	}
	return bal, nil
}

func (f *fakeLedger) Transfer(_ context.Context, _ string, args icrc.TransferArgs) (dfx.TransferResult, error) {
	f.lastTransfer = args
	return f.transferRes, nil
}

func (f *fakeLedger) Mint(context.Context, string, icrc.Account, *big.Int) (dfx.MintResult, error) {
	return dfx.MintResult{}, fmt.Errorf("not scripted")
}

func (f *fakeLedger) Principal(context.Context) (string, error) { return f.principal, nil }
func (f *fakeLedger) Whoami(context.Context) (string, error)    { return f.active, nil }

func (f *fakeLedger) ListIdentities(context.Context) ([]dfx.Identity, string, error) {
	return []dfx.Identity{{Name: f.active, Active: true}, {Name: "bob"}}, f.active, nil
}

func (f *fakeLedger) UseIdentity(_ context.Context, name string) error {
	f.used = append(f.used, name)
	f.active = name
	return nil
}

func (f *fakeLedger) NewIdentity(context.Context, string) error { return nil }

func (f *fakeLedger) WithIdentity(_ context.Context, _ string, fn func() error) error {
	return fn()
}

// fakeFeed serves fixed prices.
type fakeFeed struct {
	prices map[string]float64
}

func (f *fakeFeed) USDPrice(_ context.Context, id string) (float64, error) {
	p, ok := f.prices[id]
	if !ok {
		return 0, price.ErrFeedUnavailable
	}
	return p, nil
}

func (f *fakeFeed) USDPrices(_ context.Context, ids []string) (map[string]float64, error) {
	return f.prices, nil
}

func newTestServer(t *testing.T) (*Server, *fakeLedger) {
	t.Helper()

	ckbtc, err := config.LookupToken("ckbtc")
	require.NoError(t, err)

	ledger := &fakeLedger{
		principal: "xkbqi-2qaaa-aaaah-qbpqq-cai",
		active:    "default",
		balances: map[string]*big.Int{
			ckbtc.Ledger: big.NewInt(100_000),
		},
		transferRes: dfx.TransferResult{Ok: true, Block: big.NewInt(42)},
	}
	feed := &fakeFeed{prices: map[string]float64{"bitcoin": 97_000}}

	cfg := config.Default()
	svc := wallet.New(cfg, ledger, feed)
	return New(cfg, svc), ledger
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestIndexServesEmbeddedPage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "ICW Wallet")
}

func TestGetBalance(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/balance/ckbtc", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var res wallet.BalanceResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "ckBTC", res.Token)
	assert.Equal(t, json.Number("0.00100000"), res.Balance)
	require.NotNil(t, res.USD)
	assert.Equal(t, 97.0, *res.USD)
	assert.Equal(t, "xkbqi-2qaaa-aaaah-qbpqq-cai", res.Principal)
}

func TestGetBalanceUnknownToken(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/balance/doge", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown token")
}

func TestGetBalanceInvalidSubaccount(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/balance/ckbtc?subaccount="+strings.Repeat("x", 40), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostTransfer(t *testing.T) {
	s, ledger := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/transfer",
		`{"token":"ckbtc","recipient":"aaaaa-aa","amount":"0.001","memo":"rent"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var res wallet.TransferResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Ok)
	assert.Equal(t, big.NewInt(42), res.Block)
	assert.Equal(t, "rent", res.Memo)

	assert.Equal(t, big.NewInt(100_000), ledger.lastTransfer.Amount)
	assert.Equal(t, []byte("rent"), ledger.lastTransfer.Memo)
}

func TestPostTransferMissingFields(t *testing.T) {
	s, ledger := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/transfer", `{"amount":"0.001"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, ledger.lastTransfer.Amount, "ledger must not be called on a rejected request")
}

func TestPostTransferPrecisionExceeded(t *testing.T) {
	s, ledger := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/transfer",
		`{"token":"ckbtc","recipient":"aaaaa-aa","amount":"1.000000001"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, ledger.lastTransfer.Amount)
}

func TestGetIdentity(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/identity", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var res map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "default", res["identity"])
	assert.Equal(t, "xkbqi-2qaaa-aaaah-qbpqq-cai", res["principal"])
}

func TestUseIdentity(t *testing.T) {
	s, ledger := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/identity/use", `{"name":"bob"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"bob"}, ledger.used)

	rec = do(t, s, http.MethodPost, "/api/identity/use", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInfo(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/info/ckbtc", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var res wallet.InfoResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "ckBTC", res.Token)
	assert.Equal(t, "mxzaz-hqaaa-aaaar-qaada-cai", res.Ledger)
	assert.Equal(t, uint8(8), res.Decimals)
	require.NotNil(t, res.PriceUSD)
	assert.Equal(t, 97_000.0, *res.PriceUSD)
}
