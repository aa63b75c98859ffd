// Package wallet assembles ledger, identity, and price data into the JSON
// documents the CLI and web UI emit.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/icw-wallet/icw/config"
	"github.com/icw-wallet/icw/internal/dfx"
	"github.com/icw-wallet/icw/internal/icrc"
	"github.com/icw-wallet/icw/internal/log"
	"github.com/icw-wallet/icw/internal/price"
)

// Ledger is the dfx-backed gateway the service calls. Satisfied by
// *dfx.Client; faked in tests.
type Ledger interface {
	BalanceOf(ctx context.Context, ledger string, acct icrc.Account) (*big.Int, error)
	Transfer(ctx context.Context, ledger string, args icrc.TransferArgs) (dfx.TransferResult, error)
	Mint(ctx context.Context, ledger string, to icrc.Account, amount *big.Int) (dfx.MintResult, error)
	Principal(ctx context.Context) (string, error)
	Whoami(ctx context.Context) (string, error)
	ListIdentities(ctx context.Context) ([]dfx.Identity, string, error)
	UseIdentity(ctx context.Context, name string) error
	NewIdentity(ctx context.Context, name string) error
	WithIdentity(ctx context.Context, name string, fn func() error) error
}

// PriceFeed supplies token fiat prices. Satisfied by *price.Client.
type PriceFeed interface {
	USDPrice(ctx context.Context, id string) (float64, error)
	USDPrices(ctx context.Context, ids []string) (map[string]float64, error)
}

// Service executes wallet operations against one configuration.
type Service struct {
	cfg    *config.Config
	ledger Ledger
	prices PriceFeed
	logger zerolog.Logger
}

// New creates a wallet service.
func New(cfg *config.Config, ledger Ledger, prices PriceFeed) *Service {
	return &Service{
		cfg:    cfg,
		ledger: ledger,
		prices: prices,
		logger: log.Wallet,
	}
}

// token resolves the configured token, or an override key when non-empty.
func (s *Service) token(key string) (config.Token, error) {
	if key == "" {
		key = s.cfg.Token
	}
	return config.LookupToken(key)
}

// Balance queries the balance of one account, with fiat conversion when a
// price is available. A feed failure only drops the usd/price fields.
func (s *Service) Balance(ctx context.Context, opts BalanceOptions) (BalanceResult, error) {
	return s.BalanceOfToken(ctx, "", opts)
}

// BalanceOfToken is Balance with an explicit token key (web UI paths name
// the token per request).
func (s *Service) BalanceOfToken(ctx context.Context, tokenKey string, opts BalanceOptions) (BalanceResult, error) {
	tok, err := s.token(tokenKey)
	if err != nil {
		return BalanceResult{}, err
	}

	var (
		principal string
		raw       *big.Int
	)
	err = s.ledger.WithIdentity(ctx, s.cfg.Identity, func() error {
		principal = opts.Principal
		if principal == "" {
			p, err := s.ledger.Principal(ctx)
			if err != nil {
				return err
			}
			principal = p
		}

		acct, err := icrc.ResolveAccount(principal, opts.Subaccount)
		if err != nil {
			return err
		}

		raw, err = s.ledger.BalanceOf(ctx, s.cfg.LedgerFor(tok), acct)
		return err
	})
	if err != nil {
		return BalanceResult{}, err
	}

	display := icrc.ToDisplay(raw, tok.Decimals)
	result := BalanceResult{
		Token:     tok.Symbol,
		Balance:   json.Number(display),
		Raw:       raw,
		Principal: principal,
	}

	quote, err := s.prices.USDPrice(ctx, tok.CoinGeckoID)
	if err != nil {
		if !errors.Is(err, price.ErrFeedUnavailable) {
			return BalanceResult{}, err
		}
		s.logger.Debug().Str("token", tok.Key).Msg("no price, omitting fiat fields")
		return result, nil
	}
	if usd, ok := icrc.ToFiat(display, quote); ok {
		result.USD = &usd
		result.Price = &quote
	}
	return result, nil
}

// Transfer moves tokens from the active identity to a recipient. All
// argument validation happens before dfx is invoked.
func (s *Service) Transfer(ctx context.Context, opts TransferOptions) (TransferResult, error) {
	tok, err := s.token(opts.Token)
	if err != nil {
		return TransferResult{}, err
	}

	fee := s.cfg.Fee
	if fee == nil {
		fee = tok.Fee
	}

	var res dfx.TransferResult
	err = s.ledger.WithIdentity(ctx, s.cfg.Identity, func() error {
		principal, err := s.ledger.Principal(ctx)
		if err != nil {
			return err
		}

		args, err := icrc.BuildTransfer(
			principal, opts.FromSubaccount,
			opts.Recipient, opts.Subaccount,
			opts.Amount, tok.Decimals, fee, opts.Memo)
		if err != nil {
			return err
		}

		res, err = s.ledger.Transfer(ctx, s.cfg.LedgerFor(tok), args)
		return err
	})
	if err != nil {
		return TransferResult{}, err
	}

	if !res.Ok {
		return TransferResult{Ok: false, Err: res.Err}, nil
	}

	raw, err := icrc.ToBaseUnits(opts.Amount, tok.Decimals)
	if err != nil {
		return TransferResult{}, err
	}
	out := TransferResult{
		Ok:     true,
		Block:  res.Block,
		Token:  tok.Symbol,
		Amount: json.Number(icrc.ToDisplay(raw, tok.Decimals)),
		To:     opts.Recipient,
	}
	if opts.Memo != "" {
		out.Memo = opts.Memo
	}
	return out, nil
}

// Info reports token metadata and the current price for the given token
// key (empty = configured default). Feed failures only drop the price
// field.
func (s *Service) Info(ctx context.Context, tokenKey string) (InfoResult, error) {
	tok, err := s.token(tokenKey)
	if err != nil {
		return InfoResult{}, err
	}

	principal, err := s.ledger.Principal(ctx)
	if err != nil {
		return InfoResult{}, err
	}

	result := InfoResult{
		Token:     tok.Symbol,
		Ledger:    s.cfg.LedgerFor(tok),
		Decimals:  tok.Decimals,
		Fee:       tok.Fee,
		FeeHuman:  json.Number(icrc.ToDisplay(tok.Fee, tok.Decimals)),
		Principal: principal,
		Network:   s.cfg.Network,
	}

	if quote, err := s.prices.USDPrice(ctx, tok.CoinGeckoID); err == nil {
		result.PriceUSD = &quote
	} else if !errors.Is(err, price.ErrFeedUnavailable) {
		return InfoResult{}, err
	}
	return result, nil
}

// Mint creates tokens on a permissive test ledger.
func (s *Service) Mint(ctx context.Context, opts MintOptions) (MintResult, error) {
	tok, err := s.token("")
	if err != nil {
		return MintResult{}, err
	}

	recipient := opts.Recipient
	if recipient == "" {
		recipient, err = s.ledger.Principal(ctx)
		if err != nil {
			return MintResult{}, err
		}
	}

	acct, err := icrc.ResolveAccount(recipient, opts.Subaccount)
	if err != nil {
		return MintResult{}, err
	}
	raw, err := icrc.ToBaseUnits(opts.Amount, tok.Decimals)
	if err != nil {
		return MintResult{}, err
	}

	res, err := s.ledger.Mint(ctx, s.cfg.LedgerFor(tok), acct, raw)
	if err != nil {
		return MintResult{}, err
	}

	if !res.Success {
		return MintResult{Ok: false, Err: res.Err}, nil
	}
	return MintResult{
		Ok:         true,
		Block:      res.BlockIndex,
		Token:      tok.Symbol,
		Amount:     json.Number(icrc.ToDisplay(raw, tok.Decimals)),
		To:         recipient,
		NewBalance: res.NewBalance,
	}, nil
}

// Balances queries every registered token, fetching all prices in one
// feed call. Per-token failures produce an error entry instead of
// aborting the sweep.
func (s *Service) Balances(ctx context.Context, opts BalanceOptions) []BalanceSweepEntry {
	keys := config.TokenKeys()

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		tok, _ := config.LookupToken(key)
		ids = append(ids, tok.CoinGeckoID)
	}
	// Warm the price cache with a single call; per-token lookups below
	// are then served locally.
	_, _ = s.prices.USDPrices(ctx, ids)

	entries := make([]BalanceSweepEntry, 0, len(keys))
	for _, key := range keys {
		bal, err := s.BalanceOfToken(ctx, key, opts)
		if err != nil {
			s.logger.Warn().Err(err).Str("token", key).Msg("balance lookup failed")
			entries = append(entries, BalanceSweepEntry{Token: key, Failed: true})
			continue
		}
		entries = append(entries, BalanceSweepEntry{Token: key, Balance: &bal})
	}
	return entries
}

// BalanceSweepEntry is one token's row in an all-balances sweep. It
// marshals as the balance document itself, or as {"token": ..., "error":
// true} when the lookup failed.
type BalanceSweepEntry struct {
	Token   string
	Failed  bool
	Balance *BalanceResult
}

func (e BalanceSweepEntry) MarshalJSON() ([]byte, error) {
	if e.Failed || e.Balance == nil {
		return json.Marshal(map[string]interface{}{"token": e.Token, "error": true})
	}
	return json.Marshal(e.Balance)
}

// Identities lists dfx identities.
func (s *Service) Identities(ctx context.Context) ([]dfx.Identity, string, error) {
	return s.ledger.ListIdentities(ctx)
}

// Whoami reports the active identity and its principal.
func (s *Service) Whoami(ctx context.Context) (string, string, error) {
	identity, err := s.ledger.Whoami(ctx)
	if err != nil {
		return "", "", err
	}
	principal, err := s.ledger.Principal(ctx)
	if err != nil {
		return "", "", err
	}
	return identity, principal, nil
}

// UseIdentity switches the active identity and returns its principal.
func (s *Service) UseIdentity(ctx context.Context, name string) (string, error) {
	if err := s.ledger.UseIdentity(ctx, name); err != nil {
		return "", err
	}
	return s.ledger.Principal(ctx)
}

// NewIdentity creates an identity; dfx owns all key material.
func (s *Service) NewIdentity(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("identity name must not be empty")
	}
	return s.ledger.NewIdentity(ctx, name)
}
