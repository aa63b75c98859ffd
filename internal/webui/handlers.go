package webui

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/icw-wallet/icw/config"
	"github.com/icw-wallet/icw/internal/icrc"
	"github.com/icw-wallet/icw/internal/wallet"
)

func (s *Server) index(c echo.Context) error {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (s *Server) getIdentity(c echo.Context) error {
	identity, principal, err := s.svc.Whoami(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"identity":  identity,
		"principal": principal,
	})
}

func (s *Server) listIdentities(c echo.Context) error {
	ids, current, err := s.svc.Identities(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"identities": ids,
		"current":    current,
	})
}

func (s *Server) useIdentity(c echo.Context) error {
	var req IdentityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	principal, err := s.svc.UseIdentity(c.Request().Context(), req.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"switched":  req.Name,
		"principal": principal,
	})
}

func (s *Server) getBalance(c echo.Context) error {
	res, err := s.svc.BalanceOfToken(c.Request().Context(), c.Param("token"), wallet.BalanceOptions{
		Principal:  c.QueryParam("principal"),
		Subaccount: c.QueryParam("subaccount"),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getBalances(c echo.Context) error {
	entries := s.svc.Balances(c.Request().Context(), wallet.BalanceOptions{
		Subaccount: c.QueryParam("subaccount"),
	})
	return c.JSON(http.StatusOK, map[string]interface{}{"balances": entries})
}

func (s *Server) postTransfer(c echo.Context) error {
	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := s.svc.Transfer(c.Request().Context(), wallet.TransferOptions{
		Token:          req.Token,
		Recipient:      req.Recipient,
		Amount:         req.Amount,
		Subaccount:     req.Subaccount,
		FromSubaccount: req.FromSubaccount,
		Memo:           req.Memo,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getInfo(c echo.Context) error {
	res, err := s.svc.Info(c.Request().Context(), c.Param("token"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// httpError maps argument-validation failures to 400 and everything else
// (dfx and ledger failures) to 500.
func httpError(err error) *echo.HTTPError {
	for _, kind := range []error{
		config.ErrUnknownToken,
		icrc.ErrInvalidSubaccount,
		icrc.ErrInvalidPrincipal,
		icrc.ErrInvalidAmount,
		icrc.ErrPrecisionExceeded,
		icrc.ErrInvalidMemo,
		icrc.ErrMemoTooLong,
		icrc.ErrInvalidFee,
	} {
		if errors.Is(err, kind) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
