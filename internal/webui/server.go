// Package webui serves the local browser UI over HTTP. It binds to
// loopback only; everything it does goes through the wallet service.
package webui

import (
	"context"
	"embed"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/ziflex/lecho/v2"

	"github.com/icw-wallet/icw/config"
	"github.com/icw-wallet/icw/internal/log"
	"github.com/icw-wallet/icw/internal/wallet"
)

//go:embed static
var staticFS embed.FS

// Server hosts the local web UI.
type Server struct {
	echo   *echo.Echo
	svc    *wallet.Service
	cfg    *config.Config
	logger zerolog.Logger
}

// requestValidator adapts validator/v10 to echo's Validator interface.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}
	return nil
}

// New creates the web UI server and registers its routes.
func New(cfg *config.Config, svc *wallet.Service) *Server {
	logger := log.UI

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	elog := lecho.From(logger)
	e.Logger = elog
	e.Use(lecho.Middleware(lecho.Config{Logger: elog}))
	e.Validator = &requestValidator{validate: validator.New()}

	s := &Server{
		echo:   e,
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.index)
	s.echo.GET("/api/identity", s.getIdentity)
	s.echo.GET("/api/identities", s.listIdentities)
	s.echo.POST("/api/identity/use", s.useIdentity)
	s.echo.GET("/api/balance/:token", s.getBalance)
	s.echo.GET("/api/balances", s.getBalances)
	s.echo.POST("/api/transfer", s.postTransfer)
	s.echo.GET("/api/info/:token", s.getInfo)
}

// Addr returns the loopback address the server binds to.
func (s *Server) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.cfg.UI.Port)
}

// Start serves until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.Addr()).Msg("web UI starting")
	return s.echo.Start(s.Addr())
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
