// icw is a command-line ICP wallet for ICRC-1 token ledgers. It builds
// canister call arguments, converts units, and shapes output; all key
// material and network calls stay with dfx.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/icw-wallet/icw/config"
	"github.com/icw-wallet/icw/internal/dfx"
	"github.com/icw-wallet/icw/internal/log"
	"github.com/icw-wallet/icw/internal/price"
	"github.com/icw-wallet/icw/internal/wallet"
	"github.com/icw-wallet/icw/internal/webui"
)

const version = "1.0.0"

func main() {
	globals := flag.NewFlagSet("icw", flag.ExitOnError)
	globals.SetInterspersed(false)
	globals.Usage = usage

	var (
		network     = globals.StringP("network", "n", "", "dfx network (ic or local)")
		token       = globals.StringP("token", "t", "", "token registry key")
		configPath  = globals.String("config", "", "config file (default ~/.icw/icw.conf)")
		logLevel    = globals.String("log-level", "", "log level (debug, info, warn, error)")
		logJSON     = globals.Bool("log-json", false, "emit logs as JSON")
		showVersion = globals.BoolP("version", "v", false, "print version and exit")
	)
	if err := globals.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if *showVersion {
		fmt.Printf("icw %s\n", version)
		return
	}

	cfg := config.Default()
	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if path != "" {
		values, err := config.LoadFile(path)
		if err != nil {
			fatal(err)
		}
		if err := config.ApplyFileConfig(cfg, values); err != nil {
			fatal(err)
		}
	}

	// Flags win over file values.
	if *network != "" {
		cfg.Network = *network
	}
	if *token != "" {
		cfg.Token = *token
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logJSON {
		cfg.Log.JSON = true
	}
	log.Init(cfg.Log.Level, cfg.Log.JSON)

	args := globals.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "balance", "b":
		cmdBalance(cfg, cmdArgs)
	case "transfer", "t":
		cmdTransfer(cfg, cmdArgs)
	case "mint", "m":
		cmdMint(cfg, cmdArgs)
	case "info", "i":
		cmdInfo(cfg, cmdArgs)
	case "id":
		cmdID(cfg, cmdArgs)
	case "ui":
		cmdUI(cfg, cmdArgs)
	case "install-launcher":
		cmdInstallLauncher()
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: icw [global flags] <command> [flags]

Global flags:
  -n, --network <net>    dfx network: ic (default) or local
  -t, --token <key>      token: %v (default: ckbtc)
      --config <path>    config file (default: ~/.icw/icw.conf)
      --log-level <lvl>  debug, info, warn (default), error
      --log-json         emit logs as JSON
  -v, --version          print version

Commands:
  balance (b)                     Show balance of the active identity
    -p, --principal <id>          Query another principal
    -s, --subaccount <sub>        Subaccount: index, 64-char hex, or text
    -l, --ledger <canister>       Override ledger canister ID
    -i, --identity <name>         Switch dfx identity for this call

  transfer (t) <recipient> <amount>
                                  Transfer tokens
    -s, --subaccount <sub>        Destination subaccount
    -f, --from-subaccount <sub>   Source subaccount
    -m, --memo <memo>             Memo, hex or text, max 32 bytes
        --fee <base-units>        Override the transfer fee
    -l, --ledger <canister>       Override ledger canister ID
    -i, --identity <name>         Switch dfx identity for this call

  mint (m) <amount>               Mint on a permissive test ledger
    -r, --recipient <principal>   Recipient (default: self)
    -s, --subaccount <sub>        Recipient subaccount
    -l, --ledger <canister>       Override ledger canister ID

  info (i)                        Show token metadata and price
  id [whoami|list|use|new] [name] Manage dfx identities

  ui                              Launch the local web UI
    -p, --port <port>             Listen port (default: 5555)
        --no-browser              Do not open a browser
        --<token>-ledger <id>     Per-token ledger override (e.g. --ckbtc-ledger)

  install-launcher                Install a desktop launcher (Linux)
`, config.TokenKeys())
}

// newService validates the configuration, checks dfx, and wires the
// wallet service.
func newService(cfg *config.Config) *wallet.Service {
	if err := config.Validate(cfg); err != nil {
		fatal(err)
	}
	if err := dfx.EnsureInstalled(); err != nil {
		fatal(err)
	}
	return wallet.New(cfg, dfx.New(cfg.Network), price.New())
}

// emit prints the command's single JSON document to stdout.
func emit(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// ── balance ─────────────────────────────────────────────────────────────

func cmdBalance(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	principal := fs.StringP("principal", "p", "", "principal to query")
	subaccount := fs.StringP("subaccount", "s", "", "subaccount (index, hex, or text)")
	ledger := fs.StringP("ledger", "l", "", "ledger canister ID override")
	identity := fs.StringP("identity", "i", "", "dfx identity to use")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *ledger != "" {
		cfg.Ledger = *ledger
	}
	if *identity != "" {
		cfg.Identity = *identity
	}

	svc := newService(cfg)
	res, err := svc.Balance(context.Background(), wallet.BalanceOptions{
		Principal:  *principal,
		Subaccount: *subaccount,
	})
	if err != nil {
		fatal(err)
	}
	emit(res)
}

// ── transfer ────────────────────────────────────────────────────────────

func cmdTransfer(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	subaccount := fs.StringP("subaccount", "s", "", "destination subaccount")
	fromSubaccount := fs.StringP("from-subaccount", "f", "", "source subaccount")
	memo := fs.StringP("memo", "m", "", "memo (hex or text, max 32 bytes)")
	fee := fs.String("fee", "", "transfer fee override in base units")
	ledger := fs.StringP("ledger", "l", "", "ledger canister ID override")
	identity := fs.StringP("identity", "i", "", "dfx identity to use")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	rest := fs.Args()
	if len(rest) != 2 {
		fatal(fmt.Errorf("usage: icw transfer <recipient> <amount>"))
	}

	if *ledger != "" {
		cfg.Ledger = *ledger
	}
	if *identity != "" {
		cfg.Identity = *identity
	}
	if *fee != "" {
		f, ok := new(big.Int).SetString(*fee, 10)
		if !ok {
			fatal(fmt.Errorf("invalid fee %q: expected an integer in base units", *fee))
		}
		cfg.Fee = f
	}

	svc := newService(cfg)
	res, err := svc.Transfer(context.Background(), wallet.TransferOptions{
		Recipient:      rest[0],
		Amount:         rest[1],
		Subaccount:     *subaccount,
		FromSubaccount: *fromSubaccount,
		Memo:           *memo,
	})
	if err != nil {
		fatal(err)
	}
	emit(res)
	if !res.Ok {
		os.Exit(1)
	}
}

// ── mint ────────────────────────────────────────────────────────────────

func cmdMint(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	recipient := fs.StringP("recipient", "r", "", "recipient principal (default: self)")
	subaccount := fs.StringP("subaccount", "s", "", "recipient subaccount")
	ledger := fs.StringP("ledger", "l", "", "ledger canister ID override")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fatal(fmt.Errorf("usage: icw mint <amount>"))
	}
	if *ledger != "" {
		cfg.Ledger = *ledger
	}

	svc := newService(cfg)
	res, err := svc.Mint(context.Background(), wallet.MintOptions{
		Recipient:  *recipient,
		Subaccount: *subaccount,
		Amount:     rest[0],
	})
	if err != nil {
		fatal(err)
	}
	emit(res)
	if !res.Ok {
		os.Exit(1)
	}
}

// ── info ────────────────────────────────────────────────────────────────

func cmdInfo(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	ledger := fs.StringP("ledger", "l", "", "ledger canister ID override")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *ledger != "" {
		cfg.Ledger = *ledger
	}

	svc := newService(cfg)
	res, err := svc.Info(context.Background(), "")
	if err != nil {
		fatal(err)
	}
	emit(res)
}

// ── id ──────────────────────────────────────────────────────────────────

func cmdID(cfg *config.Config, args []string) {
	action := "whoami"
	name := ""
	if len(args) > 0 {
		action = args[0]
	}
	if len(args) > 1 {
		name = args[1]
	}

	svc := newService(cfg)
	ctx := context.Background()

	switch action {
	case "whoami":
		identity, principal, err := svc.Whoami(ctx)
		if err != nil {
			fatal(err)
		}
		emit(map[string]string{"identity": identity, "principal": principal})

	case "list":
		ids, current, err := svc.Identities(ctx)
		if err != nil {
			fatal(err)
		}
		emit(map[string]interface{}{"identities": ids, "current": current})

	case "use":
		if name == "" {
			fatal(fmt.Errorf("usage: icw id use <name>"))
		}
		principal, err := svc.UseIdentity(ctx, name)
		if err != nil {
			fatal(err)
		}
		emit(map[string]string{"switched": name, "principal": principal})

	case "new":
		if name == "" {
			fatal(fmt.Errorf("usage: icw id new <name>"))
		}
		if err := svc.NewIdentity(ctx, name); err != nil {
			fatal(err)
		}
		emit(map[string]interface{}{"created": name})

	default:
		fatal(fmt.Errorf("unknown id action %q (expected whoami, list, use, or new)", action))
	}
}

// ── ui ──────────────────────────────────────────────────────────────────

func cmdUI(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("ui", flag.ExitOnError)
	port := fs.IntP("port", "p", cfg.UI.Port, "port to listen on")
	noBrowser := fs.Bool("no-browser", false, "do not open a browser")

	// Per-token ledger overrides for local test deployments.
	overrides := make(map[string]*string, len(config.TokenKeys()))
	for _, key := range config.TokenKeys() {
		overrides[key] = fs.String(key+"-ledger", "", key+" ledger canister ID override")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg.UI.Port = *port
	if *noBrowser {
		cfg.UI.OpenBrowser = false
	}
	for key, id := range overrides {
		if *id != "" {
			if cfg.Ledgers == nil {
				cfg.Ledgers = make(map[string]string)
			}
			cfg.Ledgers[key] = *id
		}
	}

	svc := newService(cfg)
	server := webui.New(cfg, svc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	url := "http://" + server.Addr()
	fmt.Fprintf(os.Stderr, "ICW web UI on %s (Ctrl+C to stop)\n", url)
	if cfg.UI.OpenBrowser {
		time.Sleep(300 * time.Millisecond)
		if err := openBrowser(url); err != nil {
			log.Warn().Err(err).Msg("could not open browser")
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			fatal(err)
		}
	case <-sig:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			fatal(err)
		}
	}
}

// openBrowser opens url with the platform's default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
