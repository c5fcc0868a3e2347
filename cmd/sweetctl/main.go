// cmd/sweetctl/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/candyline/sweetshop/internal/adapters/api"
	"github.com/candyline/sweetshop/internal/adapters/session"
	"github.com/candyline/sweetshop/internal/core/domain"
	"github.com/candyline/sweetshop/internal/core/ports"
	"github.com/candyline/sweetshop/internal/core/services"
	"github.com/candyline/sweetshop/internal/pkg/config"
	"github.com/candyline/sweetshop/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("info", "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	a, err := newApp(cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ctrl-C abandons any in-flight request.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "sweetctl: %v\n", err)
		os.Exit(1)
	}
}

// app wires the adapters and services behind the subcommands
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     ports.SessionStore
	auth      *services.Auth
	catalog   ports.CatalogClient
	dashboard *services.Dashboard
	out       io.Writer
	in        *bufio.Reader
}

func newApp(cfg *config.Config, slogger *slog.Logger) (*app, error) {
	store, err := session.NewStore(cfg.Session.Dir, slogger)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	client := api.NewClient(api.Config{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		RateLimitRPS:    cfg.API.RateLimitRPS,
		RateLimitBurst:  cfg.API.RateLimitBurst,
		RequestIDHeader: cfg.API.RequestIDHeader,
	}, func() string {
		sess, err := store.Load()
		if err != nil || sess == nil {
			return ""
		}
		return sess.Token
	}, func() {
		// 401 anywhere tears the whole session down
		_ = store.Clear()
	}, slogger)

	catalog := api.NewCatalogClient(client)
	return &app{
		cfg:     cfg,
		logger:  slogger,
		store:   store,
		auth:    services.NewAuth(api.NewAuthClient(client), store, slogger),
		catalog: catalog,
		dashboard: services.NewDashboard(catalog, slogger,
			services.WithNoticeTTL(cfg.UI.NoticeTTL)),
		out: os.Stdout,
		in:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.cmdRegister(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoami()
	case "list":
		return a.cmdList(ctx)
	case "search":
		return a.cmdSearch(ctx, args)
	case "purchase":
		return a.cmdPurchase(ctx, args)
	case "create":
		return a.cmdCreate(ctx, args)
	case "update":
		return a.cmdUpdate(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	case "restock":
		return a.cmdRestock(ctx, args)
	case "version":
		fmt.Fprintf(a.out, "sweetctl %s (built %s)\n", Version, BuildTime)
		return nil
	default:
		usage(os.Stderr)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "Username for the new account")
	email := fs.String("email", "", "Email for the new account")
	password := fs.String("password", "", "Password for the new account")
	fs.Parse(args)

	sess, err := a.auth.Register(ctx, *username, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", sess.User.Username)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password")
	fs.Parse(args)

	sess, err := a.auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	role := ""
	if sess.User.IsAdmin {
		role = " (admin)"
	}
	fmt.Fprintf(a.out, "Welcome, %s!%s\n", sess.User.Username, role)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) cmdWhoami() error {
	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	role := "user"
	if sess.User.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", sess.User.Username, sess.User.Email, role)
	return nil
}

func (a *app) cmdList(ctx context.Context) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	if err := a.dashboard.Load(ctx); err != nil {
		return fmt.Errorf("%s", a.dashboard.LastError())
	}
	a.renderSweets(a.dashboard.Visible())
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	name := fs.String("name", "", "Name substring")
	category := fs.String("category", "", "Category substring")
	minPrice := fs.String("min-price", "", "Minimum price (inclusive)")
	maxPrice := fs.String("max-price", "", "Maximum price (inclusive)")
	fs.Parse(args)

	if _, err := a.requireSession(); err != nil {
		return err
	}

	criteria := domain.FilterCriteria{Name: *name, Category: *category}
	var err error
	if criteria.MinPrice, err = parsePrice(*minPrice, "min-price"); err != nil {
		return err
	}
	if criteria.MaxPrice, err = parsePrice(*maxPrice, "max-price"); err != nil {
		return err
	}

	if err := a.dashboard.Load(ctx); err != nil {
		return fmt.Errorf("%s", a.dashboard.LastError())
	}
	if err := a.dashboard.SetFilter(ctx, criteria); err != nil {
		a.printNotices()
		return err
	}
	a.renderSweets(a.dashboard.Visible())
	return nil
}

func (a *app) cmdPurchase(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("purchase", flag.ExitOnError)
	id := fs.Int64("id", 0, "Sweet id")
	fs.Parse(args)

	if _, err := a.requireSession(); err != nil {
		return err
	}
	err := a.dashboard.Purchase(ctx, *id)
	a.printNotices()
	return err
}

func (a *app) cmdCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "Sweet name")
	category := fs.String("category", "", "Sweet category")
	price := fs.String("price", "", "Price")
	quantity := fs.String("quantity", "", "Stock quantity")
	fs.Parse(args)

	if err := a.requireAdmin(); err != nil {
		return err
	}

	form := services.NewCreateForm(a.catalog)
	form.Name = *name
	form.Category = *category
	form.Price = *price
	form.Quantity = *quantity

	err := a.dashboard.Save(ctx, form)
	a.printNotices()
	return err
}

func (a *app) cmdUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.Int64("id", 0, "Sweet id")
	name := fs.String("name", "", "Sweet name")
	category := fs.String("category", "", "Sweet category")
	price := fs.String("price", "", "Price")
	quantity := fs.String("quantity", "", "Stock quantity")
	fs.Parse(args)

	if err := a.requireAdmin(); err != nil {
		return err
	}

	if err := a.dashboard.Load(ctx); err != nil {
		return fmt.Errorf("%s", a.dashboard.LastError())
	}
	sweet, ok := findSweet(a.dashboard.Catalog(), *id)
	if !ok {
		return fmt.Errorf("sweet %d not found", *id)
	}

	// Pre-populate from the existing item, then apply only the provided flags.
	form := services.NewEditForm(a.catalog, sweet)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			form.Name = *name
		case "category":
			form.Category = *category
		case "price":
			form.Price = *price
		case "quantity":
			form.Quantity = *quantity
		}
	})

	err := a.dashboard.Save(ctx, form)
	a.printNotices()
	return err
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "Sweet id")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if err := a.requireAdmin(); err != nil {
		return err
	}

	confirm := func() bool {
		if *yes || !a.cfg.UI.ConfirmDeletes {
			return true
		}
		fmt.Fprint(a.out, "Are you sure you want to delete this sweet? [y/N]: ")
		answer, err := a.in.ReadString('\n')
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}

	err := a.dashboard.Delete(ctx, *id, confirm)
	a.printNotices()
	return err
}

func (a *app) cmdRestock(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restock", flag.ExitOnError)
	id := fs.Int64("id", 0, "Sweet id")
	quantity := fs.Int("quantity", 0, "Amount to add to stock")
	fs.Parse(args)

	if err := a.requireAdmin(); err != nil {
		return err
	}

	err := a.dashboard.Restock(ctx, *id, *quantity)
	a.printNotices()
	return err
}

func (a *app) requireSession() (*domain.Session, error) {
	sess, err := a.auth.Current()
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("not logged in; run 'sweetctl login' first")
	}
	return sess, nil
}

func (a *app) requireAdmin() error {
	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	if !sess.User.IsAdmin {
		return fmt.Errorf("this command requires an admin session")
	}
	return nil
}

func parsePrice(value, name string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s %q: must be a number", name, value)
	}
	return &d, nil
}

func findSweet(items []domain.Sweet, id int64) (domain.Sweet, bool) {
	for _, s := range items {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Sweet{}, false
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `Usage: sweetctl <command> [flags]

Commands:
  register   Create an account (-username -email -password)
  login      Log in (-username -password)
  logout     Log out and clear the stored session
  whoami     Show the current session
  list       Show the full catalog
  search     Filter the catalog (-name -category -min-price -max-price)
  purchase   Buy one unit of a sweet (-id)
  create     Add a sweet, admin only (-name -category -price -quantity)
  update     Edit a sweet, admin only (-id plus fields to change)
  delete     Remove a sweet, admin only (-id, -yes to skip confirmation)
  restock    Add stock, admin only (-id -quantity)
  version    Show build information`)
}
