package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/storefront/internal/api"
	"github.com/erp/storefront/internal/cache"
	"github.com/erp/storefront/internal/config"
	"github.com/erp/storefront/internal/logger"
	"github.com/erp/storefront/internal/rest"
	"github.com/erp/storefront/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const usage = `storefront - terminal front end for the store backend

Usage:
  storefront products [search]     browse the catalog
  storefront product <id>          show one product (cached)
  storefront cart                  show the current cart
  storefront orders [status]      list orders
  storefront notifications        list notifications
  storefront providers            list suppliers
  storefront warehouses           list warehouses
  storefront login <token>        store a bearer token
  storefront logout               clear the stored token
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens := api.NewFileTokenStore(cfg.API.TokenFile)

	switch os.Args[1] {
	case "login":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		if err := tokens.SetToken(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "storing token: %v\n", err)
			os.Exit(1)
		}
		if exp, ok := api.TokenExpiry(os.Args[2]); ok {
			fmt.Printf("token stored, expires %s\n", exp.Format(time.RFC3339))
		} else {
			fmt.Println("token stored")
		}
		return
	case "logout":
		if err := tokens.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "clearing token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("token cleared")
		return
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithTokenStore(tokens),
		api.WithLogger(log),
		api.WithMetrics(api.NewMetrics(prometheus.NewRegistry())),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(1)
	}

	app := &app{cfg: cfg, log: log, client: client}
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", api.ErrorMessage(err))
		log.Debug("command failed", zap.Error(err))
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	log    *zap.Logger
	client *api.Client
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "products":
		return a.products(ctx, args)
	case "product":
		if len(args) < 1 {
			return fmt.Errorf("product id is required")
		}
		return a.product(ctx, args[0])
	case "cart":
		return a.cart(ctx)
	case "orders":
		return a.orders(ctx, args)
	case "notifications":
		return a.notifications(ctx)
	case "providers":
		return a.providers(ctx)
	case "warehouses":
		return a.warehouses(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) products(ctx context.Context, args []string) error {
	svc := rest.NewProductService(a.client)
	q := rest.ProductQuery{Page: 1, PageSize: a.cfg.API.PageSize}
	if len(args) > 0 {
		q.Search = args[0]
	}
	page, err := svc.List(ctx, q)
	if err != nil {
		return err
	}
	for _, p := range page.Items {
		fmt.Printf("%-36s  %-30s  %s\n", p.ID, p.Name, p.Price.StringFixed(2))
	}
	fmt.Printf("page %d/%d (%d items)\n",
		page.PageInfo.CurrentPage, page.PageInfo.TotalPages, page.PageInfo.TotalCount)
	return nil
}

func (a *app) product(ctx context.Context, id string) error {
	detailCache, err := a.buildCache()
	if err != nil {
		return err
	}
	defer func() { _ = detailCache.Close() }()

	detail := store.NewProductDetail(rest.NewProductService(a.client), detailCache,
		store.WithDetailTTL(a.cfg.Cache.TTL),
		store.WithDetailLogger(a.log))
	defer detail.Close()

	detail.SetID(ctx, id)
	snapshot := waitFor(ctx, detail.Snapshot, func(s store.ProductSnapshot) bool { return !s.Loading })
	if snapshot.Err != "" {
		return fmt.Errorf("%s", snapshot.Err)
	}
	p := snapshot.Product
	if p == nil {
		return fmt.Errorf("product not found")
	}

	fmt.Printf("%s\n%s\n", p.Name, p.Description)
	if snapshot.Derived.HasVariations {
		fmt.Printf("price: %s - %s (%d variations)\n",
			snapshot.Derived.MinPrice.StringFixed(2),
			snapshot.Derived.MaxPrice.StringFixed(2),
			len(p.Variations))
	} else {
		fmt.Printf("price: %s\n", p.Price.StringFixed(2))
	}
	for _, img := range snapshot.Derived.Images {
		fmt.Printf("image: %s\n", img)
	}
	return nil
}

func (a *app) cart(ctx context.Context) error {
	cartStore := store.NewCart(rest.NewCartService(a.client), a.log)
	if err := cartStore.Load(ctx); err != nil {
		return err
	}
	snapshot := cartStore.Snapshot()
	if snapshot.Cart == nil || len(snapshot.Cart.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, item := range snapshot.Cart.Items {
		fmt.Printf("%dx %-30s  %s\n", item.Quantity, item.Name, item.Price.StringFixed(2))
	}
	fmt.Printf("subtotal %s  discount %s  total %s\n",
		snapshot.Cart.Subtotal.StringFixed(2),
		snapshot.Cart.Discount.StringFixed(2),
		snapshot.Cart.Total.StringFixed(2))
	return nil
}

func (a *app) orders(ctx context.Context, args []string) error {
	svc := rest.NewOrderService(a.client)
	q := rest.OrderQuery{Page: 1, PageSize: a.cfg.API.PageSize}
	if len(args) > 0 {
		q.Status = rest.OrderStatus(args[0])
	}
	page, err := svc.List(ctx, q)
	if err != nil {
		return err
	}
	for _, o := range page.Items {
		fmt.Printf("%-36s  %-10s  %8s  %s\n",
			o.ID, o.Status, o.Total.StringFixed(2), o.CreatedAt.Format("2006-01-02"))
	}
	fmt.Printf("page %d/%d (%d orders)\n",
		page.PageInfo.CurrentPage, page.PageInfo.TotalPages, page.PageInfo.TotalCount)
	return nil
}

func (a *app) notifications(ctx context.Context) error {
	svc := rest.NewNotificationService(a.client)
	page, err := svc.List(ctx, rest.NotificationQuery{Page: 1, PageSize: a.cfg.API.PageSize})
	if err != nil {
		return err
	}
	for _, n := range page.Items {
		marker := " "
		if n.Draft {
			marker = "d"
		}
		fmt.Printf("[%s] %-36s  %s\n", marker, n.ID, n.Title)
	}
	return nil
}

func (a *app) providers(ctx context.Context) error {
	providers, err := rest.NewProviderService(a.client).List(ctx)
	if err != nil {
		return err
	}
	for _, p := range providers {
		fmt.Printf("%-36s  %-30s  %s\n", p.ID, p.Name, p.Phone)
	}
	return nil
}

func (a *app) warehouses(ctx context.Context) error {
	warehouses, err := rest.NewWarehouseService(a.client).List(ctx)
	if err != nil {
		return err
	}
	for _, w := range warehouses {
		fmt.Printf("%-36s  %-30s  %s\n", w.ID, w.Name, w.Location)
	}
	return nil
}

// buildCache constructs the detail cache named by configuration.
func (a *app) buildCache() (cache.Cache, error) {
	switch a.cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.RedisAddr(),
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		return cache.NewRedisCache(client,
			cache.WithRedisDefaultTTL(a.cfg.Cache.TTL),
			cache.WithRedisLogger(a.log)), nil
	default:
		return cache.NewMemoryCache(
			cache.WithDefaultTTL(a.cfg.Cache.TTL),
			cache.WithLogger(a.log)), nil
	}
}

// waitFor polls a snapshot until done reports completion or the context
// ends.
func waitFor[S any](ctx context.Context, snapshot func() S, done func(S) bool) S {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		s := snapshot()
		if done(s) {
			return s
		}
		select {
		case <-ctx.Done():
			return s
		case <-ticker.C:
		}
	}
}
