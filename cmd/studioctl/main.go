package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"studio/pkg/client"
)

// APIをコマンドラインから叩く運用ツール。
// 例:
//
//	studioctl -base http://localhost:8080 services
//	studioctl register -username bob -email bob@example.com -password secret123
//	studioctl -identifier bob -password secret123 cart-add -service 3 -qty 2
func main() {
	base := flag.String("base", envOr("STUDIO_API_URL", "http://localhost:8080"), "API base URL")
	identifier := flag.String("identifier", os.Getenv("STUDIO_IDENTIFIER"), "username or email for login")
	password := flag.String("password", os.Getenv("STUDIO_PASSWORD"), "password for login")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := client.New(*base)
	if err != nil {
		fatal(err)
	}
	if err := c.FetchCSRF(ctx); err != nil {
		fatal(err)
	}

	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	//ログインが要るコマンドは先にログイン
	switch cmd {
	case "cart", "cart-add", "cart-clear", "orders", "order-create", "order-cancel", "messages", "profile":
		if *identifier == "" || *password == "" {
			fatal(fmt.Errorf("-identifier and -password are required for %q", cmd))
		}
		if _, err := c.Login(ctx, *identifier, *password); err != nil {
			fatal(err)
		}
	}

	if err := run(ctx, c, cmd, args); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		fs.Parse(args)
		if *username == "" || *email == "" || *password == "" {
			fs.PrintDefaults()
			return fmt.Errorf("username, email and password are required")
		}
		p, err := c.Register(ctx, client.RegisterInput{
			Username: *username, Email: *email, Password: *password,
		})
		if err != nil {
			return err
		}
		fmt.Printf("registered user %q (id=%d)\n", p.Username, p.ID)
		return nil

	case "services":
		fs := flag.NewFlagSet("services", flag.ExitOnError)
		q := fs.String("q", "", "search text")
		page := fs.Int("page", 1, "page")
		fs.Parse(args)
		list, err := c.ListServices(ctx, client.ServiceListOptions{Page: *page, Q: *q})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tHOURS")
		for _, s := range list.Results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", s.ID, s.Name, s.Price.StringFixed(2), s.DurationHours)
		}
		w.Flush()
		fmt.Printf("total: %d\n", list.Count)
		return nil

	case "executors":
		fs := flag.NewFlagSet("executors", flag.ExitOnError)
		q := fs.String("q", "", "search text")
		page := fs.Int("page", 1, "page")
		fs.Parse(args)
		list, err := c.ListExecutors(ctx, *page, 0, *q)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tSPECIALIZATION\tYEARS\tRATING")
		for _, e := range list.Results {
			rating := "-"
			if e.AverageRating != nil {
				rating = fmt.Sprintf("%.1f", *e.AverageRating)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", e.ID, e.Username, e.Specialization, e.ExperienceYears, rating)
		}
		w.Flush()
		return nil

	case "news":
		list, err := c.ListNews(ctx, 1, 0)
		if err != nil {
			return err
		}
		for _, n := range list.Results {
			fmt.Printf("[%d] %s (%s)\n", n.ID, n.Title, n.PublishedAt.Format("2006-01-02"))
		}
		return nil

	case "cart":
		cart, err := c.GetCart(ctx)
		if err != nil {
			return err
		}
		printCart(cart)
		return nil

	case "cart-add":
		fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
		serviceID := fs.Int64("service", 0, "service id")
		qty := fs.Int64("qty", 1, "quantity")
		fs.Parse(args)
		if *serviceID <= 0 {
			return fmt.Errorf("-service is required")
		}
		cart, err := c.AddToCart(ctx, *serviceID, *qty)
		if err != nil {
			return err
		}
		printCart(cart)
		return nil

	case "cart-clear":
		cart, err := c.ClearCart(ctx)
		if err != nil {
			return err
		}
		printCart(cart)
		return nil

	case "orders":
		fs := flag.NewFlagSet("orders", flag.ExitOnError)
		status := fs.String("status", "", "status code filter")
		fs.Parse(args)
		list, err := c.ListOrders(ctx, 1, 0, *status)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSERVICE\tSTATUS\tSCHEDULED")
		for _, o := range list.Results {
			name := "-"
			if o.Service != nil {
				name = o.Service.Name
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, name, o.Status.Code, o.ScheduledAt.Format(time.RFC3339))
		}
		w.Flush()
		return nil

	case "order-create":
		fs := flag.NewFlagSet("order-create", flag.ExitOnError)
		serviceID := fs.Int64("service", 0, "service id")
		executorID := fs.Int64("executor", 0, "executor id (optional)")
		fs.Parse(args)
		if *serviceID <= 0 {
			return fmt.Errorf("-service is required")
		}
		in := client.CreateOrderInput{ServiceID: *serviceID}
		if *executorID > 0 {
			in.ExecutorID = executorID
		}
		o, err := c.CreateOrder(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("order %d created, status=%s, scheduled=%s\n", o.ID, o.Status.Code, o.ScheduledAt.Format(time.RFC3339))
		return nil

	case "order-cancel":
		fs := flag.NewFlagSet("order-cancel", flag.ExitOnError)
		id := fs.Int64("id", 0, "order id")
		fs.Parse(args)
		if *id <= 0 {
			return fmt.Errorf("-id is required")
		}
		o, err := c.CancelOrder(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("order %d is now %s\n", o.ID, o.Status.Code)
		return nil

	case "messages":
		list, err := c.ListMessages(ctx, 1, 0, false)
		if err != nil {
			return err
		}
		for _, m := range list.Results {
			from := "-"
			if m.Sender != nil {
				from = m.Sender.Username
			}
			read := " "
			if !m.IsRead {
				read = "*"
			}
			fmt.Printf("%s[%d] %s: %s\n", read, m.ID, from, m.Content)
		}
		return nil

	case "profile":
		p, err := c.GetProfile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("id=%d username=%s email=%s role=%s\n", p.ID, p.Username, p.Email, p.Role)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printCart(cart client.Cart) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tSERVICE\tQTY\tCOST")
	for _, it := range cart.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", it.ID, it.Service.Name, it.Quantity, it.Cost.StringFixed(2))
	}
	w.Flush()
	fmt.Printf("total: %s (%d items, %d positions)\n",
		cart.TotalCost.StringFixed(2), cart.TotalItemsCount, cart.TotalPositionsCount)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: studioctl [-base URL] [-identifier ID -password PW] <command> [args]

commands:
  register      -username -email -password
  services      [-q text] [-page n]
  executors     [-q text] [-page n]
  news
  cart
  cart-add      -service id [-qty n]
  cart-clear
  orders        [-status code]
  order-create  -service id [-executor id]
  order-cancel  -id n
  messages
  profile`)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
