// The portal CLI: a thin front over the client SDK, mostly useful for
// exercising offline mode and poking a running mock API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/Chaturved5/estate-portal/internal/config"
	"github.com/Chaturved5/estate-portal/internal/dashboard"
	"github.com/Chaturved5/estate-portal/internal/gateway"
	"github.com/Chaturved5/estate-portal/internal/marketplace"
	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/notify"
	"github.com/Chaturved5/estate-portal/internal/session"
	"github.com/Chaturved5/estate-portal/internal/store"
	"github.com/Chaturved5/estate-portal/internal/theme"
)

type app struct {
	cfg     config.Config
	session *session.Container
	market  *marketplace.Container
	feed    *notify.Container
	themes  *theme.Manager
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}
	cfg := config.Load()

	st := store.New(cfg.StateDir)
	gw := gateway.New(cfg.APIBaseURL)
	a := &app{
		cfg:     cfg,
		session: session.NewContainer(gw, st),
		market:  marketplace.NewContainer(gw, st),
		feed:    notify.NewContainer(st, ""), // push channel is for long-lived processes, not one-shot commands
		themes:  theme.NewManager(st),
	}
	ctx := context.Background()
	a.session.Hydrate(ctx)
	a.market.Hydrate(ctx)
	a.feed.Hydrate()
	defer a.market.Close()
	defer a.feed.Close()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "login":
		err = a.login(ctx, os.Args[2:])
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("logged out")
	case "whoami":
		err = a.whoami()
	case "search":
		err = a.search(os.Args[2:])
	case "book":
		err = a.book(ctx, os.Args[2:])
	case "notifications":
		err = a.notifications(os.Args[2:])
	case "dashboard":
		err = a.dashboard()
	case "theme":
		err = a.theme(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
	for _, adv := range a.market.Advisories() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", adv)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: portal <command> [flags]

commands:
  login          -email -password
  logout
  whoami
  search         -city -type -bedrooms -min-cr -max-cr
  book           -property -type -deposit
  notifications  [-mark-all]
  dashboard
  theme          [-set light|dark] [-reset]`)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", user.Name, user.Role)
	return nil
}

// shortID abbreviates UUIDs for table output; server-assigned IDs may be
// shorter than the abbreviation and pass through whole.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (a *app) whoami() error {
	u := a.session.User()
	if u == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", u.Name, u.Email, u.Role)
	return nil
}

func (a *app) search(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	city := fs.String("city", "", "city substring")
	typ := fs.String("type", "", "apartment, villa, plot or commercial")
	bedrooms := fs.Int("bedrooms", 0, "minimum bedrooms")
	minCr := fs.Float64("min-cr", -1, "minimum price in Crore")
	maxCr := fs.Float64("max-cr", -1, "maximum price in Crore")
	fs.Parse(args)

	q := marketplace.SearchQuery{City: *city, Type: *typ, MinBedrooms: *bedrooms}
	if *minCr >= 0 {
		q.MinPriceCr = minCr
	}
	if *maxCr >= 0 {
		q.MaxPriceCr = maxCr
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCITY\tTYPE\tPRICE (CR)\tRATING")
	for _, p := range a.market.SearchProperties(q) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.1f\n",
			shortID(p.ID), p.Title, p.City, p.Type, p.Price/marketplace.CroreUnit, p.Rating)
	}
	return w.Flush()
}

func (a *app) book(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	propertyID := fs.String("property", "", "listing id")
	typ := fs.String("type", models.BookingTypeVisit, "rental or visit")
	deposit := fs.Bool("deposit", false, "collect the default deposit")
	fs.Parse(args)

	u := a.session.User()
	if u == nil {
		return session.ErrNoActiveSession
	}
	b, err := a.market.CreateBooking(ctx, marketplace.BookingInput{
		PropertyID:     *propertyID,
		UserID:         u.ID,
		BookingType:    *typ,
		CollectDeposit: *deposit,
	})
	if err != nil {
		return err
	}
	fmt.Printf("booking %s status=%s amount=%.0f\n", shortID(b.ID), b.Status, b.Amount)
	return nil
}

func (a *app) notifications(args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ExitOnError)
	markAll := fs.Bool("mark-all", false, "mark everything for your role as read")
	fs.Parse(args)

	role := models.Role("")
	if u := a.session.User(); u != nil {
		role = u.Role
	}
	if *markAll {
		a.feed.MarkAllAsRead(role)
	}
	for _, n := range a.feed.Notifications(role) {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s: %s\n", marker, n.Title, n.Message)
	}
	return nil
}

func (a *app) dashboard() error {
	u := a.session.User()
	if u == nil {
		return session.ErrNoActiveSession
	}
	snap := dashboard.Snapshot{
		Properties: a.market.Properties(),
		Bookings:   a.market.Bookings(),
		Payments:   a.market.Payments(),
	}
	switch u.Role {
	case models.RoleOwner:
		s := dashboard.ForOwner(snap, u.ID)
		fmt.Printf("listings=%d active bookings=%d revenue=%.0f occupancy=%.2f\n",
			s.Listings, s.ActiveBookings, s.Revenue, s.Occupancy)
	case models.RoleAgent:
		s := dashboard.ForAgent(snap, u.ID)
		fmt.Printf("listings=%d bookings=%d commission=%.0f\n", s.Listings, s.Bookings, s.Commission)
	case models.RoleBuyer:
		s := dashboard.ForBuyer(snap, u.ID)
		fmt.Printf("bookings=%d upcoming visits=%d spent=%.0f\n", s.Bookings, s.UpcomingVisits, s.TotalSpent)
	case models.RoleAdmin:
		s := dashboard.ForAdmin(snap)
		fmt.Printf("listings=%d bookings=%d payments=%d captured=%.0f pending=%.0f\n",
			s.Listings, s.Bookings, s.Payments, s.CapturedRevenue, s.PendingRevenue)
	}
	return nil
}

func (a *app) theme(args []string) error {
	fs := flag.NewFlagSet("theme", flag.ExitOnError)
	set := fs.String("set", "", "light or dark")
	reset := fs.Bool("reset", false, "follow the OS signal again")
	fs.Parse(args)

	switch {
	case *reset:
		a.themes.Reset()
	case *set != "":
		a.themes.Set(*set)
	}
	fmt.Println(a.themes.Current())
	return nil
}
