package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/marketdesk/internal/client/client"
	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
	"github.com/dmitrijs2005/marketdesk/internal/client/services"
	"github.com/dmitrijs2005/marketdesk/internal/common"
)

var (
	errNoDashboard   = errors.New("no dashboard is open, use 'dashboard' first")
	errUnknownVendor = errors.New("unknown vendor, list them with 'vendors' first")
)

func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "login", help: "sign in with email and password", run: a.login},
		{name: "logout", usage: "logout", help: "sign out and forget dashboard preferences", run: a.logout},
		{name: "whoami", usage: "whoami", help: "show the signed-in account", run: a.whoami},
		{name: "ping", usage: "ping", help: "check that the API is reachable", run: a.ping},
		{name: "dashboard", usage: "dashboard [customer|vendor|admin]", help: "open a dashboard", run: a.dashboard},
		{name: "tab", usage: "tab <name>", help: "switch the dashboard tab", run: a.tab},
		{name: "sidebar", usage: "sidebar", help: "toggle the dashboard sidebar", run: a.sidebar},
		{name: "profile", usage: "profile", help: "show your profile", run: a.profile},
		{name: "edit", usage: "edit <firstName|lastName|email|phone> <value>", help: "change a profile field", run: a.edit},
		{name: "save", usage: "save", help: "submit profile changes", run: a.save},
		{name: "cancel", usage: "cancel", help: "discard profile changes", run: a.cancel},
		{name: "upload", usage: "upload <path> [documentTypeId] [category] [productId]", help: "upload a picture", run: a.upload},
		{name: "products", usage: "products [page]", help: "browse the catalog", run: a.productsCmd},
		{name: "product", usage: "product <id>", help: "show one product", run: a.product},
		{name: "vendors", usage: "vendors [page]", help: "list vendor applications (admin)", run: a.vendorsCmd},
		{name: "orders", usage: "orders [page]", help: "list your orders", run: a.orders},
		{name: "addresses", usage: "addresses [page]", help: "list your addresses (customer)", run: a.addresses},
		{name: "approve", usage: "approve <vendorId>", help: "approve a vendor (admin)", run: a.vendorAction(models.ActionApprove)},
		{name: "decline", usage: "decline <vendorId>", help: "decline a vendor (admin)", run: a.vendorAction(models.ActionDecline)},
		{name: "deactivate", usage: "deactivate <vendorId>", help: "deactivate a vendor (admin)", run: a.vendorAction(models.ActionDeactivate)},
		{name: "offers", usage: "offers [seconds]", help: "watch offer countdowns", run: a.offers},
		{name: "cart", usage: "cart [add <productId> [qty] | remove <productId> | clear]", help: "manage the local cart", run: a.cartCmd},
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok := a.auth.Current(ctx)
	return ok
}

// session prefers the mounted dashboard's copy, which reflects profile
// edits, and falls back to the cache.
func (a *App) session(ctx context.Context) (*models.AuthenticationResponse, error) {
	if a.dash != nil && a.dash.Mounted() {
		return a.dash.Session(), nil
	}
	if auth, ok := a.auth.Current(ctx); ok {
		return auth, nil
	}
	return nil, fmt.Errorf("%w: not signed in", services.ErrLoginRequired)
}

func (a *App) mounted() (*services.Dashboard, error) {
	if a.dash == nil || !a.dash.Mounted() {
		return nil, errNoDashboard
	}
	return a.dash, nil
}

// dropDashboard unmounts after a login-required error. When the server
// rejected the token the cached session is forgotten too.
func (a *App) dropDashboard(ctx context.Context, err error) error {
	unauthorized := errors.Is(err, client.ErrUnauthorized)
	if !unauthorized && !errors.Is(err, services.ErrLoginRequired) {
		return err
	}
	if unauthorized {
		a.auth.Invalidate(ctx)
	}
	if a.dash != nil {
		a.dash.Unmount()
		a.dash = nil
	}
	return err
}

func pageArg(args []string) (models.PageQuery, error) {
	q := models.PageQuery{}
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return q, errUsage
		}
		q.Page = n
	}
	return q, nil
}

// ---- session ----

func (a *App) login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	auth, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s (%s)\n", orDash(auth.User.BioData.FullName()), auth.PrimaryRole())
	return a.openDashboard(ctx, auth, "")
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	if a.dash != nil {
		a.dash.Unmount()
		a.dash = nil
	}
	a.vendors = map[string]models.VendorStatus{}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	auth, err := a.session(ctx)
	if err != nil {
		return err
	}
	bio := auth.User.BioData
	fmt.Fprintf(a.out, "%s <%s>, %s, user %s\n", orDash(bio.FullName()), bio.EmailAddress, auth.PrimaryRole(), auth.User.ID)

	info, err := services.InspectToken(auth.AccessToken)
	if err != nil {
		return nil
	}
	switch {
	case info.ExpiresAt.IsZero():
		fmt.Fprintln(a.out, "token does not expire")
	case info.Expired(a.clock.Now()):
		fmt.Fprintf(a.out, "token expired %s\n", humanize.Time(info.ExpiresAt))
	default:
		fmt.Fprintf(a.out, "token expires %s\n", humanize.Time(info.ExpiresAt))
	}
	return nil
}

func (a *App) ping(ctx context.Context, _ []string) error {
	a.checkOnline(ctx)
	fmt.Fprintln(a.out, "API is", a.Mode())
	return nil
}

// ---- dashboards ----

func dashboardFor(role roles.Role) services.DashboardSpec {
	switch {
	case role.IsAdmin():
		return services.AdminDashboard
	case role == roles.Vendor:
		return services.VendorDashboard
	}
	return services.CustomerDashboard
}

func (a *App) openDashboard(ctx context.Context, auth *models.AuthenticationResponse, kind string) error {
	spec := dashboardFor(auth.PrimaryRole())
	if kind != "" {
		var ok bool
		if spec, ok = services.DashboardByKind(kind); !ok {
			return errUsage
		}
	}

	d := services.NewDashboard(spec, a.api, a.store, a.log)
	if err := d.Mount(ctx); err != nil {
		a.dash = nil
		return err
	}
	a.dash = d
	renderDashboard(a.out, d)
	return nil
}

func (a *App) dashboard(ctx context.Context, args []string) error {
	kind := ""
	if len(args) > 0 {
		kind = strings.ToLower(args[0])
	}
	auth, ok := a.auth.Current(ctx)
	if !ok {
		auth = &models.AuthenticationResponse{}
		if kind == "" {
			return fmt.Errorf("%w: not signed in", services.ErrLoginRequired)
		}
	}
	return a.openDashboard(ctx, auth, kind)
}

func (a *App) tab(ctx context.Context, args []string) error {
	d, err := a.mounted()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errUsage
	}
	if err := d.SetActiveTab(ctx, args[0]); err != nil {
		return err
	}
	renderDashboard(a.out, d)

	switch d.ActiveTab() {
	case "profile":
		return a.profile(ctx, nil)
	case "orders":
		return a.orders(ctx, nil)
	case "addresses":
		return a.addresses(ctx, nil)
	case "products":
		return a.productsCmd(ctx, nil)
	case "vendors":
		return a.vendorsCmd(ctx, nil)
	}
	return nil
}

func (a *App) sidebar(ctx context.Context, _ []string) error {
	d, err := a.mounted()
	if err != nil {
		return err
	}
	if _, err := d.ToggleSidebar(ctx); err != nil {
		return err
	}
	renderDashboard(a.out, d)
	return nil
}

// ---- profile ----

func (a *App) profile(_ context.Context, _ []string) error {
	d, err := a.mounted()
	if err != nil {
		return err
	}
	renderProfile(a.out, d.Session(), d.Profile)
	return nil
}

func (a *App) edit(_ context.Context, args []string) error {
	d, err := a.mounted()
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errUsage
	}
	if err := d.Profile.BeginEdit(); err != nil {
		return err
	}
	return d.Profile.Update(args[0], strings.Join(args[1:], " "))
}

func (a *App) save(ctx context.Context, _ []string) error {
	d, err := a.mounted()
	if err != nil {
		return err
	}
	if err := d.Profile.Submit(ctx); err != nil {
		renderProfile(a.out, d.Session(), d.Profile)
		return err
	}
	fmt.Fprintln(a.out, "Profile saved.")
	renderProfile(a.out, d.Session(), d.Profile)
	return nil
}

func (a *App) cancel(_ context.Context, _ []string) error {
	d, err := a.mounted()
	if err != nil {
		return err
	}
	return d.Profile.Cancel()
}

func (a *App) upload(ctx context.Context, args []string) error {
	d, err := a.mounted()
	if err != nil {
		return err
	}
	if len(args) < 1 || len(args) > 4 {
		return errUsage
	}

	up := services.MediaUpload{}
	if len(args) > 1 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errUsage
		}
		up.DocumentTypeID = id
	}
	if len(args) > 2 {
		up.Category = args[2]
	}
	if len(args) > 3 {
		up.ProductID = args[3]
	}

	media, err := d.Media.UploadFile(ctx, args[0], up)
	if err != nil {
		return a.dropDashboard(ctx, err)
	}
	fmt.Fprintf(a.out, "Uploaded %s: %s\n", orDash(media.FileName), media.SecureURL)
	return nil
}

// ---- lists ----

func (a *App) productsCmd(ctx context.Context, args []string) error {
	q, err := pageArg(args)
	if err != nil {
		return err
	}
	auth, _ := a.session(ctx)
	page, err := a.lists.Products(ctx, auth, q)
	if err != nil {
		return a.dropDashboard(ctx, err)
	}
	a.products = page.Data
	renderProducts(a.out, page, a.clock.Now())
	return nil
}

func (a *App) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	auth, _ := a.session(ctx)
	p, err := a.lists.Product(ctx, auth, args[0])
	if err != nil {
		return err
	}
	renderProduct(a.out, p)
	return nil
}

func (a *App) vendorsCmd(ctx context.Context, args []string) error {
	q, err := pageArg(args)
	if err != nil {
		return err
	}
	auth, err := a.session(ctx)
	if err != nil {
		return err
	}
	page, err := a.lists.Vendors(ctx, auth, q)
	if err != nil {
		return a.dropDashboard(ctx, err)
	}
	for _, v := range page.Data {
		a.vendors[v.ID] = v.Status
	}
	renderVendors(a.out, page)
	return nil
}

func (a *App) orders(ctx context.Context, args []string) error {
	q, err := pageArg(args)
	if err != nil {
		return err
	}
	auth, err := a.session(ctx)
	if err != nil {
		return err
	}
	page, err := a.lists.Orders(ctx, auth, q)
	if err != nil {
		return a.dropDashboard(ctx, err)
	}
	renderOrders(a.out, page)
	return nil
}

func (a *App) addresses(ctx context.Context, args []string) error {
	q, err := pageArg(args)
	if err != nil {
		return err
	}
	auth, err := a.session(ctx)
	if err != nil {
		return err
	}
	page, err := a.lists.Addresses(ctx, auth, q)
	if err != nil {
		return a.dropDashboard(ctx, err)
	}
	renderAddresses(a.out, page)
	return nil
}

func (a *App) vendorAction(action models.VendorAction) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if len(args) != 1 {
			return errUsage
		}
		auth, err := a.session(ctx)
		if err != nil {
			return err
		}
		current, ok := a.vendors[args[0]]
		if !ok {
			return errUnknownVendor
		}
		v, err := a.lists.VendorAction(ctx, auth, args[0], current, action)
		if err != nil {
			return a.dropDashboard(ctx, err)
		}
		a.vendors[v.ID] = v.Status
		fmt.Fprintf(a.out, "Vendor %s is now %s.\n", v.ID, v.Status)
		return nil
	}
}

// ---- offers & cart ----

func (a *App) offers(ctx context.Context, args []string) error {
	seconds := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return errUsage
		}
		seconds = n
	}

	if len(a.products) == 0 {
		auth, _ := a.session(ctx)
		page, err := a.lists.Products(ctx, auth, models.PageQuery{})
		if err != nil {
			return err
		}
		a.products = page.Data
	}

	cd := services.NewCountdown(a.clock, services.OfferDeadlines(a.products)...)
	renderCountdown(a.out, cd.Current())
	if seconds == 0 || cd.Done(a.clock.Now()) {
		return nil
	}

	watchCtx, cancel := context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
	defer cancel()
	err := cd.RunEvery(watchCtx, time.Second, func(snap []services.Remaining) {
		fmt.Fprintln(a.out, "--")
		renderCountdown(a.out, snap)
	})
	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (a *App) cartCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		renderCart(a.out, a.cart.Items(ctx), a.cart.Total(ctx))
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) < 2 || len(args) > 3 {
			return errUsage
		}
		qty := 1
		if len(args) == 3 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return errUsage
			}
			qty = n
		}
		p, err := a.findProduct(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.cart.AddProduct(ctx, *p, qty); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added %d x %s.\n", qty, p.Name)
		return nil

	case "remove":
		if len(args) != 2 {
			return errUsage
		}
		return a.cart.Remove(ctx, args[1])

	case "clear":
		return a.cart.Clear(ctx)
	}
	return errUsage
}

func (a *App) findProduct(ctx context.Context, id string) (*models.Product, error) {
	for i := range a.products {
		if a.products[i].ID == id {
			return &a.products[i], nil
		}
	}
	auth, _ := a.session(ctx)
	return a.lists.Product(ctx, auth, id)
}
