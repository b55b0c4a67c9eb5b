package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/services"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderPageFooter[T any](w io.Writer, p *models.AppPageResponse[T]) {
	if len(p.Data) == 0 {
		fmt.Fprintln(w, "Nothing to show.")
		return
	}
	fmt.Fprintf(w, "page %d of %d, %s items", p.PageNumber, max(p.TotalPages(), 1), humanize.Comma(p.TotalFilteredItems))
	if p.HasNext() {
		fmt.Fprintf(w, " (next: %d)", p.PageNumber+1)
	}
	fmt.Fprintln(w)
}

func renderProducts(w io.Writer, p *models.AppPageResponse[models.Product], now time.Time) {
	tw := newTable(w, "ID", "NAME", "PRICE", "STOCK", "OFFER")
	for _, it := range p.Data {
		price := money(it.EffectivePrice())
		if it.EffectivePrice() < it.Price {
			price += " (was " + money(it.Price) + ")"
		}
		offer := "-"
		if it.OfferEndsAt != nil && it.OfferEndsAt.After(now) {
			offer = "ends in " + services.FormatRemaining(it.OfferEndsAt.Sub(now))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", it.ID, it.Name, price, it.Quantity, offer)
	}
	_ = tw.Flush()
	renderPageFooter(w, p)
}

func renderProduct(w io.Writer, p *models.Product) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(w, "  category:  %s\n", orDash(p.Category))
	fmt.Fprintf(w, "  price:     %s\n", money(p.EffectivePrice()))
	fmt.Fprintf(w, "  in stock:  %d\n", p.Quantity)
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
	for _, m := range p.Media {
		fmt.Fprintf(w, "  image:     %s\n", m.SecureURL)
	}
}

func renderVendors(w io.Writer, p *models.AppPageResponse[models.Vendor]) {
	tw := newTable(w, "ID", "BUSINESS", "OWNER", "STATUS", "ACTIONS")
	for _, v := range p.Data {
		actions := make([]string, 0, 2)
		for _, a := range v.Status.AllowedActions() {
			actions = append(actions, string(a))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.BusinessName, orDash(v.BioData.FullName()), v.Status, orDash(strings.Join(actions, ",")))
	}
	_ = tw.Flush()
	renderPageFooter(w, p)
}

func renderOrders(w io.Writer, p *models.AppPageResponse[models.Order]) {
	tw := newTable(w, "REFERENCE", "STATUS", "ITEMS", "TOTAL", "PLACED")
	for _, o := range p.Data {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", orDash(o.Reference), o.Status, o.ItemCount, money(o.TotalAmount), humanize.Time(o.CreatedAt))
	}
	_ = tw.Flush()
	renderPageFooter(w, p)
}

func renderAddresses(w io.Writer, p *models.AppPageResponse[models.Address]) {
	tw := newTable(w, "ID", "ADDRESS", "COUNTRY", "DEFAULT")
	for _, a := range p.Data {
		line := strings.Join(nonEmpty(a.Street, a.City, a.State, a.ZipCode), ", ")
		def := ""
		if a.IsDefault {
			def = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, line, a.Country, def)
	}
	_ = tw.Flush()
	renderPageFooter(w, p)
}

func nonEmpty(ss ...string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func renderDashboard(w io.Writer, d *services.Dashboard) {
	spec := d.Spec()
	tabs := make([]string, len(spec.Tabs))
	for i, t := range spec.Tabs {
		if t == d.ActiveTab() {
			t = "[" + t + "]"
		}
		tabs[i] = t
	}
	sidebar := "closed"
	if d.SidebarOpen() {
		sidebar = "open"
	}
	title := spec.Kind
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	fmt.Fprintf(w, "%s dashboard | tabs: %s | sidebar: %s\n", title, orDash(strings.Join(tabs, " ")), sidebar)
}

func renderProfile(w io.Writer, auth *models.AuthenticationResponse, ed *services.ProfileEditor) {
	bio := auth.User.BioData
	avatar := "[" + bio.Initial() + "]"
	if bio.ProfilePicture != "" {
		avatar = bio.ProfilePicture
	}
	roles := make([]string, len(bio.Roles))
	for i, r := range bio.Roles {
		roles[i] = r.String()
	}

	fmt.Fprintf(w, "%s %s\n", avatar, orDash(bio.FullName()))
	fmt.Fprintf(w, "  email:  %s\n", orDash(bio.EmailAddress))
	fmt.Fprintf(w, "  phone:  %s\n", orDash(bio.PhoneNumber))
	fmt.Fprintf(w, "  roles:  %s\n", strings.Join(roles, ", "))

	if ed == nil {
		return
	}
	if ed.State() != services.Viewing {
		d := ed.Draft()
		fmt.Fprintf(w, "  editing (%s): firstName=%q lastName=%q email=%q phone=%q\n",
			ed.State(), d.FirstName, d.LastName, d.EmailAddress, d.PhoneNumber)
	}
	if err := ed.LastError(); err != nil {
		fmt.Fprintf(w, "  ! %s\n", describeError(err))
	}
}

func renderCountdown(w io.Writer, snap []services.Remaining) {
	if len(snap) == 0 {
		fmt.Fprintln(w, "No running offers.")
		return
	}
	for _, r := range snap {
		fmt.Fprintf(w, "  %-30s %s\n", r.Label, services.FormatRemaining(r.Left))
	}
}

func renderCart(w io.Writer, lines []services.CartLine, total float64) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	tw := newTable(w, "PRODUCT", "NAME", "QTY", "UNIT", "SUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.ProductID, l.Name, l.Quantity, money(l.UnitPrice), money(l.Subtotal()))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "total: %s\n", money(total))
}
