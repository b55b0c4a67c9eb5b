package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
	"github.com/dmitrijs2005/marketdesk/internal/client/storage"
	"github.com/dmitrijs2005/marketdesk/internal/logging"
)

const (
	KindCustomer = "customer"
	KindVendor   = "vendor"
	KindAdmin    = "admin"
)

// DashboardSpec describes one role-scoped dashboard.
type DashboardSpec struct {
	Kind    string
	Allowed roles.Set
	Tabs    []string
}

var (
	CustomerDashboard = DashboardSpec{
		Kind:    KindCustomer,
		Allowed: roles.CustomerOnly,
		Tabs:    []string{"profile", "orders", "addresses"},
	}
	VendorDashboard = DashboardSpec{
		Kind:    KindVendor,
		Allowed: roles.VendorOnly,
		Tabs:    []string{"profile", "products", "orders"},
	}
	AdminDashboard = DashboardSpec{
		Kind:    KindAdmin,
		Allowed: roles.Admins,
		Tabs:    []string{"profile", "vendors", "orders", "products"},
	}
)

// DashboardByKind finds the dashboard layout for kind.
func DashboardByKind(kind string) (DashboardSpec, bool) {
	for _, s := range []DashboardSpec{CustomerDashboard, VendorDashboard, AdminDashboard} {
		if s.Kind == kind {
			return s, true
		}
	}
	return DashboardSpec{}, false
}

var ErrNotMounted = errors.New("dashboard is not mounted")

// Dashboard is a mounted dashboard shell. It owns the in-memory copy of the
// session for everything rendered under it.
type Dashboard struct {
	spec  DashboardSpec
	guard *SessionGuard
	store *storage.Adapter
	api   API
	log   logging.Logger

	session     *models.AuthenticationResponse
	activeTab   string
	sidebarOpen bool

	Profile *ProfileEditor
	Media   *MediaService
}

func NewDashboard(spec DashboardSpec, api API, store *storage.Adapter, log logging.Logger) *Dashboard {
	if log == nil {
		log = logging.Nop{}
	}
	return &Dashboard{
		spec:  spec,
		guard: NewSessionGuard(store, spec.Allowed),
		store: store,
		api:   api,
		log:   log.With("dashboard", spec.Kind),
	}
}

// Mount runs the session guard and, when it passes, seeds the profile form
// and restores the persisted tab and sidebar preferences. On failure nothing
// is mounted and the error wraps ErrLoginRequired.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.Unmount()

	auth, err := d.guard.Check(ctx)
	if err != nil {
		d.log.Info(ctx, "redirecting to login", "reason", err.Error())
		return err
	}

	d.session = auth
	d.Profile = NewProfileEditor(d.api, d.store, d.log, auth)
	d.Media = NewMediaService(d.api, d.store, d.log, auth)

	d.activeTab = ""
	if len(d.spec.Tabs) > 0 {
		d.activeTab = d.spec.Tabs[0]
	}
	if tab, ok := d.store.RetrieveString(ctx, storage.ActiveTabKey(d.spec.Kind)); ok && slices.Contains(d.spec.Tabs, tab) {
		d.activeTab = tab
	}

	d.sidebarOpen = true
	if raw, ok := d.store.RetrieveString(ctx, storage.SidebarOpenKey(d.spec.Kind)); ok {
		if open, err := strconv.ParseBool(raw); err == nil {
			d.sidebarOpen = open
		}
	}

	d.log.Debug(ctx, "mounted", "tab", d.activeTab, "sidebar_open", d.sidebarOpen)
	return nil
}

// Unmount drops the in-memory state.
func (d *Dashboard) Unmount() {
	d.session = nil
	d.Profile = nil
	d.Media = nil
	d.activeTab = ""
}

func (d *Dashboard) Mounted() bool { return d.session != nil }

func (d *Dashboard) Spec() DashboardSpec { return d.spec }

func (d *Dashboard) Session() *models.AuthenticationResponse { return d.session }

func (d *Dashboard) ActiveTab() string { return d.activeTab }

func (d *Dashboard) SidebarOpen() bool { return d.sidebarOpen }

// SetActiveTab switches tabs and remembers the choice.
func (d *Dashboard) SetActiveTab(ctx context.Context, tab string) error {
	if !d.Mounted() {
		return ErrNotMounted
	}
	if !slices.Contains(d.spec.Tabs, tab) {
		return &ValidationError{Field: "tab", Reason: fmt.Sprintf("%q is not one of %v", tab, d.spec.Tabs)}
	}
	if err := d.store.SaveString(ctx, storage.ActiveTabKey(d.spec.Kind), tab); err != nil {
		return fmt.Errorf("save active tab: %w", err)
	}
	d.activeTab = tab
	return nil
}

// ToggleSidebar flips the sidebar flag, persists it and returns the new value.
func (d *Dashboard) ToggleSidebar(ctx context.Context) (bool, error) {
	if !d.Mounted() {
		return false, ErrNotMounted
	}
	open := !d.sidebarOpen
	if err := d.store.SaveString(ctx, storage.SidebarOpenKey(d.spec.Kind), strconv.FormatBool(open)); err != nil {
		return d.sidebarOpen, fmt.Errorf("save sidebar state: %w", err)
	}
	d.sidebarOpen = open
	return open, nil
}
