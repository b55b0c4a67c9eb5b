package storage

import "fmt"

const (
	KeyAuthResponse = "auth_response"
	KeyCart         = "cart"
)

// ActiveTabKey is the preference key for a dashboard's selected tab.
func ActiveTabKey(dashboard string) string {
	return fmt.Sprintf("%s_dashboard_active_tab", dashboard)
}

// SidebarOpenKey is the preference key for a dashboard's sidebar flag.
func SidebarOpenKey(dashboard string) string {
	return fmt.Sprintf("%s_dashboard_sidebar_open", dashboard)
}
