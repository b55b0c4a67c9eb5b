// Package services contains the client's application logic: login and the
// cached session, role guards for the dashboards, the profile edit and media
// upload flows, paginated list screens, offer countdowns and the local cart.
//
// Services own every write to storage; the CLI only calls into them.
package services
