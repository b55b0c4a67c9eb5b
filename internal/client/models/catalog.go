package models

import (
	"time"
)

// VendorStatus is the lifecycle state of a vendor application.
type VendorStatus string

const (
	VendorPending     VendorStatus = "PENDING"
	VendorApproved    VendorStatus = "APPROVED"
	VendorDeclined    VendorStatus = "DECLINED"
	VendorDeactivated VendorStatus = "DEACTIVATED"
)

// VendorAction is an admin decision on a vendor.
type VendorAction string

const (
	ActionApprove    VendorAction = "approve"
	ActionDecline    VendorAction = "decline"
	ActionDeactivate VendorAction = "deactivate"
)

// Target is the status the vendor ends up in after the action.
func (a VendorAction) Target() VendorStatus {
	switch a {
	case ActionApprove:
		return VendorApproved
	case ActionDecline:
		return VendorDeclined
	case ActionDeactivate:
		return VendorDeactivated
	}
	return ""
}

// AllowedActions lists what an admin may do with a vendor in status s.
func (s VendorStatus) AllowedActions() []VendorAction {
	switch s {
	case VendorPending:
		return []VendorAction{ActionApprove, ActionDecline}
	case VendorApproved:
		return []VendorAction{ActionDeactivate}
	case VendorDeclined, VendorDeactivated:
		return []VendorAction{ActionApprove}
	}
	return nil
}

func (s VendorStatus) Allows(a VendorAction) bool {
	for _, allowed := range s.AllowedActions() {
		if allowed == a {
			return true
		}
	}
	return false
}

// Vendor is a vendor application/account.
type Vendor struct {
	ID           string       `json:"id"`
	BioData      BioData      `json:"bioData"`
	BusinessName string       `json:"businessName"`
	Status       VendorStatus `json:"status"`
	Category     string       `json:"category,omitempty"`
	Media        []Media      `json:"media,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Product is a catalog listing.
type Product struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category,omitempty"`
	Price         float64    `json:"price"`
	DiscountPrice float64    `json:"discountPrice,omitempty"`
	Quantity      int        `json:"quantity"`
	VendorID      string     `json:"vendorId,omitempty"`
	Media         []Media    `json:"media,omitempty"`
	OfferEndsAt   *time.Time `json:"offerEndsAt,omitempty"`
}

// EffectivePrice is the discounted price when a discount applies.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}

// Order is one row of an orders table.
type Order struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Address is a customer's delivery address.
type Address struct {
	ID        string `json:"id"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country"`
	ZipCode   string `json:"zipCode,omitempty"`
	IsDefault bool   `json:"isDefault"`
}
