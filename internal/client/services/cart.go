package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/storage"
)

// CartLine is one product in the local cart.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Sums are kept in minor units (cents) so repeated additions do not drift.
func toMinor(v float64) int64 { return int64(math.Round(v * 100)) }

func fromMinor(m int64) float64 { return float64(m) / 100 }

func (l CartLine) subtotalMinor() int64 {
	return toMinor(l.UnitPrice) * int64(l.Quantity)
}

func (l CartLine) Subtotal() float64 {
	return fromMinor(l.subtotalMinor())
}

// Cart keeps the shopping cart in local storage. Nothing is sent to the
// server until checkout, which lives outside this client.
type Cart struct {
	store *storage.Adapter
}

func NewCart(store *storage.Adapter) *Cart {
	return &Cart{store: store}
}

// Items returns the cart lines in insertion order.
func (c *Cart) Items(ctx context.Context) []CartLine {
	var lines []CartLine
	if !c.store.Retrieve(ctx, storage.KeyCart, &lines) {
		return []CartLine{}
	}
	return lines
}

// Add puts line in the cart, adding to the quantity when the product is
// already there.
func (c *Cart) Add(ctx context.Context, line CartLine) error {
	line.ProductID = strings.TrimSpace(line.ProductID)
	if line.ProductID == "" {
		return &ValidationError{Field: "productId", Reason: "is required"}
	}
	if line.Quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if line.UnitPrice < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	line.UnitPrice = fromMinor(toMinor(line.UnitPrice))

	lines := c.Items(ctx)
	merged := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			lines[i].UnitPrice = line.UnitPrice
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, line)
	}
	return c.save(ctx, lines)
}

// AddProduct adds qty of p at its effective price.
func (c *Cart) AddProduct(ctx context.Context, p models.Product, qty int) error {
	return c.Add(ctx, CartLine{ProductID: p.ID, Name: p.Name, UnitPrice: p.EffectivePrice(), Quantity: qty})
}

// Remove drops a product from the cart. Removing an absent product is a no-op.
func (c *Cart) Remove(ctx context.Context, productID string) error {
	lines := c.Items(ctx)
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	return c.save(ctx, kept)
}

func (c *Cart) Total(ctx context.Context) float64 {
	var total int64
	for _, l := range c.Items(ctx) {
		total += l.subtotalMinor()
	}
	return fromMinor(total)
}

func (c *Cart) Clear(ctx context.Context) error {
	return c.store.Remove(ctx, storage.KeyCart)
}

func (c *Cart) save(ctx context.Context, lines []CartLine) error {
	if err := c.store.Save(ctx, storage.KeyCart, lines); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
