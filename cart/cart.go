// Package cart holds the restaurant-scoped shopping cart: an explicit state
// container whose every mutation is written back to a Store under one key.
//
// A cart only ever contains items from a single restaurant. Adding an item
// from another restaurant is gated by a Confirmer; a refusal leaves the cart
// untouched, an acceptance replaces the whole cart with the new item.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// StorageName prefixes every persisted cart key.
const StorageName = "cart-storage"

// Key returns the storage key of the cart belonging to owner.
func Key(owner string) string {
	return StorageName + ":" + owner
}

type Item struct {
	ID             string  `json:"id"`
	MenuItemID     uint    `json:"menuItemId"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	Image          *string `json:"image"`
	RestaurantID   uint    `json:"restaurantId"`
	RestaurantName string  `json:"restaurantName"`
}

// Candidate is an item offered to AddItem. Price is captured as given and
// never refreshed afterwards.
type Candidate struct {
	MenuItemID     uint
	Name           string
	Price          float64
	Image          *string
	RestaurantID   uint
	RestaurantName string
}

// Scope identifies the restaurant a non-empty cart belongs to.
type Scope struct {
	RestaurantID   uint
	RestaurantName string
}

// Confirmer decides whether a cart scoped to current may be discarded in
// favour of incoming. A nil Confirmer refuses.
type Confirmer func(current Scope, incoming Candidate) bool

// Always and Never are fixed confirmers.
var (
	Always Confirmer = func(Scope, Candidate) bool { return true }
	Never  Confirmer = func(Scope, Candidate) bool { return false }
)

type AddOutcome string

const (
	OutcomeAdded       AddOutcome = "added"
	OutcomeIncremented AddOutcome = "incremented"
	OutcomeReplaced    AddOutcome = "replaced"
	OutcomeDeclined    AddOutcome = "declined"
)

type Cart struct {
	key   string
	store Store
	items []Item
	newID func() string
}

// New returns an empty cart bound to key in store without reading it.
func New(store Store, key string) *Cart {
	return &Cart{key: key, store: store, newID: uuid.NewString}
}

// Load restores the cart stored under key. A missing key yields an empty cart.
func Load(ctx context.Context, store Store, key string) (*Cart, error) {
	c := New(store, key)
	data, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", key, err)
	}
	items, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", key, err)
	}
	c.items = items
	return c, nil
}

func (c *Cart) Key() string { return c.key }

// AddItem puts one unit of cand into the cart.
func (c *Cart) AddItem(ctx context.Context, cand Candidate, confirm Confirmer) (AddOutcome, error) {
	if scope, ok := c.Scope(); ok && scope.RestaurantID != cand.RestaurantID {
		if confirm == nil || !confirm(scope, cand) {
			return OutcomeDeclined, nil
		}
		c.items = []Item{c.newItem(cand)}
		return OutcomeReplaced, c.persist(ctx)
	}

	for i := range c.items {
		if c.items[i].MenuItemID == cand.MenuItemID {
			c.items[i].Quantity++
			return OutcomeIncremented, c.persist(ctx)
		}
	}

	c.items = append(c.items, c.newItem(cand))
	return OutcomeAdded, c.persist(ctx)
}

// RemoveItem deletes the entry for menuItemID. Absent entries are ignored.
func (c *Cart) RemoveItem(ctx context.Context, menuItemID uint) error {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.MenuItemID != menuItemID {
			kept = append(kept, it)
		}
	}
	c.items = kept
	return c.persist(ctx)
}

// UpdateQuantity sets the quantity of menuItemID; quantity <= 0 removes it.
func (c *Cart) UpdateQuantity(ctx context.Context, menuItemID uint, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, menuItemID)
	}
	for i := range c.items {
		if c.items[i].MenuItemID == menuItemID {
			c.items[i].Quantity = quantity
		}
	}
	return c.persist(ctx)
}

func (c *Cart) ClearCart(ctx context.Context) error {
	c.items = nil
	return c.persist(ctx)
}

// Total is the sum of price * quantity. Prices are summed as whole cents so
// the result does not depend on the order items were added in.
func (c *Cart) Total() float64 {
	var cents int64
	for _, it := range c.items {
		cents += int64(math.Round(it.Price*100)) * int64(it.Quantity)
	}
	return float64(cents) / 100
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// RestaurantID returns the restaurant the cart is scoped to, false when empty.
func (c *Cart) RestaurantID() (uint, bool) {
	s, ok := c.Scope()
	return s.RestaurantID, ok
}

func (c *Cart) Scope() (Scope, bool) {
	if len(c.items) == 0 {
		return Scope{}, false
	}
	return Scope{RestaurantID: c.items[0].RestaurantID, RestaurantName: c.items[0].RestaurantName}, true
}

// Items returns a copy of the cart entries.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

func (c *Cart) newItem(cand Candidate) Item {
	return Item{
		ID:             c.newID(),
		MenuItemID:     cand.MenuItemID,
		Name:           cand.Name,
		Price:          cand.Price,
		Quantity:       1,
		Image:          cand.Image,
		RestaurantID:   cand.RestaurantID,
		RestaurantName: cand.RestaurantName,
	}
}

func (c *Cart) persist(ctx context.Context) error {
	data, err := encode(c.items)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("save cart %s: %w", c.key, err)
	}
	return nil
}

// persisted mirrors the on-disk layout: {"state":{...},"version":0}.
type persisted struct {
	State   snapshot `json:"state"`
	Version int      `json:"version"`
}

type snapshot struct {
	Items          []Item `json:"items"`
	RestaurantID   *uint  `json:"restaurantId"`
	RestaurantName string `json:"restaurantName,omitempty"`
}

func encode(items []Item) ([]byte, error) {
	snap := snapshot{Items: items}
	if snap.Items == nil {
		snap.Items = []Item{}
	}
	if len(items) > 0 {
		id := items[0].RestaurantID
		snap.RestaurantID = &id
		snap.RestaurantName = items[0].RestaurantName
	}
	data, err := json.Marshal(persisted{State: snap})
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]Item, error) {
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return p.State.Items, nil
}
