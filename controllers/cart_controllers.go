package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/foodhub/cart"
	"github.com/yeremiapane/foodhub/metrics"
	"github.com/yeremiapane/foodhub/middlewares"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/services"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/gorm"
)

// CartSessionCookie identifies an anonymous visitor's cart.
const CartSessionCookie = "cart_session"

const cartSessionMaxAge = 30 * 24 * 60 * 60

type CartController struct {
	DB          *gorm.DB
	Store       cart.Store
	Orders      *services.OrderService
	DeliveryFee float64
}

func NewCartController(db *gorm.DB, store cart.Store, orders *services.OrderService, deliveryFee float64) *CartController {
	return &CartController{DB: db, Store: store, Orders: orders, DeliveryFee: deliveryFee}
}

func guestKey(session string) string { return cart.Key("guest:" + session) }

func userKey(userID uint) string { return cart.Key(fmt.Sprintf("user:%d", userID)) }

// cartKey resolves the cart of the caller: the user's cart when signed in,
// otherwise the guest cart named by the session cookie, creating the cookie
// on first use. A signed-in user with an empty cart takes over a non-empty
// guest cart from the same browser.
func (cc *CartController) cartKey(c *gin.Context) (string, error) {
	session, _ := c.Cookie(CartSessionCookie)
	if _, err := uuid.Parse(session); err != nil {
		session = ""
	}

	userID, _, signedIn := middlewares.CurrentUser(c)
	if !signedIn {
		if session == "" {
			session = uuid.NewString()
			c.SetCookie(CartSessionCookie, session, cartSessionMaxAge, "/", "", c.Request.TLS != nil, true)
		}
		return guestKey(session), nil
	}

	key := userKey(userID)
	if session != "" {
		if err := cc.adoptGuestCart(c.Request.Context(), guestKey(session), key); err != nil {
			return "", err
		}
		c.SetCookie(CartSessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	}
	return key, nil
}

func (cc *CartController) adoptGuestCart(ctx context.Context, from, to string) error {
	guest, err := cart.Load(ctx, cc.Store, from)
	if err != nil || guest.IsEmpty() {
		return err
	}
	own, err := cart.Load(ctx, cc.Store, to)
	if err != nil {
		return err
	}
	if !own.IsEmpty() {
		return nil
	}

	data, err := cc.Store.Get(ctx, from)
	if err != nil {
		return err
	}
	if err := cc.Store.Set(ctx, to, data); err != nil {
		return err
	}
	return guest.ClearCart(ctx)
}

type cartView struct {
	Items          []cart.Item `json:"items"`
	RestaurantID   *uint       `json:"restaurant_id"`
	RestaurantName string      `json:"restaurant_name,omitempty"`
	ItemCount      int         `json:"item_count"`
	Total          float64     `json:"total"`
	TotalDisplay   string      `json:"total_display"`
}

func viewOf(ct *cart.Cart) cartView {
	v := cartView{
		Items:        ct.Items(),
		ItemCount:    ct.ItemCount(),
		Total:        ct.Total(),
		TotalDisplay: utils.FormatCurrency(ct.Total()),
	}
	if scope, ok := ct.Scope(); ok {
		v.RestaurantID = &scope.RestaurantID
		v.RestaurantName = scope.RestaurantName
	}
	return v
}

// withCart loads the caller's cart and runs fn on it. Each request works on
// its own copy; concurrent writers to one cart are last-write-wins.
func (cc *CartController) withCart(c *gin.Context, fn func(ct *cart.Cart) error) (*cart.Cart, error) {
	key, err := cc.cartKey(c)
	if err != nil {
		return nil, utils.Internal("failed to resolve cart", err)
	}
	ct, err := cart.Load(c.Request.Context(), cc.Store, key)
	if err != nil {
		return nil, utils.Internal("failed to load cart", err)
	}
	if fn != nil {
		if err := fn(ct); err != nil {
			var appErr *utils.AppError
			if errors.As(err, &appErr) {
				return nil, err
			}
			return nil, utils.Internal("failed to save cart", err)
		}
	}
	return ct, nil
}

// GetCart -> GET /cart
func (cc *CartController) GetCart(c *gin.Context) {
	ct, err := cc.withCart(c, nil)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart", viewOf(ct))
}

// AddItem -> POST /cart/items {"menu_item_id": 1, "confirm_replace": false}
//
// Adding from another restaurant without confirm_replace leaves the cart as
// is and answers with result "confirmation_required".
func (cc *CartController) AddItem(c *gin.Context) {
	var body struct {
		MenuItemID     uint `json:"menu_item_id" binding:"required"`
		ConfirmReplace bool `json:"confirm_replace"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var item models.MenuItem
	err := cc.DB.Preload("Restaurant").First(&item, body.MenuItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && (item.Restaurant == nil || !item.Restaurant.IsActive)) {
		utils.RespondAppError(c, utils.NotFound("menu item not found"))
		return
	}
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load menu item", err))
		return
	}
	if !item.IsAvailable {
		utils.RespondAppError(c, utils.Validation("menu item is not available"))
		return
	}

	candidate := cart.Candidate{
		MenuItemID:     item.ID,
		Name:           item.Name,
		Price:          item.Price,
		Image:          item.Image,
		RestaurantID:   item.RestaurantID,
		RestaurantName: item.Restaurant.Name,
	}
	confirm := cart.Never
	if body.ConfirmReplace {
		confirm = cart.Always
	}

	var outcome cart.AddOutcome
	ct, err := cc.withCart(c, func(ct *cart.Cart) error {
		var err error
		outcome, err = ct.AddItem(c.Request.Context(), candidate, confirm)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	metrics.RecordCartMutation("add", string(outcome))

	if outcome == cart.OutcomeDeclined {
		scope, _ := ct.Scope()
		utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Your cart has items from %s. Replace them with %s?", scope.RestaurantName, candidate.RestaurantName), gin.H{
			"result":              "confirmation_required",
			"current_restaurant":  scope.RestaurantName,
			"incoming_restaurant": candidate.RestaurantName,
			"cart":                viewOf(ct),
		})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart updated", gin.H{
		"result": outcome,
		"cart":   viewOf(ct),
	})
}

// UpdateItem -> PATCH /cart/items/:menu_item_id {"quantity": 2}; zero or less removes it
func (cc *CartController) UpdateItem(c *gin.Context) {
	menuItemID, err := paramID(c, "menu_item_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	ct, err := cc.withCart(c, func(ct *cart.Cart) error {
		return ct.UpdateQuantity(c.Request.Context(), menuItemID, *body.Quantity)
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	metrics.RecordCartMutation("update", "ok")
	utils.RespondJSON(c, http.StatusOK, "Cart updated", viewOf(ct))
}

// RemoveItem -> DELETE /cart/items/:menu_item_id
func (cc *CartController) RemoveItem(c *gin.Context) {
	menuItemID, err := paramID(c, "menu_item_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	ct, err := cc.withCart(c, func(ct *cart.Cart) error {
		return ct.RemoveItem(c.Request.Context(), menuItemID)
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	metrics.RecordCartMutation("remove", "ok")
	utils.RespondJSON(c, http.StatusOK, "Item removed", viewOf(ct))
}

// ClearCart -> DELETE /cart
func (cc *CartController) ClearCart(c *gin.Context) {
	ct, err := cc.withCart(c, func(ct *cart.Cart) error {
		return ct.ClearCart(c.Request.Context())
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	metrics.RecordCartMutation("clear", "ok")
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", viewOf(ct))
}

// Checkout -> POST /cart/checkout, places the cart as an order
// (subtotal plus delivery fee) and empties the cart.
func (cc *CartController) Checkout(c *gin.Context) {
	userID, _, _ := middlewares.CurrentUser(c)

	var body struct {
		DeliveryAddress string `json:"deliveryAddress"`
		Phone           string `json:"phone"`
		Notes           string `json:"notes"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if strings.TrimSpace(body.DeliveryAddress) == "" || strings.TrimSpace(body.Phone) == "" {
		utils.RespondAppError(c, utils.Validation("please fill in all required fields"))
		return
	}

	var order *models.Order
	_, err := cc.withCart(c, func(ct *cart.Cart) error {
		scope, ok := ct.Scope()
		if !ok {
			return utils.Validation("cart is empty")
		}

		input := services.CreateOrderInput{
			RestaurantID:    scope.RestaurantID,
			Total:           utils.FromCents(utils.ToCents(ct.Total()) + utils.ToCents(cc.DeliveryFee)),
			DeliveryAddress: body.DeliveryAddress,
			Phone:           body.Phone,
			Notes:           body.Notes,
		}
		for _, it := range ct.Items() {
			input.Items = append(input.Items, services.OrderItemInput{
				MenuItemID: it.MenuItemID,
				Quantity:   it.Quantity,
				Price:      it.Price,
			})
		}

		var err error
		order, err = cc.Orders.CreateOrder(userID, input)
		if err != nil {
			return err
		}
		// The order is committed; a stale cart must not turn it into a failure.
		if err := ct.ClearCart(c.Request.Context()); err != nil {
			utils.ErrorLogger.WithFields(map[string]interface{}{
				"order_id": order.ID,
				"cart":     ct.Key(),
			}).Errorf("order placed but cart not cleared: %v", err)
		}
		return nil
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	metrics.RecordCartMutation("checkout", "ok")
	utils.RespondJSON(c, http.StatusCreated, "Order placed successfully", order)
}
