package services

import (
	"errors"
	"strings"

	"github.com/yeremiapane/foodhub/metrics"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/gorm"
)

// OrderNotifier receives order events after they are committed.
type OrderNotifier interface {
	PublishOrderCreated(order models.Order)
	PublishOrderUpdate(order models.Order)
}

type OrderItemInput struct {
	MenuItemID uint    `json:"menuItemId"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// CreateOrderInput is the body of POST /orders.
type CreateOrderInput struct {
	RestaurantID    uint             `json:"restaurantId"`
	Items           []OrderItemInput `json:"items"`
	Total           float64          `json:"total"`
	DeliveryAddress string           `json:"deliveryAddress"`
	Phone           string           `json:"phone"`
	Notes           string           `json:"notes"`
}

// Validate checks the required fields. Prices and total are taken as given.
func (in CreateOrderInput) Validate() error {
	if in.RestaurantID == 0 || len(in.Items) == 0 || in.Total <= 0 ||
		strings.TrimSpace(in.DeliveryAddress) == "" || strings.TrimSpace(in.Phone) == "" {
		return utils.Validation("missing required fields")
	}
	for _, item := range in.Items {
		if item.MenuItemID == 0 || item.Quantity < 1 || item.Price < 0 {
			return utils.Validation("invalid order item")
		}
	}
	return nil
}

// OrderStats are the per-customer counters shown on the orders page.
type OrderStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Delivered int64 `json:"delivered"`
}

type OrderService struct {
	DB       *gorm.DB
	Notifier OrderNotifier
}

func NewOrderService(db *gorm.DB, notifier OrderNotifier) *OrderService {
	return &OrderService{DB: db, Notifier: notifier}
}

// CreateOrder stores the order and its items in one transaction with status PENDING.
func (s *OrderService) CreateOrder(userID uint, in CreateOrderInput) (*models.Order, error) {
	if userID == 0 {
		return nil, utils.Unauthorized("unauthorized")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	order := models.Order{
		UserID:       userID,
		RestaurantID: in.RestaurantID,
		Total:        in.Total,
		Status:       models.StatusPending,
		Notes:        models.DeliveryNotes(in.DeliveryAddress, in.Phone, in.Notes),
	}
	for _, item := range in.Items {
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Restaurant{}).Where("id = ?", in.RestaurantID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return utils.Validation("unknown restaurant")
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		if errors.Is(err, utils.ErrValidation) {
			return nil, err
		}
		return nil, utils.Internal("failed to create order", err)
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id":      order.ID,
		"user_id":       userID,
		"restaurant_id": order.RestaurantID,
		"total":         order.Total,
	}).Info("order created")
	metrics.RecordOrderCreated()
	if s.Notifier != nil {
		s.Notifier.PublishOrderCreated(order)
	}
	return &order, nil
}

func (s *OrderService) withDetails() *gorm.DB {
	return s.DB.Preload("Restaurant").Preload("OrderItems.MenuItem").Order("created_at DESC").Order("id DESC")
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.withDetails().Where("user_id = ?", userID).Find(&orders).Error; err != nil {
		return nil, utils.Internal("failed to list orders", err)
	}
	return orders, nil
}

// ListForRestaurants returns orders of the given restaurants, newest first.
// An empty id list yields no orders.
func (s *OrderService) ListForRestaurants(restaurantIDs []uint, status *models.OrderStatus) ([]models.Order, error) {
	orders := []models.Order{}
	if len(restaurantIDs) == 0 {
		return orders, nil
	}
	q := s.withDetails().Preload("User").Where("restaurant_id IN ?", restaurantIDs)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, utils.Internal("failed to list orders", err)
	}
	return orders, nil
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(status *models.OrderStatus) ([]models.Order, error) {
	orders := []models.Order{}
	q := s.withDetails().Preload("User")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, utils.Internal("failed to list orders", err)
	}
	return orders, nil
}

// GetForUser returns the order only if userID placed it. A foreign order
// is reported as not found.
func (s *OrderService) GetForUser(orderID, userID uint) (*models.Order, error) {
	var order models.Order
	err := s.withDetails().Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("order not found")
	}
	if err != nil {
		return nil, utils.Internal("failed to fetch order", err)
	}
	return &order, nil
}

// UpdateStatus overwrites the stored status. The current status is not
// consulted, so any valid target is accepted from any state.
func (s *OrderService) UpdateStatus(orderID uint, target string) (*models.Order, error) {
	status, err := models.ParseOrderStatus(target)
	if err != nil {
		return nil, utils.Validation("invalid status")
	}

	var order models.Order
	err = s.DB.First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("order not found")
	}
	if err != nil {
		return nil, utils.Internal("failed to fetch order", err)
	}

	if err := s.DB.Model(&order).Update("status", status).Error; err != nil {
		return nil, utils.Internal("failed to update order status", err)
	}
	order.Status = status

	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"status":   status,
	}).Info("order status updated")
	metrics.RecordStatusUpdate(string(status))
	if s.Notifier != nil {
		s.Notifier.PublishOrderUpdate(order)
	}
	return &order, nil
}

func (s *OrderService) StatsForUser(userID uint) (*OrderStats, error) {
	var stats OrderStats
	base := func() *gorm.DB { return s.DB.Model(&models.Order{}).Where("user_id = ?", userID) }

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, utils.Internal("failed to count orders", err)
	}
	if err := base().Where("status = ?", models.StatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, utils.Internal("failed to count orders", err)
	}
	if err := base().Where("status = ?", models.StatusDelivered).Count(&stats.Delivered).Error; err != nil {
		return nil, utils.Internal("failed to count orders", err)
	}
	return &stats, nil
}
