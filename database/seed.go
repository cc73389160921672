package database

import (
	"fmt"

	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

type seedMenuItem struct {
	name, description string
	price             float64
}

type seedRestaurant struct {
	name, description, image, cuisine, location string
	ownerEmail                                  string
	category                                    string
	items                                       []seedMenuItem
}

var seedCategories = []models.Category{
	{Name: "Pizza", Slug: "pizza", Image: strPtr("https://images.unsplash.com/photo-1513104890138-7c749659a591")},
	{Name: "Burgers", Slug: "burgers", Image: strPtr("https://images.unsplash.com/photo-1568901346375-23c9450c58cd")},
	{Name: "Sushi", Slug: "sushi", Image: strPtr("https://images.unsplash.com/photo-1579584425555-c3ce17fd4351")},
	{Name: "Pasta", Slug: "pasta", Image: strPtr("https://images.unsplash.com/photo-1621996346565-e3dbc646d9a9")},
	{Name: "Asian", Slug: "asian", Image: strPtr("https://images.unsplash.com/photo-1617093727343-374698b1b08d")},
	{Name: "Desserts", Slug: "desserts", Image: strPtr("https://images.unsplash.com/photo-1551024506-0bccd828d307")},
}

var seedRestaurants = []seedRestaurant{
	{
		name: "Pizza Palace", description: "Authentic Italian pizza with fresh ingredients",
		image: "https://images.unsplash.com/photo-1555396273-367ea4eb4db5", cuisine: "Italian", location: "Downtown",
		ownerEmail: "staff@example.com", category: "pizza",
		items: []seedMenuItem{
			{"Margherita Pizza", "Classic pizza with tomato, mozzarella, and basil", 12.99},
			{"Pepperoni Pizza", "Pizza topped with pepperoni and cheese", 14.99},
			{"Vegetarian Pizza", "Fresh vegetables with mozzarella on thin crust", 13.99},
			{"BBQ Chicken Pizza", "BBQ sauce, grilled chicken, red onions, and cilantro", 15.99},
			{"Hawaiian Pizza", "Ham, pineapple, and mozzarella cheese", 13.99},
		},
	},
	{
		name: "Burger Haven", description: "Gourmet burgers made to perfection",
		image: "https://images.unsplash.com/photo-1571091718767-18b5b1457add", cuisine: "American", location: "City Center",
		ownerEmail: "staff@example.com", category: "burgers",
		items: []seedMenuItem{
			{"Classic Beef Burger", "Juicy beef patty with lettuce, tomato, and cheese", 10.99},
			{"Chicken Burger", "Grilled chicken breast with special sauce", 9.99},
			{"Veggie Burger", "Plant-based patty with fresh vegetables", 11.99},
			{"Double Bacon Burger", "Two beef patties with crispy bacon and cheddar", 13.99},
			{"Mushroom Swiss Burger", "Beef patty with sautéed mushrooms and Swiss cheese", 12.99},
		},
	},
	{
		name: "Sushi Master", description: "Fresh sushi and Japanese cuisine",
		image: "https://images.unsplash.com/photo-1579584425555-c3ce17fd4351", cuisine: "Japanese", location: "Westside",
		ownerEmail: "admin@example.com", category: "sushi",
		items: []seedMenuItem{
			{"California Roll", "Crab, avocado, and cucumber", 8.99},
			{"Salmon Nigiri", "Fresh salmon on rice", 12.99},
			{"Tuna Roll", "Fresh tuna with rice and nori", 10.99},
			{"Spicy Salmon Roll", "Salmon with spicy mayo and cucumber", 11.99},
			{"Dragon Roll", "Eel, cucumber, and avocado with special sauce", 14.99},
		},
	},
	{
		name: "Pasta Paradise", description: "Homemade pasta and Italian delicacies",
		image: "https://images.unsplash.com/photo-1621996346565-e3dbc646d9a9", cuisine: "Italian", location: "Eastside",
		ownerEmail: "admin@example.com", category: "pasta",
		items: []seedMenuItem{
			{"Spaghetti Carbonara", "Creamy pasta with bacon and parmesan", 13.99},
			{"Fettuccine Alfredo", "Rich and creamy alfredo sauce", 12.99},
			{"Penne Arrabbiata", "Spicy tomato sauce with penne pasta", 11.99},
			{"Lasagna Bolognese", "Layered pasta with meat sauce and béchamel", 14.99},
			{"Seafood Linguine", "Linguine with shrimp, mussels, and clams in white wine sauce", 16.99},
			{"Ravioli al Tartufo", "Cheese ravioli with truffle cream sauce", 17.99},
			{"Spaghetti Bolognese", "Traditional meat sauce with spaghetti", 12.99},
			{"Pesto Genovese", "Fresh basil pesto with pine nuts and parmesan", 13.99},
		},
	},
}

func strPtr(s string) *string { return &s }

// Seed fills an empty database with demo accounts, catalog and two orders.
// It does nothing when any user already exists.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		utils.InfoLogger.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		users := []models.User{
			{Name: "Admin User", Email: "admin@example.com", Password: string(hash), Role: models.RoleAdmin},
			{Name: "Staff User", Email: "staff@example.com", Password: string(hash), Role: models.RoleStaff},
			{Name: "John Doe", Email: "customer@example.com", Password: string(hash), Role: models.RoleCustomer},
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		byEmail := make(map[string]uint, len(users))
		for _, u := range users {
			byEmail[u.Email] = u.ID
		}

		categories := make([]models.Category, len(seedCategories))
		copy(categories, seedCategories)
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		bySlug := make(map[string]uint, len(categories))
		for _, c := range categories {
			bySlug[c.Slug] = c.ID
		}

		menuByName := make(map[string]models.MenuItem)
		restaurantIDs := make(map[string]uint)
		for _, sr := range seedRestaurants {
			restaurant := models.Restaurant{
				Name:        sr.name,
				Description: sr.description,
				Image:       strPtr(sr.image),
				Cuisine:     strPtr(sr.cuisine),
				Location:    strPtr(sr.location),
				IsActive:    true,
				OwnerID:     byEmail[sr.ownerEmail],
			}
			if err := tx.Create(&restaurant).Error; err != nil {
				return fmt.Errorf("seed restaurant %s: %w", sr.name, err)
			}
			restaurantIDs[sr.name] = restaurant.ID

			categoryID := bySlug[sr.category]
			for _, si := range sr.items {
				item := models.MenuItem{
					Name:         si.name,
					Description:  si.description,
					Price:        si.price,
					IsAvailable:  true,
					RestaurantID: restaurant.ID,
					CategoryID:   &categoryID,
				}
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("seed menu item %s: %w", si.name, err)
				}
				menuByName[si.name] = item
			}
		}

		customerID := byEmail["customer@example.com"]
		orders := []models.Order{
			{
				UserID:       customerID,
				RestaurantID: restaurantIDs["Pizza Palace"],
				Total:        27.98,
				Status:       models.StatusDelivered,
				OrderItems: []models.OrderItem{
					{MenuItemID: menuByName["Margherita Pizza"].ID, Quantity: 1, Price: 12.99},
					{MenuItemID: menuByName["Pepperoni Pizza"].ID, Quantity: 1, Price: 14.99},
				},
			},
			{
				UserID:       customerID,
				RestaurantID: restaurantIDs["Burger Haven"],
				Total:        20.98,
				Status:       models.StatusPreparing,
				OrderItems: []models.OrderItem{
					{MenuItemID: menuByName["Classic Beef Burger"].ID, Quantity: 2, Price: 10.99},
				},
			},
		}
		if err := tx.Create(&orders).Error; err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}

		utils.InfoLogger.WithFields(map[string]interface{}{
			"users":       len(users),
			"restaurants": len(restaurantIDs),
			"menu_items":  len(menuByName),
			"orders":      len(orders),
		}).Info("database seeded")
		return nil
	})
}
