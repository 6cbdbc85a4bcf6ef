package service

import (
	"errors"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// CartService keeps the invariant that every unit on a cart line is
// backed by stock reserved when the line was created or grown. Prices
// are frozen per line and re-aligned with the current discount on
// every cart read.
type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID, productID uint, size, color string, quantity int) (*model.CartItem, error)
	UpdateCartItem(userID, cartItemID uint, quantity int) error
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	stock       StockService
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	stock StockService,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		stock:       stock,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	// Re-freeze each line at the product's current effective price so a
	// discount created or withdrawn after the add is reflected. The
	// reserved quantity is never touched here.
	for i := range cartItems {
		item := &cartItems[i]
		if item.Product.ID == 0 {
			continue
		}
		current := item.Product.EffectivePrice()
		if item.Price == current {
			continue
		}
		logger.Debug("Reconciling cart line price", map[string]interface{}{
			"cart_item_id": item.ID,
			"old_price":    item.Price,
			"new_price":    current,
		})
		item.Price = current
		item.TotalPrice = current * float64(item.Quantity)
		if err := s.cartRepo.Update(item); err != nil {
			logger.Error("Failed to reconcile cart line price", err, map[string]interface{}{
				"cart_item_id": item.ID,
			})
			return nil, err
		}
	}

	logger.Info("User cart fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (s *cartService) AddToCart(userID, productID uint, size, color string, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"size":       size,
		"color":      color,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByIDWithVariants(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	// Reserve before touching the cart line. A failed reservation must
	// leave the cart exactly as it was.
	if err := s.stock.Reserve(productID, size, color, quantity); err != nil {
		logger.Warn("Cart add rejected by stock reservation", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return nil, err
	}

	existing, err := s.cartRepo.FindByKey(userID, productID, size, color)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.rollbackReservation(productID, size, color, quantity)
		return nil, err
	}

	if existing != nil {
		existing.Quantity += quantity
		existing.TotalPrice = existing.Price * float64(existing.Quantity)
		if err := s.cartRepo.Update(existing); err != nil {
			s.rollbackReservation(productID, size, color, quantity)
			return nil, err
		}
		return existing, nil
	}

	item := &model.CartItem{
		UserID:     userID,
		ProductID:  productID,
		Size:       size,
		Color:      color,
		Price:      product.EffectivePrice(),
		Quantity:   quantity,
		TotalPrice: product.EffectivePrice() * float64(quantity),
	}
	if err := s.cartRepo.Create(item); err != nil {
		s.rollbackReservation(productID, size, color, quantity)
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"cart_item_id": item.ID,
		"user_id":      userID,
		"product_id":   productID,
	})
	return item, nil
}

func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) error {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	if quantity < 0 {
		logger.Warn("Rejecting negative cart quantity", map[string]interface{}{
			"cart_item_id": cartItemID,
			"quantity":     quantity,
		})
		return ErrInvalidQuantity
	}

	item, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	if item.UserID != userID {
		logger.Warn("Cart item does not belong to user", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
		})
		return ErrCartItemNotFound
	}

	if quantity == 0 {
		return s.RemoveFromCart(userID, cartItemID)
	}

	delta := quantity - item.Quantity
	switch {
	case delta > 0:
		if err := s.stock.Reserve(item.ProductID, item.Size, item.Color, delta); err != nil {
			logger.Warn("Cart update rejected by stock reservation, line unchanged", map[string]interface{}{
				"cart_item_id": cartItemID,
				"delta":        delta,
			})
			return err
		}
	case delta < 0:
		if err := s.stock.Release(item.ProductID, item.Size, item.Color, -delta); err != nil {
			return err
		}
	default:
		return nil
	}

	item.Quantity = quantity
	item.TotalPrice = item.Price * float64(quantity)
	if err := s.cartRepo.Update(item); err != nil {
		return err
	}

	logger.Info("Cart item quantity updated", map[string]interface{}{
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})
	return nil
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	item, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	if item.UserID != userID {
		return ErrCartItemNotFound
	}

	if err := s.stock.Release(item.ProductID, item.Size, item.Color, item.Quantity); err != nil {
		logger.Error("Failed to release stock for removed cart line", err, map[string]interface{}{
			"cart_item_id": cartItemID,
			"quantity":     item.Quantity,
		})
		return err
	}

	return s.cartRepo.Delete(cartItemID)
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.stock.Release(item.ProductID, item.Size, item.Color, item.Quantity); err != nil {
			logger.Error("Failed to release stock while clearing cart", err, map[string]interface{}{
				"cart_item_id": item.ID,
			})
			return err
		}
	}
	return s.cartRepo.DeleteByUserID(userID)
}

func (s *cartService) rollbackReservation(productID uint, size, color string, quantity int) {
	if err := s.stock.Release(productID, size, color, quantity); err != nil {
		logger.Error("Failed to roll back stock reservation", err, map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
	}
}
