package services

import (
	"database/sql"
	"errors"

	"threadline/internal/apperr"
	"threadline/internal/domain"
	"threadline/internal/repos"
)

// CartService builds and edits the session cart. The cart itself lives in
// the session; this service only knows how to snapshot catalog state into
// cart lines.
type CartService struct {
	Prods *repos.ProductRepo
}

func NewCartService(prods *repos.ProductRepo) *CartService { return &CartService{Prods: prods} }

// BuildItem freezes the chosen option of a product into a cart line: name,
// option label, price and thumbnail as they are right now.
func (s *CartService) BuildItem(productID int64, optionIndex int) (domain.CartItem, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartItem{}, apperr.NotFound("Product not found.")
		}
		return domain.CartItem{}, apperr.Storage("Failed to load the product.", err)
	}
	if len(p.Options) == 0 {
		return domain.CartItem{}, apperr.Validation("No options available for this product.")
	}
	if optionIndex < 0 || optionIndex >= len(p.Options) {
		return domain.CartItem{}, apperr.Validation("Invalid option selected.")
	}
	opt := p.Options[optionIndex]
	item := domain.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Option:    opt.Name,
		Price:     opt.Price,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}
	return item, nil
}

// RemoveIndex drops one line from the cart, in place ordering preserved.
func RemoveIndex(items []domain.CartItem, index int) ([]domain.CartItem, error) {
	if index < 0 || index >= len(items) {
		return nil, apperr.Validation("Invalid cart item index.")
	}
	return append(items[:index], items[index+1:]...), nil
}
