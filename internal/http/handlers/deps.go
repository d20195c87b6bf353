package handlers

import (
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jmoiron/sqlx"

	"threadline/internal/media"
	"threadline/internal/repos"
	"threadline/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AdminProducts  *AdminProductHandler
	AdminOrders    *AdminOrderHandler
}

func NewDeps(db *sqlx.DB, store *session.Store, mediaStore *media.Store) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	authSvc := services.NewAuthService(userRepo)
	catalogSvc := services.NewCatalogService(prodRepo, mediaStore)
	cartSvc := services.NewCartService(prodRepo)
	orderSvc := services.NewOrderService(userRepo, orderRepo)

	return &Deps{
		AuthHandler:    &AuthHandler{Auth: authSvc, Store: store},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc, Store: store},
		OrderHandler:   &OrderHandler{Order: orderSvc, Store: store},
		AdminProducts:  &AdminProductHandler{Catalog: catalogSvc, Media: mediaStore},
		AdminOrders:    &AdminOrderHandler{Order: orderSvc},
	}
}
