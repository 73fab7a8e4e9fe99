package handlers

import (
	"github.com/jmoiron/sqlx"

	"tiflisi/internal/config"
	"tiflisi/internal/kvstore"
	"tiflisi/internal/repos"
	"tiflisi/internal/services"
)

// Backends are the pluggable outer dependencies. Nil fields fall back to
// sqlite session storage, local media, the TBC Pay simulator and a disabled
// stylist.
type Backends struct {
	KV       kvstore.Backend
	Media    services.MediaStore
	Stylist  services.Generator
	Payments services.PaymentGateway
}

type Deps struct {
	CookieSecure bool

	Auth     *services.AuthService
	Chrome   *Chrome
	Catalog  *CatalogHandler
	Inv      *InventoryHandler
	Cart     *CartHandler
	Favs     *FavoritesHandler
	Orders   *OrderHandler
	AuthH    *AuthHandler
	Profile  *ProfileHandler
	Stylist  *StylistHandler
	Pages    *PagesHandler
	Admin    *AdminHandler
	Products *AdminProductHandler
	Settings *AdminSettingsHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, b Backends) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	if b.KV == nil {
		b.KV = kvstore.NewSQLite(repos.NewKVRepo(db))
	}
	if b.Media == nil {
		b.Media = services.LocalMedia{Dir: cfg.MediaDir}
	}
	if b.Payments == nil {
		b.Payments = services.TBCPaySimulator{}
	}

	authSvc := &services.AuthService{Users: userRepo}
	settingsSvc := services.NewSettingsService(repos.NewSettingsRepo(db))
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	invSvc := services.NewInventoryService(invRepo)
	cartSvc := services.NewCartService(b.KV, prodRepo)
	favSvc := services.NewFavoritesService(b.KV, prodRepo)
	orderSvc := services.NewOrderService(orderRepo)
	checkoutSvc := services.NewCheckoutService(orderRepo, settingsSvc, b.Payments)
	userSvc := services.NewUserService(userRepo, orderRepo)
	contactSvc := &services.ContactService{Repo: repos.NewContactRepo(db)}
	mediaSvc := &services.MediaService{Store: b.Media}
	stylistSvc := &services.StylistService{Gen: b.Stylist}

	return &Deps{
		CookieSecure: cfg.CookieSecure,
		Auth:         authSvc,
		Chrome:       &Chrome{Cart: cartSvc, Favs: favSvc, Settings: settingsSvc},
		Catalog:      &CatalogHandler{Catalog: catalogSvc, Inv: invSvc, Favs: favSvc},
		Inv:          &InventoryHandler{Inv: invSvc},
		Cart:         &CartHandler{Cart: cartSvc, Settings: settingsSvc},
		Favs:         &FavoritesHandler{Favs: favSvc},
		Orders:       &OrderHandler{Cart: cartSvc, Checkout: checkoutSvc, Orders: orderSvc, Settings: settingsSvc},
		AuthH:        &AuthHandler{Auth: authSvc},
		Profile:      &ProfileHandler{Users: userSvc, Auth: authSvc, Orders: orderSvc},
		Stylist:      &StylistHandler{Stylist: stylistSvc},
		Pages:        &PagesHandler{Contact: contactSvc},
		Admin: &AdminHandler{
			Orders:    orderSvc,
			Inv:       invRepo,
			Users:     userSvc,
			Analytics: &services.AnalyticsService{Prods: prodRepo, Orders: orderRepo, Users: userRepo},
			Contact:   contactSvc,
		},
		Products: &AdminProductHandler{
			Catalog: catalogSvc,
			Admin:   &services.ProductAdminService{Prods: prodRepo},
			Media:   mediaSvc,
		},
		Settings: &AdminSettingsHandler{Settings: settingsSvc, Media: mediaSvc},
	}
}
