package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"gudangsewa-backend/internal/security"
	"gudangsewa-backend/internal/service"
)

// NewRouter wires all API routes. Everything under /api/v1 except login and
// the catalog requires a valid access token; return processing and penalty
// listing additionally require the admin role.
func NewRouter(
	tokens security.TokenManager,
	auth service.AuthService,
	catalog service.CatalogService,
	rentals service.RentalService,
	settlements service.SettlementService,
) http.Handler {
	authHandler := NewAuthHandler(auth)
	catalogHandler := NewCatalogHandler(catalog)
	rentalHandler := NewRentalHandler(rentals)
	settlementHandler := NewSettlementHandler(settlements)

	r := mux.NewRouter()
	r.Use(RequestID)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/items", catalogHandler.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", catalogHandler.GetItem).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(Authenticator(tokens))
	authed.HandleFunc("/cart", rentalHandler.GetCart).Methods(http.MethodGet)
	authed.HandleFunc("/cart/items", rentalHandler.AddItem).Methods(http.MethodPost)
	authed.HandleFunc("/cart/items/{itemId}", rentalHandler.UpdateItem).Methods(http.MethodPut)
	authed.HandleFunc("/cart/items/{itemId}", rentalHandler.RemoveItem).Methods(http.MethodDelete)
	authed.HandleFunc("/orders/checkout", rentalHandler.Checkout).Methods(http.MethodPost)
	authed.HandleFunc("/orders", rentalHandler.ListOrders).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id}", rentalHandler.GetOrder).Methods(http.MethodGet)

	admin := authed.NewRoute().Subrouter()
	admin.Use(RequireAdmin)
	admin.HandleFunc("/orders/{id}/return", settlementHandler.ProcessReturn).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{id}/penalties", settlementHandler.ListPenalties).Methods(http.MethodGet)

	return r
}
