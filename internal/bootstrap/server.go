package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/skybooker/api"
	"github.com/mpopescu/skybooker/config"
	"github.com/mpopescu/skybooker/internal/service/auth"
	"github.com/mpopescu/skybooker/internal/service/cart"
	"github.com/mpopescu/skybooker/internal/service/flights"
	"github.com/mpopescu/skybooker/internal/service/orders"
	"github.com/mpopescu/skybooker/internal/service/users"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Auth    auth.AuthUseCase
	Users   users.UserUseCase
	Flights flights.FlightUseCase
	Cart    cart.CartUseCase
	Orders  orders.OrderUseCase
}

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	authMW := api.AuthRequired(svc.Auth)
	adminMW := api.AdminRequired()

	api.NewAuthHandler(svc.Auth, svc.Users).Register(router.Group("/auth"), authMW)
	api.NewUserHandler(svc.Users).Register(router.Group("/users", authMW))
	api.NewFlightHandler(svc.Flights).Register(router.Group("/flights"), authMW, adminMW)
	api.NewCartHandler(svc.Cart).Register(router.Group("/cart", authMW))
	api.NewBookingHandler(svc.Orders).Register(router.Group("/bookings", authMW))

	return router
}
