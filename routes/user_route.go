package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/SanathRai33/RaiZen-Server/controllers/users"
	"github.com/SanathRai33/RaiZen-Server/middlewares"
)

func UserRoute(app *fiber.App, uc *controllers.UserController, protect fiber.Handler) {
	app.Post("/api/users/register", uc.Register)
	app.Post("/api/users/login", uc.Login)
	app.Get("/api/users/profile", protect, uc.GetProfile)
	app.Put("/api/users/profile", protect, uc.UpdateProfile)
	app.Post("/api/users/request-reset", uc.RequestPasswordReset)
	app.Post("/api/users/reset-password/:token", uc.ResetPassword)

	app.Get("/api/users/carts", protect, middlewares.AdminOnly(), uc.GetAllCarts)
	app.Get("/api/users/wishlist", protect, uc.GetWishlist)
	app.Post("/api/users/wishlist/:id", protect, uc.ToggleWishlist)
	app.Put("/api/users/wishlist/:id", protect, uc.ToggleWishlist)

	app.Get("/api/users/:id/cart", uc.GetCart)
	app.Put("/api/users/:id/cart", uc.UpdateCart)
}
