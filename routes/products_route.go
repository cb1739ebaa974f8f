package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/SanathRai33/RaiZen-Server/controllers/products"
)

func ProductsRoute(app *fiber.App, pc *controllers.ProductController) {
	app.Post("/products/insert", pc.AddProduct)
	app.Get("/products", pc.GetProducts)

	// Filter routes are registered before the id route so "filter" is
	// never captured as a product id.
	app.Get("/products/filter/offer/products", pc.GetActiveOffers)
	app.Get("/products/filter/new-arrivals", pc.GetNewArrivals)

	app.Get("/products/:id", pc.GetProduct)
	app.Put("/products/:id", pc.UpdateProduct)
	app.Delete("/products/:id", pc.DeleteProduct)
	app.Post("/products/:id/reviews", pc.AddReview)
}
