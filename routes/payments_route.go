package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/SanathRai33/RaiZen-Server/controllers/payments"
)

func PaymentsRoute(app *fiber.App, pc *controllers.PaymentController, protect fiber.Handler) {
	app.Post("/payments/create-order", protect, pc.CreateOrder)
	app.Post("/payments/verify-payment", protect, pc.VerifyPayment)
}
