package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SanathRai33/RaiZen-Server/responses"
	"github.com/SanathRai33/RaiZen-Server/services"
)

const requestTimeout = 10 * time.Second

// PaymentController exposes order initiation and verification.
type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

func (pc *PaymentController) CreateOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return responses.Unauthorized(c, "User ID not found in token")
	}

	var cmd services.CreateOrderCommand
	if err := c.BodyParser(&cmd); err != nil {
		return responses.BadRequest(c, "Invalid request body")
	}
	cmd.UserID = userID

	order, err := pc.payments.CreateOrder(ctx, cmd)
	if err != nil {
		return responses.Err(c, err)
	}
	// The gateway's order descriptor is returned verbatim.
	return responses.OK(c, "Order created successfully", &fiber.Map{"order": order})
}

func (pc *PaymentController) VerifyPayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	var cmd services.VerifyPaymentCommand
	if err := c.BodyParser(&cmd); err != nil {
		return responses.BadRequest(c, "Invalid request body")
	}

	if err := pc.payments.VerifyPayment(ctx, cmd); err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Payment verified successfully", &fiber.Map{
		"orderId":   cmd.OrderID,
		"paymentId": cmd.PaymentID,
	})
}
