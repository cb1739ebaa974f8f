package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/SanathRai33/RaiZen-Server/responses"
	"github.com/SanathRai33/RaiZen-Server/services"
)

func (uc *UserController) GetCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	cart, err := uc.accounts.Cart(ctx, c.Params("id"))
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Successfully fetched cart", &fiber.Map{"cart": cart})
}

// UpdateCart replaces the whole cart: prior state is discarded, not
// merged.
func (uc *UserController) UpdateCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	var reqBody struct {
		CartItems []services.CartItemInput `json:"cartItems"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.BadRequest(c, "Invalid request format")
	}

	cart, err := uc.accounts.ReplaceCart(ctx, c.Params("id"), reqBody.CartItems)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Cart updated successfully", &fiber.Map{"cart": cart})
}

func (uc *UserController) GetAllCarts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	carts, err := uc.accounts.AllCarts(ctx)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Successfully fetched all carts", &fiber.Map{"carts": carts})
}

func (uc *UserController) GetWishlist(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return responses.Unauthorized(c, "User ID not found in token")
	}

	products, err := uc.accounts.Wishlist(ctx, userID)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Successfully fetched wishlist", &fiber.Map{"wishlist": products})
}

// ToggleWishlist adds the product when absent and removes it when
// present.
func (uc *UserController) ToggleWishlist(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return responses.Unauthorized(c, "User ID not found in token")
	}

	added, wishlist, err := uc.accounts.ToggleWishlist(ctx, userID, c.Params("id"))
	if err != nil {
		return responses.Err(c, err)
	}

	message := "Removed from wishlist"
	if added {
		message = "Added to wishlist"
	}
	return responses.OK(c, message, &fiber.Map{"wishlist": wishlist})
}
