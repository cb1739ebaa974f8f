package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SanathRai33/RaiZen-Server/responses"
	"github.com/SanathRai33/RaiZen-Server/services"
)

const requestTimeout = 10 * time.Second

// UserController exposes the account service over HTTP.
type UserController struct {
	accounts *services.AccountService
}

func NewUserController(accounts *services.AccountService) *UserController {
	return &UserController{accounts: accounts}
}

func (uc *UserController) Register(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	var cmd services.RegisterCommand
	if err := c.BodyParser(&cmd); err != nil {
		return responses.BadRequest(c, "Invalid request format")
	}

	user, token, err := uc.accounts.Register(ctx, cmd)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.Created(c, "User registered successfully", &fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (uc *UserController) Login(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	var reqBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.BadRequest(c, "Invalid request format")
	}

	user, token, err := uc.accounts.Login(ctx, reqBody.Email, reqBody.Password)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Login successful", &fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return responses.Unauthorized(c, "User ID not found in token")
	}

	user, err := uc.accounts.Profile(ctx, userID)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Profile fetched successfully", &fiber.Map{"user": user})
}

func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return responses.Unauthorized(c, "User ID not found in token")
	}

	var cmd services.UpdateProfileCommand
	if err := c.BodyParser(&cmd); err != nil {
		return responses.BadRequest(c, "Invalid request format")
	}

	user, err := uc.accounts.UpdateProfile(ctx, userID, cmd)
	if err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Profile updated", &fiber.Map{"user": user})
}

func (uc *UserController) RequestPasswordReset(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	var reqBody struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.BadRequest(c, "Invalid request format")
	}

	if err := uc.accounts.RequestPasswordReset(ctx, reqBody.Email); err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Password reset link sent to email", nil)
}

func (uc *UserController) ResetPassword(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	var reqBody struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.BadRequest(c, "Invalid request format")
	}

	if err := uc.accounts.ResetPassword(ctx, c.Params("token"), reqBody.Password); err != nil {
		return responses.Err(c, err)
	}
	return responses.OK(c, "Password reset successfully", nil)
}
