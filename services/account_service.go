package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/SanathRai33/RaiZen-Server/mailer"
	"github.com/SanathRai33/RaiZen-Server/models"
	"github.com/SanathRai33/RaiZen-Server/repositories"
)

const (
	tokenTTL       = 7 * 24 * time.Hour
	resetTokenTTL  = 15 * time.Minute
	minPasswordLen = 6
	defaultRole    = "user"
	defaultCountry = "India"
)

var (
	emailRegex = regexp.MustCompile(`^(([^<>()[\]\.,;:\s@\"]+(\.[^<>()[\]\.,;:\s@\"]+)*)|(\".+\"))@(([^<>()[\]\.,;:\s@\"]+\.)+[^<>()[\]\.,;:\s@\"]{2,})$`)
	phoneRegex = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Notifier enqueues a best-effort email without blocking.
type Notifier interface {
	Enqueue(msg mailer.Message) bool
}

// AccountServiceDeps bundles the collaborators of an AccountService.
type AccountServiceDeps struct {
	Users       repositories.UserRepository
	Products    repositories.ProductRepository
	TokenSecret string
	ClientURL   string
	Notifier    Notifier
	Clock       func() time.Time
	// TokenGenerator produces password-reset tokens. Defaults to 32
	// random bytes hex encoded.
	TokenGenerator func() string
}

// AccountService owns registration, authentication, profile, password
// reset, cart and wishlist operations.
type AccountService struct {
	users     repositories.UserRepository
	products  repositories.ProductRepository
	secret    []byte
	clientURL string
	notifier  Notifier
	now       func() time.Time
	newToken  func() string
	locks     *keyedMutex
}

func NewAccountService(deps AccountServiceDeps) (*AccountService, error) {
	if deps.Users == nil {
		return nil, errors.New("account service: user repository is required")
	}
	if deps.Products == nil {
		return nil, errors.New("account service: product repository is required")
	}
	if deps.TokenSecret == "" {
		return nil, errors.New("account service: token secret is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	tokenGen := deps.TokenGenerator
	if tokenGen == nil {
		tokenGen = randomResetToken
	}
	return &AccountService{
		users:     deps.Users,
		products:  deps.Products,
		secret:    []byte(deps.TokenSecret),
		clientURL: deps.ClientURL,
		notifier:  deps.Notifier,
		now:       clock,
		newToken:  tokenGen,
		locks:     newKeyedMutex(),
	}, nil
}

func randomResetToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// RegisterCommand carries a registration payload.
type RegisterCommand struct {
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Phone    string              `json:"phone"`
	Password string              `json:"password"`
	Address  models.AddressPatch `json:"address"`
}

// Register creates the account and issues a session token. Fails with
// ErrConflict when the email or phone is already taken.
func (s *AccountService) Register(ctx context.Context, cmd RegisterCommand) (models.User, string, error) {
	if err := validateRegistration(cmd); err != nil {
		return models.User{}, "", err
	}
	email := normalizeEmail(cmd.Email)

	exists, err := s.users.ExistsByEmailOrPhone(ctx, email, cmd.Phone)
	if err != nil {
		return models.User{}, "", fmt.Errorf("%w: checking user existence: %v", ErrUpstream, err)
	}
	if exists {
		return models.User{}, "", fmt.Errorf("%w: email or phone already in use", ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("%w: hashing password: %v", ErrUpstream, err)
	}

	now := s.now()
	address := cmd.Address.Apply(models.Address{Country: defaultCountry})
	user := models.User{
		Name:      cmd.Name,
		Email:     email,
		Phone:     cmd.Phone,
		Password:  string(hashed),
		Role:      defaultRole,
		Address:   address,
		Cart:      []models.CartItem{},
		Wishlist:  []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("%w: saving user: %v", ErrUpstream, err)
	}

	token, err := s.signToken(created)
	if err != nil {
		return models.User{}, "", err
	}
	return created, token, nil
}

func validateRegistration(cmd RegisterCommand) error {
	switch {
	case cmd.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case !emailRegex.MatchString(cmd.Email):
		return fmt.Errorf("%w: please enter a valid email address", ErrValidation)
	case !phoneRegex.MatchString(cmd.Phone):
		return fmt.Errorf("%w: phone must be a valid 10-digit mobile number", ErrValidation)
	case len(cmd.Password) < minPasswordLen:
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	return nil
}

// Login verifies credentials and issues a session token. A login alert
// email is enqueued best-effort; its fate never affects the login.
func (s *AccountService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("%w: fetching user: %v", ErrUpstream, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.signToken(user)
	if err != nil {
		return models.User{}, "", err
	}

	if s.notifier != nil {
		s.notifier.Enqueue(mailer.Message{
			To:      user.Email,
			Subject: "RaiZen Login Alert",
			Text:    fmt.Sprintf("Hi %s, you just logged into your RaiZen account.", user.Name),
			HTML:    mailer.LoginAlertHTML(user.Name),
		})
	}

	return user, token, nil
}

func (s *AccountService) signToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID.Hex(),
		"email": user.Email,
		"role":  user.Role,
		"exp":   s.now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %v", ErrUpstream, err)
	}
	return signed, nil
}

func (s *AccountService) Profile(ctx context.Context, userID string) (models.User, error) {
	objectID, err := parseObjectID(userID)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.users.FindByID(ctx, objectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%w: fetching user: %v", ErrUpstream, err)
	}
	return user, nil
}

// UpdateProfileCommand carries a partial profile update. Only supplied
// scalar fields overwrite; address fields are merged shallowly.
type UpdateProfileCommand struct {
	Name    *string              `json:"name"`
	Phone   *string              `json:"phone"`
	Address *models.AddressPatch `json:"address"`
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, cmd UpdateProfileCommand) (models.User, error) {
	objectID, err := parseObjectID(userID)
	if err != nil {
		return models.User{}, err
	}
	if cmd.Phone != nil && !phoneRegex.MatchString(*cmd.Phone) {
		return models.User{}, fmt.Errorf("%w: phone must be a valid 10-digit mobile number", ErrValidation)
	}
	if cmd.Name != nil && *cmd.Name == "" {
		return models.User{}, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}

	unlock := s.locks.lock("user:" + userID)
	defer unlock()

	user, err := s.users.FindByID(ctx, objectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%w: fetching user: %v", ErrUpstream, err)
	}

	upd := models.UserProfileUpdate{Name: cmd.Name, Phone: cmd.Phone}
	if cmd.Address != nil {
		merged := cmd.Address.Apply(user.Address)
		upd.Address = &merged
	}

	updated, err := s.users.UpdateProfile(ctx, objectID, upd, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%w: updating profile: %v", ErrUpstream, err)
	}
	return updated, nil
}

// RequestPasswordReset stores a fresh reset token with a 15-minute
// expiry and emails the reset link out-of-band.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: no account for that email", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: fetching user: %v", ErrUpstream, err)
	}

	token := s.newToken()
	expiry := s.now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return fmt.Errorf("%w: storing reset token: %v", ErrUpstream, err)
	}

	if s.notifier != nil {
		resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
		s.notifier.Enqueue(mailer.Message{
			To:      user.Email,
			Subject: "Password Reset Request",
			Text:    fmt.Sprintf("Reset your password using the following link: %s", resetURL),
		})
	}
	return nil
}

// ResetPassword consumes a reset token. Expired or already-used tokens
// fail with ErrInvalidToken.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("%w", ErrInvalidToken)
	}
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	user, err := s.users.FindByResetToken(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w", ErrInvalidToken)
	}
	if err != nil {
		return fmt.Errorf("%w: fetching user: %v", ErrUpstream, err)
	}
	if user.ResetTokenExpiry == nil || !user.ResetTokenExpiry.After(s.now()) {
		return fmt.Errorf("%w", ErrInvalidToken)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: hashing password: %v", ErrUpstream, err)
	}
	if err := s.users.SetPassword(ctx, user.ID, string(hashed), s.now()); err != nil {
		return fmt.Errorf("%w: saving password: %v", ErrUpstream, err)
	}
	return nil
}

func (s *AccountService) Cart(ctx context.Context, userID string) ([]models.CartItem, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Cart == nil {
		return []models.CartItem{}, nil
	}
	return user.Cart, nil
}

// CartItemInput is one entry of a cart replacement payload.
type CartItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ReplaceCart overwrites the whole cart. Prior state is discarded and
// every entry, changed or not, gets addedAt set to now.
func (s *AccountService) ReplaceCart(ctx context.Context, userID string, items []CartItemInput) ([]models.CartItem, error) {
	objectID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cart := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid product id %q", ErrValidation, item.ProductID)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		cart = append(cart, models.CartItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			AddedAt:   now,
		})
	}

	unlock := s.locks.lock("user:" + userID)
	defer unlock()

	err = s.users.SetCart(ctx, objectID, cart, now)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: updating cart: %v", ErrUpstream, err)
	}
	return cart, nil
}

// Wishlist resolves the user's wishlist product references.
func (s *AccountService) Wishlist(ctx context.Context, userID string) ([]models.Product, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindByIDs(ctx, user.Wishlist)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving wishlist: %v", ErrUpstream, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// ToggleWishlist flips set membership of productID in the user's
// wishlist. The operation is idempotent per presence check: the same
// call adds when absent and removes when present.
func (s *AccountService) ToggleWishlist(ctx context.Context, userID, productID string) (bool, []primitive.ObjectID, error) {
	objectID, err := parseObjectID(userID)
	if err != nil {
		return false, nil, err
	}
	productObjectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return false, nil, fmt.Errorf("%w: invalid product id", ErrValidation)
	}

	unlock := s.locks.lock("user:" + userID)
	defer unlock()

	user, err := s.users.FindByID(ctx, objectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return false, nil, fmt.Errorf("%w: fetching user: %v", ErrUpstream, err)
	}

	wishlist := make([]primitive.ObjectID, 0, len(user.Wishlist)+1)
	added := true
	for _, id := range user.Wishlist {
		if id == productObjectID {
			added = false
			continue
		}
		wishlist = append(wishlist, id)
	}
	if added {
		wishlist = append(wishlist, productObjectID)
	}

	if err := s.users.SetWishlist(ctx, objectID, wishlist, s.now()); err != nil {
		return false, nil, fmt.Errorf("%w: updating wishlist: %v", ErrUpstream, err)
	}
	return added, wishlist, nil
}

// ResolvedCartItem is a cart entry with its product details resolved.
type ResolvedCartItem struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	AddedAt  time.Time      `json:"addedAt"`
}

// UserCart is one user's resolved cart in the administrative listing.
type UserCart struct {
	UserID string             `json:"userId"`
	Cart   []ResolvedCartItem `json:"cart"`
}

// AllCarts enumerates every user's cart with product details resolved.
func (s *AccountService) AllCarts(ctx context.Context) ([]UserCart, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching users: %v", ErrUpstream, err)
	}

	idSet := make(map[primitive.ObjectID]struct{})
	for _, user := range users {
		for _, item := range user.Cart {
			idSet[item.ProductID] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving cart products: %v", ErrUpstream, err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	carts := make([]UserCart, 0, len(users))
	for _, user := range users {
		resolved := make([]ResolvedCartItem, 0, len(user.Cart))
		for _, item := range user.Cart {
			product, ok := byID[item.ProductID]
			if !ok {
				// Product deleted since it was carted; skip the stale entry.
				continue
			}
			resolved = append(resolved, ResolvedCartItem{
				Product:  product,
				Quantity: item.Quantity,
				AddedAt:  item.AddedAt,
			})
		}
		carts = append(carts, UserCart{UserID: user.ID.Hex(), Cart: resolved})
	}
	return carts, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
