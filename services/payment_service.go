package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SanathRai33/RaiZen-Server/models"
	"github.com/SanathRai33/RaiZen-Server/repositories"
)

const defaultCurrency = "INR"

// GatewayOrderCreator is the slice of the Razorpay client the service
// needs: a single synchronous order-create call.
type GatewayOrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// PaymentServiceDeps bundles the collaborators of a PaymentService.
type PaymentServiceDeps struct {
	Payments  repositories.PaymentRepository
	Users     repositories.UserRepository
	Products  repositories.ProductRepository
	Gateway   GatewayOrderCreator
	KeySecret string
	Clock     func() time.Time
	// ReceiptGenerator produces receipt ids when the caller omits one.
	ReceiptGenerator func() string
}

// PaymentService shapes gateway order requests and records Payment
// snapshots.
type PaymentService struct {
	payments   repositories.PaymentRepository
	users      repositories.UserRepository
	products   repositories.ProductRepository
	gateway    GatewayOrderCreator
	keySecret  []byte
	now        func() time.Time
	newReceipt func() string
}

func NewPaymentService(deps PaymentServiceDeps) (*PaymentService, error) {
	if deps.Payments == nil {
		return nil, errors.New("payment service: payment repository is required")
	}
	if deps.Users == nil {
		return nil, errors.New("payment service: user repository is required")
	}
	if deps.Products == nil {
		return nil, errors.New("payment service: product repository is required")
	}
	if deps.Gateway == nil {
		return nil, errors.New("payment service: gateway is required")
	}
	if deps.KeySecret == "" {
		return nil, errors.New("payment service: key secret is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	receiptGen := deps.ReceiptGenerator
	if receiptGen == nil {
		receiptGen = func() string {
			return "receipt_" + uuid.NewString()
		}
	}
	return &PaymentService{
		payments:   deps.Payments,
		users:      deps.Users,
		products:   deps.Products,
		gateway:    deps.Gateway,
		keySecret:  []byte(deps.KeySecret),
		now:        clock,
		newReceipt: receiptGen,
	}, nil
}

// CreateOrderCommand carries an order-initiation request.
type CreateOrderCommand struct {
	UserID   string
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// CreateOrder converts the amount to minor currency units, creates the
// gateway order in a single synchronous attempt and returns the gateway
// descriptor verbatim. A Payment record snapshotting the user's cart
// and address is persisted with status "created".
func (s *PaymentService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (map[string]interface{}, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	userObjectID, err := parseObjectID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	currency := cmd.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	receipt := cmd.Receipt
	if receipt == "" {
		receipt = s.newReceipt()
	}

	user, err := s.users.FindByID(ctx, userObjectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, cmd.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetching user: %v", ErrUpstream, err)
	}

	snapshot, err := s.snapshotCart(ctx, user.Cart)
	if err != nil {
		return nil, err
	}

	// Rounded, not truncated: 19.99 has no exact binary representation
	// and would otherwise convert to 1998 paise.
	data := map[string]interface{}{
		"amount":   int64(math.Round(cmd.Amount * 100)),
		"currency": currency,
		"receipt":  receipt,
	}
	order, err := s.gateway.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating gateway order: %v", ErrUpstream, err)
	}
	orderID, ok := order["id"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: gateway order response missing id", ErrUpstream)
	}

	payment := models.Payment{
		UserID:        user.ID,
		OrderID:       orderID,
		Amount:        cmd.Amount,
		Currency:      currency,
		PaymentStatus: models.PaymentStatusCreated,
		Products:      snapshot,
		Address:       user.Address,
		PaymentMethod: "Razorpay",
		CreatedAt:     s.now(),
	}
	if _, err := s.payments.Insert(ctx, payment); err != nil {
		return nil, fmt.Errorf("%w: saving payment record: %v", ErrUpstream, err)
	}

	return order, nil
}

// snapshotCart freezes the products in the cart at their current
// name/price: Payment records never hold live references.
func (s *PaymentService) snapshotCart(ctx context.Context, cart []models.CartItem) ([]models.PaymentProduct, error) {
	ids := make([]primitive.ObjectID, 0, len(cart))
	for _, item := range cart {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving cart products: %v", ErrUpstream, err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	snapshot := make([]models.PaymentProduct, 0, len(cart))
	for _, item := range cart {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		snapshot = append(snapshot, models.PaymentProduct{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.FinalPrice,
			Quantity:  item.Quantity,
		})
	}
	return snapshot, nil
}

// VerifyPaymentCommand carries a gateway payment confirmation.
type VerifyPaymentCommand struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// VerifyPayment checks the gateway HMAC signature over
// "orderId|paymentId" and transitions the Payment record to paid. A
// bad signature marks it failed.
func (s *PaymentService) VerifyPayment(ctx context.Context, cmd VerifyPaymentCommand) error {
	if cmd.OrderID == "" || cmd.PaymentID == "" || cmd.Signature == "" {
		return fmt.Errorf("%w: orderId, paymentId and signature are required", ErrValidation)
	}

	mac := hmac.New(sha256.New, s.keySecret)
	mac.Write([]byte(cmd.OrderID + "|" + cmd.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(cmd.Signature)) {
		// Best effort: the record may not exist for a forged order id.
		_ = s.payments.MarkFailed(ctx, cmd.OrderID)
		return fmt.Errorf("%w: invalid payment signature", ErrValidation)
	}

	err := s.payments.MarkPaid(ctx, cmd.OrderID, cmd.PaymentID, cmd.Signature)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: order %s", ErrNotFound, cmd.OrderID)
	}
	if err != nil {
		return fmt.Errorf("%w: updating payment: %v", ErrUpstream, err)
	}
	return nil
}
