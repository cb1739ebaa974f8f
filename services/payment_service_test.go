package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SanathRai33/RaiZen-Server/models"
)

const testKeySecret = "rzp-test-secret"

type paymentFixture struct {
	svc      *PaymentService
	payments *memoryPaymentRepo
	users    *memoryUserRepo
	products *memoryProductRepo
	gateway  *stubGateway
	user     models.User
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	payments := newMemoryPaymentRepo()
	users := newMemoryUserRepo()
	products := newMemoryProductRepo()
	gateway := &stubGateway{response: map[string]interface{}{
		"id":     "order_test123",
		"status": "created",
	}}

	product, err := products.Insert(context.Background(), models.Product{
		Name:       "Trail Runner",
		Price:      4999,
		Discount:   10,
		FinalPrice: 4500,
	})
	require.NoError(t, err)

	user, err := users.Insert(context.Background(), models.User{
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Address: models.Address{
			Street:  "12 MG Road",
			City:    "Bengaluru",
			Country: "India",
		},
		Cart: []models.CartItem{
			{ProductID: product.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	svc, err := NewPaymentService(PaymentServiceDeps{
		Payments:         payments,
		Users:            users,
		Products:         products,
		Gateway:          gateway,
		KeySecret:        testKeySecret,
		Clock:            fixedClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		ReceiptGenerator: func() string { return "receipt_fixed" },
	})
	require.NoError(t, err)

	return &paymentFixture{svc: svc, payments: payments, users: users, products: products, gateway: gateway, user: user}
}

func TestCreateOrderConvertsToMinorUnits(t *testing.T) {
	f := newPaymentFixture(t)

	order, err := f.svc.CreateOrder(context.Background(), CreateOrderCommand{
		UserID: f.user.ID.Hex(),
		Amount: 999.50,
	})
	require.NoError(t, err)
	assert.Equal(t, "order_test123", order["id"])

	require.NotNil(t, f.gateway.lastData)
	assert.Equal(t, int64(99950), f.gateway.lastData["amount"])
	assert.Equal(t, "INR", f.gateway.lastData["currency"])
	assert.Equal(t, "receipt_fixed", f.gateway.lastData["receipt"])
}

func TestCreateOrderRoundsInexactAmounts(t *testing.T) {
	f := newPaymentFixture(t)

	// Amounts without an exact binary representation must round to the
	// nearest paisa, never truncate one short.
	cases := []struct {
		amount float64
		want   int64
	}{
		{19.99, 1999},
		{0.29, 29},
		{1.005, 100}, // 1.005 is stored as 1.00499…; ×100 rounds to 100
		{100.10, 10010},
	}
	for _, tc := range cases {
		_, err := f.svc.CreateOrder(context.Background(), CreateOrderCommand{
			UserID: f.user.ID.Hex(),
			Amount: tc.amount,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, f.gateway.lastData["amount"], "amount %v", tc.amount)
	}
}

func TestCreateOrderHonorsExplicitCurrencyAndReceipt(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderCommand{
		UserID:   f.user.ID.Hex(),
		Amount:   100,
		Currency: "USD",
		Receipt:  "receipt_custom",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", f.gateway.lastData["currency"])
	assert.Equal(t, "receipt_custom", f.gateway.lastData["receipt"])
}

func TestCreateOrderPersistsSnapshot(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderCommand{
		UserID: f.user.ID.Hex(),
		Amount: 9000,
	})
	require.NoError(t, err)

	payment, err := f.payments.FindByOrderID(context.Background(), "order_test123")
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, payment.UserID)
	assert.Equal(t, models.PaymentStatusCreated, payment.PaymentStatus)
	assert.Equal(t, float64(9000), payment.Amount)
	assert.Equal(t, "Razorpay", payment.PaymentMethod)
	assert.Equal(t, "Bengaluru", payment.Address.City)

	require.Len(t, payment.Products, 1)
	assert.Equal(t, "Trail Runner", payment.Products[0].Name)
	assert.Equal(t, int64(4500), payment.Products[0].Price)
	assert.Equal(t, 2, payment.Products[0].Quantity)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderCommand{UserID: f.user.ID.Hex(), Amount: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateOrder(context.Background(), CreateOrderCommand{UserID: "bogus", Amount: 100})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateOrder(context.Background(), CreateOrderCommand{UserID: primitive.NewObjectID().Hex(), Amount: 100})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.err = errors.New("gateway down")

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderCommand{
		UserID: f.user.ID.Hex(),
		Amount: 100,
	})
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = f.payments.FindByOrderID(context.Background(), "order_test123")
	assert.Error(t, err)
}

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentAcceptsValidSignature(t *testing.T) {
	f := newPaymentFixture(t)
	_, err := f.svc.CreateOrder(context.Background(), CreateOrderCommand{UserID: f.user.ID.Hex(), Amount: 100})
	require.NoError(t, err)

	err = f.svc.VerifyPayment(context.Background(), VerifyPaymentCommand{
		OrderID:   "order_test123",
		PaymentID: "pay_abc",
		Signature: signPayment("order_test123", "pay_abc"),
	})
	require.NoError(t, err)

	payment, err := f.payments.FindByOrderID(context.Background(), "order_test123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, payment.PaymentStatus)
	assert.Equal(t, "pay_abc", payment.PaymentID)
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	f := newPaymentFixture(t)
	_, err := f.svc.CreateOrder(context.Background(), CreateOrderCommand{UserID: f.user.ID.Hex(), Amount: 100})
	require.NoError(t, err)

	err = f.svc.VerifyPayment(context.Background(), VerifyPaymentCommand{
		OrderID:   "order_test123",
		PaymentID: "pay_abc",
		Signature: "forged",
	})
	assert.ErrorIs(t, err, ErrValidation)

	payment, err := f.payments.FindByOrderID(context.Background(), "order_test123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, payment.PaymentStatus)
}

func TestVerifyPaymentRequiresAllFields(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.svc.VerifyPayment(context.Background(), VerifyPaymentCommand{OrderID: "order_test123"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.svc.VerifyPayment(context.Background(), VerifyPaymentCommand{
		OrderID:   "order_missing",
		PaymentID: "pay_abc",
		Signature: signPayment("order_missing", "pay_abc"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
