package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/events"
	"github.com/spec-kit/farmstore-service/internal/testutil"
)

func newPaymentFixture() (*PaymentService, *testutil.Uploader, *eventLog) {
	uploader := &testutil.Uploader{URL: "https://media.example.com/proof.jpg"}
	log := &eventLog{}
	dispatcher := events.NewInMemoryDispatcher()
	events.SubscribeAll(dispatcher, log.handle)
	svc := NewPaymentService(PaymentDependencies{
		PaymentRepo: testutil.NewPayments(testutil.NewClock()),
		Uploader:    uploader,
		Dispatcher:  dispatcher,
	})
	return svc, uploader, log
}

func TestSubmitPayment(t *testing.T) {
	svc, uploader, log := newPaymentFixture()
	ctx := context.Background()
	amount := 499.0

	payment, err := svc.Submit(ctx, PaymentInput{
		OrderNumber:  " ORD-1 ",
		CustomerName: "Meera",
		Amount:       &amount,
		Method:       "UPI",
		Proof:        image("proof.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", payment.OrderNumber)
	assert.Equal(t, domain.PaymentUPI, payment.Method)
	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.Equal(t, "https://media.example.com/proof.jpg", payment.ProofURL)
	assert.Len(t, uploader.Calls, 1)
	assert.Equal(t, []events.EventType{events.EventPaymentSubmitted}, log.types())

	noMethod, err := svc.Submit(ctx, PaymentInput{OrderNumber: "ORD-2", Proof: image("p.jpg")})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentUnknown, noMethod.Method)
}

func TestSubmitPaymentValidation(t *testing.T) {
	svc, uploader, _ := newPaymentFixture()
	ctx := context.Background()

	_, err := svc.Submit(ctx, PaymentInput{Proof: image("p.jpg")})
	requireCode(t, err, "VALIDATION_FAILED")
	_, err = svc.Submit(ctx, PaymentInput{OrderNumber: "ORD-1"})
	requireCode(t, err, "VALIDATION_FAILED")
	_, err = svc.Submit(ctx, PaymentInput{OrderNumber: "ORD-1", Method: "cash", Proof: image("p.jpg")})
	requireCode(t, err, "VALIDATION_FAILED")
	assert.Empty(t, uploader.Calls)
}

func TestModeratePayment(t *testing.T) {
	svc, _, log := newPaymentFixture()
	ctx := context.Background()
	payment, err := svc.Submit(ctx, PaymentInput{OrderNumber: "ORD-1", Proof: image("p.jpg")})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentApproved, approved.Status)

	rejected, err := svc.Reject(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRejected, rejected.Status)

	_, err = svc.Approve(ctx, "bad-id")
	requireCode(t, err, "NOT_FOUND")

	require.NoError(t, svc.Delete(ctx, payment.ID))
	requireCode(t, svc.Delete(ctx, payment.ID), "NOT_FOUND")

	assert.Equal(t, []events.EventType{
		events.EventPaymentSubmitted,
		events.EventPaymentModerated,
		events.EventPaymentModerated,
	}, log.types())
}
