package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/events"
)

func newTransferFixture(t *testing.T) *workflowFixture {
	f := newWorkflowFixture(t)
	f.addStaff(t, "A", true)
	f.addStaff(t, "B", true)
	f.addStaff(t, "C", true)
	f.addStaff(t, "Z", false)
	return f
}

func TestProposeAndAccept(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")

	transfer, err := f.transferSvc.Propose(ctx, "A", "ORD-1", " b ")
	require.NoError(t, err)
	assert.Equal(t, domain.TransferPending, transfer.Status)
	assert.Equal(t, "B", transfer.ToStaff)
	assert.Nil(t, transfer.DecidedAt)

	accepted, err := f.transferSvc.Accept(ctx, "B", transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferAccepted, accepted.Status)
	require.NotNil(t, accepted.DecidedAt)

	holder, err := f.assignments.GetActiveByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "B", holder.StaffCode)
	assert.Equal(t, 1, f.assignments.ActiveCount("ORD-1"))

	_, err = f.transferSvc.Accept(ctx, "B", transfer.ID)
	requireCode(t, err, "VALIDATION_FAILED")

	assert.Equal(t, []events.EventType{
		events.EventAssignmentClaimed,
		events.EventTransferProposed,
		events.EventTransferAccepted,
	}, f.log.types())
}

func TestProposeRequiresOwnership(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	_, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	requireCode(t, err, "FORBIDDEN")

	f.claim(t, "C", "ORD-1")
	_, err = f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	requireCode(t, err, "FORBIDDEN")
}

func TestProposeValidatesTarget(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")

	tests := []struct {
		name string
		to   string
	}{
		{"missing", ""},
		{"self", "a"},
		{"unknown", "NOPE"},
		{"inactive", "Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.transferSvc.Propose(ctx, "A", "ORD-1", tt.to)
			requireCode(t, err, "VALIDATION_FAILED")
		})
	}
	all, err := f.transferSvc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProposeSinglePendingPerOrder(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")

	_, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	require.NoError(t, err)
	_, err = f.transferSvc.Propose(ctx, "A", "ORD-1", "C")
	requireCode(t, err, "CONFLICT")
}

func TestAcceptChecks(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")
	transfer, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	require.NoError(t, err)

	_, err = f.transferSvc.Accept(ctx, "C", transfer.ID)
	requireCode(t, err, "FORBIDDEN")

	_, err = f.transferSvc.Accept(ctx, "B", "not-a-uuid")
	requireCode(t, err, "NOT_FOUND")

	_, err = f.transferSvc.Accept(ctx, "B", "7f1f3f0e-8d5b-4a55-9b55-1f9f0c2d6a11")
	requireCode(t, err, "NOT_FOUND")

	holder, err := f.assignments.GetActiveByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "A", holder.StaffCode)
}

func TestAcceptConflictWhenThirdPartyHolds(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")
	transfer, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	require.NoError(t, err)

	// ownership moved out of band
	_, err = f.assignmentSvc.Complete(ctx, "A", "ORD-1")
	require.NoError(t, err)
	f.claim(t, "C", "ORD-1")

	_, err = f.transferSvc.Accept(ctx, "B", transfer.ID)
	requireCode(t, err, "CONFLICT")

	holder, err := f.assignments.GetActiveByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "C", holder.StaffCode)
	stored, err := f.transfers.GetByID(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferPending, stored.Status)
}

func TestAcceptConflictWhenReleased(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")
	transfer, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	require.NoError(t, err)
	_, err = f.assignmentSvc.Complete(ctx, "A", "ORD-1")
	require.NoError(t, err)

	_, err = f.transferSvc.Accept(ctx, "B", transfer.ID)
	requireCode(t, err, "CONFLICT")
}

func TestAcceptRetryAfterPartialFailure(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")
	transfer, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	require.NoError(t, err)

	f.transfers.DecideErr = errors.New("connection reset")
	_, err = f.transferSvc.Accept(ctx, "B", transfer.ID)
	requireCode(t, err, "INTERNAL_ERROR")

	holder, err := f.assignments.GetActiveByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "A", holder.StaffCode)

	accepted, err := f.transferSvc.Accept(ctx, "B", transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferAccepted, accepted.Status)
	assert.Equal(t, 1, f.assignments.ActiveCount("ORD-1"))
}

func TestAcceptRetryAfterInterruptedHandshake(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")
	transfer, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	require.NoError(t, err)

	// ledger moved, request never marked
	_, err = f.assignments.Reassign(ctx, "ORD-1", "A", "B")
	require.NoError(t, err)

	accepted, err := f.transferSvc.Accept(ctx, "B", transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferAccepted, accepted.Status)
	holder, err := f.assignments.GetActiveByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "B", holder.StaffCode)
}

func TestAcceptLosingToConcurrentRejectRestoresHolder(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")
	transfer, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	require.NoError(t, err)

	// the reject lands after Accept reassigned the ledger but before it marks the request
	f.transfers.BeforeDecide = func() {
		f.transfers.BeforeDecide = nil
		_, rejectErr := f.transferSvc.Reject(ctx, "B", transfer.ID)
		require.NoError(t, rejectErr)
	}

	_, err = f.transferSvc.Accept(ctx, "B", transfer.ID)
	requireCode(t, err, "VALIDATION_FAILED")

	stored, err := f.transfers.GetByID(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferRejected, stored.Status)
	holder, err := f.assignments.GetActiveByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "A", holder.StaffCode)
	assert.Equal(t, 1, f.assignments.ActiveCount("ORD-1"))
	assert.NotContains(t, f.log.types(), events.EventTransferAccepted)
}

func TestRejectLeavesLedger(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")
	transfer, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	require.NoError(t, err)

	_, err = f.transferSvc.Reject(ctx, "A", transfer.ID)
	requireCode(t, err, "FORBIDDEN")

	rejected, err := f.transferSvc.Reject(ctx, "B", transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferRejected, rejected.Status)
	require.NotNil(t, rejected.DecidedAt)

	_, err = f.transferSvc.Accept(ctx, "B", transfer.ID)
	requireCode(t, err, "VALIDATION_FAILED")

	holder, err := f.assignments.GetActiveByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "A", holder.StaffCode)

	// a fresh proposal is allowed once the previous one is decided
	_, err = f.transferSvc.Propose(ctx, "A", "ORD-1", "C")
	require.NoError(t, err)
}

func TestListMineCoversBothSides(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	f.claim(t, "A", "ORD-1")
	f.claim(t, "C", "ORD-2")
	_, err := f.transferSvc.Propose(ctx, "A", "ORD-1", "B")
	require.NoError(t, err)
	_, err = f.transferSvc.Propose(ctx, "C", "ORD-2", "A")
	require.NoError(t, err)

	mine, err := f.transferSvc.ListMine(ctx, "A")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "ORD-2", mine[0].OrderNumber)

	theirs, err := f.transferSvc.ListMine(ctx, "B")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "ORD-1", theirs[0].OrderNumber)
}
