package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/events"
	"github.com/spec-kit/farmstore-service/internal/testutil"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) handle(_ context.Context, event events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *eventLog) types() []events.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.EventType, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

type workflowFixture struct {
	clock       *testutil.Clock
	assignments *testutil.Assignments
	transfers   *testutil.Transfers
	actions     *testutil.Actions
	orders      *testutil.Orders
	staff       *testutil.Staff
	log         *eventLog

	assignmentSvc *AssignmentService
	transferSvc   *TransferService
	statusSvc     *StatusService
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	clock := testutil.NewClock()
	f := &workflowFixture{
		clock:       clock,
		assignments: testutil.NewAssignments(clock),
		transfers:   testutil.NewTransfers(clock),
		actions:     testutil.NewActions(clock),
		orders:      testutil.NewOrders(nil),
		staff:       testutil.NewStaff(clock),
		log:         &eventLog{},
	}
	f.orders.Attach(f.actions, f.assignments)
	dispatcher := events.NewInMemoryDispatcher()
	events.SubscribeAll(dispatcher, f.log.handle)
	logger := zap.NewNop()

	f.assignmentSvc = NewAssignmentService(AssignmentDependencies{
		AssignmentRepo: f.assignments,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	f.transferSvc = NewTransferService(TransferDependencies{
		TransferRepo:   f.transfers,
		AssignmentRepo: f.assignments,
		StaffRepo:      f.staff,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	f.statusSvc = NewStatusService(StatusDependencies{
		OrderRepo:         f.orders,
		ActionRepo:        f.actions,
		AssignmentService: f.assignmentSvc,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	return f
}

func (f *workflowFixture) addStaff(t *testing.T, code string, active bool) {
	t.Helper()
	err := f.staff.Create(context.Background(), &domain.StaffMember{
		Name:         "Staff " + code,
		Username:     "user-" + code,
		PasswordHash: "x",
		StaffCode:    code,
		Active:       active,
	})
	require.NoError(t, err)
}

func (f *workflowFixture) claim(t *testing.T, staffCode, orderNumber string) *domain.StaffAssignment {
	t.Helper()
	assignment, err := f.assignmentSvc.Claim(context.Background(), staffCode, ClaimInput{OrderNumber: orderNumber})
	require.NoError(t, err)
	return assignment
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	require.Equal(t, code, domainErr.Code, err.Error())
}
