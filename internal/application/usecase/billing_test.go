package usecase

import (
	"context"
	"testing"

	"learnhub/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	orders map[uuid.UUID]*domain.Order
	plans  map[uuid.UUID]domain.Plan
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[uuid.UUID]*domain.Order),
		plans:  make(map[uuid.UUID]domain.Plan),
	}
}

func (s *fakeOrderStore) Create(_ context.Context, order *domain.Order) error {
	cp := *order
	s.orders[order.ID] = &cp
	return nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) List(_ context.Context, status string, limit, offset int) ([]domain.Order, int64, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *fakeOrderStore) GetAllPlans(_ context.Context) ([]domain.Plan, error) {
	var out []domain.Plan
	for _, p := range s.plans {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeOrderStore) GetPlansByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Plan, error) {
	var out []domain.Plan
	for _, id := range ids {
		if p, ok := s.plans[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCourseBatchReader struct {
	courses map[uuid.UUID]domain.Course
}

func (r *fakeCourseBatchReader) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Course, error) {
	var out []domain.Course
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMembershipWriter struct {
	updates map[uuid.UUID]map[string]interface{}
}

func (w *fakeMembershipWriter) UpdateMembership(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if w.updates == nil {
		w.updates = make(map[uuid.UUID]map[string]interface{})
	}
	w.updates[id] = updates
	return nil
}

type fakeEnroller struct {
	enrolled []enrollKey
}

func (e *fakeEnroller) Enroll(_ context.Context, userID, courseID uuid.UUID) error {
	e.enrolled = append(e.enrolled, enrollKey{userID, courseID})
	return nil
}

type fakeReceiptSender struct {
	sent chan string
}

func (r *fakeReceiptSender) SendOrderReceipt(toEmail, orderID string, totalCents int) error {
	select {
	case r.sent <- orderID:
	default:
	}
	return nil
}

func newBillingFixture() (*BillingUseCase, *fakeOrderStore, *fakeCourseBatchReader, *fakeMembershipWriter, *fakeEnroller) {
	orders := newFakeOrderStore()
	courses := &fakeCourseBatchReader{courses: make(map[uuid.UUID]domain.Course)}
	memberships := &fakeMembershipWriter{}
	enroller := &fakeEnroller{}
	receipts := &fakeReceiptSender{sent: make(chan string, 8)}
	uc := NewBillingUseCase(orders, courses, memberships, enroller, receipts)
	return uc, orders, courses, memberships, enroller
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	uc, orders, courses, _, _ := newBillingFixture()

	courseID := uuid.New()
	courses.courses[courseID] = domain.Course{ID: courseID, Title: "Go с нуля", PriceCents: 4900}
	planID := uuid.New()
	orders.plans[planID] = domain.Plan{ID: planID, Name: "Premium на месяц", UserType: domain.TypePremium, PriceCents: 9900, DurationDays: 30}

	order, err := uc.Checkout(ctx, uuid.New(), "Иван Иванов", "ivan@example.com", []CheckoutItem{
		{CourseID: &courseID},
		{PlanID: &planID},
	})
	require.NoError(t, err)

	// цены серверные, суммируются, статус pending
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, 14800, order.TotalCents)
	assert.Len(t, order.Items, 2)
	assert.Contains(t, orders.orders, order.ID)
}

func TestCheckoutValidation(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _, _ := newBillingFixture()

	_, err := uc.Checkout(ctx, uuid.Nil, "n", "e@x.com", []CheckoutItem{{}})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.Checkout(ctx, uuid.New(), "n", "e@x.com", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// позиция без цели
	_, err = uc.Checkout(ctx, uuid.New(), "n", "e@x.com", []CheckoutItem{{}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// позиция с двумя целями сразу
	courseID, planID := uuid.New(), uuid.New()
	_, err = uc.Checkout(ctx, uuid.New(), "n", "e@x.com", []CheckoutItem{{CourseID: &courseID, PlanID: &planID}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// несуществующий курс
	_, err = uc.Checkout(ctx, uuid.New(), "n", "e@x.com", []CheckoutItem{{CourseID: &courseID}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	uc, orders, courses, memberships, enroller := newBillingFixture()

	user := uuid.New()
	courseID := uuid.New()
	courses.courses[courseID] = domain.Course{ID: courseID, Title: "Курс", PriceCents: 1000}
	planID := uuid.New()
	orders.plans[planID] = domain.Plan{ID: planID, Name: "Lifetime", UserType: domain.TypePro, PriceCents: 50000, DurationDays: 0}

	order, err := uc.Checkout(ctx, user, "n", "e@x.com", []CheckoutItem{
		{CourseID: &courseID},
		{PlanID: &planID},
	})
	require.NoError(t, err)

	// недопустимый переход отклоняется, статус не меняется
	err = uc.UpdateOrderStatus(ctx, order.ID, domain.OrderPending)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.OrderPending, orders.orders[order.ID].Status)

	// completed выдает купленное
	require.NoError(t, uc.UpdateOrderStatus(ctx, order.ID, domain.OrderCompleted))
	assert.Equal(t, domain.OrderCompleted, orders.orders[order.ID].Status)
	require.Len(t, enroller.enrolled, 1)
	assert.Equal(t, enrollKey{user, courseID}, enroller.enrolled[0])

	updates := memberships.updates[user]
	require.NotNil(t, updates)
	assert.Equal(t, domain.TypePro, updates["user_type"])
	// lifetime — срок снимается
	assert.Nil(t, updates["membership_expires_at"])

	// из completed обратной дороги нет
	err = uc.UpdateOrderStatus(ctx, order.ID, domain.OrderCancelled)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateOrderStatusCancelled(t *testing.T) {
	ctx := context.Background()
	uc, _, courses, memberships, enroller := newBillingFixture()

	courseID := uuid.New()
	courses.courses[courseID] = domain.Course{ID: courseID, Title: "Курс", PriceCents: 1000}

	order, err := uc.Checkout(ctx, uuid.New(), "n", "e@x.com", []CheckoutItem{{CourseID: &courseID}})
	require.NoError(t, err)

	// отмена ничего не выдает
	require.NoError(t, uc.UpdateOrderStatus(ctx, order.ID, domain.OrderCancelled))
	assert.Empty(t, enroller.enrolled)
	assert.Empty(t, memberships.updates)
}
