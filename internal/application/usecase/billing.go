package usecase

import (
	"context"
	"log"
	"time"

	"learnhub/internal/domain"

	"github.com/google/uuid"
)

type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	List(ctx context.Context, status string, limit, offset int) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	GetAllPlans(ctx context.Context) ([]domain.Plan, error)
	GetPlansByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Plan, error)
}

type CourseBatchReader interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error)
}

type MembershipWriter interface {
	UpdateMembership(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type Enroller interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) error
}

type ReceiptSender interface {
	SendOrderReceipt(toEmail, orderID string, totalCents int) error
}

type CheckoutItem struct {
	CourseID *uuid.UUID `json:"course_id,omitempty"`
	PlanID   *uuid.UUID `json:"plan_id,omitempty"`
}

type BillingUseCase struct {
	orders      OrderStore
	courses     CourseBatchReader
	memberships MembershipWriter
	enrollments Enroller
	receipts    ReceiptSender
}

func NewBillingUseCase(o OrderStore, c CourseBatchReader, m MembershipWriter, e Enroller, r ReceiptSender) *BillingUseCase {
	return &BillingUseCase{orders: o, courses: c, memberships: m, enrollments: e, receipts: r}
}

// Checkout собирает заказ из корзины. Цены берем из БД на момент оформления,
// клиентским не верим. Заказ уходит в pending, квитанция — письмом.
func (uc *BillingUseCase) Checkout(ctx context.Context, userID uuid.UUID, billingName, billingEmail string, items []CheckoutItem) (*domain.Order, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if len(items) == 0 || billingEmail == "" {
		return nil, domain.ErrValidation
	}

	var courseIDs, planIDs []uuid.UUID
	for _, item := range items {
		// Ровно одна цель на позицию
		if (item.CourseID == nil) == (item.PlanID == nil) {
			return nil, domain.ErrValidation
		}
		if item.CourseID != nil {
			courseIDs = append(courseIDs, *item.CourseID)
		} else {
			planIDs = append(planIDs, *item.PlanID)
		}
	}

	courses, err := uc.courses.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	plans, err := uc.orders.GetPlansByIDs(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	if len(courses) != len(courseIDs) || len(plans) != len(planIDs) {
		return nil, domain.ErrNotFound
	}

	order := &domain.Order{
		ID:           uuid.New(),
		UserID:       userID,
		Status:       domain.OrderPending,
		BillingName:  billingName,
		BillingEmail: billingEmail,
	}

	for _, c := range courses {
		id := c.ID
		order.Items = append(order.Items, domain.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			CourseID:   &id,
			Title:      c.Title,
			PriceCents: c.PriceCents,
		})
		order.TotalCents += c.PriceCents
	}
	for _, p := range plans {
		id := p.ID
		order.Items = append(order.Items, domain.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			PlanID:     &id,
			Title:      p.Name,
			PriceCents: p.PriceCents,
		})
		order.TotalCents += p.PriceCents
	}

	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	go func() {
		if err := uc.receipts.SendOrderReceipt(billingEmail, order.ID.String(), order.TotalCents); err != nil {
			log.Printf("ERROR: failed to send receipt for order %s: %v", order.ID, err)
		}
	}()

	return order, nil
}

func (uc *BillingUseCase) MyOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return uc.orders.ListByUser(ctx, userID)
}

func (uc *BillingUseCase) Plans(ctx context.Context) ([]domain.Plan, error) {
	return uc.orders.GetAllPlans(ctx)
}

func (uc *BillingUseCase) ListOrders(ctx context.Context, status string, limit, offset int) ([]domain.Order, int64, error) {
	return uc.orders.List(ctx, status, limit, offset)
}

// UpdateOrderStatus (админка). На completed выдаем купленное:
// курсы — записью на курс, тарифы — обновлением профиля.
func (uc *BillingUseCase) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus string) error {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !domain.ValidOrderTransition(order.Status, newStatus) {
		return domain.ErrValidation
	}

	if err := uc.orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return err
	}
	if newStatus != domain.OrderCompleted {
		return nil
	}

	for _, item := range order.Items {
		if item.CourseID != nil {
			if err := uc.enrollments.Enroll(ctx, order.UserID, *item.CourseID); err != nil {
				log.Printf("ERROR: order %s: failed to enroll course %s: %v", orderID, *item.CourseID, err)
			}
		}
		if item.PlanID != nil {
			if err := uc.applyPlan(ctx, order.UserID, *item.PlanID); err != nil {
				log.Printf("ERROR: order %s: failed to apply plan %s: %v", orderID, *item.PlanID, err)
			}
		}
	}
	return nil
}

func (uc *BillingUseCase) applyPlan(ctx context.Context, userID, planID uuid.UUID) error {
	plans, err := uc.orders.GetPlansByIDs(ctx, []uuid.UUID{planID})
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return domain.ErrNotFound
	}
	plan := plans[0]

	updates := map[string]interface{}{"user_type": plan.UserType}
	if plan.DurationDays > 0 {
		updates["membership_expires_at"] = time.Now().AddDate(0, 0, plan.DurationDays)
	} else {
		// lifetime — без срока
		updates["membership_expires_at"] = nil
	}
	return uc.memberships.UpdateMembership(ctx, userID, updates)
}
