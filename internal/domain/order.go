package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// Тариф подписки, который можно купить. DurationDays = 0 — бессрочно (lifetime).
type Plan struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"unique;not null" json:"name"`
	Description  string    `json:"description"`
	UserType     string    `gorm:"not null" json:"user_type"` // какой тариф выдаем после оплаты
	PriceCents   int       `gorm:"not null" json:"price_cents"`
	DurationDays int       `gorm:"default:30" json:"duration_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

type Order struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	Status     string `gorm:"default:'pending';index" json:"status"`
	TotalCents int    `gorm:"not null" json:"total_cents"`

	// Снапшот платежных данных на момент заказа
	BillingName  string `json:"billing_name"`
	BillingEmail string `json:"billing_email"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// Позиция заказа: либо курс, либо тариф.
type OrderItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`

	CourseID *uuid.UUID `gorm:"type:uuid" json:"course_id,omitempty"`
	PlanID   *uuid.UUID `gorm:"type:uuid" json:"plan_id,omitempty"`

	Title      string `json:"title"` // кешируем название на момент покупки
	PriceCents int    `gorm:"not null" json:"price_cents"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Допустимые переходы статуса заказа: pending -> processing -> completed,
// отмена возможна пока заказ не завершен.
func ValidOrderTransition(from, to string) bool {
	switch from {
	case OrderPending:
		return to == OrderProcessing || to == OrderCompleted || to == OrderCancelled
	case OrderProcessing:
		return to == OrderCompleted || to == OrderCancelled
	default:
		return false
	}
}
