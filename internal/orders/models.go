package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrTotalsMismatch = errors.New("order totals mismatch")

type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Status        Status          `json:"status"` // lihat status.go
	IsPaid        bool            `json:"isPaid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	PaymentResult *PaymentResult  `json:"paymentResult,omitempty"`
	DeliveredAt   *time.Time      `json:"deliveredAt,omitempty"`
	Items         []OrderItem     `json:"orderItems"`
	ItemsPrice    decimal.Decimal `json:"itemsPrice"`
	TaxPrice      decimal.Decimal `json:"taxPrice"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	Image     string          `json:"image,omitempty"`
}

// PaymentResult is the gateway reference attached on payment confirmation.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"updateTime,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// CheckTotals reports a data-integrity error when the persisted total is not
// the sum of its parts. The total is never recomputed here.
func (o Order) CheckTotals() error {
	sum := o.ItemsPrice.Add(o.TaxPrice).Add(o.ShippingPrice)
	if !sum.Equal(o.TotalPrice) {
		return fmt.Errorf("%w: order %s total %s != items %s + tax %s + shipping %s",
			ErrTotalsMismatch, o.ID, o.TotalPrice, o.ItemsPrice, o.TaxPrice, o.ShippingPrice)
	}
	return nil
}

func (o Order) PaymentState() PaymentState { return PaymentStateOf(o.IsPaid) }

type Filter struct {
	Search string
	Status Status
	IsPaid *bool
	Sort   string // "newest" | "oldest" | "total"
	Page   int
	Limit  int
}

type Page struct {
	Orders []Order `json:"orders"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
	Total  int     `json:"total"`
}

type Stats struct {
	TotalOrders  int             `json:"totalOrders"`
	ByStatus     map[Status]int  `json:"byStatus"`
	PaidOrders   int             `json:"paidOrders"`
	UnpaidOrders int             `json:"unpaidOrders"`
	Revenue      decimal.Decimal `json:"revenue"`
}
