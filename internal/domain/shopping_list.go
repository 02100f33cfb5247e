package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingList is the parent record of a list aggregate. Items are always
// returned in position order with their product attached.
type ShoppingList struct {
	ID        int64      `json:"id" db:"id"`
	Name      *string    `json:"name,omitempty" db:"name"`
	Completed bool       `json:"completed" db:"completed"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	Items     []ListItem `json:"items" db:"-"`
}

func (l ShoppingList) RecordID() int64 { return l.ID }

// Total sums quantity * unit price over all items.
func (l ShoppingList) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range l.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ProductIDs returns the product of every item in list order.
func (l ShoppingList) ProductIDs() []int64 {
	ids := make([]int64, len(l.Items))
	for i, it := range l.Items {
		ids[i] = it.ProductID
	}
	return ids
}

// ListItem is a child row of a shopping list.
type ListItem struct {
	ID        int64           `json:"id" db:"id"`
	ListID    int64           `json:"listId" db:"list_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Position  int             `json:"position" db:"position"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Product   *Product        `json:"product,omitempty" db:"-"`
}

// Subtotal is quantity * unit price rounded to cents.
func (i ListItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice).Round(2)
}

// Default values applied to items that omit them.
var (
	DefaultItemQuantity  = decimal.NewFromInt(1)
	DefaultItemUnitPrice = decimal.Zero
)
