package models

// CartLineItem is one line of a cart. UnitPrice and Title are snapshots taken
// when the item was first added, so a later catalog edit does not change what
// the customer saw.
type CartLineItem struct {
	ProductID string  `json:"product_id" firestore:"productId"`
	Title     string  `json:"title"      firestore:"title"`
	UnitPrice float64 `json:"unit_price" firestore:"unitPrice"`
	Quantity  int     `json:"quantity"   firestore:"quantity"`
}

func (i CartLineItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// CartSnapshot is an immutable value of the full cart at one instant.
// Items keep insertion order; ItemCount and Total are derived on every
// mutation and never stored independently of the items.
type CartSnapshot struct {
	Items     []CartLineItem `json:"items"`
	ItemCount int            `json:"item_count"`
	Total     float64        `json:"total"`
}

func (s CartSnapshot) Empty() bool {
	return len(s.Items) == 0
}

// Find returns the line for productID and whether it exists.
func (s CartSnapshot) Find(productID string) (CartLineItem, bool) {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return it, true
		}
	}

	return CartLineItem{}, false
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type UpdateCartQuantityRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"min=0"`
}
