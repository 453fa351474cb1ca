package api

import (
	"context"
	"fmt"
	"net/url"
)

// OrdersAPI groups the purchase endpoints.
type OrdersAPI struct {
	c *Client
}

// Orders returns the order endpoint group.
func (c *Client) Orders() *OrdersAPI {
	return &OrdersAPI{c: c}
}

// Create opens an order for a book.
func (o *OrdersAPI) Create(ctx context.Context, bookID, productID string) (*Order, error) {
	env, err := o.c.Post(ctx, "/orders", map[string]string{
		"bookId":    bookID,
		"productId": productID,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("create order", env)
	}
	order, err := DataAs[Order](env)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Checkout creates a payment session for the order and returns the URL
// the user's browser must visit to pay.
func (o *OrdersAPI) Checkout(ctx context.Context, orderID, returnURL string) (string, error) {
	env, err := o.c.Post(ctx, fmt.Sprintf("/orders/%s/checkout", orderID), map[string]string{
		"returnUrl": returnURL,
	})
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", failure("create checkout", env)
	}
	cs, err := DataAs[CheckoutSession](env)
	if err != nil {
		return "", err
	}
	return cs.CheckoutURL, nil
}

// ListByBook returns all orders placed for a book.
func (o *OrdersAPI) ListByBook(ctx context.Context, bookID string) ([]Order, error) {
	env, err := o.c.Get(ctx, "/orders?bookId="+url.QueryEscape(bookID))
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("list orders", env)
	}
	orders, err := DataAs[[]Order](env)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// IsPaid reports whether any order for the book reached a paid state.
func (o *OrdersAPI) IsPaid(ctx context.Context, bookID string) (bool, error) {
	orders, err := o.ListByBook(ctx, bookID)
	if err != nil {
		return false, err
	}
	for _, order := range orders {
		if order.Paid() {
			return true, nil
		}
	}
	return false, nil
}
