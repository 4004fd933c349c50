package client

import (
	"context"
	"fmt"
	"net/http"
)

// CachedCart は直近に取得したカート。まだ取得していなければnil。
// サーバーが返す度に更新されるので、再取得せずに表示に使える。
func (c *Client) CachedCart() *Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

func (c *Client) setCart(cart Cart) Cart {
	c.mu.Lock()
	c.cart = &cart
	c.mu.Unlock()
	return cart
}

// GetCart はサーバーからカートを取り直してキャッシュを更新する。
func (c *Client) GetCart(ctx context.Context) (Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, nil, &out); err != nil {
		return Cart{}, err
	}
	return c.setCart(out), nil
}

// AddToCart はサービスをカートに入れる。qty<=0なら1扱い。
func (c *Client) AddToCart(ctx context.Context, serviceID, qty int64) (Cart, error) {
	body := map[string]int64{"service_id": serviceID}
	if qty > 0 {
		body["quantity"] = qty
	}

	var out Cart
	if err := c.do(ctx, http.MethodPost, "/api/cart/items", nil, body, &out); err != nil {
		return Cart{}, err
	}
	return c.setCart(out), nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID, qty int64) (Cart, error) {
	body := map[string]int64{"quantity": qty}
	var out Cart
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/cart/items/%d", itemID), nil, body, &out); err != nil {
		return Cart{}, err
	}
	return c.setCart(out), nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) (Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/items/%d", itemID), nil, nil, &out); err != nil {
		return Cart{}, err
	}
	return c.setCart(out), nil
}

func (c *Client) ClearCart(ctx context.Context) (Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodDelete, "/api/cart", nil, nil, &out); err != nil {
		return Cart{}, err
	}
	return c.setCart(out), nil
}
