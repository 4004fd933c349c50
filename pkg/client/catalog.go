package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type ServiceListOptions struct {
	Page     int
	PageSize int
	Q        string
	MinPrice string
	MaxPrice string
	Sort     string
}

func (c *Client) ListServices(ctx context.Context, opts ServiceListOptions) (Paginated[Service], error) {
	q := pageQuery(opts.Page, opts.PageSize)
	if opts.Q != "" {
		q.Set("q", opts.Q)
	}
	if opts.MinPrice != "" {
		q.Set("min_price", opts.MinPrice)
	}
	if opts.MaxPrice != "" {
		q.Set("max_price", opts.MaxPrice)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}

	var out Paginated[Service]
	if err := c.do(ctx, http.MethodGet, "/api/services", q, nil, &out); err != nil {
		return Paginated[Service]{}, err
	}
	return out, nil
}

func (c *Client) GetService(ctx context.Context, id int64) (Service, error) {
	var out Service
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/services/%d", id), nil, nil, &out); err != nil {
		return Service{}, err
	}
	return out, nil
}

type ServiceInput struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	DurationHours int64  `json:"duration_hours"`
}

func (c *Client) CreateService(ctx context.Context, in ServiceInput) (Service, error) {
	var out Service
	if err := c.do(ctx, http.MethodPost, "/api/services", nil, in, &out); err != nil {
		return Service{}, err
	}
	return out, nil
}

func (c *Client) ListExecutors(ctx context.Context, page, pageSize int, search string) (Paginated[Executor], error) {
	q := pageQuery(page, pageSize)
	if search != "" {
		q.Set("q", search)
	}

	var out Paginated[Executor]
	if err := c.do(ctx, http.MethodGet, "/api/executors", q, nil, &out); err != nil {
		return Paginated[Executor]{}, err
	}
	return out, nil
}

func (c *Client) GetExecutor(ctx context.Context, id int64) (Executor, error) {
	var out Executor
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/executors/%d", id), nil, nil, &out); err != nil {
		return Executor{}, err
	}
	return out, nil
}

func (c *Client) ListNews(ctx context.Context, page, pageSize int) (Paginated[News], error) {
	var out Paginated[News]
	if err := c.do(ctx, http.MethodGet, "/api/news", pageQuery(page, pageSize), nil, &out); err != nil {
		return Paginated[News]{}, err
	}
	return out, nil
}

func (c *Client) ListPortfolios(ctx context.Context, page, pageSize int, executorID *int64) (Paginated[Portfolio], error) {
	q := pageQuery(page, pageSize)
	if executorID != nil {
		q.Set("executor_id", fmt.Sprintf("%d", *executorID))
	}

	var out Paginated[Portfolio]
	if err := c.do(ctx, http.MethodGet, "/api/portfolios", q, nil, &out); err != nil {
		return Paginated[Portfolio]{}, err
	}
	return out, nil
}

func (c *Client) ListReviews(ctx context.Context, page, pageSize int, executorID *int64) (Paginated[Review], error) {
	q := pageQuery(page, pageSize)
	if executorID != nil {
		q.Set("executor_id", fmt.Sprintf("%d", *executorID))
	}

	var out Paginated[Review]
	if err := c.do(ctx, http.MethodGet, "/api/reviews", q, nil, &out); err != nil {
		return Paginated[Review]{}, err
	}
	return out, nil
}

type CreateReviewInput struct {
	ExecutorID int64  `json:"executor_id"`
	OrderID    *int64 `json:"order_id,omitempty"`
	Rating     int64  `json:"rating"`
	Comment    string `json:"comment"`
}

func (c *Client) CreateReview(ctx context.Context, in CreateReviewInput) (Review, error) {
	var out Review
	if err := c.do(ctx, http.MethodPost, "/api/reviews", nil, in, &out); err != nil {
		return Review{}, err
	}
	return out, nil
}

type CreateOrderInput struct {
	ServiceID   int64      `json:"service_id"`
	ExecutorID  *int64     `json:"executor_id,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, in, &out); err != nil {
		return Order{}, err
	}
	return out, nil
}

func (c *Client) ListOrders(ctx context.Context, page, pageSize int, status string) (Paginated[Order], error) {
	q := pageQuery(page, pageSize)
	if status != "" {
		q.Set("status", status)
	}

	var out Paginated[Order]
	if err := c.do(ctx, http.MethodGet, "/api/orders", q, nil, &out); err != nil {
		return Paginated[Order]{}, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, nil, &out); err != nil {
		return Order{}, err
	}
	return out, nil
}

func (c *Client) MarkOrderProcessing(ctx context.Context, id int64) (Order, error) {
	return c.orderAction(ctx, id, "mark-processing")
}

func (c *Client) MarkOrderCompleted(ctx context.Context, id int64) (Order, error) {
	return c.orderAction(ctx, id, "mark-completed")
}

func (c *Client) CancelOrder(ctx context.Context, id int64) (Order, error) {
	return c.orderAction(ctx, id, "cancel")
}

func (c *Client) orderAction(ctx context.Context, id int64, action string) (Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/%s", id, action), nil, nil, &out); err != nil {
		return Order{}, err
	}
	return out, nil
}

func (c *Client) ListOrderStatuses(ctx context.Context) ([]OrderStatus, error) {
	var out []OrderStatus
	if err := c.do(ctx, http.MethodGet, "/api/order-statuses", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMessages(ctx context.Context, page, pageSize int, onlyUnread bool) (Paginated[Message], error) {
	q := pageQuery(page, pageSize)
	if onlyUnread {
		q.Set("unread", "true")
	}

	var out Paginated[Message]
	if err := c.do(ctx, http.MethodGet, "/api/messages", q, nil, &out); err != nil {
		return Paginated[Message]{}, err
	}
	return out, nil
}

func (c *Client) SendMessage(ctx context.Context, receiverID int64, content string) (Message, error) {
	body := map[string]interface{}{"receiver_id": receiverID, "content": content}
	var out Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", nil, body, &out); err != nil {
		return Message{}, err
	}
	return out, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, id int64) (Message, error) {
	var out Message
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/messages/%d/mark-read", id), nil, nil, &out); err != nil {
		return Message{}, err
	}
	return out, nil
}
