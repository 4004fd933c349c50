package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"studio/internal/authz"
	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderUsecase は注文のライフサイクル（作成・閲覧・ステータス遷移）。
type OrderUsecase struct {
	tx           repo.TransactionManager
	orderRepo    repo.OrderRepository
	statusRepo   repo.OrderStatusRepository
	serviceRepo  repo.ServiceRepository
	userRepo     repo.UserRepository
	executorRepo repo.ExecutorRepository
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	statusRepo repo.OrderStatusRepository,
	serviceRepo repo.ServiceRepository,
	userRepo repo.UserRepository,
	executorRepo repo.ExecutorRepository,
) *OrderUsecase {
	return &OrderUsecase{
		tx:           tx,
		orderRepo:    orderRepo,
		statusRepo:   statusRepo,
		serviceRepo:  serviceRepo,
		userRepo:     userRepo,
		executorRepo: executorRepo,
	}
}

// 削除済みユーザーでもnilを返さず、Deleted付きのプレースホルダで埋める。
type OrderUserRef struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Deleted     bool   `json:"deleted,omitempty"`
}

type OrderExecutorRef struct {
	ID             int64  `json:"id"`
	Specialization string `json:"specialization"`
	Username       string `json:"username"`
	Deleted        bool   `json:"deleted,omitempty"`
}

type OrderServiceRef struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Deleted bool            `json:"deleted,omitempty"`
}

type OrderStatusResponse struct {
	ID          int64  `json:"id"`
	Code        string `json:"status_name"`
	DisplayName string `json:"status_display"`
}

type OrderResponse struct {
	ID       int64               `json:"id"`
	Client   *OrderUserRef       `json:"client"`
	Executor *OrderExecutorRef   `json:"executor"`
	Service  *OrderServiceRef    `json:"service"`
	Status   OrderStatusResponse `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type OrderListInput struct {
	Page       int
	Limit      int
	StatusCode string
}

type CreateOrderInput struct {
	ServiceID   int64
	ExecutorID  *int64
	ScheduledAt *time.Time
}

// ListOrders は自分がクライアントまたは実施者として関わる注文の一覧。
// スタッフは全件。
func (u *OrderUsecase) ListOrders(ctx context.Context, actor authz.Actor, in OrderListInput) ([]OrderResponse, int64, error) {
	if !actor.Authenticated() {
		return nil, 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page, limit := normalizePage(in.Page, in.Limit)
	f := repo.OrderListFilter{
		Page:       page,
		Limit:      limit,
		StatusCode: in.StatusCode,
	}
	if !actor.Staff() {
		uid := actor.UserID
		f.ClientID = &uid
		f.ExecutorID = actor.ExecutorID
	}

	orders, total, err := u.orderRepo.List(ctx, f)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		r, err := u.buildOrderResponse(ctx, o)
		if err != nil {
			return nil, 0, err
		}
		resp = append(resp, r)
	}
	return resp, total, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, actor authz.Actor, orderID int64) (OrderResponse, error) {
	if !actor.Authenticated() {
		return OrderResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderResponse{}, NewHTTPError(http.StatusNotFound, "order not found")
		}
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !authz.CanViewOrder(actor, o) {
		return OrderResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	return u.buildOrderResponse(ctx, o)
}

// CreateOrder は新規注文。ステータスは"new"、実施日時の既定は24時間後。
func (u *OrderUsecase) CreateOrder(ctx context.Context, actor authz.Actor, in CreateOrderInput) (OrderResponse, error) {
	if !actor.Authenticated() {
		return OrderResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ServiceID <= 0 {
		return OrderResponse{}, NewHTTPError(http.StatusBadRequest, "invalid service_id")
	}

	if _, err := u.serviceRepo.FindByID(ctx, in.ServiceID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderResponse{}, NewHTTPError(http.StatusNotFound, "service not found")
		}
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.ExecutorID != nil {
		if _, err := u.executorRepo.FindByID(ctx, *in.ExecutorID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return OrderResponse{}, NewHTTPError(http.StatusNotFound, "executor not found")
			}
			return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	st, err := u.statusRepo.FindByCode(ctx, model.OrderStatusNew)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()
	scheduledAt := now.Add(24 * time.Hour)
	if in.ScheduledAt != nil {
		if in.ScheduledAt.Before(now) {
			return OrderResponse{}, NewHTTPError(http.StatusBadRequest, "scheduled_at is in the past")
		}
		scheduledAt = *in.ScheduledAt
	}

	clientID := actor.UserID
	serviceID := in.ServiceID
	order := model.Order{
		ClientID:    &clientID,
		ExecutorID:  in.ExecutorID,
		ServiceID:   &serviceID,
		StatusID:    st.ID,
		CreatedAt:   now,
		ScheduledAt: scheduledAt,
	}

	id, err := u.orderRepo.Create(ctx, order)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	order.ID = id

	return u.buildOrderResponse(ctx, order)
}

// MarkProcessing はnewの注文を処理中にする。担当実施者またはスタッフのみ。
func (u *OrderUsecase) MarkProcessing(ctx context.Context, actor authz.Actor, orderID int64) (OrderResponse, error) {
	return u.transition(ctx, actor, orderID, model.OrderStatusProcessing)
}

// MarkCompleted はnew/processingの注文を完了にし、completed_atを刻む。
func (u *OrderUsecase) MarkCompleted(ctx context.Context, actor authz.Actor, orderID int64) (OrderResponse, error) {
	return u.transition(ctx, actor, orderID, model.OrderStatusCompleted)
}

// Cancel は注文の取り消し。クライアントはnewからのみ、スタッフは非終端ならいつでも。
func (u *OrderUsecase) Cancel(ctx context.Context, actor authz.Actor, orderID int64) (OrderResponse, error) {
	return u.transition(ctx, actor, orderID, model.OrderStatusCancelled)
}

// ステータス遷移の本体。現在行をロックして検証と更新を1トランザクションで行う。
func (u *OrderUsecase) transition(ctx context.Context, actor authz.Actor, orderID int64, target model.OrderStatusCode) (OrderResponse, error) {
	if !actor.Authenticated() {
		return OrderResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var updated model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cur, err := r.OrderStatuses().FindByID(ctx, o.StatusID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := u.checkTransition(actor, o, cur.Code, target); err != nil {
			return err
		}

		next, err := r.OrderStatuses().FindByCode(ctx, target)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		var completedAt *time.Time
		if target == model.OrderStatusCompleted {
			t := time.Now()
			completedAt = &t
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, next.ID, completedAt); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.StatusID = next.ID
		o.CompletedAt = completedAt
		updated = o
		return nil
	})
	if err != nil {
		return OrderResponse{}, err
	}

	return u.buildOrderResponse(ctx, updated)
}

// 権限と遷移の整合性チェック。
func (u *OrderUsecase) checkTransition(actor authz.Actor, o model.Order, from, to model.OrderStatusCode) error {
	if from.Terminal() {
		return NewHTTPError(http.StatusConflict, "order is in a terminal status")
	}

	switch to {
	case model.OrderStatusProcessing:
		if !authz.CanAdvanceOrder(actor, o) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if from != model.OrderStatusNew {
			return NewHTTPError(http.StatusConflict, "invalid transition")
		}
	case model.OrderStatusCompleted:
		if !authz.CanAdvanceOrder(actor, o) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if from != model.OrderStatusNew && from != model.OrderStatusProcessing {
			return NewHTTPError(http.StatusConflict, "invalid transition")
		}
	case model.OrderStatusCancelled:
		if !authz.CanCancelOrder(actor, o) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		//クライアントはnewのみ取り消せる
		if !actor.Staff() && from != model.OrderStatusNew {
			return NewHTTPError(http.StatusConflict, "invalid transition")
		}
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	return nil
}

// ListStatuses は固定のステータス一覧。
func (u *OrderUsecase) ListStatuses(ctx context.Context) ([]OrderStatusResponse, error) {
	statuses, err := u.statusRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := make([]OrderStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		resp = append(resp, OrderStatusResponse{
			ID:          s.ID,
			Code:        string(s.Code),
			DisplayName: s.DisplayName,
		})
	}
	return resp, nil
}

// FK切れはプレースホルダで埋める。絶対にnil参照しない。
func (u *OrderUsecase) buildOrderResponse(ctx context.Context, o model.Order) (OrderResponse, error) {
	resp := OrderResponse{
		ID:          o.ID,
		CreatedAt:   o.CreatedAt,
		ScheduledAt: o.ScheduledAt,
		CompletedAt: o.CompletedAt,
	}

	st, err := u.statusRepo.FindByID(ctx, o.StatusID)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	resp.Status = OrderStatusResponse{
		ID:          st.ID,
		Code:        string(st.Code),
		DisplayName: st.DisplayName,
	}

	if o.ClientID != nil {
		client, err := u.userRepo.FindByID(ctx, *o.ClientID)
		if err != nil {
			return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if client != nil {
			resp.Client = &OrderUserRef{
				ID:          client.ID,
				Username:    client.Username,
				DisplayName: client.DisplayName(),
			}
		} else {
			resp.Client = &OrderUserRef{ID: *o.ClientID, Username: "deleted user", Deleted: true}
		}
	}

	if o.ExecutorID != nil {
		ex, err := u.executorRepo.FindByID(ctx, *o.ExecutorID)
		switch {
		case err == nil:
			ref := &OrderExecutorRef{ID: ex.ID, Specialization: ex.Specialization}
			if owner, uerr := u.userRepo.FindByID(ctx, ex.UserID); uerr == nil && owner != nil {
				ref.Username = owner.Username
			}
			resp.Executor = ref
		case errors.Is(err, repo.ErrNotFound):
			resp.Executor = &OrderExecutorRef{ID: *o.ExecutorID, Specialization: "deleted executor", Deleted: true}
		default:
			return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	if o.ServiceID != nil {
		s, err := u.serviceRepo.FindByID(ctx, *o.ServiceID)
		switch {
		case err == nil:
			resp.Service = &OrderServiceRef{ID: s.ID, Name: s.Name, Price: s.Price}
		case errors.Is(err, repo.ErrNotFound):
			resp.Service = &OrderServiceRef{ID: *o.ServiceID, Name: "deleted service", Deleted: true}
		default:
			return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return resp, nil
}
