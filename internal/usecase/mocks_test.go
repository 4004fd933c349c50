package usecase_test

import (
	"context"
	"time"

	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type ServiceRepoMock struct{ mock.Mock }

func (m *ServiceRepoMock) List(ctx context.Context, q repo.ServiceListQuery) ([]model.Service, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Service)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ServiceRepoMock) FindByID(ctx context.Context, id int64) (model.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Service)
	return s, args.Error(1)
}

func (m *ServiceRepoMock) Create(ctx context.Context, s model.Service) (model.Service, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(model.Service)
	return created, args.Error(1)
}

func (m *ServiceRepoMock) Update(ctx context.Context, s model.Service) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *ServiceRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndService(ctx context.Context, cartID, serviceID, addQty int64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, serviceID, addQty)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID, statusID int64, completedAt *time.Time) error {
	args := m.Called(ctx, orderID, statusID, completedAt)
	return args.Error(0)
}

type OrderStatusRepoMock struct{ mock.Mock }

func (m *OrderStatusRepoMock) List(ctx context.Context) ([]model.OrderStatus, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.OrderStatus)
	return items, args.Error(1)
}

func (m *OrderStatusRepoMock) FindByID(ctx context.Context, id int64) (model.OrderStatus, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.OrderStatus)
	return s, args.Error(1)
}

func (m *OrderStatusRepoMock) FindByCode(ctx context.Context, code model.OrderStatusCode) (model.OrderStatus, error) {
	args := m.Called(ctx, code)
	s, _ := args.Get(0).(model.OrderStatus)
	return s, args.Error(1)
}

func (m *OrderStatusRepoMock) Seed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	args := m.Called(ctx, identifier)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type ExecutorRepoMock struct{ mock.Mock }

func (m *ExecutorRepoMock) List(ctx context.Context, q repo.ExecutorListQuery) ([]model.Executor, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Executor)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ExecutorRepoMock) FindByID(ctx context.Context, id int64) (model.Executor, error) {
	args := m.Called(ctx, id)
	ex, _ := args.Get(0).(model.Executor)
	return ex, args.Error(1)
}

func (m *ExecutorRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Executor, error) {
	args := m.Called(ctx, userID)
	ex, _ := args.Get(0).(model.Executor)
	return ex, args.Error(1)
}

func (m *ExecutorRepoMock) ListServiceLinks(ctx context.Context, executorID int64) ([]model.ExecutorService, error) {
	args := m.Called(ctx, executorID)
	links, _ := args.Get(0).([]model.ExecutorService)
	return links, args.Error(1)
}

// トランザクションをそのまま素通しするTxManager。
type TxManagerMock struct {
	Repos txReposMock
}

type txReposMock struct {
	carts    *CartRepoMock
	items    *CartItemRepoMock
	orders   *OrderRepoMock
	statuses *OrderStatusRepoMock
	services *ServiceRepoMock
}

func (r txReposMock) Carts() repo.CartRepository              { return r.carts }
func (r txReposMock) CartItems() repo.CartItemRepository      { return r.items }
func (r txReposMock) Orders() repo.OrderRepository            { return r.orders }
func (r txReposMock) OrderStatuses() repo.OrderStatusRepository { return r.statuses }
func (r txReposMock) Services() repo.ServiceRepository        { return r.services }

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}
