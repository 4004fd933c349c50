package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"studio/internal/authz"
	"studio/internal/domain/model"
	repo "studio/internal/repository"
	"studio/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartFixture() (*usecase.CartUsecase, *CartRepoMock, *CartItemRepoMock, *ServiceRepoMock) {
	carts := new(CartRepoMock)
	items := new(CartItemRepoMock)
	services := new(ServiceRepoMock)
	tx := &TxManagerMock{Repos: txReposMock{
		carts:    carts,
		items:    items,
		services: services,
	}}
	uc := usecase.NewCartUsecase(tx, carts, items, services)
	return uc, carts, items, services
}

func userActor(id int64) authz.Actor {
	return authz.Actor{UserID: id, Role: model.RoleUser}
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
	}
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCartUsecase_GetCart_CreatesEmptyCartOnce(t *testing.T) {
	uc, carts, items, _ := newCartFixture()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil).Twice()
	items.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil).Twice()

	first, err := uc.GetCart(context.Background(), userActor(7))
	assert.NoError(t, err)
	second, err := uc.GetCart(context.Background(), userActor(7))
	assert.NoError(t, err)

	//2回呼んでも同じカート、空のカートの合計はゼロ
	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, first.Items)
	assert.True(t, first.TotalCost.IsZero())
	assert.Equal(t, int64(0), first.TotalItemsCount)
	assert.Equal(t, int64(0), first.TotalPositionsCount)
}

func TestCartUsecase_GetCart_Unauthenticated(t *testing.T) {
	uc, _, _, _ := newCartFixture()

	_, err := uc.GetCart(context.Background(), authz.Anonymous())
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestCartUsecase_AddItem_ServiceNotFound(t *testing.T) {
	uc, _, _, services := newCartFixture()

	services.On("FindByID", mock.Anything, int64(99)).Return(model.Service{}, repo.ErrNotFound)

	_, err := uc.AddItem(context.Background(), userActor(7), usecase.AddItemInput{ServiceID: 99, Quantity: 1})
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCartUsecase_AddItem_InvalidQuantity(t *testing.T) {
	uc, _, _, _ := newCartFixture()

	_, err := uc.AddItem(context.Background(), userActor(7), usecase.AddItemInput{ServiceID: 1, Quantity: 0})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.AddItem(context.Background(), userActor(7), usecase.AddItemInput{ServiceID: 1, Quantity: -3})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddItem_MergesSameService(t *testing.T) {
	uc, carts, items, services := newCartFixture()

	svc := model.Service{ID: 3, Name: "Wedding film", Price: price("1500.00")}
	services.On("FindByID", mock.Anything, int64(3)).Return(svc, nil)
	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	//upsertが加算を担う。usecaseはcartIDとserviceIDと加算量を渡すだけ。
	items.On("UpsertByCartAndService", mock.Anything, int64(10), int64(3), int64(2)).
		Return(model.CartItem{ID: 21, CartID: 10, ServiceID: 3, Quantity: 5}, nil)
	items.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 21, CartID: 10, ServiceID: 3, Quantity: 5}}, nil)

	out, err := uc.AddItem(context.Background(), userActor(7), usecase.AddItemInput{ServiceID: 3, Quantity: 2})
	assert.NoError(t, err)

	//明細は1行のまま、数量と合計だけ増える
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].Quantity)
	assert.Equal(t, int64(5), out.TotalItemsCount)
	assert.Equal(t, int64(1), out.TotalPositionsCount)
	assert.True(t, out.TotalCost.Equal(price("7500.00")))
}

func TestCartUsecase_AddItem_UpsertConflict(t *testing.T) {
	uc, carts, items, services := newCartFixture()

	services.On("FindByID", mock.Anything, int64(3)).Return(model.Service{ID: 3, Price: price("100")}, nil)
	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	items.On("UpsertByCartAndService", mock.Anything, int64(10), int64(3), int64(1)).
		Return(model.CartItem{}, repo.ErrConflict)

	_, err := uc.AddItem(context.Background(), userActor(7), usecase.AddItemInput{ServiceID: 3, Quantity: 1})
	assertHTTPStatus(t, err, http.StatusConflict)
}

func TestCartUsecase_Totals_UseCurrentServicePrice(t *testing.T) {
	uc, carts, items, services := newCartFixture()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	items.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 21, CartID: 10, ServiceID: 3, Quantity: 2}}, nil)

	//明細保存後にサービスが値上げされたケース。保存額ではなく現在価格で計算される。
	services.On("FindByID", mock.Anything, int64(3)).
		Return(model.Service{ID: 3, Name: "Drone shoot", Price: price("900.00")}, nil)

	out, err := uc.GetCart(context.Background(), userActor(7))
	assert.NoError(t, err)
	assert.True(t, out.TotalCost.Equal(price("1800.00")))
	assert.True(t, out.Items[0].Cost.Equal(price("1800.00")))
	assert.True(t, out.Items[0].Service.Price.Equal(price("900.00")))
}

func TestCartUsecase_Totals_SkipDeletedService(t *testing.T) {
	uc, carts, items, services := newCartFixture()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	items.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 21, CartID: 10, ServiceID: 3, Quantity: 2},
		{ID: 22, CartID: 10, ServiceID: 4, Quantity: 1},
	}, nil)

	services.On("FindByID", mock.Anything, int64(3)).Return(model.Service{ID: 3, Price: price("100.00")}, nil)
	//サービス4は削除済み
	services.On("FindByID", mock.Anything, int64(4)).Return(model.Service{}, repo.ErrNotFound)

	out, err := uc.GetCart(context.Background(), userActor(7))
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.True(t, out.TotalCost.Equal(price("200.00")))
}

func TestCartUsecase_UpdateItem_NotFound(t *testing.T) {
	uc, _, items, _ := newCartFixture()

	items.On("FindByID", mock.Anything, int64(99)).Return(model.CartItem{}, repo.ErrNotFound)

	_, err := uc.UpdateItem(context.Background(), userActor(7), 99, 2)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCartUsecase_UpdateItem_OtherUsersItemIsForbidden(t *testing.T) {
	uc, _, items, _ := newCartFixture()

	//存在はするが別ユーザーのカートの明細
	items.On("FindByID", mock.Anything, int64(21)).Return(model.CartItem{ID: 21, CartID: 55}, nil)
	items.On("IsOwnedByUser", mock.Anything, int64(21), int64(7)).Return(false, nil)

	_, err := uc.UpdateItem(context.Background(), userActor(7), 21, 2)
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestCartUsecase_UpdateItem_ZeroQuantityRejected(t *testing.T) {
	uc, _, items, _ := newCartFixture()

	//数量0は削除扱いにならず400。リポジトリには触れない。
	_, err := uc.UpdateItem(context.Background(), userActor(7), 21, 0)
	assertHTTPStatus(t, err, http.StatusBadRequest)
	items.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateItem_OK(t *testing.T) {
	uc, carts, items, services := newCartFixture()

	items.On("FindByID", mock.Anything, int64(21)).Return(model.CartItem{ID: 21, CartID: 10, ServiceID: 3}, nil)
	items.On("IsOwnedByUser", mock.Anything, int64(21), int64(7)).Return(true, nil)
	items.On("UpdateQuantity", mock.Anything, int64(21), int64(4)).Return(nil)
	carts.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	items.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 21, CartID: 10, ServiceID: 3, Quantity: 4}}, nil)
	services.On("FindByID", mock.Anything, int64(3)).Return(model.Service{ID: 3, Price: price("250.00")}, nil)

	out, err := uc.UpdateItem(context.Background(), userActor(7), 21, 4)
	assert.NoError(t, err)
	assert.True(t, out.TotalCost.Equal(price("1000.00")))
}

func TestCartUsecase_RemoveItem_SecondCallNotFound(t *testing.T) {
	uc, carts, items, _ := newCartFixture()

	//1回目は成功
	items.On("FindByID", mock.Anything, int64(21)).Return(model.CartItem{ID: 21, CartID: 10}, nil).Once()
	items.On("IsOwnedByUser", mock.Anything, int64(21), int64(7)).Return(true, nil).Once()
	items.On("DeleteByID", mock.Anything, int64(21)).Return(nil).Once()
	carts.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	items.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	_, err := uc.RemoveItem(context.Background(), userActor(7), 21)
	assert.NoError(t, err)

	//2回目は行が無いので404。他の明細に影響しない。
	items.On("FindByID", mock.Anything, int64(21)).Return(model.CartItem{}, repo.ErrNotFound).Once()

	_, err = uc.RemoveItem(context.Background(), userActor(7), 21)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCartUsecase_ClearCart(t *testing.T) {
	uc, carts, items, _ := newCartFixture()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	carts.On("Clear", mock.Anything, int64(10)).Return(nil)
	items.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	out, err := uc.ClearCart(context.Background(), userActor(7))
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.True(t, out.TotalCost.IsZero())
	carts.AssertCalled(t, "Clear", mock.Anything, int64(10))
}
