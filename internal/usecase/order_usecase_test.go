package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"studio/internal/authz"
	"studio/internal/domain/model"
	repo "studio/internal/repository"
	"studio/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type orderFixture struct {
	uc       *usecase.OrderUsecase
	orders   *OrderRepoMock
	statuses *OrderStatusRepoMock
	services *ServiceRepoMock
	users    *UserRepoMock
	execs    *ExecutorRepoMock
}

var (
	stNew        = model.OrderStatus{ID: 1, Code: model.OrderStatusNew, DisplayName: "Новый"}
	stProcessing = model.OrderStatus{ID: 2, Code: model.OrderStatusProcessing, DisplayName: "В обработке"}
	stCompleted  = model.OrderStatus{ID: 3, Code: model.OrderStatusCompleted, DisplayName: "Выполнен"}
	stCancelled  = model.OrderStatus{ID: 4, Code: model.OrderStatusCancelled, DisplayName: "Отменён"}
)

func newOrderFixture() orderFixture {
	orders := new(OrderRepoMock)
	statuses := new(OrderStatusRepoMock)
	services := new(ServiceRepoMock)
	users := new(UserRepoMock)
	execs := new(ExecutorRepoMock)
	tx := &TxManagerMock{Repos: txReposMock{
		orders:   orders,
		statuses: statuses,
		services: services,
	}}
	uc := usecase.NewOrderUsecase(tx, orders, statuses, services, users, execs)
	return orderFixture{uc: uc, orders: orders, statuses: statuses, services: services, users: users, execs: execs}
}

func executorActor(userID, executorID int64) authz.Actor {
	return authz.Actor{UserID: userID, Role: model.RoleExecutor, ExecutorID: &executorID}
}

func staffActor(userID int64) authz.Actor {
	return authz.Actor{UserID: userID, Role: model.RoleStaff}
}

func ptr(v int64) *int64 { return &v }

// 注文のレスポンス組み立てに必要な共通スタブ。
func (f orderFixture) stubRefs(o model.Order, st model.OrderStatus) {
	f.statuses.On("FindByID", mock.Anything, st.ID).Return(st, nil)
	if o.ClientID != nil {
		f.users.On("FindByID", mock.Anything, *o.ClientID).
			Return(&model.User{ID: *o.ClientID, Username: "client", IsActive: true}, nil)
	}
	if o.ExecutorID != nil {
		f.execs.On("FindByID", mock.Anything, *o.ExecutorID).
			Return(model.Executor{ID: *o.ExecutorID, UserID: 100 + *o.ExecutorID}, nil)
		f.users.On("FindByID", mock.Anything, int64(100+*o.ExecutorID)).
			Return(&model.User{ID: 100 + *o.ExecutorID, Username: "exec"}, nil)
	}
	if o.ServiceID != nil {
		f.services.On("FindByID", mock.Anything, *o.ServiceID).
			Return(model.Service{ID: *o.ServiceID, Name: "Shoot", Price: price("500")}, nil)
	}
}

func TestOrderUsecase_CreateOrder_DefaultsScheduledAt(t *testing.T) {
	f := newOrderFixture()

	f.services.On("FindByID", mock.Anything, int64(3)).Return(model.Service{ID: 3, Price: price("500")}, nil)
	f.statuses.On("FindByCode", mock.Anything, model.OrderStatusNew).Return(stNew, nil)

	var created model.Order
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		created = o
		return o.StatusID == stNew.ID && o.ClientID != nil && *o.ClientID == 7
	})).Return(int64(42), nil)

	f.statuses.On("FindByID", mock.Anything, stNew.ID).Return(stNew, nil)
	f.users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, Username: "client"}, nil)
	f.services.On("FindByID", mock.Anything, int64(3)).Return(model.Service{ID: 3, Name: "Shoot", Price: price("500")}, nil)

	before := time.Now()
	out, err := f.uc.CreateOrder(context.Background(), userActor(7), usecase.CreateOrderInput{ServiceID: 3})
	assert.NoError(t, err)

	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, "new", out.Status.Code)
	//既定の実施日時は約24時間後
	assert.WithinDuration(t, before.Add(24*time.Hour), created.ScheduledAt, 5*time.Second)
	assert.Nil(t, out.CompletedAt)
}

func TestOrderUsecase_CreateOrder_PastScheduledAtRejected(t *testing.T) {
	f := newOrderFixture()

	f.services.On("FindByID", mock.Anything, int64(3)).Return(model.Service{ID: 3}, nil)
	f.statuses.On("FindByCode", mock.Anything, model.OrderStatusNew).Return(stNew, nil)

	past := time.Now().Add(-time.Hour)
	_, err := f.uc.CreateOrder(context.Background(), userActor(7), usecase.CreateOrderInput{
		ServiceID: 3, ScheduledAt: &past,
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestOrderUsecase_MarkProcessing_ByAssignedExecutor(t *testing.T) {
	f := newOrderFixture()

	order := model.Order{ID: 5, ClientID: ptr(7), ExecutorID: ptr(2), ServiceID: ptr(3), StatusID: stNew.ID}
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)
	f.statuses.On("FindByID", mock.Anything, stNew.ID).Return(stNew, nil)
	f.statuses.On("FindByCode", mock.Anything, model.OrderStatusProcessing).Return(stProcessing, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(5), stProcessing.ID, (*time.Time)(nil)).Return(nil)

	updated := order
	updated.StatusID = stProcessing.ID
	f.stubRefs(updated, stProcessing)

	out, err := f.uc.MarkProcessing(context.Background(), executorActor(20, 2), 5)
	assert.NoError(t, err)
	assert.Equal(t, "processing", out.Status.Code)
}

func TestOrderUsecase_MarkProcessing_ClientForbidden(t *testing.T) {
	f := newOrderFixture()

	order := model.Order{ID: 5, ClientID: ptr(7), ExecutorID: ptr(2), StatusID: stNew.ID}
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)
	f.statuses.On("FindByID", mock.Anything, stNew.ID).Return(stNew, nil)

	//クライアント本人でもステータスは進められない
	_, err := f.uc.MarkProcessing(context.Background(), userActor(7), 5)
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestOrderUsecase_MarkCompleted_SetsCompletedAt(t *testing.T) {
	f := newOrderFixture()

	order := model.Order{ID: 5, ClientID: ptr(7), ExecutorID: ptr(2), StatusID: stProcessing.ID}
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)
	f.statuses.On("FindByID", mock.Anything, stProcessing.ID).Return(stProcessing, nil)
	f.statuses.On("FindByCode", mock.Anything, model.OrderStatusCompleted).Return(stCompleted, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(5), stCompleted.ID,
		mock.MatchedBy(func(ts *time.Time) bool { return ts != nil })).Return(nil)

	updated := order
	updated.StatusID = stCompleted.ID
	f.stubRefs(updated, stCompleted)

	out, err := f.uc.MarkCompleted(context.Background(), executorActor(20, 2), 5)
	assert.NoError(t, err)
	assert.Equal(t, "completed", out.Status.Code)
	assert.NotNil(t, out.CompletedAt)
}

func TestOrderUsecase_Cancel_ClientFromNew(t *testing.T) {
	f := newOrderFixture()

	order := model.Order{ID: 5, ClientID: ptr(7), StatusID: stNew.ID}
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)
	f.statuses.On("FindByID", mock.Anything, stNew.ID).Return(stNew, nil)
	f.statuses.On("FindByCode", mock.Anything, model.OrderStatusCancelled).Return(stCancelled, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(5), stCancelled.ID, (*time.Time)(nil)).Return(nil)

	updated := order
	updated.StatusID = stCancelled.ID
	f.stubRefs(updated, stCancelled)

	out, err := f.uc.Cancel(context.Background(), userActor(7), 5)
	assert.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status.Code)
}

func TestOrderUsecase_Cancel_ClientFromProcessingConflict(t *testing.T) {
	f := newOrderFixture()

	order := model.Order{ID: 5, ClientID: ptr(7), StatusID: stProcessing.ID}
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)
	f.statuses.On("FindByID", mock.Anything, stProcessing.ID).Return(stProcessing, nil)

	//クライアントが取り消せるのはnewのみ
	_, err := f.uc.Cancel(context.Background(), userActor(7), 5)
	assertHTTPStatus(t, err, http.StatusConflict)
}

func TestOrderUsecase_Cancel_StaffFromProcessing(t *testing.T) {
	f := newOrderFixture()

	order := model.Order{ID: 5, ClientID: ptr(7), StatusID: stProcessing.ID}
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)
	f.statuses.On("FindByID", mock.Anything, stProcessing.ID).Return(stProcessing, nil)
	f.statuses.On("FindByCode", mock.Anything, model.OrderStatusCancelled).Return(stCancelled, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(5), stCancelled.ID, (*time.Time)(nil)).Return(nil)

	updated := order
	updated.StatusID = stCancelled.ID
	f.stubRefs(updated, stCancelled)

	out, err := f.uc.Cancel(context.Background(), staffActor(1), 5)
	assert.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status.Code)
}

func TestOrderUsecase_Transition_TerminalStatusConflict(t *testing.T) {
	f := newOrderFixture()

	order := model.Order{ID: 5, ClientID: ptr(7), StatusID: stCompleted.ID}
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)
	f.statuses.On("FindByID", mock.Anything, stCompleted.ID).Return(stCompleted, nil)

	//完了済みの注文はスタッフでも取り消せない
	_, err := f.uc.Cancel(context.Background(), staffActor(1), 5)
	assertHTTPStatus(t, err, http.StatusConflict)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_GetOrder_DeletedRefsBecomePlaceholders(t *testing.T) {
	f := newOrderFixture()

	//service/executorとも削除済み、clientも消えている注文
	order := model.Order{ID: 5, ClientID: ptr(7), ExecutorID: ptr(2), ServiceID: ptr(3), StatusID: stNew.ID}
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)
	f.statuses.On("FindByID", mock.Anything, stNew.ID).Return(stNew, nil)
	f.users.On("FindByID", mock.Anything, int64(7)).Return((*model.User)(nil), nil)
	f.execs.On("FindByID", mock.Anything, int64(2)).Return(model.Executor{}, repo.ErrNotFound)
	f.services.On("FindByID", mock.Anything, int64(3)).Return(model.Service{}, repo.ErrNotFound)

	out, err := f.uc.GetOrder(context.Background(), staffActor(1), 5)
	assert.NoError(t, err)

	if assert.NotNil(t, out.Client) {
		assert.True(t, out.Client.Deleted)
	}
	if assert.NotNil(t, out.Executor) {
		assert.True(t, out.Executor.Deleted)
	}
	if assert.NotNil(t, out.Service) {
		assert.True(t, out.Service.Deleted)
	}
}

func TestOrderUsecase_GetOrder_UnrelatedUserForbidden(t *testing.T) {
	f := newOrderFixture()

	order := model.Order{ID: 5, ClientID: ptr(7), ExecutorID: ptr(2), StatusID: stNew.ID}
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)

	_, err := f.uc.GetOrder(context.Background(), userActor(8), 5)
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestOrderUsecase_ListOrders_NonStaffScopedToActor(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("List", mock.Anything, mock.MatchedBy(func(fl repo.OrderListFilter) bool {
		return fl.ClientID != nil && *fl.ClientID == 7 && fl.ExecutorID == nil
	})).Return([]model.Order{}, int64(0), nil)

	_, total, err := f.uc.ListOrders(context.Background(), userActor(7), usecase.OrderListInput{})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestOrderUsecase_ListOrders_StaffSeesAll(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("List", mock.Anything, mock.MatchedBy(func(fl repo.OrderListFilter) bool {
		return fl.ClientID == nil && fl.ExecutorID == nil
	})).Return([]model.Order{}, int64(3), nil)

	_, total, err := f.uc.ListOrders(context.Background(), staffActor(1), usecase.OrderListInput{})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
