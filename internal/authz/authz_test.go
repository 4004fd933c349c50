package authz_test

import (
	"testing"

	"studio/internal/authz"
	"studio/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func user(id int64) authz.Actor {
	return authz.Actor{UserID: id, Role: model.RoleUser}
}

func executor(userID, executorID int64) authz.Actor {
	return authz.Actor{UserID: userID, Role: model.RoleExecutor, ExecutorID: &executorID}
}

func staff(id int64) authz.Actor {
	return authz.Actor{UserID: id, Role: model.RoleStaff}
}

func TestAnonymous(t *testing.T) {
	a := authz.Anonymous()
	assert.False(t, a.Authenticated())
	assert.False(t, a.Staff())
	assert.False(t, authz.CanManageCatalog(a))
	assert.False(t, authz.CanManageNews(a))
	assert.False(t, authz.CanMutateOwned(a, ptr(1)))
}

func TestCanManageCatalog(t *testing.T) {
	assert.False(t, authz.CanManageCatalog(user(1)))
	assert.True(t, authz.CanManageCatalog(executor(1, 2)))
	assert.True(t, authz.CanManageCatalog(staff(1)))
}

func TestCanManageNews_StaffOnly(t *testing.T) {
	assert.False(t, authz.CanManageNews(user(1)))
	assert.False(t, authz.CanManageNews(executor(1, 2)))
	assert.True(t, authz.CanManageNews(staff(1)))
}

func TestCanMutateOwned(t *testing.T) {
	assert.True(t, authz.CanMutateOwned(user(7), ptr(7)))
	assert.False(t, authz.CanMutateOwned(user(7), ptr(8)))
	//孤児行はスタッフのみ
	assert.False(t, authz.CanMutateOwned(user(7), nil))
	assert.True(t, authz.CanMutateOwned(staff(1), nil))
	assert.True(t, authz.CanMutateOwned(staff(1), ptr(8)))
}

func TestCanViewOrder(t *testing.T) {
	order := model.Order{ClientID: ptr(7), ExecutorID: ptr(2)}

	assert.True(t, authz.CanViewOrder(user(7), order))
	assert.False(t, authz.CanViewOrder(user(8), order))
	assert.True(t, authz.CanViewOrder(executor(20, 2), order))
	assert.False(t, authz.CanViewOrder(executor(20, 3), order))
	assert.True(t, authz.CanViewOrder(staff(1), order))

	//クライアントもexecutorも消えた注文はスタッフのみ
	orphan := model.Order{}
	assert.False(t, authz.CanViewOrder(user(7), orphan))
	assert.True(t, authz.CanViewOrder(staff(1), orphan))
}

func TestCanAdvanceOrder(t *testing.T) {
	order := model.Order{ClientID: ptr(7), ExecutorID: ptr(2)}

	//クライアントは進められない
	assert.False(t, authz.CanAdvanceOrder(user(7), order))
	assert.True(t, authz.CanAdvanceOrder(executor(20, 2), order))
	assert.False(t, authz.CanAdvanceOrder(executor(20, 3), order))
	assert.True(t, authz.CanAdvanceOrder(staff(1), order))
}

func TestCanCancelOrder(t *testing.T) {
	order := model.Order{ClientID: ptr(7), ExecutorID: ptr(2)}

	assert.True(t, authz.CanCancelOrder(user(7), order))
	assert.False(t, authz.CanCancelOrder(user(8), order))
	//担当実施者でもキャンセルは不可
	assert.False(t, authz.CanCancelOrder(executor(20, 2), order))
	assert.True(t, authz.CanCancelOrder(staff(1), order))
}

func TestCanMutatePortfolio(t *testing.T) {
	p := model.Portfolio{ExecutorID: 2}

	assert.False(t, authz.CanMutatePortfolio(user(7), p))
	assert.True(t, authz.CanMutatePortfolio(executor(20, 2), p))
	assert.False(t, authz.CanMutatePortfolio(executor(20, 3), p))
	assert.True(t, authz.CanMutatePortfolio(staff(1), p))
}

func TestIsMessageParticipant(t *testing.T) {
	m := model.Message{SenderID: ptr(7), ReceiverID: ptr(8)}

	assert.True(t, authz.IsMessageParticipant(user(7), m))
	assert.True(t, authz.IsMessageParticipant(user(8), m))
	assert.False(t, authz.IsMessageParticipant(user(9), m))

	//両端が消えたメッセージは誰の参加でもない
	orphan := model.Message{}
	assert.False(t, authz.IsMessageParticipant(user(7), orphan))
}
