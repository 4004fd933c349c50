package validator_test

import (
	"context"
	"testing"

	"studio/internal/domain/model"
	"studio/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	args := m.Called(ctx, identifier)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func freshValidator() (*userRepoMock, func(t *testing.T, username, email, password string) error) {
	users := new(userRepoMock)
	v := validator.NewAuthValidator(users)
	return users, func(t *testing.T, username, email, password string) error {
		t.Helper()
		return v.ValidateRegister(context.Background(), username, email, password)
	}
}

func TestValidateRegister_OK(t *testing.T) {
	users, validate := freshValidator()
	users.On("FindByIdentifier", mock.Anything, mock.Anything).Return((*model.User)(nil), nil)

	assert.NoError(t, validate(t, "bob_01", "bob@example.com", "secret123"))
}

func TestValidateRegister_BadInput(t *testing.T) {
	_, validate := freshValidator()

	//必須欠け
	assert.ErrorIs(t, validate(t, "", "bob@example.com", "secret123"), validator.ErrInvalidInput)
	assert.ErrorIs(t, validate(t, "bob", "", "secret123"), validator.ErrInvalidInput)
	assert.ErrorIs(t, validate(t, "bob", "bob@example.com", ""), validator.ErrInvalidInput)

	//形式不正
	assert.ErrorIs(t, validate(t, "b", "bob@example.com", "secret123"), validator.ErrInvalidInput)
	assert.ErrorIs(t, validate(t, "bob has spaces", "bob@example.com", "secret123"), validator.ErrInvalidInput)
	assert.ErrorIs(t, validate(t, "bob", "not-an-email", "secret123"), validator.ErrInvalidInput)

	//パスワード短すぎ
	assert.ErrorIs(t, validate(t, "bob", "bob@example.com", "short"), validator.ErrInvalidInput)
}

func TestValidateRegister_DuplicateIdentifier(t *testing.T) {
	users, validate := freshValidator()
	users.On("FindByIdentifier", mock.Anything, "bob").Return(&model.User{ID: 1, Username: "bob"}, nil)

	assert.ErrorIs(t, validate(t, "bob", "bob@example.com", "secret123"), validator.ErrIdentifierTaken)
}

func TestValidateLogin(t *testing.T) {
	users := new(userRepoMock)
	v := validator.NewAuthValidator(users)

	assert.NoError(t, v.ValidateLogin(context.Background(), "bob", "pw"))
	assert.NoError(t, v.ValidateLogin(context.Background(), "bob@example.com", "pw"))
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "", "pw"), validator.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "bob", ""), validator.ErrInvalidInput)
}

func TestValidateChangePassword(t *testing.T) {
	users := new(userRepoMock)
	v := validator.NewAuthValidator(users)

	assert.NoError(t, v.ValidateChangePassword(context.Background(), "old", "newpassword"))
	assert.ErrorIs(t, v.ValidateChangePassword(context.Background(), "", "newpassword"), validator.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateChangePassword(context.Background(), "old", "short"), validator.ErrInvalidInput)
}
