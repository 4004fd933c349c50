package usecase

import (
	"context"
	"errors"
	"net/http"

	"studio/internal/authz"
	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /api/cart の業務ロジックです。
// 金額は保存せず、読み出しの度にservicesの現在価格から計算し直します。
type CartUsecase struct {
	tx          repo.TransactionManager
	cartRepo    repo.CartRepository
	itemRepo    repo.CartItemRepository
	serviceRepo repo.ServiceRepository
}

func NewCartUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	itemRepo repo.CartItemRepository,
	serviceRepo repo.ServiceRepository,
) *CartUsecase {
	return &CartUsecase{
		tx:          tx,
		cartRepo:    cartRepo,
		itemRepo:    itemRepo,
		serviceRepo: serviceRepo,
	}
}

type CartServiceRef struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CartItemResponse struct {
	ID       int64          `json:"id"`
	Service  CartServiceRef `json:"service"`
	Quantity int64          `json:"quantity"`
	//quantity × 現在価格
	Cost decimal.Decimal `json:"cost"`
}

type CartResponse struct {
	ID    int64              `json:"id"`
	Items []CartItemResponse `json:"items"`

	//Σ(quantity × 現在価格)
	TotalCost decimal.Decimal `json:"total_cost"`
	//Σ quantity
	TotalItemsCount int64 `json:"total_items_count"`
	//明細行数
	TotalPositionsCount int64 `json:"total_positions_count"`
}

type AddItemInput struct {
	ServiceID int64
	Quantity  int64
}

// GetCart はカート取得（無ければ作って空を返す）。2回呼んでも同じカート。
func (u *CartUsecase) GetCart(ctx context.Context, actor authz.Actor) (CartResponse, error) {
	if !actor.Authenticated() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, actor.UserID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart)
}

// AddItem はカートに追加（同一サービスは数量加算）。
func (u *CartUsecase) AddItem(ctx context.Context, actor authz.Actor, in AddItemInput) (CartResponse, error) {
	if !actor.Authenticated() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ServiceID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid service_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// サービスの存在チェック
	if _, err := u.serviceRepo.FindByID(ctx, in.ServiceID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "service not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var cart model.Cart

	//get-or-createと加算upsertを1トランザクションで
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		cart, err = r.Carts().GetOrCreateByUserID(ctx, actor.UserID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := r.CartItems().UpsertByCartAndService(ctx, cart.ID, in.ServiceID, in.Quantity); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, "conflict")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return CartResponse{}, err
	}

	return u.buildCartResponse(ctx, cart)
}

// 数量変更。0以下は削除扱いにせず400で拒否する（削除はDELETEで行う）。
func (u *CartUsecase) UpdateItem(ctx context.Context, actor authz.Actor, cartItemID int64, quantity int64) (CartResponse, error) {
	if !actor.Authenticated() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.CartItems().FindByID(ctx, cartItemID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		owned, err := r.CartItems().IsOwnedByUser(ctx, cartItemID, actor.UserID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			//他人のカートの明細
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if err := r.CartItems().UpdateQuantity(ctx, cartItemID, quantity); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return CartResponse{}, err
	}

	cart, err := u.cartRepo.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartResponse(ctx, cart)
}

// 明細削除。2回目はNotFoundで返り、カートの他の明細には触れない。
func (u *CartUsecase) RemoveItem(ctx context.Context, actor authz.Actor, cartItemID int64) (CartResponse, error) {
	if !actor.Authenticated() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.CartItems().FindByID(ctx, cartItemID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		owned, err := r.CartItems().IsOwnedByUser(ctx, cartItemID, actor.UserID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if err := r.CartItems().DeleteByID(ctx, cartItemID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return CartResponse{}, err
	}

	cart, err := u.cartRepo.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartResponse(ctx, cart)
}

// 全明細削除。カート行自体は残す。
func (u *CartUsecase) ClearCart(ctx context.Context, actor authz.Actor) (CartResponse, error) {
	if !actor.Authenticated() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, actor.UserID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart)
}

// 明細と現在価格からCartResponseを作る。
// サービスが消えている明細はレスポンスから落とす（nil参照にしない）。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cart model.Cart) (CartResponse, error) {
	items, err := u.itemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	totalCost := decimal.Zero
	var totalItems int64 = 0

	for _, it := range items {
		s, err := u.serviceRepo.FindByID(ctx, it.ServiceID)
		if err != nil {
			continue
		}

		cost := s.Price.Mul(decimal.NewFromInt(it.Quantity))

		respItems = append(respItems, CartItemResponse{
			ID: it.ID,
			Service: CartServiceRef{
				ID:    s.ID,
				Name:  s.Name,
				Price: s.Price,
			},
			Quantity: it.Quantity,
			Cost:     cost,
		})

		totalCost = totalCost.Add(cost)
		totalItems += it.Quantity
	}

	return CartResponse{
		ID:                  cart.ID,
		Items:               respItems,
		TotalCost:           totalCost,
		TotalItemsCount:     totalItems,
		TotalPositionsCount: int64(len(respItems)),
	}, nil
}
