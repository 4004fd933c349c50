package repository

import (
	"context"

	repo "studio/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	carts         repo.CartRepository
	cartItems     repo.CartItemRepository
	orders        repo.OrderRepository
	orderStatuses repo.OrderStatusRepository
	services      repo.ServiceRepository
}

func (r *txReposGorm) Carts() repo.CartRepository                 { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository         { return r.cartItems }
func (r *txReposGorm) Orders() repo.OrderRepository               { return r.orders }
func (r *txReposGorm) OrderStatuses() repo.OrderStatusRepository  { return r.orderStatuses }
func (r *txReposGorm) Services() repo.ServiceRepository           { return r.services }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			carts:         NewCartGormRepository(tx),
			cartItems:     NewCartGormRepository(tx),
			orders:        NewOrderGormRepository(tx),
			orderStatuses: NewOrderStatusGormRepository(tx),
			services:      NewServiceGormRepository(tx),
		}
		return fn(r)
	})
}
