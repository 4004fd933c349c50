package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"studio/internal/authz"
	"studio/internal/domain/model"
	repo "studio/internal/repository"
)

// ReviewUsecase は実施者へのレビュー。公開読み取り、投稿者本人かスタッフが変更。
type ReviewUsecase struct {
	reviewRepo   repo.ReviewRepository
	executorRepo repo.ExecutorRepository
	orderRepo    repo.OrderRepository
	userRepo     repo.UserRepository
}

func NewReviewUsecase(
	reviewRepo repo.ReviewRepository,
	executorRepo repo.ExecutorRepository,
	orderRepo repo.OrderRepository,
	userRepo repo.UserRepository,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo:   reviewRepo,
		executorRepo: executorRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
	}
}

type ReviewListInput struct {
	Page       int
	Limit      int
	ExecutorID *int64
	OrderID    *int64
	Rating     *int64
}

type ReviewInput struct {
	ExecutorID int64
	OrderID    *int64
	Rating     int64
	Comment    string
}

type ReviewResponse struct {
	ID         int64         `json:"id"`
	Author     *OrderUserRef `json:"author"`
	ExecutorID int64         `json:"executor_id"`
	OrderID    *int64        `json:"order_id"`
	Rating     int64         `json:"rating"`
	Comment    string        `json:"comment"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (u *ReviewUsecase) List(ctx context.Context, in ReviewListInput) ([]ReviewResponse, int64, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	items, total, err := u.reviewRepo.List(ctx, repo.ReviewListQuery{
		Page:       page,
		Limit:      limit,
		ExecutorID: in.ExecutorID,
		OrderID:    in.OrderID,
		Rating:     in.Rating,
	})
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := make([]ReviewResponse, 0, len(items))
	for _, r := range items {
		rr, err := u.buildResponse(ctx, r)
		if err != nil {
			return nil, 0, err
		}
		resp = append(resp, rr)
	}
	return resp, total, nil
}

func (u *ReviewUsecase) Get(ctx context.Context, id int64) (ReviewResponse, error) {
	r, err := u.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ReviewResponse{}, NewHTTPError(http.StatusNotFound, "review not found")
		}
		return ReviewResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, r)
}

func (u *ReviewUsecase) Create(ctx context.Context, actor authz.Actor, in ReviewInput) (ReviewResponse, error) {
	if !actor.Authenticated() {
		return ReviewResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateRating(in.Rating); err != nil {
		return ReviewResponse{}, err
	}

	if _, err := u.executorRepo.FindByID(ctx, in.ExecutorID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ReviewResponse{}, NewHTTPError(http.StatusNotFound, "executor not found")
		}
		return ReviewResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//注文に紐付ける場合は自分の注文のみ
	if in.OrderID != nil {
		o, err := u.orderRepo.FindByID(ctx, *in.OrderID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ReviewResponse{}, NewHTTPError(http.StatusNotFound, "order not found")
			}
			return ReviewResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.ClientID == nil || *o.ClientID != actor.UserID {
			return ReviewResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}

	r, err := u.reviewRepo.Create(ctx, model.Review{
		UserID:     actor.UserID,
		ExecutorID: in.ExecutorID,
		OrderID:    in.OrderID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return ReviewResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, r)
}

func (u *ReviewUsecase) Update(ctx context.Context, actor authz.Actor, id int64, rating int64, comment string) (ReviewResponse, error) {
	r, err := u.findOwned(ctx, actor, id)
	if err != nil {
		return ReviewResponse{}, err
	}
	if err := validateRating(rating); err != nil {
		return ReviewResponse{}, err
	}

	r.Rating = rating
	r.Comment = strings.TrimSpace(comment)

	if err := u.reviewRepo.Update(ctx, r); err != nil {
		return ReviewResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, r)
}

func (u *ReviewUsecase) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if _, err := u.findOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := u.reviewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "review not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ReviewUsecase) findOwned(ctx context.Context, actor authz.Actor, id int64) (model.Review, error) {
	if !actor.Authenticated() {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	r, err := u.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Review{}, NewHTTPError(http.StatusNotFound, "review not found")
		}
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	owner := r.UserID
	if !authz.CanMutateOwned(actor, &owner) {
		return model.Review{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return r, nil
}

func (u *ReviewUsecase) buildResponse(ctx context.Context, r model.Review) (ReviewResponse, error) {
	resp := ReviewResponse{
		ID:         r.ID,
		ExecutorID: r.ExecutorID,
		OrderID:    r.OrderID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}

	author, err := u.userRepo.FindByID(ctx, r.UserID)
	if err != nil {
		return ReviewResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if author != nil {
		resp.Author = &OrderUserRef{
			ID:          author.ID,
			Username:    author.Username,
			DisplayName: author.DisplayName(),
		}
	} else {
		resp.Author = &OrderUserRef{ID: r.UserID, Username: "deleted user", Deleted: true}
	}
	return resp, nil
}

func validateRating(rating int64) error {
	if rating < 1 || rating > 5 {
		return NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	return nil
}
