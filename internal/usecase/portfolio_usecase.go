package usecase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"studio/internal/authz"
	"studio/internal/domain/model"
	"studio/internal/infra/storage"
	repo "studio/internal/repository"
)

// PortfolioUsecase は作品ギャラリー。公開読み取り、実施者本人かスタッフが書き込み。
type PortfolioUsecase struct {
	portfolioRepo repo.PortfolioRepository
	executorRepo  repo.ExecutorRepository
	media         storage.MediaStore
}

func NewPortfolioUsecase(
	portfolioRepo repo.PortfolioRepository,
	executorRepo repo.ExecutorRepository,
	media storage.MediaStore,
) *PortfolioUsecase {
	return &PortfolioUsecase{
		portfolioRepo: portfolioRepo,
		executorRepo:  executorRepo,
		media:         media,
	}
}

type PortfolioListInput struct {
	Page       int
	Limit      int
	ExecutorID *int64
}

type PortfolioInput struct {
	Title       string
	Description string
	VideoLink   string
	//スタッフのみ他人のexecutor_idを指定可。実施者は常に自分。
	ExecutorID *int64
}

func (u *PortfolioUsecase) List(ctx context.Context, in PortfolioListInput) ([]model.Portfolio, int64, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	items, total, err := u.portfolioRepo.List(ctx, repo.PortfolioListQuery{
		Page:       page,
		Limit:      limit,
		ExecutorID: in.ExecutorID,
	})
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, total, nil
}

func (u *PortfolioUsecase) Get(ctx context.Context, id int64) (model.Portfolio, error) {
	p, err := u.portfolioRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Portfolio{}, NewHTTPError(http.StatusNotFound, "portfolio not found")
		}
		return model.Portfolio{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *PortfolioUsecase) Create(ctx context.Context, actor authz.Actor, in PortfolioInput) (model.Portfolio, error) {
	if !actor.Authenticated() {
		return model.Portfolio{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Title) == "" {
		return model.Portfolio{}, NewHTTPError(http.StatusBadRequest, "title is required")
	}

	executorID, err := u.resolveExecutorID(ctx, actor, in.ExecutorID)
	if err != nil {
		return model.Portfolio{}, err
	}

	p, err := u.portfolioRepo.Create(ctx, model.Portfolio{
		ExecutorID:  executorID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		VideoLink:   in.VideoLink,
		UploadedAt:  time.Now(),
	})
	if err != nil {
		return model.Portfolio{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *PortfolioUsecase) Update(ctx context.Context, actor authz.Actor, id int64, in PortfolioInput) (model.Portfolio, error) {
	p, err := u.findOwned(ctx, actor, id)
	if err != nil {
		return model.Portfolio{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return model.Portfolio{}, NewHTTPError(http.StatusBadRequest, "title is required")
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.VideoLink = in.VideoLink

	if err := u.portfolioRepo.Update(ctx, p); err != nil {
		return model.Portfolio{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *PortfolioUsecase) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if _, err := u.findOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := u.portfolioRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "portfolio not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// UploadImage は作品画像を保存してURLを記録する。
func (u *PortfolioUsecase) UploadImage(ctx context.Context, actor authz.Actor, id int64, filename, contentType string, r io.Reader, size int64) (model.Portfolio, error) {
	p, err := u.findOwned(ctx, actor, id)
	if err != nil {
		return model.Portfolio{}, err
	}

	url, err := u.media.Save(ctx, "portfolios/images", filename, contentType, r, size)
	if err != nil {
		return model.Portfolio{}, NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	p.ImageURL = url
	if err := u.portfolioRepo.Update(ctx, p); err != nil {
		return model.Portfolio{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 作成時のexecutor_id解決。実施者は自分のID、スタッフは指定必須。
func (u *PortfolioUsecase) resolveExecutorID(ctx context.Context, actor authz.Actor, requested *int64) (int64, error) {
	if actor.HasExecutorProfile() {
		if requested != nil && *requested != *actor.ExecutorID && !actor.Staff() {
			return 0, NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if requested == nil || !actor.Staff() {
			return *actor.ExecutorID, nil
		}
	}
	if !actor.Staff() {
		return 0, NewHTTPError(http.StatusForbidden, "executor profile required")
	}
	if requested == nil {
		return 0, NewHTTPError(http.StatusBadRequest, "executor_id is required")
	}
	if _, err := u.executorRepo.FindByID(ctx, *requested); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, NewHTTPError(http.StatusNotFound, "executor not found")
		}
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return *requested, nil
}

func (u *PortfolioUsecase) findOwned(ctx context.Context, actor authz.Actor, id int64) (model.Portfolio, error) {
	if !actor.Authenticated() {
		return model.Portfolio{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	p, err := u.portfolioRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Portfolio{}, NewHTTPError(http.StatusNotFound, "portfolio not found")
		}
		return model.Portfolio{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !authz.CanMutatePortfolio(actor, p) {
		return model.Portfolio{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return p, nil
}
