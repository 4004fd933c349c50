package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"github.com/shopspring/decimal"
)

// ExecutorUsecase は実施者ディレクトリ（公開読み取り）。
type ExecutorUsecase struct {
	executorRepo repo.ExecutorRepository
	serviceRepo  repo.ServiceRepository
	userRepo     repo.UserRepository
	reviewRepo   repo.ReviewRepository
}

func NewExecutorUsecase(
	executorRepo repo.ExecutorRepository,
	serviceRepo repo.ServiceRepository,
	userRepo repo.UserRepository,
	reviewRepo repo.ReviewRepository,
) *ExecutorUsecase {
	return &ExecutorUsecase{
		executorRepo: executorRepo,
		serviceRepo:  serviceRepo,
		userRepo:     userRepo,
		reviewRepo:   reviewRepo,
	}
}

type ExecutorListInput struct {
	Page  int
	Limit int
	Q     string
}

// 実施者が提供するサービスと実効価格。
type ExecutorServiceResponse struct {
	ServiceID   int64           `json:"service_id"`
	Name        string          `json:"name"`
	BasePrice   decimal.Decimal `json:"base_price"`
	CustomPrice *decimal.Decimal `json:"custom_price"`
	Price       decimal.Decimal `json:"price"`
}

type ExecutorResponse struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url"`
	Specialization  string `json:"specialization"`
	ExperienceYears int64  `json:"experience_years"`
	PortfolioLink   string `json:"portfolio_link"`

	Services []ExecutorServiceResponse `json:"services,omitempty"`

	//レビューの平均点（レビューが無ければnull）
	AverageRating *float64 `json:"average_rating,omitempty"`
	ReviewCount   int64    `json:"review_count"`
}

func (u *ExecutorUsecase) List(ctx context.Context, in ExecutorListInput) ([]ExecutorResponse, int64, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	executors, total, err := u.executorRepo.List(ctx, repo.ExecutorListQuery{
		Page:  page,
		Limit: limit,
		Q:     strings.TrimSpace(in.Q),
	})
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := make([]ExecutorResponse, 0, len(executors))
	for _, ex := range executors {
		r, err := u.buildResponse(ctx, ex, false)
		if err != nil {
			return nil, 0, err
		}
		resp = append(resp, r)
	}
	return resp, total, nil
}

// Get は詳細。提供サービスの実効価格とレビュー集計込み。
func (u *ExecutorUsecase) Get(ctx context.Context, id int64) (ExecutorResponse, error) {
	ex, err := u.executorRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ExecutorResponse{}, NewHTTPError(http.StatusNotFound, "executor not found")
		}
		return ExecutorResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, ex, true)
}

func (u *ExecutorUsecase) buildResponse(ctx context.Context, ex model.Executor, withServices bool) (ExecutorResponse, error) {
	resp := ExecutorResponse{
		ID:              ex.ID,
		Specialization:  ex.Specialization,
		ExperienceYears: ex.ExperienceYears,
		PortfolioLink:   ex.PortfolioLink,
	}

	owner, err := u.userRepo.FindByID(ctx, ex.UserID)
	if err != nil {
		return ExecutorResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if owner != nil {
		resp.Username = owner.Username
		resp.DisplayName = owner.DisplayName()
		resp.AvatarURL = owner.AvatarURL
	}

	reviews, count, err := u.reviewRepo.List(ctx, repo.ReviewListQuery{
		Page: 1, Limit: maxPageSize, ExecutorID: &ex.ID,
	})
	if err != nil {
		return ExecutorResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	resp.ReviewCount = count
	if len(reviews) > 0 {
		var sum int64
		for _, r := range reviews {
			sum += r.Rating
		}
		avg := float64(sum) / float64(len(reviews))
		resp.AverageRating = &avg
	}

	if !withServices {
		return resp, nil
	}

	links, err := u.executorRepo.ListServiceLinks(ctx, ex.ID)
	if err != nil {
		return ExecutorResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for _, link := range links {
		s, err := u.serviceRepo.FindByID(ctx, link.ServiceID)
		if err != nil {
			//サービスが削除済みならスキップ
			continue
		}
		resp.Services = append(resp.Services, ExecutorServiceResponse{
			ServiceID:   s.ID,
			Name:        s.Name,
			BasePrice:   s.Price,
			CustomPrice: link.CustomPrice,
			Price:       link.EffectivePrice(s.Price),
		})
	}
	return resp, nil
}
