package usecase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"studio/internal/authz"
	"studio/internal/domain/model"
	"studio/internal/infra/storage"
	repo "studio/internal/repository"

	"github.com/shopspring/decimal"
)

// ServiceUsecase はサービスカタログ。読み取りは公開、書き込みはスタッフ/実施者。
type ServiceUsecase struct {
	serviceRepo repo.ServiceRepository
	media       storage.MediaStore
}

func NewServiceUsecase(serviceRepo repo.ServiceRepository, media storage.MediaStore) *ServiceUsecase {
	return &ServiceUsecase{serviceRepo: serviceRepo, media: media}
}

type ServiceListInput struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type ServiceInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	DurationHours int64
}

func (u *ServiceUsecase) List(ctx context.Context, in ServiceListInput) ([]model.Service, int64, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	services, total, err := u.serviceRepo.List(ctx, repo.ServiceListQuery{
		Page:     page,
		Limit:    limit,
		Q:        strings.TrimSpace(in.Q),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return services, total, nil
}

func (u *ServiceUsecase) Get(ctx context.Context, id int64) (model.Service, error) {
	s, err := u.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Service{}, NewHTTPError(http.StatusNotFound, "service not found")
		}
		return model.Service{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *ServiceUsecase) Create(ctx context.Context, actor authz.Actor, in ServiceInput) (model.Service, error) {
	if !authz.CanManageCatalog(actor) {
		return model.Service{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if err := validateServiceInput(in); err != nil {
		return model.Service{}, err
	}

	s, err := u.serviceRepo.Create(ctx, model.Service{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		DurationHours: in.DurationHours,
	})
	if err != nil {
		return model.Service{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *ServiceUsecase) Update(ctx context.Context, actor authz.Actor, id int64, in ServiceInput) (model.Service, error) {
	if !authz.CanManageCatalog(actor) {
		return model.Service{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if err := validateServiceInput(in); err != nil {
		return model.Service{}, err
	}

	s, err := u.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Service{}, NewHTTPError(http.StatusNotFound, "service not found")
		}
		return model.Service{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	s.Name = strings.TrimSpace(in.Name)
	s.Description = in.Description
	s.Price = in.Price
	s.DurationHours = in.DurationHours

	if err := u.serviceRepo.Update(ctx, s); err != nil {
		return model.Service{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

// Delete はサービス削除。既存注文のservice_idはNULLになり注文自体は残る。
func (u *ServiceUsecase) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if !authz.CanManageCatalog(actor) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.serviceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "service not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// UploadPhoto は紹介写真をメディアストレージへ保存してURLを記録する。
func (u *ServiceUsecase) UploadPhoto(ctx context.Context, actor authz.Actor, id int64, filename, contentType string, r io.Reader, size int64) (model.Service, error) {
	if !authz.CanManageCatalog(actor) {
		return model.Service{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	s, err := u.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Service{}, NewHTTPError(http.StatusNotFound, "service not found")
		}
		return model.Service{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	url, err := u.media.Save(ctx, "services/photos", filename, contentType, r, size)
	if err != nil {
		return model.Service{}, NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	s.PhotoURL = url
	if err := u.serviceRepo.Update(ctx, s); err != nil {
		return model.Service{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func validateServiceInput(in ServiceInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}
	if in.DurationHours < 1 {
		return NewHTTPError(http.StatusBadRequest, "duration_hours must be at least 1")
	}
	return nil
}
