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

// NewsUsecase はニュース記事。公開読み取り・スタッフのみ書き込み。
type NewsUsecase struct {
	newsRepo repo.NewsRepository
	userRepo repo.UserRepository
	media    storage.MediaStore
}

func NewNewsUsecase(newsRepo repo.NewsRepository, userRepo repo.UserRepository, media storage.MediaStore) *NewsUsecase {
	return &NewsUsecase{newsRepo: newsRepo, userRepo: userRepo, media: media}
}

type NewsListInput struct {
	Page  int
	Limit int
	Q     string
}

type NewsInput struct {
	Title   string
	Content string
}

type NewsResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
	PDFURL      string    `json:"pdf_url"`

	//著者が削除済みならnull
	Author *OrderUserRef `json:"author"`
}

func (u *NewsUsecase) List(ctx context.Context, in NewsListInput) ([]NewsResponse, int64, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	items, total, err := u.newsRepo.List(ctx, repo.NewsListQuery{
		Page:  page,
		Limit: limit,
		Q:     strings.TrimSpace(in.Q),
	})
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := make([]NewsResponse, 0, len(items))
	for _, n := range items {
		r, err := u.buildResponse(ctx, n)
		if err != nil {
			return nil, 0, err
		}
		resp = append(resp, r)
	}
	return resp, total, nil
}

func (u *NewsUsecase) Get(ctx context.Context, id int64) (NewsResponse, error) {
	n, err := u.newsRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewsResponse{}, NewHTTPError(http.StatusNotFound, "news not found")
		}
		return NewsResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, n)
}

func (u *NewsUsecase) Create(ctx context.Context, actor authz.Actor, in NewsInput) (NewsResponse, error) {
	if !authz.CanManageNews(actor) {
		return NewsResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if err := validateNewsInput(in); err != nil {
		return NewsResponse{}, err
	}

	authorID := actor.UserID
	n, err := u.newsRepo.Create(ctx, model.News{
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		PublishedAt: time.Now(),
		AuthorID:    &authorID,
	})
	if err != nil {
		return NewsResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, n)
}

func (u *NewsUsecase) Update(ctx context.Context, actor authz.Actor, id int64, in NewsInput) (NewsResponse, error) {
	if !authz.CanManageNews(actor) {
		return NewsResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if err := validateNewsInput(in); err != nil {
		return NewsResponse{}, err
	}

	n, err := u.newsRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewsResponse{}, NewHTTPError(http.StatusNotFound, "news not found")
		}
		return NewsResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	n.Title = strings.TrimSpace(in.Title)
	n.Content = in.Content

	if err := u.newsRepo.Update(ctx, n); err != nil {
		return NewsResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, n)
}

func (u *NewsUsecase) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if !authz.CanManageNews(actor) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if err := u.newsRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "news not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// UploadPDF は記事の添付PDFを保存する。
func (u *NewsUsecase) UploadPDF(ctx context.Context, actor authz.Actor, id int64, filename string, r io.Reader, size int64) (NewsResponse, error) {
	if !authz.CanManageNews(actor) {
		return NewsResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	n, err := u.newsRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewsResponse{}, NewHTTPError(http.StatusNotFound, "news not found")
		}
		return NewsResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	url, err := u.media.Save(ctx, "news/pdfs", filename, "application/pdf", r, size)
	if err != nil {
		return NewsResponse{}, NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	n.PDFURL = url
	if err := u.newsRepo.Update(ctx, n); err != nil {
		return NewsResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, n)
}

func (u *NewsUsecase) buildResponse(ctx context.Context, n model.News) (NewsResponse, error) {
	resp := NewsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		PublishedAt: n.PublishedAt,
		PDFURL:      n.PDFURL,
	}

	if n.AuthorID != nil {
		author, err := u.userRepo.FindByID(ctx, *n.AuthorID)
		if err != nil {
			return NewsResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if author != nil {
			resp.Author = &OrderUserRef{
				ID:          author.ID,
				Username:    author.Username,
				DisplayName: author.DisplayName(),
			}
		} else {
			resp.Author = &OrderUserRef{ID: *n.AuthorID, Username: "deleted user", Deleted: true}
		}
	}
	return resp, nil
}

func validateNewsInput(in NewsInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return NewHTTPError(http.StatusBadRequest, "content is required")
	}
	return nil
}
