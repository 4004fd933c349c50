package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type Profile struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone_number"`
	AvatarURL  string `json:"avatar_url"`
	Role       string `json:"role"`
	IsStaff    bool   `json:"is_staff"`
	ExecutorID *int64 `json:"executor_id,omitempty"`
}

type Service struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	DurationHours int64           `json:"duration_hours"`
	PhotoURL      string          `json:"photo_url"`
}

type CartItem struct {
	ID      int64 `json:"id"`
	Service struct {
		ID    int64           `json:"id"`
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	} `json:"service"`
	Quantity int64           `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

type Cart struct {
	ID                  int64           `json:"id"`
	Items               []CartItem      `json:"items"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	TotalItemsCount     int64           `json:"total_items_count"`
	TotalPositionsCount int64           `json:"total_positions_count"`
}

type UserRef struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Deleted     bool   `json:"deleted,omitempty"`
}

type OrderStatus struct {
	ID          int64  `json:"id"`
	Code        string `json:"status_name"`
	DisplayName string `json:"status_display"`
}

type Order struct {
	ID     int64    `json:"id"`
	Client *UserRef `json:"client"`

	Executor *struct {
		ID             int64  `json:"id"`
		Specialization string `json:"specialization"`
		Username       string `json:"username"`
		Deleted        bool   `json:"deleted,omitempty"`
	} `json:"executor"`

	Service *struct {
		ID      int64           `json:"id"`
		Name    string          `json:"name"`
		Price   decimal.Decimal `json:"price"`
		Deleted bool            `json:"deleted,omitempty"`
	} `json:"service"`

	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	ScheduledAt time.Time   `json:"scheduled_at"`
	CompletedAt *time.Time  `json:"completed_at"`
}

type Executor struct {
	ID              int64    `json:"id"`
	Username        string   `json:"username"`
	DisplayName     string   `json:"display_name"`
	Specialization  string   `json:"specialization"`
	ExperienceYears int64    `json:"experience_years"`
	PortfolioLink   string   `json:"portfolio_link"`
	AverageRating   *float64 `json:"average_rating,omitempty"`
	ReviewCount     int64    `json:"review_count"`
}

type News struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
	PDFURL      string    `json:"pdf_url"`
	Author      *UserRef  `json:"author"`
}

type Portfolio struct {
	ID          int64     `json:"id"`
	ExecutorID  int64     `json:"executor_id"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"image_url"`
	VideoLink   string    `json:"video_link"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type Review struct {
	ID         int64     `json:"id"`
	Author     *UserRef  `json:"author"`
	ExecutorID int64     `json:"executor_id"`
	OrderID    *int64    `json:"order_id"`
	Rating     int64     `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type Message struct {
	ID       int64     `json:"id"`
	Sender   *UserRef  `json:"sender"`
	Receiver *UserRef  `json:"receiver"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
	IsRead   bool      `json:"is_read"`
}
