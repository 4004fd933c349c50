package usecase

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// page/page_sizeを既定値・上限に丸める。
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
