package service

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func calculateTotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
