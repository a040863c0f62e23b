package admin

import (
	handlershared "github.com/storeflow/storeflow/internal/http/handlers/shared"
	"github.com/storeflow/storeflow/internal/http/response"
)

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func paginationMeta(page, pageSize int, total int64) response.Pagination {
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
