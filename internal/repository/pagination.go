package repository

import "gorm.io/gorm"

// 仓储层兜底上限，与接口层分页上限保持一致。
const maxListPageSize = 100

// applyPagination 应用分页参数，非法页码回退到第一页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxListPageSize {
		pageSize = maxListPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
