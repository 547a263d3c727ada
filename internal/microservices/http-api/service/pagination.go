package service

import "yamdb/internal/microservices/http-api/dto"

func normalizePage(page, pageSize int) (int, int) {
	return dto.PageQuery{Page: page, PageSize: pageSize}.Normalize()
}
