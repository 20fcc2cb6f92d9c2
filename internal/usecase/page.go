package usecase

import repo "storefront/internal/repository"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// page*sizeがオフセットとして溢れない上限
	MaxPage = 1_000_000
)

// 0始まり
type PageInput struct {
	Page int
	Size int
}

// 範囲外のpageとsizeは丸める
func (p PageInput) normalize() repo.PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return repo.PageRequest{Page: p.Page, Size: p.Size}
}

type PageOutput[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func newPage[T any](content []T, p repo.PageRequest, total int64) PageOutput[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return PageOutput[T]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: total,
		TotalPages:    pages,
		First:         p.Page == 0,
		Last:          p.Page >= pages-1,
	}
}
