package usecase

import (
	"testing"

	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestPageInput_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageInput
		want repo.PageRequest
	}{
		{"defaults", PageInput{}, repo.PageRequest{Page: 0, Size: DefaultPageSize}},
		{"negative page", PageInput{Page: -3, Size: 5}, repo.PageRequest{Page: 0, Size: 5}},
		{"size capped", PageInput{Page: 1, Size: 1000}, repo.PageRequest{Page: 1, Size: MaxPageSize}},
		{"page capped", PageInput{Page: int(^uint(0) >> 1), Size: MaxPageSize}, repo.PageRequest{Page: MaxPage, Size: MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalize()
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Offset(), 0)
		})
	}
}

func TestNewPage(t *testing.T) {
	p := newPage([]int(nil), repo.PageRequest{Page: 1, Size: 10}, 25)

	assert.NotNil(t, p.Content)
	assert.Equal(t, 3, p.TotalPages)
	assert.False(t, p.First)
	assert.False(t, p.Last)

	p = newPage([]int{1}, repo.PageRequest{Page: 2, Size: 10}, 25)
	assert.True(t, p.Last)
}
