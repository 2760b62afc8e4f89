package postgres

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aradsms/phonebook_api/internal/phonebook_service/domain"
)

func TestBuildListQuery(t *testing.T) {
	id := int64(12)

	tests := []struct {
		name           string
		filter         domain.ListFilter
		page           domain.PageRequest
		wantSelect     string
		wantSelectArgs []any
		wantCount      string
		wantCountArgs  []any
	}{
		{
			name:           "no filter",
			page:           domain.PageRequest{Page: 1, PageSize: 2},
			wantSelect:     `SELECT ` + itemColumns + ` FROM phonebook_item ORDER BY phone_number ASC LIMIT $1 OFFSET $2`,
			wantSelectArgs: []any{2, 0},
			wantCount:      `SELECT COUNT(*) FROM phonebook_item`,
			wantCountArgs:  nil,
		},
		{
			name:           "id wins over name",
			filter:         domain.ListFilter{ID: &id, Name: "John"},
			page:           domain.PageRequest{Page: 2, PageSize: 10, Offset: 3},
			wantSelect:     `SELECT ` + itemColumns + ` FROM phonebook_item WHERE id = $1 ORDER BY phone_number ASC LIMIT $2 OFFSET $3`,
			wantSelectArgs: []any{int64(12), 10, 13},
			wantCount:      `SELECT COUNT(*) FROM phonebook_item WHERE id = $1`,
			wantCountArgs:  []any{int64(12)},
		},
		{
			name:           "name substring",
			filter:         domain.ListFilter{Name: "Jo"},
			page:           domain.PageRequest{Page: 3, PageSize: 2},
			wantSelect:     `SELECT ` + itemColumns + ` FROM phonebook_item WHERE (first_name LIKE $1 OR last_name LIKE $1) ORDER BY phone_number ASC LIMIT $2 OFFSET $3`,
			wantSelectArgs: []any{"%Jo%", 2, 4},
			wantCount:      `SELECT COUNT(*) FROM phonebook_item WHERE (first_name LIKE $1 OR last_name LIKE $1)`,
			wantCountArgs:  []any{"%Jo%"},
		},
		{
			name:           "like wildcards are escaped",
			filter:         domain.ListFilter{Name: `50%_\`},
			page:           domain.PageRequest{Page: 1, PageSize: 2},
			wantSelect:     `SELECT ` + itemColumns + ` FROM phonebook_item WHERE (first_name LIKE $1 OR last_name LIKE $1) ORDER BY phone_number ASC LIMIT $2 OFFSET $3`,
			wantSelectArgs: []any{`%50\%\_\\%`, 2, 0},
			wantCount:      `SELECT COUNT(*) FROM phonebook_item WHERE (first_name LIKE $1 OR last_name LIKE $1)`,
			wantCountArgs:  []any{`%50\%\_\\%`},
		},
		{
			name:           "huge page and offset stay within bigint",
			page:           domain.PageRequest{Page: math.MaxInt, PageSize: 2, Offset: math.MaxInt}.Normalize(domain.MaxPageSize),
			wantSelect:     `SELECT ` + itemColumns + ` FROM phonebook_item ORDER BY phone_number ASC LIMIT $1 OFFSET $2`,
			wantSelectArgs: []any{2, math.MaxInt},
			wantCount:      `SELECT COUNT(*) FROM phonebook_item`,
			wantCountArgs:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := BuildListQuery(tc.filter, tc.page)
			assert.Equal(t, tc.wantSelect, q.Select)
			assert.Equal(t, tc.wantSelectArgs, q.SelectArgs)
			assert.Equal(t, tc.wantCount, q.Count)
			assert.Equal(t, tc.wantCountArgs, q.CountArgs)
		})
	}
}
