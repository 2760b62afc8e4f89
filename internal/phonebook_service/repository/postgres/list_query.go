package postgres

import (
	"strconv"
	"strings"

	"github.com/aradsms/phonebook_api/internal/phonebook_service/domain"
)

const itemColumns = `id, first_name, last_name, phone_number, country_code, timezone_name, inserted_on, updated_on`

// ListQuery holds the window and count statements for one listing request.
type ListQuery struct {
	Select     string
	SelectArgs []any
	Count      string
	CountArgs  []any
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildListQuery translates a filter and an already normalized page request
// into SQL. An ID filter wins over Name; Name matches a substring of either
// first_name or last_name. Rows are ordered by phone_number.
func BuildListQuery(filter domain.ListFilter, page domain.PageRequest) ListQuery {
	var (
		where string
		args  []any
	)
	switch {
	case filter.ID != nil:
		where = ` WHERE id = $1`
		args = append(args, *filter.ID)
	case filter.Name != "":
		where = ` WHERE (first_name LIKE $1 OR last_name LIKE $1)`
		args = append(args, "%"+likeEscaper.Replace(filter.Name)+"%")
	}

	n := len(args)
	selectArgs := append(append([]any{}, args...), page.PageSize, page.Skip())

	var sb strings.Builder
	sb.WriteString(`SELECT ` + itemColumns + ` FROM phonebook_item`)
	sb.WriteString(where)
	sb.WriteString(` ORDER BY phone_number ASC`)
	sb.WriteString(` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2))

	return ListQuery{
		Select:     sb.String(),
		SelectArgs: selectArgs,
		Count:      `SELECT COUNT(*) FROM phonebook_item` + where,
		CountArgs:  args,
	}
}

