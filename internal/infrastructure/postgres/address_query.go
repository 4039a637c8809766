package postgres

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
)

const addressColumns = `id::text, street, house_number, city, postcode, lat, lng, flats, levels,
	created_at, assigned_to::text, assigned_at, completed_at`

// statusExpr is the store-side twin of entity.DeriveStatus.
const statusExpr = `CASE
	WHEN completed_at IS NOT NULL THEN 'completed'
	WHEN assigned_to IS NOT NULL THEN 'assigned'
	ELSE 'pending'
END`

// addressQuery accumulates WHERE conditions with positional arguments.
type addressQuery struct {
	conds []string
	args  []any
}

func (q *addressQuery) add(cond string, v any) {
	q.args = append(q.args, v)
	q.conds = append(q.conds, fmt.Sprintf(cond, len(q.args)))
}

func (q *addressQuery) where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func newAddressQuery(f entity.AddressFilter) *addressQuery {
	q := &addressQuery{}
	if f.City != "" {
		q.add("city = $%d", f.City)
	}
	if f.MinFlats != nil {
		q.add("flats >= $%d", *f.MinFlats)
	}
	if f.AssignedTo != "" {
		q.add("assigned_to = $%d", f.AssignedTo)
	}
	switch f.Status {
	case entity.StatusCompleted:
		q.conds = append(q.conds, "completed_at IS NOT NULL")
	case entity.StatusAssigned:
		q.conds = append(q.conds, "assigned_to IS NOT NULL", "completed_at IS NULL")
	case entity.StatusPending:
		q.conds = append(q.conds, "assigned_to IS NULL", "completed_at IS NULL")
	}
	return q
}

// selectSQL builds the listing query, newest first, with optional paging.
func (q *addressQuery) selectSQL(limit, offset int) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(addressColumns)
	b.WriteString(" FROM addresses")
	b.WriteString(q.where())
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	args := append([]any(nil), q.args...)
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

func (q *addressQuery) countSQL() (string, []any) {
	return "SELECT count(*) FROM addresses" + q.where(), q.args
}
