package archive

import "strings"

type Field string

const (
	FieldPublishDate      Field = "publish_date"
	FieldAcceptedComments Field = "accepted_comments"
	FieldVisits           Field = "visits"
	FieldImportance       Field = "importance"
)

var fields = []Field{FieldPublishDate, FieldAcceptedComments, FieldVisits, FieldImportance}

// Order is a sort key of the archive listing.
type Order struct {
	Field Field
	Desc  bool
}

// DefaultOrder lists the newest posts first.
var DefaultOrder = Order{Field: FieldPublishDate, Desc: true}

// Orders returns every accepted order, ascending forms first.
func Orders() []Order {
	orders := make([]Order, 0, len(fields)*2)
	for _, f := range fields {
		orders = append(orders, Order{Field: f})
	}
	for _, f := range fields {
		orders = append(orders, Order{Field: f, Desc: true})
	}

	return orders
}

// ParseOrder maps "visits" or "-visits" style values onto an Order.
// Anything outside the whitelist yields DefaultOrder.
func ParseOrder(s string) Order {
	o := Order{Field: Field(s)}
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		o = Order{Field: Field(rest), Desc: true}
	}

	for _, f := range fields {
		if o.Field == f {
			return o
		}
	}

	return DefaultOrder
}

func (o Order) String() string {
	if o.Desc {
		return "-" + string(o.Field)
	}

	return string(o.Field)
}

// NeedsAcceptedComments reports whether sorting requires the accepted comment count.
func (o Order) NeedsAcceptedComments() bool {
	return o.Field == FieldAcceptedComments
}
