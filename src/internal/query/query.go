package query

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100

	// DefaultHTTPLimit bounds list responses when the client does not ask
	// for an explicit page size.
	DefaultHTTPLimit = 20
)

// Order is one sort criterion. Ordination keeps the criteria in the order
// the client supplied them.
type Order struct {
	Field string
	Desc  bool
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Query carries field selection, ordination, pagination and raw filter
// criteria for the repository layer. Filters are passed through to MongoDB
// untouched.
type Query struct {
	Fields     []string
	Ordination []Order
	Pagination Pagination
	Filters    bson.M
}

// New returns a query with the repository defaults: every field, newest
// first, first page of 100.
func New() *Query {
	return &Query{
		Fields:     []string{},
		Ordination: []Order{{Field: "created_at", Desc: true}},
		Pagination: Pagination{Page: DefaultPage, Limit: DefaultLimit},
		Filters:    bson.M{},
	}
}

// Deserialize fills the query from an inbound query string. Recognized keys
// are fields, sort/ordination, page and limit; every other key is passed
// through as a raw equality filter.
func (q *Query) Deserialize(values map[string][]string) *Query {
	for key, raw := range values {
		if len(raw) == 0 {
			continue
		}
		value := raw[0]

		switch key {
		case "fields":
			q.Fields = splitList(value)
		case "sort", "ordination":
			q.Ordination = parseOrdination(value)
		case "page", "pagination.page":
			if page, err := strconv.Atoi(value); err == nil && page >= 1 {
				q.Pagination.Page = page
			}
		case "limit", "pagination.limit":
			if limit, err := strconv.Atoi(value); err == nil && limit >= 1 {
				q.Pagination.Limit = limit
			}
		default:
			q.Filters[key] = value
		}
	}
	return q
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			fields = append(fields, part)
		}
	}
	return fields
}

func parseOrdination(value string) []Order {
	parts := splitList(value)
	orders := make([]Order, 0, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, "-") {
			orders = append(orders, Order{Field: strings.TrimPrefix(part, "-"), Desc: true})
			continue
		}
		orders = append(orders, Order{Field: part})
	}
	return orders
}

// Projection converts the field selection to a MongoDB projection document.
// An empty selection means every field.
func (q *Query) Projection() bson.D {
	projection := bson.D{}
	for _, field := range q.Fields {
		projection = append(projection, bson.E{Key: field, Value: 1})
	}
	return projection
}

// Sort converts the ordination to a MongoDB sort document.
func (q *Query) Sort() bson.D {
	sort := bson.D{}
	for _, order := range q.Ordination {
		direction := 1
		if order.Desc {
			direction = -1
		}
		sort = append(sort, bson.E{Key: order.Field, Value: direction})
	}
	return sort
}

// Skip computes the number of records to skip: (page-1) x limit.
func (q *Query) Skip() int64 {
	return int64(q.Pagination.Page-1) * int64(q.Pagination.Limit)
}

// Limit returns the page size as the driver expects it.
func (q *Query) Limit() int64 {
	return int64(q.Pagination.Limit)
}
