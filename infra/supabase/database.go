package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DatabaseClient handles PostgREST operations.
type DatabaseClient struct {
	client *Client
}

// From starts a query builder for a table.
func (d *DatabaseClient) From(table string) *QueryBuilder {
	return &QueryBuilder{
		client:  d.client,
		table:   table,
		method:  "GET",
		columns: "*",
		headers: make(map[string]string),
	}
}

// =============================================================================
// Query Builder
// =============================================================================

// QueryBuilder builds and executes database queries.
type QueryBuilder struct {
	client      *Client
	table       string
	method      string
	columns     string
	filters     []string
	orders      []string
	limitVal    *int
	offsetVal   *int
	body        []byte
	headers     map[string]string
	single      bool
	count       string // "", "exact", "planned", "estimated"
	onConflict  string
	accessToken string
}

// Select specifies columns to select, including embedded relations such as
// "*, users(name,avatar_url)".
func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.method = "GET"
	q.columns = columns
	return q
}

// Insert inserts records.
func (q *QueryBuilder) Insert(data interface{}) *QueryBuilder {
	q.method = "POST"
	body, _ := json.Marshal(data)
	q.body = body
	q.headers["Prefer"] = "return=representation"
	return q
}

// Upsert upserts records, merging on the given conflict target.
func (q *QueryBuilder) Upsert(data interface{}, onConflict string) *QueryBuilder {
	q.method = "POST"
	body, _ := json.Marshal(data)
	q.body = body
	q.headers["Prefer"] = "return=representation,resolution=merge-duplicates"
	q.onConflict = onConflict
	return q
}

// Update updates records matching the filters.
func (q *QueryBuilder) Update(data interface{}) *QueryBuilder {
	q.method = "PATCH"
	body, _ := json.Marshal(data)
	q.body = body
	q.headers["Prefer"] = "return=representation"
	return q
}

// Delete deletes records matching the filters.
func (q *QueryBuilder) Delete() *QueryBuilder {
	q.method = "DELETE"
	return q
}

// =============================================================================
// Filters
// =============================================================================

// Eq adds an equality filter.
func (q *QueryBuilder) Eq(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=eq.%v", column, value))
	return q
}

// Neq adds a not-equal filter.
func (q *QueryBuilder) Neq(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=neq.%v", column, value))
	return q
}

// Gt adds a greater-than filter.
func (q *QueryBuilder) Gt(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=gt.%v", column, value))
	return q
}

// Gte adds a greater-than-or-equal filter.
func (q *QueryBuilder) Gte(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=gte.%v", column, value))
	return q
}

// Lt adds a less-than filter.
func (q *QueryBuilder) Lt(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=lt.%v", column, value))
	return q
}

// Lte adds a less-than-or-equal filter.
func (q *QueryBuilder) Lte(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=lte.%v", column, value))
	return q
}

// Like adds a LIKE filter.
func (q *QueryBuilder) Like(column, pattern string) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=like.%s", column, url.QueryEscape(pattern)))
	return q
}

// ILike adds a case-insensitive LIKE filter.
func (q *QueryBuilder) ILike(column, pattern string) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=ilike.%s", column, url.QueryEscape(pattern)))
	return q
}

// Is adds an IS filter (for null, true, false).
func (q *QueryBuilder) Is(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=is.%v", column, value))
	return q
}

// In adds an IN filter.
func (q *QueryBuilder) In(column string, values []interface{}) *QueryBuilder {
	strValues := make([]string, len(values))
	for i, v := range values {
		strValues[i] = fmt.Sprintf("%v", v)
	}
	q.filters = append(q.filters, fmt.Sprintf("%s=in.(%s)", column, strings.Join(strValues, ",")))
	return q
}

// Filter adds a raw filter.
func (q *QueryBuilder) Filter(column string, op FilterOperator, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=%s.%v", column, op, value))
	return q
}

// =============================================================================
// Ordering and Pagination
// =============================================================================

// Order adds an order clause.
func (q *QueryBuilder) Order(column string, dir OrderDirection) *QueryBuilder {
	q.orders = append(q.orders, fmt.Sprintf("%s.%s", column, dir))
	return q
}

// Limit sets the maximum number of rows.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limitVal = &n
	return q
}

// Offset sets the number of rows to skip.
func (q *QueryBuilder) Offset(n int) *QueryBuilder {
	q.offsetVal = &n
	return q
}

// Range sets an inclusive row range.
func (q *QueryBuilder) Range(from, to int) *QueryBuilder {
	q.headers["Range"] = fmt.Sprintf("%d-%d", from, to)
	q.headers["Range-Unit"] = "items"
	return q
}

// Single expects a single row result.
func (q *QueryBuilder) Single() *QueryBuilder {
	q.single = true
	q.headers["Accept"] = "application/vnd.pgrst.object+json"
	return q
}

// Count requests a row count alongside the result. countType is one of
// exact, planned or estimated.
func (q *QueryBuilder) Count(countType string) *QueryBuilder {
	q.count = countType
	return q
}

// WithToken sets the access token used for row-level security.
func (q *QueryBuilder) WithToken(token string) *QueryBuilder {
	q.accessToken = token
	return q
}

// =============================================================================
// Execution
// =============================================================================

// Execute runs the query and returns the raw response body.
func (q *QueryBuilder) Execute(ctx context.Context) ([]byte, error) {
	data, _, err := q.run(ctx)
	return data, err
}

// ExecuteInto runs the query and unmarshals the result into dest.
func (q *QueryBuilder) ExecuteInto(ctx context.Context, dest interface{}) error {
	data, err := q.Execute(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// ExecuteIntoWithCount runs the query, unmarshals the result into dest, and
// returns the total row count from the Content-Range header. Callers must
// have requested a count with Count.
func (q *QueryBuilder) ExecuteIntoWithCount(ctx context.Context, dest interface{}) (int64, error) {
	data, total, err := q.run(ctx)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return 0, fmt.Errorf("unmarshal response: %w", err)
	}
	return total, nil
}

func (q *QueryBuilder) run(ctx context.Context) ([]byte, int64, error) {
	urlStr := q.buildURL()

	if q.count != "" {
		q.headers["Prefer"] = appendPrefer(q.headers["Prefer"], "count="+q.count)
	}

	var resp *response
	var err error
	if q.accessToken != "" {
		resp, err = q.client.requestWithToken(ctx, q.method, urlStr, q.body, q.headers, q.accessToken)
	} else {
		resp, err = q.client.request(ctx, q.method, urlStr, q.body, q.headers)
	}
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode >= 400 {
		return nil, 0, parseError(resp.Body, resp.StatusCode)
	}

	return resp.Body, parseContentRangeTotal(resp.Header.Get("Content-Range")), nil
}

// buildURL builds the request URL.
func (q *QueryBuilder) buildURL() string {
	urlStr := q.client.restURL + "/" + url.PathEscape(q.table)

	params := make([]string, 0, len(q.filters)+4)

	if q.columns != "" && q.method != "DELETE" {
		params = append(params, "select="+url.QueryEscape(q.columns))
	}

	if q.onConflict != "" {
		params = append(params, "on_conflict="+url.QueryEscape(q.onConflict))
	}

	params = append(params, q.filters...)

	if len(q.orders) > 0 {
		params = append(params, "order="+strings.Join(q.orders, ","))
	}
	if q.limitVal != nil {
		params = append(params, fmt.Sprintf("limit=%d", *q.limitVal))
	}
	if q.offsetVal != nil {
		params = append(params, fmt.Sprintf("offset=%d", *q.offsetVal))
	}

	if len(params) > 0 {
		urlStr += "?" + strings.Join(params, "&")
	}
	return urlStr
}

// parseContentRangeTotal extracts the total from a PostgREST Content-Range
// header such as "0-9/42" or "*/0". Returns -1 when no total is present.
func parseContentRangeTotal(header string) int64 {
	if header == "" {
		return -1
	}
	idx := strings.LastIndex(header, "/")
	if idx < 0 || idx == len(header)-1 {
		return -1
	}
	totalPart := header[idx+1:]
	if totalPart == "*" {
		return -1
	}
	total, err := strconv.ParseInt(totalPart, 10, 64)
	if err != nil {
		return -1
	}
	return total
}

// appendPrefer appends to the Prefer header.
func appendPrefer(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "," + addition
}
