// Package models holds shared repository-layer types (pagination, counts).
package models

// PaginateResult represents one page of query results.
type PaginateResult[T any] struct {
	// Current page (1-based)
	Page int64 `json:"page" bson:"page"`
	// Items per page
	Limit int64 `json:"limit" bson:"limit"`
	// Items in the current page
	ItemCount int64 `json:"itemCount" bson:"itemCount"`
	// The items
	Items []T `json:"items" bson:"items"`
	// Total matching items
	Total int64 `json:"total" bson:"total"`
	// Total pages
	TotalPage int64 `json:"totalPage" bson:"totalPage"`
}

// CountResult represents a count query result.
type CountResult struct {
	TotalCount int64 `json:"totalCount" bson:"totalCount"`
	Limit      int64 `json:"limit" bson:"limit"`
	TotalPage  int64 `json:"totalPage" bson:"totalPage"`
}
