package shared

// Filter carries the list-endpoint query options that repositories translate
// into SQL: pagination, sorting, free-text search, and exact-match filters.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
