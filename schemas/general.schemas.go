package schemas

// ErrorResponse struct
type ErrorResponse struct {
	Error       bool
	Problem     string
	Description string `json:",omitempty"`
}

// PageSchema is one page of a paginated listing
type PageSchema[T any] struct {
	Items     []T
	Total     int
	PageCount int
	Page      int
}
