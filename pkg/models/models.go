package models

// PaginationResult represents paginated results
type PaginationResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
}

// GetAllModels returns every model registered for AutoMigrate
func GetAllModels() []interface{} {
	return []interface{}{
		&User{},
		&Buyer{},
		&BuyerHistory{},
	}
}
