package dto

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Slug        string  `json:"slug"        validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Color       string  `json:"color"       validate:"omitempty,hexcolor"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=100"`
	Slug        *string `json:"slug"        validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Color       *string `json:"color"       validate:"omitempty,hexcolor"`
}

// CategoryFilter controls list ordering.
type CategoryFilter struct {
	Sort string `form:"sort" validate:"omitempty,oneof=name slug created_at"`
	Dir  string `form:"dir"  validate:"omitempty,oneof=asc desc"`
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
}
