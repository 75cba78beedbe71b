package dto

// UpdateProfileRequest changes display preferences; all fields optional.
type UpdateProfileRequest struct {
	Theme            *string `json:"theme"              validate:"omitempty,oneof=light dark"`
	ProductViewMode  *string `json:"product_view_mode"  validate:"omitempty,oneof=grid list"`
	CategoryViewMode *string `json:"category_view_mode" validate:"omitempty,oneof=grid list"`
}

// SetViewModeRequest selects the display mode for one list view.
type SetViewModeRequest struct {
	View string `json:"view" validate:"required,oneof=products categories"`
	Mode string `json:"mode" validate:"required,oneof=grid list"`
}

// ProfileResponse is the explicit settings object handed back to callers —
// display preferences travel with the response, never as ambient session state.
type ProfileResponse struct {
	Theme            string `json:"theme"`
	ProductViewMode  string `json:"product_view_mode"`
	CategoryViewMode string `json:"category_view_mode"`
}
