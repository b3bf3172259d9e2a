package handler

type createUserRequest struct {
	Name           string `json:"name" validate:"required"`
	ProfilePicture string `json:"profilePicture"`
}

type claimRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// ErrorResponse is the canonical error envelope: {"error": "<message>"}.
type ErrorResponse struct {
	Error string `json:"error"`
}
