package handler

import (
	"quotecrm/internal/domain"
)

// Swagger type definitions for API documentation.
// Request types that are also bound by handlers carry binding tags.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"asha"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Username string          `json:"username" binding:"required" example:"asha"`
	Email    string          `json:"email" example:"asha@quoteworks.in"`
	Password string          `json:"password" binding:"required" example:"securepassword123"`
	FullName string          `json:"full_name" example:"Asha Rao"`
	Phone    string          `json:"phone" example:"+91 98450 12345"`
	Role     domain.UserRole `json:"role" binding:"required" example:"sales"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Email    *string          `json:"email" example:"asha.rao@quoteworks.in"`
	FullName *string          `json:"full_name" example:"Asha Rao"`
	Phone    *string          `json:"phone" example:"+91 98450 12345"`
	Role     *domain.UserRole `json:"role" example:"manager"`
	IsActive *bool            `json:"is_active" example:"true"`
	Password *string          `json:"password" example:"newpassword123"`
}

// SetCapabilitiesRequest replaces the capabilities granted on top of a role.
type SetCapabilitiesRequest struct {
	Capabilities []string `json:"capabilities" example:"report:view,payment:record"`
}

// ReasonRequest carries the reason for rejecting or losing an estimation.
type ReasonRequest struct {
	Reason string `json:"reason" example:"Client chose a cheaper vendor"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// DownloadURLResponse is a time limited link to a stored file.
type DownloadURLResponse struct {
	URL string `json:"url" example:"https://quotecrm-files.s3.amazonaws.com/po_attachments/...?X-Amz-Signature=..."`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
