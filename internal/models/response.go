package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

type WatchListResponse struct {
	Items      []Watch `json:"items"`
	Query      string  `json:"query,omitempty"`
	Sort       string  `json:"sort"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
}

type LikeResponse struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

type SubmissionResponse struct {
	ID         string `json:"id"`
	Collection string `json:"collection"`
}

type UploadResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type FailedNotification struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	EmailError string    `json:"email_error"`
	CreatedAt  time.Time `json:"created_at"`
}

type FailedNotificationsResponse struct {
	Documents []FailedNotification `json:"documents"`
}

type ReplayResponse struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Outcome    string `json:"outcome"`
	Reason     string `json:"reason,omitempty"`
	Error      string `json:"error,omitempty"`
}
