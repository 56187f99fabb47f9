package models

import "encoding/json"

type SyncRequest struct {
	PhoneNumber string          `json:"phone_number" binding:"required"`
	RawData     json.RawMessage `json:"raw_data" binding:"required"`
}

type FreshnessRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type FreshnessResponse struct {
	IsFresh  bool   `json:"is_fresh"`
	LastSync string `json:"last_sync,omitempty"`
	Message  string `json:"message,omitempty"`
}

type AnalyzeRequest struct {
	UserID       int64  `json:"user_id" binding:"required"`
	AnalysisType string `json:"analysis_type"`
	Days         int    `json:"days"`
}
