package dto

import "encoding/json"

type EnqueueRequest struct {
	ActionType string          `json:"action_type"`
	Payload    json.RawMessage `json:"payload"`
}

type ActionResponse struct {
	ID         int64           `json:"id"`
	ActionType string          `json:"action_type"`
	Payload    json.RawMessage `json:"payload"`
	Timestamp  int64           `json:"timestamp"`
	Status     string          `json:"status"`
	Retries    int             `json:"retries"`
	MaxRetries int             `json:"max_retries"`
	Error      string          `json:"error,omitempty"`
}

type ListActionsResponse struct {
	Actions []ActionResponse `json:"actions"`
}

type SyncResponse struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Retried   int `json:"retried"`
	Exhausted int `json:"exhausted"`
}
