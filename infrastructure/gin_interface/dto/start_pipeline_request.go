package dto

type StartPipelineRequest struct {
	Topic string `json:"topic" binding:"required"`
}

type StartPipelineResponse struct {
	ExecutionID string `json:"execution_id"`
	StartTime   string `json:"start_time"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}
