package studio

// Response wraps every API payload.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type CollectionInfo struct {
	Name          string `json:"name"`
	DocumentCount int64  `json:"document_count"`
}

type DocumentResult struct {
	Documents  []map[string]interface{} `json:"documents"`
	// Fields maps each key seen on the page to the type of its first value.
	Fields     map[string]string        `json:"fields"`
	TotalCount int64                    `json:"total_count"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
