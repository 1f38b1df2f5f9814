package types

// DiscoverRequest asks which services match a free-text query
type DiscoverRequest struct {
	Message string `json:"message" binding:"required"`
	Limit   int    `json:"limit,omitempty"`
}

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params"`
}

// PackageRequest carries a package configuration for the /package endpoints
type PackageRequest struct {
	Options  map[string]interface{} `json:"options,omitempty"`
	Settings map[string]interface{} `json:"settings" binding:"required"`
}

// Params converts the request into tool parameters
func (r PackageRequest) Params() map[string]interface{} {
	params := map[string]interface{}{"settings": r.Settings}
	if r.Options != nil {
		params["options"] = r.Options
	}
	return params
}
