package types

// VersionResponse is the body of GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
}

// ModelDetails carries format information about a local model.
type ModelDetails struct {
	Format            string `json:"format,omitempty"`
	Family            string `json:"family,omitempty"`
	ParameterSize     string `json:"parameter_size,omitempty"`
	QuantizationLevel string `json:"quantization_level,omitempty"`
}

// ModelTag is one local model as listed by GET /api/tags.
type ModelTag struct {
	Name    string       `json:"name"`
	Model   string       `json:"model,omitempty"`
	Size    int64        `json:"size"`
	Digest  string       `json:"digest,omitempty"`
	Details ModelDetails `json:"details"`
}

// TagsResponse is the body of GET /api/tags.
type TagsResponse struct {
	Models []ModelTag `json:"models"`
}
