package calculator

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
	Separator  string `json:"separator,omitempty"` // "." or ","; defaults to the service setting
}

// EvaluateResponse is the JSON response for a successful evaluation.
type EvaluateResponse struct {
	Expression string  `json:"expression"`
	Canonical  string  `json:"canonical"`
	RPN        string  `json:"rpn"`
	Value      float64 `json:"value"`
	Result     string  `json:"result"` // Value rendered with the active separator
}

// ErrorResponse is returned with 422 when an expression cannot be evaluated.
type ErrorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Position *int   `json:"position,omitempty"`
	Result   string `json:"result"`
}

// BatchRequest is the JSON body for POST /calculator/batch.
type BatchRequest struct {
	Expressions []string `json:"expressions"`
	Separator   string   `json:"separator,omitempty"`
}

// BatchItem is the outcome of one expression in a batch. Failed items carry
// Error and Kind and have Result set to "Not performed.".
type BatchItem struct {
	Expression string   `json:"expression"`
	Result     string   `json:"result"`
	Value      *float64 `json:"value,omitempty"`
	Error      string   `json:"error,omitempty"`
	Kind       string   `json:"kind,omitempty"`
}

// BatchResponse is the JSON response for POST /calculator/batch. Results are
// in request order.
type BatchResponse struct {
	Results   []BatchItem `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}
