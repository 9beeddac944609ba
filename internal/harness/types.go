package harness

// TraceEvent records one call step of a scenario.
//
// Calls rejected while binding (wrong arity, illegal argument types,
// unknown function) appear with ErrorCode set and no Path.
type TraceEvent struct {
	Step       int      `json:"step"`
	Function   string   `json:"function"`
	ArgTypes   []string `json:"arg_types"`
	ReturnType string   `json:"return_type,omitempty"`
	Path       string   `json:"path,omitempty"`
	Values     []string `json:"values,omitempty"`
	ErrorCode  string   `json:"error_code,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// QueryID is the session query id the calls ran under.
	QueryID string `json:"query_id"`

	// Trace contains one event per call step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a call step to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
