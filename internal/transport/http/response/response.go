package response

// Msg is the body of every non-validation error.
type Msg struct {
	Msg string `json:"msg"`
}

// FieldError is one entry of a validation failure list.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

type Errors struct {
	Errors []FieldError `json:"errors"`
}

// Error builds a {msg} body; an empty customMsg uses the default for code.
func Error(code int, customMsg string) Msg {
	if customMsg == "" {
		customMsg = MsgFor(code)
	}
	return Msg{Msg: customMsg}
}

// Invalid never returns a null list.
func Invalid(fields ...FieldError) Errors {
	if fields == nil {
		fields = []FieldError{}
	}
	return Errors{Errors: fields}
}
