package domain

// Result is the structured outcome of a payment operation. Boundary handlers
// translate it straight into the response envelope; nothing in the payment
// flow panics or leaks transport errors past its own method.
type Result struct {
	Success     bool
	Message     string
	Data        interface{}
	ErrorDetail string
}

// Ok builds a successful result.
func Ok(message string, data interface{}) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Failed builds a failed result.
func Failed(message, errDetail string) Result {
	return Result{Success: false, Message: message, ErrorDetail: errDetail}
}
