package response

// Response is the error body returned to callers. Successful lookups are
// rendered as bare objects, so only the error field exists here.
type Response struct {
	Error string `json:"erro"`
}

func Error(msg string) Response {
	return Response{
		Error: msg,
	}
}
