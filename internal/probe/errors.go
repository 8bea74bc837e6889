package probe

import "fmt"

// InvalidURLError reports a URL that is not an absolute http(s) URL with a host.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("Invalid URL: %s", e.URL)
}

// ErrorKind classifies the error as a validation failure.
func (e *InvalidURLError) ErrorKind() string { return "validation" }

// RequestError reports a transport-level failure of the fallback request.
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("HTTP error for %s: unknown error", e.URL)
	}
	return fmt.Sprintf("HTTP error for %s: %s", e.URL, e.Err.Error())
}

func (e *RequestError) Unwrap() error { return e.Err }

// ErrorKind classifies the error as a transport failure.
func (e *RequestError) ErrorKind() string { return "transport" }
