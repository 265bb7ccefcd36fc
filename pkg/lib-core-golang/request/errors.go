package request

import (
	"fmt"
	"io/ioutil"
	"net/http"
)

// HTTPError is returned when the response status is not 2xx
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("Request failed with status %v: %v", e.Status, string(e.Body))
}

// NewHTTPErrorFromResponse reads and closes the response body
func NewHTTPErrorFromResponse(res *http.Response) error {
	defer res.Body.Close()
	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		body = []byte(err.Error())
	}
	return HTTPError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Body:       body,
	}
}
