package filterclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RejectedError is returned when the endpoint answers with success=false.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("filter rejected (%d): %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// HTTPTransport posts filter requests to a form endpoint.
type HTTPTransport struct {
	Client   *http.Client
	Endpoint string
}

// Filter implements Transport.
func (t *HTTPTransport) Filter(ctx context.Context, req Request) (Response, error) {
	form := url.Values{}
	form.Set("category", req.Category)
	form.Set("paged", strconv.Itoa(req.Page))
	form.Set("columns", strconv.Itoa(req.Columns))
	form.Set("nonce", req.Nonce)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("post filter: %w", err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return Response{}, fmt.Errorf("decode response (%d): %w", res.StatusCode, err)
	}

	if !env.Success {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(env.Data, &msg)
		return Response{}, &RejectedError{Status: res.StatusCode, Message: msg.Message}
	}

	var out Response
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return Response{}, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}
