package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// envelope là response chuẩn của API
type envelope struct {
	Code    interface{}     `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details json.RawMessage `json:"details"`
	Status  string          `json:"status"`
}

// apiError là lỗi API trả về (status "error")
type apiError struct {
	HTTPStatus int
	Code       string
	Message    string
	Details    json.RawMessage
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("api error %d %s: %s", e.HTTPStatus, e.Code, e.Message)
	if len(e.Details) > 0 && string(e.Details) != "null" {
		msg += "\n" + string(e.Details)
	}
	return msg
}

// apiClient gọi API server qua fasthttp
type apiClient struct {
	baseURL string
	token   string
	http    *fasthttp.Client
}

func newAPIClient(baseURL, token string, dial fasthttp.DialFunc) *apiClient {
	c := &fasthttp.Client{
		ReadTimeout:         5 * time.Minute,
		WriteTimeout:        time.Minute,
		MaxResponseBodySize: 50 * 1024 * 1024,
	}
	if dial != nil {
		c.Dial = dial
	}
	return &apiClient{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: c}
}

func (c *apiClient) do(path, contentType string, body []byte) (json.RawMessage, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(contentType)
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	}
	req.SetBody(body)

	if err := c.http.Do(req, resp); err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode(), err)
	}
	if resp.StatusCode() >= 300 || env.Status == "error" {
		return nil, &apiError{
			HTTPStatus: resp.StatusCode(),
			Code:       fmt.Sprint(env.Code),
			Message:    env.Message,
			Details:    env.Details,
		}
	}
	return env.Data, nil
}

// postJSON gửi payload dạng JSON
func (c *apiClient) postJSON(path string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(path, "application/json", body)
}

// postFile gửi file multipart ở field "file" kèm các form field
func (c *apiClient) postFile(path, filename string, data []byte, fields map[string]string) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return c.do(path, w.FormDataContentType(), buf.Bytes())
}
