package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type captured struct {
	mu      sync.Mutex
	path    string
	auth    string
	body    map[string]interface{}
	file    string
	company string
}

func (c *captured) get() captured {
	c.mu.Lock()
	defer c.mu.Unlock()
	return captured{path: c.path, auth: c.auth, body: c.body, file: c.file, company: c.company}
}

// startServer chạy fasthttp server trong bộ nhớ, trả về DialFunc trỏ vào nó
func startServer(t *testing.T, status int, response string, seen *captured) fasthttp.DialFunc {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		seen.mu.Lock()
		seen.path = string(ctx.Path())
		seen.auth = string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
		if fh, err := ctx.FormFile("file"); err == nil {
			f, _ := fh.Open()
			raw, _ := io.ReadAll(f)
			_ = f.Close()
			seen.file = string(raw)
			seen.company = string(ctx.FormValue("companyId"))
		} else {
			_ = json.Unmarshal(ctx.PostBody(), &seen.body)
		}
		seen.mu.Unlock()

		ctx.SetStatusCode(status)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(response)
	}}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })
	return func(string) (net.Conn, error) { return ln.Dial() }
}

func execute(t *testing.T, dial fasthttp.DialFunc, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(&options{dial: dial})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--api", "http://surveys.test/api/v1", "--token", "tok"))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const okTwo = `{"code":200,"message":"ok","data":{"count":2,"failed":[]},"status":"success"}`

func TestEncodeEmployee(t *testing.T) {
	out, err := execute(t, nil, "encode", "employee", "--first", "An", "--last", "Le", "--email", "an@acme.io")
	require.NoError(t, err)
	assert.Equal(t, "An:Le:an@acme.io::employee\n", out)

	_, err = execute(t, nil, "encode", "employee", "--first", "An", "--format", "xml")
	assert.Error(t, err)
}

func TestImportEmployees_Rows(t *testing.T) {
	seen := &captured{}
	dial := startServer(t, 200, okTwo, seen)
	file := writeFile(t, "employees.txt", "# header comment\nAn:Le:an@acme.io::employee\n\nBinh:Tran:binh@acme.io::employee\n")

	out, err := execute(t, dial, "import", "employees", file, "--company", "64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)
	assert.Contains(t, out, "employees: 2 written, 0 failed")

	got := seen.get()
	assert.Equal(t, "/api/v1/bulk/employees", got.path)
	assert.Equal(t, "Bearer tok", got.auth)
	assert.Len(t, got.body["rows"], 2)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", got.body["companyId"])
	assert.NotContains(t, got.body, "format")
}

func TestImportQuestions_CSVWithFailures(t *testing.T) {
	seen := &captured{}
	dial := startServer(t, 200, `{"code":200,"data":{"count":1,"failed":[{"index":1,"message":"duplicate"}]},"status":"success"}`, seen)
	csv := "survey_id,factor,text\n64b7f0c2a1b2c3d4e5f60718,Purpose,Why?\n64b7f0c2a1b2c3d4e5f60718,Growth,How?\n"
	file := writeFile(t, "questions.csv", csv)

	out, err := execute(t, dial, "import", "questions", file)
	var rowsErr *rowsFailedError
	require.ErrorAs(t, err, &rowsErr)
	assert.Equal(t, 1, rowsErr.Failed)
	assert.Contains(t, out, "row 2: duplicate")

	got := seen.get()
	assert.Equal(t, "/api/v1/bulk/questions/csv", got.path)
	assert.Equal(t, csv, got.file)
}

func TestImport_APIError(t *testing.T) {
	seen := &captured{}
	dial := startServer(t, 403, `{"code":"AUTH_003","message":"forbidden","status":"error"}`, seen)
	file := writeFile(t, "disable.txt", "64b7f0c2a1b2c3d4e5f60718:true\n")

	_, err := execute(t, dial, "questions", "disable", file)
	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.HTTPStatus)
	assert.Equal(t, "AUTH_003", apiErr.Code)
	assert.Equal(t, "/api/v1/bulk/questions/disable", seen.get().path)
}

func TestImportSnippets_CSVRejected(t *testing.T) {
	file := writeFile(t, "snippets.csv", "factor,min_score,max_score,text\nPurpose,0,5,ok\n")
	_, err := execute(t, nil, "import", "snippets", file)
	assert.ErrorContains(t, err, "CSV import is not supported")
}

func TestSplitRows(t *testing.T) {
	rows := splitRows([]byte("a:b\r\n\n# skip\n  \nc:d"))
	assert.Equal(t, []string{"a:b", "c:d"}, rows)
}
