package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"engagement_survey/internal/recordcodec"

	"github.com/spf13/cobra"
)

// bulkResult khớp với kết quả của các route /bulk
type bulkResult struct {
	Count  int `json:"count"`
	Failed []struct {
		Index   int    `json:"index"`
		Row     string `json:"row"`
		Message string `json:"message"`
	} `json:"failed"`
}

// rowsFailedError báo có dòng ghi lỗi (exit code riêng)
type rowsFailedError struct {
	Failed int
}

func (e *rowsFailedError) Error() string {
	return fmt.Sprintf("%d row(s) failed", e.Failed)
}

type importFlags struct {
	format  string
	company string
}

// readInput đọc file, "-" là stdin
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// splitRows tách từng dòng, bỏ dòng trống và dòng bắt đầu bằng '#'
func splitRows(data []byte) []string {
	var rows []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, line)
	}
	return rows
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func printResult(cmd *cobra.Command, kind string, data json.RawMessage) error {
	var res bulkResult
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d written, %d failed\n", kind, res.Count, len(res.Failed))
	for _, f := range res.Failed {
		fmt.Fprintf(out, "  row %d: %s\n", f.Index+1, f.Message)
	}
	if len(res.Failed) > 0 {
		return &rowsFailedError{Failed: len(res.Failed)}
	}
	return nil
}

// runRows gửi các dòng mã hoá tới route bulk JSON, hoặc file CSV tới route csvPath (nếu có)
func runRows(cmd *cobra.Command, opts *options, kind, path, csvPath string, flags *importFlags, file string) error {
	if flags.format != "" {
		if _, err := recordcodec.ParseFormat(flags.format); err != nil {
			return err
		}
	}
	data, err := readInput(cmd, file)
	if err != nil {
		return err
	}

	client := opts.client()
	if isCSV(file) {
		if csvPath == "" {
			return fmt.Errorf("%s: CSV import is not supported, use encoded rows", kind)
		}
		res, err := client.postFile(csvPath, filepath.Base(file), data, map[string]string{"companyId": flags.company})
		if err != nil {
			return err
		}
		return printResult(cmd, kind, res)
	}

	rows := splitRows(data)
	if len(rows) == 0 {
		return fmt.Errorf("%s: no rows in %s", kind, file)
	}
	payload := map[string]interface{}{"rows": rows}
	if flags.format != "" {
		payload["format"] = flags.format
	}
	if flags.company != "" {
		payload["companyId"] = flags.company
	}
	res, err := client.postJSON(path, payload)
	if err != nil {
		return err
	}
	return printResult(cmd, kind, res)
}

func newImportCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import employees, questions or snippets",
	}

	add := func(use, short, path, csvPath string, withCompany bool) {
		flags := &importFlags{}
		sub := &cobra.Command{
			Use:   use + " FILE",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runRows(cmd, opts, use, path, csvPath, flags, args[0])
			},
		}
		sub.Flags().StringVar(&flags.format, "format", "", "Row format: legacy or framed (default: detect)")
		if withCompany {
			sub.Flags().StringVar(&flags.company, "company", "", "Target company id (super admin only)")
		}
		cmd.AddCommand(sub)
	}

	add("employees", "Create invited employees from rows or a CSV file", "/bulk/employees", "/bulk/employees/csv", true)
	add("questions", "Create questions from rows or a CSV file", "/bulk/questions", "/bulk/questions/csv", false)
	add("snippets", "Create feedback snippets from rows", "/bulk/snippets", "", false)
	return cmd
}

func newQuestionsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage questions",
	}
	flags := &importFlags{}
	disable := &cobra.Command{
		Use:   "disable FILE",
		Short: "Enable or disable questions from questionId:disabled rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRows(cmd, opts, "question statuses", "/bulk/questions/disable", "", flags, args[0])
		},
	}
	disable.Flags().StringVar(&flags.format, "format", "", "Row format: legacy or framed (default: detect)")
	cmd.AddCommand(disable)
	return cmd
}
