// surveyctl là CLI nhập hàng loạt nhân viên, câu hỏi và snippet vào API khảo sát.
package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit code
const (
	ExitSuccess    = 0
	ExitRowsFailed = 1 // Gọi thành công nhưng có dòng ghi lỗi
	ExitError      = 2
)

func main() {
	if err := newRootCommand(&options{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var rowsErr *rowsFailedError
		if errors.As(err, &rowsErr) {
			os.Exit(ExitRowsFailed)
		}
		os.Exit(ExitError)
	}
}
