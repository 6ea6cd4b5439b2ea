package main

import (
	"fmt"

	"engagement_survey/internal/recordcodec"

	"github.com/spf13/cobra"
)

func newEncodeCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a single record as an import row",
	}
	cmd.PersistentFlags().StringVar(&format, "format", string(recordcodec.FormatLegacy), "Row format: legacy or framed")

	emit := func(cmd *cobra.Command, encode func(recordcodec.Format) (string, error)) error {
		f, err := recordcodec.ParseFormat(format)
		if err != nil {
			return err
		}
		row, err := encode(f)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), row)
		return nil
	}

	var emp recordcodec.EmployeeRecord
	employee := &cobra.Command{
		Use:   "employee",
		Short: "Encode an employee row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return emit(cmd, func(f recordcodec.Format) (string, error) { return recordcodec.EncodeEmployee(emp, f) })
		},
	}
	employee.Flags().StringVar(&emp.FirstName, "first", "", "First name")
	employee.Flags().StringVar(&emp.LastName, "last", "", "Last name")
	employee.Flags().StringVar(&emp.Email, "email", "", "Email")
	employee.Flags().StringVar(&emp.CompanyID, "company", "", "Company id")

	var q recordcodec.QuestionRecord
	question := &cobra.Command{
		Use:   "question",
		Short: "Encode a question row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return emit(cmd, func(f recordcodec.Format) (string, error) { return recordcodec.EncodeQuestion(q, f) })
		},
	}
	question.Flags().StringVar(&q.SurveyID, "survey", "", "Survey id")
	question.Flags().StringVar(&q.Factor, "factor", "", "Factor")
	question.Flags().StringVar(&q.Text, "text", "", "Question text")
	question.Flags().IntVar(&q.Order, "order", 0, "Display order")

	var st recordcodec.QuestionStatusRecord
	status := &cobra.Command{
		Use:   "question-status",
		Short: "Encode a question enable/disable row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return emit(cmd, func(f recordcodec.Format) (string, error) { return recordcodec.EncodeQuestionStatus(st, f) })
		},
	}
	status.Flags().StringVar(&st.QuestionID, "question", "", "Question id")
	status.Flags().BoolVar(&st.Disabled, "disabled", true, "Disable (true) or enable (false)")

	var sn recordcodec.SnippetRecord
	snippet := &cobra.Command{
		Use:   "snippet",
		Short: "Encode a snippet row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return emit(cmd, func(f recordcodec.Format) (string, error) { return recordcodec.EncodeSnippet(sn, f) })
		},
	}
	snippet.Flags().StringVar(&sn.Factor, "factor", "", "Factor")
	snippet.Flags().Float64Var(&sn.MinScore, "min", 0, "Minimum score (inclusive)")
	snippet.Flags().Float64Var(&sn.MaxScore, "max", 5, "Maximum score (inclusive)")
	snippet.Flags().StringVar(&sn.Text, "text", "", "Snippet text")

	cmd.AddCommand(employee, question, status, snippet)
	return cmd
}
