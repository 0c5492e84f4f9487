package dashboard

import (
	"errors"

	"github.com/branchdash/loandash/internal/combine"
	"github.com/branchdash/loandash/internal/source"
	"github.com/branchdash/loandash/internal/summary"
	"github.com/branchdash/loandash/internal/table"
)

// UserMessage is an error explained for the person at the dashboard.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// Explain maps pipeline errors to user-facing messages. Unknown errors get a
// generic message.
func Explain(err error) UserMessage {
	switch {
	case errors.Is(err, source.ErrSourceNotFound):
		return UserMessage{Code: "source_not_found", Message: "The configured folder does not exist.", Action: "Check source.directory in the config or the --dir flag."}
	case errors.Is(err, combine.ErrEmptyInput):
		return UserMessage{Code: "empty_input", Message: "There are no files in the folder.", Action: "Upload loan files to the folder and try again."}
	case errors.Is(err, combine.ErrFileNotFound):
		return UserMessage{Code: "file_not_found", Message: "The selected file does not exist.", Action: "Pick a file from the list; names are case-sensitive."}
	case errors.Is(err, table.ErrUnsupportedFormat):
		return UserMessage{Code: "unsupported_format", Message: "The file type is not supported.", Action: "Use a .csv or .xlsx file."}
	case errors.Is(err, table.ErrCorruptData):
		return UserMessage{Code: "corrupt_data", Message: "The file could not be read.", Action: "Check that the file content matches its extension."}
	case errors.Is(err, summary.ErrSchemaViolation):
		return UserMessage{Code: "schema_violation", Message: "The data is missing required loan columns.", Action: "Make sure every file has Branch, Status, Loan_Amount and Loan_ID columns."}
	default:
		return UserMessage{Code: "internal", Message: "Something went wrong loading the dashboard.", Action: "Check the logs for details."}
	}
}
