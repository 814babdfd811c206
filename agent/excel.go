package agent

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentmux/agentmux/continuation"
	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/model"
	"github.com/xuri/excelize/v2"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Limits keeping workbook summaries readable; large sheets are truncated,
// never rejected.
const (
	excelMaxRowsPerSheet = 50
	excelMaxCellsPerRow  = 20
)

// ExcelAgent processes spreadsheet attachments. Recognized workbooks are
// parsed deterministically with excelize; the extracted sheet contents are
// kept under a continuation handle so follow-up questions can be answered
// without re-uploading. Like all attachment agents it replaces the assistant
// tail of the transcript instead of appending.
type ExcelAgent struct {
	*attachmentAgent
}

// NewExcelAgent constructs an ExcelAgent. The model is only consulted for
// follow-up questions and for turns without any spreadsheet context.
func NewExcelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ExcelAgent {
	withDefaults := append([]func(o *ModelAgentOptions){func(o *ModelAgentOptions) {
		o.Type = core.AgentTypeSpecialized
		o.Description = "Reads Excel workbooks and answers questions about their contents."
		o.Icon = "📊"
		o.Instruction = NewInstructionFromText("You are {{.agent_name}}, a spreadsheet analyst. Answer questions about the user's workbook precisely, citing sheet and row where helpful.")
	}}, optFns...)

	base := NewModelAgent(name, llm, withDefaults...)
	if base.continuations == nil {
		base.continuations = continuation.NewInMemoryStore()
	}

	return &ExcelAgent{attachmentAgent: &attachmentAgent{
		ModelAgent: base,
		docNoun:    "workbook",
		recognizes: isWorkbook,
		parse:      parseWorkbook,
	}}
}

func isWorkbook(file core.FileRef) bool {
	if file.MimeType == xlsxMimeType {
		return true
	}
	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	}
	return false
}

// parseWorkbook renders every sheet as tab separated rows under a sheet
// header, truncating oversized sheets.
func parseWorkbook(file core.FileRef) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file.Bytes))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()

	var b strings.Builder
	fmt.Fprintf(&b, "Workbook %q contains %d sheet(s).\n", file.Name, len(sheets))

	for _, sheetName := range sheets {
		fmt.Fprintf(&b, "\n--- Sheet: %s ---\n", sheetName)

		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Fprintf(&b, "Error reading sheet: %v\n", err)
			continue
		}

		for rowIndex, row := range rows {
			if rowIndex >= excelMaxRowsPerSheet {
				fmt.Fprintf(&b, "... (%d more rows truncated)\n", len(rows)-excelMaxRowsPerSheet)
				break
			}
			if len(row) > excelMaxCellsPerRow {
				row = row[:excelMaxCellsPerRow]
			}
			b.WriteString(strings.Join(row, "\t"))
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}
