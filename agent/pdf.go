package agent

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentmux/agentmux/continuation"
	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/model"
	"github.com/ledongthuc/pdf"
)

const pdfMimeType = "application/pdf"

// pdfMaxPages bounds extraction; huge documents are truncated, never rejected.
const pdfMaxPages = 50

// PDFAgent processes PDF attachments. Recognized documents are parsed
// deterministically; the extracted text is kept under a continuation handle
// for follow-up questions. Like all attachment agents it replaces the
// assistant tail of the transcript instead of appending.
type PDFAgent struct {
	*attachmentAgent
}

// NewPDFAgent constructs a PDFAgent. The model is only consulted for
// follow-up questions and for turns without any document context.
func NewPDFAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *PDFAgent {
	withDefaults := append([]func(o *ModelAgentOptions){func(o *ModelAgentOptions) {
		o.Type = core.AgentTypeSpecialized
		o.Description = "Reads PDF documents and answers questions about their contents."
		o.Icon = "📄"
		o.Instruction = NewInstructionFromText("You are {{.agent_name}}, a document analyst. Answer questions about the user's PDF precisely, citing pages where helpful.")
	}}, optFns...)

	base := NewModelAgent(name, llm, withDefaults...)
	if base.continuations == nil {
		base.continuations = continuation.NewInMemoryStore()
	}

	return &PDFAgent{attachmentAgent: &attachmentAgent{
		ModelAgent: base,
		docNoun:    "PDF document",
		recognizes: isPDF,
		parse:      parsePDF,
	}}
}

func isPDF(file core.FileRef) bool {
	return file.MimeType == pdfMimeType || strings.EqualFold(filepath.Ext(file.Name), ".pdf")
}

// parsePDF extracts plain text per page under page headers.
func parsePDF(file core.FileRef) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(file.Bytes), int64(len(file.Bytes)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	totalPages := reader.NumPage()

	var b strings.Builder
	fmt.Fprintf(&b, "Document %q contains %d page(s).\n", file.Name, totalPages)

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		if pageNum > pdfMaxPages {
			fmt.Fprintf(&b, "\n... (%d more pages truncated)\n", totalPages-pdfMaxPages)
			break
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			fmt.Fprintf(&b, "\n--- Page %d (extraction failed: %v) ---\n", pageNum, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		fmt.Fprintf(&b, "\n--- Page %d ---\n%s\n", pageNum, text)
	}

	return b.String(), nil
}
