package export

import (
	"fmt"
	"strings"

	"pdfvision/types"
)

// renderText 纯文本导出，区域按序排列，类型作节头，换页插分隔行
func renderText(doc *types.Document) string {
	var lines []string
	lines = append(lines, "PDF CONTENT EXTRACTION RESULTS")
	lines = append(lines, strings.Repeat("=", 50))
	lines = append(lines, "")

	currentPage := 1
	for _, r := range doc.Content {
		if r.Page != currentPage {
			lines = append(lines, fmt.Sprintf("\n--- PAGE %d ---\n", r.Page))
			currentPage = r.Page
		}

		lines = append(lines, fmt.Sprintf("[%s]", strings.ToUpper(string(r.Type))))

		if r.Status != types.StatusProcessed {
			lines = append(lines, placeholder(r))
		} else if r.Type == types.RegionTable {
			lines = append(lines, "TABLE CONTENT (HTML):")
			lines = append(lines, r.Content)
		} else {
			lines = append(lines, r.Content)
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
