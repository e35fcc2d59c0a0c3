package interpret

import (
	"html"
	"strings"

	"pdfvision/types"
)

// HTMLFromGrid 根据分割阶段检测到的单元格几何重建 HTML 表格
// 第一行作为表头，不需要任何外部调用
func HTMLFromGrid(grid *types.TableGrid) string {
	if grid == nil || grid.Rows() == 0 || grid.Cols() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<table>\n")
	for r, row := range grid.Cells {
		tag := "td"
		if r == 0 {
			tag = "th"
		}
		sb.WriteString("  <tr>")
		for _, cell := range row {
			sb.WriteString("<" + tag + ">")
			sb.WriteString(html.EscapeString(strings.TrimSpace(cell)))
			sb.WriteString("</" + tag + ">")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>")
	return sb.String()
}
