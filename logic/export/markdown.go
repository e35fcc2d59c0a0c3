package export

import (
	"fmt"
	"strings"

	"pdfvision/types"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// 表格的 HTML 片段在 Markdown 导出里转成 Markdown 表格，转不动就原样内嵌 HTML
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// renderMarkdown Markdown 导出：标题做 heading，图像描述做斜体引文，
// 表格转 Markdown 表格，公式保留 LaTeX 定界
func renderMarkdown(doc *types.Document) string {
	var lines []string
	lines = append(lines, "# PDF Content Extraction Results")
	lines = append(lines, "")

	currentPage := 1
	for _, r := range doc.Content {
		if r.Page != currentPage {
			lines = append(lines, fmt.Sprintf("## Page %d", r.Page))
			lines = append(lines, "")
			currentPage = r.Page
		}

		if r.Status != types.StatusProcessed {
			lines = append(lines, "> _"+placeholder(r)+"_")
			lines = append(lines, "")
			continue
		}

		switch r.Type {
		case types.RegionTitle:
			lines = append(lines, "### "+strings.ReplaceAll(r.Content, "\n", " "))
		case types.RegionTable:
			lines = append(lines, "**Table:**")
			lines = append(lines, "")
			lines = append(lines, tableMarkdown(r.Content))
		case types.RegionImage:
			lines = append(lines, "**Image Description:**")
			lines = append(lines, "")
			lines = append(lines, italicize(r.Content))
		case types.RegionFormula:
			lines = append(lines, "**Formula:**")
			lines = append(lines, "")
			lines = append(lines, r.Content)
		default:
			lines = append(lines, r.Content)
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func tableMarkdown(html string) string {
	md, err := mdConverter.ConvertString(html)
	if err != nil || strings.TrimSpace(md) == "" {
		return html
	}
	return strings.TrimSpace(md)
}

// italicize 逐段斜体，跳过模型输出里的代码围栏
func italicize(content string) string {
	paras := strings.Split(content, "\n\n")
	for i, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "```") {
			continue
		}
		paras[i] = "_" + strings.ReplaceAll(p, "\n", "_\n_") + "_"
	}
	return strings.Join(paras, "\n\n")
}
