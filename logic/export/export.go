// Package export 把处理完的 Document 序列化成下载产物。
// 三种格式都是纯序列化：不重排、不改写任何区域内容。
package export

import (
	"fmt"

	"pdfvision/types"
)

// Export 按请求格式生成产物，返回内容、Content-Type 和建议的文件扩展名
func Export(doc *types.Document, format types.ExportFormat) ([]byte, string, string, error) {
	switch format {
	case types.FormatText:
		return []byte(renderText(doc)), "text/plain; charset=utf-8", "txt", nil
	case types.FormatMarkdown:
		return []byte(renderMarkdown(doc)), "text/markdown; charset=utf-8", "md", nil
	case types.FormatJSON:
		data, err := renderJSON(doc)
		if err != nil {
			return nil, "", "", fmt.Errorf("marshal json export: %w", err)
		}
		return data, "application/json; charset=utf-8", "json", nil
	default:
		return nil, "", "", &types.ExportError{Format: string(format)}
	}
}

// placeholder 未处理区域在文本型导出里的占位说明
func placeholder(r *types.Region) string {
	switch r.Status {
	case types.StatusSkipped:
		return fmt.Sprintf("[%s region: not processed (feature disabled)]", r.Type)
	case types.StatusFailed:
		return fmt.Sprintf("[%s region: processing failed: %s]", r.Type, r.Error)
	default:
		return fmt.Sprintf("[%s region: no content]", r.Type)
	}
}
