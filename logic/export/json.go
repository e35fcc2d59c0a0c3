package export

import (
	"encoding/json"
	"time"

	"pdfvision/types"
)

// JSONExport 结构化导出：文档级元数据 + 按序的区域数组
// 重新解析它应当还原出和内存 Document 一致的页数、区域数和顺序
type JSONExport struct {
	Metadata JSONMetadata    `json:"metadata"`
	Content  []*types.Region `json:"content"`
}

type JSONMetadata struct {
	OriginalFilename   string         `json:"original_filename"`
	TotalItems         int            `json:"total_items"`
	Options            types.Options  `json:"options"`
	GeneratedAt        time.Time      `json:"generated_at"`
	ProcessTimeSeconds float64        `json:"process_time_seconds"`
	ExtractionInfo     ExtractionInfo `json:"extraction_info"`
}

type ExtractionInfo struct {
	TotalPages   int      `json:"total_pages"`
	ContentTypes []string `json:"content_types"`
}

func renderJSON(doc *types.Document) ([]byte, error) {
	out := JSONExport{
		Metadata: JSONMetadata{
			OriginalFilename:   doc.FileName,
			TotalItems:         len(doc.Content),
			Options:            doc.Options,
			GeneratedAt:        time.Now(),
			ProcessTimeSeconds: doc.ProcessTime.Seconds(),
			ExtractionInfo: ExtractionInfo{
				TotalPages:   doc.PageCount,
				ContentTypes: contentTypes(doc.Content),
			},
		},
		Content: doc.Content,
	}
	return json.MarshalIndent(out, "", "  ")
}

// contentTypes 出现过的区域类型（按首次出现顺序，去重）
func contentTypes(content []*types.Region) []string {
	seen := make(map[types.RegionType]bool)
	var out []string
	for _, r := range content {
		if !seen[r.Type] {
			seen[r.Type] = true
			out = append(out, string(r.Type))
		}
	}
	return out
}
