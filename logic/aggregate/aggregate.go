// Package aggregate 把各页处理完的区域按页序、区域序合并成文档级内容列表。
// 纯函数，无 I/O，同样的输入永远给出同样的输出。
package aggregate

import (
	"strings"

	"pdfvision/types"
)

// Merge 合并所有页的区域，保持页内阅读顺序和页间顺序
// OCR 没认出任何内容的文本块丢掉（和空元素过滤一致）；
// skipped/failed 的区域保留，它们的状态本身就是导出的一部分
func Merge(pages []*types.Page) []*types.Region {
	var content []*types.Region
	for _, page := range pages {
		for _, r := range page.Regions {
			if isEmptyText(r) {
				continue
			}
			content = append(content, r)
		}
	}
	return content
}

func isEmptyText(r *types.Region) bool {
	switch r.Type {
	case types.RegionText, types.RegionTitle:
		return strings.TrimSpace(r.Content) == "" && r.Error == ""
	default:
		return false
	}
}
