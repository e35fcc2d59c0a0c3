package segment

import (
	"sort"

	"pdfvision/types"
)

// 阅读顺序：上到下、左到右，双栏页面先左栏后右栏。
// 跨页宽的区域（标题、通栏图表）把页面切成若干条带，条带内部再按栏排序。

const (
	fullWidthRatio = 0.7  // 超过页宽 70% 视为通栏
	centerBandHalf = 0.05 // 页面中线两侧 5% 的带，窄区域跨过它就不算双栏
)

// orderRegions 返回按阅读顺序排列的区域切片
func orderRegions(regions []*types.Region, pageW, pageH int) []*types.Region {
	if len(regions) <= 1 {
		return regions
	}

	sorted := make([]*types.Region, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y0 != sorted[j].BBox.Y0 {
			return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	// 通栏区域是条带分隔符
	var out []*types.Region
	var band []*types.Region
	flush := func() {
		out = append(out, orderBand(band, pageW)...)
		band = band[:0]
	}
	for _, r := range sorted {
		if float64(r.BBox.Width()) >= fullWidthRatio*float64(pageW) {
			flush()
			out = append(out, r)
			continue
		}
		band = append(band, r)
	}
	flush()
	return out
}

// orderBand 对一个条带内的窄区域排序，双栏时整列优先
func orderBand(band []*types.Region, pageW int) []*types.Region {
	if len(band) <= 1 {
		return append([]*types.Region(nil), band...)
	}

	midX := pageW / 2
	bandHalf := int(centerBandHalf * float64(pageW))
	twoCols := true
	var left, right []*types.Region
	for _, r := range band {
		if r.BBox.X0 < midX+bandHalf && r.BBox.X1 > midX-bandHalf {
			// 跨中线，不是干净的双栏
			twoCols = false
			break
		}
		if r.BBox.X1 <= midX {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	if twoCols && len(left) > 0 && len(right) > 0 {
		byY(left)
		byY(right)
		return append(left, right...)
	}

	out := append([]*types.Region(nil), band...)
	byY(out)
	return out
}

func byY(rs []*types.Region) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].BBox.Y0 != rs[j].BBox.Y0 {
			return rs[i].BBox.Y0 < rs[j].BBox.Y0
		}
		return rs[i].BBox.X0 < rs[j].BBox.X0
	})
}
