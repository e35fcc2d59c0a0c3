package segment

import (
	"image"
	"sort"
	"strings"

	"pdfvision/types"
)

// bitmap 阈值化后的页面位图，true 表示深色像素
type bitmap struct {
	w, h int
	pix  []bool
}

const darkThreshold = 0x9000 // 16-bit 灰度阈值

func newBitmap(img image.Image) *bitmap {
	bounds := img.Bounds()
	bm := &bitmap{
		w:   bounds.Dx(),
		h:   bounds.Dy(),
		pix: make([]bool, bounds.Dx()*bounds.Dy()),
	}
	for y := 0; y < bm.h; y++ {
		for x := 0; x < bm.w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R 601 亮度
			lum := (299*r + 587*g + 114*b) / 1000
			bm.pix[y*bm.w+x] = lum < darkThreshold
		}
	}
	return bm
}

func (bm *bitmap) dark(x, y int) bool {
	if x < 0 || y < 0 || x >= bm.w || y >= bm.h {
		return false
	}
	return bm.pix[y*bm.w+x]
}

// seg 一条水平或垂直的格线段
type seg struct {
	pos        int // 水平线的 y，垂直线的 x
	start, end int // 沿线方向的范围
}

// tableCandidate 格线围成的表格及其单元格几何
type tableCandidate struct {
	box  types.BBox
	grid *types.TableGrid
}

// detectGrids 从位图里找由格线围成的表格
// 表格至少 2 行 2 列（即至少 3 条横线和 3 条竖线相交）
func detectGrids(bm *bitmap) []tableCandidate {
	minHLen := bm.w / 6
	minVLen := bm.h / 12

	hSegs := scanLines(bm, true, minHLen)
	vSegs := scanLines(bm, false, minVLen)
	if len(hSegs) < 3 || len(vSegs) < 3 {
		return nil
	}

	// 按横线的 x 范围重叠度聚成组，每组一个候选表格
	groups := clusterSegs(hSegs)

	var tables []tableCandidate
	for _, hs := range groups {
		if len(hs) < 3 {
			continue
		}
		x0, x1 := hs[0].start, hs[0].end
		y0, y1 := hs[0].pos, hs[0].pos
		for _, s := range hs {
			if s.start < x0 {
				x0 = s.start
			}
			if s.end > x1 {
				x1 = s.end
			}
			if s.pos < y0 {
				y0 = s.pos
			}
			if s.pos > y1 {
				y1 = s.pos
			}
		}

		// 落在该区域内的竖线
		var vlines []int
		for _, v := range vSegs {
			if v.pos >= x0-3 && v.pos <= x1+3 && v.start <= y1 && v.end >= y0 {
				vlines = append(vlines, v.pos)
			}
		}
		rowYs := dedupCoords(segPositions(hs), 4)
		colXs := dedupCoords(vlines, 4)
		if len(rowYs) < 3 || len(colXs) < 3 {
			continue
		}

		grid := &types.TableGrid{RowYs: rowYs, ColXs: colXs}
		grid.Cells = make([][]string, grid.Rows())
		for r := range grid.Cells {
			grid.Cells[r] = make([]string, grid.Cols())
		}
		tables = append(tables, tableCandidate{
			box:  types.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
			grid: grid,
		})
	}
	return tables
}

// scanLines 扫描长直线段。horizontal=true 扫横线，否则扫竖线
// 相邻扫描行上的线段（线有粗细）合并为一条
func scanLines(bm *bitmap, horizontal bool, minLen int) []seg {
	var raw []seg
	outer, inner := bm.h, bm.w
	if !horizontal {
		outer, inner = bm.w, bm.h
	}
	for o := 0; o < outer; o++ {
		runStart := -1
		for i := 0; i <= inner; i++ {
			var d bool
			if i < inner {
				if horizontal {
					d = bm.dark(i, o)
				} else {
					d = bm.dark(o, i)
				}
			}
			if d && runStart < 0 {
				runStart = i
			} else if !d && runStart >= 0 {
				if i-runStart >= minLen {
					raw = append(raw, seg{pos: o, start: runStart, end: i})
				}
				runStart = -1
			}
		}
	}
	return mergeThick(raw)
}

// mergeThick 合并 pos 相邻且范围重叠的线段（同一条粗线的多行扫描结果）
func mergeThick(segs []seg) []seg {
	if len(segs) == 0 {
		return nil
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].pos < segs[j].pos })
	var out []seg
	cur := segs[0]
	for _, s := range segs[1:] {
		if s.pos-cur.pos <= 2 && s.start <= cur.end && s.end >= cur.start {
			if s.start < cur.start {
				cur.start = s.start
			}
			if s.end > cur.end {
				cur.end = s.end
			}
			continue
		}
		out = append(out, cur)
		cur = s
	}
	out = append(out, cur)
	return out
}

// clusterSegs 把横线按范围重叠聚成表格候选组
func clusterSegs(segs []seg) [][]seg {
	var groups [][]seg
	used := make([]bool, len(segs))
	for i := range segs {
		if used[i] {
			continue
		}
		group := []seg{segs[i]}
		used[i] = true
		for j := i + 1; j < len(segs); j++ {
			if used[j] {
				continue
			}
			if overlaps(group, segs[j]) {
				group = append(group, segs[j])
				used[j] = true
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func overlaps(group []seg, s seg) bool {
	for _, g := range group {
		lo, hi := g.start, g.end
		if s.start < hi && s.end > lo {
			return true
		}
	}
	return false
}

func segPositions(segs []seg) []int {
	out := make([]int, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.pos)
	}
	return out
}

// dedupCoords 排序并合并相距 tol 以内的坐标
func dedupCoords(coords []int, tol int) []int {
	if len(coords) == 0 {
		return nil
	}
	sort.Ints(coords)
	out := []int{coords[0]}
	for _, c := range coords[1:] {
		if c-out[len(out)-1] > tol {
			out = append(out, c)
		}
	}
	return out
}

// fillCells 把落在表格内的 OCR 词分配到对应单元格
func fillCells(grid *types.TableGrid, box types.BBox, words []word) {
	for r := 0; r < grid.Rows(); r++ {
		for c := 0; c < grid.Cols(); c++ {
			cell := types.BBox{
				X0: grid.ColXs[c], Y0: grid.RowYs[r],
				X1: grid.ColXs[c+1], Y1: grid.RowYs[r+1],
			}
			var parts []string
			for _, w := range words {
				cx := (w.box.X0 + w.box.X1) / 2
				cy := (w.box.Y0 + w.box.Y1) / 2
				if cell.Contains(cx, cy) {
					parts = append(parts, w.text)
				}
			}
			grid.Cells[r][c] = strings.Join(parts, " ")
		}
	}
}
