package segment

import "pdfvision/types"

// 插图检测：把页面切成小瓦片，统计每块的墨迹密度，
// 不属于任何文本块/表格的高密度瓦片连通域就是插图候选

const (
	tileSize       = 16
	inkDensityMin  = 0.08
	minImageSide   = 50
	minImagePixels = 100 * 100
)

// detectImageRegions 返回疑似插图的包围盒，exclude 为已识别的文本/表格区域
func detectImageRegions(bm *bitmap, exclude []types.BBox) []types.BBox {
	tw := (bm.w + tileSize - 1) / tileSize
	th := (bm.h + tileSize - 1) / tileSize
	inked := make([]bool, tw*th)

	for ty := 0; ty < th; ty++ {
		for tx := 0; tx < tw; tx++ {
			x0, y0 := tx*tileSize, ty*tileSize
			x1, y1 := min(x0+tileSize, bm.w), min(y0+tileSize, bm.h)
			tile := types.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}

			skip := false
			for _, ex := range exclude {
				if ex.Intersects(tile) {
					skip = true
					break
				}
			}
			if skip {
				continue
			}

			dark := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					if bm.dark(x, y) {
						dark++
					}
				}
			}
			area := (x1 - x0) * (y1 - y0)
			if area > 0 && float64(dark)/float64(area) >= inkDensityMin {
				inked[ty*tw+tx] = true
			}
		}
	}

	// 4 邻接洪泛合并瓦片
	visited := make([]bool, tw*th)
	var boxes []types.BBox
	for ty := 0; ty < th; ty++ {
		for tx := 0; tx < tw; tx++ {
			idx := ty*tw + tx
			if !inked[idx] || visited[idx] {
				continue
			}
			minX, minY, maxX, maxY := tx, ty, tx, ty
			stack := []int{idx}
			visited[idx] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cx, cy := cur%tw, cur/tw
				if cx < minX {
					minX = cx
				}
				if cx > maxX {
					maxX = cx
				}
				if cy < minY {
					minY = cy
				}
				if cy > maxY {
					maxY = cy
				}
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || ny < 0 || nx >= tw || ny >= th {
						continue
					}
					nidx := ny*tw + nx
					if inked[nidx] && !visited[nidx] {
						visited[nidx] = true
						stack = append(stack, nidx)
					}
				}
			}

			box := types.BBox{
				X0: minX * tileSize,
				Y0: minY * tileSize,
				X1: min((maxX+1)*tileSize, bm.w),
				Y1: min((maxY+1)*tileSize, bm.h),
			}
			if box.Width() >= minImageSide && box.Height() >= minImageSide &&
				box.Width()*box.Height() >= minImagePixels {
				boxes = append(boxes, box)
			}
		}
	}
	return boxes
}
