package segment

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"pdfvision/types"
)

// 画一个 2x2 的全框线表格
func drawTableImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	black := color.RGBA{A: 255}
	for _, y := range []int{50, 100, 150} {
		for x := 50; x <= 350; x++ {
			img.Set(x, y, black)
		}
	}
	for _, x := range []int{50, 200, 350} {
		for y := 50; y <= 150; y++ {
			img.Set(x, y, black)
		}
	}
	return img
}

func TestDetectGrids(t *testing.T) {
	bm := newBitmap(drawTableImage())
	grids := detectGrids(bm)
	if len(grids) != 1 {
		t.Fatalf("expected 1 grid, got %d", len(grids))
	}

	g := grids[0].grid
	if g.Rows() != 2 || g.Cols() != 2 {
		t.Errorf("grid = %dx%d, want 2x2 (rowYs=%v colXs=%v)", g.Rows(), g.Cols(), g.RowYs, g.ColXs)
	}

	box := grids[0].box
	if box.X0 > 55 || box.X1 < 345 || box.Y0 > 55 || box.Y1 < 145 {
		t.Errorf("grid box %+v does not cover the drawn table", box)
	}
}

func TestDetectGridsBlankPage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if grids := detectGrids(newBitmap(img)); len(grids) != 0 {
		t.Errorf("blank page produced %d grids", len(grids))
	}
}

func TestFillCells(t *testing.T) {
	grid := &types.TableGrid{
		RowYs: []int{0, 50, 100},
		ColXs: []int{0, 100, 200},
	}
	grid.Cells = make([][]string, grid.Rows())
	for r := range grid.Cells {
		grid.Cells[r] = make([]string, grid.Cols())
	}

	words := []word{
		{box: types.BBox{X0: 10, Y0: 10, X1: 40, Y1: 30}, text: "Name"},
		{box: types.BBox{X0: 110, Y0: 10, X1: 150, Y1: 30}, text: "Age"},
		{box: types.BBox{X0: 10, Y0: 60, X1: 40, Y1: 80}, text: "Bob"},
		{box: types.BBox{X0: 110, Y0: 60, X1: 140, Y1: 80}, text: "42"},
	}
	fillCells(grid, types.BBox{X0: 0, Y0: 0, X1: 200, Y1: 100}, words)

	if grid.Cells[0][0] != "Name" || grid.Cells[0][1] != "Age" {
		t.Errorf("header row = %v", grid.Cells[0])
	}
	if grid.Cells[1][0] != "Bob" || grid.Cells[1][1] != "42" {
		t.Errorf("data row = %v", grid.Cells[1])
	}
}

func TestDedupCoords(t *testing.T) {
	got := dedupCoords([]int{100, 52, 50, 51, 150}, 4)
	want := []int{50, 100, 150}
	if len(got) != len(want) {
		t.Fatalf("dedup = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dedup = %v, want %v", got, want)
			break
		}
	}
}
