package segment

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"pdfvision/types"
)

func drawFigureImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 320, 320))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	// 一块 100x100 的实心图形
	dark := image.NewUniform(color.RGBA{R: 30, G: 30, B: 30, A: 255})
	draw.Draw(img, image.Rect(64, 64, 164, 164), dark, image.Point{}, draw.Src)
	return img
}

func TestDetectImageRegions(t *testing.T) {
	bm := newBitmap(drawFigureImage())

	boxes := detectImageRegions(bm, nil)
	if len(boxes) != 1 {
		t.Fatalf("expected 1 image region, got %d", len(boxes))
	}
	box := boxes[0]
	if box.Width() < minImageSide || box.Height() < minImageSide {
		t.Errorf("image box too small: %+v", box)
	}
	// 瓦片对齐，允许边界误差一个瓦片
	if box.X0 > 64 || box.X1 < 164 || box.Y0 > 64 || box.Y1 < 164 {
		t.Errorf("image box %+v does not cover the figure", box)
	}
}

func TestDetectImageRegionsExcluded(t *testing.T) {
	bm := newBitmap(drawFigureImage())

	// 整块图形已经被别的区域占了（比如表格），不应再报插图
	exclude := []types.BBox{{X0: 0, Y0: 0, X1: 320, Y1: 320}}
	if boxes := detectImageRegions(bm, exclude); len(boxes) != 0 {
		t.Errorf("excluded area still produced %d regions", len(boxes))
	}
}

func TestDetectImageRegionsBlank(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 160, 160))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if boxes := detectImageRegions(newBitmap(img), nil); len(boxes) != 0 {
		t.Errorf("blank page produced %d image regions", len(boxes))
	}
}
