// Package segment 对渲染后的页面图像做版面分析：
// tesseract 给出词级几何，格线检测给出表格，墨迹密度给出插图，
// 剩下的文本块按数学符号密度和字高分出公式与标题。
package segment

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"pdfvision/types"

	"github.com/otiai10/gosseract/v2"
)

type Segmenter struct {
	Lang string
}

func NewSegmenter(lang string) *Segmenter {
	return &Segmenter{Lang: lang}
}

// Segment 把一页图像切分为阅读顺序排列的类型化区域
// 失败时返回 SegmentationError，由上层降级为整页单 Text 区域
func (s *Segmenter) Segment(pageNum int, img image.Image) ([]*types.Region, error) {
	words, err := s.recognizeWords(img)
	if err != nil {
		return nil, &types.SegmentationError{Page: pageNum, Err: err}
	}

	bm := newBitmap(img)
	bounds := img.Bounds()
	pageW := bounds.Dx()
	pageH := bounds.Dy()

	// 1. 格线检测 → 表格区域（含单元格几何）
	grids := detectGrids(bm)

	// 2. 词 → 文本块，落在表格里的词拿去填单元格
	var tableWords, freeWords []word
	for _, w := range words {
		inTable := false
		for _, g := range grids {
			if g.box.Intersects(w.box) {
				inTable = true
				break
			}
		}
		if inTable {
			tableWords = append(tableWords, w)
		} else {
			freeWords = append(freeWords, w)
		}
	}
	for _, g := range grids {
		fillCells(g.grid, g.box, tableWords)
	}
	blocks := groupBlocks(freeWords)

	// 3. 墨迹密度 → 插图区域（排除已识别的文本块和表格）
	exclude := make([]types.BBox, 0, len(blocks)+len(grids))
	for _, b := range blocks {
		exclude = append(exclude, b.box)
	}
	for _, g := range grids {
		exclude = append(exclude, g.box)
	}
	imageBoxes := detectImageRegions(bm, exclude)

	// 4. 组装区域列表
	medH := medianWordHeight(freeWords)
	var regions []*types.Region
	for _, b := range blocks {
		rt := classifyBlock(b, medH)
		r := &types.Region{
			Type: rt,
			Page: pageNum,
			BBox: b.box,
		}
		if rt == types.RegionText || rt == types.RegionTitle {
			// 文本直接取自 OCR，不走 AI
			r.Content = b.text
			r.Status = types.StatusProcessed
		}
		regions = append(regions, r)
	}
	for _, g := range grids {
		regions = append(regions, &types.Region{
			Type: types.RegionTable,
			Page: pageNum,
			BBox: g.box,
			Grid: g.grid,
		})
	}
	for _, box := range imageBoxes {
		regions = append(regions, &types.Region{
			Type: types.RegionImage,
			Page: pageNum,
			BBox: box,
		})
	}

	return orderRegions(regions, pageW, pageH), nil
}

// WholePage 降级路径：整页当成一个 Text 区域，内容尽力 OCR
func (s *Segmenter) WholePage(pageNum int, img image.Image) *types.Region {
	bounds := img.Bounds()
	r := &types.Region{
		Type:   types.RegionText,
		Page:   pageNum,
		BBox:   types.BBox{X0: 0, Y0: 0, X1: bounds.Dx(), Y1: bounds.Dy()},
		Status: types.StatusProcessed,
	}
	text, err := s.recognizeText(img)
	if err != nil {
		r.Status = types.StatusFailed
		r.Error = err.Error()
		return r
	}
	r.Content = text
	return r
}

func (s *Segmenter) recognizeWords(img image.Image) ([]word, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	client := gosseract.NewClient()
	defer client.Close()
	if s.Lang != "" {
		if err := client.SetLanguage(s.Lang); err != nil {
			return nil, fmt.Errorf("set language: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("set psm: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}

	words := make([]word, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		words = append(words, word{
			box: types.BBox{
				X0: b.Box.Min.X, Y0: b.Box.Min.Y,
				X1: b.Box.Max.X, Y1: b.Box.Max.Y,
			},
			text:  text,
			conf:  b.Confidence,
			block: b.BlockNum,
			par:   b.ParNum,
			line:  b.LineNum,
		})
	}
	return words, nil
}

func (s *Segmenter) recognizeText(img image.Image) (string, error) {
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()
	if s.Lang != "" {
		_ = client.SetLanguage(s.Lang)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
