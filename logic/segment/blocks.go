package segment

import (
	"sort"
	"strings"
	"unicode"

	"pdfvision/types"
)

// word 一个 OCR 识别出的词及其几何
type word struct {
	box   types.BBox
	text  string
	conf  float64
	block int
	par   int
	line  int
}

// block 由同一 tesseract block 的词合成的文本块
type block struct {
	box   types.BBox
	words []word
	text  string
	lines int
}

// groupBlocks 按 tesseract 的 block 编号把词聚成文本块
// 块内按行拼接，行间换行，词间空格
func groupBlocks(words []word) []block {
	byBlock := make(map[int][]word)
	for _, w := range words {
		byBlock[w.block] = append(byBlock[w.block], w)
	}

	keys := make([]int, 0, len(byBlock))
	for k := range byBlock {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var blocks []block
	for _, k := range keys {
		ws := byBlock[k]
		sort.Slice(ws, func(i, j int) bool {
			if ws[i].line != ws[j].line {
				return ws[i].line < ws[j].line
			}
			return ws[i].box.X0 < ws[j].box.X0
		})

		box := ws[0].box
		var sb strings.Builder
		curLine := ws[0].line
		lines := 1
		for i, w := range ws {
			box = box.Union(w.box)
			if i > 0 {
				if w.line != curLine {
					sb.WriteByte('\n')
					curLine = w.line
					lines++
				} else {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(w.text)
		}

		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		blocks = append(blocks, block{box: box, words: ws, text: text, lines: lines})
	}
	return blocks
}

// medianWordHeight 页面上词高的中位数，作为标题判定的基准
func medianWordHeight(words []word) int {
	if len(words) == 0 {
		return 0
	}
	hs := make([]int, 0, len(words))
	for _, w := range words {
		hs = append(hs, w.box.Height())
	}
	sort.Ints(hs)
	return hs[len(hs)/2]
}

// 数学符号集合，用于公式块判定
const mathSymbols = "=+−±×÷∑∏∫√∂∇∞≈≠≤≥≡∈∀∃→←↔⇒^|∝αβγδεζηθλμπσφψωΓΔΘΛΠΣΦΨΩ"

// mathRatio 非空白字符里数学符号的占比
func mathRatio(text string) float64 {
	total := 0
	math := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if strings.ContainsRune(mathSymbols, r) {
			math++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(math) / float64(total)
}

// classifyBlock 给文本块定型：公式、标题，或普通文本
func classifyBlock(b block, medianH int) types.RegionType {
	if mathRatio(b.text) >= 0.18 && len([]rune(b.text)) >= 3 {
		return types.RegionFormula
	}
	// 标题：单行、短、字号明显大于页面中位数
	if b.lines == 1 && len([]rune(b.text)) <= 80 && medianH > 0 {
		var maxH int
		for _, w := range b.words {
			if h := w.box.Height(); h > maxH {
				maxH = h
			}
		}
		if float64(maxH) >= 1.4*float64(medianH) {
			return types.RegionTitle
		}
	}
	return types.RegionText
}
