package types

import "time"

// --- 区域类型定义 ---

// RegionType 页面区域的类型（标签联合，一个区域只能有一种类型）
type RegionType string

const (
	RegionText    RegionType = "Text"
	RegionTitle   RegionType = "Title"
	RegionImage   RegionType = "Image"
	RegionTable   RegionType = "Table"
	RegionFormula RegionType = "Formula"
)

// --- 处理状态 ---

const (
	StatusProcessed = "processed" // 已处理，content 有效
	StatusSkipped   = "skipped"   // 开关关闭，未调用解释器
	StatusFailed    = "failed"    // 重试耗尽后放弃，error 记录原因
)

// BBox 区域在渲染页图像上的包围盒（像素坐标，左上为原点）
type BBox struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Width 包围盒宽度
func (b BBox) Width() int { return b.X1 - b.X0 }

// Height 包围盒高度
func (b BBox) Height() int { return b.Y1 - b.Y0 }

// Union 两个包围盒的并集
func (b BBox) Union(o BBox) BBox {
	if o.X0 < b.X0 {
		b.X0 = o.X0
	}
	if o.Y0 < b.Y0 {
		b.Y0 = o.Y0
	}
	if o.X1 > b.X1 {
		b.X1 = o.X1
	}
	if o.Y1 > b.Y1 {
		b.Y1 = o.Y1
	}
	return b
}

// Contains 判断点是否落在包围盒内
func (b BBox) Contains(x, y int) bool {
	return x >= b.X0 && x < b.X1 && y >= b.Y0 && y < b.Y1
}

// Intersects 判断两个包围盒是否相交
func (b BBox) Intersects(o BBox) bool {
	return b.X0 < o.X1 && o.X0 < b.X1 && b.Y0 < o.Y1 && o.Y0 < b.Y1
}

// TableGrid 表格的单元格几何结构（由分割阶段的格线检测产生）
// RowYs/ColXs 是格线坐标，Cells[r][c] 是对应单元格内的 OCR 文本
type TableGrid struct {
	RowYs []int      `json:"row_ys"`
	ColXs []int      `json:"col_xs"`
	Cells [][]string `json:"cells"`
}

// Rows 表格行数
func (g *TableGrid) Rows() int {
	if len(g.RowYs) < 2 {
		return 0
	}
	return len(g.RowYs) - 1
}

// Cols 表格列数
func (g *TableGrid) Cols() int {
	if len(g.ColXs) < 2 {
		return 0
	}
	return len(g.ColXs) - 1
}

// Region 页面上的一个版面区域
// 分割阶段填 Type/Page/BBox（文本类区域顺带填 Content），
// 解释阶段只追加 Content/Status/Error，从不改动裁剪图本身
type Region struct {
	Type    RegionType `json:"type"`
	Page    int        `json:"page"` // 1-based 页码
	BBox    BBox       `json:"bbox"`
	Content string     `json:"content"`
	Status  string     `json:"status"`
	Error   string     `json:"error,omitempty"`

	// Grid 仅 Table 区域有值
	Grid *TableGrid `json:"-"`

	// CropPath 裁剪图临时文件路径（会话结束时统一清理），不导出
	CropPath string `json:"-"`
}

// Page 一页：页码 + 渲染尺寸 + 阅读顺序排列的区域
type Page struct {
	Number  int       `json:"number"` // 1-based
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Regions []*Region `json:"regions"`
}

// Options 每次处理的功能开关和渲染分辨率
type Options struct {
	ProcessImages   bool `json:"process_images"`
	ProcessFormulas bool `json:"process_formulas"`
	ProcessTables   bool `json:"process_tables"`
	DPI             int  `json:"dpi"`
}

// Document 一次上传会话产出的最终结构
// 所有页处理完后即不可变，导出是它的纯函数
type Document struct {
	ID          string        `json:"id"`
	FileName    string        `json:"file_name"`
	PageCount   int           `json:"page_count"`
	Options     Options       `json:"options"`
	Pages       []*Page       `json:"pages"`
	Content     []*Region     `json:"content"` // 聚合后的全文区域列表（阅读顺序）
	CreatedAt   time.Time     `json:"created_at"`
	ProcessTime time.Duration `json:"process_time"`
}

// --- 导出格式 ---

type ExportFormat string

const (
	FormatText     ExportFormat = "text"
	FormatMarkdown ExportFormat = "markdown"
	FormatJSON     ExportFormat = "json"
)
