package vars

import (
	"os"
	"strconv"
	"time"
)

// GetEnv 获取环境变量，如果不存在则返回默认值
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvInt 获取整数环境变量，解析失败返回默认值
func GetEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

const (
	// 视觉模型名称
	GPT4O      = "gpt-4o"
	QWEN2VL    = "qwen2-vl:7b"
	LLAMA32VIS = "llama3.2-vision"

	// VLM 提供方
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	// 渲染
	DefaultDPI = 200
	MinDPI     = 72
	MaxDPI     = 600

	// 裁剪图处理参数（太小的框不值得发给视觉模型）
	MinCropSize   = 50
	CropPadding   = 10
	MinVisionSide = 200
)

// 环境变量配置（支持 Docker 部署）
var (
	// HTTP
	LISTEN_ADDR = GetEnv("LISTEN_ADDR", ":8081")

	// VLM
	VLM_PROVIDER = GetEnv("VLM_PROVIDER", ProviderOpenAI)
	VLM_MODEL    = GetEnv("VLM_MODEL", GPT4O)
	OPENAI_BASE  = GetEnv("OPENAI_BASE", "") // 留空使用官方地址
	OLLAMA_PATH  = GetEnv("OLLAMA_PATH", "http://localhost:11434")

	// 重试策略（可配置，不写死）
	VLM_MAX_ATTEMPTS = GetEnvInt("VLM_MAX_ATTEMPTS", 3)
	VLM_BACKOFF_MS   = GetEnvInt("VLM_BACKOFF_MS", 500)

	// 会话
	TEMP_ROOT       = GetEnv("TEMP_ROOT", os.TempDir())
	SESSION_TTL_MIN = GetEnvInt("SESSION_TTL_MIN", 60)
	MAX_UPLOAD_MB   = GetEnvInt("MAX_UPLOAD_MB", 50)

	// OCR 语言，多语言用 + 连接，如 "eng+chi_sim"
	OCR_LANG = GetEnv("OCR_LANG", "eng")
)

// BackoffBase 重试退避基准间隔
func BackoffBase() time.Duration {
	return time.Duration(VLM_BACKOFF_MS) * time.Millisecond
}

// 提示词
const (
	PROMPT_IMAGE = `
You are an expert in visual-to-text conversion with a focus on technical diagrams and flowcharts.

I will give you an image that may contain a diagram, flowchart, cycle, chart, infographic, or visual structure.

Your task is to:
1. Carefully examine the image for any text, symbols, arrows, or structural elements
2. If the image is blurry or unclear, describe what you can see and ask for clarification
3. Extract the visual structure and convert it into a clean, readable format
4. Preserve the direction, flow, and relationships between elements
5. Use arrows (↓, →, ↺) and indentation to reflect hierarchy and flow
6. If you cannot read the text clearly, describe the structure you can see

Format your response as:
Figure: [Title or Description]
[Visual structure with arrows and indentation]
Description:
[Explanation of what the diagram shows and its purpose]

Even if the image is unclear, provide your best interpretation of the structure.
`

	PROMPT_FORMULA = `
You are an expert in converting mathematical and structural equations from images into readable, properly formatted LaTeX or plain-text math expressions.

I will give you an image that may contain formulas, equations, or math-based visual structures.

Your task is to:
1. Accurately extract and interpret the equation(s) from the image.
2. Convert it into valid LaTeX inline math expressions (e.g., $...$) that can be used in markdown or LaTeX.
3. Ensure subscript, superscript, brackets, and operators are all correctly converted.
4. Preserve multi-line structures, indentations, and alignments when applicable.
5. Also provide a one-line explanation if the math expression represents a known concept (e.g., attention mechanism, layer norm, etc.)

Format your output like this:

` + "```latex" + `
Equation: [Title or concept]
$<LaTeX inline math expression>$
Description:
[A short explanation of what the equation represents.]
` + "```" + `
`

	// 系统提示词
	SYSTEM_IMAGE   = "You are an expert at interpreting technical diagrams and flowcharts. Even if an image is unclear, provide your best interpretation of the structure and content."
	SYSTEM_FORMULA = "You must interpret math and formula images and preserve exact LaTeX formatting, ensuring clarity and correctness."
)
