package models

// Request and response envelopes for the HTTP surface. Binding tags are
// validated by gin before any adapter is invoked.

type ImageToTextResponse struct {
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	AudioURL    string  `json:"audio_url,omitempty"`
}

type TextToSpeechRequest struct {
	Text   string  `json:"text" binding:"required"`
	Voice  string  `json:"voice"`
	Rate   float64 `json:"rate"`
	Upload bool    `json:"upload"`
}

type TextToSpeechResponse struct {
	AudioURL string `json:"audio_url"`
}

type SpeechToTextResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type PdfToMarkdownResponse struct {
	Markdown string `json:"markdown"`
	Pages    int    `json:"pages"`
}

type MarkdownToPdfRequest struct {
	Markdown string `json:"markdown" binding:"required"`
}

type SpellCorrectRequest struct {
	Text string `json:"text"`
}

type SpellCorrectResponse struct {
	CorrectedText string `json:"corrected_text"`
	OriginalText  string `json:"original_text"`
}

type ProcessResponse struct {
	TaskID   string `json:"task_id"`
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
}

type ProcessResult struct {
	TaskID string                 `json:"task_id"`
	Status string                 `json:"status"`
	Result map[string]interface{} `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

type AccessibilityRequest struct {
	URL       string `json:"url" binding:"required,url"`
	Summarize *bool  `json:"summarize"`
}

// Violation is one axe-core rule violation found on the audited page.
type Violation struct {
	ID          string          `json:"id"`
	Impact      string          `json:"impact"`
	Description string          `json:"description"`
	Help        string          `json:"help"`
	HelpURL     string          `json:"helpUrl,omitempty"`
	Nodes       []ViolationNode `json:"nodes"`
}

type ViolationNode struct {
	HTML   string   `json:"html"`
	Target []string `json:"target"`
}

type AccessibilityResponse struct {
	URL             string      `json:"url"`
	Violations      []Violation `json:"violations"`
	TotalViolations int         `json:"total_violations"`
	Summary         string      `json:"summary,omitempty"`
}
