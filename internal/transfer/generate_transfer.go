package transfer

type GenerateRequest struct {
	Prompt   string `json:"prompt"`
	Platform string `json:"platform"`
	Tone     string `json:"tone"`
}

type GenerateResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}
