package summarizer

import (
	"fmt"
	"strings"
)

const promptTemplate = `請根據以下 YouTube 影片《%s》的逐字稿，進行內容整理與摘要。

請嚴格遵守以下格式與規則：
1. 全程使用繁體中文。
2. 只允許輸出兩個段落區塊，不要有任何其它文字說明：
   (1) 第一部分標題為「重點整理」，底下使用條列式，整理大約 10 點重點。
       - 每一點單獨一行，使用「- 」開頭。
       - 每一點中，請將最重要的關鍵詞或主題使用 **粗體** 標記，例如：
         - **NAS 儲存空間**：說明其用途與適合族群...
   (2) 第二部分標題為「總結：」，接著是一段約 300 個字的完整總結段落。
       - 在總結段落中，也請適度將關鍵名詞或重要概念使用 **粗體** 標記。
3. 不要有任何開場白，不要自我介紹，不要寫「如果覺得有幫助」等結語或行動呼籲。
4. 不要提及你是 AI 或模型，不要出現「我認為」「Gemini 說」等主詞。

逐字稿如下：
%s`

// BuildPrompt renders the summarization instructions for a video title and its transcript.
// Characters outside the Basic Multilingual Plane are removed, since the command backend passes
// the prompt as a process argument.
func BuildPrompt(title, transcript string) string {
	prompt := fmt.Sprintf(promptTemplate, title, transcript)
	return StripNonBMP(strings.TrimSpace(prompt))
}

// StripNonBMP drops every rune above U+FFFF (emoji and other astral-plane characters).
func StripNonBMP(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return -1
		}
		return r
	}, s)
}
