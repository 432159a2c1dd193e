package content

import (
	"fmt"
	"math"
	"strings"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count as a human-readable string, e.g.
// "1.5 MB". Zero and negative values render as "0 B".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	exp := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if exp >= len(sizeUnits) {
		exp = len(sizeUnits) - 1
	}

	value := math.Round(float64(bytes)/math.Pow(1024, float64(exp))*100) / 100
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d %s", int64(value), sizeUnits[exp])
	}
	return fmt.Sprintf("%g %s", value, sizeUnits[exp])
}

var extensionLabels = map[string]string{
	"pdf":  "PDF",
	"doc":  "Document",
	"docx": "Document",
	"xls":  "Spreadsheet",
	"xlsx": "Spreadsheet",
	"ppt":  "Presentation",
	"pptx": "Presentation",
	"jpg":  "Image",
	"jpeg": "Image",
	"png":  "Image",
	"gif":  "Image",
	"svg":  "Image",
	"mp4":  "Video",
	"avi":  "Video",
	"mov":  "Video",
	"mp3":  "Audio",
	"wav":  "Audio",
	"txt":  "Text",
	"md":   "Markdown",
	"html": "HTML",
	"css":  "CSS",
	"js":   "JavaScript",
	"ts":   "TypeScript",
	"json": "JSON",
	"xml":  "XML",
	"zip":  "Archive",
	"rar":  "Archive",
	"7z":   "Archive",
}

// FileTypeLabel returns a display name for a file, preferring the MIME type
// and falling back to the extension. Unknown inputs label as "File".
func FileTypeLabel(mimeType, extension string) string {
	if mimeType != "" {
		switch {
		case strings.HasPrefix(mimeType, "image/"):
			return "Image"
		case strings.HasPrefix(mimeType, "video/"):
			return "Video"
		case strings.HasPrefix(mimeType, "audio/"):
			return "Audio"
		case strings.Contains(mimeType, "pdf"):
			return "PDF"
		case strings.Contains(mimeType, "word"), strings.Contains(mimeType, "document"):
			return "Document"
		case strings.Contains(mimeType, "sheet"), strings.Contains(mimeType, "excel"):
			return "Spreadsheet"
		case strings.Contains(mimeType, "presentation"), strings.Contains(mimeType, "powerpoint"):
			return "Presentation"
		case strings.Contains(mimeType, "text"):
			return "Text"
		}
	}

	if extension != "" {
		ext := strings.ToLower(strings.TrimPrefix(extension, "."))
		if label, ok := extensionLabels[ext]; ok {
			return label
		}
	}

	return "File"
}
