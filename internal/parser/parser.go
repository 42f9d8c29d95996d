package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"industry-rag/internal/config"
	"industry-rag/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	defaultChunkSize    = 1000 // bytes
	defaultChunkOverlap = 200  // bytes
	defaultPageNumber   = 1
)

// section is one extracted unit of a document before chunking, a PDF page,
// a spreadsheet sheet, a slide, or the whole file for flat formats.
type section struct {
	text string
	page int
}

// ParseToDocuments parses a local file into ingestable documents, one per
// chunk, with a file URL carrying the page for source attribution.
func ParseToDocuments(filePath string, cfg *config.Config) ([]models.SearchResult, error) {
	chunks, err := ParseFile(filePath, cfg)
	if err != nil {
		return nil, err
	}

	title := filepath.Base(filePath)
	docs := make([]models.SearchResult, len(chunks))
	for i, chunk := range chunks {
		docs[i] = models.SearchResult{
			Title:   title,
			Content: chunk.Content,
			URL:     fmt.Sprintf("file://%s#page=%d", filePath, chunk.PageNumber),
		}
	}
	return docs, nil
}

// ParseFile parses a document file into chunks with page metadata.
func ParseFile(filePath string, cfg *config.Config) ([]models.Chunk, error) {
	chunkSize, chunkOverlap := defaultChunkSize, defaultChunkOverlap
	if cfg != nil && cfg.RAG.ChunkSize > 0 {
		chunkSize = cfg.RAG.ChunkSize
	}
	if cfg != nil && cfg.RAG.ChunkOverlap > 0 {
		chunkOverlap = cfg.RAG.ChunkOverlap
	}

	var sections []section
	var err error
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		sections, err = parsePDF(filePath)
	case ".docx":
		sections, err = parseDOCX(filePath)
	case ".pptx":
		sections, err = parsePPTX(filePath)
	case ".xlsx":
		sections, err = parseXLSX(filePath)
	case ".ods":
		sections, err = parseODS(filePath)
	case ".md", ".markdown":
		sections, err = parseMarkdown(filePath)
	case ".txt":
		sections, err = parseText(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	for _, sec := range sections {
		if strings.TrimSpace(sec.text) == "" {
			continue
		}
		for i, chunkString := range chunkContent(sec.text, chunkSize, chunkOverlap) {
			chunks = append(chunks, models.Chunk{
				Content:    chunkString,
				PageNumber: sec.page,
				ChunkID:    i + 1,
			})
		}
	}
	return chunks, nil
}

func parsePDF(filePath string) ([]section, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var sections []section
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section{text: pageText, page: i})
	}
	return sections, nil
}

func parseDOCX(filePath string) ([]section, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc := r.Editable()
	// DOCX has no page numbers
	return []section{{text: doc.GetContent(), page: defaultPageNumber}}, nil
}

func parsePPTX(filePath string) ([]section, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sections []section
	slideNum := 0
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		slideNum++
		sections = append(sections, section{text: extractTextFromXML(string(data)), page: slideNum})
	}
	return sections, nil
}

func parseXLSX(filePath string) ([]section, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var sections []section
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		sections = append(sections, section{text: text.String(), page: sheetNum + 1})
	}
	return sections, nil
}

func parseODS(filePath string) ([]section, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sections []section
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		sections = append(sections, section{text: text.String(), page: sheetNum + 1})
	}
	return sections, nil
}

// parseMarkdown renders markdown to plain text by stripping the HTML tags
// goldmark produces, so headings and emphasis markers do not pollute chunks.
func parseMarkdown(filePath string) ([]section, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert(data, &buf); err != nil {
		return nil, err
	}
	return []section{{text: stripTags(buf.String()), page: defaultPageNumber}}, nil
}

func parseText(filePath string) ([]section, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return []section{{text: string(data), page: defaultPageNumber}}, nil
}

func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}

func stripTags(htmlContent string) string {
	var text strings.Builder
	inTag := false
	for _, r := range htmlContent {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			text.WriteRune(r)
		}
	}
	return text.String()
}

// chunk content into chunks with maxChars and overlapChars
func chunkContent(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	content = strings.TrimSpace(content)
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}
	if contentLen <= maxChars {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)

		// Look for a clean break within the last 10% of the chunk
		if end < contentLen {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		chunk := strings.TrimSpace(content[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		start += maxChars - overlapChars
		if start >= contentLen {
			break
		}
	}
	return chunks
}
