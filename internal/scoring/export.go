package scoring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxNameAttempts bounds the collision suffix search for export files.
const maxNameAttempts = 1000

// ExportedFile describes a delivered document.
type ExportedFile struct {
	Path string
	Size int64

	// Pages is the page count when the document is a readable PDF, else 0.
	Pages int
}

type exportRequest struct {
	Catalyst           string         `json:"catalyst"`
	OverallScore       float64        `json:"overall_score"`
	OverallTier        string         `json:"overall_tier"`
	PriorityCategories []string       `json:"priority_categories"`
	CategoryScores     map[string]any `json:"category_scores"`
	Recommendations    string         `json:"recommendations"`
}

// Export asks the document endpoint to render result and writes the
// returned document into the output directory. It never touches session
// state and may be repeated against the same result.
func (c *Client) Export(ctx context.Context, result *Result, catalyst string) (*ExportedFile, error) {
	if result == nil {
		return nil, ErrNothingToExport
	}
	if !c.exporting.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.exporting.Store(false)

	req := exportRequest{
		Catalyst:           catalyst,
		OverallScore:       result.OverallScore,
		OverallTier:        result.OverallTier,
		PriorityCategories: result.PriorityCategories,
		CategoryScores:     result.CategoryScores,
		Recommendations:    result.RecommendationText(),
	}
	if req.PriorityCategories == nil {
		req.PriorityCategories = []string{}
	}
	if req.CategoryScores == nil {
		req.CategoryScores = map[string]any{}
	}

	resp, body, err := c.postJSON(ctx, c.exportURL, req)
	if err != nil {
		c.logger.Error("export failed", "error", err)
		return nil, &ExportError{Err: err}
	}
	if !isSuccess(resp.StatusCode) {
		c.logger.Warn("export rejected", "status", resp.StatusCode)
		return nil, &ExportError{Status: resp.StatusCode}
	}

	ext := extensionFrom(resp.Header.Get("Content-Disposition"))
	base := "assessment-results-" + c.now().Format("2006-01-02")
	path, err := writeUnique(c.outputDir, base, ext, body)
	if err != nil {
		c.logger.Error("export delivery failed", "error", err)
		return nil, &ExportError{Err: err}
	}

	out := &ExportedFile{Path: path, Size: int64(len(body))}
	if ext == ".pdf" {
		out.Pages = countPages(body)
		if out.Pages == 0 {
			c.logger.Warn("exported document is not a readable PDF", "path", path)
		}
	}
	c.logger.Info("export delivered", "path", path, "bytes", out.Size, "pages", out.Pages)
	return out, nil
}

// extensionFrom takes the file extension from a Content-Disposition
// filename, defaulting to .pdf.
func extensionFrom(disposition string) string {
	if disposition == "" {
		return ".pdf"
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ".pdf"
	}
	ext := strings.ToLower(filepath.Ext(params["filename"]))
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		return ".pdf"
	}
	return ext
}

// writeUnique writes data to dir/base+ext, or base-N+ext for the first N
// that does not already exist.
func writeUnique(dir, base, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	for i := 1; i <= maxNameAttempts; i++ {
		name := base + ext
		if i > 1 {
			name = fmt.Sprintf("%s-%d%s", base, i, ext)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free file name for %s%s in %s", base, ext, dir)
}

// countPages returns the page count of a PDF document, or 0 if data does
// not parse as one.
func countPages(data []byte) (pages int) {
	defer func() {
		// The reader panics on some truncated inputs.
		if recover() != nil {
			pages = 0
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return r.NumPage()
}
