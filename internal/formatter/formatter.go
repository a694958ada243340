// package formatter provides functions to export a resolved watchlist to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/shared"
)

// Format names accepted by [Export].
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Formats lists the supported export formats.
var Formats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// Export renders movies in the named format. "md" and "txt" are accepted as aliases.
func Export(movies []models.Movie, format string, pretty bool) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return ExportToJSON(movies, pretty)
	case FormatCSV:
		return ExportToCSV(movies)
	case FormatMarkdown, "md":
		return ExportToMarkdown(movies, nil)
	case FormatText, "txt":
		return ExportToText(movies)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (expected one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// ExportToJSON encodes movies as a JSON array. A nil slice encodes as [].
func ExportToJSON(movies []models.Movie, pretty bool) ([]byte, error) {
	if movies == nil {
		movies = []models.Movie{}
	}
	return shared.MarshalJSON(movies, pretty)
}

// ExportToCSV converts movies to CSV format with columns: ID, Title, Year, ImageURL
func ExportToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Title", "Year", "ImageURL"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range movies {
		year := ""
		if m.Year > 0 {
			year = strconv.Itoa(int(m.Year))
		}
		if err := writer.Write([]string{m.ID, m.Title, year, m.ImageURL}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts movies to a Markdown document.
//
// images maps movie IDs to local image paths; movies without an entry link their remote image URL.
func ExportToMarkdown(movies []models.Movie, images map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# My Watchlist\n\n")
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(movies)))

	for i, m := range movies {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, cardTitle(m)))

		img := m.ImageURL
		if local, ok := images[m.ID]; ok {
			img = local
		}
		if img != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", m.Title, img))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts movies to plain-text cards
func ExportToText(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	for i, m := range movies {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, cardTitle(m)))
		if m.ImageURL != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", m.ImageURL))
		}
	}

	return buf.Bytes(), nil
}

func cardTitle(m models.Movie) string {
	if m.Year > 0 {
		return fmt.Sprintf("%s (%d)", m.Title, m.Year)
	}
	return m.Title
}

// WriteExport renders movies and writes them to filePath, creating parent directories.
func WriteExport(movies []models.Movie, format string, pretty bool, filePath string) error {
	data, err := Export(movies, format, pretty)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// Image downloads retry server errors and transport failures; other statuses fail immediately.
var (
	downloadAttempts uint = 3
	downloadDelay         = 200 * time.Millisecond
)

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrMissingArgument)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return retry.DoWithData(
		func() ([]byte, error) { return fetchImage(ctx, client, url) },
		retry.Context(ctx),
		retry.Attempts(downloadAttempts),
		retry.Delay(downloadDelay),
		retry.LastErrorOnly(true),
	)
}

func fetchImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, retry.Unrecoverable(fmt.Errorf("failed to download image: status %d", resp.StatusCode))
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Skipped   map[string]error // image download failures by movie ID
}

// WriteMarkdownExport writes {dir}/README.md and downloads each movie image into {dir}/images.
//
// A failed download is recorded in Skipped and the card keeps its remote URL.
func WriteMarkdownExport(ctx context.Context, client *http.Client, movies []models.Movie, outputDir string) (*MarkdownExportResult, error) {
	imagesDir := filepath.Join(outputDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}, Skipped: map[string]error{}}
	images := map[string]string{}

	for i, m := range movies {
		if m.ImageURL == "" {
			continue
		}

		data, err := DownloadImage(ctx, client, m.ImageURL)
		if err != nil {
			result.Skipped[m.ID] = err
			continue
		}

		name := imageName(i, m.ID) + imageExt(m.ImageURL)
		if err := os.WriteFile(filepath.Join(imagesDir, name), data, 0644); err != nil {
			result.Skipped[m.ID] = fmt.Errorf("failed to save image: %w", err)
			continue
		}
		images[m.ID] = "images/" + name
		result.Files = append(result.Files, filepath.Join(imagesDir, name))
	}

	mdData, err := ExportToMarkdown(movies, images)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// imageName keeps the movie ID as the file stem when it is a plain file name and
// falls back to the list position otherwise, so a served ID never escapes images/.
func imageName(i int, id string) string {
	if id != "" && id != "." && !strings.ContainsAny(id, `/\`) && filepath.IsLocal(id) {
		return id
	}
	return fmt.Sprintf("movie-%03d", i+1)
}

func imageExt(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	switch ext := strings.ToLower(path.Ext(rawURL)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
