package gdocs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const docMimeType = "application/vnd.google-apps.document"

// DefaultSearchLimit caps search results when the caller does not ask for a count.
const DefaultSearchLimit = 10

const apiDisabledMessage = "The Google Docs API is not enabled for this project. " +
	"Please enable it by visiting the Google Cloud Console " +
	"(https://console.cloud.google.com/apis/library), searching for 'Google Docs API', " +
	"and clicking 'Enable'. After enabling, wait a few minutes before trying again."

// Operations never return an error to the caller: every failure, remote or
// local, is converted into a descriptive result string that the reasoning loop
// can relay verbatim.

// CreateDocument creates a new document and, when initial content is supplied,
// inserts it at position 1 (just after the document's implicit leading anchor).
func (s *Service) CreateDocument(ctx context.Context, title, content string) string {
	doc, err := s.docs.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return opError("creating the document", err)
	}

	if content != "" {
		req := &docs.BatchUpdateDocumentRequest{Requests: []*docs.Request{
			insertAt(1, content),
		}}
		if _, err := s.docs.Documents.BatchUpdate(doc.DocumentId, req).Context(ctx).Do(); err != nil {
			return opError("creating the document", err)
		}
	}

	log.Printf("created document %q (id %s)", title, doc.DocumentId)
	return fmt.Sprintf("Document created successfully. ID: %s, Title: %s", doc.DocumentId, title)
}

// ReadDocument fetches the document body and linearizes it by walking the
// paragraph elements in order. When formatting detail is requested the raw
// structured document is returned alongside the linear text as JSON.
func (s *Service) ReadDocument(ctx context.Context, documentID string, includeFormatting bool) string {
	doc, err := s.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return opError("reading the document", err)
	}

	text := linearText(doc.Body)
	if includeFormatting {
		payload, err := json.Marshal(map[string]any{
			"content":      text,
			"raw_document": doc,
		})
		if err != nil {
			return fmt.Sprintf("An unexpected error occurred: %v", err)
		}
		return string(payload)
	}

	log.Printf("read document %q (id %s)", doc.Title, documentID)
	return text
}

// UpdateDocument rewrites or extends a document's content.
//
// Replace mode computes the content end index from the text runs, deletes the
// range [1, end-1] (the trailing index is excluded so the document's mandatory
// final line break survives) and inserts the new content at position 1. An
// already-empty document skips the delete. Append mode inserts at one position
// before the last structural element's end index, floored at 1.
func (s *Service) UpdateDocument(ctx context.Context, documentID, content string, replaceAll bool) string {
	doc, err := s.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return opError("updating the document", err)
	}

	var requests []*docs.Request
	if replaceAll {
		end := contentEndIndex(doc.Body)
		if end > 1 {
			requests = append(requests, &docs.Request{
				DeleteContentRange: &docs.DeleteContentRangeRequest{
					Range: &docs.Range{StartIndex: 1, EndIndex: end - 1},
				},
			})
		}
		requests = append(requests, insertAt(1, content))
	} else {
		requests = append(requests, insertAt(appendIndex(doc.Body), content))
	}

	req := &docs.BatchUpdateDocumentRequest{Requests: requests}
	if _, err := s.docs.Documents.BatchUpdate(documentID, req).Context(ctx).Do(); err != nil {
		return opError("updating the document", err)
	}

	log.Printf("updated document (id %s)", documentID)
	return fmt.Sprintf("Document updated successfully. ID: %s", documentID)
}

// AddComment anchors a comment to the caller's [startIndex, endIndex) range.
// Offsets are passed through as-is; out-of-range values are rejected by the
// API, not here.
func (s *Service) AddComment(ctx context.Context, documentID, content string, startIndex, endIndex int64) string {
	anchor := fmt.Sprintf(`{"r":"head","a":[{"txt":{"o":%d,"l":%d}}]}`, startIndex, endIndex-startIndex)
	comment := &drive.Comment{Content: content, Anchor: anchor}

	if _, err := s.drive.Comments.Create(documentID, comment).
		Fields("id", "content", "anchor").
		Context(ctx).Do(); err != nil {
		return opError("adding the comment", err)
	}

	log.Printf("added comment to document (id %s)", documentID)
	return fmt.Sprintf("Comment added successfully to document ID: %s", documentID)
}

// SearchResult is the compact shape returned for each matching document.
type SearchResult struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

// SearchDocuments pages through the Drive listing for documents whose name
// contains the query, stopping once maxResults records are accumulated or the
// page stream is exhausted. Results are truncated to exactly maxResults.
func (s *Service) SearchDocuments(ctx context.Context, query string, maxResults int64) string {
	if maxResults <= 0 {
		maxResults = DefaultSearchLimit
	}

	q := fmt.Sprintf("name contains '%s' and mimeType='%s'", escapeQuery(query), docMimeType)

	var results []SearchResult
	pageToken := ""
	for {
		call := s.drive.Files.List().
			Q(q).
			Spaces("drive").
			Fields("nextPageToken, files(id, name, createdTime, modifiedTime)").
			PageSize(min(maxResults, 100)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return opError("searching for documents", err)
		}

		for _, f := range resp.Files {
			results = append(results, SearchResult{
				ID:       f.Id,
				Title:    f.Name,
				Created:  orUnknown(f.CreatedTime),
				Modified: orUnknown(f.ModifiedTime),
			})
		}

		if int64(len(results)) >= maxResults || resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if len(results) == 0 {
		return "No documents found matching your search criteria."
	}
	if int64(len(results)) > maxResults {
		results = results[:maxResults]
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
	return string(payload)
}

func insertAt(index int64, text string) *docs.Request {
	return &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: index},
			Text:     text,
		},
	}
}

// linearText concatenates every text run of every paragraph in document order.
func linearText(body *docs.Body) string {
	if body == nil {
		return ""
	}
	var b strings.Builder
	for _, el := range body.Content {
		if el.Paragraph == nil {
			continue
		}
		for _, pe := range el.Paragraph.Elements {
			if pe.TextRun != nil {
				b.WriteString(pe.TextRun.Content)
			}
		}
	}
	return b.String()
}

// contentEndIndex sums the length of all text runs starting from position 1.
// Lengths are counted in UTF-16 code units, the unit the Docs API indexes in.
func contentEndIndex(body *docs.Body) int64 {
	end := int64(1)
	if body == nil {
		return end
	}
	for _, el := range body.Content {
		if el.Paragraph == nil {
			continue
		}
		for _, pe := range el.Paragraph.Elements {
			if pe.TextRun != nil {
				end += utf16Len(pe.TextRun.Content)
			}
		}
	}
	return end
}

// appendIndex returns the insertion point for append mode: one position before
// the last structural element's end index, never past the document's effective
// end and never before 1.
func appendIndex(body *docs.Body) int64 {
	end := int64(1)
	if body != nil && len(body.Content) > 0 {
		end = body.Content[len(body.Content)-1].EndIndex
	}
	if end-1 < 1 {
		return 1
	}
	return end - 1
}

func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		n++
		if r > 0xFFFF {
			n++
		}
	}
	return n
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func escapeQuery(q string) string {
	return queryEscaper.Replace(q)
}

// opError converts an API failure into the operation's textual result. The
// "API not enabled" condition gets its own actionable message.
func opError(action string, err error) string {
	if isAPIDisabled(err) {
		return apiDisabledMessage
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Sprintf("An error occurred while %s: %v", action, gerr)
	}
	return fmt.Sprintf("An unexpected error occurred: %v", err)
}

func isAPIDisabled(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code != http.StatusForbidden {
		return false
	}
	return strings.Contains(gerr.Message, "SERVICE_DISABLED") ||
		strings.Contains(gerr.Message, "has not been used in project")
}
