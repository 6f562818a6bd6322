package ai

import (
	"context"

	"autoclerk/internal/gdocs"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// docTools wraps every document operation as a typed tool the reasoning loop
// can invoke. The set is fixed; dispatch happens by tool name inside the loop.
func docTools(svc *gdocs.Service) []tool.BaseTool {
	ops := &docOps{svc: svc}
	return []tool.BaseTool{
		newCreateDocTool(ops),
		newReadDocTool(ops),
		newUpdateDocTool(ops),
		newAddCommentTool(ops),
		newSearchDocsTool(ops),
	}
}

type docOps struct {
	svc *gdocs.Service
}

type createDocParams struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

func newCreateDocTool(ops *docOps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "create_google_doc",
		Desc: "Creates a new Google Document",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"title": {
				Desc:     "Title of the new document",
				Type:     schema.String,
				Required: true,
			},
			"content": {
				Desc: "Initial content for the doc",
				Type: schema.String,
			},
		}),
	}
	return utils.NewTool(info, ops.createDoc)
}

func (o *docOps) createDoc(ctx context.Context, params *createDocParams) (string, error) {
	return o.svc.CreateDocument(ctx, params.Title, params.Content), nil
}

type readDocParams struct {
	DocumentID        string `json:"document_id"`
	IncludeFormatting bool   `json:"include_formatting,omitempty"`
}

func newReadDocTool(ops *docOps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "read_google_doc",
		Desc: "Reads content from an existing Google Document",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"document_id": {
				Desc:     "ID of the Google Document to read",
				Type:     schema.String,
				Required: true,
			},
			"include_formatting": {
				Desc: "Whether to include formatting information in the response, default false.",
				Type: schema.Boolean,
			},
		}),
	}
	return utils.NewTool(info, ops.readDoc)
}

func (o *docOps) readDoc(ctx context.Context, params *readDocParams) (string, error) {
	return o.svc.ReadDocument(ctx, params.DocumentID, params.IncludeFormatting), nil
}

type updateDocParams struct {
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
	ReplaceAll bool   `json:"replace_all,omitempty"`
}

func newUpdateDocTool(ops *docOps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "update_google_doc",
		Desc: "Updates content in an existing Google Document",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"document_id": {
				Desc:     "ID of the Google Document to update",
				Type:     schema.String,
				Required: true,
			},
			"content": {
				Desc:     "Content to append or replace in the document",
				Type:     schema.String,
				Required: true,
			},
			"replace_all": {
				Desc: "Whether to replace all content or append to the end, default false.",
				Type: schema.Boolean,
			},
		}),
	}
	return utils.NewTool(info, ops.updateDoc)
}

func (o *docOps) updateDoc(ctx context.Context, params *updateDocParams) (string, error) {
	return o.svc.UpdateDocument(ctx, params.DocumentID, params.Content, params.ReplaceAll), nil
}

type addCommentParams struct {
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
	StartIndex int64  `json:"start_index"`
	EndIndex   int64  `json:"end_index"`
}

func newAddCommentTool(ops *docOps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "add_comment_google_doc",
		Desc: "Adds a comment to a specific section of text in a Google Document",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"document_id": {
				Desc:     "The ID of the Google Document to add a comment to",
				Type:     schema.String,
				Required: true,
			},
			"content": {
				Desc:     "The comment text to add",
				Type:     schema.String,
				Required: true,
			},
			"start_index": {
				Desc:     "The start index of the text to comment on",
				Type:     schema.Integer,
				Required: true,
			},
			"end_index": {
				Desc:     "The end index of the text to comment on",
				Type:     schema.Integer,
				Required: true,
			},
		}),
	}
	return utils.NewTool(info, ops.addComment)
}

func (o *docOps) addComment(ctx context.Context, params *addCommentParams) (string, error) {
	return o.svc.AddComment(ctx, params.DocumentID, params.Content, params.StartIndex, params.EndIndex), nil
}

type searchDocsParams struct {
	Query      string `json:"query"`
	MaxResults int64  `json:"max_results,omitempty"`
}

func newSearchDocsTool(ops *docOps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "search_google_docs",
		Desc: "Searches for Google Documents by title or content",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Desc:     "Search query to find documents by title or content",
				Type:     schema.String,
				Required: true,
			},
			"max_results": {
				Desc: "Maximum number of results to return, default 10.",
				Type: schema.Integer,
			},
		}),
	}
	return utils.NewTool(info, ops.searchDocs)
}

func (o *docOps) searchDocs(ctx context.Context, params *searchDocsParams) (string, error) {
	return o.svc.SearchDocuments(ctx, params.Query, params.MaxResults), nil
}
