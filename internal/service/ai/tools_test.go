package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"google.golang.org/api/option"

	"autoclerk/internal/gdocs"
)

func TestDocToolsSet(t *testing.T) {
	tools := docTools(nil)
	want := []string{
		"create_google_doc",
		"read_google_doc",
		"update_google_doc",
		"add_comment_google_doc",
		"search_google_docs",
	}
	if len(tools) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(tools))
	}
	for i, tl := range tools {
		info, err := tl.Info(context.Background())
		if err != nil {
			t.Fatalf("Info: %v", err)
		}
		if info.Name != want[i] {
			t.Errorf("tool %d name = %q, want %q", i, info.Name, want[i])
		}
		if info.Desc == "" {
			t.Errorf("tool %q has no description", info.Name)
		}
		if info.ParamsOneOf == nil {
			t.Errorf("tool %q has no parameter schema", info.Name)
		}
	}
}

func TestCreateToolInvokesOperation(t *testing.T) {
	var gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/documents" {
			http.Error(w, "unexpected request", http.StatusNotFound)
			return
		}
		var body struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotTitle = body.Title
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"documentId": "doc-1", "title": %q}`, body.Title)
	}))
	defer srv.Close()

	svc, err := gdocs.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	create, ok := docTools(svc)[0].(tool.InvokableTool)
	if !ok {
		t.Fatal("create tool is not invokable")
	}
	result, err := create.InvokableRun(context.Background(), `{"title": "Notes"}`)
	if err != nil {
		t.Fatalf("InvokableRun: %v", err)
	}
	if gotTitle != "Notes" {
		t.Errorf("backend received title %q", gotTitle)
	}
	if !strings.Contains(result, "Document created successfully. ID: doc-1, Title: Notes") {
		t.Errorf("unexpected tool result: %q", result)
	}
}

func TestToolResultsCarryFailuresAsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"code": 500, "message": "boom"}}`)
	}))
	defer srv.Close()

	svc, err := gdocs.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	read, ok := docTools(svc)[1].(tool.InvokableTool)
	if !ok {
		t.Fatal("read tool is not invokable")
	}
	result, err := read.InvokableRun(context.Background(), `{"document_id": "doc-1"}`)
	if err != nil {
		t.Fatalf("tool must surface failures as text, got error: %v", err)
	}
	if !strings.Contains(result, "An error occurred while reading the document") {
		t.Errorf("unexpected tool result: %q", result)
	}
}
