package translator

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/valpere/langtranslator/internal/service"
)

type formPart struct {
	name        string
	filename    string
	contentType string
	content     string
}

func readParts(t *testing.T, req *service.Request) []formPart {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(req.ContentType)
	if err != nil {
		t.Fatalf("invalid content type %q: %v", req.ContentType, err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("expected multipart/form-data, got %q", mediaType)
	}

	var parts []formPart
	mr := multipart.NewReader(bytes.NewReader(req.Body), params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read part: %v", err)
		}
		data, err := io.ReadAll(p)
		if err != nil {
			t.Fatalf("failed to read part body: %v", err)
		}
		parts = append(parts, formPart{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			content:     string(data),
		})
	}
	return parts
}

func TestNewTranslateRequest_OptionalFields(t *testing.T) {
	tests := []struct {
		name    string
		opts    TranslateOptions
		present []string
		absent  []string
	}{
		{
			name:   "text only",
			opts:   TranslateOptions{Text: []string{"Hello"}},
			absent: []string{"model_id", "source", "target"},
		},
		{
			name:    "model only",
			opts:    TranslateOptions{Text: []string{"Hello"}, ModelID: "en-es"},
			present: []string{"model_id"},
			absent:  []string{"source", "target"},
		},
		{
			name:    "source and target",
			opts:    TranslateOptions{Text: []string{"Hello"}, Source: "en", Target: "es"},
			present: []string{"source", "target"},
			absent:  []string{"model_id"},
		},
		{
			name:    "target only",
			opts:    TranslateOptions{Text: []string{"Hello"}, Target: "fr"},
			present: []string{"target"},
			absent:  []string{"model_id", "source"},
		},
		{
			name:    "everything",
			opts:    TranslateOptions{Text: []string{"a", "b"}, ModelID: "m", Source: "en", Target: "de"},
			present: []string{"model_id", "source", "target"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := newTranslateRequest(&tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Method != "POST" || req.Path != "/v2/translate" {
				t.Errorf("expected POST /v2/translate, got %s %s", req.Method, req.Path)
			}
			if req.ContentType != "application/json" {
				t.Errorf("expected JSON body, got %q", req.ContentType)
			}

			var body map[string]any
			if err := json.Unmarshal(req.Body, &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if _, ok := body["text"]; !ok {
				t.Error("expected text in body")
			}
			for _, key := range tt.present {
				if _, ok := body[key]; !ok {
					t.Errorf("expected %q in body %s", key, req.Body)
				}
			}
			for _, key := range tt.absent {
				if _, ok := body[key]; ok {
					t.Errorf("expected %q to be omitted from body %s", key, req.Body)
				}
			}
		})
	}
}

func TestNewTranslateRequest_VerbatimValues(t *testing.T) {
	req, err := newTranslateRequest(&TranslateOptions{
		Text:    []string{"one", "two"},
		ModelID: "en-es-conversational",
		Source:  "en",
		Target:  "es",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"text":["one","two"],"model_id":"en-es-conversational","source":"en","target":"es"}`
	if string(req.Body) != want {
		t.Errorf("expected %s, got %s", want, req.Body)
	}
}

func TestNewTranslateRequest_Invalid(t *testing.T) {
	if _, err := newTranslateRequest(nil); !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument for nil options, got %v", err)
	}
	if _, err := newTranslateRequest(&TranslateOptions{Source: "en", Target: "es"}); !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument for empty text, got %v", err)
	}
}

func TestNewIdentifyRequest(t *testing.T) {
	req, err := newIdentifyRequest(&IdentifyOptions{Text: "Bonjour"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != "POST" || req.Path != "/v2/identify" {
		t.Errorf("expected POST /v2/identify, got %s %s", req.Method, req.Path)
	}
	if req.ContentType != "text/plain" {
		t.Errorf("expected text/plain, got %q", req.ContentType)
	}
	if string(req.Body) != "Bonjour" {
		t.Errorf("expected raw body, got %q", req.Body)
	}

	if _, err := newIdentifyRequest(nil); !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument for nil options, got %v", err)
	}
}

func TestNewListIdentifiableLanguagesRequest(t *testing.T) {
	req, err := newListIdentifiableLanguagesRequest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != "GET" || req.Path != "/v2/identifiable_languages" {
		t.Errorf("expected GET /v2/identifiable_languages, got %s %s", req.Method, req.Path)
	}
	if req.Body != nil {
		t.Errorf("expected no body, got %q", req.Body)
	}
}

func TestNewCreateModelRequest_NoFiles(t *testing.T) {
	_, err := newCreateModelRequest(&CreateModelOptions{BaseModelID: "en-es"})
	if !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestNewCreateModelRequest_MissingBaseModel(t *testing.T) {
	_, err := newCreateModelRequest(&CreateModelOptions{
		ForcedGlossary: strings.NewReader("<tmx/>"),
	})
	if !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}

	if _, err := newCreateModelRequest(nil); !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument for nil options, got %v", err)
	}
}

func TestNewCreateModelRequest_SingleFile(t *testing.T) {
	tests := []struct {
		name        string
		opts        CreateModelOptions
		part        string
		filename    string
		contentType string
	}{
		{
			name: "forced glossary",
			opts: CreateModelOptions{
				ForcedGlossary:         strings.NewReader("glossary"),
				ForcedGlossaryFilename: "glossary.tmx",
			},
			part:        "forced_glossary",
			filename:    "glossary.tmx",
			contentType: "application/octet-stream",
		},
		{
			name: "parallel corpus",
			opts: CreateModelOptions{
				ParallelCorpus:         strings.NewReader("corpus"),
				ParallelCorpusFilename: "corpus.tmx",
			},
			part:        "parallel_corpus",
			filename:    "corpus.tmx",
			contentType: "application/octet-stream",
		},
		{
			name: "monolingual corpus",
			opts: CreateModelOptions{
				MonolingualCorpus:         strings.NewReader("some text"),
				MonolingualCorpusFilename: "mono.txt",
			},
			part:        "monolingual_corpus",
			filename:    "mono.txt",
			contentType: "text/plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.BaseModelID = "en-es"
			req, err := newCreateModelRequest(&tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			parts := readParts(t, req)
			if len(parts) != 1 {
				t.Fatalf("expected 1 part, got %d", len(parts))
			}
			p := parts[0]
			if p.name != tt.part {
				t.Errorf("expected part %q, got %q", tt.part, p.name)
			}
			if p.filename != tt.filename {
				t.Errorf("expected filename %q, got %q", tt.filename, p.filename)
			}
			if p.contentType != tt.contentType {
				t.Errorf("expected content type %q, got %q", tt.contentType, p.contentType)
			}
		})
	}
}

func TestNewCreateModelRequest_AllFiles(t *testing.T) {
	req, err := newCreateModelRequest(&CreateModelOptions{
		BaseModelID:               "en-fr",
		Name:                      "custom-en-fr",
		ForcedGlossary:            strings.NewReader("g"),
		ForcedGlossaryFilename:    "g.tmx",
		ParallelCorpus:            strings.NewReader("p"),
		ParallelCorpusFilename:    "p.tmx",
		MonolingualCorpus:         strings.NewReader("m"),
		MonolingualCorpusFilename: "m.txt",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Method != "POST" || req.Path != "/v2/models" {
		t.Errorf("expected POST /v2/models, got %s %s", req.Method, req.Path)
	}
	if got := req.Query.Get("base_model_id"); got != "en-fr" {
		t.Errorf("expected base_model_id=en-fr, got %q", got)
	}
	if got := req.Query.Get("name"); got != "custom-en-fr" {
		t.Errorf("expected name=custom-en-fr, got %q", got)
	}

	parts := readParts(t, req)
	want := []formPart{
		{name: "forced_glossary", filename: "g.tmx", contentType: "application/octet-stream", content: "g"},
		{name: "parallel_corpus", filename: "p.tmx", contentType: "application/octet-stream", content: "p"},
		{name: "monolingual_corpus", filename: "m.txt", contentType: "text/plain", content: "m"},
	}
	if len(parts) != len(want) {
		t.Fatalf("expected %d parts, got %d", len(want), len(parts))
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("part %d: expected %+v, got %+v", i, want[i], parts[i])
		}
	}
}

func TestNewCreateModelRequest_NameOmitted(t *testing.T) {
	req, err := newCreateModelRequest(&CreateModelOptions{
		BaseModelID:    "en-es",
		ForcedGlossary: strings.NewReader("g"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := req.Query["name"]; ok {
		t.Error("expected name to be omitted")
	}
	if len(req.Query) != 1 {
		t.Errorf("expected only base_model_id, got %v", req.Query)
	}
}

func TestModelFileParts_DefaultFilename(t *testing.T) {
	parts := modelFileParts(&CreateModelOptions{ParallelCorpus: strings.NewReader("p")})
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0].Filename != "parallel_corpus" {
		t.Errorf("expected fallback filename, got %q", parts[0].Filename)
	}
}

func TestNewModelRequests_PathEscaping(t *testing.T) {
	id := "en-es/custom model?v=1"
	want := "/v2/models/en-es%2Fcustom%20model%3Fv=1"

	get, err := newGetModelRequest(&GetModelOptions{ModelID: id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if get.Method != "GET" || get.Path != want {
		t.Errorf("expected GET %s, got %s %s", want, get.Method, get.Path)
	}

	del, err := newDeleteModelRequest(&DeleteModelOptions{ModelID: id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if del.Method != "DELETE" || del.Path != want {
		t.Errorf("expected DELETE %s, got %s %s", want, del.Method, del.Path)
	}
}

func TestNewModelRequests_Invalid(t *testing.T) {
	if _, err := newGetModelRequest(nil); !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if _, err := newGetModelRequest(&GetModelOptions{}); !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if _, err := newDeleteModelRequest(nil); !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if _, err := newDeleteModelRequest(&DeleteModelOptions{}); !service.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestNewModelRequests_DotSegments(t *testing.T) {
	for _, id := range []string{".", ".."} {
		if _, err := newGetModelRequest(&GetModelOptions{ModelID: id}); !service.IsInvalidArgument(err) {
			t.Errorf("get %q: expected invalid argument, got %v", id, err)
		}
		if _, err := newDeleteModelRequest(&DeleteModelOptions{ModelID: id}); !service.IsInvalidArgument(err) {
			t.Errorf("delete %q: expected invalid argument, got %v", id, err)
		}
	}

	// Dots inside an id are ordinary characters.
	req, err := newGetModelRequest(&GetModelOptions{ModelID: "..model.v2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Path != "/v2/models/..model.v2" {
		t.Errorf("unexpected path %q", req.Path)
	}
}

func TestNewListModelsRequest_Filters(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name string
		opts *ListModelsOptions
		want map[string]string
	}{
		{name: "nil options", opts: nil, want: map[string]string{}},
		{name: "empty options", opts: &ListModelsOptions{}, want: map[string]string{}},
		{name: "target only", opts: &ListModelsOptions{Target: "es"}, want: map[string]string{"target": "es"}},
		{name: "source and target", opts: &ListModelsOptions{Source: "en", Target: "es"}, want: map[string]string{"source": "en", "target": "es"}},
		{name: "default true", opts: &ListModelsOptions{Default: &yes}, want: map[string]string{"default": "true"}},
		{name: "default false", opts: &ListModelsOptions{Default: &no}, want: map[string]string{"default": "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := newListModelsRequest(tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Path != "/v2/models" {
				t.Errorf("expected /v2/models, got %s", req.Path)
			}
			if len(req.Query) != len(tt.want) {
				t.Errorf("expected %d query params, got %v", len(tt.want), req.Query)
			}
			for k, v := range tt.want {
				if got := req.Query.Get(k); got != v {
					t.Errorf("expected %s=%s, got %q", k, v, got)
				}
			}
		})
	}
}
