// Package translator is the client for the Language Translator v2 API:
// translation, language identification and custom model management.
//
// Each operation builds a service.Request from its options and hands it to
// the injected Doer. Missing required options fail with an error wrapping
// service.ErrInvalidArgument before anything is sent; transport, HTTP status
// and decoding failures come back from the Doer unchanged.
package translator

import (
	"context"
	"strconv"

	"github.com/valpere/langtranslator/internal/service"
)

const (
	ServiceName = "language_translator"
	DefaultURL  = "https://gateway.watsonplatform.net/language-translator/api"
)

// Doer executes a request and decodes the response into out.
type Doer interface {
	Do(ctx context.Context, req *service.Request, out any) error
}

type LanguageTranslator struct {
	svc Doer
}

func New(svc Doer) *LanguageTranslator {
	return &LanguageTranslator{svc: svc}
}

// NewWithCredentials builds a client using basic auth. An empty endpoint
// selects DefaultURL.
func NewWithCredentials(endpoint, username, password string, opts ...service.Option) (*LanguageTranslator, error) {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	svc, err := service.NewClient(endpoint, service.BasicAuth{Username: username, Password: password}, opts...)
	if err != nil {
		return nil, err
	}
	return New(svc), nil
}

// Translate translates opts.Text from the source to the target language, or
// with the model named by opts.ModelID.
func (t *LanguageTranslator) Translate(ctx context.Context, opts *TranslateOptions) (*TranslationResult, error) {
	req, err := newTranslateRequest(opts)
	if err != nil {
		return nil, err
	}
	var out TranslationResult
	if err := t.svc.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TranslateText is a shortcut for a single string.
func (t *LanguageTranslator) TranslateText(ctx context.Context, text, source, target string) (string, error) {
	res, err := t.Translate(ctx, &TranslateOptions{Text: []string{text}, Source: source, Target: target})
	if err != nil {
		return "", err
	}
	if len(res.Translations) == 0 {
		return "", nil
	}
	return res.Translations[0].Translation, nil
}

// Identify returns the candidate languages of opts.Text.
func (t *LanguageTranslator) Identify(ctx context.Context, opts *IdentifyOptions) (*IdentifiedLanguages, error) {
	req, err := newIdentifyRequest(opts)
	if err != nil {
		return nil, err
	}
	var out IdentifiedLanguages
	if err := t.svc.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListIdentifiableLanguages lists the languages Identify can recognise.
func (t *LanguageTranslator) ListIdentifiableLanguages(ctx context.Context) (*IdentifiableLanguages, error) {
	req, err := newListIdentifiableLanguagesRequest()
	if err != nil {
		return nil, err
	}
	var out IdentifiableLanguages
	if err := t.svc.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateModel uploads glossary or corpus files on top of a base model. The
// service trains asynchronously; poll GetModel until Status is available.
func (t *LanguageTranslator) CreateModel(ctx context.Context, opts *CreateModelOptions) (*TranslationModel, error) {
	req, err := newCreateModelRequest(opts)
	if err != nil {
		return nil, err
	}
	var out TranslationModel
	if err := t.svc.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *LanguageTranslator) DeleteModel(ctx context.Context, opts *DeleteModelOptions) error {
	req, err := newDeleteModelRequest(opts)
	if err != nil {
		return err
	}
	return t.svc.Do(ctx, req, nil)
}

func (t *LanguageTranslator) GetModel(ctx context.Context, opts *GetModelOptions) (*TranslationModel, error) {
	req, err := newGetModelRequest(opts)
	if err != nil {
		return nil, err
	}
	var out TranslationModel
	if err := t.svc.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListModels lists models matching opts. nil opts lists everything.
func (t *LanguageTranslator) ListModels(ctx context.Context, opts *ListModelsOptions) (*TranslationModels, error) {
	req, err := newListModelsRequest(opts)
	if err != nil {
		return nil, err
	}
	var out TranslationModels
	if err := t.svc.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *LanguageTranslator) ListAllModels(ctx context.Context) (*TranslationModels, error) {
	return t.ListModels(ctx, nil)
}

func newTranslateRequest(opts *TranslateOptions) (*service.Request, error) {
	if opts == nil {
		return nil, service.InvalidArgument("translate options cannot be nil")
	}
	if len(opts.Text) == 0 {
		return nil, service.InvalidArgument("text cannot be empty")
	}
	return service.Post("/v2/translate").
		Operation("translate").
		BodyJSON(opts).
		Build()
}

func newIdentifyRequest(opts *IdentifyOptions) (*service.Request, error) {
	if opts == nil {
		return nil, service.InvalidArgument("identify options cannot be nil")
	}
	if opts.Text == "" {
		return nil, service.InvalidArgument("text cannot be empty")
	}
	return service.Post("/v2/identify").
		Operation("identify").
		BodyContent(opts.Text, service.ContentTypeText).
		Build()
}

func newListIdentifiableLanguagesRequest() (*service.Request, error) {
	return service.Get("/v2/identifiable_languages").
		Operation("list_identifiable_languages").
		Build()
}

func newCreateModelRequest(opts *CreateModelOptions) (*service.Request, error) {
	if opts == nil {
		return nil, service.InvalidArgument("create model options cannot be nil")
	}
	if opts.BaseModelID == "" {
		return nil, service.InvalidArgument("base model id cannot be empty")
	}
	parts := modelFileParts(opts)
	if len(parts) == 0 {
		return nil, service.InvalidArgument("at least one of forced glossary, parallel corpus, or monolingual corpus must be supplied")
	}

	b := service.Post("/v2/models").
		Operation("create_model").
		Query("base_model_id", opts.BaseModelID)
	if opts.Name != "" {
		b.Query("name", opts.Name)
	}
	return b.Multipart(parts).Build()
}

// modelFileParts returns one form part per file present in opts, in the
// order forced_glossary, parallel_corpus, monolingual_corpus.
func modelFileParts(opts *CreateModelOptions) []service.FilePart {
	var parts []service.FilePart
	if opts.ForcedGlossary != nil {
		parts = append(parts, service.FilePart{
			Name:        "forced_glossary",
			Filename:    filenameOr(opts.ForcedGlossaryFilename, "forced_glossary"),
			ContentType: service.ContentTypeOctetStream,
			Content:     opts.ForcedGlossary,
		})
	}
	if opts.ParallelCorpus != nil {
		parts = append(parts, service.FilePart{
			Name:        "parallel_corpus",
			Filename:    filenameOr(opts.ParallelCorpusFilename, "parallel_corpus"),
			ContentType: service.ContentTypeOctetStream,
			Content:     opts.ParallelCorpus,
		})
	}
	if opts.MonolingualCorpus != nil {
		parts = append(parts, service.FilePart{
			Name:        "monolingual_corpus",
			Filename:    filenameOr(opts.MonolingualCorpusFilename, "monolingual_corpus"),
			ContentType: service.ContentTypeText,
			Content:     opts.MonolingualCorpus,
		})
	}
	return parts
}

func filenameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func newDeleteModelRequest(opts *DeleteModelOptions) (*service.Request, error) {
	if opts == nil {
		return nil, service.InvalidArgument("delete model options cannot be nil")
	}
	if err := checkModelID(opts.ModelID); err != nil {
		return nil, err
	}
	return service.Delete(service.Pathf("/v2/models/%s", opts.ModelID)).
		Operation("delete_model").
		Build()
}

func newGetModelRequest(opts *GetModelOptions) (*service.Request, error) {
	if opts == nil {
		return nil, service.InvalidArgument("get model options cannot be nil")
	}
	if err := checkModelID(opts.ModelID); err != nil {
		return nil, err
	}
	return service.Get(service.Pathf("/v2/models/%s", opts.ModelID)).
		Operation("get_model").
		Build()
}

// checkModelID rejects ids that cannot name a single path segment: "." and
// ".." survive escaping and are collapsed by servers and proxies.
func checkModelID(id string) error {
	switch id {
	case "":
		return service.InvalidArgument("model id cannot be empty")
	case ".", "..":
		return service.InvalidArgument("model id %q is not a valid path segment", id)
	}
	return nil
}

func newListModelsRequest(opts *ListModelsOptions) (*service.Request, error) {
	b := service.Get("/v2/models").Operation("list_models")
	if opts != nil {
		if opts.Source != "" {
			b.Query("source", opts.Source)
		}
		if opts.Target != "" {
			b.Query("target", opts.Target)
		}
		if opts.Default != nil {
			b.Query("default", strconv.FormatBool(*opts.Default))
		}
	}
	return b.Build()
}
