package translator

import "io"

// TranslateOptions is the input to Translate. Empty optional fields are
// left out of the request body.
type TranslateOptions struct {
	Text    []string `json:"text"`
	ModelID string   `json:"model_id,omitempty"`
	Source  string   `json:"source,omitempty"`
	Target  string   `json:"target,omitempty"`
}

// IdentifyOptions is the input to Identify.
type IdentifyOptions struct {
	Text string
}

// CreateModelOptions is the input to CreateModel. At least one of the three
// files must be set.
type CreateModelOptions struct {
	BaseModelID string
	Name        string

	// ForcedGlossary is a TMX file with terms the model must use.
	ForcedGlossary         io.Reader
	ForcedGlossaryFilename string

	// ParallelCorpus is a TMX file with aligned source/target sentences.
	ParallelCorpus         io.Reader
	ParallelCorpusFilename string

	// MonolingualCorpus is plain UTF-8 text in the target language.
	MonolingualCorpus         io.Reader
	MonolingualCorpusFilename string
}

type DeleteModelOptions struct {
	ModelID string
}

type GetModelOptions struct {
	ModelID string
}

// ListModelsOptions filters ListModels. Default nil leaves the filter out;
// false and true are sent as "false" and "true".
type ListModelsOptions struct {
	Source  string
	Target  string
	Default *bool
}

type Translation struct {
	Translation string `json:"translation" yaml:"translation"`
}

type TranslationResult struct {
	WordCount      int           `json:"word_count" yaml:"word_count"`
	CharacterCount int           `json:"character_count" yaml:"character_count"`
	Translations   []Translation `json:"translations" yaml:"translations"`
}

// Texts returns the translated strings in request order.
func (r *TranslationResult) Texts() []string {
	out := make([]string, len(r.Translations))
	for i, t := range r.Translations {
		out[i] = t.Translation
	}
	return out
}

type IdentifiedLanguage struct {
	Language   string  `json:"language" yaml:"language"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

type IdentifiedLanguages struct {
	Languages []IdentifiedLanguage `json:"languages" yaml:"languages"`
}

// Best returns the candidate with the highest confidence.
func (l *IdentifiedLanguages) Best() (IdentifiedLanguage, bool) {
	if l == nil || len(l.Languages) == 0 {
		return IdentifiedLanguage{}, false
	}
	best := l.Languages[0]
	for _, c := range l.Languages[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best, true
}

type IdentifiableLanguage struct {
	Language string `json:"language" yaml:"language"`
	Name     string `json:"name" yaml:"name"`
}

type IdentifiableLanguages struct {
	Languages []IdentifiableLanguage `json:"languages" yaml:"languages"`
}

// Model training states reported in TranslationModel.Status.
const (
	StatusUploading   = "uploading"
	StatusUploaded    = "uploaded"
	StatusDispatching = "dispatching"
	StatusQueued      = "queued"
	StatusTraining    = "training"
	StatusTrained     = "trained"
	StatusPublishing  = "publishing"
	StatusAvailable   = "available"
	StatusDeleted     = "deleted"
	StatusError       = "error"
)

type TranslationModel struct {
	ModelID      string `json:"model_id" yaml:"model_id"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Source       string `json:"source,omitempty" yaml:"source,omitempty"`
	Target       string `json:"target,omitempty" yaml:"target,omitempty"`
	BaseModelID  string `json:"base_model_id,omitempty" yaml:"base_model_id,omitempty"`
	Domain       string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Customizable bool   `json:"customizable" yaml:"customizable"`
	DefaultModel bool   `json:"default_model" yaml:"default_model"`
	Owner        string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Ready reports whether the model can serve translations.
func (m *TranslationModel) Ready() bool {
	return m.Status == StatusAvailable
}

type TranslationModels struct {
	Models []TranslationModel `json:"models" yaml:"models"`
}
