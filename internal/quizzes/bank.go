package quizzes

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"careerlytics-backend/internal/roles"
	"careerlytics-backend/internal/shared/telemetry"
)

//go:embed bank
var embeddedBank embed.FS

//go:embed schema.json
var questionSchema []byte

// Category is a question bank section.
type Category string

const (
	CategoryGeneral          Category = "general"
	CategoryTechFundamentals Category = "tech_fundamentals"
)

// RoleCategory is the bank section holding questions for role.
func RoleCategory(role roles.Role) Category {
	return Category(role)
}

// Difficulty of a question, or Mixed when generating across all of them.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// ParseDifficulty accepts easy, medium, hard or mixed. Empty means mixed.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(raw))); d {
	case "":
		return DifficultyMixed, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, raw)
}

// Question is one multiple-choice item as stored in the bank and snapshotted
// onto a quiz when it starts.
type Question struct {
	ID            string     `json:"id"`
	Category      Category   `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionText  string     `json:"question_text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Number        int        `json:"number,omitempty"`
}

// Bank loads categories from <category>/questions.json on an fs.FS.
type Bank struct {
	fsys   fs.FS
	schema *gojsonschema.Schema

	mu    sync.RWMutex
	cache map[Category][]Question
}

// NewBank reads questions from fsys.
func NewBank(fsys fs.FS) (*Bank, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(questionSchema))
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}
	return &Bank{fsys: fsys, schema: schema, cache: make(map[Category][]Question)}, nil
}

// DefaultBank serves the question bank compiled into the binary.
func DefaultBank() *Bank {
	sub, err := fs.Sub(embeddedBank, "bank")
	if err != nil {
		panic(err)
	}
	b, err := NewBank(sub)
	if err != nil {
		panic(err)
	}
	return b
}

// OpenBank uses dir on disk when set, otherwise the embedded bank.
func OpenBank(dir string) (*Bank, error) {
	if strings.TrimSpace(dir) == "" {
		return DefaultBank(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("question bank dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("question bank dir %s is not a directory", dir)
	}
	return NewBank(os.DirFS(dir))
}

// Questions returns a copy of the category. Missing or invalid files yield
// an empty category; invalid ones are logged.
func (b *Bank) Questions(cat Category) []Question {
	b.mu.RLock()
	cached, ok := b.cache[cat]
	b.mu.RUnlock()
	if !ok {
		loaded, err := b.load(cat)
		if err != nil {
			telemetry.Error("quiz.bank_invalid", map[string]any{"category": string(cat), "error": err})
			loaded = []Question{}
		}
		b.mu.Lock()
		if existing, ok := b.cache[cat]; ok {
			loaded = existing
		} else {
			b.cache[cat] = loaded
		}
		b.mu.Unlock()
		cached = loaded
	}
	return slices.Clone(cached)
}

func (b *Bank) load(cat Category) ([]Question, error) {
	raw, err := fs.ReadFile(b.fsys, path.Join(string(cat), "questions.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return []Question{}, nil
	}
	if err != nil {
		return nil, err
	}

	result, err := b.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", cat, err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("schema violations in %s: %s", cat, strings.Join(issues, "; "))
	}

	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode %s: %w", cat, err)
	}
	for _, q := range questions {
		if !slices.Contains(q.Options, q.CorrectAnswer) {
			return nil, fmt.Errorf("question %s: correct answer is not one of its options", q.ID)
		}
	}
	return questions, nil
}

// CategoryStats counts the questions available in one category.
type CategoryStats struct {
	Total        int                `json:"total"`
	ByDifficulty map[Difficulty]int `json:"byDifficulty"`
}

// Stats describes what a quiz for a role can draw from.
type Stats struct {
	Role       roles.Role                 `json:"role"`
	Categories map[Category]CategoryStats `json:"categories"`
	Total      int                        `json:"total"`
}

// Stats reports available question counts for role's quiz.
func (b *Bank) Stats(role roles.Role) (Stats, error) {
	if !role.IsQuizTarget() {
		return Stats{}, fmt.Errorf("%w: %q is not a quiz role", roles.ErrUnknownRole, role)
	}
	out := Stats{Role: role, Categories: make(map[Category]CategoryStats, 3)}
	for _, cat := range []Category{CategoryGeneral, CategoryTechFundamentals, RoleCategory(role)} {
		qs := b.Questions(cat)
		cs := CategoryStats{Total: len(qs), ByDifficulty: map[Difficulty]int{
			DifficultyEasy:   0,
			DifficultyMedium: 0,
			DifficultyHard:   0,
		}}
		for _, q := range qs {
			cs.ByDifficulty[q.Difficulty]++
		}
		out.Categories[cat] = cs
		out.Total += cs.Total
	}
	return out, nil
}
