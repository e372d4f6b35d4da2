package quizzes

import (
	"math/rand"
	"sync"
	"time"

	"careerlytics-backend/internal/roles"
)

// Question counts per section and the time allowed for one quiz.
const (
	GeneralQuestions          = 9
	TechFundamentalsQuestions = 9
	RoleQuestions             = 12
	TimeLimitSeconds          = 1800
)

// GeneratedQuiz is the question set drawn for one attempt.
type GeneratedQuiz struct {
	Questions        []Question       `json:"questions"`
	Distribution     map[Category]int `json:"distribution"`
	Difficulty       Difficulty       `json:"difficulty"`
	TimeLimitSeconds int              `json:"timeLimitSeconds"`
}

// Generator draws quizzes from a Bank.
type Generator struct {
	Bank *Bank

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator builds a generator; a nil rnd is seeded from the clock.
func NewGenerator(bank *Bank, rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{Bank: bank, rnd: rnd}
}

// Generate draws general, fundamentals and role questions, shuffles them and
// numbers them from 1. Sections with too few questions contribute all they have.
func (g *Generator) Generate(role roles.Role, difficulty Difficulty) (GeneratedQuiz, error) {
	if !role.IsQuizTarget() {
		return GeneratedQuiz{}, roles.ErrUnknownRole
	}
	if difficulty == "" {
		difficulty = DifficultyMixed
	}

	sections := []struct {
		cat Category
		n   int
	}{
		{CategoryGeneral, GeneralQuestions},
		{CategoryTechFundamentals, TechFundamentalsQuestions},
		{RoleCategory(role), RoleQuestions},
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	out := GeneratedQuiz{
		Distribution:     make(map[Category]int, len(sections)),
		Difficulty:       difficulty,
		TimeLimitSeconds: TimeLimitSeconds,
	}
	for _, sec := range sections {
		picked := g.sample(filterDifficulty(g.Bank.Questions(sec.cat), difficulty), sec.n)
		out.Distribution[sec.cat] = len(picked)
		out.Questions = append(out.Questions, picked...)
	}
	g.rnd.Shuffle(len(out.Questions), func(i, j int) {
		out.Questions[i], out.Questions[j] = out.Questions[j], out.Questions[i]
	})
	for i := range out.Questions {
		out.Questions[i].Number = i + 1
	}
	if out.Questions == nil {
		out.Questions = []Question{}
	}
	return out, nil
}

func (g *Generator) sample(pool []Question, n int) []Question {
	if len(pool) <= n {
		return pool
	}
	out := make([]Question, 0, n)
	for _, idx := range g.rnd.Perm(len(pool))[:n] {
		out = append(out, pool[idx])
	}
	return out
}

func filterDifficulty(qs []Question, difficulty Difficulty) []Question {
	if difficulty == DifficultyMixed {
		return qs
	}
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out
}
