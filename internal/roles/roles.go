// Package roles holds the static role catalogue shared by resume scoring,
// quiz generation and eligibility recommendations.
package roles

import (
	"errors"
	"fmt"
	"strings"
)

// Role is a career track a student can target or be recommended.
type Role string

const (
	Frontend    Role = "frontend"
	Backend     Role = "backend"
	Fullstack   Role = "fullstack"
	DevOps      Role = "devops"
	DataScience Role = "datascience"
)

var ErrUnknownRole = errors.New("unknown role")

// All lists every role in catalogue order.
func All() []Role {
	return []Role{Frontend, Backend, Fullstack, DevOps, DataScience}
}

// QuizTargets lists roles a student may pick for a quiz. Fullstack is only
// ever recommended.
func QuizTargets() []Role {
	return []Role{Frontend, Backend, DevOps, DataScience}
}

// Parse normalises user input into a Role.
func Parse(raw string) (Role, error) {
	clean := strings.ToLower(strings.TrimSpace(raw))
	clean = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(clean)
	switch clean {
	case "frontend":
		return Frontend, nil
	case "backend":
		return Backend, nil
	case "fullstack":
		return Fullstack, nil
	case "devops":
		return DevOps, nil
	case "datascience":
		return DataScience, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
}

// IsQuizTarget reports whether r can be chosen as a quiz target.
func (r Role) IsQuizTarget() bool {
	for _, t := range QuizTargets() {
		if t == r {
			return true
		}
	}
	return false
}

// DisplayName is the human label for the role.
func (r Role) DisplayName() string {
	switch r {
	case Frontend:
		return "Frontend Developer"
	case Backend:
		return "Backend Developer"
	case Fullstack:
		return "Full Stack Developer"
	case DevOps:
		return "DevOps Engineer"
	case DataScience:
		return "Data Scientist"
	}
	return string(r)
}
