// file: internals/features/exams/catalogs/directory/directory.go
package directory

import (
	"strings"

	catalogModel "examku_backend/internals/features/exams/catalogs/model"
)

/* =======================================================
   Kind : kriteria pencarian user
   ======================================================= */

type Kind string

const (
	KindKeyword    Kind = "q"
	KindRole       Kind = "role"
	KindGeneration Kind = "initial"
)

// matchers maps each kind to its predicate; value is already trimmed.
var matchers = map[Kind]func(u *catalogModel.UserModel, value string) bool{
	KindKeyword: func(u *catalogModel.UserModel, v string) bool {
		kw := strings.ToLower(v)
		return strings.Contains(strings.ToLower(u.Name), kw) ||
			strings.Contains(strings.ToLower(initialOf(u)), kw) ||
			strings.Contains(strings.ToLower(u.NIM), kw)
	},
	KindRole: func(u *catalogModel.UserModel, v string) bool {
		return u.Role == v
	},
	KindGeneration: func(u *catalogModel.UserModel, v string) bool {
		return u.Initial != nil && Generation(*u.Initial) == v
	},
}

func Kinds() []Kind {
	return []Kind{KindKeyword, KindRole, KindGeneration}
}

// Generation is the intake suffix of an initial ("AW24-1" -> "24-1").
func Generation(initial string) string {
	r := []rune(strings.TrimSpace(initial))
	if len(r) <= 4 {
		return string(r)
	}
	return string(r[len(r)-4:])
}

func initialOf(u *catalogModel.UserModel) string {
	if u.Initial == nil {
		return ""
	}
	return *u.Initial
}

/* =======================================================
   Criteria
   ======================================================= */

type Predicate struct {
	Kind  Kind
	Value string
}

func (p Predicate) IsSatisfiedBy(u *catalogModel.UserModel) bool {
	match, ok := matchers[p.Kind]
	return ok && match(u, p.Value)
}

// Criteria: value kosong = kriteria tidak dipakai.
type Criteria map[Kind]string

func FromMap(raw map[string]string) Criteria {
	out := make(Criteria, len(raw))
	for k, v := range raw {
		out[Kind(strings.TrimSpace(k))] = v
	}
	return out
}

func (c Criteria) Build() []Predicate {
	out := make([]Predicate, 0, len(c))
	for _, k := range Kinds() {
		if v := strings.TrimSpace(c[k]); v != "" {
			out = append(out, Predicate{Kind: k, Value: v})
		}
	}
	return out
}

// Role returns the trimmed role criterion, "" when absent.
func (c Criteria) Role() string {
	return strings.TrimSpace(c[KindRole])
}

// Filter keeps the users matching every present criterion, in input order.
func Filter(users []catalogModel.UserModel, c Criteria) []catalogModel.UserModel {
	preds := c.Build()
	out := make([]catalogModel.UserModel, 0, len(users))
	for i := range users {
		ok := true
		for _, p := range preds {
			if !p.IsSatisfiedBy(&users[i]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, users[i])
		}
	}
	return out
}
