// file: internals/features/exams/transactions/specification/specification.go
package specification

import (
	"strings"

	m "examku_backend/internals/features/exams/transactions/model"
)

/* =======================================================
   Kind : atribut transaksi yang bisa difilter
   ======================================================= */

type Kind string

const (
	KindDate    Kind = "date"
	KindRoom    Kind = "room"
	KindSubject Kind = "subject_code"
	KindShift   Kind = "shift_code"
	KindProctor Kind = "proctor"
)

// attributes maps each kind to the transaction attribute it compares.
// Adding a filterable attribute = one Kind above, one entry here and one
// constructor.
var attributes = map[Kind]func(*m.ExamTransactionModel) string{
	KindDate:    func(t *m.ExamTransactionModel) string { return t.DateString() },
	KindRoom:    func(t *m.ExamTransactionModel) string { return t.RoomNumber },
	KindSubject: func(t *m.ExamTransactionModel) string { return t.SubjectCode },
	KindShift:   func(t *m.ExamTransactionModel) string { return t.ShiftCode },
	KindProctor: func(t *m.ExamTransactionModel) string { return t.ProctorNIM() },
}

// Kinds lists the supported criteria names in a stable order.
func Kinds() []Kind {
	return []Kind{KindDate, KindRoom, KindSubject, KindShift, KindProctor}
}

/* =======================================================
   Specification & Composite
   ======================================================= */

// Specification is an equality predicate on one transaction attribute.
type Specification struct {
	Kind  Kind
	Value string
}

func DateEquals(date string) Specification    { return Specification{Kind: KindDate, Value: date} }
func RoomEquals(room string) Specification    { return Specification{Kind: KindRoom, Value: room} }
func SubjectEquals(code string) Specification { return Specification{Kind: KindSubject, Value: code} }
func ShiftEquals(code string) Specification   { return Specification{Kind: KindShift, Value: code} }
func ProctorEquals(nim string) Specification  { return Specification{Kind: KindProctor, Value: nim} }

// constructors builds the specification for a criterion name.
var constructors = map[Kind]func(string) Specification{
	KindDate:    DateEquals,
	KindRoom:    RoomEquals,
	KindSubject: SubjectEquals,
	KindShift:   ShiftEquals,
	KindProctor: ProctorEquals,
}

// IsSatisfiedBy compares the attribute exactly. Unknown kinds never match.
func (s Specification) IsSatisfiedBy(t *m.ExamTransactionModel) bool {
	attr, ok := attributes[s.Kind]
	if !ok {
		return false
	}
	return attr(t) == s.Value
}

// Composite is satisfied when every child is (empty = matches all).
type Composite []Specification

func (c Composite) IsSatisfiedBy(t *m.ExamTransactionModel) bool {
	for _, s := range c {
		if !s.IsSatisfiedBy(t) {
			return false
		}
	}
	return true
}

/* =======================================================
   Criteria → Composite
   ======================================================= */

// Criteria holds named filter values; a missing or blank value means the
// criterion is not applied (it does NOT mean "match empty").
type Criteria map[Kind]string

// FromMap converts raw name/value pairs (query params, JSON) into Criteria.
func FromMap(raw map[string]string) Criteria {
	out := make(Criteria, len(raw))
	for k, v := range raw {
		out[Kind(strings.TrimSpace(k))] = v
	}
	return out
}

// Build turns the present criteria into a composite, in Kinds() order.
// Unknown names and blank values are ignored.
func (c Criteria) Build() Composite {
	out := make(Composite, 0, len(c))
	for _, k := range Kinds() {
		v := strings.TrimSpace(c[k])
		if v == "" {
			continue
		}
		out = append(out, constructors[k](v))
	}
	return out
}

// IsEmpty reports whether no criterion would be applied.
func (c Criteria) IsEmpty() bool {
	return len(c.Build()) == 0
}

// Filter returns the transactions that satisfy all present criteria,
// keeping their original relative order. The input is not modified.
func Filter(items []m.ExamTransactionModel, criteria Criteria) []m.ExamTransactionModel {
	return FilterBy(items, criteria.Build())
}

// FilterBy is Filter with an already built composite.
func FilterBy(items []m.ExamTransactionModel, spec Composite) []m.ExamTransactionModel {
	out := make([]m.ExamTransactionModel, 0, len(items))
	for i := range items {
		if spec.IsSatisfiedBy(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
