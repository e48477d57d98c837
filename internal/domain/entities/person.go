package entities

// Person is one entry in an event's participant list.
type Person struct {
	ID         string
	Name       string
	University string
	Grade      string
	Part       string
	// DeviceID records which client added this entry. It is the only
	// credential for leaving: self-service removal requires a matching id.
	DeviceID string
}

// SameProfile reports whether two entries describe the same submitted
// person: exact match on name, university, grade and part.
func (p Person) SameProfile(o Person) bool {
	return p.Name == o.Name &&
		p.University == o.University &&
		p.Grade == o.Grade &&
		p.Part == o.Part
}

// Universities is the fixed two-element affiliation set.
var Universities = []string{"京大", "慶應"}

// Grades enumerates the accepted year values.
var Grades = []string{"1", "2", "3", "4", "5+"}

// Parts is the suggested instrument-part list. The engine accepts any
// non-empty value; front ends should offer these.
var Parts = []string{"Vn", "Va", "Vc", "Ob", "Cl", "Fl", "Fg", "Tp", "Trb", "Hr", "その他"}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ValidUniversity reports membership in Universities.
func ValidUniversity(v string) bool { return contains(Universities, v) }

// ValidGrade reports membership in Grades.
func ValidGrade(v string) bool { return contains(Grades, v) }

// ValidPart reports membership in Parts.
func ValidPart(v string) bool { return contains(Parts, v) }
