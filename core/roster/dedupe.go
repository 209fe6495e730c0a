package roster

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// nameMaxSim is the QuickRatio above which two names are considered the same
// person spelled slightly differently.
const nameMaxSim = .92

type DuplicateGroup struct {
	Kind     string    `json:"kind"` // email | phone | name
	Key      string    `json:"key"`
	Students []Student `json:"students"`
}

// FindDuplicates flags likely duplicate records: students sharing a
// normalized email or phone, plus near-identical names.
func FindDuplicates(students []Student) []DuplicateGroup {
	groups := make([]DuplicateGroup, 0)

	emails := make(map[string][]Student)
	phones := make(map[string][]Student)
	for _, s := range students {
		if s.Email != "" {
			key := strings.ToLower(strings.TrimSpace(s.Email))
			emails[key] = append(emails[key], s)
		}
		if digits := digitsRegex.ReplaceAllString(s.Phone, ""); len(digits) >= 10 {
			// last 10 digits, so +1 prefixed and local formats collide
			key := digits[len(digits)-10:]
			phones[key] = append(phones[key], s)
		}
	}
	groups = append(groups, collectGroups("email", emails)...)
	groups = append(groups, collectGroups("phone", phones)...)

	// near-identical names, pairwise
	seen := make(map[string]bool)
	for i := 0; i < len(students); i++ {
		for j := i + 1; j < len(students); j++ {
			a, b := students[i], students[j]
			if a.ID == b.ID || seen[a.ID+"|"+b.ID] {
				continue
			}
			if nameSimilarity(a.Name, b.Name) >= nameMaxSim {
				seen[a.ID+"|"+b.ID] = true
				groups = append(groups, DuplicateGroup{
					Kind:     "name",
					Key:      a.Name,
					Students: []Student{a, b},
				})
			}
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Kind != groups[j].Kind {
			return groups[i].Kind < groups[j].Kind
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

func collectGroups(kind string, m map[string][]Student) []DuplicateGroup {
	groups := make([]DuplicateGroup, 0, len(m))
	for key, members := range m {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
		groups = append(groups, DuplicateGroup{Kind: kind, Key: key, Students: members})
	}
	return groups
}

func nameSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
}
