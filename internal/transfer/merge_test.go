package transfer

import (
	"fmt"
	"testing"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func TestAssignIDs(t *testing.T) {
	taken := map[string]struct{}{"a": {}, "new-1": {}}
	sessions := []domain.Session{{ID: "a"}, {ID: "b"}, {ID: ""}, {ID: "b"}}

	AssignIDs(sessions, taken, sequentialIDs())

	assert.Equal(t, "new-2", sessions[0].ID, "collisions skip ids already taken")
	assert.Equal(t, "b", sessions[1].ID)
	assert.Equal(t, "new-3", sessions[2].ID)
	assert.Equal(t, "new-4", sessions[3].ID, "duplicates inside the batch are renamed")
	assert.Len(t, taken, 6)
}

func TestMergeSubjects_PreExistingChaptersFirst(t *testing.T) {
	existing := []domain.Subject{{Name: "Math", Chapters: []string{"Ch2"}}}
	incoming := []domain.Subject{{Name: "Math", Chapters: []string{"Ch1"}}}

	merged := MergeSubjects(existing, incoming)
	assert.Equal(t, []domain.Subject{{Name: "Math", Chapters: []string{"Ch2", "Ch1"}}}, merged)
}

func TestMergeSubjects_KeepsExistingSpellingAndAppendsNew(t *testing.T) {
	existing := []domain.Subject{
		{Name: "Math", Chapters: []string{"A"}},
		{Name: "Bio", Chapters: []string{}},
	}
	incoming := []domain.Subject{
		{Name: "Chem", Chapters: []string{"Acids"}},
		{Name: "MATH", Chapters: []string{"A", "B"}},
	}

	merged := MergeSubjects(existing, incoming)
	assert.Equal(t, []domain.Subject{
		{Name: "Math", Chapters: []string{"A", "B"}},
		{Name: "Bio", Chapters: []string{}},
		{Name: "Chem", Chapters: []string{"Acids"}},
	}, merged)
	assert.Equal(t, []string{"A"}, existing[0].Chapters, "inputs are not mutated")
}
