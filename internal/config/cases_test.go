package config

import (
	"errors"
	"reflect"
	"testing"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
)

func testCases() []Case {
	return []Case{
		{ID: "perio", ContextSummary: "Bleeding gums"},
		{
			ID:             "oral-ulcer-tongue",
			ContextSummary: "55-year-old male with indurated ulcer on tongue for 4 weeks.",
			Rules: models.Rules{
				Contraindications: []string{"Do not prescribe corticosteroids for undiagnosed ulcerative lesions"},
			},
		},
	}
}

func TestCatalog_Get(t *testing.T) {
	catalog := NewCatalog(testCases())

	c, err := catalog.Get("oral-ulcer-tongue")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(c.Rules.Contraindications) != 1 {
		t.Errorf("Expected 1 contraindication, got %d", len(c.Rules.Contraindications))
	}

	_, err = catalog.Get("unknown")
	if !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("Expected ErrCaseNotFound, got %v", err)
	}
}

func TestCatalog_IDsSorted(t *testing.T) {
	catalog := NewCatalog(testCases())

	got := catalog.IDs()
	want := []string{"oral-ulcer-tongue", "perio"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if catalog.Len() != 2 {
		t.Errorf("Expected Len=2, got %d", catalog.Len())
	}
	if list := catalog.List(); list[0].ID != "oral-ulcer-tongue" {
		t.Errorf("Expected List ordered by id, got %s first", list[0].ID)
	}
}

func TestCase_Request(t *testing.T) {
	c := testCases()[1]

	req := c.Request("I will prescribe triamcinolone acetonide.")

	if req.StudentText != "I will prescribe triamcinolone acetonide." {
		t.Errorf("Unexpected student text %q", req.StudentText)
	}
	if req.ContextSummary != c.ContextSummary {
		t.Errorf("Unexpected context %q", req.ContextSummary)
	}
	if !reflect.DeepEqual(req.Rules, c.Rules) {
		t.Errorf("Expected rules %+v, got %+v", c.Rules, req.Rules)
	}
}
