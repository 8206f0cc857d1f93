package catalogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKey(t *testing.T) {
	tests := []struct {
		name   string
		system string
		title  string
		want   Key
	}{
		{
			name:   "lowercases and joins",
			system: "Nervous System",
			title:  "Stroke Localization",
			want:   Key("nervous system-stroke localization"),
		},
		{
			name:   "trims surrounding whitespace",
			system: "  Cardiovascular System ",
			title:  " ACS: EKG & Management\t",
			want:   Key("cardiovascular system-acs: ekg & management"),
		},
		{
			name:   "case variants collapse to the same key",
			system: "HEMATOLOGY SYSTEM",
			title:  "rbc: thalassemia",
			want:   NewKey("Hematology System", "RBC: Thalassemia"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewKey(tt.system, tt.title))
		})
	}
}

func TestTopicIdentified(t *testing.T) {
	assert.True(t, (&Topic{System: "X", Title: "T"}).Identified())
	assert.False(t, (&Topic{System: "", Title: "T"}).Identified())
	assert.False(t, (&Topic{System: "X", Title: "   "}).Identified())
	assert.False(t, (&Topic{}).Identified())
}

func TestTopicSearchText(t *testing.T) {
	topic := Topic{
		System:   "Nervous System",
		Title:    "CNS Infection",
		Summary:  "Bacterial: PMN high",
		ExamTip:  "Glucose LOW",
		Keywords: []string{"Meningitis", "CSF"},
	}

	text := topic.SearchText()
	assert.Contains(t, text, "cns infection")
	assert.Contains(t, text, "pmn high")
	assert.Contains(t, text, "glucose low")
	assert.Contains(t, text, "meningitis csf")
	assert.NotContains(t, text, "nervous system") // system is filtered separately
}

func TestTopicsKeys(t *testing.T) {
	ts := Topics{
		{System: "X", Title: "T"},
		{System: "x ", Title: " t"}, // duplicate after normalization
		{System: "", Title: "orphan"},
		{System: "Y", Title: "U"},
	}

	keys := ts.Keys()
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, NewKey("X", "T"))
	assert.Contains(t, keys, NewKey("Y", "U"))
}

func TestTopicsSystems(t *testing.T) {
	ts := Topics{
		{System: "Renal & Urinary System", Title: "a"},
		{System: "Cardiovascular System", Title: "b"},
		{System: "Renal & Urinary System", Title: "c"},
	}
	assert.Equal(t, []string{"Cardiovascular System", "Renal & Urinary System"}, ts.Systems())
}

func TestTopicsCopyIsDeep(t *testing.T) {
	orig := Topics{{System: "X", Title: "T", Keywords: []string{"a", "b"}}}
	cp := orig.Copy()
	cp[0].Keywords[0] = "mutated"
	cp[0].Title = "changed"

	assert.Equal(t, "a", orig[0].Keywords[0])
	assert.Equal(t, "T", orig[0].Title)
}
