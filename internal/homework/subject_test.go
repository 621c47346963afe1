package homework

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSubject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Subject
	}{
		{"empty", "", SubjectUnknown},
		{"whitespace only", "  \n\t ", SubjectUnknown},
		{"pure arithmetic", "3+4=7\n12-5=7", SubjectMath},
		{"arithmetic with japanese prompt", "3+4=いくつですか？", SubjectMath},
		{"full width arithmetic", "１２－５＝７", SubjectMath},
		{"english vocabulary", "I like apples. This is a pen.", SubjectEnglish},
		{"japanese reading", "きょうは いい てんきです。漢字の れんしゅう", SubjectLanguage},
		{"japanese with a few digits", "だい3しょうを よんで こたえましょう", SubjectLanguage},
		{"punctuation only", "???!!!", SubjectUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSubject(tt.text))
		})
	}
}

func TestParseSubject(t *testing.T) {
	for in, want := range map[string]Subject{
		"math":   SubjectMath,
		"算数":     SubjectMath,
		"国語":     SubjectLanguage,
		"english": SubjectEnglish,
		"理科":     SubjectScience,
		"思考力":    SubjectThinkingSkill,
	} {
		got, ok := ParseSubject(in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	for _, in := range []string{"", "auto", "history", "さんすう？"} {
		_, ok := ParseSubject(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-0.5))
	assert.Equal(t, 1.0, ClampScore(1.7))
	assert.Equal(t, 0.8, ClampScore(0.8))
}

func TestSubjectLabel(t *testing.T) {
	assert.Equal(t, "算数", SubjectMath.Label())
	assert.Equal(t, "unknown", SubjectUnknown.Label())
}
