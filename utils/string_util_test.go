package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{"ShorterThanLimit", "pizza", 20, "pizza"},
		{"ExactLimit", "pizza", 5, "pizza"},
		{"BreaksOnWord", "hello world foo", 10, "hello..."},
		{"NoBreakPoint", "abcdefghijkl", 10, "abcdefg..."},
		{"ZeroLimitDisables", "anything goes here", 0, "anything goes here"},
		{"TinyLimit", "abcdef", 2, "ab"},
		{"Empty", "", 10, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Abbreviate(tc.input, tc.limit))
		})
	}

	t.Run("Idempotent", func(t *testing.T) {
		once := Abbreviate("the quick brown fox jumps over the lazy dog", 25)
		twice := Abbreviate(once, 25)
		assert.Equal(t, once, twice)
		assert.LessOrEqual(t, len([]rune(once)), 25)
	})
}

func TestStarList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int
	}{
		{"Perfect", "10", []int{2, 2, 2, 2, 2}},
		{"SevenIsThreeAndAHalf", "7", []int{2, 2, 2, 1, 0}},
		{"Eight", "8", []int{2, 2, 2, 2, 0}},
		{"Zero", "0", []int{0, 0, 0, 0, 0}},
		{"RoundsFraction", "6.8", []int{2, 2, 2, 1, 0}},
		{"Clamped", "14", []int{2, 2, 2, 2, 2}},
		{"Blank", "  ", nil},
		{"NonNumeric", "great", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StarList(tc.input))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"PlainDigits", "2125550100", "(212) 555-0100"},
		{"Dashed", "212-555-0100", "(212) 555-0100"},
		{"Dotted", " 212.555.0100 ", "(212) 555-0100"},
		{"TooShort", "555-0100", "555-0100"},
		{"Blank", "   ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatPhone(tc.input))
		})
	}
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "New York, NY", LocationString("New York", "NY"))
	assert.Equal(t, "New York", LocationString(" New York ", ""))
	assert.Equal(t, "NY", LocationString("", "NY"))
	assert.Equal(t, "", LocationString("", ""))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 42, ToInt(" 42 "))
	assert.Equal(t, 0, ToInt("many"))
	assert.Equal(t, 0, ToInt(""))
	assert.Equal(t, -3, ToInt("-3"))
}
