package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	errs "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	"github.com/shopspring/decimal"
)

// LetterRequirements maps an upper-case letter to the count a word needs
type LetterRequirements map[string]int64

// LetterWord is a redeemable word: holding its letters pays RewardAmount
type LetterWord struct {
	ID              uint64
	Word            string
	RawRequirements []byte // JSON object, letter -> count
	RewardAmount    decimal.Decimal
	Active          bool
}

// Requirements parses the stored requirement set. Empty or malformed data
// makes the word unclaimable.
func (w *LetterWord) Requirements() (LetterRequirements, error) {
	req, err := ParseRequirements(w.RawRequirements)
	if err != nil {
		return nil, fmt.Errorf("word %d: %w", w.ID, err)
	}
	return req, nil
}

// Validate checks the word definition
func (w *LetterWord) Validate() error {
	if NormalizeWord(w.Word) == "" {
		return fmt.Errorf("%w: word is required", errs.ErrInvalidWord)
	}
	if !w.RewardAmount.IsPositive() {
		return fmt.Errorf("%w: reward amount must be positive", errs.ErrInvalidWord)
	}
	if w.RewardAmount.Exponent() < -MaxDecimalPlaces {
		return fmt.Errorf("%w: reward amount has more than %d decimal places", errs.ErrInvalidWord, MaxDecimalPlaces)
	}
	if _, err := ParseRequirements(w.RawRequirements); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidWord, err)
	}
	return nil
}

// NormalizeWord trims and upper-cases a word
func NormalizeWord(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

// NormalizeLetter returns the upper-case form of a single A-Z letter
func NormalizeLetter(value string) (string, bool) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if utf8.RuneCountInString(value) != 1 {
		return "", false
	}
	if value[0] < 'A' || value[0] > 'Z' {
		return "", false
	}
	return value, true
}

// ParseRequirements decodes a JSON letter->count object. Keys must be single
// letters, counts must be positive and the set must not be empty.
func ParseRequirements(raw []byte) (LetterRequirements, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("%w: empty requirements", errs.ErrWordNotClaimable)
	}

	var decoded map[string]int64
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: malformed requirements: %v", errs.ErrWordNotClaimable, err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w: empty requirements", errs.ErrWordNotClaimable)
	}

	req := make(LetterRequirements, len(decoded))
	for key, count := range decoded {
		letter, ok := NormalizeLetter(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a letter", errs.ErrWordNotClaimable, key)
		}
		if count <= 0 {
			return nil, fmt.Errorf("%w: letter %s has non-positive count %d", errs.ErrWordNotClaimable, letter, count)
		}
		if _, dup := req[letter]; dup {
			return nil, fmt.Errorf("%w: letter %s listed twice", errs.ErrWordNotClaimable, letter)
		}
		req[letter] = count
	}
	return req, nil
}

// RequirementsFromWord counts the letters of word
func RequirementsFromWord(word string) (LetterRequirements, error) {
	word = NormalizeWord(word)
	if word == "" {
		return nil, fmt.Errorf("%w: word is required", errs.ErrInvalidWord)
	}

	req := make(LetterRequirements)
	for _, r := range word {
		letter, ok := NormalizeLetter(string(r))
		if !ok {
			return nil, fmt.Errorf("%w: %q contains non-letter %q", errs.ErrInvalidWord, word, r)
		}
		req[letter]++
	}
	return req, nil
}

// Marshal encodes the requirement set as a JSON object
func (r LetterRequirements) Marshal() ([]byte, error) {
	return json.Marshal(map[string]int64(r))
}

// Letters returns the required letters in alphabetical order
func (r LetterRequirements) Letters() []string {
	letters := make([]string, 0, len(r))
	for letter := range r {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}

// Total is the number of letters the word consumes
func (r LetterRequirements) Total() int64 {
	var total int64
	for _, n := range r {
		total += n
	}
	return total
}

// LetterShortfall describes the first letter a collection does not cover
type LetterShortfall struct {
	Letter    string
	Required  int64
	Available int64
}

// FirstShortfall checks multiset containment in alphabetical letter order and
// returns the first unmet letter, or nil when the collection covers every requirement.
func (r LetterRequirements) FirstShortfall(collection map[string]int64) *LetterShortfall {
	for _, letter := range r.Letters() {
		have := collection[letter]
		if have < r[letter] {
			return &LetterShortfall{Letter: letter, Required: r[letter], Available: have}
		}
	}
	return nil
}

// LetterCollection is one user's count of one letter
type LetterCollection struct {
	UserID uint64
	Letter string
	Count  int64
}

// WordClaimResult is the result of redeeming a word
type WordClaimResult struct {
	UserID         uint64           `json:"userId"`
	WordID         uint64           `json:"wordId"`
	Word           string           `json:"word"`
	LettersSpent   map[string]int64 `json:"lettersSpent"`
	RewardAmount   string           `json:"rewardAmount"`
	NewCashBalance string           `json:"newCashBalance"`
}
