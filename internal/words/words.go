// internal/words/words.go
//
// Word list management and guess normalization for both game languages.
//
// Responsibilities:
//   - Load per-language answer lists from environment-provided files or fall
//     back to the embedded defaults.
//   - Uppercase guesses with language-correct casing (Turkish dotted/dotless i).
//   - Validate that a guess is well-formed: exactly 5 letters drawn from the
//     language's alphabet. Dictionary membership is NOT required for guesses.
//
// Environment variables:
//   WORDS_EN_FILE=/path/to/en.txt
//   WORDS_TR_FILE=/path/to/tr.txt
//
// Lists are normalized to uppercase on load and initialization runs once
// (sync.Once).

package words

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"wordcast/assets"
)

// Language selects a word list and its casing/alphabet rules.
type Language string

const (
	LangEN Language = "en"
	LangTR Language = "tr"
)

// WordLength is the fixed answer/guess length.
const WordLength = 5

// ParseLanguage validates a client-supplied language code.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangEN:
		return LangEN, nil
	case LangTR:
		return LangTR, nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

var turkishUpper = cases.Upper(language.Turkish)

// turkishExtra holds the Turkish letters outside ASCII A-Z.
// Both dotted İ and dotless I are legal guesses.
var turkishExtra = map[rune]struct{}{
	'Ç': {}, 'Ğ': {}, 'İ': {}, 'Ö': {}, 'Ş': {}, 'Ü': {},
}

var (
	initOnce sync.Once
	lists    map[Language][]string
	initErr  error
)

// Init loads the word lists exactly once.
// Returns an error if either list ends up empty.
func Init() error {
	initOnce.Do(func() {
		lists = make(map[Language][]string, 2)

		en, err := loadList(LangEN, os.Getenv("WORDS_EN_FILE"), assets.EnglishList)
		if err != nil {
			initErr = err
			return
		}
		tr, err := loadList(LangTR, os.Getenv("WORDS_TR_FILE"), assets.TurkishList)
		if err != nil {
			initErr = err
			return
		}

		lists[LangEN] = en
		lists[LangTR] = tr

		for lang, l := range lists {
			if len(l) == 0 {
				initErr = fmt.Errorf("words: %s answer list is empty", lang)
				return
			}
		}
	})
	return initErr
}

// loadList reads one list, preferring the env-provided file over the
// embedded fallback, and keeps only well-formed words.
func loadList(lang Language, path string, embedded func() ([]string, error)) ([]string, error) {
	var raw []string
	var err error
	if path != "" {
		raw, err = readWordFile(path)
	} else {
		raw, err = embedded()
	}
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		n := Normalize(w, lang)
		if IsWellFormed(n, lang) {
			out = append(out, n)
		}
	}
	return out, nil
}

// readWordFile loads one word per line, skipping blanks and comment lines.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

// Normalize trims whitespace and uppercases with language-correct rules.
// Turkish maps i→İ and ı→I; plain strings.ToUpper would corrupt both.
func Normalize(raw string, lang Language) string {
	s := strings.TrimSpace(raw)
	if lang == LangTR {
		return turkishUpper.String(s)
	}
	return strings.ToUpper(s)
}

// IsWellFormed reports whether a normalized guess is exactly WordLength
// letters from the language's alphabet. It does not check dictionary
// membership: any well-formed 5-letter string is a legal guess.
func IsWellFormed(word string, lang Language) bool {
	runes := []rune(word)
	if len(runes) != WordLength {
		return false
	}
	for _, r := range runes {
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if lang == LangTR {
			if _, ok := turkishExtra[r]; ok {
				continue
			}
		}
		return false
	}
	return true
}

// List returns the answer list for a language. Init must have run.
func List(lang Language) []string {
	return lists[lang]
}

// RandomAnswer returns a cryptographically random answer from the
// language's list. Falls back to "CRANE" if lists are not loaded.
func RandomAnswer(lang Language) string {
	l := lists[lang]
	if len(l) == 0 {
		return "CRANE"
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(l))))
	return l[nBig.Int64()]
}

// Stats returns the loaded list sizes: (english, turkish).
func Stats() (en int, tr int) {
	return len(lists[LangEN]), len(lists[LangTR])
}
