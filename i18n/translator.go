// Package i18n switches interface strings between French and English
package i18n

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownLanguage is returned when setting a language with no table
var ErrUnknownLanguage = errors.New("i18n: unknown language")

// Translator resolves keys in the current language
type Translator struct {
	mu        sync.RWMutex
	lang      string
	listeners []func(lang string)
}

// NewTranslator starts in lang, falling back to DefaultLanguage when unknown
func NewTranslator(lang string) *Translator {
	if _, ok := table[lang]; !ok {
		lang = DefaultLanguage
	}
	return &Translator{lang: lang}
}

// Language returns the current language code
func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// T returns the string for key, or the key itself when missing
func (t *Translator) T(key string) string {
	t.mu.RLock()
	lang := t.lang
	t.mu.RUnlock()

	if s, ok := table[lang][key]; ok {
		return s
	}
	return key
}

// Set switches language and notifies listeners when it changed
func (t *Translator) Set(lang string) error {
	if _, ok := table[lang]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}

	t.mu.Lock()
	if t.lang == lang {
		t.mu.Unlock()
		return nil
	}
	t.lang = lang
	listeners := append([]func(string){}, t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(lang)
	}
	return nil
}

// Toggle flips between French and English, returns the new language
func (t *Translator) Toggle() string {
	next := English
	if t.Language() == English {
		next = French
	}
	// Both codes are in the table
	_ = t.Set(next)
	return next
}

// OnChange registers fn to run after each language change
func (t *Translator) OnChange(fn func(lang string)) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}
