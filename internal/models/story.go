package models

import (
	"fmt"
	"strings"
)

// Genre is one of the fixed set of story genres the generator accepts.
type Genre string

const (
	GenreFantasy   Genre = "fantasy"
	GenreSciFi     Genre = "sci-fi"
	GenreMystery   Genre = "mystery"
	GenreAdventure Genre = "adventure"
	GenreHorror    Genre = "horror"
)

// Genres lists every valid genre in display order.
func Genres() []Genre {
	return []Genre{GenreFantasy, GenreSciFi, GenreMystery, GenreAdventure, GenreHorror}
}

// Valid reports whether g is a known genre.
func (g Genre) Valid() bool {
	switch g {
	case GenreFantasy, GenreSciFi, GenreMystery, GenreAdventure, GenreHorror:
		return true
	}
	return false
}

// StoryRecord is one persisted generated narrative together with the
// inputs that produced it. OwnerID is the user id the record was fetched
// for; the remote store scopes records by owner.
type StoryRecord struct {
	ID            string
	OwnerID       string
	Genre         Genre
	Characters    []string
	Plot          string
	NarrativeText string
}

// Draft is unsaved, in-progress input for a generation request.
type Draft struct {
	Genre      Genre
	Characters []string
	Plot       string
}

// Validate checks the draft and returns a ErrValidation-wrapped error
// naming the first violation, or nil if the draft is submittable.
func (d Draft) Validate() error {
	if !d.Genre.Valid() {
		return fmt.Errorf("unknown genre %q: %w", string(d.Genre), ErrValidation)
	}
	if len(d.Characters) == 0 {
		return fmt.Errorf("at least one character is required: %w", ErrValidation)
	}
	for i, c := range d.Characters {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("character %d is blank: %w", i+1, ErrValidation)
		}
	}
	if strings.TrimSpace(d.Plot) == "" {
		return fmt.Errorf("plot is blank: %w", ErrValidation)
	}
	return nil
}

// CleanCharacters returns the character list with blank entries removed
// and surrounding whitespace trimmed. It never mutates the draft.
func (d Draft) CleanCharacters() []string {
	out := make([]string, 0, len(d.Characters))
	for _, c := range d.Characters {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
