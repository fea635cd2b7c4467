package models

import "time"

type Card struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deckId"`
	UserID    int64     `json:"userId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Tags      string    `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
