package models

import "time"

// SessionTotals is the raw aggregate over a set of study sessions.
type SessionTotals struct {
	Sessions     int
	TotalCards   int
	TotalCorrect int
	TotalTime    int
	ScoreSum     int
}

// UserStats summarises every session a user has recorded.
type UserStats struct {
	TotalSessions       int `json:"total"`
	SessionsToday       int `json:"today"`
	TotalCardsStudied   int `json:"totalCardsStudied"`
	TotalCorrectAnswers int `json:"totalCorrectAnswers"`
	TotalTimeSpent      int `json:"totalTimeSpent"`
	AverageAccuracy     int `json:"averageAccuracy"`
}

// TodayStats is the digest of the sessions recorded today.
type TodayStats struct {
	Sessions     int `json:"sessions"`
	TotalCards   int `json:"totalCards"`
	TotalCorrect int `json:"totalCorrect"`
	TotalTime    int `json:"totalTime"`
	AverageScore int `json:"averageScore"`
}

// DashboardStats feeds the personal dashboard widgets.
type DashboardStats struct {
	StudiedToday    int `json:"studiedToday"`
	SessionsToday   int `json:"sessionsToday"`
	TotalSessions   int `json:"totalSessions"`
	UserDecksCount  int `json:"userDecksCount"`
	TotalCardsCount int `json:"totalCardsCount"`
}

// PlatformStats holds the platform-wide counters.
type PlatformStats struct {
	UsersCount       int       `json:"usersCount"`
	DecksCount       int       `json:"decksCount"`
	CardsCount       int       `json:"cardsCount"`
	PublicDecksCount int       `json:"publicDecksCount"`
	SessionsCount    int       `json:"sessionsCount"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// Activity is one entry of the admin activity feed.
type Activity struct {
	Icon      string    `json:"icon"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminOverview backs the moderation panel.
type AdminOverview struct {
	PendingDecks []DeckSummary      `json:"pendingDecks"`
	Users        []UserWithDeckCount `json:"users"`
	Stats        PlatformStats       `json:"stats"`
}
