package models

// ErrorType identifies the category of error that occurred.
type ErrorType string

const (
	// Leaderboard creation
	ErrLeaderboardRejected  ErrorType = "leaderboard_rejected"
	ErrLeaderboardMissingID ErrorType = "leaderboard_missing_id"

	// Localization
	ErrLocalizationRejected ErrorType = "localization_rejected"
)
