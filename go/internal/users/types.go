package users

import "github.com/mcdev12/pickswap/go/internal/models"

// SignIn is an identity the OAuth provider has already verified
type SignIn struct {
	Email string
	Name  string
	Image string
}

// Summary is a member as the admin user list shows it
type Summary struct {
	User           models.User
	IsAdmin        bool
	Picks          []models.DraftPick
	AcceptedTrades int64
}

// Config holds the member lifecycle settings
type Config struct {
	// InitialPickRounds are the rounds granted to a new member for the current year
	InitialPickRounds []int
}

// DefaultInitialPickRounds grants rounds one through three
var DefaultInitialPickRounds = []int{1, 2, 3}
