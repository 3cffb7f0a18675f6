package pick

import "github.com/google/uuid"

// AddPickRequest represents the data needed to give a member a draft pick
type AddPickRequest struct {
	UserID uuid.UUID
	Round  int
	Year   int
}
