package model

import "github.com/google/uuid"

// User is a team member sanctions can be levied against.
type User struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Nickname  *string   `json:"nickname"`
	Email     *string   `json:"email"`
}

// UserRequest is the request body for creating or updating a user within a
// team.
type UserRequest struct {
	Firstname string  `json:"firstname" validate:"required"`
	Lastname  string  `json:"lastname" validate:"required"`
	Nickname  *string `json:"nickname,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

func (r *UserRequest) User(teamID uuid.UUID) User {
	return User{
		ID:        uuid.New(),
		TeamID:    teamID,
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Nickname:  r.Nickname,
		Email:     r.Email,
	}
}
