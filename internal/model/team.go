package model

import "github.com/google/uuid"

// Team owns its members and the rule catalog sanctions are priced against.
type Team struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AdminPassword string    `json:"-"`
	Rules         []Rule    `json:"rules"`
}

// Rule looks up a rule of the team by identifier.
func (t *Team) Rule(id uuid.UUID) (*Rule, bool) {
	for i := range t.Rules {
		if t.Rules[i].ID == id {
			return &t.Rules[i], true
		}
	}
	return nil, false
}

// TeamRequest is the request body for creating or updating a team. Rules are
// replaced wholesale with the team; there is no standalone rule endpoint.
type TeamRequest struct {
	ID            *uuid.UUID    `json:"id,omitempty"`
	Name          string        `json:"name" validate:"required"`
	AdminPassword string        `json:"admin_password" validate:"required"`
	Rules         []RuleRequest `json:"rules" validate:"dive"`
}

func (r *TeamRequest) Team() Team {
	id := uuid.New()
	if r.ID != nil {
		id = *r.ID
	}

	rules := make([]Rule, 0, len(r.Rules))
	for i := range r.Rules {
		rules = append(rules, r.Rules[i].Rule())
	}

	return Team{
		ID:            id,
		Name:          r.Name,
		AdminPassword: r.AdminPassword,
		Rules:         rules,
	}
}
