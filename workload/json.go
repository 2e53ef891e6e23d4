package workload

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the synthetic document encoded by the JSON workload.
type Payload struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// User is a synthetic user record.
type User struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Active   bool         `json:"active"`
	Role     string       `json:"role"`
	Metadata UserMetadata `json:"metadata"`
}

// UserMetadata is the nested metadata block of a User.
type UserMetadata struct {
	CreatedAt   time.Time   `json:"created_at"`
	LoginCount  int         `json:"login_count"`
	Tags        []string    `json:"tags"`
	Preferences Preferences `json:"preferences"`
}

// Preferences holds per-user settings.
type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

// Pagination describes the page the users belong to.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

var (
	epoch     = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	themes    = []string{"light", "dark"}
	languages = []string{"en", "de", "es", "fr"}
)

// Synthesize builds a deterministic Payload with users records, whose IDs run
// from 1 to users. Even IDs are active, and every tenth user is an admin.
func Synthesize(users int) *Payload {
	users = max(users, 0)
	p := &Payload{
		Users: make([]User, 0, users),
		Pagination: Pagination{
			Page:       1,
			PerPage:    users,
			Total:      users,
			TotalPages: 1,
		},
	}

	for id := 1; id <= users; id++ {
		role := "user"
		if id%10 == 0 {
			role = "admin"
		}
		p.Users = append(p.Users, User{
			ID:     id,
			Name:   fmt.Sprintf("User %d", id),
			Email:  fmt.Sprintf("user%d@example.com", id),
			Active: id%2 == 0,
			Role:   role,
			Metadata: UserMetadata{
				CreatedAt:  epoch.Add(time.Duration(id) * time.Hour),
				LoginCount: id * 7 % 100,
				Tags:       []string{fmt.Sprintf("tag-%d", id%5), fmt.Sprintf("group-%d", id%3)},
				Preferences: Preferences{
					Theme:         themes[id%len(themes)],
					Notifications: id%3 == 0,
					Language:      languages[id%len(languages)],
				},
			},
		})
	}

	return p
}

// RoundTrip encodes p to JSON and decodes it back into a generic value.
func RoundTrip(p *Payload) (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed encoding payload: %w", err)
	}

	var v map[string]any
	if err = json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed decoding payload: %w", err)
	}

	return v, nil
}
