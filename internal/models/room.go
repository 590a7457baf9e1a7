package models

// Role is a user's role within a room, assigned at creation and never changed.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// User represents one participant's presence in one room. The JSON field
// names are the persisted document layout and the shapes clients see.
type User struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"socketID"`
	PeerID       string `json:"peerID"`
	Role         Role   `json:"type"`
	Name         string `json:"name"`
}

// Room is one signaling session: an ordered set of users unique by userId.
// A room with zero users is deleted, never stored empty.
type Room struct {
	RoomID string `json:"roomID"`
	Users  []User `json:"users"`
}

// CreateRoomResponse is the body returned by POST /create-room. UserID is
// the credential the host presents on its first join.
type CreateRoomResponse struct {
	RoomID string `json:"roomID"`
	Role   Role   `json:"role"`
	UserID string `json:"userId"`
}

// FindUser returns a pointer into Users for the given userId, or nil.
func (r *Room) FindUser(userID string) *User {
	for i := range r.Users {
		if r.Users[i].UserID == userID {
			return &r.Users[i]
		}
	}
	return nil
}

// FindByConnection returns a pointer into Users for the given live
// connection, or nil if no user currently holds it.
func (r *Room) FindByConnection(connectionID string) *User {
	for i := range r.Users {
		if r.Users[i].ConnectionID == connectionID {
			return &r.Users[i]
		}
	}
	return nil
}

// RemoveUser drops the user with the given userId, preserving order.
func (r *Room) RemoveUser(userID string) {
	users := r.Users[:0]
	for _, u := range r.Users {
		if u.UserID != userID {
			users = append(users, u)
		}
	}
	r.Users = users
}
