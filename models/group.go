package models

import "time"

// Group member roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Group shares transactions and dashboards between family members.
type Group struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	OwnerID   string        `json:"owner_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	IsOwner   bool          `json:"is_owner"`
	Members   []GroupMember `json:"members,omitempty"`
}

// GroupMember links a user to a group; unique per (group, user).
type GroupMember struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	JoinedAt  time.Time `json:"joined_at"`
}

// FamilyMember is a free-form "paid by" label, unique per (owner, name).
// It is not a user account; it only tags who paid a transaction.
type FamilyMember struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddGroupMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateFamilyMemberRequest struct {
	Name string `json:"name" binding:"required"`
}
