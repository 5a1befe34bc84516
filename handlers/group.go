package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"financas-api/middleware"
	"financas-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GroupHandler struct {
	DB *sql.DB
}

func (h *GroupHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	defer tx.Rollback()

	var group models.Group
	err = tx.QueryRow(`
		INSERT INTO groups (id, name, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, created_at, updated_at
	`, uuid.New().String(), req.Name, userID).Scan(&group.ID, &group.Name, &group.OwnerID,
		&group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		respondError(c, models.TranslatePQError(err, "group name"))
		return
	}

	_, err = tx.Exec(`
		INSERT INTO group_members (id, group_id, user_id, role)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), group.ID, userID, models.RoleOwner)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(c, err)
		return
	}

	group.IsOwner = true
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT g.id, g.name, g.owner_id, g.created_at, g.updated_at,
		       (g.owner_id = $1) AS is_owner
		FROM groups g
		INNER JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.updated_at DESC
	`, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt, &g.IsOwner); err != nil {
			respondError(c, err)
			return
		}
		groups = append(groups, g)
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GroupHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	groupID := c.Param("id")

	var group models.Group
	err := h.DB.QueryRow(`
		SELECT g.id, g.name, g.owner_id, g.created_at, g.updated_at,
		       (g.owner_id = $2) AS is_owner
		FROM groups g
		INNER JOIN group_members gm ON g.id = gm.group_id
		WHERE g.id = $1 AND gm.user_id = $2
	`, groupID, userID).Scan(&group.ID, &group.Name, &group.OwnerID,
		&group.CreatedAt, &group.UpdatedAt, &group.IsOwner)

	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.DB.Query(`
		SELECT gm.id, gm.group_id, gm.user_id, gm.role, u.name, u.email, gm.joined_at
		FROM group_members gm
		INNER JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`, groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	group.Members = []models.GroupMember{}
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.UserName, &m.UserEmail, &m.JoinedAt); err != nil {
			respondError(c, err)
			return
		}
		group.Members = append(group.Members, m)
	}

	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	result, err := h.DB.Exec(`DELETE FROM groups WHERE id = $1 AND owner_id = $2`,
		c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, models.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}

// AddMember adds an existing user to a group by email. Owner only.
func (h *GroupHandler) AddMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	groupID := c.Param("id")

	var req models.AddGroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var one int
	err := h.DB.QueryRow(`SELECT 1 FROM groups WHERE id = $1 AND owner_id = $2`, groupID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	var memberUserID string
	err = h.DB.QueryRow(`SELECT id FROM users WHERE email = $1`, req.Email).Scan(&memberUserID)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.NewValidationError("email", "no user registered with this email"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	var member models.GroupMember
	err = h.DB.QueryRow(`
		INSERT INTO group_members (id, group_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, user_id, role, joined_at
	`, uuid.New().String(), groupID, memberUserID, models.RoleMember).Scan(
		&member.ID, &member.GroupID, &member.UserID, &member.Role, &member.JoinedAt)
	if err != nil {
		respondError(c, models.TranslatePQError(err, "group member"))
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember removes a member. The owner can remove anyone but themselves;
// members can leave by removing their own membership.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	groupID := c.Param("id")
	memberID := c.Param("member_id")

	var ownerID, memberUserID string
	err := h.DB.QueryRow(`
		SELECT g.owner_id, gm.user_id
		FROM group_members gm
		INNER JOIN groups g ON g.id = gm.group_id
		WHERE gm.id = $1 AND gm.group_id = $2
	`, memberID, groupID).Scan(&ownerID, &memberUserID)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if userID != ownerID && userID != memberUserID {
		respondError(c, models.ErrNotFound)
		return
	}
	if memberUserID == ownerID {
		respondError(c, &models.ConflictError{Message: "the group owner cannot be removed"})
		return
	}

	if _, err := h.DB.Exec(`DELETE FROM group_members WHERE id = $1`, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// Family members: "paid by" labels, unique per owner.

type FamilyMemberHandler struct {
	DB *sql.DB
}

func (h *FamilyMemberHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateFamilyMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var member models.FamilyMember
	err := h.DB.QueryRow(`
		INSERT INTO family_members (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at
	`, userID, req.Name).Scan(&member.ID, &member.UserID, &member.Name, &member.CreatedAt)
	if err != nil {
		respondError(c, models.TranslatePQError(err, "family member name"))
		return
	}

	c.JSON(http.StatusCreated, member)
}

func (h *FamilyMemberHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, created_at FROM family_members
		WHERE user_id = $1
		ORDER BY name
	`, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	members := []models.FamilyMember{}
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.CreatedAt); err != nil {
			respondError(c, err)
			return
		}
		members = append(members, m)
	}

	c.JSON(http.StatusOK, gin.H{"family_members": members})
}

func (h *FamilyMemberHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	result, err := h.DB.Exec(`DELETE FROM family_members WHERE id = $1 AND user_id = $2`,
		c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, models.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Family member deleted"})
}
