package handlers

import (
	"time"

	"financas-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes ledger events to the members of a group listening on
// /ws/groups/:id, so a shared dashboard refreshes when a family member
// records a transaction.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		groupID, _ := s.Get("group_id")
		utils.LogWebSocket("connect", toString(groupID), "")
	})

	m.HandleDisconnect(func(s *melody.Session) {
		groupID, _ := s.Get("group_id")
		utils.SafeDebug("ws: client disconnected from group %v", groupID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		utils.SafeWarn("ws: %v", err)
	})

	return &WSHandler{M: m}
}

func (h *WSHandler) HandleWS(c *gin.Context) {
	keys := map[string]interface{}{"group_id": c.Param("id")}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		utils.SafeWarn("ws: failed to upgrade: %v", err)
	}
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// BroadcastUpdate signals every session watching the group.
func (h *WSHandler) BroadcastUpdate(groupID, updateType, userID string) {
	msg := []byte(`{"type": "` + updateType + `", "user": "` + userID + `"}`)

	err := h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get("group_id")
		return exists && id == groupID
	})
	if err != nil {
		utils.SafeWarn("ws: broadcast to group %s failed: %v", groupID, err)
	}
}
