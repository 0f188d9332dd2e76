// Package hook receives post lifecycle events from the host forum and
// feeds them into the dispatch scheduler. The forum announces a post as
// soon as it is published; deletion before the delay elapses cancels
// the pending dispatch.
package hook

import (
	"encoding/json"
	"net/http"

	"chat-integration/internal/handler/http/respond"
)

// PostScheduler is the slice of the scheduler the hook surface needs.
type PostScheduler interface {
	Schedule(postID int64) bool
	Cancel(postID int64) bool
}

type postEvent struct {
	PostID int64 `json:"post_id"`
}

func decodePostEvent(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var ev postEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return 0, false
	}
	if ev.PostID <= 0 {
		respond.ValidationErrors(w, []string{"post_id must be positive"})
		return 0, false
	}
	return ev.PostID, true
}

// PostCreatedHandler schedules a delayed dispatch for a published post.
type PostCreatedHandler struct{ Sched PostScheduler }

func (h PostCreatedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID, ok := decodePostEvent(w, r)
	if !ok {
		return
	}
	scheduled := h.Sched.Schedule(postID)
	respond.JSON(w, http.StatusAccepted, map[string]any{
		"post_id":   postID,
		"scheduled": scheduled,
	})
}

// PostDeletedHandler cancels the pending dispatch for a deleted post.
// A post whose dispatch already fired is reported as not canceled.
type PostDeletedHandler struct{ Sched PostScheduler }

func (h PostDeletedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID, ok := decodePostEvent(w, r)
	if !ok {
		return
	}
	canceled := h.Sched.Cancel(postID)
	respond.JSON(w, http.StatusAccepted, map[string]any{
		"post_id":  postID,
		"canceled": canceled,
	})
}

// Register mounts the forum event routes on mux.
func Register(mux *http.ServeMux, sched PostScheduler) {
	mux.Handle("POST /hooks/post-created", PostCreatedHandler{Sched: sched})
	mux.Handle("POST /hooks/post-deleted", PostDeletedHandler{Sched: sched})
}
