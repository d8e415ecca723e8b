package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	workspacecmd "github.com/goliatone/go-scribe/internal/commands/workspace"
	"github.com/goliatone/go-scribe/internal/journal"
)

type noteRequest struct {
	Type    journal.NoteType `json:"type"`
	Content string           `json:"content"`
}

type notesResponse struct {
	ProjectID string         `json:"projectId"`
	Notes     []journal.Note `json:"notes"`
}

func (api *API) registerJournalRoutes(group *gin.RouterGroup) {
	group.GET("/projects/:id/journal", api.listNotes)
	group.POST("/projects/:id/journal", api.addNote)
	group.GET("/projects/:id/journal/backup", api.backupJournal)
}

// listNotes returns every note, or the notes matching the "q" parameter.
func (api *API) listNotes(c *gin.Context) {
	ctx := c.Request.Context()
	projectID := c.Param("id")

	var (
		notes []journal.Note
		err   error
	)
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		notes, err = api.journal.Search(ctx, projectID, term)
	} else {
		notes, err = api.journal.List(ctx, projectID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	if notes == nil {
		notes = []journal.Note{}
	}
	c.JSON(http.StatusOK, notesResponse{ProjectID: projectID, Notes: notes})
}

func (api *API) addNote(c *gin.Context) {
	var req noteRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Type == "" {
		req.Type = journal.NoteText
	}
	result := &workspacecmd.Result{}
	if err := api.commands.AddNote.Execute(c.Request.Context(), workspacecmd.AddNoteCommand{
		ProjectID: c.Param("id"),
		NoteType:  req.Type,
		Content:   req.Content,
		Result:    result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result.Note)
}

func (api *API) backupJournal(c *gin.Context) {
	text, err := api.journal.Backup(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment("journal-"+c.Param("id")+".txt"))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
