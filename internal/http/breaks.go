package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	workspacecmd "github.com/goliatone/go-scribe/internal/commands/workspace"
)

type updateBreakRequest struct {
	Title   *string         `json:"title"`
	Content json.RawMessage `json:"content"`
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (api *API) registerBreakRoutes(group *gin.RouterGroup) {
	group.POST("/projects/:id/breaks", api.addBreak)
	group.POST("/projects/:id/reorder", api.reorderBreak)
	group.PATCH("/projects/:id/breaks/:breakId", api.updateBreak)
	group.DELETE("/projects/:id/breaks/:breakId", api.removeBreak)
	group.POST("/projects/:id/breaks/:breakId/switch", api.switchBreak)
}

func (api *API) addBreak(c *gin.Context) {
	var req titleRequest
	if !bindJSON(c, &req) {
		return
	}
	result := &workspacecmd.Result{}
	if err := api.commands.AddBreak.Execute(c.Request.Context(), workspacecmd.AddBreakCommand{
		ProjectID: c.Param("id"),
		Title:     req.Title,
		Result:    result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result.Project)
}

func (api *API) updateBreak(c *gin.Context) {
	var req updateBreakRequest
	if !bindJSON(c, &req) {
		return
	}
	result := &workspacecmd.Result{}
	if err := api.commands.UpdateBreak.Execute(c.Request.Context(), workspacecmd.UpdateBreakCommand{
		ProjectID: c.Param("id"),
		BreakID:   c.Param("breakId"),
		Title:     req.Title,
		Content:   contentValue(req.Content),
		Result:    result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Project)
}

func (api *API) removeBreak(c *gin.Context) {
	result := &workspacecmd.Result{}
	if err := api.commands.RemoveBreak.Execute(c.Request.Context(), workspacecmd.RemoveBreakCommand{
		ProjectID: c.Param("id"),
		BreakID:   c.Param("breakId"),
		Result:    result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Project)
}

func (api *API) switchBreak(c *gin.Context) {
	result := &workspacecmd.Result{}
	if err := api.commands.SwitchBreak.Execute(c.Request.Context(), workspacecmd.SwitchBreakCommand{
		ProjectID: c.Param("id"),
		BreakID:   c.Param("breakId"),
		Result:    result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Project)
}

func (api *API) reorderBreak(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	result := &workspacecmd.Result{}
	if err := api.commands.ReorderBreak.Execute(c.Request.Context(), workspacecmd.ReorderBreakCommand{
		ProjectID: c.Param("id"),
		From:      req.From,
		To:        req.To,
		Result:    result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Project)
}
