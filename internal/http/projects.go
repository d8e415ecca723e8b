package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	workspacecmd "github.com/goliatone/go-scribe/internal/commands/workspace"
	"github.com/goliatone/go-scribe/internal/domain"
)

type projectsResponse struct {
	Projects         []*domain.Project `json:"projects"`
	CurrentProjectID string            `json:"currentProjectId"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type statsResponse struct {
	ProjectID string `json:"projectId"`
	Breaks    int    `json:"breaks"`
	WordCount int    `json:"wordCount"`
}

func (api *API) registerProjectRoutes(group *gin.RouterGroup) {
	group.GET("/projects", api.listProjects)
	group.POST("/projects", api.createProject)
	group.GET("/projects/:id", api.getProject)
	group.PATCH("/projects/:id", api.renameProject)
	group.DELETE("/projects/:id", api.deleteProject)
	group.POST("/projects/:id/select", api.selectProject)
	group.GET("/projects/:id/export", api.exportProject)
	group.GET("/projects/:id/stats", api.projectStats)
	group.POST("/import", api.importProject)
	group.GET("/workspace/current", api.currentProject)
	group.DELETE("/workspace", api.eraseWorkspace)
}

func (api *API) listProjects(c *gin.Context) {
	ctx := c.Request.Context()
	current, err := api.workspace.CurrentProject(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	projects, err := api.workspace.ListProjects(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectsResponse{Projects: projects, CurrentProjectID: current.ID})
}

func (api *API) createProject(c *gin.Context) {
	var req titleRequest
	if !bindJSON(c, &req) {
		return
	}
	result := &workspacecmd.Result{}
	if err := api.commands.CreateProject.Execute(c.Request.Context(), workspacecmd.CreateProjectCommand{
		Title:  req.Title,
		Result: result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result.Project)
}

func (api *API) getProject(c *gin.Context) {
	project, err := api.workspace.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (api *API) currentProject(c *gin.Context) {
	project, err := api.workspace.CurrentProject(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (api *API) renameProject(c *gin.Context) {
	var req titleRequest
	if !bindJSON(c, &req) {
		return
	}
	result := &workspacecmd.Result{}
	if err := api.commands.RenameProject.Execute(c.Request.Context(), workspacecmd.RenameProjectCommand{
		ProjectID: c.Param("id"),
		Title:     req.Title,
		Result:    result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Project)
}

// deleteProject responds with the project that is current after the delete.
func (api *API) deleteProject(c *gin.Context) {
	result := &workspacecmd.Result{}
	if err := api.commands.DeleteProject.Execute(c.Request.Context(), workspacecmd.DeleteProjectCommand{
		ProjectID: c.Param("id"),
		Result:    result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Project)
}

func (api *API) selectProject(c *gin.Context) {
	result := &workspacecmd.Result{}
	if err := api.commands.SelectProject.Execute(c.Request.Context(), workspacecmd.SelectProjectCommand{
		ProjectID: c.Param("id"),
		Result:    result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Project)
}

func (api *API) projectStats(c *gin.Context) {
	ctx := c.Request.Context()
	project, err := api.workspace.GetProject(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	total, err := api.workspace.TotalWordCount(ctx, project.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statsResponse{ProjectID: project.ID, Breaks: len(project.Breaks), WordCount: total})
}

// exportProject sends the project as a markdown attachment, or as the stored
// JSON document when format=json.
func (api *API) exportProject(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	export, err := api.workspace.ExportProject(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	if strings.EqualFold(strings.TrimSpace(c.Query("format")), "json") {
		data, err := api.workspace.ExportProjectJSON(ctx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		name := strings.TrimSuffix(export.FileName, ".md") + ".json"
		c.Header("Content-Disposition", attachment(name))
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
		return
	}

	c.Header("Content-Disposition", attachment(export.FileName))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(export.Markdown))
}

// importProject accepts either a multipart "file" field or a raw markdown body
// named by the "name" query parameter.
func (api *API) importProject(c *gin.Context) {
	name, source, ok := api.readUpload(c)
	if !ok {
		return
	}
	dryRun := parseBoolQuery(c.Query("dry_run"), false)
	result := &workspacecmd.Result{}
	if err := api.commands.ImportProject.Execute(c.Request.Context(), workspacecmd.ImportProjectCommand{
		Name:    name,
		Source:  source,
		Setext:  parseBoolQuery(c.Query("setext"), false),
		Preview: parseBoolQuery(c.Query("html"), false),
		DryRun:  dryRun,
		Result:  result,
	}); err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusCreated
	if dryRun {
		status = http.StatusOK
	}
	c.JSON(status, result.Outcome)
}

func (api *API) eraseWorkspace(c *gin.Context) {
	result := &workspacecmd.Result{}
	if err := api.commands.EraseWorkspace.Execute(c.Request.Context(), workspacecmd.EraseWorkspaceCommand{
		Confirm: parseBoolQuery(c.Query("confirm"), false),
		Result:  result,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Project)
}

func (api *API) readUpload(c *gin.Context) (string, []byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, api.maxImportBytes)
	name := strings.TrimSpace(c.Query("name"))

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		header, err := c.FormFile("file")
		if err != nil {
			if tooLarge(err) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error(), Code: codeBadRequest})
				return "", nil, false
			}
			badRequest(c, "multipart field \"file\" is required")
			return "", nil, false
		}
		file, err := header.Open()
		if err != nil {
			writeError(c, err)
			return "", nil, false
		}
		defer file.Close()
		source, err := io.ReadAll(file)
		if err != nil {
			writeError(c, err)
			return "", nil, false
		}
		if name == "" {
			name = header.Filename
		}
		return name, source, true
	}

	source, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if tooLarge(err) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error(), Code: codeBadRequest})
			return "", nil, false
		}
		badRequest(c, err.Error())
		return "", nil, false
	}
	return name, source, true
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
